package model

import "encoding/json"

// Peer is one getpeerinfo entry. Known fields are typed for direct access;
// the full decoded value tree is retained so queries can traverse fields
// this struct does not know about.
type Peer struct {
	ID                    int64    `json:"id"`
	Addr                  string   `json:"addr"`
	Network               string   `json:"network"`
	SubVer                string   `json:"subver"`
	Version               uint64   `json:"version"`
	Inbound               bool     `json:"inbound"`
	BytesSent             uint64   `json:"bytessent"`
	BytesRecv             uint64   `json:"bytesrecv"`
	SyncedHeaders         int64    `json:"synced_headers"`
	SyncedBlocks          int64    `json:"synced_blocks"`
	PingTime              *float64 `json:"pingtime"`
	ConnTime              int64    `json:"conntime"`
	ConnectionType        string   `json:"connection_type"`
	TransportProtocolType string   `json:"transport_protocol_type"`

	tree map[string]any
}

func (p *Peer) UnmarshalJSON(data []byte) error {
	type plain Peer
	if err := json.Unmarshal(data, (*plain)(p)); err != nil {
		return err
	}
	return json.Unmarshal(data, &p.tree)
}

// Tree returns the generic value tree of the peer record: nested
// map[string]any / []any with string, float64, bool and nil leaves.
func (p *Peer) Tree() map[string]any {
	return p.tree
}

// NewPeerFromTree builds a Peer directly from a value tree. Intended for
// tests; production peers come from UnmarshalJSON.
func NewPeerFromTree(tree map[string]any) Peer {
	raw, err := json.Marshal(tree)
	if err != nil {
		return Peer{tree: tree}
	}
	var p Peer
	if err := json.Unmarshal(raw, &p); err != nil {
		return Peer{tree: tree}
	}
	return p
}
