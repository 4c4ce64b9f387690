package peerquery

import (
	"sort"

	"github.com/willcl-ark/bitcoin-tui/internal/model"
)

// CollectFields discovers the queryable field paths across a peer set:
// dot-separated paths to every scalar leaf. Objects recurse; arrays never
// contribute a path. The result is deduplicated and sorted.
func CollectFields(peers []model.Peer) []string {
	seen := map[string]struct{}{}
	for i := range peers {
		collect(peers[i].Tree(), "", seen)
	}
	out := make([]string, 0, len(seen))
	for f := range seen {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

func collect(v any, prefix string, seen map[string]struct{}) {
	switch tv := v.(type) {
	case map[string]any:
		for k, child := range tv {
			path := k
			if prefix != "" {
				path = prefix + "." + k
			}
			collect(child, path, seen)
		}
	case []any:
		// opaque
	default:
		if prefix != "" {
			seen[prefix] = struct{}{}
		}
	}
}
