// Package fence implements the sequence-number discipline that keeps stale
// asynchronous completions from being applied to state. Each user-triggered
// call site owns one Slot; a completion is honored only when its tag matches
// the slot's current in-flight sequence, so visible state always reflects
// the most recently issued request even when results arrive out of order.
//
// Superseded operations are not canceled; they run to completion and their
// results are discarded on arrival.
package fence

import (
	"context"

	"github.com/willcl-ark/bitcoin-tui/internal/model"
)

// Slot tracks the fencing state of one call site. A Slot is owned by the
// state owner goroutine and is not safe for concurrent use.
type Slot struct {
	seq      uint64
	inFlight uint64
	busy     bool
}

// Issue advances the sequence, marks it in flight and returns the tag to
// attach to the spawned operation.
func (s *Slot) Issue() uint64 {
	s.seq++
	s.inFlight = s.seq
	s.busy = true
	return s.seq
}

// Accept reports whether a completion carrying tag should be applied. An
// accepted completion clears the in-flight marker; a stale tag is discarded
// without touching it.
func (s *Slot) Accept(tag uint64) bool {
	if !s.busy || tag != s.inFlight {
		return false
	}
	s.busy = false
	return true
}

// InFlight reports whether a request issued on this slot has not completed.
// The PSBT site uses this to refuse overlapping mutations.
func (s *Slot) InFlight() bool {
	return s.busy
}

// Dispatch issues a new sequence on slot and runs op in the background,
// delivering a tagged RequestComplete to sink. The returned sequence is the
// tag the completion will carry.
func Dispatch(
	ctx context.Context,
	slot *Slot,
	sink chan<- model.Event,
	site model.CallSite,
	op func(context.Context) (any, error),
) uint64 {
	seq := slot.Issue()
	go func() {
		v, err := op(ctx)
		select {
		case sink <- model.RequestComplete{Site: site, Seq: seq, Result: model.FailErr(v, err)}:
		case <-ctx.Done():
		}
	}()
	return seq
}

// DispatchUnfenced runs op in the background without a slot; the completion
// carries a zero tag and is always applied. Used by fire-and-forget sites
// such as the wallet list refresh.
func DispatchUnfenced(
	ctx context.Context,
	sink chan<- model.Event,
	site model.CallSite,
	op func(context.Context) (any, error),
) {
	go func() {
		v, err := op(ctx)
		select {
		case sink <- model.RequestComplete{Site: site, Result: model.FailErr(v, err)}:
		case <-ctx.Done():
		}
	}()
}
