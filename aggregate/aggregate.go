// Package aggregate implements per-kind folds turning samples collected on every tick into a
// single payload sent on flush ticks.
package aggregate

// Aggregator accumulates samples of type S and produces payloads.
type Aggregator[S any] interface {
	// Accumulate is called on every tick of the channel.
	Accumulate(sample S)

	// Flush is called on flush ticks only. When send is false the payload must not be sent.
	Flush() (payload any, send bool)
}

// emptyGate suppresses consecutive empty payloads. Exactly one empty payload passes after a
// non-empty one so receivers may clear their state.
type emptyGate struct {
	lastEmpty bool
}

func newEmptyGate() emptyGate {
	return emptyGate{lastEmpty: true}
}

func (g *emptyGate) pass(empty bool) bool {
	if empty && g.lastEmpty {
		return false
	}
	g.lastEmpty = empty
	return true
}
