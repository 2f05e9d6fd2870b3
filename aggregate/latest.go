package aggregate

var _ Aggregator[int] = &Latest[int]{}

// NewLatest creates aggregator sending the latest value whenever it changes.
func NewLatest[T comparable]() *Latest[T] {
	return &Latest[T]{}
}

// Latest is used by one-shot kinds like device info.
type Latest[T comparable] struct {
	value   T
	has     bool
	sent    T
	hasSent bool
}

// Accumulate implements Aggregator.
func (a *Latest[T]) Accumulate(value T) {
	a.value = value
	a.has = true
}

// Flush implements Aggregator.
func (a *Latest[T]) Flush() (any, bool) {
	if !a.has || (a.hasSent && a.sent == a.value) {
		return nil, false
	}
	a.sent = a.value
	a.hasSent = true

	value := a.value
	return &value, true
}
