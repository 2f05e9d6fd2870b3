package channel

import (
	"time"

	"github.com/pkg/errors"

	"github.com/outofforest/pulse/aggregate"
	"github.com/outofforest/pulse/schedule"
	"github.com/outofforest/pulse/wire"
)

// State is the state of the channel.
type State int

// States.
const (
	Idle State = iota
	Registered
	Sending
	ReceivingOnly
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Registered:
		return "Registered"
	case Sending:
		return "Sending"
	case ReceivingOnly:
		return "ReceivingOnly"
	case Stopped:
		return "Stopped"
	default:
		return "Unknown"
	}
}

// ErrInvalidTransition is returned when operation is not allowed in the current state.
var ErrInvalidTransition = errors.New("invalid channel state transition")

// Config is the configuration of the channel.
type Config struct {
	Kind        wire.Kind
	Reliability wire.Reliability
}

// Runner is the channel with the sample type erased, as it is driven by the device.
type Runner interface {
	Kind() wire.Kind
	Reliability() wire.Reliability
	State() State
	Register() error
	Activate(sendAllowed bool) error
	Tick(now time.Time) (payload any, send bool)
	Stop()
}

// Factory creates new channel. Channels can't be restarted, so device creates new ones for every
// connection.
type Factory func() Runner

var _ Runner = &Channel[int]{}

// New creates channel sending payloads of the kind. Source is called on every sending tick to
// obtain the sample.
func New[S any](
	config Config,
	aggregator aggregate.Aggregator[S],
	source func() S,
	scheduler schedule.Scheduler,
) *Channel[S] {
	return &Channel[S]{
		config:     config,
		aggregator: aggregator,
		source:     source,
		scheduler:  scheduler,
	}
}

// Channel binds kind with its aggregator and scheduler.
// It is driven by the tick loop of the device and is not safe for concurrent use.
type Channel[S any] struct {
	config     Config
	aggregator aggregate.Aggregator[S]
	source     func() S
	scheduler  schedule.Scheduler

	state   State
	started bool
}

// Kind returns the kind of the channel.
func (c *Channel[S]) Kind() wire.Kind {
	return c.config.Kind
}

// Reliability returns the reliability used to send payloads.
func (c *Channel[S]) Reliability() wire.Reliability {
	return c.config.Reliability
}

// State returns the current state.
func (c *Channel[S]) State() State {
	return c.state
}

// Register moves idle channel to the registered state.
func (c *Channel[S]) Register() error {
	if c.state != Idle {
		return errors.Wrapf(ErrInvalidTransition, "registering %s channel in state %s", c.config.Kind, c.state)
	}
	c.state = Registered
	return nil
}

// Activate is called once connection is established. Channel starts sending if sendAllowed is true.
func (c *Channel[S]) Activate(sendAllowed bool) error {
	if c.state != Registered {
		return errors.Wrapf(ErrInvalidTransition, "activating %s channel in state %s", c.config.Kind, c.state)
	}
	if sendAllowed {
		c.state = Sending
	} else {
		c.state = ReceivingOnly
	}
	return nil
}

// Tick accumulates the sample and returns payload if this is the flush tick.
func (c *Channel[S]) Tick(now time.Time) (any, bool) {
	if c.state != Sending {
		return nil, false
	}

	if !c.started {
		c.scheduler.Start(now)
		c.started = true
	}

	c.aggregator.Accumulate(c.source())
	if !c.scheduler.Tick(now) {
		return nil, false
	}
	return c.aggregator.Flush()
}

// Stop stops the channel. Samples accumulated since the last flush are discarded.
func (c *Channel[S]) Stop() {
	if c.state == Stopped {
		return
	}
	c.state = Stopped
	c.aggregator = nil
	c.source = nil
	c.scheduler = nil
}
