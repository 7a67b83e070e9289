// Package reader tracks the state of the RFID reader behind the inventory
// service and guards the transitions between idle, reading and writing.
package reader

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/erazemk/rfidash/internal/tagdata"
)

// Status is the reader state shown on the dashboard.
type Status string

// Reader states.
const (
	StatusIdle    Status = "idle"
	StatusReading Status = "reading"
	StatusWriting Status = "writing"
)

// Mode selects what the service does with tags seen while reading.
type Mode string

// Reading modes.
const (
	ModeEntries Mode = "entries"
	ModeExits   Mode = "exits"
)

var (
	// ErrBusy is returned while another reader operation is in flight.
	ErrBusy = errors.New("reader operation already in progress")

	// ErrInvalidTransition is returned when an operation is not allowed from
	// the current state.
	ErrInvalidTransition = errors.New("reader operation not allowed in current state")
)

// Service is the remote reader control surface.
type Service interface {
	StartReading(ctx context.Context) (string, error)
	StartReadingExits(ctx context.Context) (string, error)
	StopReading(ctx context.Context) (string, error)
	WriteTag(ctx context.Context, data string) (string, error)
}

// State is a snapshot of the controller.
type State struct {
	Status  Status
	Mode    Mode
	Pending bool
}

// Listener is notified after every status change.
type Listener func(old, new Status)

// Controller is the reader state machine. Transitions only happen when the
// remote call they depend on succeeds, except writing which always returns
// to idle. It is safe for concurrent use.
type Controller struct {
	svc Service

	mu        sync.Mutex
	status    Status
	mode      Mode
	pending   bool
	listeners []Listener

	// events queues status changes for delivery in order. Only the goroutine
	// that set notifying delivers them.
	events    []change
	notifying bool
}

type change struct {
	old, new Status
}

// New returns an idle controller for svc.
func New(svc Service) *Controller {
	return &Controller{svc: svc, status: StatusIdle}
}

// OnChange registers a listener. Listeners run outside the controller lock,
// one change at a time and in the order the changes happened; the last
// notification always matches the current status.
func (c *Controller) OnChange(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{Status: c.status, Mode: c.mode, Pending: c.pending}
}

// StartReading switches the reader to continuous reading in the given mode.
func (c *Controller) StartReading(ctx context.Context, mode Mode) (string, error) {
	var call func(context.Context) (string, error)
	switch mode {
	case ModeEntries:
		call = c.svc.StartReading
	case ModeExits:
		call = c.svc.StartReadingExits
	default:
		return "", fmt.Errorf("unknown reading mode %q", mode)
	}

	if err := c.begin(StatusIdle, ""); err != nil {
		return "", err
	}
	msg, err := call(ctx)
	if err != nil {
		c.finish(StatusIdle, "")
		return "", fmt.Errorf("starting reader: %w", err)
	}
	c.finish(StatusReading, mode)
	return msg, nil
}

// StopReading returns a reading reader to idle. If the service fails to stop
// the reader, it is still considered reading.
func (c *Controller) StopReading(ctx context.Context) (string, error) {
	if err := c.begin(StatusReading, ""); err != nil {
		return "", err
	}
	mode := c.State().Mode

	msg, err := c.svc.StopReading(ctx)
	if err != nil {
		c.finish(StatusReading, mode)
		return "", fmt.Errorf("stopping reader: %w", err)
	}
	c.finish(StatusIdle, "")
	return msg, nil
}

// WriteTag writes payload to the tag in the writer's field. The reader must
// be idle; it is writing for the duration of the call and idle afterwards
// whatever the outcome.
func (c *Controller) WriteTag(ctx context.Context, payload string) (string, error) {
	if err := tagdata.Validate(payload); err != nil {
		return "", err
	}
	if err := c.begin(StatusIdle, StatusWriting); err != nil {
		return "", err
	}
	defer c.finish(StatusIdle, "")

	msg, err := c.svc.WriteTag(ctx, payload)
	if err != nil {
		return "", fmt.Errorf("writing tag: %w", err)
	}
	return msg, nil
}

// begin marks an operation pending if the reader is in state from. A non-empty
// enter status is applied immediately.
func (c *Controller) begin(from, enter Status) error {
	c.mu.Lock()
	if c.pending {
		c.mu.Unlock()
		return ErrBusy
	}
	if c.status != from {
		status := c.status
		c.mu.Unlock()
		return fmt.Errorf("%w: reader is %s", ErrInvalidTransition, status)
	}
	c.pending = true
	if enter == "" {
		c.mu.Unlock()
		return nil
	}
	c.set(enter, c.mode)
	c.mu.Unlock()
	c.notify()
	return nil
}

// finish clears the pending flag and moves to status.
func (c *Controller) finish(status Status, mode Mode) {
	c.mu.Lock()
	c.pending = false
	c.set(status, mode)
	c.mu.Unlock()
	c.notify()
}

// set must be called with mu held. A status change is queued for notify.
func (c *Controller) set(status Status, mode Mode) {
	old := c.status
	c.status = status
	c.mode = mode
	if old != status {
		c.events = append(c.events, change{old: old, new: status})
	}
}

// notify delivers queued changes unless another goroutine already is.
func (c *Controller) notify() {
	c.mu.Lock()
	if c.notifying {
		c.mu.Unlock()
		return
	}
	c.notifying = true
	for len(c.events) > 0 {
		ev := c.events[0]
		c.events = c.events[1:]
		listeners := append([]Listener(nil), c.listeners...)
		c.mu.Unlock()

		for _, l := range listeners {
			l(ev.old, ev.new)
		}

		c.mu.Lock()
	}
	c.notifying = false
	c.mu.Unlock()
}
