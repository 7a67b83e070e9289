// Package simreader simulates the serial RFID reader and writer used by the
// inventory service, for the development stand-in.
package simreader

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/erazemk/rfidash/internal/tagdata"
)

// DefaultInterval is the pause between two read cycles.
const DefaultInterval = time.Second

var (
	// ErrAlreadyReading is returned by Start while the read loop runs.
	ErrAlreadyReading = errors.New("reading already in progress")

	// ErrNotReading is returned by Stop when the read loop is not running.
	ErrNotReading = errors.New("reading is not active")
)

// TagFunc is called from the read loop for every tag that enters the field.
type TagFunc func(ctx context.Context, epc string)

// Reader is a simulated reader. Tags placed in its field are reported once by
// the next read cycle.
type Reader struct {
	interval time.Duration

	mu          sync.Mutex
	field       []string
	lastWritten string
	cancel      context.CancelFunc
	done        chan struct{}
}

// New returns a stopped reader cycling every interval. A non-positive interval
// uses DefaultInterval.
func New(interval time.Duration) *Reader {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Reader{interval: interval}
}

// Start launches the continuous read loop. onTag runs on the loop goroutine.
func (r *Reader) Start(onTag TagFunc) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		return ErrAlreadyReading
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.done = make(chan struct{})
	go r.loop(ctx, onTag, r.done)

	slog.Info("simulated reader started", "interval", r.interval)
	return nil
}

// Stop ends the read loop and waits for it to exit.
func (r *Reader) Stop() error {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.cancel, r.done = nil, nil
	r.mu.Unlock()

	if cancel == nil {
		return ErrNotReading
	}
	cancel()
	<-done

	slog.Info("simulated reader stopped")
	return nil
}

// Reading reports whether the read loop is running.
func (r *Reader) Reading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel != nil
}

// Place puts a tag into the reader's field.
func (r *Reader) Place(epc string) error {
	if err := tagdata.Validate(epc); err != nil {
		return err
	}
	r.mu.Lock()
	r.field = append(r.field, epc)
	r.mu.Unlock()
	return nil
}

// Write writes payload to the tag held against the writer.
func (r *Reader) Write(payload string) error {
	cmd, err := WriteFrame(payload)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.lastWritten = payload
	r.mu.Unlock()

	slog.Info("simulated tag written", "payload", payload, "frame", fmt.Sprintf("% X", cmd))
	return nil
}

// LastWritten returns the most recently written payload.
func (r *Reader) LastWritten() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastWritten
}

func (r *Reader) loop(ctx context.Context, onTag TagFunc, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		tags := r.drain()
		if len(tags) == 0 {
			continue
		}
		epcs, err := ParseNotifications(r.response(tags))
		if err != nil {
			slog.Warn("simulated reader response", "error", err)
		}
		for _, epc := range epcs {
			slog.Debug("simulated tag read", "epc", epc, "hex", tagdata.ToHex(epc))
			if onTag != nil {
				onTag(ctx, epc)
			}
		}
	}
}

// response is what the serial reader answers to ReadCommand with tags in its
// field.
func (r *Reader) response(tags []string) []byte {
	var buf []byte
	for _, epc := range tags {
		buf = append(buf, NotificationFrame(epc)...)
	}
	return buf
}

func (r *Reader) drain() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	tags := r.field
	r.field = nil
	return tags
}
