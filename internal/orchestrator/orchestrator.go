// Package orchestrator implements the Register-Group Orchestrator: it
// walks a transport's declared register groups in sequence, folding each
// group's read into one combined snapshot, applying an adaptive delay
// between groups that doubles (capped at one second) whenever the
// previous group needed a retry, and triggering a reconnect before the
// walk starts if the transport's consecutive-error counter has reached
// its threshold.
//
// Grounded on the reference implementation's BaseModbusTransport, which
// overrides the data-mixin's group-read method to add exactly this
// auto-reconnect-then-adaptive-pacing behavior on top of a plain
// per-group read loop.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/eg4lux/luxpower/internal/decode"
	"github.com/eg4lux/luxpower/internal/registry"
	"github.com/eg4lux/luxpower/internal/transport"
	"github.com/eg4lux/luxpower/internal/xerrors"
	"github.com/eg4lux/luxpower/pkg/logger"
)

// Reconnector is satisfied by transport.Transport; split out so the
// orchestrator's tests can fake just the bits they exercise.
type Reconnector interface {
	ConsecutiveErrors() int
	MaxConsecutiveErrors() int
	Reconnect(ctx context.Context) error
}

// Reader is satisfied by transport.Transport.
type Reader interface {
	ReadGroup(ctx context.Context, start, count uint16, input bool) (decode.Snapshot, error)
}

// Transport is the minimal surface the orchestrator needs from a
// concrete transport.
type Transport interface {
	Reader
	Reconnector
}

var _ Transport = transport.Transport(nil)

// Orchestrator sequences register-group reads over one transport with
// adaptive inter-group pacing.
type Orchestrator struct {
	t                  Transport
	interGroupDelay    time.Duration
	maxInterGroupDelay time.Duration
}

// New builds an Orchestrator. interGroupDelay is the starting pacing
// delay between groups (doubled on retries, capped at one second).
func New(t Transport, interGroupDelay time.Duration) *Orchestrator {
	if interGroupDelay <= 0 {
		interGroupDelay = 50 * time.Millisecond
	}
	return &Orchestrator{t: t, interGroupDelay: interGroupDelay, maxInterGroupDelay: time.Second}
}

// RetryObserver lets a transport report whether its most recently
// completed ReadGroup call needed at least one retry, so the
// orchestrator can widen its inter-group pacing. Concrete transports
// that embed transport.Core satisfy this.
type RetryObserver interface {
	LastReadRetried() bool
}

// ReadAllInput reads every group in groups (in order) as input
// registers, folding them into one snapshot. A non-supplementary group
// failure aborts the whole read; a supplementary group's failure is
// logged away and the walk continues with whatever was already
// collected.
func (o *Orchestrator) ReadAllInput(ctx context.Context, groups []registry.RegisterGroup) (decode.Snapshot, error) {
	return o.readGroups(ctx, groups, true)
}

// ReadAllHolding reads every group in groups as holding registers.
func (o *Orchestrator) ReadAllHolding(ctx context.Context, groups []registry.RegisterGroup) (decode.Snapshot, error) {
	return o.readGroups(ctx, groups, false)
}

func (o *Orchestrator) readGroups(ctx context.Context, groups []registry.RegisterGroup, input bool) (decode.Snapshot, error) {
	if o.t.ConsecutiveErrors() >= o.t.MaxConsecutiveErrors() {
		if err := o.t.Reconnect(ctx); err != nil {
			return nil, fmt.Errorf("orchestrator reconnect before group read: %w", err)
		}
	}

	snap := make(decode.Snapshot)
	currentDelay := o.interGroupDelay
	retryObserver, _ := o.t.(RetryObserver)

	for i, group := range groups {
		groupSnap, err := o.t.ReadGroup(ctx, group.Start, group.Count, input)
		if err != nil {
			if group.Supplementary {
				logger.Warn("supplementary register group read failed, continuing without it",
					logger.String("group", group.Name), logger.Err(err))
				continue
			}
			return nil, fmt.Errorf("read register group %q: %w", group.Name, err)
		}
		snap.Merge(groupSnap)

		if retryObserver != nil && retryObserver.LastReadRetried() {
			currentDelay *= 2
			if currentDelay > o.maxInterGroupDelay {
				currentDelay = o.maxInterGroupDelay
			}
		}

		if i < len(groups)-1 {
			select {
			case <-ctx.Done():
				return nil, &xerrors.TimeoutError{Op: "orchestrator inter-group pacing", Cause: ctx.Err()}
			case <-time.After(currentDelay):
			}
		}
	}

	return snap, nil
}
