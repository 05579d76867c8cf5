package transport

import (
	"sync"
	"time"
)

// Config holds the tunables of the Transport Core's retry/reconnect
// policy, grounded on BaseModbusTransport's __init__ defaults.
type Config struct {
	Timeout             time.Duration
	Retries             int           // application-level retries per register read
	RetryDelay          time.Duration // initial backoff, doubles per attempt
	InterRegisterDelay  time.Duration // pacing between groups in a multi-group read
	MaxConsecutiveErrors int
}

// DefaultConfig mirrors BaseModbusTransport's defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:              10 * time.Second,
		Retries:              2,
		RetryDelay:           500 * time.Millisecond,
		InterRegisterDelay:   50 * time.Millisecond,
		MaxConsecutiveErrors: 3,
	}
}

// Core is the shared connection-state machine embedded by every
// Modbus-flavored transport. It tracks the consecutive-error counter and
// the last-read-retried flag that the orchestrator's adaptive
// inter-group pacing reads, and serializes all wire operations behind a
// single mutex (one mutex per transport instance serializes all
// read/write operations").
type Core struct {
	Config Config

	mu                sync.Mutex
	consecutiveErrors int
	lastReadRetried   bool
}

// NewCore builds a Core with the given policy.
func NewCore(cfg Config) *Core {
	return &Core{Config: cfg}
}

// Lock acquires the transport-wide mutex. Every wire operation in a
// concrete transport's ReadGroup/WriteRegisters must hold this for its
// duration.
func (c *Core) Lock()   { c.mu.Lock() }
func (c *Core) Unlock() { c.mu.Unlock() }

// ConsecutiveErrors returns the current consecutive-failure count.
func (c *Core) ConsecutiveErrors() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.consecutiveErrors
}

// MaxConsecutiveErrors returns the configured consecutive-failure
// threshold at which a caller should force a reconnect before the
// next read or write.
func (c *Core) MaxConsecutiveErrors() int {
	return c.Config.MaxConsecutiveErrors
}

// MaxConsecutiveErrors exposes each concrete transport's configured
// threshold, as the Transport interface requires.
func (t *ModbusTCP) MaxConsecutiveErrors() int { return t.core.MaxConsecutiveErrors() }
func (t *ModbusRTU) MaxConsecutiveErrors() int { return t.core.MaxConsecutiveErrors() }
func (t *Dongle) MaxConsecutiveErrors() int    { return t.core.MaxConsecutiveErrors() }

// RecordSuccess resets the consecutive-error counter — called by a
// concrete transport after any read/write that succeeded, retried or
// not. The retried flag is left as SetLastReadRetried set it.
func (c *Core) RecordSuccess() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.consecutiveErrors = 0
}

// RecordFailure increments the consecutive-error counter.
func (c *Core) RecordFailure() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.consecutiveErrors++
}

// SetLastReadRetried records whether the most recent read needed at
// least one retry, read by the orchestrator to double the inter-group
// delay.
func (c *Core) SetLastReadRetried(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastReadRetried = v
}

// LastReadRetried reports whether the most recent read needed a retry.
func (c *Core) LastReadRetried() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastReadRetried
}

// NeedsReconnect reports whether the consecutive-error counter has
// reached the configured threshold.
func (c *Core) NeedsReconnect() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.consecutiveErrorsUnlocked()
}

// consecutiveErrorsUnlocked returns the threshold check without
// acquiring mu; callers must already hold the lock.
func (c *Core) consecutiveErrorsUnlocked() bool {
	return c.consecutiveErrors >= c.Config.MaxConsecutiveErrors
}

// BackoffDelay returns the exponential backoff delay for the given
// zero-indexed retry attempt.
func (c *Core) BackoffDelay(attempt int) time.Duration {
	d := c.Config.RetryDelay
	for i := 0; i < attempt; i++ {
		d *= 2
	}
	return d
}

// ResetAfterReconnect clears the consecutive-error counter once a
// reconnect has completed.
func (c *Core) ResetAfterReconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.consecutiveErrors = 0
}
