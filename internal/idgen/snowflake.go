// Package idgen issues 64-bit snowflake identifiers.
//
// Layout, most significant bit first:
//
//	1 bit  | 41 bit              | 10 bit     | 12 bit
//	0      | ms since epoch      | machine id | sequence
//
// IDs from one Generator are strictly increasing. IDs from generators with
// different machine ids carry no ordering relative to each other.
package idgen

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

const (
	// Epoch is 2024-01-01T00:00:00Z in unix milliseconds.
	Epoch int64 = 1704067200000

	timestampBits = 41
	machineBits   = 10
	sequenceBits  = 12

	MaxMachineID = (1 << machineBits) - 1  // 1023
	maxSequence  = (1 << sequenceBits) - 1 // 4095

	machineShift   = sequenceBits
	timestampShift = sequenceBits + machineBits
)

var (
	ErrInvalidMachineID    = errors.New("machine id must be between 0 and 1023")
	ErrClockMovedBackwards = errors.New("clock moved backwards, refusing to generate id")
	ErrEpochExhausted      = errors.New("timestamp exceeds 41-bit range")
)

// Clock returns the current time in unix milliseconds.
type Clock func() int64

func systemClock() int64 {
	return time.Now().UnixMilli()
}

// Generator is safe for concurrent use. Its state is never shared between instances.
type Generator struct {
	mu            sync.Mutex
	machineID     int64
	sequence      int64
	lastTimestamp int64
	now           Clock
}

type Option func(*Generator)

// WithClock replaces the wall clock, mostly for tests.
func WithClock(c Clock) Option {
	return func(g *Generator) {
		g.now = c
	}
}

func NewGenerator(machineID int64, opts ...Option) (*Generator, error) {
	if machineID < 0 || machineID > MaxMachineID {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidMachineID, machineID)
	}

	g := &Generator{
		machineID:     machineID,
		lastTimestamp: -1,
		now:           systemClock,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// MachineID returns the machine id baked into every generated id.
func (g *Generator) MachineID() int64 {
	return g.machineID
}

// NextID returns the next identifier. A clock that moved backwards is fatal for
// the call: no id is returned and the generator state is left untouched.
func (g *Generator) NextID() (int64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	timestamp := g.now()

	if timestamp < g.lastTimestamp {
		return 0, fmt.Errorf("%w: last=%d, current=%d",
			ErrClockMovedBackwards, g.lastTimestamp, timestamp)
	}

	sequence := int64(0)
	if timestamp == g.lastTimestamp {
		sequence = (g.sequence + 1) & maxSequence
		if sequence == 0 {
			// 4096 ids in this millisecond, spin until the next one
			timestamp = g.waitNextMillisecond(g.lastTimestamp)
		}
	}

	offset := timestamp - Epoch
	if offset < 0 || offset >= 1<<timestampBits {
		return 0, fmt.Errorf("%w: offset=%d", ErrEpochExhausted, offset)
	}

	g.sequence = sequence
	g.lastTimestamp = timestamp

	return (offset << timestampShift) |
		(g.machineID << machineShift) |
		sequence, nil
}

// waitNextMillisecond busy-waits until the clock passes last. The wait is
// bounded by one millisecond of wall time and holds only the generator lock.
func (g *Generator) waitNextMillisecond(last int64) int64 {
	timestamp := g.now()
	for timestamp <= last {
		timestamp = g.now()
	}
	return timestamp
}

// Info is a decomposed identifier.
type Info struct {
	ID        int64     `json:"id"`
	Time      time.Time `json:"time"`
	MachineID int64     `json:"machine_id"`
	Sequence  int64     `json:"sequence"`
}

// Parse splits an id into its components.
func Parse(id int64) Info {
	return Info{
		ID:        id,
		Time:      time.UnixMilli((id >> timestampShift) + Epoch).UTC(),
		MachineID: (id >> machineShift) & MaxMachineID,
		Sequence:  id & maxSequence,
	}
}

func (i Info) String() string {
	return fmt.Sprintf("id=%d time=%s machine=%d seq=%d",
		i.ID, i.Time.Format(time.RFC3339Nano), i.MachineID, i.Sequence)
}
