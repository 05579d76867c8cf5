// Package probe implements the battery rotation probe: repeated atomic
// reads of the 4-slot battery telemetry block, used by operational
// tooling to characterize how an inverter's firmware round-robins
// physical battery modules through the fixed-size register window.
package probe

import (
	"context"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/eg4lux/luxpower/internal/data"
	"github.com/eg4lux/luxpower/internal/decode"
	"github.com/eg4lux/luxpower/internal/registry"
)

// Reader is the minimal transport capability the probe needs: a single
// atomic register-group read. Any of the concrete transports satisfy
// it directly.
type Reader interface {
	ReadGroup(ctx context.Context, start, count uint16, input bool) (decode.Snapshot, error)
}

// DefaultIterations returns the recommended number of probe iterations
// for a given battery_count reading: enough passes to expect every
// physical module to rotate through the visible slots at least three
// times, with a floor of 6.
func DefaultIterations(batteryCount int) int {
	n := int(math.Ceil(float64(batteryCount)/4.0)) * 3
	if n < 6 {
		n = 6
	}
	return n
}

// DefaultDelay returns the recommended inter-read delay: the dongle
// transport is far slower per-transaction, so it gets a longer delay
// to avoid spending the whole probe budget on transport latency
// instead of observing rotation.
func DefaultDelay(isDongle bool) time.Duration {
	if isDongle {
		return 15 * time.Second
	}
	return 1 * time.Second
}

// IterationRecord is one probe pass: the slot positions visible at
// that moment (the "page key"), the serials seen, and timing relative
// to the start of the run.
type IterationRecord struct {
	Index   int
	Elapsed time.Duration
	Delta   time.Duration
	PageKey []uint8
	Serials []string
	Empty   bool
	Failed  bool
}

func pageKeyString(key []uint8) string {
	if len(key) == 0 {
		return ""
	}
	parts := make([]string, len(key))
	for i, p := range key {
		parts[i] = strconv.Itoa(int(p))
	}
	return strings.Join(parts, ",")
}

// RunIterations reads the atomic 120-register battery block repeatedly,
// sleeping delay between reads, and returns one record per iteration.
// A read failure does not abort the run; it is recorded and the probe
// continues after the delay.
func RunIterations(ctx context.Context, r Reader, iterations int, delay time.Duration) []IterationRecord {
	records := make([]IterationRecord, 0, iterations)
	start := time.Now()
	prev := start

	for iter := 0; iter < iterations; iter++ {
		now := time.Now()
		elapsed := now.Sub(start)
		var delta time.Duration
		if iter > 0 {
			delta = now.Sub(prev)
		}
		prev = now

		snap, err := r.ReadGroup(ctx, registry.BatteryBlockBase, registry.BatteryBlockCount, true)
		if err != nil {
			records = append(records, IterationRecord{Index: iter, Elapsed: elapsed, Delta: delta, Failed: true})
			sleepOrDone(ctx, delay, iter, iterations)
			continue
		}

		bank := data.DecodeBatteryBank(snap)
		positions := make([]uint8, 0, len(bank.Modules))
		serials := make([]string, 0, len(bank.Modules))
		for _, m := range bank.Modules {
			positions = append(positions, m.Position)
			if m.Serial != "" {
				serials = append(serials, m.Serial)
			}
		}
		sort.Slice(positions, func(i, j int) bool { return positions[i] < positions[j] })

		records = append(records, IterationRecord{
			Index:   iter,
			Elapsed: elapsed,
			Delta:   delta,
			PageKey: positions,
			Serials: serials,
			Empty:   len(positions) == 0,
		})

		sleepOrDone(ctx, delay, iter, iterations)
	}
	return records
}

func sleepOrDone(ctx context.Context, delay time.Duration, iter, iterations int) {
	if iter >= iterations-1 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(delay):
	}
}

// Transition records a page-key change observed between two iterations.
type Transition struct {
	From, To  []uint8
	ElapsedAt time.Duration
}

// Analysis summarizes a completed probe run: page frequency, the
// sequence of rotation transitions, timing estimates, per-page hold
// durations, and read reliability.
type Analysis struct {
	Total, Valid, Empty, Failed int

	PageFrequency map[string]int
	PageOrder     []string // page keys in descending frequency order

	Transitions []Transition

	MeanInterval, MinInterval, MaxInterval time.Duration
	EstimatedFullCycle                     time.Duration

	HoldDurations map[string][]time.Duration
}

// Analyze computes rotation statistics from a completed probe run.
func Analyze(records []IterationRecord) Analysis {
	a := Analysis{
		Total:         len(records),
		PageFrequency: make(map[string]int),
		HoldDurations: make(map[string][]time.Duration),
	}

	nonEmpty := make([]IterationRecord, 0, len(records))
	for _, r := range records {
		if r.Failed {
			a.Failed++
			continue
		}
		if r.Empty {
			a.Empty++
			continue
		}
		nonEmpty = append(nonEmpty, r)
		a.PageFrequency[pageKeyString(r.PageKey)]++
	}
	a.Valid = len(nonEmpty)

	a.PageOrder = sortedByFrequencyDesc(a.PageFrequency)

	var prevKey string
	var prevPage []uint8
	havePrev := false
	for _, r := range records {
		if r.Failed {
			continue
		}
		key := pageKeyString(r.PageKey)
		if havePrev && key != prevKey && len(r.PageKey) > 0 {
			a.Transitions = append(a.Transitions, Transition{From: prevPage, To: r.PageKey, ElapsedAt: r.Elapsed})
		}
		if len(r.PageKey) > 0 {
			prevKey, prevPage, havePrev = key, r.PageKey, true
		}
	}

	if len(a.Transitions) >= 2 {
		intervals := make([]time.Duration, 0, len(a.Transitions)-1)
		for i := 1; i < len(a.Transitions); i++ {
			intervals = append(intervals, a.Transitions[i].ElapsedAt-a.Transitions[i-1].ElapsedAt)
		}
		sum := time.Duration(0)
		min, max := intervals[0], intervals[0]
		for _, iv := range intervals {
			sum += iv
			if iv < min {
				min = iv
			}
			if iv > max {
				max = iv
			}
		}
		a.MeanInterval = sum / time.Duration(len(intervals))
		a.MinInterval, a.MaxInterval = min, max
		a.EstimatedFullCycle = a.MeanInterval * time.Duration(len(a.PageFrequency))
	}

	if len(nonEmpty) > 0 {
		runStart := nonEmpty[0].Elapsed
		runKey := pageKeyString(nonEmpty[0].PageKey)
		for _, r := range nonEmpty[1:] {
			key := pageKeyString(r.PageKey)
			if key != runKey {
				a.HoldDurations[runKey] = append(a.HoldDurations[runKey], r.Elapsed-runStart)
				runStart, runKey = r.Elapsed, key
			}
		}
	}

	return a
}

func sortedByFrequencyDesc(freq map[string]int) []string {
	keys := make([]string, 0, len(freq))
	for k := range freq {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if freq[keys[i]] != freq[keys[j]] {
			return freq[keys[i]] > freq[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}
