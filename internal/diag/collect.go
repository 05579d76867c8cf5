// Package diag collects raw input/holding register dumps from a
// connected device into a Report, and serializes that report in the
// four formats an operator attaches to a GitHub issue: JSON, Markdown,
// CSV, and a raw binary dump. Grounded on the reference CLI's
// modbus_diag collector/formatter split, condensed into one library
// call plus one archive writer so cmd/diag stays a thin flag parser.
package diag

import (
	"context"
	"fmt"
	"time"

	"github.com/eg4lux/luxpower/internal/decode"
	"github.com/eg4lux/luxpower/internal/registry"
)

// Reader is the minimal register-access surface diag needs, satisfied
// directly by *device.Inverter and *device.MID.
type Reader interface {
	ReadGroup(ctx context.Context, start, count uint16, input bool) (decode.Snapshot, error)
}

// RegisterRange is one contiguous [Start, Start+Count) window to read.
type RegisterRange struct {
	Start uint16
	Count uint16
}

// DefaultInputRanges and DefaultHoldingRanges mirror the reference
// tool's default scan windows, wide enough to capture every
// catalog-declared field plus headroom for undocumented registers.
var (
	DefaultInputRanges   = []RegisterRange{{Start: 0, Count: 200}, {Start: 200, Count: 200}}
	DefaultHoldingRanges = []RegisterRange{{Start: 0, Count: 127}, {Start: 127, Count: 127}, {Start: 240, Count: 60}}
)

// Report is the full diagnostic snapshot of one device.
type Report struct {
	Serial    string
	Family    registry.ModelFamily
	Timestamp time.Time
	Input     decode.Snapshot
	Holding   decode.Snapshot
	Errors    []string
}

// Collect reads every configured register range from r, merging
// partial failures into Errors rather than aborting the whole
// collection — a single bad range (an unsupported extended block on an
// older firmware, say) shouldn't cost the operator the rest of the
// report.
func Collect(ctx context.Context, r Reader, serial string, family registry.ModelFamily, inputRanges, holdingRanges []RegisterRange) *Report {
	report := &Report{
		Serial:    serial,
		Family:    family,
		Timestamp: time.Now(),
		Input:     decode.Snapshot{},
		Holding:   decode.Snapshot{},
	}

	for _, rg := range inputRanges {
		snap, err := r.ReadGroup(ctx, rg.Start, rg.Count, true)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("input %d-%d: %v", rg.Start, rg.Start+rg.Count-1, err))
			continue
		}
		report.Input.Merge(snap)
	}

	for _, rg := range holdingRanges {
		snap, err := r.ReadGroup(ctx, rg.Start, rg.Count, false)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("holding %d-%d: %v", rg.Start, rg.Start+rg.Count-1, err))
			continue
		}
		report.Holding.Merge(snap)
	}

	return report
}
