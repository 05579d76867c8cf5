package diag

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eg4lux/luxpower/internal/decode"
	"github.com/eg4lux/luxpower/internal/registry"
)

// fakeReader returns one canned snapshot per range, or an error for
// ranges whose start matches a configured failing start address.
type fakeReader struct {
	responses map[uint16]decode.Snapshot
	failing   map[uint16]bool
}

func (f *fakeReader) ReadGroup(ctx context.Context, start, count uint16, input bool) (decode.Snapshot, error) {
	if f.failing[start] {
		return nil, errors.New("simulated transport failure")
	}
	return f.responses[start], nil
}

func TestCollectMergesMultipleRanges(t *testing.T) {
	r := &fakeReader{
		responses: map[uint16]decode.Snapshot{
			0:   {0: 10, 1: 20},
			200: {200: 30},
		},
	}
	report := Collect(context.Background(), r, "SN123", registry.FamilyEG4Hybrid,
		[]RegisterRange{{Start: 0, Count: 2}, {Start: 200, Count: 1}}, nil)

	assert.Equal(t, "SN123", report.Serial)
	assert.Equal(t, uint16(10), report.Input[0])
	assert.Equal(t, uint16(30), report.Input[200])
	assert.Empty(t, report.Errors)
}

func TestCollectRecordsPartialFailureWithoutAborting(t *testing.T) {
	r := &fakeReader{
		responses: map[uint16]decode.Snapshot{0: {0: 1}},
		failing:   map[uint16]bool{200: true},
	}
	report := Collect(context.Background(), r, "SN123", registry.FamilyEG4Hybrid,
		[]RegisterRange{{Start: 0, Count: 1}, {Start: 200, Count: 1}}, nil)

	assert.Equal(t, uint16(1), report.Input[0])
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "input 200-200")
}

func TestCollectHoldingRanges(t *testing.T) {
	r := &fakeReader{
		responses: map[uint16]decode.Snapshot{0: {0: 42}},
	}
	report := Collect(context.Background(), r, "SN123", registry.FamilyEG4Hybrid,
		nil, []RegisterRange{{Start: 0, Count: 1}})

	assert.Equal(t, uint16(42), report.Holding[0])
}
