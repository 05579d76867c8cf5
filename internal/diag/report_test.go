package diag

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eg4lux/luxpower/internal/decode"
	"github.com/eg4lux/luxpower/internal/registry"
)

func sampleReport() *Report {
	return &Report{
		Serial:    "1234567890",
		Family:    registry.FamilyEG4Hybrid,
		Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Input:     decode.Snapshot{0: 10, 1: 20},
		Holding:   decode.Snapshot{5: 99},
		Errors:    []string{"input 200-399: timeout"},
	}
}

func TestSanitizeSerialMasksAllButLastFour(t *testing.T) {
	assert.Equal(t, "XXXXXX7890", sanitizeSerial("1234567890"))
	assert.Equal(t, "XX", sanitizeSerial("ab"))
}

func TestFormatJSONSanitizesSerial(t *testing.T) {
	r := sampleReport()
	out, err := r.FormatJSON(true)
	require.NoError(t, err)

	var parsed jsonReport
	require.NoError(t, json.Unmarshal(out, &parsed))
	assert.Equal(t, "XXXXXX7890", parsed.Serial)
	assert.Equal(t, uint16(10), parsed.Input["0"])
}

func TestFormatJSONUnsanitizedKeepsFullSerial(t *testing.T) {
	r := sampleReport()
	out, err := r.FormatJSON(false)
	require.NoError(t, err)

	var parsed jsonReport
	require.NoError(t, json.Unmarshal(out, &parsed))
	assert.Equal(t, "1234567890", parsed.Serial)
}

func TestFormatMarkdownIncludesErrorsSection(t *testing.T) {
	r := sampleReport()
	md := string(r.FormatMarkdown(true))

	assert.Contains(t, md, "## Errors")
	assert.Contains(t, md, "input 200-399: timeout")
	assert.Contains(t, md, "0x000A") // register 0 value 10 in hex
}

func TestFormatCSVRowsSortedByAddress(t *testing.T) {
	r := sampleReport()
	out, err := r.FormatCSV()
	require.NoError(t, err)

	csvText := string(out)
	assert.Contains(t, csvText, "input,0,10,0x000A")
	assert.Contains(t, csvText, "holding,5,99,0x0063")
}

func TestFormatBinaryRoundTripsAddressAndValue(t *testing.T) {
	r := sampleReport()
	bin := r.FormatBinary()

	// record 0: bank=0 (input), addr=0 big-endian, value=10 big-endian
	require.GreaterOrEqual(t, len(bin), 5)
	assert.Equal(t, byte(0), bin[0])
	assert.Equal(t, uint16(0), uint16(bin[1])<<8|uint16(bin[2]))
	assert.Equal(t, uint16(10), uint16(bin[3])<<8|uint16(bin[4]))
}

func TestFileBaseNameUsesUnknownForEmptySerial(t *testing.T) {
	r := sampleReport()
	r.Serial = ""
	name := r.FileBaseName(true)
	assert.Contains(t, name, "diag_unknown_")
}

func TestWriteZIPContainsAllFourFormats(t *testing.T) {
	r := sampleReport()
	var buf bytes.Buffer
	require.NoError(t, r.WriteZIP(&buf, true))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	assert.ElementsMatch(t, []string{"data.bin", "data.csv", "data.json", "data.md"}, names)
}
