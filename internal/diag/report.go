package diag

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// sanitizeSerial masks all but the last four characters of a serial
// number, matching the reference tool's default redaction so a report
// attached to a public issue doesn't leak a device's full serial.
func sanitizeSerial(serial string) string {
	if len(serial) <= 4 {
		return strings.Repeat("X", len(serial))
	}
	return strings.Repeat("X", len(serial)-4) + serial[len(serial)-4:]
}

func sortedAddrs(snap map[uint16]uint16) []uint16 {
	addrs := make([]uint16, 0, len(snap))
	for addr := range snap {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	return addrs
}

type jsonReport struct {
	Serial    string            `json:"serial"`
	Family    string            `json:"family"`
	Timestamp string            `json:"timestamp"`
	Input     map[string]uint16 `json:"input_registers"`
	Holding   map[string]uint16 `json:"holding_registers"`
	Errors    []string          `json:"errors,omitempty"`
}

func (r *Report) toJSONReport(sanitize bool) jsonReport {
	serial := r.Serial
	if sanitize {
		serial = sanitizeSerial(serial)
	}
	input := make(map[string]uint16, len(r.Input))
	for addr, v := range r.Input {
		input[fmt.Sprintf("%d", addr)] = v
	}
	holding := make(map[string]uint16, len(r.Holding))
	for addr, v := range r.Holding {
		holding[fmt.Sprintf("%d", addr)] = v
	}
	return jsonReport{
		Serial:    serial,
		Family:    string(r.Family),
		Timestamp: r.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
		Input:     input,
		Holding:   holding,
		Errors:    r.Errors,
	}
}

// FormatJSON renders the report as indented JSON.
func (r *Report) FormatJSON(sanitize bool) ([]byte, error) {
	return json.MarshalIndent(r.toJSONReport(sanitize), "", "  ")
}

// FormatMarkdown renders the report as a human-readable Markdown
// document suitable for pasting into a GitHub issue.
func (r *Report) FormatMarkdown(sanitize bool) []byte {
	serial := r.Serial
	if sanitize {
		serial = sanitizeSerial(serial)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# Diagnostic Report — %s\n\n", serial)
	fmt.Fprintf(&b, "- Family: %s\n", r.Family)
	fmt.Fprintf(&b, "- Collected: %s\n", r.Timestamp.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "- Input registers: %d\n", len(r.Input))
	fmt.Fprintf(&b, "- Holding registers: %d\n\n", len(r.Holding))

	if len(r.Errors) > 0 {
		b.WriteString("## Errors\n\n")
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "- %s\n", e)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Input Registers\n\n| Address | Value | Hex |\n|---|---|---|\n")
	for _, addr := range sortedAddrs(r.Input) {
		fmt.Fprintf(&b, "| %d | %d | 0x%04X |\n", addr, r.Input[addr], r.Input[addr])
	}

	b.WriteString("\n## Holding Registers\n\n| Address | Value | Hex |\n|---|---|---|\n")
	for _, addr := range sortedAddrs(r.Holding) {
		fmt.Fprintf(&b, "| %d | %d | 0x%04X |\n", addr, r.Holding[addr], r.Holding[addr])
	}
	return []byte(b.String())
}

// FormatCSV renders both register maps as one flat CSV: bank, address,
// value.
func (r *Report) FormatCSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"bank", "address", "value", "hex"}); err != nil {
		return nil, err
	}
	for _, addr := range sortedAddrs(r.Input) {
		if err := w.Write([]string{"input", fmt.Sprintf("%d", addr), fmt.Sprintf("%d", r.Input[addr]), fmt.Sprintf("0x%04X", r.Input[addr])}); err != nil {
			return nil, err
		}
	}
	for _, addr := range sortedAddrs(r.Holding) {
		if err := w.Write([]string{"holding", fmt.Sprintf("%d", addr), fmt.Sprintf("%d", r.Holding[addr]), fmt.Sprintf("0x%04X", r.Holding[addr])}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// FormatBinary renders both register maps as a raw big-endian dump:
// a bank marker byte (0 = input, 1 = holding) followed by address and
// value, each uint16, one record per register — for offline byte-level
// analysis tools that don't want to parse JSON.
func (r *Report) FormatBinary() []byte {
	var buf bytes.Buffer
	for _, addr := range sortedAddrs(r.Input) {
		buf.WriteByte(0)
		binary.Write(&buf, binary.BigEndian, addr)
		binary.Write(&buf, binary.BigEndian, r.Input[addr])
	}
	for _, addr := range sortedAddrs(r.Holding) {
		buf.WriteByte(1)
		binary.Write(&buf, binary.BigEndian, addr)
		binary.Write(&buf, binary.BigEndian, r.Holding[addr])
	}
	return buf.Bytes()
}

// FileBaseName derives the archive/file base name from the report,
// applying the same sanitization as the content formatters so the
// filename itself doesn't leak an unmasked serial.
func (r *Report) FileBaseName(sanitize bool) string {
	serial := r.Serial
	if sanitize {
		serial = sanitizeSerial(serial)
	}
	if serial == "" {
		serial = "unknown"
	}
	return fmt.Sprintf("diag_%s_%s", serial, r.Timestamp.Format("20060102_150405"))
}

// WriteZIP bundles data.json, data.md, data.csv, and data.bin into a
// single ZIP archive written to w.
func (r *Report) WriteZIP(w io.Writer, sanitize bool) error {
	zw := zip.NewWriter(w)

	jsonBytes, err := r.FormatJSON(sanitize)
	if err != nil {
		return fmt.Errorf("format json: %w", err)
	}
	csvBytes, err := r.FormatCSV()
	if err != nil {
		return fmt.Errorf("format csv: %w", err)
	}

	files := map[string][]byte{
		"data.json": jsonBytes,
		"data.md":   r.FormatMarkdown(sanitize),
		"data.csv":  csvBytes,
		"data.bin":  r.FormatBinary(),
	}
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fw, err := zw.Create(name)
		if err != nil {
			return fmt.Errorf("create %s: %w", name, err)
		}
		if _, err := fw.Write(files[name]); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}

	return zw.Close()
}
