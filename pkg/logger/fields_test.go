package logger

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStringFieldCarriesKeyAndValue(t *testing.T) {
	f := String("device_serial", "ABC123")
	assert.Equal(t, "device_serial", f.Key())
	assert.Equal(t, "ABC123", f.Value())
}

func TestErrFieldUsesErrorMessageAsValue(t *testing.T) {
	f := Err(errors.New("connection reset"))
	assert.Equal(t, "error", f.Key())
	assert.Equal(t, "connection reset", f.Value())
}

func TestErrFieldNilErrorYieldsNilValue(t *testing.T) {
	f := Err(nil)
	assert.Nil(t, f.Value())
}

func TestStringerFieldCallsStringMethod(t *testing.T) {
	f := Stringer("duration", stubStringer("3m"))
	assert.Equal(t, "3m", f.Value())
}

func TestStringerFieldNilStringerYieldsNilValue(t *testing.T) {
	f := Stringer("duration", nil)
	assert.Nil(t, f.Value())
}

func TestDurationAndTimeFieldsPreserveTypedValues(t *testing.T) {
	d := 5 * time.Second
	now := time.Now()

	assert.Equal(t, d, Duration("elapsed", d).Value())
	assert.Equal(t, now, Time("timestamp", now).Value())
}

type stubStringer string

func (s stubStringer) String() string { return string(s) }

var _ fmt.Stringer = stubStringer("")
