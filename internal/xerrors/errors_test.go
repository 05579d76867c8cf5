package xerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectionErrorFormatsWithAndWithoutCause(t *testing.T) {
	bare := &ConnectionError{Op: "dial"}
	assert.Equal(t, "connection error: dial", bare.Error())

	wrapped := &ConnectionError{Op: "dial", Cause: errors.New("refused")}
	assert.Equal(t, "connection error: dial: refused", wrapped.Error())
	assert.ErrorIs(t, wrapped, wrapped.Cause)
}

func TestUnsupportedOperationErrorFormat(t *testing.T) {
	err := &UnsupportedOperationError{Op: "firmware_history", Transport: "modbus_tcp"}
	assert.Equal(t, "firmware_history is not supported over modbus_tcp transport", err.Error())
}

func TestDeviceErrorFormat(t *testing.T) {
	err := &DeviceError{Serial: "ABC123", Reason: "not a GridBOSS"}
	assert.Equal(t, "device ABC123: not a GridBOSS", err.Error())
}

func TestValidationErrorFormat(t *testing.T) {
	err := &ValidationError{Field: "slave_id", Value: 255, Rule: "must be 1-247"}
	assert.Equal(t, "invalid slave_id=255: must be 1-247", err.Error())
}

func TestIsRetryableForTimeoutAndReadErrors(t *testing.T) {
	assert.True(t, IsRetryable(&TimeoutError{Op: "read"}))
	assert.True(t, IsRetryable(&ReadError{Op: "read"}))
}

func TestIsRetryableFalseForOtherKinds(t *testing.T) {
	assert.False(t, IsRetryable(&ConnectionError{Op: "dial"}))
	assert.False(t, IsRetryable(&WriteError{Op: "write"}))
	assert.False(t, IsRetryable(&DeviceError{Serial: "x", Reason: "bad"}))
	assert.False(t, IsRetryable(errors.New("plain error")))
}

func TestErrorsAsMatchesWrappedKind(t *testing.T) {
	var target *ReadError
	err := error(&ReadError{Op: "read_holding", Cause: errors.New("crc mismatch")})
	assert.True(t, errors.As(err, &target))
	assert.Equal(t, "read_holding", target.Op)
}
