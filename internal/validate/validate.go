// Package validate implements the corruption canaries and temporal
// validation rules that decide whether a freshly decoded snapshot is
// trustworthy enough to replace a device's cached data. None of these
// checks are surfaced to the caller as an error: a failure means "keep
// serving the previous cache," logged as a warning by the device layer.
package validate

import (
	"github.com/eg4lux/luxpower/internal/data"
)

// RuntimeCorrupt reports whether a runtime snapshot, together with the
// battery bank read alongside it, is physically implausible and should
// be discarded in favor of the previous cache. ratedPowerKW of 0 means
// the device's rated power is not yet known; the power-magnitude canary
// is skipped in that case (maxPowerWatts <= 0 disables it).
func RuntimeCorrupt(d *data.InverterRuntimeData, bank *data.BatteryBankData, ratedPowerKW float64) bool {
	if d == nil {
		return false
	}
	maxPowerWatts := ratedPowerKW * 2000
	if d.IsCorrupt(maxPowerWatts) {
		return true
	}
	if bank != nil && bank.IsCorrupt() {
		return true
	}
	return false
}
