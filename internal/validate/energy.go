package validate

import (
	"sync"
	"time"

	"github.com/eg4lux/luxpower/internal/data"
	"github.com/eg4lux/luxpower/pkg/logger"
)

// consecutiveRejectionEscape is the number of back-to-back monotonicity
// rejections after which the tracker accepts the next snapshot
// unconditionally, to escape a stuck state following a device service
// event or counter reset.
const consecutiveRejectionEscape = 3

type deviceState struct {
	lifetime        map[string]float64
	haveLifetime    bool
	consecutiveRejections int

	lastDaily     map[string]float64
	haveDaily     bool
	lastDailyTime time.Time
}

// EnergyValidator tracks per-device lifetime and daily energy history to
// accept or reject freshly decoded InverterEnergyData snapshots. A
// single validator is safe for concurrent use across multiple devices.
type EnergyValidator struct {
	log logger.Logger

	mu      sync.Mutex
	devices map[string]*deviceState
}

// NewEnergyValidator builds an EnergyValidator. log may be nil, in
// which case the package's global logger is used.
func NewEnergyValidator(log logger.Logger) *EnergyValidator {
	if log == nil {
		log = logger.GetLogger()
	}
	return &EnergyValidator{log: log.With(logger.String("component", "energy_validator")), devices: make(map[string]*deviceState)}
}

func (v *EnergyValidator) state(deviceID string) *deviceState {
	st, ok := v.devices[deviceID]
	if !ok {
		st = &deviceState{lifetime: make(map[string]float64), lastDaily: make(map[string]float64)}
		v.devices[deviceID] = st
	}
	return st
}

// Accept applies lifetime monotonicity and daily-bounds validation to
// an energy snapshot and reports whether it should replace the
// device's cache. ratedPowerKW of 0 falls back to a conservative
// default so the bounds checks still have a usable ceiling.
func (v *EnergyValidator) Accept(deviceID string, e *data.InverterEnergyData, ratedPowerKW float64) bool {
	if e == nil {
		return false
	}
	if ratedPowerKW <= 0 {
		ratedPowerKW = defaultRatedPowerKW
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	st := v.state(deviceID)

	lifetimeOK := v.checkLifetime(deviceID, st, e, ratedPowerKW)
	dailyOK := v.checkDaily(deviceID, st, e, ratedPowerKW)

	accepted := lifetimeOK && dailyOK
	if accepted {
		st.consecutiveRejections = 0
	} else {
		st.consecutiveRejections++
		if st.consecutiveRejections > consecutiveRejectionEscape {
			v.log.Warn("escaping stuck monotonicity state, accepting unconditionally",
				logger.String("device_id", deviceID), logger.Int("consecutive_rejections", st.consecutiveRejections))
			accepted = true
			st.consecutiveRejections = 0
		}
	}

	if accepted {
		for name, val := range e.LifetimeEnergyValues() {
			if val != nil {
				st.lifetime[name] = *val
			}
		}
		st.haveLifetime = true
		v.recordDaily(st, e)
	}
	return accepted
}

// defaultRatedPowerKW is the fallback used when a device's rated power
// is unknown (passed as 0). It deliberately overestimates, widening the
// bounds
// checks rather than rejecting plausible early readings.
const defaultRatedPowerKW = 15.0

func (v *EnergyValidator) checkLifetime(deviceID string, st *deviceState, e *data.InverterEnergyData, ratedPowerKW float64) bool {
	current := e.LifetimeEnergyValues()
	if !st.haveLifetime {
		return true
	}
	maxDelta := ratedPowerKW * 1.5
	for name, curPtr := range current {
		if curPtr == nil {
			continue
		}
		prev, ok := st.lifetime[name]
		if !ok {
			continue
		}
		cur := *curPtr
		if cur < prev {
			v.log.Warn("lifetime energy decreased", logger.String("device_id", deviceID), logger.String("field", name),
				logger.Float64("previous", prev), logger.Float64("current", cur))
			return false
		}
		if cur-prev > maxDelta {
			v.log.Warn("lifetime energy spike", logger.String("device_id", deviceID), logger.String("field", name),
				logger.Float64("previous", prev), logger.Float64("current", cur), logger.Float64("max_delta", maxDelta))
			return false
		}
	}
	return true
}

func (v *EnergyValidator) checkDaily(deviceID string, st *deviceState, e *data.InverterEnergyData, ratedPowerKW float64) bool {
	absCap := ratedPowerKW * 24
	dailyFields := map[string]*float64{
		"pv_energy_today":         e.PVEnergyToday,
		"charge_energy_today":     e.ChargeEnergyToday,
		"discharge_energy_today":  e.DischargeEnergyToday,
		"grid_import_today":       e.GridImportToday,
		"grid_export_today":       e.GridExportToday,
		"load_energy_today":       e.LoadEnergyToday,
		"eps_energy_today":        e.EPSEnergyToday,
		"inverter_energy_today":   e.InverterEnergyToday,
		"generator_energy_today":  e.GeneratorEnergyToday,
	}
	for name, curPtr := range dailyFields {
		if curPtr == nil {
			continue
		}
		if *curPtr > absCap {
			v.log.Warn("daily energy exceeds absolute cap", logger.String("device_id", deviceID), logger.String("field", name),
				logger.Float64("value", *curPtr), logger.Float64("cap", absCap))
			return false
		}
	}

	if st.haveDaily {
		elapsed := time.Since(st.lastDailyTime).Seconds()
		if elapsed > 0 {
			maxDelta := ratedPowerKW * elapsed / 3600 * 1.5
			for name, curPtr := range dailyFields {
				if curPtr == nil {
					continue
				}
				prev, ok := st.lastDaily[name]
				if !ok {
					continue
				}
				if *curPtr-prev > maxDelta {
					v.log.Warn("daily energy delta exceeds elapsed-time bound", logger.String("device_id", deviceID),
						logger.String("field", name), logger.Float64("delta", *curPtr-prev), logger.Float64("max_delta", maxDelta))
					return false
				}
			}
		}
	}
	return true
}

func (v *EnergyValidator) recordDaily(st *deviceState, e *data.InverterEnergyData) {
	dailyFields := map[string]*float64{
		"pv_energy_today":        e.PVEnergyToday,
		"charge_energy_today":    e.ChargeEnergyToday,
		"discharge_energy_today": e.DischargeEnergyToday,
		"grid_import_today":      e.GridImportToday,
		"grid_export_today":      e.GridExportToday,
		"load_energy_today":      e.LoadEnergyToday,
		"eps_energy_today":       e.EPSEnergyToday,
		"inverter_energy_today":  e.InverterEnergyToday,
		"generator_energy_today": e.GeneratorEnergyToday,
	}
	for name, val := range dailyFields {
		if val != nil {
			st.lastDaily[name] = *val
		}
	}
	st.haveDaily = true
	st.lastDailyTime = time.Now()
}
