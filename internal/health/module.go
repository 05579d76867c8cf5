package health

import (
	"fmt"

	"go.uber.org/fx"

	"github.com/eg4lux/luxpower/internal/device"
)

// Module provides health check functionality to the Fx application
var Module = fx.Module("health",
	fx.Provide(ProvideHealthService),
)

// ProvideHealthService creates a health service and registers one
// connectivity checker per configured inverter and per GridBOSS
// companion across the whole station.
func ProvideHealthService(station *device.Station) *HealthService {
	healthService := NewHealthService()

	for _, group := range station.Groups {
		for _, inv := range group.Inverters {
			healthService.RegisterChecker(NewServiceChecker(fmt.Sprintf("inverter_%s", inv.Serial), inv))
		}
		if group.MID != nil {
			healthService.RegisterChecker(NewServiceChecker(fmt.Sprintf("gridboss_%s", group.MID.Serial), group.MID))
		}
	}

	if proc, err := NewProcessChecker(1024); err == nil {
		healthService.RegisterChecker(proc)
	}

	return healthService
}
