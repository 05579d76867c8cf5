package device

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"github.com/eg4lux/luxpower/internal/config"
	"github.com/eg4lux/luxpower/internal/registry"
	"github.com/eg4lux/luxpower/internal/transport"
	"github.com/eg4lux/luxpower/pkg/logger"
)

// Module provides the fully-wired device hierarchy to the Fx
// application: one Station built from configuration, connected and
// ready to poll.
var Module = fx.Module("device",
	fx.Provide(ProvideStation),
)

// ProvideStation builds a transport, and an Inverter or MID façade, for
// every configured device, connects each one, groups them by
// configuration group name, and assembles the result into a Station.
func ProvideStation(cfg *config.Config, log logger.Logger) (*Station, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	groups := make(map[string]*ParallelGroup)
	var order []string

	ctx := context.Background()
	for _, dc := range cfg.Devices {
		t, err := buildTransport(dc)
		if err != nil {
			return nil, fmt.Errorf("device %s: %w", dc.ID, err)
		}
		if err := t.Connect(ctx); err != nil {
			return nil, fmt.Errorf("device %s: connect: %w", dc.ID, err)
		}

		family, err := resolveFamily(ctx, dc, t)
		if err != nil {
			return nil, fmt.Errorf("device %s: %w", dc.ID, err)
		}

		groupKey := dc.Group
		if groupKey == "" {
			groupKey = dc.ID
		}
		g, ok := groups[groupKey]
		if !ok {
			g = &ParallelGroup{Name: groupKey}
			groups[groupKey] = g
			order = append(order, groupKey)
		}

		if family == registry.FamilyGridBOSS {
			g.MID = NewMID(dc.ID, t, log)
			continue
		}
		g.Inverters = append(g.Inverters, NewInverter(dc.ID, family, t, dc.RatedPowerKW, log))
	}

	station := &Station{Name: "station"}
	for _, key := range order {
		station.Groups = append(station.Groups, groups[key])
	}
	return station, nil
}

func resolveFamily(ctx context.Context, dc config.DeviceConfig, t transport.Transport) (registry.ModelFamily, error) {
	if dc.Family != "auto" {
		return registry.ModelFamily(dc.Family), nil
	}
	return DetectDeviceType(ctx, t)
}

func buildTransport(dc config.DeviceConfig) (transport.Transport, error) {
	cfg := transport.DefaultConfig()
	if dc.Timeout > 0 {
		cfg.Timeout = dc.Timeout
	}
	if dc.Retries > 0 {
		cfg.Retries = dc.Retries
	}
	if dc.RetryDelay > 0 {
		cfg.RetryDelay = dc.RetryDelay
	}

	switch dc.Transport {
	case "modbus_tcp":
		return transport.NewModbusTCP(dc.Host, dc.Port, byte(dc.SlaveID), cfg), nil
	case "modbus_rtu":
		sc := transport.SerialConfig{Device: dc.SerialDevice, BaudRate: dc.BaudRate}
		return transport.NewModbusRTU(sc, dc.SlaveID, cfg), nil
	case "dongle":
		return transport.NewDongle(dc.Host, dc.Port, dc.DongleSerial, dc.InverterSerial, cfg), nil
	default:
		return nil, fmt.Errorf("unknown transport kind %q", dc.Transport)
	}
}
