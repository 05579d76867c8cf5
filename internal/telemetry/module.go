package telemetry

import (
	"context"

	"go.uber.org/fx"
)

// Module wires the telemetry poller into the Fx application lifecycle:
// it starts polling once the device station and optional sinks are
// ready, and stops cleanly on shutdown.
var Module = fx.Module("telemetry",
	fx.Provide(NewPoller),
	fx.Invoke(registerLifecycle),
)

func registerLifecycle(lc fx.Lifecycle, poller *Poller) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			poller.Start(context.Background())
			return nil
		},
		OnStop: func(ctx context.Context) error {
			poller.Stop()
			return nil
		},
	})
}
