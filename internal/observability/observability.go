// Package observability starts the process-wide telemetry: Uptrace tracing,
// Pyroscope continuous profiling and an on-demand pprof listener.
package observability

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/haxball-league/internal/config"
	"github.com/riskibarqy/haxball-league/internal/platform/logging"
)

type stopFunc func(context.Context) error

func noop(context.Context) error { return nil }

type component struct {
	name  string
	start func(config.Config, *logging.Logger) (stopFunc, error)
}

var components = []component{
	{name: "uptrace", start: startUptrace},
	{name: "pyroscope", start: startPyroscope},
	{name: "pprof", start: startPprof},
}

// Setup starts every component cfg enables. The returned shutdown stops them
// in reverse order and reports all failures. When a component fails to start
// the ones already running are stopped before Setup returns.
func Setup(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("observability")

	var stops []stopFunc
	shutdown := func(ctx context.Context) error {
		var errs []error
		for i := len(stops) - 1; i >= 0; i-- {
			if err := stops[i](ctx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}

	for _, c := range components {
		stop, err := c.start(cfg, logger)
		if err != nil {
			_ = shutdown(context.Background())
			return nil, fmt.Errorf("start %s: %w", c.name, err)
		}
		stops = append(stops, func(ctx context.Context) error {
			if err := stop(ctx); err != nil {
				return fmt.Errorf("stop %s: %w", c.name, err)
			}
			return nil
		})
	}
	return shutdown, nil
}
