package observability

import (
	"strings"

	"github.com/uptrace/uptrace-go/uptrace"

	"github.com/riskibarqy/haxball-league/internal/config"
	"github.com/riskibarqy/haxball-league/internal/platform/logging"
)

// startUptrace installs the global OpenTelemetry providers. Without it the
// otel API stays on its no-op provider and every span is free.
func startUptrace(cfg config.Config, logger *logging.Logger) (stopFunc, error) {
	dsn := strings.TrimSpace(cfg.UptraceDSN)
	if !cfg.UptraceEnabled || dsn == "" {
		logger.Info("tracing disabled", "uptrace_enabled", cfg.UptraceEnabled, "dsn_set", dsn != "")
		return noop, nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(dsn),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
	)
	logger.Info("tracing to uptrace", "service", cfg.ServiceName, "env", cfg.AppEnv)
	return uptrace.Shutdown, nil
}
