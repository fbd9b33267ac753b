package observability

import (
	"context"
	"fmt"

	"github.com/grafana/pyroscope-go"

	"github.com/riskibarqy/haxball-league/internal/config"
	"github.com/riskibarqy/haxball-league/internal/platform/logging"
)

// Roster locks and the interaction pool are the contention points worth
// watching, hence the mutex and block profiles.
var profileTypes = []pyroscope.ProfileType{
	pyroscope.ProfileCPU,
	pyroscope.ProfileAllocSpace,
	pyroscope.ProfileInuseSpace,
	pyroscope.ProfileGoroutines,
	pyroscope.ProfileMutexDuration,
	pyroscope.ProfileBlockDuration,
}

func startPyroscope(cfg config.Config, logger *logging.Logger) (stopFunc, error) {
	if !cfg.PyroscopeEnabled {
		logger.Info("continuous profiling disabled")
		return noop, nil
	}

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName:   cfg.PyroscopeAppName,
		ServerAddress:     cfg.PyroscopeServerAddress,
		AuthToken:         cfg.PyroscopeAuthToken,
		BasicAuthUser:     cfg.PyroscopeBasicAuthUser,
		BasicAuthPassword: cfg.PyroscopeBasicAuthPassword,
		UploadRate:        cfg.PyroscopeUploadRate,
		Logger:            pyroscopeLogger{logger.Named("pyroscope")},
		Tags: map[string]string{
			"env":     cfg.AppEnv,
			"version": cfg.ServiceVersion,
		},
		ProfileTypes: profileTypes,
	})
	if err != nil {
		return nil, err
	}

	logger.Info("profiling to pyroscope", "server", cfg.PyroscopeServerAddress, "app", cfg.PyroscopeAppName)
	return func(context.Context) error { return profiler.Stop() }, nil
}

// pyroscopeLogger adapts the printf-style logger pyroscope expects.
type pyroscopeLogger struct{ l *logging.Logger }

func (p pyroscopeLogger) Infof(format string, args ...any) {
	p.l.Info(fmt.Sprintf(format, args...))
}

func (p pyroscopeLogger) Debugf(format string, args ...any) {
	p.l.Debug(fmt.Sprintf(format, args...))
}

func (p pyroscopeLogger) Errorf(format string, args ...any) {
	p.l.Error(fmt.Sprintf(format, args...))
}
