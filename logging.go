package fleetarchiver

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// logger is safe to use before InitLogging runs; it just drops output.
var logger = zap.NewNop().Sugar()

// InitLogging sets up the process logger: human-readable console output
// by default, JSON when requested for log collectors.
func InitLogging(jsonOutput bool) error {
	var zl *zap.Logger
	if jsonOutput {
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		built, err := cfg.Build()
		if err != nil {
			return err
		}
		zl = built
	} else {
		encCfg := zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		zl = zap.New(zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.AddSync(os.Stdout),
			zap.InfoLevel,
		))
	}
	logger = zl.Sugar()
	return nil
}

// Logger exposes the process logger for the command entrypoint.
func Logger() *zap.SugaredLogger {
	return logger
}
