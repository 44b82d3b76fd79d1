package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log stays a no-op logger until InitLogger runs.
var Log = zap.NewNop()

// InitLogger builds the process logger. An empty logFile logs to stdout only.
func InitLogger(debug bool, logFile string) {
	var err error
	Log, err = Build(debug, logFile)
	if err != nil {
		panic(fmt.Sprintf("failed to initialise logger: %v", err))
	}
}

func Build(debug bool, logFile string) (*zap.Logger, error) {
	var logEncoding string

	level := zap.NewAtomicLevel()
	if debug {
		level.SetLevel(zap.DebugLevel)
		logEncoding = "console"
	} else {
		level.SetLevel(zap.InfoLevel)
		logEncoding = "json"
	}

	outputs := []string{"stdout"}
	if logFile != "" {
		outputs = append(outputs, logFile)
	}

	cfg := zap.Config{
		Level:            level,
		Encoding:         logEncoding,
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:   "msg",
			LevelKey:     "level",
			TimeKey:      "time",
			CallerKey:    "caller",
			EncodeLevel:  zapcore.LowercaseLevelEncoder,
			EncodeTime:   zapcore.ISO8601TimeEncoder,
			EncodeCaller: zapcore.ShortCallerEncoder,
		},
	}

	return cfg.Build()
}
