package log

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jrick/logrotate/rotator"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Log is the logger for the submission pipeline.
	Log = newLogger("MINT")
	// Srv is the logger for the API server.
	Srv = newLogger("SRV")
	// Sync is the logger for the ledger sync loop.
	Sync = newLogger("SYNC")
)

// logRotator is one of the logging outputs. It should be closed on
// application shutdown.
var logRotator *rotator.Rotator

type logWriter struct{}

func (logWriter) Write(p []byte) (n int, err error) {
	_, _ = os.Stdout.Write(p)
	if logRotator != nil {
		_, _ = logRotator.Write(p)
	}
	return len(p), nil
}

func newLogger(name string) *zap.SugaredLogger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(logWriter{}),
		zap.InfoLevel,
	)
	return zap.New(core).Named(name).Sugar()
}

// InitLogRotator initializes the logging rotator to write logs to logFile and
// create roll files in the same directory. It must be called before the
// package-level loggers are relied on for file output.
func InitLogRotator(logFile string) {
	logDir, _ := filepath.Split(logFile)
	err := os.MkdirAll(logDir, 0700)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create log directory: %v\n", err)
		os.Exit(1)
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create file rotator: %v\n", err)
		os.Exit(1)
	}
	logRotator = r
}

// CloseLogRotator flushes pending writes and closes the rotator.
func CloseLogRotator() {
	if logRotator != nil {
		_ = logRotator.Close()
	}
}
