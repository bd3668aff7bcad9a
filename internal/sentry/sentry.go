package sentry

import (
	"time"

	"github.com/getsentry/sentry-go"
)

// Init configures the sentry hub. A missing dsn leaves reporting disabled
// and RecoverPanic becomes a plain re-panic.
func Init(dsn string) error {
	if dsn == "" {
		return nil
	}
	return sentry.Init(sentry.ClientOptions{Dsn: dsn})
}

func RecoverPanic() {
	if err := recover(); err != nil {
		sentry.CurrentHub().Recover(err)
		sentry.Flush(time.Second * 2)
		panic(err)
	}
}
