package idwallet

import (
	"io"

	"github.com/sirupsen/logrus"
)

// discardLogger is the logger of a Wallet that was not given one.
func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.Out = io.Discard
	return l
}

// WithLogger makes the wallet log its progress to l. Secrets are never logged.
func WithLogger(l logrus.FieldLogger) Option {
	return func(w *Wallet) {
		if l != nil {
			w.log = l
		}
	}
}
