package service

import (
	"time"

	"go.uber.org/zap"
)

// Notifier sends transactional emails. Failures never fail the request.
type Notifier interface {
	SendWelcomeEmail(to, name string) error
	SendAttendanceConfirmation(to, name, eventID, title, location string, date time.Time) error
}

type dispatcher struct {
	logger *zap.Logger
	run    func(func())
}

func newDispatcher(logger *zap.Logger) dispatcher {
	return dispatcher{
		logger: logger,
		run:    func(fn func()) { go fn() },
	}
}

// send runs fn in the background and logs its error.
func (d dispatcher) send(kind string, fn func() error) {
	d.run(func() {
		if err := fn(); err != nil {
			d.logger.Warn("notification failed", zap.String("kind", kind), zap.Error(err))
		}
	})
}
