package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/inkwellapp/inkwell-server/internal/logger"
	"github.com/inkwellapp/inkwell-server/internal/service"
)

// SessionJanitor runs the hourly expired-session sweep.
type SessionJanitor struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *SessionJanitor) Shutdown() error {
	j.cancel()
	return nil
}

// ProvideSessionJanitor starts the background sweep of expired sessions.
func ProvideSessionJanitor(i do.Injector) (*SessionJanitor, error) {
	sessionService := do.MustInvoke[*service.SessionService](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())
	sessionService.StartJanitor(ctx)

	log.Info("Session janitor started")

	return &SessionJanitor{cancel: cancel}, nil
}
