package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"barangay/pkg/types"
)

func (e *Engine) Application(ctx context.Context, applicationID int64) (*types.Application, error) {
	return e.applications.Application(ctx, applicationID)
}

// Certificate renders the certificate for an application without changing
// it. A service that no longer resolves falls back to the general template.
func (e *Engine) Certificate(ctx context.Context, applicationID int64) (*types.CertificateDocument, error) {
	app, err := e.applications.Application(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	return e.render(ctx, app)
}

// GenerateCertificate marks the application as generated and renders it.
func (e *Engine) GenerateCertificate(ctx context.Context, applicationID int64) (*types.CertificateDocument, error) {
	app, err := e.MarkGenerated(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	return e.render(ctx, app)
}

func (e *Engine) render(ctx context.Context, app *types.Application) (*types.CertificateDocument, error) {
	if e.renderer == nil {
		return nil, errors.New("no certificate renderer configured")
	}

	user, err := e.residents.User(ctx, app.ApplicantID)
	if err != nil {
		return nil, err
	}

	service, err := e.services.Service(ctx, app.ServiceType, app.ServiceID)
	if err != nil {
		if !errors.Is(err, types.ErrServiceNotFound) {
			return nil, fmt.Errorf("failed to load service for application %d: %w", app.ID, err)
		}
		e.logger.WithField("application_id", app.ID).Warn("service not found, rendering general certificate")
		service = nil
	}

	return e.renderer.Render(app, user, service)
}
