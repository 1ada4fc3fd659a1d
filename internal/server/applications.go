package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"barangay/internal/certificate"
	"barangay/internal/lifecycle"
	"barangay/internal/numbering"
	"barangay/pkg/types"
)

const requestTimeout = 30 * time.Second

type statusForm struct {
	Status      string `form:"status"`
	Remarks     string `form:"remarks"`
	PickupReady bool   `form:"pickup_ready"`
	Version     int64  `form:"version"`
}

type processForm struct {
	Remarks string `form:"remarks"`
}

type requirementLink struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

type applicationResponse struct {
	Application      *types.Application        `json:"application"`
	State            string                    `json:"state"`
	ReferenceNumber  string                    `json:"referenceNumber"`
	Notice           string                    `json:"notice,omitempty"`
	Error            string                    `json:"error,omitempty"`
	RequirementLinks []requirementLink         `json:"requirementLinks"`
	Events           []*types.ApplicationEvent `json:"events"`
}

type generateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func applicationPath(id int64) string {
	return fmt.Sprintf("/admin/applications/%d", id)
}

func applicationID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// userMessage is the only error text a caller ever sees.
func userMessage(err error, fallback string) string {
	switch {
	case errors.Is(err, types.ErrApplicationNotFound):
		return "Application not found"
	case errors.Is(err, types.ErrUserNotFound):
		return "Applicant not found"
	case errors.Is(err, types.ErrInvalidStatus):
		return "Invalid status"
	case errors.Is(err, types.ErrInvalidTransition):
		return "That status change is not allowed"
	case errors.Is(err, types.ErrStaleApplication):
		return "The application was changed by someone else, reload and try again"
	}
	return fallback
}

func (s *Service) handlePostApplicationStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := applicationID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	err := r.ParseForm()
	if err != nil {
		s.logger.WithError(err).Error("failed to parse form")
		s.redirectWithError(w, r, applicationPath(id), "Error updating status")
		return
	}

	var f = new(statusForm)
	err = decoder.Decode(f, r.Form)
	if err != nil {
		s.logger.WithError(err).Error("failed to decode form")
		s.redirectWithError(w, r, applicationPath(id), "Error updating status")
		return
	}

	if !required(f.Status) {
		s.redirectWithError(w, r, applicationPath(id), "Status is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	tr, err := s.lifecycle.UpdateStatus(ctx, lifecycle.StatusChange{
		ApplicationID:   id,
		Status:          f.Status,
		Remarks:         f.Remarks,
		PickupReady:     f.PickupReady,
		ExpectedVersion: f.Version,
	})
	if err != nil {
		s.logger.WithError(err).WithField("application_id", id).Error("failed to update application status")
		s.redirectWithError(w, r, applicationPath(id), userMessage(err, "Error updating status"))
		return
	}

	notice := "Status updated successfully"
	if tr.Notification.Status == types.NotificationStatusSent {
		notice += ". The applicant was notified for pick-up"
	}

	s.redirectWithNotice(w, r, applicationPath(id), notice)
}

func (s *Service) handlePostApplicationProcess(w http.ResponseWriter, r *http.Request) {
	id, ok := applicationID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	err := r.ParseForm()
	if err != nil {
		s.logger.WithError(err).Error("failed to parse form")
		s.redirectWithError(w, r, applicationPath(id), "Error processing application")
		return
	}

	var f = new(processForm)
	err = decoder.Decode(f, r.Form)
	if err != nil {
		s.logger.WithError(err).Error("failed to decode form")
		s.redirectWithError(w, r, applicationPath(id), "Error processing application")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	_, err = s.lifecycle.StartProcessing(ctx, id, f.Remarks)
	if err != nil {
		s.logger.WithError(err).WithField("application_id", id).Error("failed to start processing application")
		s.redirectWithError(w, r, applicationPath(id), userMessage(err, "Error processing application"))
		return
	}

	s.redirectWithNotice(w, r, applicationPath(id), "Application is now being processed")
}

func (s *Service) handlePostGenerateCertificate(w http.ResponseWriter, r *http.Request) {
	id, ok := applicationID(r)
	if !ok {
		s.writeJSON(w, http.StatusNotFound, generateResponse{Message: "Application not found"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	doc, err := s.lifecycle.GenerateCertificate(ctx, id)
	if err != nil {
		s.logger.WithError(err).WithField("application_id", id).Error("failed to generate certificate")

		status := http.StatusInternalServerError
		if errors.Is(err, types.ErrApplicationNotFound) || errors.Is(err, types.ErrUserNotFound) {
			status = http.StatusNotFound
		}
		s.writeJSON(w, status, generateResponse{Message: userMessage(err, "Error generating certificate")})
		return
	}

	s.writeJSON(w, http.StatusOK, generateResponse{
		Success: true,
		Message: fmt.Sprintf("Certificate generated successfully (%s)", doc.ReferenceNumber),
	})
}

func (s *Service) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	id, ok := applicationID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	ctx := r.Context()

	app, err := s.lifecycle.Application(ctx, id)
	if err != nil {
		if errors.Is(err, types.ErrApplicationNotFound) {
			http.NotFound(w, r)
			return
		}
		s.logger.WithError(err).WithField("application_id", id).Error("failed to load application")
		s.internalServerError(w)
		return
	}

	resp := applicationResponse{
		Application:      app,
		State:            s.lifecycle.DisplayState(app),
		ReferenceNumber:  numbering.ReferenceNumber(app.ID, app.ReferenceYear(time.Now())),
		RequirementLinks: s.requirementLinks(ctx, app),
		Events:           []*types.ApplicationEvent{},
	}

	if f := s.popFlash(w, r); f != nil {
		switch f.Kind {
		case flashNotice:
			resp.Notice = f.Message
		case flashError:
			resp.Error = f.Message
		}
	}

	if s.events != nil {
		events, err := s.events.EventsByApplication(ctx, id)
		if err != nil {
			s.logger.WithError(err).WithField("application_id", id).Warn("failed to load application events")
		} else if events != nil {
			resp.Events = events
		}
	}

	s.writeJSON(w, http.StatusOK, resp)
}

// requirementLinks presigns each attached file. A file that cannot be
// presigned is still listed, without a link.
func (s *Service) requirementLinks(ctx context.Context, app *types.Application) []requirementLink {
	links := make([]requirementLink, 0, len(app.RequirementFiles))
	for _, key := range app.RequirementFiles {
		link := requirementLink{Name: path.Base(key)}
		if s.files != nil {
			url, err := s.files.PresignRequirement(ctx, key)
			if err != nil {
				s.logger.WithError(err).WithField("key", key).Warn("failed to presign requirement file")
			} else {
				link.URL = url
			}
		}
		links = append(links, link)
	}
	return links
}

func (s *Service) certificateFor(w http.ResponseWriter, r *http.Request) (*types.CertificateDocument, bool) {
	id, ok := applicationID(r)
	if !ok {
		http.NotFound(w, r)
		return nil, false
	}

	doc, err := s.lifecycle.Certificate(r.Context(), id)
	if err != nil {
		if errors.Is(err, types.ErrApplicationNotFound) || errors.Is(err, types.ErrUserNotFound) {
			http.Error(w, userMessage(err, ""), http.StatusNotFound)
			return nil, false
		}
		s.logger.WithError(err).WithField("application_id", id).Error("failed to render certificate")
		s.internalServerError(w)
		return nil, false
	}

	return doc, true
}

func (s *Service) handleGetCertificate(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.certificateFor(w, r)
	if !ok {
		return
	}

	if err := s.renderTemplate(w, "page.certificate", doc); err != nil {
		s.logger.WithError(err).Error("failed to render certificate page")
		s.internalServerError(w)
		return
	}
}

func (s *Service) handleGetCertificateDownload(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.certificateFor(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := certificate.WritePDF(&buf, doc); err != nil {
		s.logger.WithError(err).Error("failed to write certificate pdf")
		s.internalServerError(w)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", certificateFilename(doc)))
	_, _ = buf.WriteTo(w)
}

func certificateFilename(doc *types.CertificateDocument) string {
	return fmt.Sprintf("%s-%s.pdf", doc.Template, doc.IssuedAt.Format("20060102"))
}

func required(v string) bool {
	return strings.TrimSpace(v) != ""
}
