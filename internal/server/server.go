package server

import (
	"context"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"barangay/internal/lifecycle"
	"barangay/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

//go:embed templates
var uiFS embed.FS
var decoder = form.NewDecoder()

// Lifecycle is the application workflow the admin routes drive.
type Lifecycle interface {
	Application(ctx context.Context, applicationID int64) (*types.Application, error)
	UpdateStatus(ctx context.Context, change lifecycle.StatusChange) (*lifecycle.Transition, error)
	StartProcessing(ctx context.Context, applicationID int64, remarks string) (*types.Application, error)
	GenerateCertificate(ctx context.Context, applicationID int64) (*types.CertificateDocument, error)
	Certificate(ctx context.Context, applicationID int64) (*types.CertificateDocument, error)
	DisplayState(app *types.Application) string
}

type EventLister interface {
	EventsByApplication(ctx context.Context, applicationID int64) ([]*types.ApplicationEvent, error)
}

type RequirementLinker interface {
	PresignRequirement(ctx context.Context, key string) (string, error)
}

type Service struct {
	logger    *logrus.Logger
	config    *types.Config
	lifecycle Lifecycle
	events    EventLister
	files     RequirementLinker
	templates *template.Template

	cookie *securecookie.SecureCookie

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	lifecycle Lifecycle,
	events EventLister,
	files RequirementLinker,
) (*Service, error) {
	mux := flow.New()

	s := &Service{
		logger:    logger,
		config:    config,
		lifecycle: lifecycle,
		events:    events,
		files:     files,
		cookie:    securecookie.New(cookieKey(config.CookieHashKey, 64), cookieKey(config.CookieBlockKey, 32)),
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	templates, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	s.templates = templates

	s.buildRouter(mux)

	return s, nil
}

// cookieKey decodes a base64 key from config. An unset or malformed key is
// replaced by a random one, which invalidates flashes across restarts.
func cookieKey(encoded string, size int) []byte {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil || len(key) == 0 {
		return securecookie.GenerateRandomKey(size)
	}
	return key
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) Handler() http.Handler {
	return s.server.Handler
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)

	r.HandleFunc("/admin/applications/:id", s.handleGetApplication, http.MethodGet)
	r.HandleFunc("/admin/applications/:id/status", s.handlePostApplicationStatus, http.MethodPost)
	r.HandleFunc("/admin/applications/:id/process", s.handlePostApplicationProcess, http.MethodPost)
	r.HandleFunc("/admin/applications/:id/certificate", s.handleGetCertificate, http.MethodGet)
	r.HandleFunc("/admin/applications/:id/certificate/download", s.handleGetCertificateDownload, http.MethodGet)
	r.HandleFunc("/admin/applications/:id/certificate/generate", s.handlePostGenerateCertificate, http.MethodPost)
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func loadTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"upper": strings.ToUpper,
		"date": func(t time.Time) string {
			return t.Format("January 2, 2006")
		},
	}

	t := template.New("").Funcs(funcMap)
	err := fs.WalkDir(uiFS, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".html") {
			return nil
		}

		data, err := fs.ReadFile(uiFS, path)
		if err != nil {
			return fmt.Errorf("read template %s: %w", path, err)
		}

		if _, err := t.Parse(string(data)); err != nil {
			return fmt.Errorf("parse template %s: %w", path, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return t, nil
}
