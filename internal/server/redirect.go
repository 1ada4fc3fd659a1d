package server

import (
	"net/http"
	"time"
)

const flashCookieName = "barangay_flash"

type flashKind string

const (
	flashNotice flashKind = "notice"
	flashError  flashKind = "error"
)

type flash struct {
	Kind    flashKind
	Message string
}

func (s *Service) redirectWithNotice(w http.ResponseWriter, r *http.Request, path, notice string) {
	s.setFlash(w, flash{Kind: flashNotice, Message: notice})
	http.Redirect(w, r, path, http.StatusSeeOther)
}

func (s *Service) redirectWithError(w http.ResponseWriter, r *http.Request, path, msg string) {
	s.setFlash(w, flash{Kind: flashError, Message: msg})
	http.Redirect(w, r, path, http.StatusSeeOther)
}

func (s *Service) setFlash(w http.ResponseWriter, f flash) {
	encoded, err := s.cookie.Encode(flashCookieName, f)
	if err != nil {
		s.logger.WithError(err).Error("failed to encode flash cookie")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    encoded,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   int((5 * time.Minute).Seconds()),
	})
}

// popFlash reads the pending flash, if any, and clears it.
func (s *Service) popFlash(w http.ResponseWriter, r *http.Request) *flash {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		MaxAge:   -1,
	})

	var f flash
	if err := s.cookie.Decode(flashCookieName, cookie.Value, &f); err != nil {
		s.logger.WithError(err).Debug("discarding undecodable flash cookie")
		return nil
	}

	return &f
}
