package web

import (
	"errors"
	"net/http"

	"github.com/unrolled/secure"
)

var (
	// ErrNotFound renders the 404 page.
	ErrNotFound = errors.New("not found")
	// ErrForbidden renders the 403 page.
	ErrForbidden = errors.New("forbidden")
)

var errorMessages = map[int]string{
	http.StatusForbidden:           "Доступ запрещён.",
	http.StatusNotFound:            "Такой страницы нет.",
	http.StatusInternalServerError: "Что-то пошло не так. Попробуйте позже.",
}

type errorPage struct {
	page
	Code    int
	Message string
}

// handlerFunc is an http.HandlerFunc that reports failures instead of writing them.
type handlerFunc func(w http.ResponseWriter, r *http.Request) error

// handle adapts h, turning its error into the matching error page.
func (s *Server) handle(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			s.reportError(w, r, err)
		}
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) reportError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "code", code, "err", err)
	}

	data := errorPage{
		page:    page{Path: r.URL.Path, Nonce: secure.CSPNonce(r.Context())},
		Code:    code,
		Message: errorMessages[code],
	}
	// Navigation is decoration here; a broken nav.json must not hide the real error.
	if nav, navErr := s.store.LoadNavigation(); navErr == nil {
		data.Nav = nav
	}
	if tmplErr := s.templates.execute(w, code, "error.html", data); tmplErr != nil {
		s.logger.Error("failed to render error page", "err", tmplErr)
		http.Error(w, http.StatusText(code), code)
	}
}
