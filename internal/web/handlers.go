package web

import (
	"bufio"
	"bytes"
	"crypto/subtle"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/unrolled/secure"

	"github.com/naka-gawa/portfolio/internal/domain"
	"github.com/naka-gawa/portfolio/internal/render"
	"github.com/naka-gawa/portfolio/internal/ruformat"
	"github.com/naka-gawa/portfolio/internal/site"
)

// page is the data every full-page template needs.
type page struct {
	Nav   []domain.NavItem
	Path  string
	Nonce string
}

func (s *Server) newPage(r *http.Request) (page, error) {
	nav, err := s.store.LoadNavigation()
	if err != nil {
		return page{}, err
	}
	return page{Nav: nav, Path: r.URL.Path, Nonce: secure.CSPNonce(r.Context())}, nil
}

type indexPage struct {
	page
	Info  *domain.Info
	About template.HTML
	Age   string
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) error {
	p, err := s.newPage(r)
	if err != nil {
		return err
	}
	info, err := s.store.LoadInfo()
	if err != nil {
		return err
	}
	about, err := render.Lightbox(render.MarkdownBytes([]byte(info.About)), s.imageResolver())
	if err != nil {
		return err
	}
	return s.templates.execute(w, http.StatusOK, "index.html", indexPage{
		page:  p,
		Info:  info,
		About: about,
		Age:   age(info.Birthday, s.now()),
	})
}

// age renders the full years since a YYYY-MM-DD birthday, or "" when unset or invalid.
func age(birthday string, now time.Time) string {
	if birthday == "" {
		return ""
	}
	born, err := time.Parse(time.DateOnly, birthday)
	if err != nil {
		return ""
	}
	years := now.Year() - born.Year()
	if now.Month() < born.Month() || (now.Month() == born.Month() && now.Day() < born.Day()) {
		years--
	}
	return ruformat.Plural(years, "год", "года", "лет")
}

type experiencePage struct {
	page
	Timeline []domain.TimelineView
}

func (s *Server) experienceHandler(w http.ResponseWriter, r *http.Request) error {
	p, err := s.newPage(r)
	if err != nil {
		return err
	}
	timeline, err := s.store.LoadTimeline()
	if err != nil {
		return err
	}
	resRoot := filepath.Join(s.staticDir, "timeline", "res")
	views := make([]domain.TimelineView, 0, len(timeline))
	for _, entry := range timeline {
		items, err := site.DecodeDescription(entry.Description)
		if err != nil {
			return fmt.Errorf("timeline entry %q: %w", entry.Title, err)
		}
		views = append(views, domain.TimelineView{
			TimelineEntry:   entry,
			DescriptionHTML: render.Description(items, resRoot, "/static/timeline/res/"),
		})
	}
	return s.templates.execute(w, http.StatusOK, "experience.html", experiencePage{page: p, Timeline: views})
}

type cvPage struct {
	page
	Available bool
	Size      int64
}

func (s *Server) cvHandler(w http.ResponseWriter, r *http.Request) error {
	p, err := s.newPage(r)
	if err != nil {
		return err
	}
	data := cvPage{page: p}
	if fi, err := os.Stat(s.cvPath); err == nil && !fi.IsDir() {
		data.Available = true
		data.Size = fi.Size()
	}
	return s.templates.execute(w, http.StatusOK, "cv.html", data)
}

// cvDownloadHandler serves the CV when psw matches the configured password.
func (s *Server) cvDownloadHandler(w http.ResponseWriter, r *http.Request) error {
	secrets, err := s.store.LoadSecrets()
	if err != nil {
		return err
	}
	psw := r.URL.Query().Get("psw")
	if secrets.CVPassword == "" || subtle.ConstantTimeCompare([]byte(psw), []byte(secrets.CVPassword)) != 1 {
		return fmt.Errorf("wrong CV password: %w", ErrForbidden)
	}

	f, err := os.Open(s.cvPath)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("CV file %s: %w", s.cvPath, ErrNotFound)
	} else if err != nil {
		return err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="cv.pdf"`)
	w.Header().Set("Cache-Control", "no-store")
	http.ServeContent(w, r, "cv.pdf", fi.ModTime(), f)
	return nil
}

type paperPage struct {
	page
	Title string
	Body  template.HTML
}

func (s *Server) paperHandler(w http.ResponseWriter, r *http.Request) error {
	slug, err := url.PathUnescape(chi.URLParam(r, "slug"))
	if err != nil || !validSlug(slug) {
		return fmt.Errorf("invalid paper slug %q: %w", chi.URLParam(r, "slug"), ErrNotFound)
	}
	path, ok := render.SafeJoin(s.papersDir, slug+".md")
	if !ok {
		return fmt.Errorf("paper slug %q escapes papers dir: %w", slug, ErrNotFound)
	}
	src, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("paper %q: %w", slug, ErrNotFound)
	} else if err != nil {
		return err
	}

	p, err := s.newPage(r)
	if err != nil {
		return err
	}
	body, err := render.Lightbox(render.MarkdownBytes(src), s.imageResolver())
	if err != nil {
		return err
	}
	return s.templates.execute(w, http.StatusOK, "paper.html", paperPage{
		page:  p,
		Title: paperTitle(src, slug),
		Body:  body,
	})
}

// validSlug accepts a single, non-hidden path element.
func validSlug(slug string) bool {
	return slug != "" &&
		!strings.HasPrefix(slug, ".") &&
		!strings.ContainsAny(slug, "/\\\x00")
}

// paperTitle is the first level-one heading of a paper, or its slug.
func paperTitle(src []byte, slug string) string {
	sc := bufio.NewScanner(bytes.NewReader(src))
	for sc.Scan() {
		if title, ok := strings.CutPrefix(strings.TrimSpace(sc.Text()), "# "); ok {
			return strings.TrimSpace(title)
		}
	}
	return slug
}
