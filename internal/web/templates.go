package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"sort"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/naka-gawa/portfolio/internal/domain"
	"github.com/naka-gawa/portfolio/internal/render"
	"github.com/naka-gawa/portfolio/internal/ruformat"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page templates render inside "layout"; card templates inside "card".
// gallery.html holds the lightbox assets pages with images pull in.
var (
	pageTemplates = []string{"index.html", "experience.html", "cv.html", "paper.html", "error.html"}
	cardTemplates = []string{"card_github.html", "card_steam.html"}
)

type templates struct {
	byName map[string]*template.Template
}

func parseTemplates(funcs template.FuncMap) (*templates, error) {
	t := &templates{byName: make(map[string]*template.Template)}
	parse := func(names []string, shared ...string) error {
		for _, name := range names {
			patterns := make([]string, 0, len(shared)+1)
			for _, base := range shared {
				patterns = append(patterns, "templates/"+base)
			}
			patterns = append(patterns, "templates/"+name)
			tmpl, err := template.New(name).Funcs(funcs).ParseFS(templateFS, patterns...)
			if err != nil {
				return fmt.Errorf("parse template %s: %w", name, err)
			}
			t.byName[name] = tmpl
		}
		return nil
	}
	if err := parse(pageTemplates, "layout.html", "gallery.html"); err != nil {
		return nil, err
	}
	if err := parse(cardTemplates, "card.html"); err != nil {
		return nil, err
	}
	return t, nil
}

// execute renders into a buffer first so a template error never leaves a
// half-written page behind.
func (t *templates) execute(w http.ResponseWriter, code int, name string, data any) error {
	tmpl, ok := t.byName[name]
	if !ok {
		return fmt.Errorf("unknown template %s", name)
	}
	root := "layout"
	if tmpl.Lookup("card") != nil {
		root = "card"
	}
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, root, data); err != nil {
		return fmt.Errorf("execute template %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, err := buf.WriteTo(w)
	return err
}

// languageShare is one entry of a repository's language breakdown.
type languageShare struct {
	Name    string
	Percent float64
}

func (s *Server) funcMap() template.FuncMap {
	return template.FuncMap{
		"plural": ruformat.Plural,
		"ago": func(t time.Time) string {
			return ruformat.RelativeTime(t, s.tzOffset, s.now())
		},
		"agoUnix": func(ts int64) string {
			return ruformat.RelativeUnix(ts, s.tzOffset, s.now())
		},
		"comma": func(n int) string {
			return humanize.Comma(int64(n))
		},
		"bytes": func(n int64) string {
			return humanize.Bytes(uint64(n))
		},
		"hours": func(minutes int) string {
			return ruformat.Plural(minutes/60, "час", "часа", "часов")
		},
		"markdown":  render.Markdown,
		"languages": sortedLanguages,
		"barHeight": barHeight,
		"topGames":  topGames,
	}
}

// sortedLanguages orders a language breakdown by share, largest first.
func sortedLanguages(percent map[string]float64) []languageShare {
	shares := make([]languageShare, 0, len(percent))
	for name, p := range percent {
		shares = append(shares, languageShare{Name: name, Percent: p})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Percent != shares[j].Percent {
			return shares[i].Percent > shares[j].Percent
		}
		return shares[i].Name < shares[j].Name
	})
	return shares
}

// barHeight scales count against max as an integer percentage.
func barHeight(count, max int) int {
	if max <= 0 {
		return 0
	}
	return count * 100 / max
}

func topGames(games []domain.SteamGame, n int) []domain.SteamGame {
	if len(games) <= n {
		return games
	}
	return games[:n]
}
