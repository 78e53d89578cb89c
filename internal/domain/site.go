package domain

import "html/template"

// NavItem is one link of the site navigation bar.
type NavItem struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Icon  string `json:"icon,omitempty"`
}

// Link is an external profile link shown in the info panel.
type Link struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Icon  string `json:"icon,omitempty"`
}

// Info is the content of the info panel on the home page.
type Info struct {
	Name   string `json:"name"`
	Role   string `json:"role"`
	Avatar string `json:"avatar,omitempty"`
	// About is markdown.
	About    string `json:"about"`
	Location string `json:"location,omitempty"`
	// Birthday is a YYYY-MM-DD date used for the age line.
	Birthday string `json:"birthday,omitempty"`
	Links    []Link `json:"links,omitempty"`
}

// TimelineEntry is one item of the experience timeline.
//
// Description mixes plain strings and ["text", "path"] pairs; the latter link
// to an image under the timeline resources directory.
type TimelineEntry struct {
	Start       string   `json:"start"`
	End         string   `json:"end,omitempty"`
	Title       string   `json:"title"`
	Place       string   `json:"place,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Description []any    `json:"description,omitempty"`
}

// DescriptionItem is a decoded element of TimelineEntry.Description.
type DescriptionItem struct {
	Text string
	// Path is empty for plain text items.
	Path string
}

// TimelineView is a timeline entry with its description already rendered.
type TimelineView struct {
	TimelineEntry
	DescriptionHTML template.HTML
}

// Secrets holds the credentials read from secrets.json.
type Secrets struct {
	GitHubToken    string `json:"github_token"`
	GitHubUsername string `json:"github_username"`
	SteamKey       string `json:"steam"`
	SteamID        string `json:"steam_id"`
	CVPassword     string `json:"cv_password"`
}
