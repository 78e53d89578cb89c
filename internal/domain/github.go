// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// Permission levels that make a non-personal repository worth showing.
const (
	PermissionAdmin    = "ADMIN"
	PermissionMaintain = "MAINTAIN"
	PermissionWrite    = "WRITE"
)

// Organization is a GitHub organization the viewer belongs to.
type Organization struct {
	Login       string  `json:"login"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
	AvatarURL   *string `json:"avatar_url"`
}

// Repository is a single repository as shown on the GitHub card.
type Repository struct {
	FullName         string             `json:"full_name"`
	Owner            string             `json:"owner"`
	Name             string             `json:"name"`
	Description      *string            `json:"description"`
	Stars            int                `json:"stars"`
	OpenPullRequests int                `json:"open_pull_requests"`
	OpenIssues       int                `json:"open_issues"`
	IsFork           bool               `json:"is_fork"`
	Permission       string             `json:"permission"`
	LanguagesPercent map[string]float64 `json:"languages_percent"`
}

// Profile summarizes the GitHub user the site belongs to.
type Profile struct {
	Login                      string    `json:"login"`
	AvatarURL                  string    `json:"avatar_url"`
	Bio                        *string   `json:"bio"`
	CreatedAt                  time.Time `json:"created_at"`
	TotalContributionsLastYear int       `json:"total_contributions_last_year"`
	Followers                  int       `json:"followers"`
	Following                  int       `json:"following"`
	PublicRepos                int       `json:"public_repos"`
	HTMLURL                    string    `json:"html_url"`
}

// MonthlyContribution is the sum of contribution-calendar days within one calendar month.
type MonthlyContribution struct {
	// Month is the display label, e.g. "January 2025".
	Month string `json:"month"`
	// Key is the sortable "2006-01" form of Month.
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// GitHubSummary is the aggregated result rendered by the GitHub card.
type GitHubSummary struct {
	Organizations        []Organization        `json:"organizations"`
	Repositories         []Repository          `json:"repositories"`
	Profile              Profile               `json:"profile"`
	MonthlyContributions []MonthlyContribution `json:"monthly_contributions"`
	FetchedAt            time.Time             `json:"fetched_at"`
}

// MaxMonthlyCount returns the largest monthly bucket, used to scale the chart.
func (s *GitHubSummary) MaxMonthlyCount() int {
	max := 0
	for _, m := range s.MonthlyContributions {
		if m.Count > max {
			max = m.Count
		}
	}
	return max
}

// Optional converts an empty string into nil, mirroring how absent GraphQL fields are reported.
func Optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
