// Package gateway provides gateways to the upstream APIs the site reads from,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"
	"github.com/naka-gawa/portfolio/internal/domain"
)

// LanguageEdge is the byte size of one language in a repository.
type LanguageEdge struct {
	Name string
	Size int
}

// RepoNode is a repository as returned by the GraphQL API, before filtering.
type RepoNode struct {
	Name             string
	Owner            string
	Description      string
	Stars            int
	OpenPullRequests int
	OpenIssues       int
	IsFork           bool
	// ViewerPermission is empty when GitHub does not report one.
	ViewerPermission string
	Languages        []LanguageEdge
	LanguagesSize    int
}

// ContributionDay is one day of the contribution calendar. Date is "2006-01-02".
type ContributionDay struct {
	Date  string
	Count int
}

// UserProfile holds the user fields and the flattened contribution calendar.
type UserProfile struct {
	Login              string
	AvatarURL          string
	Bio                string
	CreatedAt          time.Time
	TotalContributions int
	Days               []ContributionDay
}

// UserStats holds the counters only exposed by the REST users endpoint.
type UserStats struct {
	Followers   int
	Following   int
	PublicRepos int
	HTMLURL     string
}

// GitHubFetcher defines the behavior of a gateway for fetching information from GitHub.
type GitHubFetcher interface {
	FetchViewerOrganizations(ctx context.Context) ([]domain.Organization, error)
	FetchViewerRepositories(ctx context.Context, affiliation githubv4.RepositoryAffiliation) ([]RepoNode, error)
	FetchOrganizationRepositories(ctx context.Context, login string) ([]RepoNode, error)
	FetchUserProfile(ctx context.Context, login string) (*UserProfile, error)
	FetchUserStats(ctx context.Context, login string) (*UserStats, error)
}

// GitHubGateway is the concrete implementation of the GitHubFetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *slog.Logger
}

type repoFields struct {
	Name  string
	Owner struct {
		Login string
	}
	Description      string
	StargazerCount   int
	PullRequests     struct{ TotalCount int } `graphql:"pullRequests(states: OPEN)"`
	Issues           struct{ TotalCount int } `graphql:"issues(states: OPEN)"`
	IsFork           bool
	ViewerPermission githubv4.RepositoryPermission
	Languages        struct {
		Edges []struct {
			Size int
			Node struct {
				Name string
			}
		}
		TotalSize int
	} `graphql:"languages(first: 10, orderBy: {field: SIZE, direction: DESC})"`
}

type repoEdges struct {
	Edges []struct {
		Node repoFields
	}
}

type viewerOrganizationsQuery struct {
	Viewer struct {
		Organizations struct {
			Nodes []struct {
				Login       string
				Name        string
				Description string
				AvatarURL   string `graphql:"avatarUrl"`
			}
		} `graphql:"organizations(first: 100)"`
	}
}

type viewerRepositoriesQuery struct {
	Viewer struct {
		Repositories repoEdges `graphql:"repositories(first: 100, affiliations: $affiliations)"`
	}
}

type organizationRepositoriesQuery struct {
	Organization struct {
		Repositories repoEdges `graphql:"repositories(first: 100)"`
	} `graphql:"organization(login: $login)"`
}

type userProfileQuery struct {
	User struct {
		Login                   string
		AvatarURL               string `graphql:"avatarUrl"`
		Bio                     string
		CreatedAt               githubv4.DateTime
		ContributionsCollection struct {
			ContributionCalendar struct {
				TotalContributions int
				Weeks              []struct {
					ContributionDays []struct {
						ContributionCount int
						Date              string
					}
				}
			}
		}
	} `graphql:"user(login: $login)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// base may be nil; it is used as the innermost transport (e.g. for metrics).
func NewGitHubGateway(token string, base http.RoundTripper, logger *slog.Logger) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(base, github_ratelimit.WithSingleSleepLimit(1*time.Minute, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		logger:        logger,
	}, nil
}

func (g *GitHubGateway) FetchViewerOrganizations(ctx context.Context) ([]domain.Organization, error) {
	g.logger.Debug("fetching viewer organizations")
	var q viewerOrganizationsQuery
	if err := g.graphqlClient.Query(ctx, &q, nil); err != nil {
		return nil, fmt.Errorf("failed to execute GraphQL query for organizations: %w", err)
	}
	orgs := make([]domain.Organization, 0, len(q.Viewer.Organizations.Nodes))
	for _, n := range q.Viewer.Organizations.Nodes {
		orgs = append(orgs, domain.Organization{
			Login:       n.Login,
			Name:        domain.Optional(n.Name),
			Description: domain.Optional(n.Description),
			AvatarURL:   domain.Optional(n.AvatarURL),
		})
	}
	return orgs, nil
}

func (g *GitHubGateway) FetchViewerRepositories(ctx context.Context, affiliation githubv4.RepositoryAffiliation) ([]RepoNode, error) {
	g.logger.Debug("fetching viewer repositories", "affiliation", affiliation)
	variables := map[string]interface{}{
		"affiliations": []githubv4.RepositoryAffiliation{affiliation},
	}
	var q viewerRepositoriesQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, fmt.Errorf("failed to execute GraphQL query for %s repositories: %w", affiliation, err)
	}
	return q.Viewer.Repositories.nodes(), nil
}

func (g *GitHubGateway) FetchOrganizationRepositories(ctx context.Context, login string) ([]RepoNode, error) {
	g.logger.Debug("fetching organization repositories", "org", login)
	variables := map[string]interface{}{"login": githubv4.String(login)}
	var q organizationRepositoriesQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, fmt.Errorf("failed to execute GraphQL query for repositories of %s: %w", login, err)
	}
	return q.Organization.Repositories.nodes(), nil
}

func (g *GitHubGateway) FetchUserProfile(ctx context.Context, login string) (*UserProfile, error) {
	g.logger.Debug("fetching user profile", "login", login)
	variables := map[string]interface{}{"login": githubv4.String(login)}
	var q userProfileQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		return nil, fmt.Errorf("failed to execute GraphQL query for user %s: %w", login, err)
	}
	u := q.User
	calendar := u.ContributionsCollection.ContributionCalendar
	profile := &UserProfile{
		Login:              u.Login,
		AvatarURL:          u.AvatarURL,
		Bio:                u.Bio,
		CreatedAt:          u.CreatedAt.Time,
		TotalContributions: calendar.TotalContributions,
	}
	for _, week := range calendar.Weeks {
		for _, day := range week.ContributionDays {
			profile.Days = append(profile.Days, ContributionDay{Date: day.Date, Count: day.ContributionCount})
		}
	}
	return profile, nil
}

// FetchUserStats reads the follower counters through the REST API, which the
// GraphQL profile query does not cover cheaply.
func (g *GitHubGateway) FetchUserStats(ctx context.Context, login string) (*UserStats, error) {
	g.logger.Debug("fetching user stats", "login", login)
	user, _, err := g.restClient.Users.Get(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s with REST API: %w", login, err)
	}
	return &UserStats{
		Followers:   user.GetFollowers(),
		Following:   user.GetFollowing(),
		PublicRepos: user.GetPublicRepos(),
		HTMLURL:     user.GetHTMLURL(),
	}, nil
}

func (e repoEdges) nodes() []RepoNode {
	nodes := make([]RepoNode, 0, len(e.Edges))
	for _, edge := range e.Edges {
		n := edge.Node
		node := RepoNode{
			Name:             n.Name,
			Owner:            n.Owner.Login,
			Description:      n.Description,
			Stars:            n.StargazerCount,
			OpenPullRequests: n.PullRequests.TotalCount,
			OpenIssues:       n.Issues.TotalCount,
			IsFork:           n.IsFork,
			ViewerPermission: string(n.ViewerPermission),
			LanguagesSize:    n.Languages.TotalSize,
		}
		for _, l := range n.Languages.Edges {
			node.Languages = append(node.Languages, LanguageEdge{Name: l.Node.Name, Size: l.Size})
		}
		nodes = append(nodes, node)
	}
	return nodes
}
