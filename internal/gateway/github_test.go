package gateway

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestGateway creates a GitHubGateway that communicates with a mock HTTP server.
func setupTestGateway(t *testing.T, handler http.Handler) *GitHubGateway {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	restClient := github.NewClient(server.Client())
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	restClient.BaseURL = baseURL

	return &GitHubGateway{
		restClient:    restClient,
		graphqlClient: githubv4.NewEnterpriseClient(server.URL, server.Client()),
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// graphqlHandler asserts the request body contains every fragment and answers with body.
func graphqlHandler(t *testing.T, body string, contains ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		for _, c := range contains {
			assert.Contains(t, string(raw), c)
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, body)
	}
}

const repoJSON = `{"node":{"name":"site","owner":{"login":"me"},"description":"my site","stargazerCount":3,` +
	`"pullRequests":{"totalCount":1},"issues":{"totalCount":2},"isFork":false,"viewerPermission":"ADMIN",` +
	`"languages":{"edges":[{"size":75,"node":{"name":"Go"}},{"size":25,"node":{"name":"HTML"}}],"totalSize":100}}}`

func TestGitHubGateway_FetchViewerOrganizations(t *testing.T) {
	gw := setupTestGateway(t, graphqlHandler(t,
		`{"data":{"viewer":{"organizations":{"nodes":[{"login":"acme","name":"Acme","description":"","avatarUrl":"https://a/acme.png"}]}}}}`,
		"organizations(first: 100)"))

	orgs, err := gw.FetchViewerOrganizations(context.Background())
	require.NoError(t, err)
	require.Len(t, orgs, 1)
	assert.Equal(t, "acme", orgs[0].Login)
	assert.Equal(t, "Acme", *orgs[0].Name)
	assert.Nil(t, orgs[0].Description)
	assert.Equal(t, "https://a/acme.png", *orgs[0].AvatarURL)
}

func TestGitHubGateway_RepositoryFetches(t *testing.T) {
	expected := []RepoNode{{
		Name:             "site",
		Owner:            "me",
		Description:      "my site",
		Stars:            3,
		OpenPullRequests: 1,
		OpenIssues:       2,
		ViewerPermission: "ADMIN",
		Languages:        []LanguageEdge{{Name: "Go", Size: 75}, {Name: "HTML", Size: 25}},
		LanguagesSize:    100,
	}}

	testCases := []struct {
		name           string
		methodToTest   func(gw *GitHubGateway) ([]RepoNode, error)
		queryContains  []string
		responseBody   string
		expected       []RepoNode
		expectedErrMsg string
	}{
		{
			name: "FetchViewerRepositories - owner",
			methodToTest: func(gw *GitHubGateway) ([]RepoNode, error) {
				return gw.FetchViewerRepositories(context.Background(), githubv4.RepositoryAffiliationOwner)
			},
			queryContains: []string{"affiliations: $affiliations", `"OWNER"`},
			responseBody:  `{"data":{"viewer":{"repositories":{"edges":[` + repoJSON + `]}}}}`,
			expected:      expected,
		},
		{
			name: "FetchViewerRepositories - collaborator",
			methodToTest: func(gw *GitHubGateway) ([]RepoNode, error) {
				return gw.FetchViewerRepositories(context.Background(), githubv4.RepositoryAffiliationCollaborator)
			},
			queryContains: []string{`"COLLABORATOR"`},
			responseBody:  `{"data":{"viewer":{"repositories":{"edges":[]}}}}`,
			expected:      []RepoNode{},
		},
		{
			name: "FetchOrganizationRepositories - happy path",
			methodToTest: func(gw *GitHubGateway) ([]RepoNode, error) {
				return gw.FetchOrganizationRepositories(context.Background(), "acme")
			},
			queryContains: []string{"organization(login: $login)", `"acme"`},
			responseBody:  `{"data":{"organization":{"repositories":{"edges":[` + repoJSON + `]}}}}`,
			expected:      expected,
		},
		{
			name: "FetchOrganizationRepositories - GraphQL error payload",
			methodToTest: func(gw *GitHubGateway) ([]RepoNode, error) {
				return gw.FetchOrganizationRepositories(context.Background(), "acme")
			},
			responseBody:   `{"errors":[{"message":"Something went wrong"}]}`,
			expectedErrMsg: "failed to execute GraphQL query for repositories of acme",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gw := setupTestGateway(t, graphqlHandler(t, tc.responseBody, tc.queryContains...))

			nodes, err := tc.methodToTest(gw)

			if tc.expectedErrMsg != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectedErrMsg)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, nodes)
			}
		})
	}
}

func TestGitHubGateway_FetchUserProfile(t *testing.T) {
	gw := setupTestGateway(t, graphqlHandler(t,
		`{"data":{"user":{"login":"me","avatarUrl":"https://a/me.png","bio":"hi","createdAt":"2015-03-01T10:00:00Z",`+
			`"contributionsCollection":{"contributionCalendar":{"totalContributions":6,"weeks":[`+
			`{"contributionDays":[{"contributionCount":1,"date":"2025-01-30"},{"contributionCount":2,"date":"2025-01-31"}]},`+
			`{"contributionDays":[{"contributionCount":3,"date":"2025-02-01"}]}]}}}}}`,
		"user(login: $login)", `"me"`))

	profile, err := gw.FetchUserProfile(context.Background(), "me")
	require.NoError(t, err)
	assert.Equal(t, "me", profile.Login)
	assert.Equal(t, "hi", profile.Bio)
	assert.Equal(t, time.Date(2015, 3, 1, 10, 0, 0, 0, time.UTC), profile.CreatedAt.UTC())
	assert.Equal(t, 6, profile.TotalContributions)
	assert.Equal(t, []ContributionDay{
		{Date: "2025-01-30", Count: 1},
		{Date: "2025-01-31", Count: 2},
		{Date: "2025-02-01", Count: 3},
	}, profile.Days)
}

func TestGitHubGateway_FetchUserProfile_HTTPError(t *testing.T) {
	gw := setupTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	_, err := gw.FetchUserProfile(context.Background(), "me")
	assert.ErrorContains(t, err, "failed to execute GraphQL query for user me")
}

func TestGitHubGateway_FetchUserStats(t *testing.T) {
	testCases := []struct {
		name           string
		handlerFunc    func(w http.ResponseWriter, r *http.Request)
		expected       *UserStats
		expectedErrMsg string
	}{
		{
			name: "happy path",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/users/me", r.URL.Path)
				fmt.Fprint(w, `{"login":"me","followers":3,"following":4,"public_repos":5,"html_url":"https://github.com/me"}`)
			},
			expected: &UserStats{Followers: 3, Following: 4, PublicRepos: 5, HTMLURL: "https://github.com/me"},
		},
		{
			name: "error case - GitHub API returns an error",
			handlerFunc: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
				fmt.Fprint(w, `{"message": "Not Found"}`)
			},
			expectedErrMsg: "failed to get user me with REST API",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gw := setupTestGateway(t, http.HandlerFunc(tc.handlerFunc))
			stats, err := gw.FetchUserStats(context.Background(), "me")
			if tc.expectedErrMsg != "" {
				assert.ErrorContains(t, err, tc.expectedErrMsg)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tc.expected, stats)
			}
		})
	}
}

func TestNewGitHubGateway(t *testing.T) {
	gw, err := NewGitHubGateway("token", nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	assert.NotNil(t, gw.graphqlClient)
	assert.NotNil(t, gw.restClient)
}

var _ GitHubFetcher = (*GitHubGateway)(nil)
