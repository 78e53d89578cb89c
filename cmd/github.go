package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/portfolio/internal/gateway"
	"github.com/naka-gawa/portfolio/internal/site"
	"github.com/naka-gawa/portfolio/internal/usecase"
)

var githubCmd = &cobra.Command{
	Use:   "github",
	Short: "Aggregates the GitHub card data and outputs it as JSON",
	Long: `Aggregates the organizations, repositories, profile and monthly contributions
of the GitHub user configured in secrets.json, exactly as the GitHub card shows them,
and prints the result as JSON.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger, closeLog, err := newLogger(cmd, true)
		if err != nil {
			return err
		}
		defer closeLog()

		secrets, err := newStore(cmd).LoadSecrets()
		if err != nil {
			return err
		}
		if user, _ := cmd.Flags().GetString("user"); user != "" {
			secrets.GitHubUsername = user
		}
		if err := site.CheckGitHub(secrets); err != nil {
			return err
		}

		// Inject dependencies and run the main business logic.
		githubGateway, err := gateway.NewGitHubGateway(secrets.GitHubToken, http.DefaultTransport, logger)
		if err != nil {
			return fmt.Errorf("failed to create GitHub gateway: %w", err)
		}
		summary, err := usecase.NewAggregator(githubGateway, logger).Aggregate(cmd.Context(), secrets.GitHubUsername)
		if err != nil {
			return fmt.Errorf("failed to aggregate GitHub data: %w", err)
		}

		jsonData, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results to JSON: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(githubCmd)
	githubCmd.Flags().StringP("user", "u", "", "GitHub user name, overriding github_username from secrets.json")
}
