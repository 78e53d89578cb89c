package cmd

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/portfolio/internal/gateway"
	"github.com/naka-gawa/portfolio/internal/site"
	"github.com/naka-gawa/portfolio/internal/usecase"
)

var steamCmd = &cobra.Command{
	Use:   "steam",
	Short: "Aggregates the Steam card data and outputs it as JSON",
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
		if id, _ := cmd.Flags().GetString("steam-id"); id != "" {
			secrets.SteamID = id
		}
		if err := site.CheckSteam(secrets); err != nil {
			return err
		}

		steamGateway := gateway.NewSteamGateway(secrets.SteamKey, &http.Client{Timeout: 20 * time.Second}, logger)
		summary, err := usecase.NewSteamAggregator(steamGateway, logger).Aggregate(cmd.Context(), secrets.SteamID)
		if err != nil {
			return fmt.Errorf("failed to aggregate Steam data: %w", err)
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
	rootCmd.AddCommand(steamCmd)
	steamCmd.Flags().String("steam-id", "", "SteamID64, overriding steam_id from secrets.json")
}
