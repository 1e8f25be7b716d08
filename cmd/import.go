package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	app "github.com/ratmirov/tatami/internal/app"
	"github.com/ratmirov/tatami/pkg/logger"
)

func newImportCmd() *cobra.Command {
	var (
		tournamentName string
		importance     int
		ageCategory    string
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Parse a results file and print the import summary",
		Long: "Runs one file through the full import pipeline against a " +
			"throwaway in-memory store. Useful to check how a federation " +
			"export will be read before uploading it for real.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, args[0], tournamentName, importance, ageCategory)
		},
	}

	cmd.Flags().StringVar(&tournamentName, "tournament", "dry-run", "tournament name to import under")
	cmd.Flags().IntVar(&importance, "importance", 1, "tournament importance tier, 1..3")
	cmd.Flags().StringVar(&ageCategory, "age", "adults", "age category stamped on every row")
	return cmd
}

func runImport(cmd *cobra.Command, path, tournamentName string, importance int, ageCategory string) error {
	if err := logger.Init(); err != nil {
		return err
	}
	blob, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	ctx := cmd.Context()
	svc := app.New(app.WithWorkerCount(1))
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer svc.Stop()

	tournament, err := svc.CreateTournament(ctx, tournamentName, importance, time.Now())
	if err != nil {
		return err
	}

	summary, err := svc.ImportResults(ctx, tournament.ID, ageCategory, blob)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return err
	}
	cmd.Println(string(out))
	return nil
}
