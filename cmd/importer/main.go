// Command importer loads a trip's content from a YAML fixture into the CMS.
//
// Usage:
//
//	importer --file trips/greek-isles.yaml --dry-run
//	importer --file trips/greek-isles.yaml --confirm
//
// Writes are only sent with --confirm and are recorded in the audit log.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"trip-guide/internal/client"
	"trip-guide/internal/config"
	"trip-guide/internal/db"
	"trip-guide/internal/importer"
	"trip-guide/internal/logging"
	"trip-guide/internal/models"
	"trip-guide/internal/wizard"
)

func main() {
	if err := newCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	var (
		configPath string
		file       string
		dryRun     bool
		confirm    bool
	)
	cmd := &cobra.Command{
		Use:           "importer",
		Short:         "Import trip content from a YAML fixture",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := os.Open(file)
			if err != nil {
				return err
			}
			defer in.Close()

			fixture, err := importer.Parse(in)
			if err != nil {
				return err
			}
			if err := fixture.Validate(); err != nil {
				return fmt.Errorf("fixture %s is invalid:\n%w", file, err)
			}
			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is valid: %d days, %d events, %d updates for trip %d\n",
					file, len(fixture.Itinerary), len(fixture.Events), len(fixture.Updates), fixture.TripID)
				return nil
			}
			if !confirm {
				return errors.New("refusing to write to the CMS without --confirm")
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger, err := logging.New(cfg.LogLevel, cfg.Debug)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			cms, err := client.New(cfg.CMSBaseURL,
				client.WithToken(cfg.CMSToken),
				client.WithTimeout(cfg.CMSTimeout),
				client.WithLogger(logger),
			)
			if err != nil {
				return err
			}

			conn, err := db.Connect(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer conn.Close()

			editor := wizard.NewEditor(cms, wizard.NewAuditLog(models.NewRepository(conn), logger), logger, nil)
			sum, err := importer.Run(cmd.Context(), editor, fixture, logger)
			if err != nil {
				logger.Error("import stopped", zap.String("file", file), zap.Error(err))
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(),
				"imported trip %d: %d locations, %d themes, %d days, %d talent, %d events, %d updates\n",
				fixture.TripID, sum.Locations, sum.PartyThemes, sum.Days, sum.Talent, sum.Events, sum.Updates)
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "YAML config file (defaults to $TRIPGUIDE_CONFIG)")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Fixture file to import")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the fixture without contacting the CMS")
	cmd.Flags().BoolVar(&confirm, "confirm", false, "Confirm writing to the CMS")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
