package cmd

import (
	"context"
	"fmt"

	"booking-sync/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check storage layout, database schema and reference data",
	Long:  `Checks that the feed folders exist, that the booking tables match the models and that every reference table can fall back.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, true, true)
	},
}

// structureCmd represents the integrity structure command
var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Check and fix feed folders",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, false, false)
	},
}

// schemaCmd represents the integrity schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the booking tables against the models",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, true, false)
	},
}

// referencesCmd represents the integrity references command
var referencesCmd = &cobra.Command{
	Use:   "references",
	Short: "Check that reference tables hold their fallback codes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, false, true)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(structureCmd, schemaCmd, referencesCmd)

	structureCmd.Flags().BoolVar(&fixFlag, "fix", false, "Fix missing folders")
}

func runIntegrityChecks(ctx context.Context, runStructure, runSchema, runReferences bool) error {
	rt, err := loadRuntime(runSchema || runReferences)
	if err != nil {
		return err
	}
	defer rt.close()
	logg := rt.logger

	if runStructure {
		if err := rt.openStorage(); err != nil {
			return err
		}
	}
	svc := integrity.NewService(rt.store, rt.cfg.Storage.Bucket, logg, rt.db, rt.cfg.Sync)

	if runStructure {
		logg.Info("Checking feed folders...")
		missing, err := svc.CheckStructure(ctx)
		if err != nil {
			return fmt.Errorf("structure check failed: %w", err)
		}

		if len(missing) == 0 {
			logg.Info("Structure is intact.")
		} else {
			logg.Warn("Missing folders detected", zap.Strings("missing", missing))
			if fixFlag {
				logg.Info("Fixing missing folders...")
				if err := svc.FixStructure(ctx, missing); err != nil {
					return fmt.Errorf("failed to fix structure: %w", err)
				}
				logg.Info("Structure fixed successfully.")
			} else {
				logg.Info("Run 'integrity structure --fix' to create missing folders.")
			}
		}
	}

	if runSchema {
		logg.Info("Checking booking schema...")
		report, err := svc.CheckSchema()
		if err != nil {
			return fmt.Errorf("schema check failed: %w", err)
		}
		if report.Matched {
			logg.Info("Schema matches the booking models.", zap.String("driver", report.Driver))
		} else {
			logg.Warn("Schema mismatches found, run 'migrate'", zap.String("driver", report.Driver))
			for table, tbl := range report.Tables {
				if tbl.Status != "ok" {
					logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tbl.MissingColumns))
				}
			}
			for _, e := range report.Errors {
				logg.Error("Inspection Error", zap.String("error", e))
			}
		}
	}

	if runReferences {
		logg.Info("Checking reference data...")
		reports, err := svc.CheckReferences(ctx)
		if err != nil {
			return fmt.Errorf("reference check failed: %w", err)
		}
		for _, r := range reports {
			if r.Status == "ok" {
				logg.Info("Reference table ready", zap.String("kind", r.Kind), zap.Int("rows", r.Rows))
				continue
			}
			logg.Warn("No fallback code present, run 'seed'",
				zap.String("kind", r.Kind),
				zap.Strings("fallbacks", r.Fallbacks))
		}
	}
	return nil
}
