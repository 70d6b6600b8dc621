package cmd

import (
	"booking-sync/feature/booking/seed"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var seedSkipDefaults bool

// seedCmd loads accounts, unit mappings and reference codes.
var seedCmd = &cobra.Command{
	Use:   "seed [file]",
	Short: "Load accounts, unit mappings and reference codes",
	Long: `Upserts the built-in reference codes, then the given YAML file.
Running it twice changes nothing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime(true)
		if err != nil {
			return err
		}
		defer rt.close()

		var files []*seed.File
		if !seedSkipDefaults {
			defaults, err := seed.Parse(seed.Defaults)
			if err != nil {
				return err
			}
			files = append(files, defaults)
		}
		if len(args) == 1 {
			f, err := seed.LoadFile(args[0])
			if err != nil {
				return err
			}
			files = append(files, f)
		}

		for _, f := range files {
			report, err := seed.Apply(cmd.Context(), rt.db, f)
			if err != nil {
				return err
			}
			rt.logger.Info("Seed applied", zap.Any("report", report))
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedSkipDefaults, "no-defaults", false, "Skip the built-in reference codes")
	RootCmd.AddCommand(seedCmd)
}
