package kfamilies

import (
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch the raw extracts, then cleanse them",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		overrideFetchFlags(cmd, cfg)
		overrideCleanseFlags(cmd, cfg)

		ctx, cancel := signalContext()
		defer cancel()

		if err := fetch(ctx, cfg); err != nil {
			return err
		}
		return cleanse(ctx, cfg)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	addFetchFlags(runCmd)
	addCleanseFlags(runCmd)
}
