package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"checkmaster/internal/config"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfg *config.Config

	root := &cobra.Command{
		Use:           "checkmaster",
		Short:         "Checklist builder and inspection runner for tracker installations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			if path != "" {
				loaded, err := config.Load(path)
				if err != nil {
					return err
				}
				cfg = loaded
				return nil
			}
			cfg = config.MustConfig()
			return nil
		},
	}
	root.PersistentFlags().String("config", "", "path to the YAML config (default $CONFIG_PATH or ./config/local.yaml)")

	getConfig := func() *config.Config { return cfg }

	root.AddCommand(
		newServeCmd(getConfig),
		newExportCmd(getConfig),
		newPresetsCmd(getConfig),
	)

	return root
}
