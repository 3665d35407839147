package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"checkmaster/internal/config"
	"checkmaster/internal/service/builder"
	"checkmaster/internal/storage"
)

func newPresetsCmd(getConfig func() *config.Config) *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "presets",
		Short: "List the built-in templates and option lists",
		Long: "List the built-in templates and option lists. With --seed the store is\n" +
			"opened and the templates are written to it if it has none yet.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if seed {
				cfg := getConfig()

				log, closeLog := setupLogger(cfg.Env, cfg.ErrorLogPath)
				defer closeLog()

				a, err := newApp(cmd.Context(), cfg, log)
				if err != nil {
					return err
				}
				defer a.Close()

				templates, err := a.store.GetTemplates(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "store has %d templates\n", len(templates))
				return nil
			}

			return printPresets(cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&seed, "seed", false, "write the preset templates into an empty store")

	return cmd
}

func printPresets(out io.Writer) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "TEMPLATE\tNAME\tFIELDS\tFAVORITE")
	for _, t := range storage.Presets() {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%t\n", t.ID, t.Name, len(t.Fields), t.IsFavorite)
	}
	fmt.Fprintln(tw)

	names := make([]string, 0, len(builder.OptionPresets))
	for name := range builder.OptionPresets {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(tw, "OPTION PRESET\tOPTIONS")
	for _, name := range names {
		fmt.Fprintf(tw, "%s\t%s\n", name, strings.Join(builder.OptionPresets[name], ", "))
	}

	return tw.Flush()
}
