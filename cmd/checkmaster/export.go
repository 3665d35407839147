package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"checkmaster/internal/config"
	"checkmaster/internal/service/generate-excel"
	"checkmaster/internal/service/report"
	"checkmaster/internal/storage"
)

type exportOptions struct {
	orderID  string
	format   string
	from     string
	to       string
	template string
	client   string
	out      string
}

func newExportCmd(getConfig func() *config.Config) *cobra.Command {
	var opts exportOptions

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write an order export or the orders spreadsheet to a file",
		Example: "  checkmaster export --from 2026-03-01 --to 2026-03-31 --out marco.xlsx\n" +
			"  checkmaster export --order 6f1c... --format csv",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getConfig()

			log, closeLog := setupLogger(cfg.Env, cfg.ErrorLogPath)
			defer closeLog()

			a, err := newApp(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			return runExport(cmd.Context(), log, a, opts, cmd.OutOrStdout(), time.Now().UTC())
		},
	}

	cmd.Flags().StringVar(&opts.orderID, "order", "", "export a single order by id")
	cmd.Flags().StringVar(&opts.format, "format", "xlsx", "single order format: csv, xlsx or text")
	cmd.Flags().StringVar(&opts.from, "from", "", "first day of the report, YYYY-MM-DD (default: start of month)")
	cmd.Flags().StringVar(&opts.to, "to", "", "last day of the report, YYYY-MM-DD (default: today)")
	cmd.Flags().StringVar(&opts.template, "template", "", "only orders of this template id")
	cmd.Flags().StringVar(&opts.client, "client", "", "only orders whose client contains this text")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file (default: generated name, '-' for stdout)")

	return cmd
}

func runExport(ctx context.Context, log *slog.Logger, a *app, opts exportOptions, stdout io.Writer, now time.Time) error {
	const op = "main.runExport"

	var (
		data []byte
		name string
		err  error
	)

	if opts.orderID != "" {
		data, name, err = exportOrder(ctx, a, opts.orderID, opts.format)
	} else {
		data, name, err = exportReport(ctx, a, opts, now)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if opts.out == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if opts.out != "" {
		name = opts.out
	}

	if err := os.WriteFile(name, data, 0o644); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("export written", slog.String("file", name), slog.Int("bytes", len(data)))
	fmt.Fprintln(stdout, name)
	return nil
}

func exportOrder(ctx context.Context, a *app, id, format string) ([]byte, string, error) {
	switch format {
	case "xlsx":
		data, order, err := a.excel.GenerateOrderExcel(ctx, id)
		if err != nil {
			return nil, "", err
		}
		return data, report.FileName(*order, "xlsx"), nil
	case "csv", "text":
		order, err := a.store.GetOrder(ctx, id)
		if err != nil {
			return nil, "", err
		}
		if format == "text" {
			return []byte(report.ShareText(*order) + "\n"), report.FileName(*order, "txt"), nil
		}
		data, err := report.CSV(*order)
		if err != nil {
			return nil, "", err
		}
		return data, report.FileName(*order, "csv"), nil
	}
	return nil, "", fmt.Errorf("%w: unknown format %q", storage.ErrInvalid, format)
}

func exportReport(ctx context.Context, a *app, opts exportOptions, now time.Time) ([]byte, string, error) {
	filter, err := reportFilter(opts, now)
	if err != nil {
		return nil, "", err
	}

	data, err := a.excel.GenerateExcel(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	name := fmt.Sprintf("CheckMaster_Relatorio_%s.xlsx", now.Format("2006-01-02_150405"))
	return data, name, nil
}

func reportFilter(opts exportOptions, now time.Time) (generate_excel.OrderFilter, error) {
	return generate_excel.NewOrderFilter(opts.from, opts.to, opts.template, opts.client, now)
}
