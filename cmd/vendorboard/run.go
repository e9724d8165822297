package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/grandstand/vendorboard/internal/alert"
	"github.com/grandstand/vendorboard/internal/httpapi"
	"github.com/grandstand/vendorboard/internal/monitor"
	"github.com/grandstand/vendorboard/internal/printer"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run headless: poll, print and reconcile without a UI",
	Long:  "Run the polling core without a terminal UI. Orders and receipts are reconciled in the background; /healthz, /status and /metrics are served for supervision.",
	RunE:  runHeadless,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.requireLogin(); err != nil {
		return err
	}

	prn := buildPrinter(app.cfg.Print.Mode, app.cfg.Print.SpoolDir, os.Stdout)

	// 无人值守模式没有操作员可以确认，提示音也没有意义。
	core, err := buildCore(app, alert.SounderFunc(func() error { return nil }), prn)
	if err != nil {
		return err
	}
	if !app.settings.AutoComplete() {
		app.logger.Warn("auto-complete is off; printed batches will wait for confirmation that never comes in headless mode")
	}
	// 无界面可交互，启动即视为已交互，否则提醒永远不会触发。
	core.notifier.MarkInteracted()
	core.start(ctx)
	defer core.stop()

	router := httpapi.NewRouter(httpapi.Options{
		Logger:  app.logger,
		Monitor: monitor.New(),
		Status: func() any {
			return map[string]any{
				"print_state":   core.reconciler.State().String(),
				"print_pending": len(core.reconciler.Pending()),
				"orders_synced": core.orders.LastSync().Format(time.RFC3339),
				"orders_stale":  core.orders.Err() != nil,
			}
		},
	})

	return httpapi.Serve(ctx, app.cfg.HTTP.Addr, router, app.cfg.HTTP.ShutdownTimeout, app.logger)
}

// buildPrinter 按配置选择打印后端。
func buildPrinter(mode, spoolDir string, console io.Writer) printer.Printer {
	if mode == "spool" {
		return printer.FilePrinter{Dir: spoolDir}
	}
	return printer.WriterPrinter{W: console}
}
