package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/grandstand/vendorboard/internal/alert"
	"github.com/grandstand/vendorboard/internal/printer"
	"github.com/grandstand/vendorboard/internal/tui"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Launch the interactive order dashboard",
	Long:  "Launch the terminal dashboard: live orders with lifecycle actions, print queue reconciliation and the daily report.",
	RunE:  runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.requireLogin(); err != nil {
		return err
	}

	// 终端被 TUI 占用，小票一律落到 spool 目录。
	prn := printer.FilePrinter{Dir: app.cfg.Print.SpoolDir}
	bell := alert.Bell{W: os.Stderr, Beeps: app.cfg.Alert.Beeps}

	core, err := buildCore(app, bell, prn)
	if err != nil {
		return err
	}
	core.start(ctx)
	defer core.stop()

	vendorName := ""
	if profile, ok := app.session.Profile(); ok {
		vendorName = profile.Name
	}

	model := tui.NewModel(tui.Deps{
		Orders:     core.orders,
		Prints:     core.prints,
		Analytics:  core.analytics,
		Controller: core.controller,
		Reconciler: core.reconciler,
		Alerts:     core.notifier,
		Settings:   app.settings,
		Backend:    app.backend,
		VendorName: vendorName,
	})

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run dashboard: %w", err)
	}
	return nil
}
