package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/grandstand/vendorboard/internal/alert"
	"github.com/grandstand/vendorboard/internal/printer"
)

var printConfirm bool

var printCmd = &cobra.Command{
	Use:   "print",
	Short: "Inspect and drain the receipt print queue",
}

var printPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List receipts waiting to be printed",
	RunE:  runPrintPending,
}

var printRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Print the pending batch once and reconcile it",
	RunE:  runPrintOnce,
}

var printLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recently reconciled receipts from the local audit log",
	RunE:  runPrintLog,
}

func init() {
	printRunCmd.Flags().BoolVar(&printConfirm, "confirm", false, "confirm completion without prompting (manual mode)")
	printCmd.AddCommand(printPendingCmd, printRunCmd, printLogCmd)
	rootCmd.AddCommand(printCmd)
}

func runPrintPending(cmd *cobra.Command, args []string) error {
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

	batch, err := app.backend.PendingPrints(ctx)
	if err != nil {
		return fmt.Errorf("fetch print queue: %w", err)
	}
	if len(batch) == 0 {
		fmt.Println("Print queue is empty.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tTOKEN\tCUSTOMER\tTYPE\tTOTAL")
	for _, p := range batch {
		fmt.Fprintf(w, "#%d\t%d\t%s\t%s\t%.2f\n",
			p.OrderID, p.TokenNumber, p.CustomerName, p.FulfilmentType, p.GrandTotal)
	}
	return w.Flush()
}

func runPrintOnce(cmd *cobra.Command, args []string) error {
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
	core, err := buildCore(app, alert.SounderFunc(func() error { return nil }), prn)
	if err != nil {
		return err
	}

	core.prints.Refresh(ctx)
	if err := core.prints.Err(); err != nil {
		return fmt.Errorf("fetch print queue: %w", err)
	}
	batch, _ := core.prints.Get()
	if len(batch) == 0 {
		fmt.Println("Print queue is empty.")
		return nil
	}

	core.reconciler.Observe(ctx, batch)
	if err := core.reconciler.PrintNow(ctx); err != nil {
		return fmt.Errorf("print batch: %w", err)
	}

	if core.reconciler.State() == printer.StateAwaitingConfirmation {
		confirmed := printConfirm
		if !confirmed {
			answer := prompt(fmt.Sprintf("Printed %d receipt(s) ok? [y/N]", len(batch)), "n")
			confirmed = strings.EqualFold(answer, "y") || strings.EqualFold(answer, "yes")
		}
		if !confirmed {
			_ = core.reconciler.Decline()
			fmt.Println("Batch kept in the queue for retry.")
			return nil
		}
		if err := core.reconciler.Confirm(ctx); err != nil {
			return fmt.Errorf("confirm batch: %w", err)
		}
	}

	fmt.Printf("Reconciled %d receipt(s).\n", len(batch))
	return nil
}

func runPrintLog(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer app.Close()

	entries, err := app.store.PrintLogs().ListRecent(ctx, app.cfg.Print.RecentEntries)
	if err != nil {
		return fmt.Errorf("read print log: %w", err)
	}
	if len(entries) == 0 {
		fmt.Println("No printed receipts recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tTOKEN\tMODE\tTOTAL\tPRINTED AT")
	for _, e := range entries {
		fmt.Fprintf(w, "#%d\t%d\t%s\t%.2f\t%s\n",
			e.OrderID, e.TokenNumber, e.Mode, e.GrandTotal,
			e.PrintedAt.Local().Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}
