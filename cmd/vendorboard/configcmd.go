package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/grandstand/vendorboard/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the effective configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("render config: %w", err)
		}
		cmd.Print(string(out))
		return nil
	},
}

var availabilityCmd = &cobra.Command{
	Use:       "availability (open|close)",
	Short:     "Open or close the store for new orders",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"open", "close"},
	RunE: func(cmd *cobra.Command, args []string) error {
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

		open := args[0] == "open"
		state, err := app.backend.SetAvailability(ctx, open)
		if err != nil {
			return fmt.Errorf("set availability: %w", err)
		}
		if state {
			fmt.Println("Store is now open for orders.")
		} else {
			fmt.Println("Store is now closed.")
		}
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	rootCmd.AddCommand(configCmd, availabilityCmd)
}
