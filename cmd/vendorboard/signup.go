package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/grandstand/vendorboard/internal/backend"
)

var (
	signupName        string
	signupPhone       string
	signupPassword    string
	signupServiceType string
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Register a new vendor account",
	Long:  "Register a vendor account with the backend. Onboarding details are completed from the web console afterwards.",
	RunE:  runSignup,
}

func init() {
	signupCmd.Flags().StringVar(&signupName, "name", "", "vendor display name")
	signupCmd.Flags().StringVar(&signupPhone, "phone", "", "vendor phone number")
	signupCmd.Flags().StringVar(&signupPassword, "password", "", "account password (prompted when omitted)")
	signupCmd.Flags().StringVar(&signupServiceType, "service-type", "canteen", "service type (canteen, mess)")
	rootCmd.AddCommand(signupCmd)
}

func runSignup(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer app.Close()

	name := signupName
	if name == "" {
		name = prompt("Vendor name", "")
	}
	if name == "" {
		return fmt.Errorf("name is required")
	}

	phone := signupPhone
	if phone == "" {
		phone = prompt("Phone", "")
	}
	if phone == "" {
		return fmt.Errorf("phone is required")
	}

	password := signupPassword
	if password == "" {
		password = prompt("Password", "")
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}

	resp, err := app.backend.Signup(ctx, backend.SignupRequest{
		Name:        name,
		Phone:       phone,
		Password:    password,
		ServiceType: signupServiceType,
	})
	if err != nil {
		return fmt.Errorf("signup: %w", err)
	}

	fmt.Printf("Account created (#%d). %s\n", resp.VendorID, resp.Message)
	fmt.Println("Run `vendorboard login` to start a session.")
	return nil
}
