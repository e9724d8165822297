package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/grandstand/vendorboard/internal/backend"
)

var (
	loginPhone    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the vendor backend and store the session",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored vendor session",
	RunE:  runLogout,
}

var meCmd = &cobra.Command{
	Use:   "me",
	Short: "Show the authenticated vendor profile",
	RunE:  runMe,
}

func init() {
	loginCmd.Flags().StringVar(&loginPhone, "phone", "", "vendor phone number")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "vendor password (prompted when omitted)")
	rootCmd.AddCommand(loginCmd, logoutCmd, meCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer app.Close()

	phone := loginPhone
	if phone == "" {
		phone = prompt("Phone", app.settings.RememberedPhone())
	}
	if phone == "" {
		return fmt.Errorf("phone is required")
	}

	password := loginPassword
	if password == "" {
		password = prompt("Password", "")
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}

	resp, err := app.backend.Login(ctx, backend.LoginRequest{Phone: phone, Password: password})
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := app.session.StoreLogin(ctx, phone, resp); err != nil {
		return fmt.Errorf("store session: %w", err)
	}

	fmt.Printf("Logged in as %s (%s)\n", resp.Name, resp.ServiceType)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	app, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.session.Logout(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	fmt.Println("Logged out")
	return nil
}

func runMe(cmd *cobra.Command, args []string) error {
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

	profile, err := app.backend.Me(ctx)
	if err != nil {
		return fmt.Errorf("fetch profile: %w", err)
	}

	fmt.Printf("Vendor:   %s (#%d)\n", profile.Name, profile.VendorID)
	fmt.Printf("Phone:    %s\n", profile.Phone)
	fmt.Printf("Service:  %s\n", profile.ServiceType)
	if profile.Address != "" {
		fmt.Printf("Address:  %s\n", profile.Address)
	}
	if expires, ok := app.session.ExpiresAt(); ok {
		fmt.Printf("Session:  expires %s\n", expires.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

// prompt 在标准输入上读一行，空输入时退回默认值。
func prompt(label, fallback string) string {
	if fallback != "" {
		fmt.Printf("%s [%s]: ", label, fallback)
	} else {
		fmt.Printf("%s: ", label)
	}
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return fallback
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return fallback
	}
	return line
}
