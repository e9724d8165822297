package main

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/grandstand/vendorboard/internal/backend"
)

var (
	menuSection  string
	menuCategory string

	menuItemName     string
	menuItemCategory string
	menuItemPrice    float64
	menuItemVeg      bool
	menuItemSection  string
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Inspect the menu catalog and toggle item availability",
}

var menuListCmd = &cobra.Command{
	Use:   "list",
	Short: "List menu items, optionally filtered by section and category",
	RunE:  runMenuList,
}

var menuToggleCmd = &cobra.Command{
	Use:       "toggle <item-id> on|off",
	Short:     "Mark a menu item as available or sold out",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"on", "off"},
	RunE:      runMenuToggle,
}

var menuAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a menu item to the catalog",
	RunE:  runMenuAdd,
}

var menuUpdateCmd = &cobra.Command{
	Use:   "update <item-id>",
	Short: "Edit a menu item; only the flags you pass are changed",
	Args:  cobra.ExactArgs(1),
	RunE:  runMenuUpdate,
}

func init() {
	menuListCmd.Flags().StringVar(&menuSection, "section", "", "filter by section")
	menuListCmd.Flags().StringVar(&menuCategory, "category", "", "filter by category")

	for _, c := range []*cobra.Command{menuAddCmd, menuUpdateCmd} {
		c.Flags().StringVar(&menuItemName, "name", "", "item name")
		c.Flags().StringVar(&menuItemCategory, "category", "", "item category")
		c.Flags().Float64Var(&menuItemPrice, "price", 0, "item price")
		c.Flags().BoolVar(&menuItemVeg, "veg", false, "vegetarian item")
		c.Flags().StringVar(&menuItemSection, "item-section", "", "section (BREAKFAST, LUNCH, DINNER)")
	}

	menuCmd.AddCommand(menuListCmd, menuToggleCmd, menuAddCmd, menuUpdateCmd)
	rootCmd.AddCommand(menuCmd)
}

func runMenuList(cmd *cobra.Command, args []string) error {
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

	items, err := app.backend.Menu(ctx, backend.MenuFilter{
		Section:  menuSection,
		Category: menuCategory,
	})
	if err != nil {
		return fmt.Errorf("fetch menu: %w", err)
	}
	if len(items) == 0 {
		fmt.Println("No menu items.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tSECTION\tPRICE\tVEG\tACTIVE")
	for _, item := range items {
		veg := "no"
		if item.Veg {
			veg = "yes"
		}
		active := "sold out"
		if item.Active {
			active = "yes"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.2f\t%s\t%s\n",
			item.ID, item.Name, item.Category, item.Section, item.Price, veg, active)
	}
	return w.Flush()
}

func runMenuToggle(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	itemID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid item id %q", args[0])
	}
	var active bool
	switch args[1] {
	case "on":
		active = true
	case "off":
		active = false
	default:
		return fmt.Errorf("state must be on or off, got %q", args[1])
	}

	app, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.requireLogin(); err != nil {
		return err
	}

	if err := app.backend.SetMenuItemAvailability(ctx, itemID, active); err != nil {
		return err
	}
	fmt.Printf("Menu item #%d: active=%t\n", itemID, active)
	return nil
}

func runMenuAdd(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if menuItemName == "" || menuItemCategory == "" || menuItemSection == "" {
		return fmt.Errorf("--name, --category and --item-section are required")
	}
	if menuItemPrice <= 0 {
		return fmt.Errorf("--price must be positive")
	}

	app, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.requireLogin(); err != nil {
		return err
	}

	item, err := app.backend.AddMenuItem(ctx, backend.AddMenuItemRequest{
		Name:     menuItemName,
		Category: menuItemCategory,
		Price:    menuItemPrice,
		Veg:      menuItemVeg,
		Section:  menuItemSection,
	})
	if err != nil {
		return fmt.Errorf("add menu item: %w", err)
	}
	fmt.Printf("Added menu item #%d: %s (%.2f)\n", item.ID, item.Name, item.Price)
	return nil
}

func runMenuUpdate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	itemID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid item id %q", args[0])
	}

	// 只提交显式传入的标志，未传的字段保持不变。
	var req backend.UpdateMenuItemRequest
	flags := cmd.Flags()
	if flags.Changed("name") {
		req.Name = &menuItemName
	}
	if flags.Changed("category") {
		req.Category = &menuItemCategory
	}
	if flags.Changed("price") {
		req.Price = &menuItemPrice
	}
	if flags.Changed("veg") {
		req.Veg = &menuItemVeg
	}
	if flags.Changed("item-section") {
		req.Section = &menuItemSection
	}
	if req == (backend.UpdateMenuItemRequest{}) {
		return fmt.Errorf("pass at least one of --name, --category, --price, --veg, --item-section")
	}

	app, err := newApp(ctx, false)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.requireLogin(); err != nil {
		return err
	}

	item, err := app.backend.UpdateMenuItem(ctx, itemID, req)
	if err != nil {
		return fmt.Errorf("update menu item: %w", err)
	}
	fmt.Printf("Updated menu item #%d: %s (%.2f)\n", item.ID, item.Name, item.Price)
	return nil
}
