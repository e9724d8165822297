package main

import (
	"context"
	"fmt"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/grandstand/vendorboard/internal/order"
	"github.com/grandstand/vendorboard/internal/poll"
)

var rejectReason string

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Inspect and act on live orders",
}

var ordersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the live orders visible to the operator",
	RunE:  runOrdersList,
}

var ordersAcceptCmd = &cobra.Command{
	Use:   "accept <order-id>",
	Short: "Accept a newly placed order",
	Args:  cobra.ExactArgs(1),
	RunE:  orderActionRunner(order.ActionAccept),
}

var ordersRejectCmd = &cobra.Command{
	Use:   "reject <order-id>",
	Short: "Reject a newly placed order (requires --reason)",
	Args:  cobra.ExactArgs(1),
	RunE:  orderActionRunner(order.ActionReject),
}

var ordersPrepareCmd = &cobra.Command{
	Use:   "prepare <order-id>",
	Short: "Mark an accepted order as preparing",
	Args:  cobra.ExactArgs(1),
	RunE:  orderActionRunner(order.ActionPrepare),
}

var ordersReadyCmd = &cobra.Command{
	Use:   "ready <order-id>",
	Short: "Mark a preparing order as ready",
	Args:  cobra.ExactArgs(1),
	RunE:  orderActionRunner(order.ActionReady),
}

func init() {
	ordersRejectCmd.Flags().StringVar(&rejectReason, "reason", "", "reason shown to the customer")
	ordersCmd.AddCommand(ordersListCmd, ordersAcceptCmd, ordersRejectCmd, ordersPrepareCmd, ordersReadyCmd)
	rootCmd.AddCommand(ordersCmd)
}

func runOrdersList(cmd *cobra.Command, args []string) error {
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

	orders, err := app.backend.LiveOrders(ctx)
	if err != nil {
		return fmt.Errorf("fetch orders: %w", err)
	}

	visible := order.Visible(orders)
	if len(visible) == 0 {
		fmt.Println("No live orders.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tSTATUS\tCUSTOMER\tTYPE\tITEMS\tAMOUNT")
	for _, o := range visible {
		items := make([]string, 0, len(o.Items))
		for _, it := range o.Items {
			items = append(items, fmt.Sprintf("%dx %s", it.Quantity, it.Name))
		}
		fmt.Fprintf(w, "#%d\t%s\t%s\t%s\t%s\t%.2f\n",
			o.OrderID, o.OrderStatus, o.CustomerName, o.FulfilmentType,
			strings.Join(items, ", "), o.TotalAmount)
	}
	return w.Flush()
}

// orderActionRunner 产出一个一次性流转命令：拉一次订单快照
// 喂给控制器，让 CLI 与 TUI 走同一条校验路径。
func orderActionRunner(action order.Action) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		orderID, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid order id %q", args[0])
		}

		app, err := newApp(ctx, false)
		if err != nil {
			return err
		}
		defer app.Close()

		if err := app.requireLogin(); err != nil {
			return err
		}

		orders := poll.NewResource("orders", app.cfg.Poll.Orders, app.backend.LiveOrders,
			poll.WithLogger[[]order.Order](app.logger))
		orders.Refresh(ctx)
		if err := orders.Err(); err != nil {
			return fmt.Errorf("fetch orders: %w", err)
		}

		ctrl := order.NewController(orders, app.backend, nil, app.logger)
		if err := ctrl.Apply(ctx, orderID, action, rejectReason); err != nil {
			return err
		}

		fmt.Printf("Order #%d: %s applied\n", orderID, action)
		return nil
	}
}
