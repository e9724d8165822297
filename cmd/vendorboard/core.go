package main

import (
	"context"
	"fmt"

	"github.com/grandstand/vendorboard/internal/alert"
	"github.com/grandstand/vendorboard/internal/backend"
	"github.com/grandstand/vendorboard/internal/job"
	"github.com/grandstand/vendorboard/internal/metrics"
	"github.com/grandstand/vendorboard/internal/order"
	"github.com/grandstand/vendorboard/internal/poll"
	"github.com/grandstand/vendorboard/internal/printer"
)

// core 是 dashboard 与 run 两种模式共用的轮询/对账内核。
type core struct {
	collectors *metrics.Collectors
	orders     *poll.Resource[[]order.Order]
	prints     *poll.Resource[[]printer.PrintOrder]
	analytics  *poll.Resource[*backend.CanteenAnalytics]
	controller *order.Controller
	reconciler *printer.Reconciler
	notifier   *alert.Notifier
	scheduler  *job.Scheduler
}

// buildCore 装配轮询资源、控制器、对账器与定时任务。
func buildCore(a *app, sounder alert.Sounder, prn printer.Printer) (*core, error) {
	c := &core{collectors: metrics.New(metrics.Options{})}

	c.orders = poll.NewResource("orders", a.cfg.Poll.Orders, a.backend.LiveOrders,
		poll.WithLogger[[]order.Order](a.logger),
		poll.WithObserver[[]order.Order](c.collectors),
	)
	c.prints = poll.NewResource("prints", a.cfg.Poll.Prints, a.backend.PendingPrints,
		poll.WithLogger[[]printer.PrintOrder](a.logger),
		poll.WithObserver[[]printer.PrintOrder](c.collectors),
	)
	c.analytics = poll.NewResource("analytics", a.cfg.Poll.Analytics, a.backend.Analytics,
		poll.WithLogger[*backend.CanteenAnalytics](a.logger),
		poll.WithObserver[*backend.CanteenAnalytics](c.collectors),
	)

	c.controller = order.NewController(c.orders, a.backend, c.collectors, a.logger)

	c.reconciler = printer.NewReconciler(printer.Options{
		Queue:    c.prints,
		API:      a.backend,
		Printer:  prn,
		Settings: a.settings,
		Audit:    printer.RepoAudit{Logs: a.store.PrintLogs()},
		Stats:    c.collectors,
		Logger:   a.logger,
		Debounce: a.cfg.Print.AutoDebounce,
	})

	c.notifier = alert.NewNotifier(sounder, a.cfg.Alert.ReminderInterval, a.logger)
	c.notifier.SetStats(c.collectors)

	c.scheduler = job.NewScheduler(a.logger)
	cleanup := job.NewPrintLogCleanupJob(a.store.PrintLogs(), a.cfg.Jobs.PrintLogRetentionDays, a.logger)
	if _, err := c.scheduler.Register(a.cfg.Jobs.CleanupSpec, cleanup); err != nil {
		return nil, fmt.Errorf("register cleanup job: %w", err)
	}
	expiry := job.NewSessionExpiryJob(a.session, 0, a.logger)
	if _, err := c.scheduler.Register("@hourly", expiry); err != nil {
		return nil, fmt.Errorf("register session job: %w", err)
	}

	return c, nil
}

// start 启动全部后台循环；随 ctx 取消一起退出。
func (c *core) start(ctx context.Context) {
	go c.orders.Run(ctx)
	go c.prints.Run(ctx)
	go c.analytics.Run(ctx)
	go c.reconciler.Run(ctx)
	go c.notifier.Run(ctx)

	// 待接单数量喂给提醒器。
	go func() {
		ch := c.orders.Subscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case snapshot := <-ch:
				c.notifier.Observe(order.PendingCount(snapshot))
			}
		}
	}()

	c.scheduler.Start()
}

// stop 停止定时任务并等待在途任务结束。
func (c *core) stop() {
	<-c.scheduler.Stop().Done()
}
