package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/grandstand/vendorboard/internal/backend"
	"github.com/grandstand/vendorboard/internal/bootstrap"
	"github.com/grandstand/vendorboard/internal/cache"
	"github.com/grandstand/vendorboard/internal/config"
	"github.com/grandstand/vendorboard/internal/migrations"
	"github.com/grandstand/vendorboard/internal/repository/sqlite"
	"github.com/grandstand/vendorboard/internal/session"
	"github.com/grandstand/vendorboard/internal/settings"
	"github.com/grandstand/vendorboard/internal/support/logging"
)

// errNotLoggedIn 提示操作员先登录。
var errNotLoggedIn = errors.New("not logged in, run `vendorboard login` first")

// app 打包每个子命令都需要的公共依赖。
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	logFile  *os.File
	db       *sql.DB
	store    *sqlite.Store
	settings *settings.Service
	session  *session.Manager
	backend  *backend.Client
	cache    cache.Store
}

// newApp 装配配置、日志、本地库、会话与后端客户端。
// quietTerminal 为真时日志写入文件，终端留给 TUI。
func newApp(ctx context.Context, quietTerminal bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	a := &app{cfg: cfg}

	logOpts := logging.Options{
		Level:     cfg.Log.SlogLevel(),
		Format:    cfg.Log.Format,
		AddSource: cfg.Log.AddSource,
	}
	logPath := cfg.Log.File
	if logPath == "" && quietTerminal {
		logPath = filepath.Join(filepath.Dir(cfg.DB.Path), "vendorboard.log")
	}
	if logPath != "" {
		f, err := logging.OpenFile(logPath)
		if err != nil {
			return nil, err
		}
		a.logFile = f
		logOpts.Output = f
	}
	a.logger = logging.New(logOpts)

	db, err := bootstrap.OpenSQLite(cfg.DB.Path)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.db = db

	if err := migrations.Up(db); err != nil {
		a.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	a.store = sqlite.NewStore(db)
	a.settings = settings.NewService(a.store.Settings())
	if err := a.settings.Load(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("load settings: %w", err)
	}
	a.session = session.NewManager(a.settings, a.logger)

	a.cache = cache.NewStore(cache.Options{
		DefaultTTL:      time.Minute,
		CleanupInterval: 5 * time.Minute,
		Prefix:          "backend",
	})

	retry := backend.DefaultRetryConfig()
	if cfg.Backend.MaxRetries >= 0 {
		retry.MaxRetries = cfg.Backend.MaxRetries
	}
	a.backend = backend.NewClient(backend.Options{
		BaseURL:        cfg.Backend.BaseURL,
		Tokens:         a.settings,
		Timeout:        cfg.Backend.Timeout,
		Retry:          retry,
		OnUnauthorized: a.session.ForceLogout,
		Cache:          a.cache,
	})

	return a, nil
}

// Close 释放已打开的资源，可安全多次调用。
func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
		a.db = nil
	}
	if a.logFile != nil {
		a.logFile.Close()
		a.logFile = nil
	}
}

// requireLogin 在需要后端会话的命令入口做一次检查。
func (a *app) requireLogin() error {
	if !a.session.LoggedIn() {
		return errNotLoggedIn
	}
	return nil
}
