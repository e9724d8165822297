package config

import (
	"log/slog"
	"time"
)

// Config 汇总应用的全部配置。
type Config struct {
	Backend BackendConfig `mapstructure:"backend"`
	Poll    PollConfig    `mapstructure:"poll"`
	Print   PrintConfig   `mapstructure:"print"`
	Alert   AlertConfig   `mapstructure:"alert"`
	Log     LogConfig     `mapstructure:"log"`
	DB      DBConfig      `mapstructure:"database"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Jobs    JobsConfig    `mapstructure:"jobs"`
}

// BackendConfig 定义供应商后台 API 的连接配置。
type BackendConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
}

// PollConfig 定义各资源的轮询间隔。
type PollConfig struct {
	Orders    time.Duration `mapstructure:"orders"`
	Prints    time.Duration `mapstructure:"prints"`
	Analytics time.Duration `mapstructure:"analytics"`
}

// PrintConfig 定义打印队列行为。
type PrintConfig struct {
	// Mode selects the printer backend: "console" writes receipts to
	// stdout, "spool" drops one file per batch into SpoolDir.
	Mode          string        `mapstructure:"mode"`
	SpoolDir      string        `mapstructure:"spool_dir"`
	AutoDebounce  time.Duration `mapstructure:"auto_debounce"`
	RecentEntries int           `mapstructure:"recent_entries"`
}

// AlertConfig 定义新订单提醒行为。
type AlertConfig struct {
	ReminderInterval time.Duration `mapstructure:"reminder_interval"`
	Beeps            int           `mapstructure:"beeps"`
}

// HTTPConfig 定义 run 模式下的状态服务配置。
type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig 定义日志配置。
type LogConfig struct {
	Level     string `mapstructure:"level"`
	Format    string `mapstructure:"format"`
	AddSource bool   `mapstructure:"add_source"`
	// File, when set, receives the log stream instead of stdout.
	File string `mapstructure:"file"`
}

// DBConfig 定义本地数据库配置。
type DBConfig struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
}

// JobsConfig 定义后台定时任务配置。
type JobsConfig struct {
	PrintLogRetentionDays int    `mapstructure:"print_log_retention_days"`
	CleanupSpec           string `mapstructure:"cleanup_spec"`
}

func (c LogConfig) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
