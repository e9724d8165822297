package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load 按 默认值 < 配置文件 < 环境变量 的顺序装配配置。
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(defaultConfigDir())
	v.AddConfigPath("/etc/vendorboard/")

	v.SetEnvPrefix("VENDORBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("backend.base_url", "VENDORBOARD_BACKEND_BASE_URL", "VENDOR_API_URL"); err != nil {
		return nil, fmt.Errorf("bind env backend.base_url: %w", err)
	}
	if err := v.BindEnv("database.path", "VENDORBOARD_DATABASE_PATH", "VENDORBOARD_DB_PATH"); err != nil {
		return nil, fmt.Errorf("bind env database.path: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// 没有配置文件时靠默认值和环境变量也能跑。
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend.base_url", "https://api.grandstand.in/api/v1")
	v.SetDefault("backend.timeout", "15s")
	v.SetDefault("backend.max_retries", 2)

	v.SetDefault("poll.orders", "5s")
	v.SetDefault("poll.prints", "10s")
	v.SetDefault("poll.analytics", "60s")

	v.SetDefault("print.mode", "console")
	v.SetDefault("print.spool_dir", filepath.Join(defaultDataDir(), "spool"))
	v.SetDefault("print.auto_debounce", "2s")
	v.SetDefault("print.recent_entries", 50)

	v.SetDefault("alert.reminder_interval", "30s")
	v.SetDefault("alert.beeps", 3)

	v.SetDefault("http.addr", "127.0.0.1:9480")
	v.SetDefault("http.shutdown_timeout", "15s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", filepath.Join(defaultDataDir(), "vendorboard.db"))

	v.SetDefault("jobs.print_log_retention_days", 30)
	v.SetDefault("jobs.cleanup_spec", "0 4 * * *")
}

// defaultConfigDir 返回用户级配置目录, 取不到时退回当前目录。
func defaultConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, "vendorboard")
}

func defaultDataDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "data"
	}
	return filepath.Join(dir, "vendorboard")
}
