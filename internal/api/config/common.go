package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Cfg 全局可访问的配置实例
var Cfg *Config

// LoadConfig 从文件加载配置并填充到 Cfg，环境变量 PULSEBOARD_* 可覆盖同名项
func LoadConfig() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")

	viper.SetEnvPrefix("PULSEBOARD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("config file not found: %w", err)
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	Cfg = &cfg

	return nil
}

func setDefaults() {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.timezone", "Local")
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.dsn", "data/pulseboard.db")
	viper.SetDefault("database.max_idle", 2)
	viper.SetDefault("database.max_open", 1)
	viper.SetDefault("database.max_lifetime", 60)
	viper.SetDefault("database.auto_migrate", true)
	viper.SetDefault("elastic.post_index", "pulseboard-posts")
	viper.SetDefault("auth.issuer", "Pulseboard")
	viper.SetDefault("auth.expire_hours", 24)
	viper.SetDefault("ingest.max_upload_mb", 20)
	viper.SetDefault("cron.summary_refresh", "@daily")
}
