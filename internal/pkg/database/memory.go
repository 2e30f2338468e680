package database

import (
	"Pulseboard/internal/api/config"
	"strings"
)

// MemoryConfig 命名的 sqlite 内存库，单连接保证库在进程内一直存在
func MemoryConfig(name string) *config.DBConfig {
	name = strings.NewReplacer("/", "_", " ", "_").Replace(name)
	return &config.DBConfig{
		Driver:      "sqlite",
		DSN:         "file:" + name + "?mode=memory&cache=shared",
		MaxIdle:     1,
		MaxOpen:     1,
		MaxLifetime: 60,
		AutoMigrate: true,
	}
}
