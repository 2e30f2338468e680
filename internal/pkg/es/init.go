package es

import (
	"Pulseboard/internal/api/config"
	"Pulseboard/internal/pkg/logger"
	"context"
	"fmt"
	log "log/slog"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
)

// Client 未启用检索时为 nil，帖子检索退回数据库匹配
var Client *elasticsearch.TypedClient

var PostIndex string

const (
	NotFoundCode = 404
	ConflictCode = 409
)

// InitClient 连接失败时不保留客户端
func InitClient(cfg config.ElasticConfig) error {
	client, err := elasticsearch.NewTypedClient(elasticsearch.Config{
		Addresses: []string{cfg.Address},
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: &logger.ESTransport{
			Transport: http.DefaultTransport,
		},
	})
	if err != nil {
		return fmt.Errorf("elasticsearch client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	info, err := client.Info().Do(ctx)
	if err != nil {
		return fmt.Errorf("elasticsearch info %s: %w", cfg.Address, err)
	}

	Client = client
	PostIndex = cfg.PostIndex
	log.Info("Connected to Elasticsearch", "cluster", info.ClusterName, "version", info.Version.Int, "index", PostIndex)
	return nil
}
