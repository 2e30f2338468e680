package minio

import (
	"Pulseboard/internal/api/config"
	"context"
	"fmt"
	log "log/slog"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"
)

var (
	// Client 全局 MinIO 客户端实例，未启用时为 nil
	Client *minio.Client
	// ArchiveBucket 原始导出文件归档桶
	ArchiveBucket string
)

// Init 初始化 MinIO 客户端
func Init(cfg config.MinIOConfig) error {
	var endpoint string
	var useSSL bool
	if cfg.InternalEndpoint != "" {
		endpoint = cfg.InternalEndpoint
		useSSL = cfg.InternalUseSSL
	} else {
		endpoint = cfg.ExternalEndpoint
		useSSL = true
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize minio client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.ArchiveBucket)
	if err != nil {
		return fmt.Errorf("failed to connect to minio server: %w", err)
	}
	if !exists {
		if err = client.MakeBucket(ctx, cfg.ArchiveBucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", cfg.ArchiveBucket, err)
		}
		log.Info("Archive bucket created", "bucket", cfg.ArchiveBucket)
	}

	Client = client
	ArchiveBucket = cfg.ArchiveBucket
	if cfg.RetentionDays > 0 {
		return EnsureRetention(ctx, cfg.RetentionDays)
	}
	return nil
}

// EnsureRetention 保证归档桶上有对应天数的过期规则
func EnsureRetention(ctx context.Context, days int) error {
	lcConfig, err := Client.GetBucketLifecycle(ctx, ArchiveBucket)
	if err != nil {
		lcConfig = lifecycle.NewConfiguration()
	}

	const ruleID = "ArchiveRetentionRule"
	for i, rule := range lcConfig.Rules {
		if rule.ID != ruleID {
			continue
		}
		if rule.Status == "Enabled" && int(rule.Expiration.Days) == days {
			log.Info("检测到已存在兼容的过期策略", "ruleID", rule.ID)
			return nil
		}
		// 天数变了，删掉旧规则重新写
		lcConfig.Rules = append(lcConfig.Rules[:i], lcConfig.Rules[i+1:]...)
		break
	}

	lcConfig.Rules = append(lcConfig.Rules, lifecycle.Rule{
		ID:     ruleID,
		Status: "Enabled",
		Expiration: lifecycle.Expiration{
			Days: lifecycle.ExpirationDays(days),
		},
	})
	if err = Client.SetBucketLifecycle(ctx, ArchiveBucket, lcConfig); err != nil {
		return fmt.Errorf("设置生命周期失败: %w", err)
	}
	log.Info("已更新归档桶过期策略", "days", days)
	return nil
}
