package minio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// ErrNotInitialized 未配置 MinIO
var ErrNotInitialized = errors.New("minio client is not initialized")

// Enabled 是否已连接
func Enabled() bool {
	return Client != nil
}

// ArchiveObjectName {workspace}/{yyyy/mm/dd}/{kind}-{uuid}.xlsx
func ArchiveObjectName(workspace, kind string, now time.Time) string {
	return fmt.Sprintf("%s/%s%s-%s.xlsx", workspace, now.Format("2006/01/02/"), kind, uuid.NewString())
}

// UploadFile 上传文件到归档桶
func UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	if Client == nil {
		return "", ErrNotInitialized
	}

	uploadInfo, err := Client.PutObject(ctx, ArchiveBucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return uploadInfo.Key, nil
}

// GetFile 读取归档对象，调用方负责关闭
func GetFile(ctx context.Context, objectName string) (io.ReadCloser, error) {
	if Client == nil {
		return nil, ErrNotInitialized
	}

	obj, err := Client.GetObject(ctx, ArchiveBucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get file: %w", err)
	}
	// GetObject 是惰性的，Stat 一次确认对象存在
	if _, err = obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, fmt.Errorf("failed to stat file %s: %w", objectName, err)
	}
	return obj, nil
}

// DeleteFile 删除归档对象
func DeleteFile(ctx context.Context, objectName string) error {
	if Client == nil {
		return ErrNotInitialized
	}

	err := Client.RemoveObject(ctx, ArchiveBucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}
