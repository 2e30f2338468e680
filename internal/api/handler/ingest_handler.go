package handler

import (
	"errors"
	"fmt"
	"io"
	log "log/slog"
	"mime/multipart"
	"net/http"
	"strconv"

	"Pulseboard/internal/pkg/response"
	"Pulseboard/internal/service"

	"github.com/gin-gonic/gin"
)

type IngestHandler struct {
	ingestSvc      service.IngestService
	maxUploadBytes int64
}

func NewIngestHandler(ingestSvc service.IngestService, maxUploadMB int) *IngestHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 20
	}
	return &IngestHandler{
		ingestSvc:      ingestSvc,
		maxUploadBytes: int64(maxUploadMB) << 20,
	}
}

// Ingest multipart 字段 followers / visitors / content，persist 缺省为 true
func (s *IngestHandler) Ingest(c *gin.Context) {
	persist := true
	if raw := c.PostForm("persist"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.Error(c, service.ErrParamInvalid)
			return
		}
		persist = v
	}

	req := &service.IngestRequest{
		Workspace: c.Param("workspace"),
		Persist:   persist,
		Archive:   true,
		Operator:  c.GetUint64("user_id"),
	}
	slots := []struct {
		field string
		dst   **service.Upload
	}{
		{"followers", &req.Followers},
		{"visitors", &req.Visitors},
		{"content", &req.Content},
	}
	for _, slot := range slots {
		upload, err := s.readUpload(c, slot.field)
		if err != nil {
			response.Error(c, err)
			return
		}
		*slot.dst = upload
	}

	result, err := s.ingestSvc.Ingest(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// readUpload 字段缺失时返回 nil；请求体无法解析时返回参数错误
func (s *IngestHandler) readUpload(c *gin.Context, field string) (*service.Upload, error) {
	file, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		log.WarnContext(c.Request.Context(), "parse multipart failed", "field", field, "err", err)
		return nil, fmt.Errorf("%w: 上传内容无法解析", service.ErrParamInvalid)
	}
	if file.Size > s.maxUploadBytes {
		return nil, fmt.Errorf("%w: %s 超过 %d MB", service.ErrParamInvalid, file.Filename, s.maxUploadBytes>>20)
	}
	data, err := readAll(file)
	if err != nil {
		log.WarnContext(c.Request.Context(), "read upload failed", "field", field, "err", err)
		return nil, service.ErrParamInvalid
	}
	return &service.Upload{Name: file.Filename, Data: data}, nil
}

func readAll(file *multipart.FileHeader) ([]byte, error) {
	reader, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()
	return io.ReadAll(reader)
}
