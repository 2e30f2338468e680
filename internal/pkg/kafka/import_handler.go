package kafka

import (
	"context"
	log "log/slog"

	"Pulseboard/internal/api/dto"
	"Pulseboard/internal/pkg/logger"
	"Pulseboard/internal/pkg/util"
	"Pulseboard/internal/service"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// ImportHandler 消费导入任务，从归档桶读取文件后导入
type ImportHandler struct {
	ingestSvc service.IngestService
}

func NewImportHandler(ingestSvc service.IngestService) *ImportHandler {
	return &ImportHandler{
		ingestSvc: ingestSvc,
	}
}

func (s *ImportHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("import consumer setup")
	return nil
}

func (s *ImportHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("import consumer cleanup")
	return nil
}

func (s *ImportHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	log.Info("topic-import consume claim", "partition", claim.Partition())
	return consumeInOrder(session, claim, s.logic, defaultRetry)
}

func (s *ImportHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	req, err := ParseImportRequest(msg.Value)
	if err != nil {
		// 消息本身有问题，重试也不会成功
		log.WarnContext(ctx, "drop malformed import request", "offset", msg.Offset, "err", err)
		return nil
	}
	ctx = logger.WithWorkspace(ctx, req.Workspace)

	result, err := s.ingestSvc.IngestFromArchive(ctx, req)
	if err != nil {
		if Permanent(err) {
			log.WarnContext(ctx, "drop import request", "err", err)
			return nil
		}
		return err
	}
	log.InfoContext(ctx, "import finished", "persisted", result.Persisted, "rows", result.Rows, "warnings", result.Warnings)
	return nil
}

// ParseImportRequest 反序列化并校验导入任务
func ParseImportRequest(value []byte) (*dto.ImportRequestDTO, error) {
	var req dto.ImportRequestDTO
	if err := json.Unmarshal(value, &req); err != nil {
		return nil, err
	}
	if err := util.ValidateDTO(&req); err != nil {
		return nil, err
	}
	return &req, nil
}

// Permanent 业务错误（4xx）不再重试
func Permanent(err error) bool {
	code, ok := service.CodeOf(err)
	return ok && code < service.InternalServerError
}
