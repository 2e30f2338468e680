package kafka

import (
	"context"
	log "log/slog"
	"time"

	"Pulseboard/internal/api/config"
	"Pulseboard/internal/service"

	"github.com/IBM/sarama"
)

// rejoinDelay Consume 返回错误后重新加入消费组前的等待
const rejoinDelay = 3 * time.Second

// ConsumerManager 运行导入任务消费组
type ConsumerManager struct {
	group   sarama.ConsumerGroup
	handler sarama.ConsumerGroupHandler
	topic   string
}

func NewConsumerManager(cfg *config.Config, ingestSvc service.IngestService) (*ConsumerManager, error) {
	group, err := sarama.NewConsumerGroup(cfg.Kafka.Brokers, cfg.KafkaImportConsumer.GroupID, newSaramaConfig(cfg.Kafka))
	if err != nil {
		return nil, err
	}
	return &ConsumerManager{
		group:   group,
		handler: NewImportHandler(ingestSvc),
		topic:   cfg.KafkaImportConsumer.Topic,
	}, nil
}

// Start 阻塞到 ctx 结束，期间再均衡后自动重新加入消费组
func (m *ConsumerManager) Start(ctx context.Context) error {
	go m.drainErrors()

	log.Info("Import consumer started", "topic", m.topic)
	for ctx.Err() == nil {
		if err := m.group.Consume(ctx, []string{m.topic}, m.handler); err != nil {
			log.Error("Import consumer session ended", "topic", m.topic, "err", err)
			select {
			case <-ctx.Done():
			case <-time.After(rejoinDelay):
			}
		}
	}

	log.Info("Import consumer shutting down", "topic", m.topic)
	if err := m.group.Close(); err != nil {
		log.Error("Failed to close import consumer", "err", err)
		return err
	}
	return nil
}

func (m *ConsumerManager) drainErrors() {
	for err := range m.group.Errors() {
		log.Error("Import consumer error", "topic", m.topic, "err", err)
	}
}
