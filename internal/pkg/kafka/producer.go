package kafka

import (
	"context"
	log "log/slog"

	"Pulseboard/internal/api/config"
	"Pulseboard/internal/api/dto"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// IngestProducer 导入完成后发布事件，key 为工作区保证同一工作区有序
type IngestProducer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewIngestProducer(cfg *config.Config) (*IngestProducer, error) {
	producer, err := sarama.NewSyncProducer(cfg.Kafka.Brokers, newProducerConfig(cfg.Kafka))
	if err != nil {
		return nil, err
	}
	return NewIngestProducerWith(producer, cfg.KafkaIngestProducer.Topic), nil
}

func NewIngestProducerWith(producer sarama.SyncProducer, topic string) *IngestProducer {
	return &IngestProducer{
		producer: producer,
		topic:    topic,
	}
}

func (p *IngestProducer) PublishIngest(ctx context.Context, event *dto.IngestEventDTO) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	partition, offset, err := p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(event.Workspace),
		Value: sarama.ByteEncoder(value),
	})
	if err != nil {
		return err
	}
	log.DebugContext(ctx, "ingest event published", "topic", p.topic, "partition", partition, "offset", offset)
	return nil
}

func (p *IngestProducer) Close() error {
	return p.producer.Close()
}
