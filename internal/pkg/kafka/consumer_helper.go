package kafka

import (
	"context"
	log "log/slog"
	"time"

	"Pulseboard/internal/pkg/logger"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

type LogicFunc func(ctx context.Context, msg *sarama.ConsumerMessage) error

// retryPolicy 指数退避，attempts 包含第一次执行
type retryPolicy struct {
	attempts int
	initial  time.Duration
	max      time.Duration
}

var defaultRetry = retryPolicy{attempts: 5, initial: 200 * time.Millisecond, max: 5 * time.Second}

// run 返回最后一次的错误；ctx 结束时立即返回 ctx.Err()
func (p retryPolicy) run(ctx context.Context, fn func() error) error {
	interval := p.initial
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || attempt >= p.attempts {
			return err
		}
		log.WarnContext(ctx, "retry message", "attempt", attempt, "err", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
		interval = min(interval*2, p.max)
	}
}

// consumeInOrder 同一分区的消息逐条处理，同一工作区的导入按发送顺序生效
func consumeInOrder(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim, logic LogicFunc, policy retryPolicy) error {
	for {
		select {
		case msg, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			ctx := logger.WithTrace(session.Context(), "kafka-"+uuid.NewString())
			err := policy.run(ctx, func() error { return logic(ctx, msg) })
			if session.Context().Err() != nil {
				// 再均衡或退出，未提交的消息交给下一个消费者
				return nil
			}
			if err != nil {
				log.ErrorContext(ctx, "give up message", "topic", msg.Topic, "partition", msg.Partition, "offset", msg.Offset, "err", err)
			}
			session.MarkMessage(msg, "")
			session.Commit()
		case <-session.Context().Done():
			return nil
		}
	}
}
