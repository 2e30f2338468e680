package logger

import (
	"context"
	"errors"
	log "log/slog"
	"net"
	"strings"
	"time"

	"Pulseboard/internal/pkg/consts"

	"github.com/redis/go-redis/v9"
)

const redisSlowThreshold = 100 * time.Millisecond

// RedisLoggerHook 记录 Redis 错误、慢命令和汇总缓存命中情况，不记录缓存内容
type RedisLoggerHook struct{}

func NewRedisLogger() *RedisLoggerHook {
	return &RedisLoggerHook{}
}

func (s *RedisLoggerHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		start := time.Now()
		conn, err := next(ctx, network, addr)
		if err != nil {
			log.ErrorContext(ctx, "Redis Dial Error",
				log.String("addr", addr),
				log.Duration("latency", time.Since(start)),
				log.Any("err", err),
			)
		}
		return conn, err
	}
}

func (s *RedisLoggerHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		elapsed := time.Since(start)

		name := cmd.Name()
		key := cmdKey(cmd)
		fields := []any{
			log.String("command", name),
			log.String("key_kind", KeyKind(key)),
			log.String("key", key),
			log.Duration("latency", elapsed),
		}

		switch {
		case errors.Is(err, redis.Nil):
			if name == "get" {
				log.DebugContext(ctx, "Redis Cache Miss", fields...)
			}
		case err != nil:
			// 旧版本服务端不支持 CLIENT SETINFO
			if name == "client" && strings.Contains(err.Error(), "setinfo") {
				return err
			}
			log.ErrorContext(ctx, "Redis Error", append(fields, log.Any("err", err))...)
		case elapsed > redisSlowThreshold:
			log.WarnContext(ctx, "Redis Slow", fields...)
		case name == "get":
			log.DebugContext(ctx, "Redis Cache Hit", fields...)
		}
		return err
	}
}

func (s *RedisLoggerHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		if err != nil && !errors.Is(err, redis.Nil) {
			log.ErrorContext(ctx, "Redis Pipeline Error",
				log.Int("cmd_count", len(cmds)),
				log.Duration("latency", time.Since(start)),
				log.Any("err", err))
		}
		return err
	}
}

// KeyKind 按前缀归类缓存 key
func KeyKind(key string) string {
	switch {
	case key == "":
		return "none"
	case strings.HasPrefix(key, consts.SummaryKey):
		return "summary"
	case strings.HasPrefix(key, consts.SeriesKey):
		return "series"
	case key == consts.WorkspaceListKey:
		return "workspaces"
	case strings.HasPrefix(key, "lock:"):
		return "lock"
	default:
		return "other"
	}
}

func cmdKey(cmd redis.Cmder) string {
	switch cmd.Name() {
	case "auth", "hello":
		return ""
	}
	args := cmd.Args()
	if len(args) < 2 {
		return ""
	}
	key, _ := args[1].(string)
	return key
}
