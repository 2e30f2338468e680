package logger

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

// SetupGin 访问日志按 JSON 一行输出，带上 trace_id 和工作区
func SetupGin(r *gin.Engine, index string) {
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		Output: LogWriter,
		Formatter: func(p gin.LogFormatterParams) string {
			traceID, _ := p.Keys[TraceIDKey].(string)
			var workspace string
			if p.Request != nil {
				ctx := p.Request.Context()
				if traceID == "" {
					traceID, _ = ctx.Value(TraceIDKey).(string)
				}
				workspace, _ = ctx.Value(workspaceKey{}).(string)
			}

			return fmt.Sprintf(
				`{"time":"%s","level":"INFO","msg":"GIN_ACCESS","trace_id":"%s","workspace":%q,"target_index":"%s","method":"%s","path":%q,"status":%d,"latency":"%v","bytes":%d}`+"\n",
				p.TimeStamp.Format(time.RFC3339),
				traceID,
				workspace,
				index,
				p.Method,
				p.Path,
				p.StatusCode,
				p.Latency,
				p.BodySize,
			)
		},
	}))

	r.Use(gin.Recovery())
}
