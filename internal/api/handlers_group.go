package api

import "Pulseboard/internal/api/handler"

// HandlersGroup 封装了所有已初始化的 Handler 实例
type HandlersGroup struct {
	IngestHandler     *handler.IngestHandler
	MetricsHandler    *handler.MetricsHandler
	PostSearchHandler *handler.PostSearchHandler
	EntryHandler      *handler.EntryHandler
	ChangeLogHandler  *handler.ChangeLogHandler
}
