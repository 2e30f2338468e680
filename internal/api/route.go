package api

import (
	"net/http"

	"Pulseboard/internal/api/middleware"
	"Pulseboard/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

// WriteRoles 允许写入的角色
var WriteRoles = []string{"editor", "admin"}

func SetupRouter(group *HandlersGroup, logIndex string, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware(allowedOrigins))
	logger.SetupGin(r, logIndex)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"code":    200,
				"message": "pong",
				"data":    nil,
			})
		})

		apiGroup.GET("/workspaces", group.MetricsHandler.ListWorkspaces)
		apiGroup.GET("/entries/:table/fields", group.EntryHandler.TableFields)

		wsGroup := apiGroup.Group("/workspaces/:workspace")
		{
			wsGroup.GET("/summary", group.MetricsHandler.GetSummary)
			wsGroup.GET("/series", group.MetricsHandler.GetSeries)
			wsGroup.GET("/series/export", group.MetricsHandler.ExportSeries)
			wsGroup.GET("/posts", group.MetricsHandler.ListPosts)
			wsGroup.GET("/posts/detail", group.MetricsHandler.GetPost)
			wsGroup.GET("/posts/search", group.PostSearchHandler.Search)
			wsGroup.GET("/entries/:table", group.EntryHandler.ListEntries)
			wsGroup.GET("/changes", group.ChangeLogHandler.List)

			// 写操作需要登录
			authGroup := wsGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware(WriteRoles...))
			{
				authGroup.POST("/ingest", group.IngestHandler.Ingest)
				authGroup.POST("/entries/:table", group.EntryHandler.AddEntry)
				authGroup.DELETE("/entries/:table/:id", group.EntryHandler.DeleteEntry)
				authGroup.DELETE("/entries/:table", group.EntryHandler.DeleteRange)
			}
		}
	}

	return r
}
