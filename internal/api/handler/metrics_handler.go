package handler

import (
	"fmt"
	"strconv"

	"Pulseboard/internal/pkg/aggregate"
	"Pulseboard/internal/pkg/period"
	"Pulseboard/internal/pkg/response"
	"Pulseboard/internal/service"

	"github.com/gin-gonic/gin"
)

type MetricsHandler struct {
	metricsSvc service.MetricsService
}

func NewMetricsHandler(metricsSvc service.MetricsService) *MetricsHandler {
	return &MetricsHandler{
		metricsSvc: metricsSvc,
	}
}

func (s *MetricsHandler) ListWorkspaces(c *gin.Context) {
	names, err := s.metricsSvc.ListWorkspaces(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, names)
}

func (s *MetricsHandler) GetSummary(c *gin.Context) {
	tag, err := period.ParseTag(c.Query("period"))
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	summary, err := s.metricsSvc.GetSummary(c.Request.Context(), c.Param("workspace"), tag)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, summary)
}

func (s *MetricsHandler) GetSeries(c *gin.Context) {
	tag, err := period.ParseTag(c.Query("period"))
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	series, err := s.metricsSvc.GetSeries(c.Request.Context(), c.Param("workspace"), tag)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, series)
}

// ExportSeries 单个指标导出为 CSV
func (s *MetricsHandler) ExportSeries(c *gin.Context) {
	tag, err := period.ParseTag(c.Query("period"))
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	metric, ok := aggregate.ParseMetric(c.Query("metric"))
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	workspace := c.Param("workspace")
	points, err := s.metricsSvc.GetMetricSeries(c.Request.Context(), workspace, tag, metric)
	if err != nil {
		response.Error(c, err)
		return
	}

	rows := make([][]string, 0, len(points))
	for _, p := range points {
		rows = append(rows, []string{p.Date.String(), strconv.FormatFloat(p.Value, 'f', -1, 64)})
	}
	filename := fmt.Sprintf("%s_%s_%s.csv", workspace, metric, tag.Short())
	response.CSV(c, filename, []string{"date", string(metric)}, rows)
}

func (s *MetricsHandler) ListPosts(c *gin.Context) {
	posts, err := s.metricsSvc.ListPosts(c.Request.Context(), c.Param("workspace"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posts)
}

func (s *MetricsHandler) GetPost(c *gin.Context) {
	post, err := s.metricsSvc.GetPost(c.Request.Context(), c.Param("workspace"), c.Query("title"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, post)
}
