package handler

import (
	"strconv"

	"Pulseboard/internal/api/dto"
	"Pulseboard/internal/model"
	"Pulseboard/internal/pkg/response"
	"Pulseboard/internal/service"

	"github.com/gin-gonic/gin"
)

type EntryHandler struct {
	entrySvc service.EntryService
}

func NewEntryHandler(entrySvc service.EntryService) *EntryHandler {
	return &EntryHandler{
		entrySvc: entrySvc,
	}
}

func tableParam(c *gin.Context) (model.Table, bool) {
	return model.ParseTable(c.Param("table"))
}

func (s *EntryHandler) TableFields(c *gin.Context) {
	table, ok := tableParam(c)
	if !ok {
		response.Error(c, service.ErrUnknownTable)
		return
	}
	fields, err := s.entrySvc.TableFields(table)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, fields)
}

func (s *EntryHandler) ListEntries(c *gin.Context) {
	table, ok := tableParam(c)
	if !ok {
		response.Error(c, service.ErrUnknownTable)
		return
	}
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, service.ErrParamInvalid)
			return
		}
		limit = v
	}

	entries, err := s.entrySvc.ListEntries(c.Request.Context(), c.Param("workspace"), table, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entries)
}

func (s *EntryHandler) AddEntry(c *gin.Context) {
	table, ok := tableParam(c)
	if !ok {
		response.Error(c, service.ErrUnknownTable)
		return
	}
	entry := dto.NewManualEntry(table)
	if err := c.ShouldBindJSON(entry); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")
	if err := s.entrySvc.AddEntry(c.Request.Context(), c.Param("workspace"), userID, entry); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *EntryHandler) DeleteEntry(c *gin.Context) {
	table, ok := tableParam(c)
	if !ok {
		response.Error(c, service.ErrUnknownTable)
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")
	result, err := s.entrySvc.DeleteEntry(c.Request.Context(), c.Param("workspace"), userID, table, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *EntryHandler) DeleteRange(c *gin.Context) {
	table, ok := tableParam(c)
	if !ok {
		response.Error(c, service.ErrUnknownTable)
		return
	}
	var req dto.DeleteRangeDTO
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("user_id")
	result, err := s.entrySvc.DeleteRange(c.Request.Context(), c.Param("workspace"), userID, table, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
