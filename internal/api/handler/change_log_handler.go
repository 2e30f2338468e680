package handler

import (
	"Pulseboard/internal/api/dto"
	"Pulseboard/internal/pkg/response"
	"Pulseboard/internal/pkg/util"
	"Pulseboard/internal/service"

	"github.com/gin-gonic/gin"
)

type ChangeLogHandler struct {
	changeLogSvc service.ChangeLogService
}

func NewChangeLogHandler(changeLogSvc service.ChangeLogService) *ChangeLogHandler {
	return &ChangeLogHandler{
		changeLogSvc: changeLogSvc,
	}
}

func (s *ChangeLogHandler) List(c *gin.Context) {
	var query dto.ChangeLogQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	if err := util.ValidateDTO(&query); err != nil {
		response.Fail(c, response.BadRequest, err.Error())
		return
	}

	list, err := s.changeLogSvc.List(c.Request.Context(), c.Param("workspace"), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, list)
}
