package handler

import (
	"Pulseboard/internal/api/dto"
	"Pulseboard/internal/pkg/response"
	"Pulseboard/internal/service"

	"github.com/gin-gonic/gin"
)

type PostSearchHandler struct {
	postSearchSvc service.PostSearchService
}

func NewPostSearchHandler(postSearchSvc service.PostSearchService) *PostSearchHandler {
	return &PostSearchHandler{
		postSearchSvc: postSearchSvc,
	}
}

func (s *PostSearchHandler) Search(c *gin.Context) {
	var query dto.PostSearchQueryDTO
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	hits, err := s.postSearchSvc.Search(c.Request.Context(), c.Param("workspace"), &query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, hits)
}
