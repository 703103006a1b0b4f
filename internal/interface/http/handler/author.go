package handler

import (
	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookstore-bos/internal/application/book"
	"github.com/xiebiao/bookstore-bos/internal/interface/http/dto"
	"github.com/xiebiao/bookstore-bos/pkg/response"
)

// AuthorHandler 作者HTTP处理器
type AuthorHandler struct {
	authors *appbook.AuthorUseCase
}

func NewAuthorHandler(authors *appbook.AuthorUseCase) *AuthorHandler {
	return &AuthorHandler{authors: authors}
}

// CreateAuthor 新增作者
// @Summary      新增作者（管理员）
// @Tags         作者
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateAuthorRequest true "作者姓名"
// @Success      201 {object} response.Response{data=appbook.AuthorDTO}
// @Failure      400 {object} response.Response "参数错误"
// @Router       /authors [post]
func (h *AuthorHandler) CreateAuthor(c *gin.Context) {
	var req dto.CreateAuthorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.authors.Create(c.Request.Context(), appbook.CreateAuthorRequest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "", result)
}

// ListAuthors 作者列表
// @Summary      作者列表
// @Tags         作者
// @Produce      json
// @Success      200 {object} response.Response{data=[]appbook.AuthorDTO}
// @Router       /authors [get]
func (h *AuthorHandler) ListAuthors(c *gin.Context) {
	result, err := h.authors.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
