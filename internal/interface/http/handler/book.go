package handler

import (
	"encoding/json"
	"fmt"

	"github.com/gin-gonic/gin"

	appbook "github.com/xiebiao/bookstore-bos/internal/application/book"
	"github.com/xiebiao/bookstore-bos/internal/interface/http/dto"
	"github.com/xiebiao/bookstore-bos/pkg/response"
)

// BookHandler 图书HTTP处理器
type BookHandler struct {
	publishBook *appbook.PublishBookUseCase
	listBooks   *appbook.ListBooksUseCase
	getBook     *appbook.GetBookUseCase
	patchBook   *appbook.PatchBookUseCase
	deleteBook  *appbook.DeleteBookUseCase
}

// NewBookHandler 创建图书处理器
func NewBookHandler(
	publishBook *appbook.PublishBookUseCase,
	listBooks *appbook.ListBooksUseCase,
	getBook *appbook.GetBookUseCase,
	patchBook *appbook.PatchBookUseCase,
	deleteBook *appbook.DeleteBookUseCase,
) *BookHandler {
	return &BookHandler{
		publishBook: publishBook,
		listBooks:   listBooks,
		getBook:     getBook,
		patchBook:   patchBook,
		deleteBook:  deleteBook,
	}
}

// PublishBook 上架图书
// @Summary      上架图书（管理员）
// @Description  所有字段错误一次性返回，data为逐字段明细
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.PublishBookRequest true "图书信息"
// @Success      201 {object} response.Response{data=appbook.BookDTO}
// @Failure      400 {object} response.Response{data=[]book.FieldError} "字段校验失败"
// @Failure      401 {object} response.Response "未登录"
// @Failure      403 {object} response.Response "无权限"
// @Router       /books [post]
func (h *BookHandler) PublishBook(c *gin.Context) {
	var req dto.PublishBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.publishBook.Execute(c.Request.Context(), appbook.PublishBookRequest{
		Title:     req.Title,
		Year:      req.Year,
		Price:     req.Price,
		Available: req.Available,
		AuthorIDs: req.AuthorIDs,
		CoverURL:  req.CoverURL,
	})
	if err != nil {
		renderError(c, err)
		return
	}
	response.Created(c, fmt.Sprintf("/api/v1/books/%d", result.ID), result)
}

// ListBooks 图书列表
// @Summary      图书列表
// @Description  分页、书名关键词、价格或上架时间排序
// @Tags         图书
// @Produce      json
// @Param        page query int false "页码"
// @Param        page_size query int false "每页数量"
// @Param        keyword query string false "书名关键词"
// @Param        sort_by query string false "排序" Enums(price_asc, price_desc, created_at_desc)
// @Success      200 {object} response.Response{data=appbook.ListBooksResponse}
// @Router       /books [get]
func (h *BookHandler) ListBooks(c *gin.Context) {
	var req dto.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.listBooks.Execute(c.Request.Context(), appbook.ListBooksRequest{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
		SortBy:   req.SortBy,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetBook 图书详情
// @Summary      图书详情
// @Tags         图书
// @Produce      json
// @Param        id path int true "图书ID"
// @Success      200 {object} response.Response{data=appbook.BookDTO}
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /books/{id} [get]
func (h *BookHandler) GetBook(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	result, err := h.getBook.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// PatchBook 部分更新图书
// @Summary      部分更新图书（管理员）
// @Description  只能修改title、year、price、available、authors、cover_url；任一字段不合法则不做任何修改
// @Tags         图书
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Param        request body dto.PatchBookRequest true "要修改的字段"
// @Success      200 {object} response.Response{data=appbook.BookDTO}
// @Failure      400 {object} response.Response{data=[]book.FieldError} "字段校验失败"
// @Failure      404 {object} response.Response "图书不存在"
// @Router       /books/{id} [patch]
func (h *BookHandler) PatchBook(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var fields map[string]json.RawMessage
	if err := c.ShouldBindJSON(&fields); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.patchBook.Execute(c.Request.Context(), id, fields)
	if err != nil {
		renderError(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteBook 下架图书
// @Summary      下架图书（管理员）
// @Description  软删除，重复下架也返回204
// @Tags         图书
// @Security     BearerAuth
// @Param        id path int true "图书ID"
// @Success      204
// @Router       /books/{id} [delete]
func (h *BookHandler) DeleteBook(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.deleteBook.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
