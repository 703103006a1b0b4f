package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	apporder "github.com/xiebiao/bookstore-bos/internal/application/order"
	"github.com/xiebiao/bookstore-bos/internal/domain/order"
	"github.com/xiebiao/bookstore-bos/internal/interface/http/dto"
	"github.com/xiebiao/bookstore-bos/internal/interface/http/middleware"
	"github.com/xiebiao/bookstore-bos/pkg/response"
)

// OrderHandler 订单HTTP处理器
type OrderHandler struct {
	createOrder  *apporder.CreateOrderUseCase
	getOrder     *apporder.GetOrderUseCase
	listOrders   *apporder.ListOrdersUseCase
	updateStatus *apporder.UpdateOrderStatusUseCase
	deleteOrder  *apporder.DeleteOrderUseCase
}

// NewOrderHandler 创建订单处理器
func NewOrderHandler(
	createOrder *apporder.CreateOrderUseCase,
	getOrder *apporder.GetOrderUseCase,
	listOrders *apporder.ListOrdersUseCase,
	updateStatus *apporder.UpdateOrderStatusUseCase,
	deleteOrder *apporder.DeleteOrderUseCase,
) *OrderHandler {
	return &OrderHandler{
		createOrder:  createOrder,
		getOrder:     getOrder,
		listOrders:   listOrders,
		updateStatus: updateStatus,
		deleteOrder:  deleteOrder,
	}
}

func viewer(c *gin.Context) apporder.Viewer {
	return apporder.Viewer{UserID: middleware.GetUserID(c), Admin: middleware.IsAdmin(c)}
}

// CreateOrder 创建订单
// @Summary      创建订单
// @Description  一个事务内锁定全部图书、校验库存、扣减库存并生成NEW状态订单
// @Tags         订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateOrderRequest true "收件人和订单明细"
// @Success      201 {object} response.Response{data=apporder.RichOrder} "下单成功，Location指向新订单"
// @Failure      400 {object} response.Response "参数错误、图书不存在或库存不足"
// @Failure      401 {object} response.Response "未登录"
// @Failure      409 {object} response.Response "并发冲突，可重试"
// @Failure      429 {object} response.Response "请求过于频繁"
// @Router       /orders [post]
//
// 业务失败除并发冲突(409)外一律返回400
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	items := make([]apporder.CreateOrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = apporder.CreateOrderItem{BookID: item.BookID, Quantity: item.Quantity}
	}

	ctx := c.Request.Context()
	created, err := h.createOrder.Execute(ctx, apporder.CreateOrderRequest{
		UserID: middleware.MustGetUserID(c),
		Recipient: order.Recipient{
			Name:    req.Recipient.Name,
			Phone:   req.Recipient.Phone,
			Street:  req.Recipient.Street,
			City:    req.Recipient.City,
			ZipCode: req.Recipient.ZipCode,
			Email:   req.Recipient.Email,
		},
		Items: items,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	if !created.IsSuccess() {
		status := created.Err().HTTPStatus()
		if status != http.StatusConflict {
			status = http.StatusBadRequest
		}
		c.AbortWithStatusJSON(status, response.Response{Code: created.Code(), Message: created.Message()})
		return
	}

	id := created.Value()
	rich, err := h.getOrder.Execute(ctx, id, viewer(c))
	render(c, rich, err, func(o *apporder.RichOrder) {
		response.Created(c, fmt.Sprintf("/api/v1/orders/%d", id), o)
	})
}

// GetOrder 订单详情
// @Summary      订单详情
// @Description  普通用户只能查看自己的订单
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      200 {object} response.Response{data=apporder.RichOrder}
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /orders/{id} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	o, err := h.getOrder.Execute(c.Request.Context(), id, viewer(c))
	render(c, o, err, func(o *apporder.RichOrder) {
		response.Success(c, o)
	})
}

// ListOrders 订单列表
// @Summary      订单列表
// @Description  管理员查看全部订单，普通用户只看自己的
// @Tags         订单
// @Produce      json
// @Security     BearerAuth
// @Param        page query int false "页码"
// @Param        page_size query int false "每页数量"
// @Param        status query string false "状态过滤" Enums(NEW, ACCEPTED, SENT, CANCELED)
// @Success      200 {object} response.Response{data=response.PageData{list=[]apporder.RichOrder}}
// @Failure      400 {object} response.Response "未知状态"
// @Router       /orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var req dto.ListOrdersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	page, err := h.listOrders.Execute(c.Request.Context(), apporder.ListOrdersRequest{
		Page:     req.Page,
		PageSize: req.PageSize,
		Status:   req.Status,
		Viewer:   viewer(c),
	})
	render(c, page, err, func(p *apporder.OrderPage) {
		response.SuccessWithPage(c, p.List, p.Total, p.Page, p.PageSize)
	})
}

// UpdateOrderStatus 修改订单状态
// @Summary      修改订单状态（管理员）
// @Description  按状态流转表校验；NEW→CANCELED归还库存
// @Tags         订单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Param        request body dto.UpdateOrderStatusRequest true "目标状态"
// @Success      200 {object} response.Response{data=apporder.RichOrder}
// @Failure      400 {object} response.Response "非法状态或非法流转"
// @Failure      403 {object} response.Response "无权限"
// @Failure      404 {object} response.Response "订单不存在"
// @Router       /orders/{id}/status [patch]
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req dto.UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	o, err := h.updateStatus.Execute(c.Request.Context(), id, req.Status)
	render(c, o, err, func(o *apporder.RichOrder) {
		response.Success(c, o)
	})
}

// DeleteOrder 删除订单
// @Summary      删除订单（管理员）
// @Description  NEW状态的订单删除时归还库存；订单不存在也返回204
// @Tags         订单
// @Security     BearerAuth
// @Param        id path int true "订单ID"
// @Success      204
// @Failure      403 {object} response.Response "无权限"
// @Router       /orders/{id} [delete]
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	deleted, err := h.deleteOrder.Execute(c.Request.Context(), id)
	render(c, deleted, err, func(bool) {
		response.NoContent(c)
	})
}
