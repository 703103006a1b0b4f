package dto

// CreateOrderRequest HTTP下单请求
// 格式校验在这里完成;下单用例会再校验一遍收件人和数量
type CreateOrderRequest struct {
	Recipient RecipientRequest         `json:"recipient"`
	Items     []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// RecipientRequest 收件人
type RecipientRequest struct {
	Name    string `json:"name" binding:"required" example:"张三"`
	Phone   string `json:"phone" binding:"required" example:"13800138000"`
	Street  string `json:"street" binding:"required" example:"中关村大街1号"`
	City    string `json:"city" binding:"required" example:"北京"`
	ZipCode string `json:"zip_code" binding:"required" example:"100080"`
	Email   string `json:"email" binding:"required,email" example:"zhangsan@example.com"`
}

// CreateOrderItemRequest 订单明细项
type CreateOrderItemRequest struct {
	BookID   uint `json:"book_id" binding:"required" example:"1"`
	Quantity int  `json:"quantity" binding:"required,min=1" example:"2"`
}

// UpdateOrderStatusRequest 修改订单状态
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required" example:"ACCEPTED"`
}

// ListOrdersRequest 订单列表
type ListOrdersRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	Status   string `form:"status" example:"NEW"`
}
