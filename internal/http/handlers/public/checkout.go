package public

import (
	"github.com/sorvex/affiliate-api/internal/http/response"
	"github.com/sorvex/affiliate-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PurchaseRequest 成交记录请求
type PurchaseRequest struct {
	Amount        float64 `json:"amount" binding:"required"`
	CustomerEmail string  `json:"customer_email" binding:"required"`
	DiscountCode  string  `json:"discount_code"`
}

// CreatePurchase 记录一笔成交并结算佣金
func (h *Handler) CreatePurchase(c *gin.Context) {
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	sale, err := h.CheckoutService.Purchase(service.PurchaseInput{
		Amount:        decimal.NewFromFloat(req.Amount),
		CustomerEmail: req.CustomerEmail,
		DiscountCode:  req.DiscountCode,
	})
	if err != nil {
		respondWithMappedError(c, err, purchaseErrorRules, response.CodeInternal, "成交记录失败")
		return
	}
	response.Success(c, sale)
}
