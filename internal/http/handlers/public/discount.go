package public

import (
	"github.com/sorvex/affiliate-api/internal/http/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ValidateDiscountRequest 折扣码校验请求
type ValidateDiscountRequest struct {
	Code   string  `json:"code" binding:"required"`
	Amount float64 `json:"amount" binding:"required"`
}

// ValidateDiscount 校验折扣码并试算折后价，只读不落库
func (h *Handler) ValidateDiscount(c *gin.Context) {
	var req ValidateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	outcome, err := h.DiscountService.Resolve(req.Code, decimal.NewFromFloat(req.Amount))
	if err != nil {
		respondWithMappedError(c, err, discountErrorRules, response.CodeInternal, "折扣码校验失败")
		return
	}
	response.Success(c, outcome)
}
