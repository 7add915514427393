package admin

import (
	"errors"
	"strconv"

	handlershared "github.com/sorvex/affiliate-api/internal/http/handlers/shared"
	"github.com/sorvex/affiliate-api/internal/http/response"
	"github.com/sorvex/affiliate-api/internal/repository"
	"github.com/sorvex/affiliate-api/internal/service"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

// ListAffiliates 查询推广者列表
func (h *Handler) ListAffiliates(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	rows, total, err := h.AdminService.ListAffiliates(repository.AffiliateListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  c.Query("keyword"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "推广者列表查询失败", err)
		return
	}

	response.SuccessWithPage(c, rows, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// ListSales 查询成交流水列表
func (h *Handler) ListSales(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = handlershared.NormalizePagination(page, pageSize)

	affiliateID, _ := strconv.ParseUint(c.Query("affiliate_id"), 10, 64)

	rows, total, err := h.AdminService.ListSales(repository.SaleListFilter{
		Page:        page,
		PageSize:    pageSize,
		AffiliateID: uint(affiliateID),
		Status:      c.Query("status"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "成交流水查询失败", err)
		return
	}

	response.SuccessWithPage(c, rows, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// UpdateSaleStatusRequest 成交审核状态更新请求
type UpdateSaleStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdateSaleStatus 更新成交审核状态
func (h *Handler) UpdateSaleStatus(c *gin.Context) {
	saleID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || saleID == 0 {
		respondError(c, response.CodeBadRequest, "成交 ID 不合法", err)
		return
	}

	var req UpdateSaleStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	sale, err := h.AdminService.UpdateSaleStatus(uint(saleID), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSaleStatusInvalid):
			respondError(c, response.CodeBadRequest, "成交状态不合法", nil)
		case errors.Is(err, service.ErrNotFound):
			respondError(c, response.CodeNotFound, "成交记录不存在", nil)
		default:
			respondError(c, response.CodeInternal, "成交状态更新失败", err)
		}
		return
	}
	response.Success(c, sale)
}
