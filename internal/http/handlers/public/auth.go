package public

import (
	"github.com/sorvex/affiliate-api/internal/http/response"

	"github.com/gin-gonic/gin"
)

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email              string `json:"email" binding:"required"`
	Password           string `json:"password" binding:"required"`
	ParentDiscountCode string `json:"parent_discount_code"`
}

// Register 推广者注册
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	affiliate, token, expiresAt, err := h.AuthService.Register(req.Email, req.Password, req.ParentDiscountCode)
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, response.CodeInternal, "注册失败")
		return
	}

	response.Success(c, gin.H{
		"affiliate":  affiliate,
		"token":      token,
		"expires_at": expiresAt,
	})
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 推广者登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数不合法", err)
		return
	}

	affiliate, token, expiresAt, err := h.AuthService.Login(req.Email, req.Password)
	if err != nil {
		respondWithMappedError(c, err, authErrorRules, response.CodeInternal, "登录失败")
		return
	}

	response.Success(c, gin.H{
		"affiliate":  affiliate,
		"token":      token,
		"expires_at": expiresAt,
	})
}

// Logout 退出登录（无状态 token，仅作确认）
func (h *Handler) Logout(c *gin.Context) {
	response.SuccessWithMsg(c, "已退出登录", nil)
}

// Me 当前登录推广者信息
func (h *Handler) Me(c *gin.Context) {
	affiliateID, ok := getAffiliateID(c)
	if !ok {
		return
	}

	affiliate, err := h.AuthService.GetAffiliateByID(affiliateID)
	if err != nil {
		respondWithMappedError(c, err, dashboardErrorRules, response.CodeInternal, "查询失败")
		return
	}
	response.Success(c, affiliate)
}
