package public

import (
	"strconv"

	"github.com/sorvex/affiliate-api/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetDashboard 查询推广者仪表盘（仅本人可见）
func (h *Handler) GetDashboard(c *gin.Context) {
	callerID, ok := getAffiliateID(c)
	if !ok {
		return
	}

	targetID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || targetID == 0 {
		respondError(c, response.CodeBadRequest, "推广者 ID 不合法", err)
		return
	}

	dashboard, err := h.DashboardService.GetDashboard(callerID, uint(targetID))
	if err != nil {
		respondWithMappedError(c, err, dashboardErrorRules, response.CodeInternal, "仪表盘查询失败")
		return
	}
	response.Success(c, dashboard)
}
