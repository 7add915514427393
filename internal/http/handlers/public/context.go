package public

import (
	handlershared "github.com/sorvex/affiliate-api/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func getAffiliateID(c *gin.Context) (uint, bool) {
	return handlershared.GetContextUint(c, "affiliate_id")
}
