package public

import (
	"errors"

	"github.com/sorvex/affiliate-api/internal/http/response"
	"github.com/sorvex/affiliate-api/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	msg    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, rule.msg, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

var authErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, msg: "邮箱格式不正确"},
	{target: service.ErrPasswordRequired, code: response.CodeBadRequest, msg: "密码不能为空"},
	{target: service.ErrPasswordTooShort, code: response.CodeBadRequest, msg: "密码长度至少 6 位"},
	{target: service.ErrEmailExists, code: response.CodeBadRequest, msg: "邮箱已被注册"},
	{target: service.ErrInvalidCredentials, code: response.CodeBadRequest, msg: "邮箱或密码错误"},
	{target: service.ErrCodeGeneration, code: response.CodeInternal, msg: "折扣码生成失败，请重试"},
}

var discountErrorRules = []mappedHandlerError{
	{target: service.ErrAmountInvalid, code: response.CodeBadRequest, msg: "金额必须大于 0"},
	{target: service.ErrCodeRequired, code: response.CodeBadRequest, msg: "折扣码不能为空"},
}

var purchaseErrorRules = []mappedHandlerError{
	{target: service.ErrAmountInvalid, code: response.CodeBadRequest, msg: "金额必须大于 0"},
	{target: service.ErrInvalidEmail, code: response.CodeBadRequest, msg: "顾客邮箱格式不正确"},
}

var dashboardErrorRules = []mappedHandlerError{
	{target: service.ErrForbidden, code: response.CodeForbidden, msg: "只能查看自己的仪表盘"},
	{target: service.ErrNotFound, code: response.CodeNotFound, msg: "推广者不存在"},
}
