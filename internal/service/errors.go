package service

import "errors"

// 服务层错误定义
var (
	ErrInvalidEmail       = errors.New("邮箱格式不正确")
	ErrPasswordRequired   = errors.New("密码不能为空")
	ErrPasswordTooShort   = errors.New("密码长度不足")
	ErrEmailExists        = errors.New("邮箱已被注册")
	ErrInvalidCredentials = errors.New("邮箱或密码错误")
	ErrNotFound           = errors.New("记录不存在")
	ErrForbidden          = errors.New("无权访问")
	ErrAmountInvalid      = errors.New("金额必须大于 0")
	ErrCodeRequired       = errors.New("折扣码不能为空")
	ErrCodeGeneration     = errors.New("折扣码生成失败")
	ErrSaleStatusInvalid  = errors.New("成交状态不合法")
)
