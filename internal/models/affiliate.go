package models

import (
	"time"

	"gorm.io/gorm"
)

// Affiliate 推广者账号表
type Affiliate struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                       // 主键
	Email              string         `gorm:"uniqueIndex;not null" json:"email"`          // 邮箱
	PasswordHash       string         `gorm:"not null" json:"-"`                          // 密码哈希（不返回给前端）
	DiscountCode       string         `gorm:"uniqueIndex;not null" json:"discount_code"`  // 专属折扣码（注册时生成，不可变更）
	ParentID           *uint          `gorm:"index" json:"parent_id"`                     // 上级推广者（仅一层）
	ParentDiscountCode string         `gorm:"default:''" json:"parent_discount_code"`     // 注册时填写的上级折扣码快照
	TotalEarnings      Money          `gorm:"type:decimal(12,2)" json:"total_earnings"`   // 累计佣金
	TotalSales         int64          `gorm:"not null;default:0" json:"total_sales"`      // 累计成交笔数
	TotalRecruits      int64          `gorm:"not null;default:0" json:"total_recruits"`   // 累计招募人数
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`                    // 创建时间
	UpdatedAt          time.Time      `json:"updated_at"`                                 // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                             // 软删除时间
}

// TableName 指定表名
func (Affiliate) TableName() string {
	return "affiliates"
}
