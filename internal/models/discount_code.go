package models

import "time"

// DiscountCode 折扣码表（与推广者一一对应）
type DiscountCode struct {
	ID                uint      `gorm:"primarykey" json:"id"`                               // 主键
	Code              string    `gorm:"uniqueIndex;not null" json:"code"`                   // 折扣码
	AffiliateID       uint      `gorm:"uniqueIndex;not null" json:"affiliate_id"`           // 所属推广者
	DiscountPercent   Money     `gorm:"type:decimal(5,2);default:10" json:"discount_percent"`   // 顾客折扣百分比
	CommissionPercent Money     `gorm:"type:decimal(5,2);default:20" json:"commission_percent"` // 创建时的佣金比例快照
	IsActive          bool      `gorm:"not null;default:true" json:"is_active"`             // 是否可用
	CreatedAt         time.Time `json:"created_at"`                                         // 创建时间
}

// TableName 指定表名
func (DiscountCode) TableName() string {
	return "discount_codes"
}
