package models

import "time"

// Sale 成交流水表（佣金台账的事实来源）
type Sale struct {
	ID                  uint      `gorm:"primarykey" json:"id"`                                // 主键
	AffiliateID         *uint     `gorm:"index" json:"affiliate_id"`                           // 归属推广者（未带码成交为空）
	ParentID            *uint     `gorm:"index" json:"parent_id"`                              // 推广者的上级（成交时快照）
	Amount              Money     `gorm:"type:decimal(12,2)" json:"amount"`                    // 原价
	DiscountAmount      Money     `gorm:"type:decimal(12,2)" json:"discount_amount"`           // 折扣金额
	FinalAmount         Money     `gorm:"type:decimal(12,2)" json:"final_amount"`              // 实付金额
	AffiliateCommission Money     `gorm:"type:decimal(12,2)" json:"affiliate_commission"`      // 推广者佣金（按原价计）
	ParentCommission    Money     `gorm:"type:decimal(12,2)" json:"parent_commission"`         // 上级佣金（按原价计）
	CustomerEmail       string    `gorm:"not null" json:"customer_email"`                      // 顾客邮箱
	DiscountCode        *string   `gorm:"index" json:"discount_code"`                          // 使用的折扣码（未使用为空）
	Status              string    `gorm:"not null;default:'pending';index" json:"status"`      // 审核状态 pending/approved/rejected
	CreatedAt           time.Time `gorm:"index" json:"created_at"`                             // 成交时间
}

// TableName 指定表名
func (Sale) TableName() string {
	return "sales"
}
