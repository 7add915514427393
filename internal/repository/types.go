package repository

import "time"

// AffiliateListFilter 查询推广者列表的过滤条件
type AffiliateListFilter struct {
	Page     int
	PageSize int
	Keyword  string
	ParentID uint
}

// SaleListFilter 查询成交流水列表的过滤条件
type SaleListFilter struct {
	Page        int
	PageSize    int
	AffiliateID uint
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}
