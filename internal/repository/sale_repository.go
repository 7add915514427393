package repository

import (
	"errors"
	"strings"

	"github.com/sorvex/affiliate-api/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SaleRepository 成交流水数据访问接口
type SaleRepository interface {
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) SaleRepository

	Create(sale *models.Sale) error
	GetByID(id uint) (*models.Sale, error)
	List(filter SaleListFilter) ([]models.Sale, int64, error)
	ListRecentByAffiliate(affiliateID uint, limit int) ([]models.Sale, error)
	UpdateStatus(id uint, status string) error

	SumCommissionByAffiliate(affiliateID uint) (decimal.Decimal, error)
	SumCommissionByParent(parentID uint) (decimal.Decimal, error)
	SumDiscountByAffiliate(affiliateID uint) (decimal.Decimal, error)
	CountByAffiliate(affiliateID uint) (int64, error)
}

// GormSaleRepository GORM 成交流水仓储
type GormSaleRepository struct {
	db *gorm.DB
}

// NewSaleRepository 创建成交流水仓储
func NewSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// WithTx 绑定事务
func (r *GormSaleRepository) WithTx(tx *gorm.DB) SaleRepository {
	if tx == nil {
		return r
	}
	return &GormSaleRepository{db: tx}
}

// Transaction 执行事务
func (r *GormSaleRepository) Transaction(fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.Transaction(fn)
}

// Create 创建成交流水
func (r *GormSaleRepository) Create(sale *models.Sale) error {
	return r.db.Create(sale).Error
}

// GetByID 按ID查询成交流水
func (r *GormSaleRepository) GetByID(id uint) (*models.Sale, error) {
	if id == 0 {
		return nil, nil
	}
	var sale models.Sale
	if err := r.db.First(&sale, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sale, nil
}

// List 查询成交流水列表
func (r *GormSaleRepository) List(filter SaleListFilter) ([]models.Sale, int64, error) {
	query := r.db.Model(&models.Sale{})
	if filter.AffiliateID != 0 {
		query = query.Where("affiliate_id = ?", filter.AffiliateID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	query = applyPagination(query, filter.Page, filter.PageSize)

	var rows []models.Sale
	if err := query.Order("id DESC").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListRecentByAffiliate 查询推广者最近成交（新成交在前）
func (r *GormSaleRepository) ListRecentByAffiliate(affiliateID uint, limit int) ([]models.Sale, error) {
	if affiliateID == 0 {
		return []models.Sale{}, nil
	}
	if limit <= 0 {
		limit = 10
	}
	var rows []models.Sale
	if err := r.db.Where("affiliate_id = ?", affiliateID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateStatus 更新成交审核状态
func (r *GormSaleRepository) UpdateStatus(id uint, status string) error {
	if id == 0 {
		return nil
	}
	return r.db.Model(&models.Sale{}).
		Where("id = ?", id).
		Update("status", strings.TrimSpace(status)).Error
}

// SumCommissionByAffiliate 汇总推广者直接佣金
func (r *GormSaleRepository) SumCommissionByAffiliate(affiliateID uint) (decimal.Decimal, error) {
	return r.sumColumn("affiliate_commission", "affiliate_id = ?", affiliateID)
}

// SumCommissionByParent 汇总作为上级获得的佣金
func (r *GormSaleRepository) SumCommissionByParent(parentID uint) (decimal.Decimal, error) {
	return r.sumColumn("parent_commission", "parent_id = ?", parentID)
}

// SumDiscountByAffiliate 汇总推广者折扣码带来的让利金额
func (r *GormSaleRepository) SumDiscountByAffiliate(affiliateID uint) (decimal.Decimal, error) {
	return r.sumColumn("discount_amount", "affiliate_id = ?", affiliateID)
}

// CountByAffiliate 统计推广者成交笔数
func (r *GormSaleRepository) CountByAffiliate(affiliateID uint) (int64, error) {
	if affiliateID == 0 {
		return 0, nil
	}
	var total int64
	if err := r.db.Model(&models.Sale{}).Where("affiliate_id = ?", affiliateID).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (r *GormSaleRepository) sumColumn(column, cond string, id uint) (decimal.Decimal, error) {
	if id == 0 {
		return decimal.Zero, nil
	}
	var row struct {
		Total decimal.Decimal `gorm:"column:total"`
	}
	if err := r.db.Model(&models.Sale{}).
		Select("COALESCE(SUM("+column+"), 0) AS total").
		Where(cond, id).
		Scan(&row).Error; err != nil {
		return decimal.Zero, err
	}
	return row.Total.Round(2), nil
}
