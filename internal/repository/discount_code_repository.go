package repository

import (
	"errors"
	"strings"

	"github.com/sorvex/affiliate-api/internal/models"

	"gorm.io/gorm"
)

// DiscountCodeRepository 折扣码数据访问接口
type DiscountCodeRepository interface {
	WithTx(tx *gorm.DB) DiscountCodeRepository

	Create(code *models.DiscountCode) error
	GetByCode(code string) (*models.DiscountCode, error)
	GetActiveByCode(code string) (*models.DiscountCode, error)
	GetByAffiliateID(affiliateID uint) (*models.DiscountCode, error)
}

// GormDiscountCodeRepository GORM 折扣码仓储
type GormDiscountCodeRepository struct {
	db *gorm.DB
}

// NewDiscountCodeRepository 创建折扣码仓储
func NewDiscountCodeRepository(db *gorm.DB) *GormDiscountCodeRepository {
	return &GormDiscountCodeRepository{db: db}
}

// WithTx 绑定事务
func (r *GormDiscountCodeRepository) WithTx(tx *gorm.DB) DiscountCodeRepository {
	if tx == nil {
		return r
	}
	return &GormDiscountCodeRepository{db: tx}
}

// Create 创建折扣码
func (r *GormDiscountCodeRepository) Create(code *models.DiscountCode) error {
	return r.db.Create(code).Error
}

// GetByCode 按折扣码精确查询
func (r *GormDiscountCodeRepository) GetByCode(code string) (*models.DiscountCode, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return nil, nil
	}
	var row models.DiscountCode
	if err := r.db.Where("code = ?", normalized).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// GetActiveByCode 按折扣码查询可用记录
func (r *GormDiscountCodeRepository) GetActiveByCode(code string) (*models.DiscountCode, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return nil, nil
	}
	var row models.DiscountCode
	if err := r.db.Where("code = ? AND is_active = ?", normalized, true).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// GetByAffiliateID 按推广者查询折扣码
func (r *GormDiscountCodeRepository) GetByAffiliateID(affiliateID uint) (*models.DiscountCode, error) {
	if affiliateID == 0 {
		return nil, nil
	}
	var row models.DiscountCode
	if err := r.db.Where("affiliate_id = ?", affiliateID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}
