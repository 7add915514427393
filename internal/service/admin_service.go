package service

import (
	"strings"

	"github.com/sorvex/affiliate-api/internal/constants"
	"github.com/sorvex/affiliate-api/internal/models"
	"github.com/sorvex/affiliate-api/internal/repository"
)

// AdminService 运营后台服务
type AdminService struct {
	affiliateRepo repository.AffiliateRepository
	saleRepo      repository.SaleRepository
}

// NewAdminService 创建运营后台服务
func NewAdminService(affiliateRepo repository.AffiliateRepository, saleRepo repository.SaleRepository) *AdminService {
	return &AdminService{
		affiliateRepo: affiliateRepo,
		saleRepo:      saleRepo,
	}
}

// ListAffiliates 查询推广者列表
func (s *AdminService) ListAffiliates(filter repository.AffiliateListFilter) ([]models.Affiliate, int64, error) {
	return s.affiliateRepo.List(filter)
}

// ListSales 查询成交流水列表
func (s *AdminService) ListSales(filter repository.SaleListFilter) ([]models.Sale, int64, error) {
	return s.saleRepo.List(filter)
}

// UpdateSaleStatus 更新成交审核状态
func (s *AdminService) UpdateSaleStatus(saleID uint, rawStatus string) (*models.Sale, error) {
	status := strings.ToLower(strings.TrimSpace(rawStatus))
	switch status {
	case constants.SaleStatusPending, constants.SaleStatusApproved, constants.SaleStatusRejected:
	default:
		return nil, ErrSaleStatusInvalid
	}

	sale, err := s.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, ErrNotFound
	}

	if err := s.saleRepo.UpdateStatus(saleID, status); err != nil {
		return nil, err
	}
	sale.Status = status
	return sale, nil
}
