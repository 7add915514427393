package service

import (
	"github.com/sorvex/affiliate-api/internal/logger"
	"github.com/sorvex/affiliate-api/internal/repository"
)

// LedgerService 台账对账服务：从成交流水重算佣金并核对缓存计数
type LedgerService struct {
	affiliateRepo repository.AffiliateRepository
	saleRepo      repository.SaleRepository
}

// NewLedgerService 创建台账对账服务
func NewLedgerService(affiliateRepo repository.AffiliateRepository, saleRepo repository.SaleRepository) *LedgerService {
	return &LedgerService{
		affiliateRepo: affiliateRepo,
		saleRepo:      saleRepo,
	}
}

// Reconcile 核对单个推广者的台账计数。发现漂移时仅告警，不回写。
func (s *LedgerService) Reconcile(affiliateID uint) error {
	if affiliateID == 0 {
		return nil
	}
	affiliate, err := s.affiliateRepo.GetByID(affiliateID)
	if err != nil {
		return err
	}
	if affiliate == nil {
		return nil
	}

	direct, err := s.saleRepo.SumCommissionByAffiliate(affiliateID)
	if err != nil {
		return err
	}
	fromChildren, err := s.saleRepo.SumCommissionByParent(affiliateID)
	if err != nil {
		return err
	}
	saleCount, err := s.saleRepo.CountByAffiliate(affiliateID)
	if err != nil {
		return err
	}

	expectedEarnings := direct.Add(fromChildren).Round(2)
	if !affiliate.TotalEarnings.Decimal.Round(2).Equal(expectedEarnings) {
		logger.Warnw("ledger_earnings_drift",
			"affiliate_id", affiliateID,
			"cached", affiliate.TotalEarnings.String(),
			"recomputed", expectedEarnings.StringFixed(2),
		)
	}
	if affiliate.TotalSales != saleCount {
		logger.Warnw("ledger_sales_drift",
			"affiliate_id", affiliateID,
			"cached", affiliate.TotalSales,
			"recomputed", saleCount,
		)
	}
	return nil
}
