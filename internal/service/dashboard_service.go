package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sorvex/affiliate-api/internal/cache"
	"github.com/sorvex/affiliate-api/internal/config"
	"github.com/sorvex/affiliate-api/internal/logger"
	"github.com/sorvex/affiliate-api/internal/models"
	"github.com/sorvex/affiliate-api/internal/repository"
)

const dashboardCacheTTL = 30 * time.Second

// DashboardCacheKey 仪表盘缓存键
func DashboardCacheKey(affiliateID uint) string {
	return fmt.Sprintf("dashboard:%d", affiliateID)
}

// DashboardService 推广者仪表盘服务
type DashboardService struct {
	cfg           *config.Config
	affiliateRepo repository.AffiliateRepository
	saleRepo      repository.SaleRepository
}

// NewDashboardService 创建推广者仪表盘服务
func NewDashboardService(cfg *config.Config, affiliateRepo repository.AffiliateRepository, saleRepo repository.SaleRepository) *DashboardService {
	return &DashboardService{
		cfg:           cfg,
		affiliateRepo: affiliateRepo,
		saleRepo:      saleRepo,
	}
}

// AffiliateStats 仪表盘统计：从成交流水重算的汇总与缓存计数并列返回
type AffiliateStats struct {
	DirectCommission models.Money `json:"direct_commission"` // 直接佣金（流水重算）
	ParentCommission models.Money `json:"parent_commission"` // 作为上级获得的佣金（流水重算）
	DiscountGiven    models.Money `json:"discount_given"`    // 折扣让利总额（流水重算）
	SaleCount        int64        `json:"sale_count"`        // 成交笔数（流水重算）
	TotalEarnings    models.Money `json:"total_earnings"`    // 累计佣金（缓存计数）
	TotalSales       int64        `json:"total_sales"`       // 累计成交（缓存计数）
	TotalRecruits    int64        `json:"total_recruits"`    // 累计招募（缓存计数）
}

// AffiliateDashboard 仪表盘响应
type AffiliateDashboard struct {
	Affiliate   *models.Affiliate  `json:"affiliate"`
	Stats       AffiliateStats     `json:"stats"`
	RecentSales []models.Sale      `json:"recent_sales"`
	Recruits    []models.Affiliate `json:"recruits"`
}

// GetDashboard 查询仪表盘，仅允许推广者本人访问。
// 结果短时缓存，台账核对任务负责失效。
func (s *DashboardService) GetDashboard(callerID, affiliateID uint) (AffiliateDashboard, error) {
	dashboard := AffiliateDashboard{
		RecentSales: []models.Sale{},
		Recruits:    []models.Affiliate{},
	}
	if callerID == 0 || callerID != affiliateID {
		return dashboard, ErrForbidden
	}

	cacheKey := DashboardCacheKey(affiliateID)
	var cached AffiliateDashboard
	if hit, err := cache.GetJSON(context.Background(), cacheKey, &cached); err != nil {
		logger.Warnw("dashboard_cache_read_failed", "affiliate_id", affiliateID, "error", err)
	} else if hit && cached.Affiliate != nil {
		return cached, nil
	}

	affiliate, err := s.affiliateRepo.GetByID(affiliateID)
	if err != nil {
		return dashboard, err
	}
	if affiliate == nil {
		return dashboard, ErrNotFound
	}

	stats, err := s.buildStats(affiliate)
	if err != nil {
		return dashboard, err
	}

	recentSales, err := s.saleRepo.ListRecentByAffiliate(affiliateID, s.resolveRecentSales())
	if err != nil {
		return dashboard, err
	}
	recruits, err := s.affiliateRepo.ListChildren(affiliateID)
	if err != nil {
		return dashboard, err
	}

	dashboard.Affiliate = affiliate
	dashboard.Stats = stats
	dashboard.RecentSales = recentSales
	dashboard.Recruits = recruits

	if err := cache.SetJSON(context.Background(), cacheKey, dashboard, dashboardCacheTTL); err != nil {
		logger.Warnw("dashboard_cache_write_failed", "affiliate_id", affiliateID, "error", err)
	}
	return dashboard, nil
}

func (s *DashboardService) buildStats(affiliate *models.Affiliate) (AffiliateStats, error) {
	stats := AffiliateStats{
		DirectCommission: models.NewMoneyFromFloat(0),
		ParentCommission: models.NewMoneyFromFloat(0),
		DiscountGiven:    models.NewMoneyFromFloat(0),
	}
	if affiliate == nil {
		return stats, nil
	}

	direct, err := s.saleRepo.SumCommissionByAffiliate(affiliate.ID)
	if err != nil {
		return stats, err
	}
	fromChildren, err := s.saleRepo.SumCommissionByParent(affiliate.ID)
	if err != nil {
		return stats, err
	}
	discountGiven, err := s.saleRepo.SumDiscountByAffiliate(affiliate.ID)
	if err != nil {
		return stats, err
	}
	saleCount, err := s.saleRepo.CountByAffiliate(affiliate.ID)
	if err != nil {
		return stats, err
	}

	stats.DirectCommission = models.NewMoneyFromDecimal(direct)
	stats.ParentCommission = models.NewMoneyFromDecimal(fromChildren)
	stats.DiscountGiven = models.NewMoneyFromDecimal(discountGiven)
	stats.SaleCount = saleCount
	stats.TotalEarnings = affiliate.TotalEarnings
	stats.TotalSales = affiliate.TotalSales
	stats.TotalRecruits = affiliate.TotalRecruits
	return stats, nil
}

func (s *DashboardService) resolveRecentSales() int {
	if s.cfg.Affiliate.DashboardRecentSales <= 0 {
		return 10
	}
	return s.cfg.Affiliate.DashboardRecentSales
}
