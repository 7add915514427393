package service

import (
	"strings"

	"github.com/sorvex/affiliate-api/internal/config"
	"github.com/sorvex/affiliate-api/internal/models"
	"github.com/sorvex/affiliate-api/internal/repository"

	"github.com/shopspring/decimal"
)

// DiscountService 折扣码解析服务
type DiscountService struct {
	cfg           *config.Config
	affiliateRepo repository.AffiliateRepository
	codeRepo      repository.DiscountCodeRepository
}

// NewDiscountService 创建折扣码解析服务
func NewDiscountService(cfg *config.Config, affiliateRepo repository.AffiliateRepository, codeRepo repository.DiscountCodeRepository) *DiscountService {
	return &DiscountService{
		cfg:           cfg,
		affiliateRepo: affiliateRepo,
		codeRepo:      codeRepo,
	}
}

// DiscountOutcome 折扣码解析结果
type DiscountOutcome struct {
	Valid           bool         `json:"valid"`
	DiscountPercent models.Money `json:"discount_percent"`
	DiscountAmount  models.Money `json:"discount_amount"`
	FinalAmount     models.Money `json:"final_amount"`
	AffiliateID     uint         `json:"affiliate_id,omitempty"`
	AffiliateEmail  string       `json:"affiliate_email,omitempty"`
}

// Resolve 解析折扣码：未知或停用的码返回 Valid=false，不产生任何写入
func (s *DiscountService) Resolve(rawCode string, amount decimal.Decimal) (DiscountOutcome, error) {
	outcome := DiscountOutcome{
		Valid:           false,
		DiscountPercent: models.NewMoneyFromFloat(0),
		DiscountAmount:  models.NewMoneyFromFloat(0),
		FinalAmount:     models.NewMoneyFromDecimal(amount),
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return outcome, ErrAmountInvalid
	}
	if strings.TrimSpace(rawCode) == "" {
		return outcome, ErrCodeRequired
	}

	codeRow, err := s.codeRepo.GetActiveByCode(rawCode)
	if err != nil {
		return outcome, err
	}
	if codeRow == nil {
		return outcome, nil
	}

	affiliate, err := s.affiliateRepo.GetByID(codeRow.AffiliateID)
	if err != nil {
		return outcome, err
	}
	if affiliate == nil {
		return outcome, nil
	}

	percent := codeRow.DiscountPercent.Decimal
	if percent.LessThanOrEqual(decimal.Zero) {
		percent = decimal.NewFromInt(int64(s.resolveDiscountPercent()))
	}
	discountAmount := amount.Mul(percent).Div(decimal.NewFromInt(100)).Round(2)

	outcome.Valid = true
	outcome.DiscountPercent = models.NewMoneyFromDecimal(percent)
	outcome.DiscountAmount = models.NewMoneyFromDecimal(discountAmount)
	outcome.FinalAmount = models.NewMoneyFromDecimal(amount.Sub(discountAmount))
	outcome.AffiliateID = affiliate.ID
	outcome.AffiliateEmail = affiliate.Email
	return outcome, nil
}

func (s *DiscountService) resolveDiscountPercent() int {
	if s.cfg.Affiliate.DiscountPercent <= 0 {
		return 10
	}
	return s.cfg.Affiliate.DiscountPercent
}
