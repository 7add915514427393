package service

import (
	"strings"
	"time"

	"github.com/sorvex/affiliate-api/internal/config"
	"github.com/sorvex/affiliate-api/internal/constants"
	"github.com/sorvex/affiliate-api/internal/logger"
	"github.com/sorvex/affiliate-api/internal/models"
	"github.com/sorvex/affiliate-api/internal/queue"
	"github.com/sorvex/affiliate-api/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CheckoutService 成交结算服务：计算折扣与佣金并更新台账
type CheckoutService struct {
	cfg             *config.Config
	affiliateRepo   repository.AffiliateRepository
	saleRepo        repository.SaleRepository
	discountService *DiscountService
	queueClient     *queue.Client
}

// NewCheckoutService 创建成交结算服务
func NewCheckoutService(
	cfg *config.Config,
	affiliateRepo repository.AffiliateRepository,
	saleRepo repository.SaleRepository,
	discountService *DiscountService,
	queueClient *queue.Client,
) *CheckoutService {
	return &CheckoutService{
		cfg:             cfg,
		affiliateRepo:   affiliateRepo,
		saleRepo:        saleRepo,
		discountService: discountService,
		queueClient:     queueClient,
	}
}

// PurchaseInput 成交请求
type PurchaseInput struct {
	Amount        decimal.Decimal
	CustomerEmail string
	DiscountCode  string
}

// Purchase 记录一笔成交：折扣、佣金、台账计数在单事务内落库。
// 未知或停用的折扣码按无码成交处理，不报错。
func (s *CheckoutService) Purchase(input PurchaseInput) (*models.Sale, error) {
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrAmountInvalid
	}
	customerEmail, err := normalizeEmail(input.CustomerEmail)
	if err != nil {
		return nil, err
	}

	amount := input.Amount.Round(2)
	outcome := DiscountOutcome{
		FinalAmount: models.NewMoneyFromDecimal(amount),
	}
	if code := strings.TrimSpace(input.DiscountCode); code != "" {
		outcome, err = s.discountService.Resolve(code, amount)
		if err != nil {
			return nil, err
		}
	}

	sale := &models.Sale{
		Amount:              models.NewMoneyFromDecimal(amount),
		DiscountAmount:      models.NewMoneyFromDecimal(outcome.DiscountAmount.Decimal),
		FinalAmount:         models.NewMoneyFromDecimal(outcome.FinalAmount.Decimal),
		AffiliateCommission: models.NewMoneyFromFloat(0),
		ParentCommission:    models.NewMoneyFromFloat(0),
		CustomerEmail:       customerEmail,
		Status:              constants.SaleStatusPending,
		CreatedAt:           time.Now(),
	}

	var affiliate *models.Affiliate
	if outcome.Valid {
		affiliate, err = s.affiliateRepo.GetByID(outcome.AffiliateID)
		if err != nil {
			return nil, err
		}
	}

	if affiliate != nil {
		affiliateID := affiliate.ID
		// 保留顾客提交的原始折扣码串，不回写规范化后的码
		usedCode := strings.TrimSpace(input.DiscountCode)
		sale.AffiliateID = &affiliateID
		sale.DiscountCode = &usedCode
		sale.ParentID = affiliate.ParentID

		// 佣金按原价计，折扣不影响佣金基数
		commissionRate := decimal.NewFromInt(int64(s.resolveCommissionPercent()))
		sale.AffiliateCommission = models.NewMoneyFromDecimal(
			amount.Mul(commissionRate).Div(decimal.NewFromInt(100)).Round(2))

		if affiliate.ParentID != nil {
			parentRate := decimal.NewFromInt(int64(s.resolveParentPercent()))
			sale.ParentCommission = models.NewMoneyFromDecimal(
				amount.Mul(parentRate).Div(decimal.NewFromInt(100)).Round(2))
		}
	}

	err = s.saleRepo.Transaction(func(tx *gorm.DB) error {
		if err := s.saleRepo.WithTx(tx).Create(sale); err != nil {
			return err
		}
		if sale.AffiliateID != nil {
			if err := s.affiliateRepo.WithTx(tx).CreditSale(*sale.AffiliateID, sale.AffiliateCommission.Decimal); err != nil {
				return err
			}
		}
		if sale.ParentID != nil && sale.ParentCommission.Decimal.GreaterThan(decimal.Zero) {
			if err := s.affiliateRepo.WithTx(tx).CreditParent(*sale.ParentID, sale.ParentCommission.Decimal); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.enqueueReconcile(sale)
	return sale, nil
}

// enqueueReconcile 落库后异步校验台账计数，队列不可用时仅记录日志
func (s *CheckoutService) enqueueReconcile(sale *models.Sale) {
	if s.queueClient == nil || sale == nil {
		return
	}
	ids := make([]uint, 0, 2)
	if sale.AffiliateID != nil {
		ids = append(ids, *sale.AffiliateID)
	}
	if sale.ParentID != nil {
		ids = append(ids, *sale.ParentID)
	}
	for _, id := range ids {
		if err := s.queueClient.EnqueueLedgerReconcile(queue.LedgerReconcilePayload{AffiliateID: id}); err != nil {
			logger.Warnw("ledger_reconcile_enqueue_failed", "affiliate_id", id, "error", err)
		}
	}
}

func (s *CheckoutService) resolveCommissionPercent() int {
	if s.cfg.Affiliate.CommissionRatePercent <= 0 {
		return 20
	}
	return s.cfg.Affiliate.CommissionRatePercent
}

func (s *CheckoutService) resolveParentPercent() int {
	if s.cfg.Affiliate.ParentRatePercent < 0 {
		return 0
	}
	if s.cfg.Affiliate.ParentRatePercent == 0 {
		return 5
	}
	return s.cfg.Affiliate.ParentRatePercent
}
