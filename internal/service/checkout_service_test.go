package service

import (
	"errors"
	"sync"
	"testing"

	"github.com/sorvex/affiliate-api/internal/constants"
	"github.com/sorvex/affiliate-api/internal/models"
	"github.com/sorvex/affiliate-api/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func TestPurchaseSettlesDiscountAndCommission(t *testing.T) {
	svc, db := setupCheckoutServiceTest(t)

	affiliate := createServiceTestAffiliate(t, db, "seller@example.com", "AAAA0001BBBB", nil)
	createServiceTestCode(t, db, affiliate.ID, affiliate.DiscountCode, true)

	sale, err := svc.Purchase(PurchaseInput{
		Amount:        decimal.NewFromInt(250),
		CustomerEmail: "buyer@example.com",
		DiscountCode:  affiliate.DiscountCode,
	})
	if err != nil {
		t.Fatalf("purchase failed: %v", err)
	}
	if got := sale.DiscountAmount.Decimal.StringFixed(2); got != "25.00" {
		t.Fatalf("expected discount 25.00, got %s", got)
	}
	if got := sale.FinalAmount.Decimal.StringFixed(2); got != "225.00" {
		t.Fatalf("expected final amount 225.00, got %s", got)
	}
	if got := sale.AffiliateCommission.Decimal.StringFixed(2); got != "50.00" {
		t.Fatalf("expected commission on gross amount 50.00, got %s", got)
	}
	if sale.AffiliateID == nil || *sale.AffiliateID != affiliate.ID {
		t.Fatalf("expected sale attributed to affiliate %d, got %+v", affiliate.ID, sale.AffiliateID)
	}
	if sale.Status != constants.SaleStatusPending {
		t.Fatalf("expected pending status, got %q", sale.Status)
	}

	var reloaded models.Affiliate
	if err := db.First(&reloaded, affiliate.ID).Error; err != nil {
		t.Fatalf("reload affiliate failed: %v", err)
	}
	if got := reloaded.TotalEarnings.Decimal.StringFixed(2); got != "50.00" {
		t.Fatalf("expected earnings 50.00, got %s", got)
	}
	if reloaded.TotalSales != 1 {
		t.Fatalf("expected 1 sale, got %d", reloaded.TotalSales)
	}
}

func TestPurchaseCreditsParentCommission(t *testing.T) {
	svc, db := setupCheckoutServiceTest(t)

	parent := createServiceTestAffiliate(t, db, "parent@example.com", "PPPP0001QQQQ", nil)
	parentID := parent.ID
	child := createServiceTestAffiliate(t, db, "child@example.com", "CCCC0001DDDD", &parentID)
	createServiceTestCode(t, db, child.ID, child.DiscountCode, true)

	sale, err := svc.Purchase(PurchaseInput{
		Amount:        decimal.NewFromInt(100),
		CustomerEmail: "buyer@example.com",
		DiscountCode:  child.DiscountCode,
	})
	if err != nil {
		t.Fatalf("purchase failed: %v", err)
	}
	if got := sale.ParentCommission.Decimal.StringFixed(2); got != "5.00" {
		t.Fatalf("expected parent commission 5.00, got %s", got)
	}
	if sale.ParentID == nil || *sale.ParentID != parent.ID {
		t.Fatalf("expected parent snapshot %d, got %+v", parent.ID, sale.ParentID)
	}

	var reloadedParent models.Affiliate
	if err := db.First(&reloadedParent, parent.ID).Error; err != nil {
		t.Fatalf("reload parent failed: %v", err)
	}
	if got := reloadedParent.TotalEarnings.Decimal.StringFixed(2); got != "5.00" {
		t.Fatalf("expected parent earnings 5.00, got %s", got)
	}
	// 上级佣金不计入上级的成交笔数
	if reloadedParent.TotalSales != 0 {
		t.Fatalf("expected parent total_sales 0, got %d", reloadedParent.TotalSales)
	}

	var reloadedChild models.Affiliate
	if err := db.First(&reloadedChild, child.ID).Error; err != nil {
		t.Fatalf("reload child failed: %v", err)
	}
	if got := reloadedChild.TotalEarnings.Decimal.StringFixed(2); got != "20.00" {
		t.Fatalf("expected child earnings 20.00, got %s", got)
	}
	if reloadedChild.TotalSales != 1 {
		t.Fatalf("expected child total_sales 1, got %d", reloadedChild.TotalSales)
	}
}

func TestPurchaseUnknownCodeDegradesToNoDiscount(t *testing.T) {
	svc, db := setupCheckoutServiceTest(t)

	sale, err := svc.Purchase(PurchaseInput{
		Amount:        decimal.NewFromInt(80),
		CustomerEmail: "buyer@example.com",
		DiscountCode:  "NOSUCHCODE00",
	})
	if err != nil {
		t.Fatalf("purchase failed: %v", err)
	}
	if sale.AffiliateID != nil || sale.DiscountCode != nil {
		t.Fatalf("expected unattributed sale, got %+v", sale)
	}
	if got := sale.DiscountAmount.Decimal.StringFixed(2); got != "0.00" {
		t.Fatalf("expected zero discount, got %s", got)
	}
	if got := sale.FinalAmount.Decimal.StringFixed(2); got != "80.00" {
		t.Fatalf("expected full amount 80.00, got %s", got)
	}

	var count int64
	if err := db.Model(&models.Sale{}).Count(&count).Error; err != nil {
		t.Fatalf("count sales failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 sale persisted, got %d", count)
	}
}

func TestPurchaseAccumulatesLedger(t *testing.T) {
	svc, db := setupCheckoutServiceTest(t)

	affiliate := createServiceTestAffiliate(t, db, "repeat@example.com", "RRRR0001SSSS", nil)
	createServiceTestCode(t, db, affiliate.ID, affiliate.DiscountCode, true)

	for i := 0; i < 3; i++ {
		if _, err := svc.Purchase(PurchaseInput{
			Amount:        decimal.NewFromInt(100),
			CustomerEmail: "buyer@example.com",
			DiscountCode:  affiliate.DiscountCode,
		}); err != nil {
			t.Fatalf("purchase %d failed: %v", i, err)
		}
	}

	var reloaded models.Affiliate
	if err := db.First(&reloaded, affiliate.ID).Error; err != nil {
		t.Fatalf("reload affiliate failed: %v", err)
	}
	if got := reloaded.TotalEarnings.Decimal.StringFixed(2); got != "60.00" {
		t.Fatalf("expected accumulated earnings 60.00, got %s", got)
	}
	if reloaded.TotalSales != 3 {
		t.Fatalf("expected 3 sales, got %d", reloaded.TotalSales)
	}
}

func TestPurchaseConcurrentKeepsLedgerConsistent(t *testing.T) {
	svc, db := setupCheckoutServiceTest(t)

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	// 内存 sqlite 不支持并发写事务，收敛到单连接让写入排队
	sqlDB.SetMaxOpenConns(1)

	affiliate := createServiceTestAffiliate(t, db, "swarm@example.com", "MMMM0001NNNN", nil)
	createServiceTestCode(t, db, affiliate.ID, affiliate.DiscountCode, true)

	const purchases = 8
	var wg sync.WaitGroup
	errCh := make(chan error, purchases)
	for i := 0; i < purchases; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Purchase(PurchaseInput{
				Amount:        decimal.NewFromInt(100),
				CustomerEmail: "buyer@example.com",
				DiscountCode:  affiliate.DiscountCode,
			}); err != nil {
				errCh <- err
			}
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("concurrent purchase failed: %v", err)
	}

	var reloaded models.Affiliate
	if err := db.First(&reloaded, affiliate.ID).Error; err != nil {
		t.Fatalf("reload affiliate failed: %v", err)
	}
	if reloaded.TotalSales != purchases {
		t.Fatalf("expected %d sales, got %d", purchases, reloaded.TotalSales)
	}
	if got := reloaded.TotalEarnings.Decimal.StringFixed(2); got != "160.00" {
		t.Fatalf("expected earnings 160.00, got %s", got)
	}

	// 缓存计数与流水重算结果不得漂移
	dashboardSvc := NewDashboardService(newServiceTestConfig(),
		repository.NewAffiliateRepository(db), repository.NewSaleRepository(db))
	dashboard, err := dashboardSvc.GetDashboard(affiliate.ID, affiliate.ID)
	if err != nil {
		t.Fatalf("get dashboard failed: %v", err)
	}
	if !dashboard.Stats.DirectCommission.Decimal.Equal(reloaded.TotalEarnings.Decimal) {
		t.Fatalf("recomputed commission %s drifted from cached earnings %s",
			dashboard.Stats.DirectCommission.Decimal, reloaded.TotalEarnings.Decimal)
	}
	if dashboard.Stats.SaleCount != reloaded.TotalSales {
		t.Fatalf("recomputed sale count %d drifted from cached total %d",
			dashboard.Stats.SaleCount, reloaded.TotalSales)
	}
}

func TestPurchaseStoresSubmittedCode(t *testing.T) {
	svc, db := setupCheckoutServiceTest(t)

	affiliate := createServiceTestAffiliate(t, db, "literal@example.com", "LLLL0001KKKK", nil)
	createServiceTestCode(t, db, affiliate.ID, affiliate.DiscountCode, true)

	sale, err := svc.Purchase(PurchaseInput{
		Amount:        decimal.NewFromInt(100),
		CustomerEmail: "buyer@example.com",
		DiscountCode:  "  llll0001kkkk  ",
	})
	if err != nil {
		t.Fatalf("purchase failed: %v", err)
	}
	if sale.AffiliateID == nil || *sale.AffiliateID != affiliate.ID {
		t.Fatalf("expected sale attributed to affiliate %d, got %+v", affiliate.ID, sale.AffiliateID)
	}
	if sale.DiscountCode == nil || *sale.DiscountCode != "llll0001kkkk" {
		t.Fatalf("expected customer-submitted code stored verbatim, got %+v", sale.DiscountCode)
	}
}

func TestPurchaseRejectsBadInput(t *testing.T) {
	svc, _ := setupCheckoutServiceTest(t)

	if _, err := svc.Purchase(PurchaseInput{
		Amount:        decimal.Zero,
		CustomerEmail: "buyer@example.com",
	}); !errors.Is(err, ErrAmountInvalid) {
		t.Fatalf("expected ErrAmountInvalid, got %v", err)
	}
	if _, err := svc.Purchase(PurchaseInput{
		Amount:        decimal.NewFromInt(10),
		CustomerEmail: "not-an-email",
	}); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
}

func setupCheckoutServiceTest(t *testing.T) (*CheckoutService, *gorm.DB) {
	t.Helper()

	db := newServiceTestDB(t, "checkout_service")
	cfg := newServiceTestConfig()
	affiliateRepo := repository.NewAffiliateRepository(db)
	codeRepo := repository.NewDiscountCodeRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	discountSvc := NewDiscountService(cfg, affiliateRepo, codeRepo)
	return NewCheckoutService(cfg, affiliateRepo, saleRepo, discountSvc, nil), db
}
