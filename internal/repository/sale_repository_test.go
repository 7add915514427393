package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/sorvex/affiliate-api/internal/constants"
	"github.com/sorvex/affiliate-api/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func TestSumCommissionByAffiliate(t *testing.T) {
	repo, db := setupSaleRepositoryTest(t)

	affiliateID := uint(1)
	createSaleRepoTestSale(t, db, &affiliateID, nil, 20, 0)
	createSaleRepoTestSale(t, db, &affiliateID, nil, 10.5, 0)
	otherID := uint(2)
	createSaleRepoTestSale(t, db, &otherID, nil, 99, 0)

	total, err := repo.SumCommissionByAffiliate(affiliateID)
	if err != nil {
		t.Fatalf("sum commission failed: %v", err)
	}
	if got := total.StringFixed(2); got != "30.50" {
		t.Fatalf("expected 30.50, got %s", got)
	}
}

func TestSumCommissionByParent(t *testing.T) {
	repo, db := setupSaleRepositoryTest(t)

	parentID := uint(7)
	createSaleRepoTestSale(t, db, nil, &parentID, 0, 5)
	createSaleRepoTestSale(t, db, nil, &parentID, 0, 2.5)

	total, err := repo.SumCommissionByParent(parentID)
	if err != nil {
		t.Fatalf("sum parent commission failed: %v", err)
	}
	if got := total.StringFixed(2); got != "7.50" {
		t.Fatalf("expected 7.50, got %s", got)
	}
}

func TestSumReturnsZeroWithoutSales(t *testing.T) {
	repo, _ := setupSaleRepositoryTest(t)

	total, err := repo.SumCommissionByAffiliate(42)
	if err != nil {
		t.Fatalf("sum commission failed: %v", err)
	}
	if !total.IsZero() {
		t.Fatalf("expected zero, got %s", total)
	}
	if zero, err := repo.SumCommissionByAffiliate(0); err != nil || !zero.IsZero() {
		t.Fatalf("expected zero for id 0, got %s err=%v", zero, err)
	}
}

func TestListRecentByAffiliateLimit(t *testing.T) {
	repo, db := setupSaleRepositoryTest(t)

	affiliateID := uint(3)
	for i := 0; i < 5; i++ {
		row := models.Sale{
			AffiliateID:         &affiliateID,
			Amount:              models.NewMoneyFromFloat(float64(i + 1)),
			DiscountAmount:      models.NewMoneyFromFloat(0),
			FinalAmount:         models.NewMoneyFromFloat(float64(i + 1)),
			AffiliateCommission: models.NewMoneyFromFloat(0),
			ParentCommission:    models.NewMoneyFromFloat(0),
			CustomerEmail:       "buyer@example.com",
			Status:              constants.SaleStatusPending,
			CreatedAt:           time.Now().Add(time.Duration(i) * time.Second),
		}
		if err := db.Create(&row).Error; err != nil {
			t.Fatalf("create sale failed: %v", err)
		}
	}

	rows, err := repo.ListRecentByAffiliate(affiliateID, 3)
	if err != nil {
		t.Fatalf("list recent failed: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if got := rows[0].Amount.Decimal.StringFixed(2); got != "5.00" {
		t.Fatalf("expected newest first, got amount %s", got)
	}
}

func TestListFiltersByStatusAndAffiliate(t *testing.T) {
	repo, db := setupSaleRepositoryTest(t)

	affiliateID := uint(9)
	createSaleRepoTestSaleWithStatus(t, db, &affiliateID, constants.SaleStatusPending)
	createSaleRepoTestSaleWithStatus(t, db, &affiliateID, constants.SaleStatusApproved)
	createSaleRepoTestSaleWithStatus(t, db, nil, constants.SaleStatusApproved)

	rows, total, err := repo.List(SaleListFilter{Page: 1, PageSize: 10, AffiliateID: affiliateID, Status: constants.SaleStatusApproved})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("expected 1 row, got total=%d len=%d", total, len(rows))
	}
}

func setupSaleRepositoryTest(t *testing.T) (*GormSaleRepository, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:sale_repository_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Sale{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewSaleRepository(db), db
}

func createSaleRepoTestSale(t *testing.T, db *gorm.DB, affiliateID, parentID *uint, commission, parentCommission float64) {
	t.Helper()

	row := models.Sale{
		AffiliateID:         affiliateID,
		ParentID:            parentID,
		Amount:              models.NewMoneyFromFloat(100),
		DiscountAmount:      models.NewMoneyFromFloat(0),
		FinalAmount:         models.NewMoneyFromFloat(100),
		AffiliateCommission: models.NewMoneyFromFloat(commission),
		ParentCommission:    models.NewMoneyFromFloat(parentCommission),
		CustomerEmail:       "buyer@example.com",
		Status:              constants.SaleStatusPending,
		CreatedAt:           time.Now(),
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("create sale failed: %v", err)
	}
}

func createSaleRepoTestSaleWithStatus(t *testing.T, db *gorm.DB, affiliateID *uint, status string) {
	t.Helper()

	row := models.Sale{
		AffiliateID:         affiliateID,
		Amount:              models.NewMoneyFromFloat(100),
		DiscountAmount:      models.NewMoneyFromFloat(0),
		FinalAmount:         models.NewMoneyFromFloat(100),
		AffiliateCommission: models.NewMoneyFromFloat(0),
		ParentCommission:    models.NewMoneyFromFloat(0),
		CustomerEmail:       "buyer@example.com",
		Status:              status,
		CreatedAt:           time.Now(),
	}
	if err := db.Create(&row).Error; err != nil {
		t.Fatalf("create sale failed: %v", err)
	}
}
