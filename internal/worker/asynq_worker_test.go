package worker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sorvex/affiliate-api/internal/models"
	"github.com/sorvex/affiliate-api/internal/provider"
	"github.com/sorvex/affiliate-api/internal/queue"
	"github.com/sorvex/affiliate-api/internal/repository"
	"github.com/sorvex/affiliate-api/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
)

func TestHandleLedgerReconcile(t *testing.T) {
	consumer, db := setupWorkerTest(t)

	affiliate := models.Affiliate{
		Email:         "worker@example.com",
		PasswordHash:  "hash",
		DiscountCode:  "WWWW0001KKKK",
		TotalEarnings: models.NewMoneyFromFloat(0),
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := db.Create(&affiliate).Error; err != nil {
		t.Fatalf("create affiliate failed: %v", err)
	}

	task, err := queue.NewLedgerReconcileTask(queue.LedgerReconcilePayload{AffiliateID: affiliate.ID})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleLedgerReconcile(context.Background(), task); err != nil {
		t.Fatalf("handle task failed: %v", err)
	}
}

func TestHandleLedgerReconcileSkipsInvalidPayload(t *testing.T) {
	consumer, _ := setupWorkerTest(t)

	task, err := queue.NewLedgerReconcileTask(queue.LedgerReconcilePayload{AffiliateID: 0})
	if err != nil {
		t.Fatalf("build task failed: %v", err)
	}
	if err := consumer.handleLedgerReconcile(context.Background(), task); err != nil {
		t.Fatalf("expected nil for empty payload, got %v", err)
	}
}

func TestHandleLedgerReconcileRejectsMalformedPayload(t *testing.T) {
	consumer, _ := setupWorkerTest(t)

	task := asynq.NewTask(queue.TaskLedgerReconcile, []byte("{not json"))
	err := consumer.handleLedgerReconcile(context.Background(), task)
	if err == nil {
		t.Fatalf("expected unmarshal error")
	}
	// 损坏的载荷不应进入重试
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
}

func setupWorkerTest(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:worker_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Affiliate{}, &models.DiscountCode{}, &models.Sale{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	affiliateRepo := repository.NewAffiliateRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	container := &provider.Container{
		LedgerService: service.NewLedgerService(affiliateRepo, saleRepo),
	}
	return NewConsumer(container), db
}
