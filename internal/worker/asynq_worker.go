package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sorvex/affiliate-api/internal/cache"
	"github.com/sorvex/affiliate-api/internal/logger"
	"github.com/sorvex/affiliate-api/internal/provider"
	"github.com/sorvex/affiliate-api/internal/queue"
	"github.com/sorvex/affiliate-api/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskLedgerReconcile, c.handleLedgerReconcile)
}

func (c *Consumer) handleLedgerReconcile(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_ledger_reconcile_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.LedgerReconcilePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		// 载荷损坏无法通过重试恢复
		logger.Warnw("worker_ledger_reconcile_unmarshal_failed", "error", err)
		return fmt.Errorf("解析台账核对任务载荷失败: %v: %w", err, asynq.SkipRetry)
	}
	if payload.AffiliateID == 0 {
		logger.Debugw("worker_ledger_reconcile_skip_invalid_payload", "affiliate_id", payload.AffiliateID)
		return nil
	}
	if c.LedgerService == nil {
		logger.Warnw("worker_ledger_reconcile_skip_ledger_service_nil", "affiliate_id", payload.AffiliateID)
		return nil
	}
	if err := c.LedgerService.Reconcile(payload.AffiliateID); err != nil {
		logger.Warnw("worker_ledger_reconcile_failed", "affiliate_id", payload.AffiliateID, "error", err)
		return err
	}
	if err := cache.Del(ctx, service.DashboardCacheKey(payload.AffiliateID)); err != nil {
		logger.Warnw("worker_dashboard_cache_invalidate_failed", "affiliate_id", payload.AffiliateID, "error", err)
	}
	return nil
}
