package queue

import (
	"encoding/json"

	"github.com/sorvex/affiliate-api/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskLedgerReconcile 台账对账任务
	TaskLedgerReconcile = constants.TaskLedgerReconcile
)

// LedgerReconcilePayload 台账对账任务载荷
type LedgerReconcilePayload struct {
	AffiliateID uint `json:"affiliate_id"`
}

// NewLedgerReconcileTask 创建台账对账任务
func NewLedgerReconcileTask(payload LedgerReconcilePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskLedgerReconcile, body), nil
}
