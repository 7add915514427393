package constants

// 成交审核状态常量
const (
	SaleStatusPending  = "pending"
	SaleStatusApproved = "approved"
	SaleStatusRejected = "rejected"
)

// 队列常量
const (
	QueueDefault        = "default"
	TaskLedgerReconcile = "ledger:reconcile"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "aff"
)
