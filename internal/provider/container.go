package provider

import (
	"github.com/sorvex/affiliate-api/internal/cache"
	"github.com/sorvex/affiliate-api/internal/config"
	"github.com/sorvex/affiliate-api/internal/logger"
	"github.com/sorvex/affiliate-api/internal/models"
	"github.com/sorvex/affiliate-api/internal/queue"
	"github.com/sorvex/affiliate-api/internal/repository"
	"github.com/sorvex/affiliate-api/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AffiliateRepo    repository.AffiliateRepository
	DiscountCodeRepo repository.DiscountCodeRepository
	SaleRepo         repository.SaleRepository

	// Services
	AuthService      *service.AuthService
	DiscountService  *service.DiscountService
	CheckoutService  *service.CheckoutService
	DashboardService *service.DashboardService
	LedgerService    *service.LedgerService
	AdminService     *service.AdminService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AffiliateRepo = repository.NewAffiliateRepository(db)
	c.DiscountCodeRepo = repository.NewDiscountCodeRepository(db)
	c.SaleRepo = repository.NewSaleRepository(db)
}

func (c *Container) initServices() {
	c.AuthService = service.NewAuthService(c.Config, c.AffiliateRepo, c.DiscountCodeRepo)
	c.DiscountService = service.NewDiscountService(c.Config, c.AffiliateRepo, c.DiscountCodeRepo)
	c.CheckoutService = service.NewCheckoutService(c.Config, c.AffiliateRepo, c.SaleRepo, c.DiscountService, c.QueueClient)
	c.DashboardService = service.NewDashboardService(c.Config, c.AffiliateRepo, c.SaleRepo)
	c.LedgerService = service.NewLedgerService(c.AffiliateRepo, c.SaleRepo)
	c.AdminService = service.NewAdminService(c.AffiliateRepo, c.SaleRepo)
}
