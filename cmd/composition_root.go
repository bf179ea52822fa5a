package cmd

import (
	"log/slog"
	"net/http"

	"orderflow/internal/adapters/out/kafka"
	"orderflow/internal/adapters/out/postgres"
	"orderflow/internal/adapters/out/productclient"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/jobs"
	"orderflow/internal/pkg/metrics"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters into use case handlers.
// All handlers created from the same root share the database connection,
// the transition graph, the inventory client, and the event publisher.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	graph      order.TransitionGraph
	inventory  *productclient.Client
	publisher  *kafka.StatusChangedPublisher
	metrics    *metrics.LifecycleMetrics
	logger     *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		graph:      order.DefaultTransitionGraph(),
		inventory:  productclient.NewClient(config.ProductServiceURL, &http.Client{}),
		publisher:  kafka.NewStatusChangedPublisher(config.KafkaHost),
		metrics:    metrics.NewLifecycleMetrics("orders"),
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(
		c.orderUoWFactory(),
		c.inventory,
		c.config.UpstreamTimeout,
		c.logger,
	)
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	return commands.NewTransitionOrderCommandHandler(
		c.orderUoWFactory(),
		c.graph,
		c.inventory,
		c.publisher,
		c.config.KafkaOrderChangedTopic,
		c.config.UpstreamTimeout,
		c.metrics,
		c.logger,
	)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetClientOrdersQueryHandler() queries.GetClientOrdersQueryHandler {
	return queries.NewGetClientOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.orderUoWFactory(),
		c.CreateTransitionOrderCommandHandler(),
		c.graph,
		c.config.ReconcileInterval,
		c.metrics,
		c.logger,
	)
}

// ClosePublisher flushes and closes the Kafka writer during shutdown.
func (c *CompositionRoot) ClosePublisher() error {
	return c.publisher.Close()
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
