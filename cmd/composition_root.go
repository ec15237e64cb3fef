// Package cmd wires configuration, adapters and use case handlers together.
package cmd

import (
	"log/slog"

	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"crowdship/internal/adapters/out/authgw"
	"crowdship/internal/adapters/out/memory"
	"crowdship/internal/adapters/out/postgres"
	redisadapter "crowdship/internal/adapters/out/redis"
	"crowdship/internal/broker/kafka"
	"crowdship/internal/broker/noop"
	"crowdship/internal/core/application/usecases/commands"
	"crowdship/internal/core/application/usecases/queries"
	"crowdship/internal/core/domain/services"
	"crowdship/internal/core/ports"
	"crowdship/internal/jobs"
)

// CompositionRoot builds every handler from its dependencies. Optional
// backends fall back to local substitutes: the in-memory tracker when Redis
// is not configured, the no-op publisher without Kafka, and an allow-all
// courier gateway without the auth service.
type CompositionRoot struct {
	config Config

	gormDB          *gorm.DB
	uowFactory      postgres.GormUnitOfWorkFactory
	eventPublisher  ports.EventPublisher
	courierGateway  ports.CourierGateway
	locationTracker ports.LocationTracker
	priceCalculator services.PriceCalculator

	logger *slog.Logger
}

// NewCompositionRoot assembles the adapters from the configuration.
func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (CompositionRoot, error) {
	priceCalculator, err := services.NewPriceCalculator(config.PlatformFeeRate)
	if err != nil {
		return CompositionRoot{}, err
	}

	var eventPublisher ports.EventPublisher = noop.NewPublisher()
	if len(config.KafkaBrokers) > 0 {
		eventPublisher = kafka.NewPublisher(config.KafkaBrokers, kafka.Topics{
			AnnouncementEvents: config.KafkaAnnouncementEventTopic,
			DeliveryEvents:     config.KafkaDeliveryEventTopic,
		}, logger)
	} else {
		logger.Warn("Kafka brokers not configured, integration events are dropped")
	}

	var locationTracker ports.LocationTracker = memory.NewLocationTracker()
	if config.RedisAddr != "" {
		client := goredis.NewClient(&goredis.Options{
			Addr:     config.RedisAddr,
			Password: config.RedisPassword,
		})
		locationTracker = redisadapter.NewLocationTracker(client, config.LocationTTL)
	} else {
		logger.Warn("Redis not configured, using in-memory location tracker")
	}

	var courierGateway ports.CourierGateway = authgw.NewAllowAll()
	if config.AuthServiceURL != "" {
		courierGateway = authgw.NewClient(config.AuthServiceURL, nil)
	} else {
		logger.Warn("Auth service not configured, all couriers are treated as verified")
	}

	return CompositionRoot{
		config:          config,
		gormDB:          gormDB,
		uowFactory:      *postgres.NewGormUnitOfWorkFactory(gormDB),
		eventPublisher:  eventPublisher,
		courierGateway:  courierGateway,
		locationTracker: locationTracker,
		priceCalculator: priceCalculator,
		logger:          logger,
	}, nil
}

func (c *CompositionRoot) announcementUoWFactory() commands.AnnouncementUoWFactory {
	return FuncAnnouncementUoWFactory(func() commands.AnnouncementUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) matchingUoWFactory() commands.MatchingUoWFactory {
	return FuncMatchingUoWFactory(func() commands.MatchingUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) deliveryUoWFactory() commands.DeliveryUoWFactory {
	return FuncDeliveryUoWFactory(func() commands.DeliveryUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) lifecycleUoWFactory() commands.LifecycleUoWFactory {
	return FuncLifecycleUoWFactory(func() commands.LifecycleUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) ratingUoWFactory() commands.RatingUoWFactory {
	return FuncRatingUoWFactory(func() commands.RatingUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateAnnouncementCommandHandler() commands.CreateAnnouncementCommandHandler {
	return commands.NewCreateAnnouncementCommandHandler(c.announcementUoWFactory())
}

func (c *CompositionRoot) CreatePublishAnnouncementCommandHandler() commands.PublishAnnouncementCommandHandler {
	return commands.NewPublishAnnouncementCommandHandler(c.announcementUoWFactory(), c.eventPublisher)
}

func (c *CompositionRoot) CreateUpdateAnnouncementCommandHandler() commands.UpdateAnnouncementCommandHandler {
	return commands.NewUpdateAnnouncementCommandHandler(c.announcementUoWFactory())
}

func (c *CompositionRoot) CreateDeleteAnnouncementCommandHandler() commands.DeleteAnnouncementCommandHandler {
	return commands.NewDeleteAnnouncementCommandHandler(c.matchingUoWFactory())
}

func (c *CompositionRoot) CreateApplyToAnnouncementCommandHandler() commands.ApplyToAnnouncementCommandHandler {
	return commands.NewApplyToAnnouncementCommandHandler(
		c.matchingUoWFactory(),
		c.courierGateway,
		c.config.MaxActiveDeliveries,
	)
}

func (c *CompositionRoot) CreateAcceptApplicationCommandHandler() commands.AcceptApplicationCommandHandler {
	return commands.NewAcceptApplicationCommandHandler(
		c.matchingUoWFactory(),
		c.priceCalculator,
		c.eventPublisher,
		c.config.ConfirmationCodeLength,
	)
}

func (c *CompositionRoot) CreateRejectApplicationCommandHandler() commands.RejectApplicationCommandHandler {
	return commands.NewRejectApplicationCommandHandler(c.matchingUoWFactory())
}

func (c *CompositionRoot) CreateUpdateDeliveryStatusCommandHandler() commands.UpdateDeliveryStatusCommandHandler {
	return commands.NewUpdateDeliveryStatusCommandHandler(c.lifecycleUoWFactory(), c.eventPublisher)
}

func (c *CompositionRoot) CreateRecordCheckpointCommandHandler() commands.RecordCheckpointCommandHandler {
	return commands.NewRecordCheckpointCommandHandler(c.deliveryUoWFactory())
}

func (c *CompositionRoot) CreateRecordLocationCommandHandler() commands.RecordLocationCommandHandler {
	return commands.NewRecordLocationCommandHandler(c.deliveryUoWFactory(), c.locationTracker)
}

func (c *CompositionRoot) CreateGenerateConfirmationCodeCommandHandler() commands.GenerateConfirmationCodeCommandHandler {
	return commands.NewGenerateConfirmationCodeCommandHandler(c.deliveryUoWFactory(), c.config.ConfirmationCodeLength)
}

func (c *CompositionRoot) CreateConfirmDeliveryCommandHandler() commands.ConfirmDeliveryCommandHandler {
	return commands.NewConfirmDeliveryCommandHandler(
		c.lifecycleUoWFactory(),
		c.eventPublisher,
		c.config.ConfirmationMaxAttempts,
	)
}

func (c *CompositionRoot) CreateRateDeliveryCommandHandler() commands.RateDeliveryCommandHandler {
	return commands.NewRateDeliveryCommandHandler(c.ratingUoWFactory())
}

func (c *CompositionRoot) CreateExpireAnnouncementsCommandHandler() commands.ExpireAnnouncementsCommandHandler {
	return commands.NewExpireAnnouncementsCommandHandler(c.announcementUoWFactory(), c.eventPublisher)
}

func (c *CompositionRoot) CreateSearchAnnouncementsQueryHandler() queries.SearchAnnouncementsQueryHandler {
	return queries.NewSearchAnnouncementsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetAnnouncementQueryHandler() queries.GetAnnouncementQueryHandler {
	return queries.NewGetAnnouncementQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDeliveryTrackingQueryHandler() queries.GetDeliveryTrackingQueryHandler {
	return queries.NewGetDeliveryTrackingQueryHandler(c.gormDB, c.locationTracker)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateExpireAnnouncementsCommandHandler(),
		c.config.AnnouncementRetention,
		c.logger,
	)
}

type FuncAnnouncementUoWFactory func() commands.AnnouncementUoW

func (f FuncAnnouncementUoWFactory) Create() commands.AnnouncementUoW {
	return f()
}

type FuncMatchingUoWFactory func() commands.MatchingUoW

func (f FuncMatchingUoWFactory) Create() commands.MatchingUoW {
	return f()
}

type FuncDeliveryUoWFactory func() commands.DeliveryUoW

func (f FuncDeliveryUoWFactory) Create() commands.DeliveryUoW {
	return f()
}

type FuncLifecycleUoWFactory func() commands.LifecycleUoW

func (f FuncLifecycleUoWFactory) Create() commands.LifecycleUoW {
	return f()
}

type FuncRatingUoWFactory func() commands.RatingUoW

func (f FuncRatingUoWFactory) Create() commands.RatingUoW {
	return f()
}
