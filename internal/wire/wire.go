package wire

import (
	"fmt"
	log "log/slog"
	"time"

	"Pulseboard/internal/api"
	"Pulseboard/internal/api/config"
	"Pulseboard/internal/api/handler"
	"Pulseboard/internal/job"
	"Pulseboard/internal/pkg/cron"
	"Pulseboard/internal/pkg/es"
	"Pulseboard/internal/pkg/kafka"
	"Pulseboard/internal/pkg/mongo"
	"Pulseboard/internal/pkg/period"
	"Pulseboard/internal/repository"
	"Pulseboard/internal/service"

	"github.com/gin-gonic/gin"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router  *gin.Engine
	DB      *gorm.DB
	CronMgr *cron.Manager
	// KafkaManager 与 Producer 在未启用 Kafka 时为 nil
	KafkaManager *kafka.ConsumerManager
	Producer     *kafka.IngestProducer
}

// BuildApplication mongoDB 为 nil 时不记录变更
func BuildApplication(db *gorm.DB, mongoDB *mongodriver.Database, cfg *config.Config) (*ApplicationContainer, error) {
	loc, err := time.LoadLocation(cfg.Server.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid server.timezone %q: %w", cfg.Server.Timezone, err)
	}
	clock := period.SystemClock{Location: loc}

	metricsRepo := repository.NewMetricsRepository(db)

	var changeLogRepo mongo.ChangeLogRepo
	if mongoDB != nil {
		changeLogRepo = mongo.NewChangeLogRepo(mongoDB)
	}

	var postIndex es.PostRepo
	if es.Client != nil {
		postIndex = es.NewPostRepo(es.Client)
	}
	postSearchService := service.NewPostSearchService(metricsRepo, postIndex)

	notifiers := service.Notifiers{}
	if postIndex != nil {
		notifiers = append(notifiers, postSearchService)
	}
	var producer *kafka.IngestProducer
	if cfg.Kafka.Enable && cfg.KafkaIngestProducer.Topic != "" {
		producer, err = kafka.NewIngestProducer(cfg)
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, producer)
	}
	var notifier service.IngestNotifier
	if len(notifiers) > 0 {
		notifier = notifiers
	}

	resolver := service.NewWorkspaceResolver(metricsRepo)
	changeLogService := service.NewChangeLogService(changeLogRepo)
	metricsService := service.NewMetricsService(metricsRepo, resolver, clock)
	entryService := service.NewEntryService(metricsRepo, metricsService, changeLogService, postSearchService)
	ingestService := service.NewIngestService(
		metricsRepo,
		resolver,
		metricsService,
		changeLogService,
		notifier,
		clock,
		service.IngestOptions{Atomic: cfg.Ingest.Atomic},
	)

	handlers := &api.HandlersGroup{
		IngestHandler:     handler.NewIngestHandler(ingestService, cfg.Ingest.MaxUploadMB),
		MetricsHandler:    handler.NewMetricsHandler(metricsService),
		PostSearchHandler: handler.NewPostSearchHandler(postSearchService),
		EntryHandler:      handler.NewEntryHandler(entryService),
		ChangeLogHandler:  handler.NewChangeLogHandler(changeLogService),
	}

	router := api.SetupRouter(handlers, cfg.Logstash.Index, cfg.Server.AllowedOrigins)

	cronMgr := cron.NewCronManager(loc, cfg.Cron.SummaryRefresh, job.NewSummaryRefreshJob(metricsService))

	var kafkaMgr *kafka.ConsumerManager
	if cfg.Kafka.Enable && cfg.KafkaImportConsumer.Topic != "" {
		kafkaMgr, err = kafka.NewConsumerManager(cfg, ingestService)
		if err != nil {
			return nil, err
		}
	} else {
		log.Info("Kafka import consumer disabled")
	}

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		CronMgr:      cronMgr,
		KafkaManager: kafkaMgr,
		Producer:     producer,
	}, nil
}
