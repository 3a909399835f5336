package bootstrap

import (
	"context"

	"course-notes-be/internal/config"
	"course-notes-be/internal/controller"
	"course-notes-be/internal/handler"
	"course-notes-be/internal/pkg/logger"
	"course-notes-be/internal/repository/cache"
	"course-notes-be/internal/repository/memory"
	"course-notes-be/internal/repository/unitofwork"
	"course-notes-be/internal/service"
	"course-notes-be/internal/websocket"
	"course-notes-be/pkg/eventbus"
	pktNats "course-notes-be/pkg/nats"
	"course-notes-be/pkg/pdfinfo"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	NoteController      controller.INoteController
	UserFileController  controller.IUserFileController
	TelemetryController controller.ITelemetryController

	// Background Services (started by main)
	ConsumerService  service.IConsumerService
	TelemetryService service.ITelemetryService

	// WebSockets
	RealtimeHandler *handler.RealtimeHandler
	WebSocketHub    *websocket.Hub

	Logger logger.ILogger

	closers []func()
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	c := &Container{Logger: sysLogger}

	// 2. Event Bus (in-process)
	bus := eventbus.New(sysLogger)
	c.closers = append(c.closers, func() { _ = bus.Close() })

	// 3. Infrastructure
	// NATS
	var publisher service.EventPublisher
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL, sysLogger)
	if err != nil {
		sysLogger.Warn("BOOTSTRAP", "Failed to connect to NATS Publisher", map[string]interface{}{"error": err.Error()})
	} else {
		publisher = natsPub
		c.closers = append(c.closers, natsPub.Close)
	}

	var subscriber service.EventSubscriber
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL, sysLogger)
	if err != nil {
		sysLogger.Warn("BOOTSTRAP", "Failed to connect to NATS Subscriber", map[string]interface{}{"error": err.Error()})
	} else {
		subscriber = natsSub
		c.closers = append(c.closers, natsSub.Close)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		sysLogger.Warn("BOOTSTRAP", "Failed to parse Redis URL, using direct Addr", map[string]interface{}{"error": err.Error()})
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		sysLogger.Warn("BOOTSTRAP", "Failed to connect to Redis", map[string]interface{}{"error": err.Error()})
	}
	c.closers = append(c.closers, func() { _ = rdb.Close() })

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger(cfg.App.RealtimeLogPath)
	c.WebSocketHub = websocket.NewHub(rdb, wsLogger)

	// 4. Services
	notesCache := cache.NewRedisNotesCache(rdb, cfg.Notes.CacheTTL)
	userFileCache := memory.NewUserFileCache(cfg.Notes.UserFileCacheTTL)

	publisherService := service.NewPublisherService(cfg.Notes.WrittenTopic, bus)
	c.ConsumerService = service.NewConsumerService(bus, cfg.Notes.WrittenTopic, c.WebSocketHub, sysLogger)

	userFileService := service.NewUserFileService(uowFactory, userFileCache, pdfinfo.FileCounter{}, sysLogger)
	noteService := service.NewNoteService(uowFactory, userFileService, notesCache, publisherService, sysLogger)
	c.TelemetryService = service.NewTelemetryService(uowFactory, publisher, subscriber, cfg.Telemetry.Durable, sysLogger)

	// 5. Controllers
	c.NoteController = controller.NewNoteController(noteService)
	c.UserFileController = controller.NewUserFileController(userFileService, cfg.App.UploadDir)
	c.TelemetryController = controller.NewTelemetryController(c.TelemetryService)
	c.RealtimeHandler = handler.NewRealtimeHandler(c.WebSocketHub, wsLogger)

	return c
}

// Close releases connections in reverse order of creation.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	_ = c.Logger.Sync()
}
