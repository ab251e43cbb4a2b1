package bootstrap

import (
	"context"
	"fmt"
	"log"

	"podbot-be/internal/config"
	"podbot-be/internal/constant"
	"podbot-be/internal/controller"
	"podbot-be/internal/handler"
	"podbot-be/internal/pkg/logger"
	"podbot-be/internal/repository/contract"
	"podbot-be/internal/repository/implementation"
	"podbot-be/internal/repository/memory"
	"podbot-be/internal/service"
	"podbot-be/internal/websocket"
	"podbot-be/pkg/database"
	"podbot-be/pkg/events"
	"podbot-be/pkg/idgen"
	"podbot-be/pkg/llm"
	"podbot-be/pkg/llm/factory"
	"podbot-be/pkg/memoryserver"
	pktNats "podbot-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Infrastructure holds the process-wide clients. It is built once in main and
// closed on shutdown.
type Infrastructure struct {
	Redis  *redis.Client
	DB     *gorm.DB
	Nats   *pktNats.Publisher
	PubSub *gochannel.GoChannel

	Logger    logger.ILogger
	LLMLogger logger.ILogger
}

func NewInfrastructure(cfg *config.Config, sysLogger logger.ILogger) (*Infrastructure, error) {
	infra := &Infrastructure{
		Logger:    sysLogger,
		LLMLogger: logger.NewIsolatedLogger(cfg.App.LLMLogFilePath),
	}

	// Redis also backs the websocket fan-out, so it is required for every storage driver.
	opt, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{Addr: cfg.Redis.URL}
	}
	infra.Redis = redis.NewClient(opt)
	if err := infra.Redis.Ping(context.Background()).Err(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	if cfg.Database.Driver == "postgres" {
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
		if err != nil {
			infra.Close()
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		infra.DB = db
	}

	if cfg.Nats.Enabled {
		natsPub, err := pktNats.NewPublisher(cfg.Nats.URL, cfg.Nats.Stream)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		} else {
			infra.Nats = natsPub
		}
	}

	infra.PubSub = gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewStdLogger(false, false),
	)

	return infra, nil
}

// Publisher fans events out to the in-process bus and, when connected, to NATS.
func (i *Infrastructure) Publisher() events.Publisher {
	pubs := events.MultiPublisher{events.NewWatermillPublisher(i.PubSub, constant.SessionEventsTopic)}
	if i.Nats != nil {
		pubs = append(pubs, i.Nats)
	}
	return pubs
}

// Ping checks the store the chat log lives in.
func (i *Infrastructure) Ping(ctx context.Context) error {
	if i.DB != nil {
		return database.Ping(ctx, i.DB)
	}
	return i.Redis.Ping(ctx).Err()
}

func (i *Infrastructure) Close() {
	if i.PubSub != nil {
		_ = i.PubSub.Close()
	}
	if i.Nats != nil {
		i.Nats.Close()
	}
	if i.DB != nil {
		_ = database.Close(i.DB)
	}
	if i.Redis != nil {
		_ = i.Redis.Close()
	}
	_ = i.LLMLogger.Sync()
}

// BuildSessionService wires the orchestrator against the configured drivers.
func BuildSessionService(cfg *config.Config, infra *Infrastructure) (service.ISessionService, error) {
	ids := idgen.NewULIDGenerator()

	var (
		index   contract.SessionIndexRepository
		chatLog contract.ChatLogRepository
	)
	switch cfg.Database.Driver {
	case "redis":
		redisIndex := implementation.NewRedisSessionIndexRepository(infra.Redis, ids)
		index = redisIndex
		chatLog = implementation.NewRedisChatLogRepository(infra.Redis, redisIndex, infra.Logger)
	case "postgres":
		if infra.DB == nil {
			return nil, fmt.Errorf("postgres storage selected but no database connection")
		}
		pgIndex := implementation.NewPostgresSessionIndexRepository(infra.DB, ids)
		index = pgIndex
		chatLog = implementation.NewPostgresChatLogRepository(infra.DB, pgIndex, infra.Logger)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Database.Driver)
	}

	locker, err := newSessionLocker(cfg.Lock.Driver, infra.Redis)
	if err != nil {
		return nil, err
	}

	llmProvider, err := factory.NewLLMProvider(factory.Config{
		Provider:        cfg.Ai.LLMProvider,
		Model:           cfg.Ai.LLMModel,
		OllamaBaseURL:   cfg.Ai.OllamaBaseURL,
		AnthropicAPIKey: cfg.Ai.AnthropicAPIKey,
		Defaults: llm.Options{
			Temperature: cfg.Ai.Temperature,
			MaxTokens:   cfg.Ai.MaxTokens,
			Model:       cfg.Ai.LLMModel,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("init LLM provider: %w", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	memoryClient := memoryserver.NewClient(cfg.Memory.BaseURL, cfg.Memory.ClientVersion, cfg.Memory.Timeout)

	return service.NewSessionService(
		chatLog,
		index,
		memoryClient,
		llmProvider,
		locker,
		infra.Publisher(),
		infra.Logger,
		infra.LLMLogger,
		service.SessionServiceConfig{
			Namespace:        cfg.App.Namespace,
			SystemPrompt:     constant.PodBotSystemPrompt,
			ContextWindowMax: cfg.Memory.ContextWindowMax,
			SearchLimit:      cfg.Memory.SearchLimit,
			LockTTL:          cfg.Lock.TTL,
		},
	), nil
}

// newSessionLocker returns nil for "none"; the orchestrator then runs unlocked.
func newSessionLocker(driver string, rdb *redis.Client) (contract.SessionLocker, error) {
	switch driver {
	case "", "none":
		return nil, nil
	case "memory":
		return memory.NewSessionLock(), nil
	case "redis":
		return implementation.NewRedisSessionLock(rdb), nil
	default:
		return nil, fmt.Errorf("unsupported session lock driver: %s", driver)
	}
}

type Container struct {
	// Controllers
	SessionController controller.ISessionController
	MemoryController  controller.IMemoryController
	HealthController  controller.IHealthController

	// Background Services (started by Start)
	ActivityService service.IActivityService

	// WebSockets
	ActivityHandler *handler.ActivityHandler
	WebSocketHub    *websocket.Hub

	infra *Infrastructure
}

func NewContainer(cfg *config.Config, sysLogger logger.ILogger) (*Container, error) {
	infra, err := NewInfrastructure(cfg, sysLogger)
	if err != nil {
		return nil, err
	}

	sessionService, err := BuildSessionService(cfg, infra)
	if err != nil {
		infra.Close()
		return nil, err
	}

	wsLogger := logger.NewIsolatedLogger("logs/activity.log")
	wsHub := websocket.NewHub(infra.Redis, wsLogger)

	return &Container{
		SessionController: controller.NewSessionController(sessionService, cfg.App.JwtSecret),
		MemoryController:  controller.NewMemoryController(sessionService, cfg.App.JwtSecret),
		HealthController:  controller.NewHealthController(controller.PingFunc(infra.Ping)),

		ActivityService: service.NewActivityService(infra.PubSub, constant.SessionEventsTopic, wsHub, sysLogger),

		ActivityHandler: handler.NewActivityHandler(wsHub, cfg.App.JwtSecret, wsLogger),
		WebSocketHub:    wsHub,

		infra: infra,
	}, nil
}

// Start launches the hub and the activity consumer; both stop with ctx.
func (c *Container) Start(ctx context.Context) error {
	go c.WebSocketHub.Run(ctx)
	return c.ActivityService.Consume(ctx)
}

func (c *Container) Close() {
	c.infra.Close()
}
