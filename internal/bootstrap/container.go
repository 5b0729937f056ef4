package bootstrap

import (
	"context"
	"log"
	"time"

	"claim-verify-be/internal/config"
	"claim-verify-be/internal/controller"
	"claim-verify-be/internal/handler"
	"claim-verify-be/internal/pkg/logger"
	"claim-verify-be/internal/repository/contract"
	"claim-verify-be/internal/repository/implementation"
	"claim-verify-be/internal/repository/memory"
	"claim-verify-be/internal/repository/redisstore"
	"claim-verify-be/internal/service"
	"claim-verify-be/internal/websocket"
	"claim-verify-be/pkg/provider/bedrock"
	"claim-verify-be/pkg/provider/perplexity"
	"claim-verify-be/pkg/provider/reddit"
	"claim-verify-be/pkg/provider/segregate"
	"claim-verify-be/pkg/verify/aggregate"
	"claim-verify-be/pkg/verify/sequencer"

	pktNats "claim-verify-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	SessionController controller.ISessionController

	// Background Services (Exposed for main.go to run)
	NotifierService service.INotifierService

	// WebSockets & Progress
	ProgressHandler *handler.ProgressHandler
	WebSocketHub    *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	redisUp := true
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		redisUp = false
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/progress.log")
	var hubRedis *redis.Client
	if redisUp {
		hubRedis = rdb
	}
	wsHub := websocket.NewHub(hubRedis, wsLogger)
	go wsHub.Run()

	// 3. Pipeline Collaborators
	analysisClient := bedrock.NewClient(cfg.Keys.BedrockBaseURL, cfg.Keys.BedrockAPIKey)
	discoveryClient := reddit.NewClient(
		cfg.Keys.RedditClientID,
		cfg.Keys.RedditClientSecret,
		cfg.Keys.RedditUsername,
		cfg.Keys.RedditPassword,
	)
	verificationClient := perplexity.NewClient(cfg.Keys.Perplexity)
	segregator := segregate.New()
	engine := aggregate.NewEngine()

	progressPub := service.NewProgressPublisher(pubSub)
	seq := sequencer.New(
		analysisClient,
		discoveryClient,
		verificationClient,
		segregator,
		engine,
		progressPub,
		sequencer.Config{
			MaxConcurrency: cfg.Pipeline.MaxConcurrency,
			ItemTimeout:    time.Duration(cfg.Pipeline.ItemTimeoutSec) * time.Second,
		},
	)

	// 4. Storage
	ttl := time.Duration(cfg.Pipeline.SessionTTLMinutes) * time.Minute
	var sessionStore contract.ISessionStore
	if cfg.App.SessionStore == "redis" && redisUp {
		sessionStore = redisstore.NewSessionStore(rdb, ttl)
		log.Printf("[INFO] Using Session Store: REDIS")
	} else {
		sessionStore = memory.NewSessionStore(ttl)
		log.Printf("[INFO] Using Session Store: MEMORY")
	}

	var verdictArchive contract.IVerdictArchive
	if db != nil {
		verdictArchive = implementation.NewVerdictArchive(db)
	}

	// 5. Services
	sessionService := service.NewSessionService(sessionStore, verdictArchive, seq, progressPub, sysLogger)
	notifierService := service.NewNotifierService(pubSub, wsHub, natsPub, wsLogger)

	// Handler
	progressHandler := handler.NewProgressHandler(wsHub, wsLogger)

	return &Container{
		SessionController: controller.NewSessionController(sessionService, cfg.App.JWTSecret),
		NotifierService:   notifierService,
		ProgressHandler:   progressHandler,
		WebSocketHub:      wsHub,
	}
}
