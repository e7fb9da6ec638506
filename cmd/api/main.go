package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/groveboard/grove-backend/internal/config"
	"github.com/groveboard/grove-backend/internal/handler"
	"github.com/groveboard/grove-backend/internal/repository"
	"github.com/groveboard/grove-backend/internal/routes"
	"github.com/groveboard/grove-backend/internal/service"
	pkgcache "github.com/groveboard/grove-backend/pkg/cache"
	pkgjwt "github.com/groveboard/grove-backend/pkg/jwt"
	pkglogger "github.com/groveboard/grove-backend/pkg/logger"
	"github.com/groveboard/grove-backend/pkg/markup"
	pkgredis "github.com/groveboard/grove-backend/pkg/redis"
)

// @title           Grove Forum API
// @version         1.0
// @description     Forum post composition and publication backend
//
// @license.name    MIT
//
// @host            localhost:8082
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Example: "Bearer {token}"

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	logger := pkglogger.GetLogger()
	logger.Info().Str("env", env).Strs("dotenv", dotenvFiles).Msg("starting")

	cfg, err := config.Load(getConfigPath())
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	logger.Info().Msg("connected to MySQL")

	redisClient, err := pkgredis.NewClient(
		cfg.Redis.Host,
		cfg.Redis.Port,
		cfg.Redis.Password,
		cfg.Redis.DB,
		cfg.Redis.PoolSize,
	)
	if err != nil {
		logger.Warn().Err(err).Msg("Redis unavailable, using in-process fallbacks")
		redisClient = nil
	} else {
		logger.Info().Msg("connected to Redis")
	}
	cacheService := pkgcache.NewService(redisClient)

	jwtManager := pkgjwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenTTL.Std())

	// Repositories
	boardRepo := repository.NewBoardRepository(db)
	topicRepo := repository.NewTopicRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	publishRepo := repository.NewPublishRepository(db)
	pollRepo := repository.NewPollRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	draftRepo := repository.NewDraftRepository(db)
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	moderationLogRepo := repository.NewModerationLogRepository(db)
	readMarkRepo := repository.NewReadMarkRepository(db)

	// Single-use tokens, flood control and the staging index live in
	// Redis so they survive restarts and are shared across instances;
	// without Redis the in-process fallbacks keep a single node working.
	var tokenService service.TokenService
	var spamGuard service.SpamGuard
	var stagingStore service.StagingStore
	if redisClient != nil {
		tokenService = service.NewRedisTokenService(redisClient, cfg.Posting.TokenTTL.Std())
		spamGuard = service.NewRedisSpamGuard(redisClient, cfg.Posting.SpamWindow.Std())
		stagingStore = service.NewRedisStagingStore(redisClient, cfg.Upload.StagingTTL.Std())
	} else {
		tokenService = service.NewMemoryTokenService(cfg.Posting.TokenTTL.Std())
		spamGuard = service.NewMemorySpamGuard(cfg.Posting.SpamWindow.Std())
		stagingStore = service.NewMemoryStagingStore()
	}

	// Services
	perms := service.NewLevelOracle(true, false)
	stagingService := service.NewStagingService(stagingStore, attachmentRepo, cfg.Upload)
	guard := service.NewConcurrencyGuard(messageRepo, perms, cfg.Posting.WarnNewReplies)
	resolver := service.NewModerationResolver(perms)
	pollBuilder := service.NewPollBuilder()
	sideEffects := service.NewSideEffects(subscriptionRepo, moderationLogRepo, readMarkRepo, logger)

	composer := service.NewComposer(
		boardRepo, topicRepo, messageRepo, draftRepo,
		stagingService, tokenService, perms, cacheService,
	)
	publisher := service.NewPublisher(
		boardRepo, topicRepo, messageRepo, publishRepo, pollRepo,
		guard, resolver, pollBuilder,
		stagingService, tokenService, spamGuard, perms,
		markup.NewTransformer(), sideEffects,
		cfg.Posting, logger,
	)
	draftService := service.NewDraftService(draftRepo)

	// Handlers
	composeHandler := handler.NewComposeHandler(composer, publisher)
	attachmentHandler := handler.NewAttachmentHandler(stagingService)
	draftHandler := handler.NewDraftHandler(draftService)

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		MaxAge:           86400,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "grove-backend",
			"time":    time.Now().Unix(),
		})
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.Setup(router, composeHandler, attachmentHandler, draftHandler, jwtManager)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info().Str("addr", addr).Msg("listening")
	if err := router.Run(addr); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
