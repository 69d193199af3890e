package main

import (
	"log"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nextchapter/bookclub/config"
	"github.com/nextchapter/bookclub/internal/handlers"
	"github.com/nextchapter/bookclub/internal/openlibrary"
	"github.com/nextchapter/bookclub/internal/repositories"
	"github.com/nextchapter/bookclub/internal/routers"
	"github.com/nextchapter/bookclub/internal/services"
	"github.com/nextchapter/bookclub/internal/storage"
	"github.com/nextchapter/bookclub/internal/utils"
	"github.com/nextchapter/bookclub/pkg/logger"
	"github.com/nextchapter/bookclub/pkg/mq"
	"github.com/nextchapter/bookclub/pkg/ratelimit"
	pkgutils "github.com/nextchapter/bookclub/pkg/utils"
)

func main() {
	cfg, err := config.LoadConfig("./config.toml")
	if err != nil {
		log.Fatalf("配置初始化失败: %v", err)
	}

	// 初始化日志
	zlog, err := logger.NewLogger(&cfg.Logging)
	if err != nil {
		log.Fatalf("日志初始化失败: %v", err)
	}
	defer zlog.Close()

	// 设置 JWT 密钥与有效期
	pkgutils.ConfigureJWT(cfg.JWT.Secret, cfg.JWT.ExpireHours)

	// 初始化全局 Worker Pool (协程池)
	// 用于异步处理请求，防止高并发下 Goroutine 暴涨
	utils.InitGlobalWorkerPool(cfg.WorkerPool.Size, cfg.WorkerPool.QueueSize)

	// 初始化 PostgreSQL
	dsn := storage.BuildDSN(cfg.Postgres.Host, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.DBName)
	postgres, err := storage.InitPostgres(dsn, cfg.Postgres.MaxIdleConns, cfg.Postgres.MaxOpenConns)
	if err != nil {
		log.Fatalf("postgres 初始化失败: %v", err)
	}

	// 初始化 Redis (不可用时降级：搜索不走缓存，限流放行)
	redisClient, err := storage.InitRedis(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.PoolSize, cfg.Redis.MinIdleConns)
	if err != nil {
		zlog.Warn("redis 初始化失败，缓存与限流将降级运行")
		redisClient = nil
	}

	// 初始化仓储层
	userRepo := repositories.NewUserRepository(postgres)
	clubRepo := repositories.NewClubRepository(postgres)
	memberRepo := repositories.NewMembershipRepository(postgres)
	bookRepo := repositories.NewBookRepository(postgres)
	clubBookRepo := repositories.NewClubBookRepository(postgres)
	noteRepo := repositories.NewNoteRepository(postgres)
	meetingRepo := repositories.NewMeetingRepository(postgres)
	libraryRepo := repositories.NewLibraryRepository(postgres)
	suggestRepo := repositories.NewSuggestionRepository(postgres)

	// 初始化 Kafka Producer (不可用时降级：不发送活动事件)
	producer, err := mq.NewActivityProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	if err != nil {
		zlog.Warn("Kafka 生产者初始化失败，活动事件将不会发送")
		producer = nil
	} else {
		defer producer.Close()
	}

	// 初始化服务层
	authService := services.NewAuthService(userRepo)
	clubService := services.NewClubService(clubRepo, memberRepo, producer, zlog.Logger)
	bookService := services.NewBookService(postgres, clubRepo, bookRepo, clubBookRepo, suggestRepo, memberRepo, producer, zlog.Logger)
	notesService := services.NewNotesService(noteRepo, clubBookRepo, memberRepo)
	meetingService := services.NewMeetingService(meetingRepo, clubRepo, memberRepo, producer, zlog.Logger)
	libraryService := services.NewLibraryService(libraryRepo, bookRepo)
	suggestionService := services.NewSuggestionService(suggestRepo, bookRepo, clubRepo, memberRepo)

	// 初始化 Open Library 客户端
	olClient := openlibrary.NewClient(cfg.OpenLibrary.BaseURL, redisClient,
		time.Duration(cfg.OpenLibrary.CacheTTLHours)*time.Hour, zlog.Logger)

	// 初始化限流器
	var limiter ratelimit.Limiter
	if cfg.RateLimit.Enabled && redisClient != nil {
		limiter = ratelimit.NewFixedWindowLimiter(redisClient, zlog.Logger, true)
	}

	// 初始化处理器
	authHandler := handlers.NewAuthHandler(authService)
	clubHandler := handlers.NewClubHandler(clubService)
	bookHandler := handlers.NewBookHandler(bookService, suggestionService, olClient)
	notesHandler := handlers.NewNotesHandler(notesService)
	meetingHandler := handlers.NewMeetingHandler(meetingService)
	libraryHandler := handlers.NewLibraryHandler(libraryService)

	// 配置并创建 Gin 引擎
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	// 设置路由
	routers.SetupRoutes(r,
		cfg,
		authHandler,
		clubHandler,
		bookHandler,
		notesHandler,
		meetingHandler,
		libraryHandler,
		limiter,
	)

	// 启动服务器
	zlog.Info("正在启动服务器，监听端口 :" + strconv.Itoa(cfg.Server.Port))
	if err := r.Run(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
		log.Fatalf("启动服务器失败: %v", err)
	}
}
