package main

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"reviewhub/database"
	"reviewhub/internal/cache"
	"reviewhub/internal/config"
	"reviewhub/internal/httpapi/auth"
	"reviewhub/internal/httpapi/handler"
	"reviewhub/internal/httpapi/middleware"
	"reviewhub/internal/httpapi/repository"
	"reviewhub/internal/httpapi/service"
	"reviewhub/internal/logger"
	"reviewhub/internal/mailer"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Get().Fatalf("could not load config: %v", err)
	}

	logger.Init(cfg)
	log := logger.Get()

	db, err := database.ConnectDB(cfg, log)
	if err != nil {
		log.Fatalf("could not connect to database: %v", err)
	}

	// the title cache is optional; without Redis every read hits Postgres
	var titleCache *cache.TitleCache
	if cfg.RedisURL != "" {
		titleCache, err = cache.NewTitleCache(cfg.RedisURL)
		if err != nil {
			log.WithError(err).Warn("running without title cache")
			titleCache = nil
		} else {
			defer titleCache.Close()
		}
	}

	// collaborators
	tokens := auth.NewJWTManager(cfg.JWTSecret, cfg.AccessTokenTTL)
	var mail mailer.Mailer
	if cfg.SMTPAddr != "" {
		mail = mailer.NewSMTPMailer(cfg.SMTPAddr, cfg.MailFrom, cfg.SMTPUser, cfg.SMTPPassword)
	} else {
		log.Warn("SMTP_ADDR not set, confirmation codes go to the log")
		mail = mailer.NewLogMailer(log)
	}

	// repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepo(db)
	genreRepo := repository.NewGenreRepo(db)
	titleRepo := repository.NewTitleRepo(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	// services
	ratingUpdater := service.NewRatingUpdater(reviewRepo, titleRepo)
	authService := service.NewAuthService(userRepo, tokens, mail)
	userService := service.NewUserService(userRepo, ratingUpdater, titleCache)
	categoryService := service.NewCategoryService(categoryRepo)
	genreService := service.NewGenreService(genreRepo)
	titleService := service.NewTitleService(titleRepo, categoryRepo, genreRepo, titleCache)
	reviewService := service.NewReviewService(reviewRepo, titleRepo, ratingUpdater, titleCache)
	commentService := service.NewCommentService(commentRepo, reviewRepo)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	authRequired := middleware.AuthMiddleware(tokens)
	v1 := r.Group("/v1")

	authGroup := v1.Group("/auth", middleware.RateLimit(cfg.AuthRateLimit, cfg.AuthRateBurst))
	handler.NewAuthHandler(authService).RegisterRoutes(authGroup)

	handler.NewUserHandler(userService).RegisterRoutes(v1.Group("/users", authRequired))
	handler.NewCategoryHandler(categoryService).RegisterRoutes(v1.Group("/categories"), authRequired)
	handler.NewGenreHandler(genreService).RegisterRoutes(v1.Group("/genres"), authRequired)
	handler.NewTitleHandler(titleService).RegisterRoutes(v1.Group("/titles"), authRequired)
	handler.NewReviewHandler(reviewService).RegisterRoutes(v1.Group("/titles/:title_id/reviews"), authRequired)
	handler.NewCommentHandler(commentService).RegisterRoutes(
		v1.Group("/titles/:title_id/reviews/:review_id/comments"), authRequired)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	log.Infof("API server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
