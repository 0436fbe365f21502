package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"storefront/api/handler"
	apiMiddleware "storefront/api/middleware"
	"storefront/api/routes"
	"storefront/config"
	"storefront/internal/repository"
	"storefront/internal/service"
	"storefront/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const guestSessionSweepInterval = time.Hour

func main() {
	db := config.ConnectionDb()
	cfg := config.Load()
	validate := validator.New()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	if len(cfg.AppKey) != 32 {
		logger.Fatal("APP_KEY must be exactly 32 bytes")
	}
	encryptor, err := utils.NewEncryptor([]byte(cfg.AppKey))
	if err != nil {
		logger.WithError(err).Fatal("admin token cipher init failed")
	}

	mfaSecret := cfg.MFAJWTSecret
	if mfaSecret == "" {
		logger.Fatal("MFA_JWT_SECRET is required")
	}
	mfaIssuer := service.MFATokenIssuerJWT{
		Secret: []byte(mfaSecret),
		Issuer: cfg.MFAIssuer,
		TTL:    5 * time.Minute,
	}

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	tokenRepo := repository.NewTokenRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	discountRepo := repository.NewDiscountRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)
	verificationRepo := repository.NewVerificationTokenRepository(db)
	mfaRepo := repository.NewMFASecretRepository(db)

	clock := service.RealClock{}
	emailSender := service.NewResendEmailSender(cfg.ResendAPIKey, cfg.EmailFrom, cfg.AppBaseURL)
	var publisher service.OrderEventPublisher
	if cfg.AMQPUrl != "" {
		publisher = service.NewAMQPOrderPublisher(cfg.AMQPUrl, logger)
	}

	sessionService := service.NewSessionService(sessionRepo, clock, cfg.SessionRetentionDays)
	tokenService := service.NewTokenService(tokenRepo, userRepo, encryptor, clock, cfg.AdminTokenMaxAge, logger)
	identityService := service.NewIdentityService(tokenService, sessionService, logger)
	catalogService := service.NewCatalogService(categoryRepo, productRepo, discountRepo, clock)
	promoService := service.NewPromoService(discountRepo, couponRepo, productRepo)
	cartService := service.NewCartService(cartRepo, productRepo, discountRepo, clock)
	checkoutService := service.NewCheckoutService(
		cartService,
		couponRepo,
		orderRepo,
		auditLogRepo,
		emailSender,
		publisher,
		clock,
		logger,
	)
	authService := service.NewAuthService(
		userRepo,
		verificationRepo,
		mfaRepo,
		auditLogRepo,
		sessionService,
		tokenService,
		emailSender,
		service.BcryptPasswordHasher{},
		mfaIssuer,
		service.NewTOTPProvider(cfg.MFAIssuer),
		clock,
		service.AuthConfig{
			ResetTokenTTL: 30 * time.Minute,
			MFAIssuer:     cfg.MFAIssuer,
		},
	)

	var catalogCache *apiMiddleware.ResponseCache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		catalogCache = apiMiddleware.NewResponseCache(redisClient, cfg.CatalogCacheTTL, logger)
	}

	authHandler := handler.NewAuthHandler(authService, validate)
	adminAuthHandler := handler.NewAdminAuthHandler(authService, validate)
	adminAuthHandler.CookieDomain = cfg.CookieDomain
	adminAuthHandler.SecureCookies = cfg.SecureCookies
	adminAuthHandler.TokenMaxAge = cfg.AdminTokenMaxAge
	catalogHandler := handler.NewCatalogHandler(catalogService, validate)
	cartHandler := handler.NewCartHandler(cartService, validate)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, validate)
	promoHandler := handler.NewPromoHandler(promoService, validate)

	app := echo.New()
	app.HideBanner = true
	app.HidePort = true
	app.Use(echoMiddleware.Recover())
	app.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogURI:      true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"status": v.Status,
				"method": v.Method,
				"uri":    v.URI,
				"ip":     v.RemoteIP,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))

	identityMiddleware := apiMiddleware.IdentityMiddleware{
		Identity:      identityService,
		CookieDomain:  cfg.CookieDomain,
		SecureCookies: cfg.SecureCookies,
	}
	adminGate := apiMiddleware.AdminGate{Tokens: tokenService}

	router := routes.NewRouter(
		app,
		authHandler,
		adminAuthHandler,
		catalogHandler,
		cartHandler,
		checkoutHandler,
		promoHandler,
		identityMiddleware,
		adminGate,
		catalogCache,
	)
	router.RegisterRoutes()

	go sweepGuestSessions(sessionService, logger)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.WithField("addr", cfg.HTTPAddr).Info("server started")
	if err := app.StartServer(server); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}

func sweepGuestSessions(sessions *service.SessionService, logger *logrus.Logger) {
	ticker := time.NewTicker(guestSessionSweepInterval)
	defer ticker.Stop()
	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		deleted, err := sessions.CleanupGuestSessions(ctx)
		cancel()
		if err != nil {
			logger.WithError(err).Warn("guest session sweep failed")
			continue
		}
		if deleted > 0 {
			logger.WithField("deleted", deleted).Info("guest sessions swept")
		}
	}
}
