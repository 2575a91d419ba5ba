package main

import (
	"careerhub/cmd/internal/config"
	"careerhub/cmd/internal/domain/database"
	"careerhub/cmd/internal/domain/database/repository"
	"careerhub/cmd/internal/domain/entity"
	"careerhub/cmd/internal/domain/policy"
	"careerhub/cmd/internal/http/handler"
	mw "careerhub/cmd/internal/http/middleware"
	cognitoclient "careerhub/cmd/internal/infrastructure/aws/cognito"
	"careerhub/cmd/internal/infrastructure/aws/storage"
	"careerhub/cmd/internal/infrastructure/aws/websocket"
	"careerhub/cmd/internal/infrastructure/mail"
	"careerhub/cmd/internal/infrastructure/ratelimit"
	"careerhub/cmd/internal/service"
	"careerhub/cmd/internal/service/jobs"
	"careerhub/cmd/internal/session"
	"careerhub/cmd/internal/utils"
	"careerhub/cmd/internal/utils/apierror"
	"careerhub/cmd/internal/utils/uid"
	"careerhub/cmd/internal/utils/validators"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"github.com/redis/go-redis/v9"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Loads env vars depending on environment
	config.LoadEnvironment(ctx)
	cfg := config.Load()

	if !cfg.IsProduction() {
		log.SetLevel(log.DEBUG)
	}

	if err := uid.Init(cfg.SnowflakeNode); err != nil {
		log.Fatalf("failed to init snowflake node: %v", err)
	}

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	validate := validators.New()

	// Init cognito client
	cogClient, err := cognitoclient.InitCognitoClient(ctx, cfg.CognitoRegion, cfg.CognitoPoolID, cfg.CognitoAppClientID)
	if err != nil {
		log.Fatalf("failed to init cognito client: %v", err)
	}

	var tokens utils.TokenValidator
	if cfg.CognitoPoolID != "" {
		jwks, err := utils.NewCognitoValidator(cfg.CognitoRegion, cfg.CognitoPoolID, cfg.CognitoAppClientID)
		if err != nil {
			log.Fatalf("failed to load cognito keys: %v", err)
		}
		tokens = jwks
	} else {
		log.Warn("COGNITO_POOL_ID is empty, user tokens will be rejected")
	}

	// Init S3 client
	s3Client, err := storage.NewStorageClient(ctx, cfg.S3Region, cfg.S3Bucket, cfg.S3PublicBaseURL)
	if err != nil {
		log.Fatalf("failed to init storage client: %v", err)
	}

	var gateway websocket.GatewayClient = websocket.NoopGatewayClient{}
	if cfg.WSGatewayEndpoint != "" {
		gateway, err = websocket.NewAWSGatewayClient(ctx, cfg.WSGatewayEndpoint, cfg.WSGatewayRegion)
		if err != nil {
			log.Fatalf("failed to init websocket gateway client: %v", err)
		}
	}

	notifier := mail.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom, cfg.AdminNotifyEmail)

	var limiter ratelimit.Limiter = ratelimit.NoopLimiter{}
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		limiter = ratelimit.NewRedisLimiter(rdb, cfg.LoginRateLimit, cfg.LoginRateWindow, "careerhub:ratelimit:")
	}

	var devActorID uuid.UUID
	if cfg.DevActorID != "" && !cfg.IsProduction() {
		devActorID, err = uuid.Parse(cfg.DevActorID)
		if err != nil {
			log.Fatalf("DEV_ACTOR_ID is not a valid uuid: %v", err)
		}
		log.Warnf("development actor %s is enabled", devActorID)
	}

	sessions := session.NewManager(cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())

	// Repositories
	userRepo := repository.NewUserRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	oppRepo := repository.NewOpportunityRepository(db)
	appRepo := repository.NewApplicationRepository(db)
	interestRepo := repository.NewInterestRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	gradRepo := repository.NewGraduationRepository(db)
	connRepo := repository.NewConnectionRepository(db)

	oppPolicy := policy.NewOpportunityPolicy()
	companyPolicy := policy.NewCompanyPolicy()

	// Services
	wsService := service.NewWebSocketService(connRepo, gateway)
	identityService := service.NewIdentityService(companyRepo, userRepo, sessions, tokens, companyPolicy, devActorID)
	userService := service.NewUserService(userRepo, validate, cogClient, cfg.IsAdminEmail)
	companyService := service.NewCompanyService(companyRepo, oppRepo, auditRepo, sessions, notifier, s3Client, wsService, companyPolicy, validate)
	oppService := service.NewOpportunityService(oppRepo, s3Client, oppPolicy, validate)
	appService := service.NewApplicationService(appRepo, oppRepo, s3Client, oppPolicy, cfg.CVURLTTL)
	interestService := service.NewInterestService(interestRepo, oppRepo, oppPolicy)
	approvalService := service.NewApprovalService(oppRepo, companyRepo, auditRepo, wsService)
	profileService := service.NewProfileService(userRepo, validate)
	gradService := service.NewGraduationService(gradRepo, auditRepo, validate)

	e := NewRouter(&Routes{
		Identity:      identityService,
		Limiter:       limiter,
		Users:         handler.NewUserDefault(userService, sessions),
		Companies:     handler.NewCompanyDefault(companyService, sessions),
		Opportunities: handler.NewOpportunityDefault(oppService),
		Applications:  handler.NewApplicationDefault(appService),
		Interests:     handler.NewInterestDefault(interestService),
		Profiles:      handler.NewProfileDefault(profileService),
		Graduations:   handler.NewGraduationDefault(gradService),
		Admin:         handler.NewAdminDefault(approvalService),
		WebSockets:    handler.NewWSDefault(wsService),
	})

	go jobs.NewConnectionCleaner(wsService).Start(ctx)

	go func() {
		if err := e.Start(":" + cfg.HTTPPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server stopped: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Errorf("failed to shut down cleanly: %v", err)
	}
}

// Routes groups every handler the router mounts.
type Routes struct {
	Identity      mw.IdentityResolver
	Limiter       ratelimit.Limiter
	Users         *handler.DefaultUserRoute
	Companies     *handler.DefaultCompanyRoute
	Opportunities *handler.DefaultOpportunityRoute
	Applications  *handler.DefaultApplicationRoute
	Interests     *handler.DefaultInterestRoute
	Profiles      *handler.DefaultProfileRoute
	Graduations   *handler.DefaultGraduationRoute
	Admin         *handler.DefaultAdminRoute
	WebSockets    *handler.DefaultWSRoute
}

func NewRouter(r *Routes) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowCredentials: true}))
	e.Use(mw.NewBodyLimitMiddleware("12M", map[string]apierror.ErrorResponse{
		"/api/student/upload-cv":       apierror.CVTooLargeError,
		"/api/opportunities/:id/flyer": apierror.FlyerTooLargeError,
	}))

	auth := mw.NewPrincipalMiddleware(&mw.PrincipalMiddlewareConfig{Identity: r.Identity})
	maybeAuth := mw.NewPrincipalMiddleware(&mw.PrincipalMiddlewareConfig{Identity: r.Identity, Optional: true})
	loginLimit := mw.NewRateLimitMiddleware(r.Limiter, "login")

	company := mw.RequireRole(entity.RoleCompany)
	individual := mw.RequireRole(entity.RoleStudent, entity.RoleGraduate)
	admin := mw.RequireRole(entity.RoleAdmin)

	// Auth
	e.POST("/api/auth/signup", r.Users.CreateUser)
	e.POST("/api/auth/confirm", r.Users.ConfirmSignup)
	e.POST("/api/auth/confirm/resend", r.Users.ResendConfirmation)
	e.POST("/api/auth/login", r.Users.CreateLogin, loginLimit)
	e.POST("/api/auth/logout", r.Users.Logout)
	e.GET("/api/auth/me", r.Users.Me, auth)
	e.POST("/api/auth/company-register", r.Companies.Register)
	e.POST("/api/auth/company-login", r.Companies.Login, loginLimit)
	e.POST("/api/auth/company-logout", r.Companies.Logout)

	// Companies
	e.GET("/api/company/me", r.Companies.GetMe, auth, company)
	e.POST("/api/company/logo", r.Companies.UploadLogo, auth, company)
	e.GET("/api/company/dashboard/metrics", r.Companies.Metrics, auth, company)
	e.GET("/api/company/dashboard/opportunity", r.Companies.DashboardOpportunities, auth, company)
	e.GET("/api/company/opportunities/:id/applications", r.Applications.ListApplicants, auth, company)
	e.DELETE("/api/company", r.Companies.DeleteSelf, auth, company)

	// Opportunities
	e.GET("/api/opportunities", r.Opportunities.List)
	e.GET("/api/opportunities/:id", r.Opportunities.Get, maybeAuth)
	e.POST("/api/opportunities/job", r.Opportunities.UpsertJob, auth, company)
	e.POST("/api/opportunities/tfg", r.Opportunities.UpsertTFG, auth, company)
	e.POST("/api/opportunities/delete", r.Opportunities.Delete, auth, company)
	e.POST("/api/opportunities/:id/flyer", r.Opportunities.UploadFlyer, auth, company)
	e.GET("/api/opportunities/:id/download-cv", r.Applications.DownloadCV, auth)

	// Students and graduates
	e.POST("/api/student/upload-cv", r.Applications.Apply, auth, individual)
	e.GET("/api/student/applications", r.Applications.ListMine, auth, individual)
	e.GET("/api/interest", r.Interests.ListMine, auth, individual)
	e.POST("/api/interest/:opportunityId", r.Interests.Manifest, auth, individual)
	e.DELETE("/api/interest/:opportunityId", r.Interests.Withdraw, auth, individual)
	e.GET("/api/profile", r.Profiles.Get, auth)
	e.PUT("/api/profile/update", r.Profiles.Update, auth)
	e.POST("/api/graduation-requests", r.Graduations.Create, auth)

	// Admin
	e.GET("/api/admin/opportunities/pending", r.Admin.PendingOpportunities, auth, admin)
	e.POST("/api/admin/opportunities/:id/approve", r.Admin.ApproveOpportunity, auth, admin)
	e.POST("/api/admin/opportunities/:id/reject", r.Admin.RejectOpportunity, auth, admin)
	e.GET("/api/admin/companies/pending", r.Admin.PendingCompanies, auth, admin)
	e.POST("/api/admin/companies/:id/approve", r.Admin.ApproveCompany, auth, admin)
	e.POST("/api/admin/companies/:id/reject", r.Admin.RejectCompany, auth, admin)
	e.DELETE("/api/admin/companies/:id", r.Companies.DeleteByAdmin, auth, admin)
	e.GET("/api/admin/audit-logs", r.Admin.AuditLogs, auth, admin)
	e.GET("/api/admin/graduation-requests", r.Graduations.List, auth, admin)
	e.POST("/api/admin/graduation-requests/:id/approve", r.Graduations.Approve, auth, admin)

	// API Gateway websocket integration
	e.POST("/ws/connect", r.WebSockets.HandleConnect, auth)
	e.POST("/ws/disconnect", r.WebSockets.HandleDisconnect)
	e.POST("/ws/message", r.WebSockets.HandleMessage)

	// Docker Compose healthcheck
	e.GET("/health", handler.HealthCheck)
	return e
}
