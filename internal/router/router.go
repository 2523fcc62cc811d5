package router

import (
	"time"

	"github.com/ninjaskull/dacreation-sub001/internal/config"
	"github.com/ninjaskull/dacreation-sub001/internal/handler"
	"github.com/ninjaskull/dacreation-sub001/internal/infra"
	"github.com/ninjaskull/dacreation-sub001/internal/middleware"
	"github.com/ninjaskull/dacreation-sub001/internal/repository"
	"github.com/ninjaskull/dacreation-sub001/internal/service"
	"github.com/ninjaskull/dacreation-sub001/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, files infra.FileStore) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	registrationRepo := repository.NewRegistrationRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	logRepo := repository.NewApprovalLogRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	registrationSvc := service.NewRegistrationService(registrationRepo)
	documentSvc := service.NewDocumentService(documentRepo, registrationRepo, logRepo, files, cfg.MaxDocumentSizeMB)
	workflowSvc := service.NewWorkflowService(registrationRepo, logRepo, registrationSvc, dispatcher)
	authSvc := service.NewAuthService(adminRepo, cfg)

	// ── Handlers ─────────────────────────────────────────────────────────────
	regsH := handler.NewRegistrationsHandler(registrationSvc, documentSvc, workflowSvc)
	workflowH := handler.NewWorkflowHandler(registrationSvc, documentSvc, workflowSvc)
	authH := handler.NewAuthHandler(authSvc)
	catalogH := handler.NewCatalogHandler()

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.GET("/v1/catalog", catalogH.Vocabularies)

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Vendor-facing registration flow — no auth required; a draft id is the
	// only credential an applicant holds.
	regs := r.Group("/v1/registrations")
	{
		regs.POST("", regsH.CreateDraft)
		regs.PATCH("/:id", regsH.UpdateDraft)
		regs.GET("/:id", regsH.Get)
		regs.POST("/:id/submit", regsH.Submit)
		regs.POST("/:id/documents", regsH.UploadDocument)
		regs.GET("/:id/documents", regsH.ListDocuments)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	admin := r.Group("/v1/admin", jwtMW)
	{
		reviewers := middleware.RequireRole("reviewer", "approver", "admin")
		approvers := middleware.RequireRole("approver", "admin")
		admins := middleware.RequireRole("admin")

		admin.GET("/registrations", reviewers, workflowH.List)
		admin.GET("/registrations/:id", reviewers, workflowH.Get)
		admin.GET("/registrations/:id/history", reviewers, workflowH.History)

		// Review steps — any reviewer
		admin.POST("/registrations/:id/review", reviewers, workflowH.BeginReview)
		admin.POST("/registrations/:id/request-documents", reviewers, workflowH.RequestDocuments)
		admin.POST("/registrations/:id/request-verification", reviewers, workflowH.RequestVerification)
		admin.POST("/registrations/:id/resume-review", reviewers, workflowH.ResumeReview)
		admin.POST("/documents/:id/verify", reviewers, workflowH.VerifyDocument)
		admin.POST("/documents/:id/reject", reviewers, workflowH.RejectDocument)

		// Terminal decisions — approver or admin
		admin.POST("/registrations/:id/approve", approvers, workflowH.Approve)
		admin.POST("/registrations/:id/reject", approvers, workflowH.Reject)
		admin.POST("/registrations/:id/suspend", approvers, workflowH.Suspend)
		admin.POST("/registrations/:id/blacklist", approvers, workflowH.Blacklist)

		// User management — admin only
		admin.POST("/users", admins, authH.CreateAdmin)
		admin.GET("/users", admins, authH.ListAdmins)
		admin.DELETE("/users/:id", admins, authH.DeactivateAdmin)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
