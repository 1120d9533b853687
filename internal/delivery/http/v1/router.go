package v1

import (
	"context"
	"net/http"
	"time"

	"job-portal-backend/config"
	"job-portal-backend/internal/delivery/http/middleware"
	"job-portal-backend/internal/domain"
	"job-portal-backend/pkg/apperror"
	"job-portal-backend/pkg/auth"
	"job-portal-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// presignTTL is how long a redirected upload URL stays valid.
const presignTTL = 15 * time.Minute

// Presigner hands out temporary URLs for stored uploads.
type Presigner interface {
	PresignGet(ctx context.Context, name string, ttl time.Duration) (string, error)
}

type RouterDeps struct {
	AuthUC        domain.AuthUsecase
	JobUC         domain.JobUsecase
	ApplicationUC domain.ApplicationUsecase
	ProfileUC     domain.ProfileUsecase
	DocumentUC    domain.DocumentUsecase
	AdminUC       domain.AdminUsecase
	HealthUC      domain.HealthUsecase
	Tokens        *auth.Manager
	Config        *config.Config

	// Exactly one of these serves /uploads.
	UploadsDir string
	Presigner  Presigner
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	cfg := deps.Config
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validation.UseJSONNames(v)
	}
	window := time.Duration(cfg.RateLimitWindowSeconds) * time.Second

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.RateLimitMiddleware(middleware.GlobalRateLimitConfig(cfg.RateLimitGlobalThreshold, window)))
	r.Use(middleware.ErrorHandler())

	registerUploads(r, deps)

	api := r.Group("/api")

	NewHealthHandler(api, deps.HealthUC)

	// Swagger
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	authLimiter := middleware.RateLimitMiddleware(middleware.AuthRateLimitConfig(cfg.RateLimitAuthThreshold, window))
	uploadLimiter := middleware.RateLimitMiddleware(middleware.UploadRateLimitConfig(window))
	adminOnly := middleware.RequireAdmin(cfg.AdminEmail, cfg.AdminLegacyEmailCheck)

	// Protected routes
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Tokens))
	{
		NewAuthHandler(api, deps.AuthUC, authLimiter)
		NewJobHandler(api, protected, deps.JobUC)
		NewApplicationHandler(protected, deps.ApplicationUC)
		NewProfileHandler(protected, deps.ProfileUC, adminOnly)
		NewSkillsHandler(protected, deps.ProfileUC)
		NewDocumentHandler(protected, deps.DocumentUC, cfg.UploadMaxFileSize, uploadLimiter)
		NewAdminHandler(protected, deps.AdminUC, deps.ApplicationUC, adminOnly)
	}

	return r
}

// registerUploads serves stored files from disk, or redirects to object storage.
func registerUploads(r *gin.Engine, deps RouterDeps) {
	if deps.Presigner == nil {
		if deps.UploadsDir != "" {
			r.Static("/uploads", deps.UploadsDir)
		}
		return
	}

	r.GET("/uploads/:name", func(c *gin.Context) {
		url, err := deps.Presigner.PresignGet(c.Request.Context(), c.Param("name"), presignTTL)
		if err != nil {
			c.Error(apperror.Internal(err))
			return
		}
		c.Redirect(http.StatusTemporaryRedirect, url)
	})
}
