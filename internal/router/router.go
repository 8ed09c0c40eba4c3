package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/WalidElHadhri/PDS/docs"
	"github.com/WalidElHadhri/PDS/internal/config"
	"github.com/WalidElHadhri/PDS/internal/middleware"
	"github.com/WalidElHadhri/PDS/internal/modules/handler"
	"github.com/WalidElHadhri/PDS/internal/modules/serializer"
	"github.com/WalidElHadhri/PDS/internal/telemetry"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	Config              *config.Config
	DB                  *gorm.DB
	Redis               *redis.Client
	Log                 *zap.Logger
	AuthHandler         *handler.AuthHandler
	ProjectHandler      *handler.ProjectHandler
	CollaboratorHandler *handler.CollaboratorHandler
	DocHandler          *handler.DocHandler
	VersionHandler      *handler.VersionHandler
}

func NewRouter(d RouterDeps) *gin.Engine {
	registerValidations()

	r := gin.New()
	r.Use(gin.Recovery())

	if d.Config.Telemetry.Enabled && d.Config.Telemetry.OtlpEndpoint != "" {
		r.Use(telemetry.GinMiddleware(d.Config.App.Name))
		r.Use(telemetry.TraceIDMiddleware())
	}

	r.Use(middleware.ZapLogger(d.Log))

	// health
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "API is running"})
	})

	// swagger
	r.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", d.AuthHandler.Register)
			auth.POST("/login", d.AuthHandler.Login)

			authed := auth.Group("")
			authed.Use(middleware.UserAuth(d.Config, d.DB, d.Redis))
			authed.GET("/me", d.AuthHandler.Me)
			authed.POST("/logout", d.AuthHandler.Logout)
		}

		projects := api.Group("/projects")
		projects.Use(middleware.UserAuth(d.Config, d.DB, d.Redis))
		{
			projects.GET("", d.ProjectHandler.ListProjects)
			projects.POST("", d.ProjectHandler.CreateProject)

			// read/write gate: owner or collaborator
			access := projects.Group("/:id")
			access.Use(middleware.ProjectAccess(d.DB))
			{
				access.GET("", d.ProjectHandler.GetProject)
				access.PUT("", d.ProjectHandler.UpdateProject)

				access.GET("/documentation", d.DocHandler.GetDocumentation)
				access.PUT("/documentation", d.DocHandler.UpdateDocumentation)

				access.GET("/code-file", d.DocHandler.GetCodeFile)
				access.PUT("/code-file", d.DocHandler.UpdateCodeFile)

				access.GET("/versions", d.VersionHandler.ListVersions)
				access.POST("/versions", d.VersionHandler.CreateVersion)
				access.PUT("/versions/:versionId/current", d.VersionHandler.SetCurrentVersion)
			}

			// owner-only gate
			owner := projects.Group("/:id")
			owner.Use(middleware.ProjectOwner(d.DB))
			{
				owner.DELETE("", d.ProjectHandler.DeleteProject)
				owner.POST("/collaborators", d.CollaboratorHandler.AddCollaborator)
				owner.DELETE("/collaborators/:userId", d.CollaboratorHandler.RemoveCollaborator)
			}
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, serializer.NotFoundErr("Route not found"))
	})

	return r
}

// registerValidations wires custom binding validations. "codefilename"
// rejects filenames carrying path separators; the code file is a single
// flat document, never a path.
func registerValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("codefilename", func(fl validator.FieldLevel) bool {
			name := fl.Field().String()
			return !strings.ContainsAny(name, "/\\")
		})
	}
}
