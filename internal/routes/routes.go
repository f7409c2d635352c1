package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-manager/internal/audit"
	"github.com/BruksfildServices01/salon-manager/internal/config"
	"github.com/BruksfildServices01/salon-manager/internal/handlers"
	infraRepo "github.com/BruksfildServices01/salon-manager/internal/infra/repository"
	"github.com/BruksfildServices01/salon-manager/internal/middleware"
	"github.com/BruksfildServices01/salon-manager/internal/models"
	"github.com/BruksfildServices01/salon-manager/internal/password"
	"github.com/BruksfildServices01/salon-manager/internal/throttle"
	"github.com/BruksfildServices01/salon-manager/internal/timezone"
	"github.com/BruksfildServices01/salon-manager/internal/token"
	ucAppointment "github.com/BruksfildServices01/salon-manager/internal/usecase/appointment"
)

// Deps are the process-wide singletons the routes are built on.
type Deps struct {
	DB      *gorm.DB
	Config  *config.Config
	Tokens  *token.Service
	Hasher  password.Hasher
	Limiter throttle.Limiter
	Audit   *audit.Dispatcher
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.RequestID(), middleware.Recovery(), middleware.CORSMiddleware())
	r.NoRoute(middleware.NoRoute)

	cfg := d.Config
	db := d.DB
	loc := timezone.Location(cfg.Timezone)

	// ======================================================
	// USE CASES — APPOINTMENTS
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	rules := cfg.Appointments

	appointmentHandler := handlers.NewAppointmentHandler(
		ucAppointment.NewCreateAppointment(appointmentRepo, rules, d.Audit),
		ucAppointment.NewUpdateAppointment(appointmentRepo, rules, d.Audit),
		ucAppointment.NewGetAppointment(appointmentRepo),
		ucAppointment.NewListAppointments(appointmentRepo),
		ucAppointment.NewFilterAppointments(appointmentRepo),
		ucAppointment.NewDeleteAppointment(appointmentRepo, d.Audit),
		loc,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, d.Tokens, d.Hasher, d.Limiter, d.Audit)
	meHandler := handlers.NewMeHandler(db)
	userHandler := handlers.NewUserHandler(db, d.Hasher, d.Audit, cfg.GuardUserDeactivation)
	clientHandler := handlers.NewClientHandler(db, d.Audit)
	serviceHandler := handlers.NewServiceHandler(db, d.Audit)
	employeeHandler := handlers.NewEmployeeHandler(db, d.Audit)
	dashboardHandler := handlers.NewDashboardHandler(db)
	auditLogsHandler := handlers.NewAuditLogsHandler(db, loc)

	auth := middleware.AuthMiddleware(d.Tokens, db)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/register", auth, adminOnly, authHandler.Register)
		api.PUT("/auth/password", auth, authHandler.ChangePassword)

		secured := api.Group("/")
		secured.Use(auth)
		{
			secured.GET("/me", meHandler.GetMe)

			users := secured.Group("/users", adminOnly)
			{
				users.GET("", userHandler.List)
				users.POST("", userHandler.Create)
				users.PUT("/:id", userHandler.Update)
				users.PATCH("/:id/deactivate", userHandler.Deactivate)
				users.PATCH("/:id/reactivate", userHandler.Reactivate)
				users.DELETE("/:id", userHandler.Deactivate)
			}

			clients := secured.Group("/clients")
			{
				clients.GET("", clientHandler.List)
				clients.POST("", clientHandler.Create)
				clients.GET("/:id", clientHandler.Get)
				clients.PUT("/:id", clientHandler.Update)
				clients.DELETE("/:id", clientHandler.Delete)
			}

			services := secured.Group("/services")
			{
				services.GET("", serviceHandler.List)
				services.POST("", serviceHandler.Create)
				services.GET("/:id", serviceHandler.Get)
				services.PUT("/:id", serviceHandler.Update)
				services.DELETE("/:id", serviceHandler.Delete)
				services.PATCH("/:id/reactivate", serviceHandler.Reactivate)
			}

			employees := secured.Group("/employees")
			{
				employees.GET("", employeeHandler.List)
				employees.POST("", employeeHandler.Create)
				employees.GET("/:id", employeeHandler.Get)
				employees.PUT("/:id", employeeHandler.Update)
				employees.DELETE("/:id", employeeHandler.Delete)
				employees.PATCH("/:id/reactivate", employeeHandler.Reactivate)
			}

			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			appointments := secured.Group("/appointments")
			{
				appointments.GET("", appointmentHandler.List)
				appointments.POST("", appointmentHandler.Create)
				appointments.GET("/filter", appointmentHandler.Filter)
				appointments.GET("/:id", appointmentHandler.Get)
				appointments.PUT("/:id", appointmentHandler.Update)
				appointments.DELETE("/:id", appointmentHandler.Delete)
			}

			secured.GET("/dashboard", dashboardHandler.Get)
			secured.GET("/audit-logs", adminOnly, auditLogsHandler.List)
		}
	}
}
