package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-manager/internal/audit"
	"github.com/BruksfildServices01/barber-manager/internal/config"
	"github.com/BruksfildServices01/barber-manager/internal/handlers"
	infraRepo "github.com/BruksfildServices01/barber-manager/internal/infra/repository"
	"github.com/BruksfildServices01/barber-manager/internal/middleware"
	"github.com/BruksfildServices01/barber-manager/internal/storage"
	ucShop "github.com/BruksfildServices01/barber-manager/internal/usecase/shop"
	"github.com/BruksfildServices01/barber-manager/internal/validators"
)

// RegisterRoutes monta a API da plataforma. O retorno encerra o dispatcher de auditoria.
func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	uploader storage.Uploader,
	emailDomain validators.EmailCheck,
) (shutdown func()) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	shopRepo := infraRepo.NewBarbershopGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger)

	// ======================================================
	// USE CASES
	// ======================================================
	listShopsUC := ucShop.NewListShops(shopRepo)
	saveShopUC := ucShop.NewSaveShop(shopRepo, auditDispatcher, emailDomain)
	deleteShopUC := ucShop.NewDeleteShop(shopRepo, auditDispatcher)

	patchUserUC := ucShop.NewPatchUser(shopRepo, auditDispatcher)

	listServicesUC := ucShop.NewListServices(shopRepo)
	createServiceUC := ucShop.NewCreateService(shopRepo, auditDispatcher)
	deleteServiceUC := ucShop.NewDeleteService(shopRepo, auditDispatcher)

	listBarberServicesUC := ucShop.NewListBarberServices(shopRepo)
	saveBarberServicesUC := ucShop.NewSaveBarberServices(shopRepo, auditDispatcher)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(shopRepo, cfg, emailDomain)
	meHandler := handlers.NewMeHandler(shopRepo, listShopsUC)
	barbershopHandler := handlers.NewBarbershopHandler(listShopsUC, saveShopUC, deleteShopUC)
	userHandler := handlers.NewUserHandler(shopRepo, patchUserUC)
	serviceHandler := handlers.NewServiceHandler(listServicesUC, createServiceUC, deleteServiceUC)
	barberServiceHandler := handlers.NewBarberServiceHandler(listBarberServicesUC, saveBarberServicesUC)
	uploadHandler := handlers.NewUploadHandler(uploader, cfg.MaxUploadBytes)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	authLimiter := middleware.NewRateLimiter(6*time.Second, 5)

	// arquivos do uploader local
	if !cfg.UseS3() {
		r.Static("/static/uploads", cfg.UploadDir)
	}

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		auth := api.Group("/auth", authLimiter.Limit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		// ------------------------------
		// API PRIVADA
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg.JWTSecret))
		{
			secured.GET("/me", meHandler.GetMe)

			secured.GET("/shops", barbershopHandler.List)
			secured.GET("/shops/:id", barbershopHandler.Get)
			secured.POST("/shops", barbershopHandler.Create)
			secured.PUT("/shops/:id", barbershopHandler.Update)
			secured.DELETE("/shops/:id", barbershopHandler.Delete)

			secured.GET("/users", userHandler.List)
			secured.PATCH("/users/:id", userHandler.Patch)

			secured.GET("/services", serviceHandler.List)
			secured.POST("/services", serviceHandler.Create)
			secured.DELETE("/services/:id", serviceHandler.Delete)

			secured.GET("/barber-services", barberServiceHandler.List)
			secured.PUT("/shops/:id/barber-services", barberServiceHandler.Replace)

			secured.POST("/uploads/image", uploadHandler.UploadImage)

			secured.GET("/audit-logs", auditLogsHandler.List)
		}
	}

	return auditDispatcher.Close
}
