package console

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-manager/internal/association"
	"github.com/BruksfildServices01/barber-manager/internal/geo"
	"github.com/BruksfildServices01/barber-manager/internal/middleware"
	"github.com/BruksfildServices01/barber-manager/internal/servicemap"
	"github.com/BruksfildServices01/barber-manager/internal/shopform"
	"github.com/BruksfildServices01/barber-manager/internal/state"
)

type Deps struct {
	JWTSecret      string
	AllowedOrigins []string

	Store    *state.Store
	Platform Platform
	Sync     *association.Synchronizer
	Services *servicemap.Manager
	Forms    *shopform.Controller
	Locator  geo.Locator
}

// Register monta a API do console em /api.
func Register(r *gin.Engine, d Deps) {

	// ======================================================
	// HANDLERS
	// ======================================================
	stateHandler := NewStateHandler(d.Store, d.Platform, d.AllowedOrigins)
	shopHandler := NewShopHandler(d.Store, d.Platform, d.Sync)
	serviceHandler := NewServiceHandler(d.Store, d.Platform, d.Services)
	formHandler := NewFormHandler(d.Store, d.Platform, d.Forms, d.Locator)

	// geocoder público: poucas capturas por cliente
	captureLimiter := middleware.NewRateLimiter(3*time.Second, 3)

	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(d.JWTSecret), EnsureLoaded(d.Store, d.Platform))
	{
		// ------------------------------
		// ESTADO
		// ------------------------------
		api.GET("/state", stateHandler.State)
		api.POST("/state/refresh", stateHandler.Refresh)
		api.GET("/stats", stateHandler.Stats)
		api.GET("/notifications", stateHandler.Notifications)
		api.GET("/notifications/stream", stateHandler.Stream)

		// ------------------------------
		// SHOPS / BARBEIROS
		// ------------------------------
		api.GET("/shops/:id/barbers", shopHandler.Barbers)
		api.PUT("/shops/:id/barbers", shopHandler.SetBarbers)
		api.POST("/shops/:id/self-assign", shopHandler.SelfAssign)
		api.DELETE("/shops/:id", shopHandler.Delete)
		api.GET("/shops/:id/links", shopHandler.Links)
		api.GET("/shops/:id/links/:kind/qr", shopHandler.QRCode)
		api.GET("/shops/:id/sheet", shopHandler.Sheet)

		// ------------------------------
		// SERVIÇOS
		// ------------------------------
		api.GET("/shops/:id/services", serviceHandler.List)
		api.POST("/shops/:id/services", serviceHandler.Create)
		api.DELETE("/services/:id", serviceHandler.Delete)

		api.GET("/shops/:id/barber-services", serviceHandler.BarberServices)
		api.POST("/shops/:id/barber-services/toggle", serviceHandler.Toggle)
		api.PUT("/shops/:id/barber-services", serviceHandler.SaveBarberServices)
		api.DELETE("/shops/:id/barber-services", serviceHandler.DiscardBarberServices)

		// ------------------------------
		// FORMULÁRIO
		// ------------------------------
		api.POST("/forms", formHandler.Open)
		api.GET("/forms/:id", formHandler.Get)
		api.PATCH("/forms/:id", formHandler.Update)
		api.DELETE("/forms/:id", formHandler.Discard)
		api.POST("/forms/:id/categories/:key/toggle", formHandler.ToggleCategory)
		api.PUT("/forms/:id/location", formHandler.SetLocation)
		api.POST("/forms/:id/location/capture", captureLimiter.Limit(), formHandler.CaptureLocation)
		api.POST("/forms/:id/image", formHandler.StageImage)
		api.GET("/forms/:id/preview", formHandler.Preview)
		api.POST("/forms/:id/submit", formHandler.Submit)
	}
}
