package routes

import (
	"net/http"

	"canteen-api/handlers"
	"canteen-api/identity"
	"canteen-api/metrics"
	"canteen-api/middleware"
	"canteen-api/models"
	"canteen-api/notify"
	"canteen-api/repository"
	"canteen-api/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Dependencies are the outside collaborators the HTTP surface is built from.
type Dependencies struct {
	DB       *gorm.DB
	Verifier identity.Verifier
	Mailer   notify.Mailer
	Sessions *middleware.Sessions
}

// NewRouter wires repositories, services and handlers into a gin engine.
func NewRouter(d Dependencies) *gin.Engine {
	users := repository.NewUserRepository(d.DB)
	catalogRepo := repository.NewCatalogRepository(d.DB)
	orderRepo := repository.NewOrderRepository(d.DB)

	catalog := services.NewCatalog(catalogRepo)
	orders := services.NewOrders(orderRepo, users, notify.NewDispatcher(d.Mailer))

	r := gin.New()
	r.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		metrics.Middleware(),
		middleware.CORS(),
		d.Sessions.Attach(),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Campus Canteen Ordering API",
			"version": "1.0.0",
		})
	})
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "🍽️ Welcome to the Campus Canteen Ordering API",
			"docs":    "/api/state-machine",
			"health":  "/health",
			"roles":   []string{"user", "staff", "admin"},
		})
	})
	r.GET("/metrics", metrics.Handler())

	SetupRoutes(r, d.Sessions,
		handlers.NewAuthHandler(d.Verifier, services.NewDirectory(users), d.Sessions),
		handlers.NewCatalogHandler(catalog),
		handlers.NewOrderHandler(orders),
		handlers.NewStaffHandler(orders),
		handlers.NewAdminHandler(catalog, orders),
	)
	return r
}

func SetupRoutes(
	r *gin.Engine,
	sessions *middleware.Sessions,
	auth *handlers.AuthHandler,
	catalog *handlers.CatalogHandler,
	orders *handlers.OrderHandler,
	staffH *handlers.StaffHandler,
	adminH *handlers.AdminHandler,
) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		public.POST("/auth/google", auth.GoogleLogin)

		public.GET("/canteens", catalog.ListCanteens)
		public.GET("/menu/:canteenId", catalog.GetMenu)

		public.POST("/orders", orders.CreateOrder)
		public.POST("/orders/confirm-payment", orders.ConfirmPayment)

		public.GET("/state-machine", handlers.GetStateMachineInfo)
	}

	// ── Staff routes ───────────────────────────────────────────────
	staff := r.Group("/api/staff")
	staff.Use(sessions.RoleRequired(models.RoleStaff, models.RoleAdmin))
	{
		staff.GET("/orders/:canteenId", staffH.ListOrders)
		staff.PUT("/orders/:orderId", staffH.UpdateStatus)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(sessions.RoleRequired(models.RoleAdmin))
	{
		admin.PUT("/canteens/:id", adminH.SetCanteenActive)
		admin.GET("/canteens", adminH.ListCanteens)
		admin.GET("/menu/:canteenId", adminH.ListMenu)
		admin.POST("/menu", adminH.AddMenuItem)
		admin.PUT("/menu/:id", adminH.UpdateMenuItem)
		admin.GET("/orders", adminH.ListOrders)
	}
}
