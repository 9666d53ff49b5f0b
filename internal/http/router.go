package api

import (
	"log"
	stdhttp "net/http"
	"strings"

	"backoffice/internal/auth"
	intconfig "backoffice/internal/config"
	h "backoffice/internal/http/handlers"
	"backoffice/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// NewRouter mounts every API route. tokens verifies Bearer sessions.
func NewRouter(env intconfig.Env, tokens auth.Issuer) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logger(),
		gin.Recovery(),
		middleware.CORS(env.CORSAllowedOrigins),
		middleware.AuthOptional(tokens),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.OPTIONS("/*path", func(c *gin.Context) { c.AbortWithStatus(stdhttp.StatusNoContent) })

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	// Uploaded media and PNR previews when served from local disk.
	if p := env.StoragePublicURL; strings.HasPrefix(p, "/") {
		r.Static(strings.TrimRight(p, "/"), env.StorageDir)
	}

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)
		api.GET("/_routes", middleware.RequireRoles("owner", "admin"), h.Routes)

		// Auth
		session := api.Group("/auth")
		session.POST("/login", h.Login)
		session.GET("/me", middleware.RequireAuth(), h.Me)

		// Agencies
		agencies := api.Group("/agencies")
		agencies.GET("", h.ListAgencies)
		agencies.POST("", h.CreateAgency)
		agencies.GET("/active", h.ListActiveAgencies)
		agencies.GET("/:uid", h.GetAgency)
		agencies.PUT("/:uid", h.UpdateAgency)
		agencies.DELETE("/:uid", h.DeleteAgency)
		agencies.GET("/:uid/deductions", h.ListDeductions)
		agencies.POST("/:uid/deductions", h.CreateDeduction)
		agencies.DELETE("/:uid/deductions/:id", h.DeleteDeduction)
		agencies.GET("/:uid/commissions", h.ListAgencyCommissions)
		agencies.POST("/:uid/commissions", h.CreateAgencyCommission)
		agencies.PUT("/:uid/commissions/:id", h.UpdateAgencyCommission)
		agencies.DELETE("/:uid/commissions/:id", h.DeleteAgencyCommission)

		airlines := api.Group("/airlines")
		airlines.GET("/:iata/commissions", h.AirlineCommissions)
		airlines.GET("/:iata/agencies", h.AirlineAgencies)

		// Bookings and dashboard
		bookings := api.Group("/bookings")
		bookings.GET("/counts", h.BookingCounts)
		bookings.POST("/commission-quote", h.CommissionQuote)
		bookings.POST("/:id/refund-quote", h.RefundQuote)

		dashboard := api.Group("/dashboard")
		dashboard.GET("/stats", h.DashboardStats)
		dashboard.GET("/recent-bookings", h.RecentBookings)

		api.GET("/profile/stats", h.ProfileStats)

		customers := api.Group("/customers")
		customers.POST("/metrics", h.CustomerMetrics)
		customers.GET("/search", h.SearchCustomers)

		// Airports
		api.GET("/v1/airports", h.ListAirports)
		airports := api.Group("/airports")
		airports.GET("", h.ListAirports)
		airports.POST("", h.CreateAirport)
		airports.GET("/:id", h.GetAirport)
		airports.PUT("/:id", h.UpdateAirport)
		airports.DELETE("/:id", h.DeleteAirport)

		// Services catalog
		catalog := api.Group("/services")
		catalog.GET("", h.ListServices)
		catalog.POST("", h.CreateService)
		catalog.GET("/:id", h.GetService)
		catalog.PUT("/:id", h.UpdateService)
		catalog.DELETE("/:id", h.DeleteService)

		// Media
		media := api.Group("/media")
		media.GET("", h.ListMedia)
		media.POST("", h.CreateMedia)
		media.POST("/upload", h.UploadMedia)
		media.PUT("/:id", h.UpdateMedia)
		media.DELETE("/:id", h.DeleteMedia)

		// Inquiries
		inquiries := api.Group("/inquiries")
		inquiries.GET("", h.ListInquiries)
		inquiries.GET("/board", h.InquiryBoard)
		inquiries.POST("", h.CreateInquiry)
		inquiries.PATCH("/:id", h.UpdateInquiry)
		inquiries.DELETE("/:id", h.DeleteInquiry)

		api.POST("/pnr/process", h.ProcessPNR)
		api.POST("/flight-routes/content/:section", h.ImportRouteContent)

		recent := api.Group("/recent-searches", middleware.RequireAuth())
		recent.GET("", h.ListRecentSearches)
		recent.POST("", h.AddRecentSearch)
		recent.DELETE("", h.ClearRecentSearches)
		recent.DELETE("/:id", h.RemoveRecentSearch)

		api.GET("/realtime/:table", h.StreamChanges)
	}

	h.SetRouter(r)
	return r
}
