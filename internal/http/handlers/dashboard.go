package handlers

import (
	"net/http"

	"backoffice/internal/domain/models"
	"backoffice/internal/http/middleware"
	"backoffice/internal/repositories"
	"backoffice/internal/services"

	"github.com/gin-gonic/gin"
)

func statsService(c *gin.Context) services.StatsService {
	return services.StatsService{
		Bookings:  repositories.BookingRepository{},
		Users:     repositories.UserRepository{},
		Customers: repositories.CustomerRepository{},
		RequestID: middleware.GetRequestID(c),
	}
}

func dateRange(c *gin.Context) repositories.DateRange {
	return repositories.DateRange{From: c.Query("from"), To: c.Query("to")}
}

// GET /api/bookings/counts
func BookingCounts(c *gin.Context) {
	out, err := statsService(c).BookingCounts(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// GET /api/dashboard/stats?from&to
func DashboardStats(c *gin.Context) {
	total, err := statsService(c).TotalRevenue(c.Request.Context(), dateRange(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	success(c, http.StatusOK, gin.H{"totalRevenue": total}, "")
}

// GET /api/dashboard/recent-bookings?limit&from&to
func RecentBookings(c *gin.Context) {
	out, err := statsService(c).RecentBookings(c.Request.Context(), dateRange(c), queryInt(c, "limit", 0))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": out.Data, "meta": gin.H{"total": out.Total}})
}

// POST /api/bookings/:id/refund-quote
func RefundQuote(c *gin.Context) {
	var req models.RefundQuoteRequest
	if c.Request.ContentLength != 0 && !BindJSONOrError(c, &req) {
		return
	}
	out, err := statsService(c).RefundQuote(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// GET /api/profile/stats?email
func ProfileStats(c *gin.Context) {
	out, err := statsService(c).ProfileStats(c.Request.Context(), c.Query("email"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

type customerMetricsRequest struct {
	IDs []string `json:"ids"`
}

// POST /api/customers/metrics
func CustomerMetrics(c *gin.Context) {
	var req customerMetricsRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	out, err := statsService(c).CustomerMetrics(c.Request.Context(), req.IDs)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"metrics": out})
}

// GET /api/customers/search?q
func SearchCustomers(c *gin.Context) {
	out, err := statsService(c).SearchCustomers(c.Request.Context(), c.Query("q"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}
