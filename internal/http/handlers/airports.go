package handlers

import (
	"net/http"

	"backoffice/internal/domain/models"
	"backoffice/internal/http/middleware"
	"backoffice/internal/repositories"
	"backoffice/internal/services"

	"github.com/gin-gonic/gin"
)

func airportService(c *gin.Context) services.AirportService {
	return services.AirportService{
		Repo:      repositories.AirportRepository{},
		Search:    current().Airports,
		Events:    events(),
		RequestID: middleware.GetRequestID(c),
	}
}

// GET /api/v1/airports?page&limit&search&country&city
func ListAirports(c *gin.Context) {
	q := services.AirportQuery{
		Page:    queryInt(c, "page", 1),
		Limit:   queryInt(c, "limit", 0),
		Search:  c.Query("search"),
		Country: c.Query("country"),
		City:    c.Query("city"),
	}
	out, err := airportService(c).List(c.Request.Context(), q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out.Data, "meta": out.Meta})
}

// GET /api/airports/:id
func GetAirport(c *gin.Context) {
	id, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	out, err := airportService(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// POST /api/airports
func CreateAirport(c *gin.Context) {
	var in models.AirportInput
	if !BindJSONOrError(c, &in) {
		return
	}
	out, err := airportService(c).Create(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": out})
}

// PUT /api/airports/:id
func UpdateAirport(c *gin.Context) {
	id, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	var in models.AirportInput
	if !BindJSONOrError(c, &in) {
		return
	}
	out, err := airportService(c).Update(c.Request.Context(), id, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// DELETE /api/airports/:id
func DeleteAirport(c *gin.Context) {
	id, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	if err := airportService(c).Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
