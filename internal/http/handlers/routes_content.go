package handlers

import (
	"net/http"

	"backoffice/internal/http/middleware"
	"backoffice/internal/repositories"
	"backoffice/internal/services"

	"github.com/gin-gonic/gin"
)

type routeContentRequest struct {
	Rows []map[string]any `json:"rows"`
}

// POST /api/flight-routes/content/:section
func ImportRouteContent(c *gin.Context) {
	var req routeContentRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	svc := services.RouteContentService{
		Repo:      repositories.RouteRepository{},
		Events:    events(),
		RequestID: middleware.GetRequestID(c),
	}
	out, err := svc.Import(c.Request.Context(), c.Param("section"), req.Rows)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}
