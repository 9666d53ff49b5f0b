package handlers

import (
	"net/http"

	"backoffice/internal/domain/models"
	"backoffice/internal/http/middleware"
	"backoffice/internal/repositories"
	"backoffice/internal/services"

	"github.com/gin-gonic/gin"
)

func catalogService(c *gin.Context) services.CatalogService {
	return services.CatalogService{
		Repo:      repositories.ServiceRepository{},
		Events:    events(),
		RequestID: middleware.GetRequestID(c),
	}
}

// GET /api/services
func ListServices(c *gin.Context) {
	out, err := catalogService(c).List(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func GetService(c *gin.Context) {
	id, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	out, err := catalogService(c).Get(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func CreateService(c *gin.Context) {
	var in models.ServiceInput
	if !BindJSONOrError(c, &in) {
		return
	}
	out, err := catalogService(c).Create(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": out})
}

func UpdateService(c *gin.Context) {
	id, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	var in models.ServiceInput
	if !BindJSONOrError(c, &in) {
		return
	}
	out, err := catalogService(c).Update(c.Request.Context(), id, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func DeleteService(c *gin.Context) {
	id, ok := paramInt64(c, "id")
	if !ok {
		return
	}
	if err := catalogService(c).Delete(c.Request.Context(), id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
