package handlers

import (
	"net/http"

	"backoffice/internal/domain/models"
	"backoffice/internal/http/middleware"
	"backoffice/internal/repositories"
	"backoffice/internal/services"

	"github.com/gin-gonic/gin"
)

func recentSearchService(c *gin.Context) services.RecentSearchService {
	return services.RecentSearchService{
		Repo:      repositories.RecentSearchRepository{},
		Events:    events(),
		RequestID: middleware.GetRequestID(c),
	}
}

// GET /api/recent-searches
func ListRecentSearches(c *gin.Context) {
	out, err := recentSearchService(c).List(c.Request.Context(), currentUserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// POST /api/recent-searches
func AddRecentSearch(c *gin.Context) {
	var in models.RecentSearch
	if !BindJSONOrError(c, &in) {
		return
	}
	out, err := recentSearchService(c).Add(c.Request.Context(), currentUserID(c), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": out})
}

// DELETE /api/recent-searches/:id
func RemoveRecentSearch(c *gin.Context) {
	if err := recentSearchService(c).Remove(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DELETE /api/recent-searches
func ClearRecentSearches(c *gin.Context) {
	if err := recentSearchService(c).Clear(c.Request.Context(), currentUserID(c)); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
