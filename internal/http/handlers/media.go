package handlers

import (
	"net/http"

	"backoffice/internal/domain/models"
	"backoffice/internal/http/middleware"
	"backoffice/internal/repositories"
	"backoffice/internal/services"

	"github.com/gin-gonic/gin"
)

func mediaService(c *gin.Context) services.MediaService {
	return services.MediaService{
		Repo:      repositories.MediaRepository{},
		Store:     current().Store,
		Events:    events(),
		RequestID: middleware.GetRequestID(c),
	}
}

func currentUserID(c *gin.Context) string {
	if u, ok := middleware.CurrentUser(c); ok {
		return u.UserID
	}
	return ""
}

// GET /api/media?search&type&category
func ListMedia(c *gin.Context) {
	f := models.MediaFilter{Search: c.Query("search"), Type: c.Query("type"), Category: c.Query("category")}
	out, err := mediaService(c).List(c.Request.Context(), f)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// POST /api/media
func CreateMedia(c *gin.Context) {
	var in models.MediaInput
	if !BindJSONOrError(c, &in) {
		return
	}
	out, err := mediaService(c).CreateMetadata(c.Request.Context(), in, currentUserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// POST /api/media/upload (multipart field "file")
func UploadMedia(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "file is required", err)
		return
	}
	f, err := fh.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "cannot read uploaded file", err)
		return
	}
	defer f.Close()

	mimeType := fh.Header.Get("Content-Type")
	out, err := mediaService(c).Upload(c.Request.Context(), fh.Filename, mimeType, fh.Size, f, currentUserID(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": out})
}

// PUT /api/media/:id
func UpdateMedia(c *gin.Context) {
	var in models.MediaInput
	if !BindJSONOrError(c, &in) {
		return
	}
	out, err := mediaService(c).Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// DELETE /api/media/:id
func DeleteMedia(c *gin.Context) {
	if err := mediaService(c).Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
