package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"backoffice/internal/domain"
	"backoffice/internal/http/middleware"
	"backoffice/internal/services"

	"github.com/gin-gonic/gin"
)

type pnrRequest struct {
	PNRText string `json:"pnrText"`
}

// POST /api/pnr/process
func ProcessPNR(c *gin.Context) {
	var req pnrRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid payload", "details": err.Error(), "request_id": middleware.GetRequestID(c)})
		return
	}
	if strings.TrimSpace(req.PNRText) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "PNR text is required"})
		return
	}
	d := current()
	svc := services.PNRService{Gen: d.PNR, Store: d.Store, RequestID: middleware.GetRequestID(c)}
	out, err := svc.Process(c.Request.Context(), req.PNRText)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case domain.IsValidation(err):
			status = http.StatusBadRequest
		case domain.IsUpstream(err):
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"success": false, "error": err.Error(), "request_id": middleware.GetRequestID(c)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": out.Data, "previewUrl": out.PreviewURL})
}
