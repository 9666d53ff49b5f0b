package handlers

import (
	"net/http"
	"strings"

	"backoffice/internal/domain/models"
	"backoffice/internal/http/middleware"
	"backoffice/internal/repositories"
	"backoffice/internal/services"

	"github.com/gin-gonic/gin"
)

func inquiryService(c *gin.Context) services.InquiryService {
	return services.InquiryService{
		Repo:      repositories.InquiryRepository{},
		Events:    events(),
		RequestID: middleware.GetRequestID(c),
	}
}

// inquiryFilter reads status, priority, search and assignedToMe.
// assignedToMe without a session is ignored.
func inquiryFilter(c *gin.Context) models.InquiryFilter {
	f := models.InquiryFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Search:   c.Query("search"),
	}
	if strings.EqualFold(c.Query("assignedToMe"), "true") {
		f.AssigneeID = currentUserID(c)
	}
	return f
}

// GET /api/inquiries
func ListInquiries(c *gin.Context) {
	out, err := inquiryService(c).List(c.Request.Context(), inquiryFilter(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	success(c, http.StatusOK, out, "")
}

// GET /api/inquiries/board
func InquiryBoard(c *gin.Context) {
	out, err := inquiryService(c).Board(c.Request.Context(), inquiryFilter(c))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	success(c, http.StatusOK, out, "")
}

// POST /api/inquiries
func CreateInquiry(c *gin.Context) {
	var in models.InquiryInput
	if !BindJSONOrError(c, &in) {
		return
	}
	out, err := inquiryService(c).Create(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	success(c, http.StatusCreated, out, "Inquiry created successfully")
}

// PATCH /api/inquiries/:id
func UpdateInquiry(c *gin.Context) {
	var in models.InquiryInput
	if !BindJSONOrError(c, &in) {
		return
	}
	out, err := inquiryService(c).Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	success(c, http.StatusOK, out, "")
}

// DELETE /api/inquiries/:id
func DeleteInquiry(c *gin.Context) {
	if err := inquiryService(c).Delete(c.Request.Context(), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	success(c, http.StatusOK, nil, "")
}
