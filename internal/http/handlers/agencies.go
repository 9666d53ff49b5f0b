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

func agencyService(c *gin.Context) services.AgencyService {
	return services.AgencyService{
		Repo:      repositories.AgencyRepository{},
		Events:    events(),
		RequestID: middleware.GetRequestID(c),
	}
}

// GET /api/agencies
func ListAgencies(c *gin.Context) {
	q := models.AgencyListQuery{
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "pageSize", 20),
		SortKey:  c.Query("sortKey"),
		SortDir:  c.Query("sortDir"),
		Status:   c.Query("status"),
		Q:        c.Query("q"),
	}
	res, err := agencyService(c).List(c.Request.Context(), q)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /api/agencies/active
func ListActiveAgencies(c *gin.Context) {
	out, err := agencyService(c).ListActive(c.Request.Context())
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// GET /api/agencies/:uid
func GetAgency(c *gin.Context) {
	out, err := agencyService(c).Get(c.Request.Context(), c.Param("uid"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/agencies
func CreateAgency(c *gin.Context) {
	var in models.AgencyInput
	if !BindJSONOrError(c, &in) {
		return
	}
	uid, err := agencyService(c).Create(c.Request.Context(), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "uid": uid})
}

// PUT /api/agencies/:uid
func UpdateAgency(c *gin.Context) {
	var in models.AgencyInput
	if !BindJSONOrError(c, &in) {
		return
	}
	if err := agencyService(c).Update(c.Request.Context(), c.Param("uid"), in); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DELETE /api/agencies/:uid?mode=soft|hard
// mode may also come from a JSON body.
func DeleteAgency(c *gin.Context) {
	mode := c.Query("mode")
	if mode == "" && c.Request.ContentLength > 0 {
		var body struct {
			Mode string `json:"mode"`
		}
		if err := c.ShouldBindJSON(&body); err == nil {
			mode = body.Mode
		}
	}
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode == "" {
		mode = "soft"
	}
	if mode != "soft" && mode != "hard" {
		RespondError(c, http.StatusBadRequest, "mode must be soft or hard", nil)
		return
	}
	if err := agencyService(c).Delete(c.Request.Context(), c.Param("uid"), mode); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "mode": mode})
}

func deductionService(c *gin.Context) services.DeductionService {
	return services.DeductionService{
		Repo:      repositories.DeductionRepository{},
		Events:    events(),
		RequestID: middleware.GetRequestID(c),
	}
}

// GET /api/agencies/:uid/deductions?category=SQ
func ListDeductions(c *gin.Context) {
	out, err := deductionService(c).Summary(c.Request.Context(), c.Param("uid"), c.DefaultQuery("category", models.DefaultDeductionCategory))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// POST /api/agencies/:uid/deductions
func CreateDeduction(c *gin.Context) {
	var in models.DeductionInput
	if !BindJSONOrError(c, &in) {
		return
	}
	createdBy := ""
	if u, ok := middleware.CurrentUser(c); ok {
		createdBy = u.UserID
	}
	out, err := deductionService(c).Create(c.Request.Context(), c.Param("uid"), createdBy, in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": out})
}

// DELETE /api/agencies/:uid/deductions/:id
func DeleteDeduction(c *gin.Context) {
	if err := deductionService(c).Delete(c.Request.Context(), c.Param("uid"), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func commissionService(c *gin.Context) services.CommissionService {
	return services.CommissionService{
		Repo:       repositories.CommissionRepository{},
		AgencyRepo: repositories.AgencyRepository{},
		Events:     events(),
		RequestID:  middleware.GetRequestID(c),
	}
}

// GET /api/agencies/:uid/commissions
func ListAgencyCommissions(c *gin.Context) {
	out, err := commissionService(c).ListByAgency(c.Request.Context(), c.Param("uid"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// POST /api/agencies/:uid/commissions
func CreateAgencyCommission(c *gin.Context) {
	var in models.AirlineCommissionInput
	if !BindJSONOrError(c, &in) {
		return
	}
	out, err := commissionService(c).Create(c.Request.Context(), c.Param("uid"), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": out})
}

// PUT /api/agencies/:uid/commissions/:id
func UpdateAgencyCommission(c *gin.Context) {
	var in models.AirlineCommissionInput
	if !BindJSONOrError(c, &in) {
		return
	}
	out, err := commissionService(c).Update(c.Request.Context(), c.Param("uid"), c.Param("id"), in)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// DELETE /api/agencies/:uid/commissions/:id
func DeleteAgencyCommission(c *gin.Context) {
	if err := commissionService(c).Delete(c.Request.Context(), c.Param("uid"), c.Param("id")); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GET /api/airlines/:iata/commissions
func AirlineCommissions(c *gin.Context) {
	out, err := commissionService(c).ByAirline(c.Request.Context(), c.Param("iata"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// GET /api/airlines/:iata/agencies
func AirlineAgencies(c *gin.Context) {
	out, err := commissionService(c).AgenciesForAirline(c.Request.Context(), c.Param("iata"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// POST /api/bookings/commission-quote
func CommissionQuote(c *gin.Context) {
	var req models.CommissionQuoteRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	out, err := commissionService(c).Quote(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}
