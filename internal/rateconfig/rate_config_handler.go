package rateconfig

import (
	"net/http"
	"time"

	"brokmang/internal/shared/apperror"
	"brokmang/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

// asOfFromQuery parses the optional as_of query param, defaulting to now.
func asOfFromQuery(c *gin.Context) (time.Time, error) {
	raw := c.Query("as_of")
	if raw == "" {
		return time.Now().UTC(), nil
	}
	asOf, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, apperror.InvalidField("As Of")
	}
	return asOf, nil
}

func (h *Handler) GetActiveTax(c *gin.Context) {
	orgID := c.GetString("org_id")

	asOf, err := asOfFromQuery(c)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	cfg, err := h.service.GetActiveTaxConfig(c.Request.Context(), orgID, asOf)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, mapTaxToResponse(*cfg), nil)
}

func (h *Handler) SetTax(c *gin.Context) {
	orgID := c.GetString("org_id")
	actorID := c.GetString("user_id")

	var req SetTaxConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.SetTaxConfig(c.Request.Context(), orgID, actorID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetTaxHistory(c *gin.Context) {
	orgID := c.GetString("org_id")

	resp, err := h.service.TaxHistory(c.Request.Context(), orgID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetActiveCommission(c *gin.Context) {
	orgID := c.GetString("org_id")

	role := c.Query("role")
	if role == "" {
		writeServiceError(c, apperror.RequiredField("role"))
		return
	}
	asOf, err := asOfFromQuery(c)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	cfg, err := h.service.GetActiveCommissionConfig(c.Request.Context(), orgID, role, asOf)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, mapCommissionToResponse(*cfg), nil)
}

func (h *Handler) SetCommission(c *gin.Context) {
	orgID := c.GetString("org_id")
	actorID := c.GetString("user_id")

	var req SetCommissionConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.SetCommissionConfig(c.Request.Context(), orgID, actorID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetCommissionHistory(c *gin.Context) {
	orgID := c.GetString("org_id")

	resp, err := h.service.CommissionHistory(c.Request.Context(), orgID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) EstimateCommission(c *gin.Context) {
	orgID := c.GetString("org_id")

	role := c.Query("role")
	if role == "" {
		writeServiceError(c, apperror.RequiredField("role"))
		return
	}
	dealValue, err := decimal.NewFromString(c.Query("deal_value"))
	if err != nil {
		writeServiceError(c, apperror.InvalidField("Deal Value"))
		return
	}
	asOf, err := asOfFromQuery(c)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	resp, err := h.service.EstimateCommission(c.Request.Context(), orgID, role, dealValue, asOf)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
