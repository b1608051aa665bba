package report

import (
	"net/http"

	"brokmang/internal/org"
	"brokmang/internal/shared/apperror"
	"brokmang/internal/shared/period"
	"brokmang/internal/shared/response"

	"github.com/gin-gonic/gin"
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

// scopeFromQuery resolves scope_kind/scope_id query params. Both default to
// the caller's organization when omitted.
func scopeFromQuery(c *gin.Context, orgID string) (org.Scope, error) {
	kindParam := c.DefaultQuery("scope_kind", string(org.ScopeOrganization))
	kind, err := org.ParseScopeKind(kindParam)
	if err != nil {
		return org.Scope{}, err
	}
	if kind == org.ScopeOrganization {
		return org.OrganizationScope(orgID), nil
	}

	scopeID := c.Query("scope_id")
	if scopeID == "" {
		return org.Scope{}, apperror.RequiredField("scope_id")
	}
	return org.Scope{Kind: kind, OrgID: orgID, ID: scopeID}, nil
}

func (h *Handler) GetPnL(c *gin.Context) {
	orgID := c.GetString("org_id")

	scope, err := scopeFromQuery(c, orgID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	month, err := period.Parse(c.Query("period"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	result, err := h.service.Report(c.Request.Context(), scope, month)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result, nil)
}

func (h *Handler) GetPnLRange(c *gin.Context) {
	orgID := c.GetString("org_id")

	scope, err := scopeFromQuery(c, orgID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	from, err := period.Parse(c.Query("from"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	to, err := period.Parse(c.Query("to"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	resp, err := h.service.ReportRange(c.Request.Context(), scope, from, to)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetRollup(c *gin.Context) {
	orgID := c.GetString("org_id")

	month, err := period.Parse(c.Query("period"))
	if err != nil {
		writeServiceError(c, err)
		return
	}

	resp, err := h.service.Rollup(c.Request.Context(), orgID, month)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
