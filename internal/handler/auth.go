package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"dealdesk/internal/auth"
	"dealdesk/internal/repository"
)

// AuthHandler mints LP tokens. Token issuance is gated by the admin key so
// the service itself stays the only identity provider.
type AuthHandler struct {
	Repo     repository.Repository
	JWT      auth.JWT
	AdminKey string
}

func (h *AuthHandler) Register(r *gin.Engine) {
	r.POST("/api/auth/token", h.token)
}

type tokenRequest struct {
	Email string `json:"email"`
}

type tokenResponse struct {
	Token       string `json:"token"`
	ExpiresAt   string `json:"expires_at"`
	LPID        uint64 `json:"lp_id"`
	PartnerType string `json:"partner_type"`
	// CanEditDeals tells the client up front whether to render edit controls.
	CanEditDeals bool `json:"can_edit_deals"`
}

// @Summary Issue an LP access token
// @Tags auth
// @Accept json
// @Produce json
// @Param X-Admin-Key header string true "admin key"
// @Param body body tokenRequest true "LP email"
// @Success 200 {object} tokenResponse
// @Router /api/auth/token [post]
func (h *AuthHandler) token(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	if h.AdminKey == "" || c.GetHeader("X-Admin-Key") != h.AdminKey {
		Error(c, http.StatusUnauthorized, "invalid admin key", nil)
		return
	}
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	lp, err := h.Repo.GetLimitedPartnerByEmail(c.Request.Context(), req.Email)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if lp == nil || !lp.Active {
		Error(c, http.StatusNotFound, "unknown limited partner", nil)
		return
	}
	token, expiresAt, err := h.JWT.Sign(auth.Claims{
		LPID:        lp.ID,
		Name:        lp.Name,
		PartnerType: lp.PartnerType,
	})
	if err != nil {
		Error(c, http.StatusInternalServerError, "token signing failed", nil)
		return
	}
	Ok(c, tokenResponse{
		Token:        token,
		ExpiresAt:    expiresAt.Format("2006-01-02T15:04:05Z07:00"),
		LPID:         lp.ID,
		PartnerType:  lp.PartnerType,
		CanEditDeals: lp.CanEditDeals(),
	}, nil)
}
