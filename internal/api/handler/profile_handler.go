package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/creatorhub/marketplace/internal/api/metrics"
	"github.com/creatorhub/marketplace/internal/core/domain"
	"github.com/creatorhub/marketplace/internal/core/ports"
)

// ProfileHandler serves the authenticated account's own profile.
type ProfileHandler struct {
	authService ports.AuthService
}

func NewProfileHandler(authService ports.AuthService) *ProfileHandler {
	return &ProfileHandler{authService: authService}
}

// Get returns the profile of the token's account.
//
// @Summary      Get own profile
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profileResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/profile [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	view, err := h.authService.GetProfile(c.Request().Context(), claims)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toProfileResponse(view))
}

// Update replaces every editable field of the token's account. Profile
// fields missing from the body are cleared; name and email must be present
// because the email is the account key.
//
// @Summary      Replace own profile
// @Description  Overwrites name, email and every profile attribute. Omitted attributes become null. Name and email are required (400 otherwise) since clearing the email would detach the account from its login.
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateProfileRequest  true  "Full profile"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/profile [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err = h.authService.UpdateProfile(c.Request().Context(), claims, ports.UpdateProfileInput{
		Name:    req.Name,
		Email:   req.Email,
		Profile: req.Profile,
	})
	if err != nil {
		return err
	}
	metrics.ProfileUpdatesTotal.WithLabelValues("replace").Inc()

	return c.JSON(http.StatusOK, messageResponse{
		Success: true,
		Message: "Profile updated successfully",
	})
}

// Patch writes only the fields present in the body.
//
// @Summary      Partially update own profile
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      patchProfileRequest  true  "Fields to change"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      500   {object}  map[string]string
// @Router       /api/profile [patch]
func (h *ProfileHandler) Patch(c echo.Context) error {
	claims, err := ctxClaims(c)
	if err != nil {
		return err
	}

	var req patchProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	err = h.authService.PatchProfile(c.Request().Context(), claims, domain.ProfilePatch{
		Name:    req.Name,
		Email:   req.Email,
		Profile: req.Profile,
	})
	if err != nil {
		return err
	}
	metrics.ProfileUpdatesTotal.WithLabelValues("patch").Inc()

	return c.JSON(http.StatusOK, messageResponse{
		Success: true,
		Message: "Profile updated successfully",
	})
}
