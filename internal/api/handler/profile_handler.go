package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hastakala/hastakala-api/internal/core/domain"
	"github.com/hastakala/hastakala-api/internal/core/ports"
)

// ProfileHandler serves the caller's own profile and public profiles.
type ProfileHandler struct {
	service ports.ProfileService
}

func NewProfileHandler(service ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

type profilePatchRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty" validate:"omitempty,email"`
	Bio   *string `json:"bio,omitempty"`
}

// Me handles GET /users/me.
//
// @Summary      Current user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  errorResponse
// @Router       /users/me [get]
func (h *ProfileHandler) Me(c echo.Context) error {
	who, err := callerOf(c)
	if err != nil {
		return err
	}
	u, err := h.service.Me(c.Request().Context(), who)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

// Update handles PUT /users/me.
//
// @Summary      Edit the current user's profile
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profilePatchRequest  true  "Fields to change"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /users/me [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	who, err := callerOf(c)
	if err != nil {
		return err
	}
	var req profilePatchRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	u, err := h.service.Update(c.Request().Context(), who, domain.UserPatch{Name: req.Name, Email: req.Email, Bio: req.Bio})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

// UploadImage handles POST /users/me/image.
//
// @Summary      Replace the profile image
// @Tags         users
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        image  formData  file  true  "JPEG, PNG, GIF or WebP, at most 5 MB"
// @Success      200  {object}  domain.User
// @Failure      400  {object}  errorResponse
// @Router       /users/me/image [post]
func (h *ProfileHandler) UploadImage(c echo.Context) error {
	who, err := callerOf(c)
	if err != nil {
		return err
	}
	image, closeImage, err := formUpload(c, "image")
	if err != nil {
		return err
	}
	defer closeImage()

	u, err := h.service.UploadImage(c.Request().Context(), who, image)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

// DeleteImage handles DELETE /users/me/image.
//
// @Summary      Remove the profile image
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Router       /users/me/image [delete]
func (h *ProfileHandler) DeleteImage(c echo.Context) error {
	who, err := callerOf(c)
	if err != nil {
		return err
	}
	u, err := h.service.DeleteImage(c.Request().Context(), who)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

// Public handles GET /users/:id.
//
// @Summary      Public profile
// @Tags         users
// @Produce      json
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  domain.PublicProfile
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [get]
func (h *ProfileHandler) Public(c echo.Context) error {
	p, err := h.service.Public(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}
