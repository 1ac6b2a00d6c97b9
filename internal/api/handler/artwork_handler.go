package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hastakala/hastakala-api/internal/core/domain"
	"github.com/hastakala/hastakala-api/internal/core/ports"
)

// ArtworkHandler handles the artwork catalogue.
type ArtworkHandler struct {
	service ports.ArtworkService
}

func NewArtworkHandler(service ports.ArtworkService) *ArtworkHandler {
	return &ArtworkHandler{service: service}
}

type artworkListResponse struct {
	Items []*domain.Artwork `json:"items"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// Create handles POST /artworks.
//
// @Summary      List a new artwork
// @Tags         artworks
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title        formData  string  true   "Title"
// @Param        price        formData  string  true   "Price, e.g. Rs. 1000"
// @Param        description  formData  string  false  "Description"
// @Param        category     formData  string  false  "Category"
// @Param        quantity     formData  int     false  "Units in stock (default 1)"
// @Param        image        formData  file    true   "JPEG, PNG, GIF or WebP, at most 10 MB"
// @Success      201  {object}  domain.Artwork
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /artworks [post]
func (h *ArtworkHandler) Create(c echo.Context) error {
	who, err := callerOf(c)
	if err != nil {
		return err
	}
	form, err := formValues(c)
	if err != nil {
		return err
	}
	qty, err := formInt(form, "quantity")
	if err != nil {
		return err
	}
	draft := domain.ArtworkDraft{
		Title:       value(formString(form, "title")),
		Description: value(formString(form, "description")),
		Price:       value(formString(form, "price")),
		Category:    value(formString(form, "category")),
		Quantity:    1,
	}
	if qty != nil {
		draft.Quantity = *qty
	}

	image, closeImage, err := formUpload(c, "image")
	if err != nil {
		return err
	}
	defer closeImage()

	a, err := h.service.Create(c.Request().Context(), who, draft, image)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

// List handles GET /artworks.
//
// @Summary      Browse artworks
// @Tags         artworks
// @Produce      json
// @Param        search    query  string  false  "Case-insensitive text in title, description or category"
// @Param        category  query  string  false  "Exact category"
// @Param        artist    query  string  false  "Artist id"
// @Param        page      query  int     false  "Page (1-based)"
// @Param        limit     query  int     false  "Page size (max 100)"
// @Success      200  {object}  artworkListResponse
// @Router       /artworks [get]
func (h *ArtworkHandler) List(c echo.Context) error {
	page := pageOf(c)
	items, total, err := h.service.List(c.Request().Context(), domain.ArtworkFilter{
		Search:   c.QueryParam("search"),
		Category: c.QueryParam("category"),
		ArtistID: c.QueryParam("artist"),
		Page:     page.Page,
		Limit:    page.Limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, artworkListResponse{Items: items, Total: total, Page: page.Page, Limit: page.Limit})
}

// Get handles GET /artworks/:id.
//
// @Summary      Get an artwork
// @Tags         artworks
// @Produce      json
// @Param        id   path      string  true  "Artwork id"
// @Success      200  {object}  domain.Artwork
// @Failure      404  {object}  errorResponse
// @Router       /artworks/{id} [get]
func (h *ArtworkHandler) Get(c echo.Context) error {
	a, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

// Update handles PUT /artworks/:id. Fields left out keep their value.
//
// @Summary      Update an artwork
// @Tags         artworks
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id           path      string  true   "Artwork id"
// @Param        title        formData  string  false  "Title"
// @Param        price        formData  string  false  "Price"
// @Param        description  formData  string  false  "Description"
// @Param        category     formData  string  false  "Category"
// @Param        quantity     formData  int     false  "Units in stock"
// @Param        image        formData  file    false  "Replacement image"
// @Success      200  {object}  domain.Artwork
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /artworks/{id} [put]
func (h *ArtworkHandler) Update(c echo.Context) error {
	who, err := callerOf(c)
	if err != nil {
		return err
	}
	form, err := formValues(c)
	if err != nil {
		return err
	}
	qty, err := formInt(form, "quantity")
	if err != nil {
		return err
	}
	patch := domain.ArtworkPatch{
		Title:       formString(form, "title"),
		Description: formString(form, "description"),
		Price:       formString(form, "price"),
		Category:    formString(form, "category"),
		Quantity:    qty,
	}

	image, closeImage, err := formUpload(c, "image")
	if err != nil {
		return err
	}
	defer closeImage()

	a, err := h.service.Update(c.Request().Context(), who, c.Param("id"), patch, image)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

// Delete handles DELETE /artworks/:id.
//
// @Summary      Delete an artwork
// @Tags         artworks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Artwork id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /artworks/{id} [delete]
func (h *ArtworkHandler) Delete(c echo.Context) error {
	who, err := callerOf(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), who, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "artwork deleted"})
}
