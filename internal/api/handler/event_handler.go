package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hastakala/hastakala-api/internal/core/domain"
	"github.com/hastakala/hastakala-api/internal/core/ports"
)

// EventHandler handles the event board.
type EventHandler struct {
	service ports.EventService
	now     func() time.Time
}

func NewEventHandler(service ports.EventService) *EventHandler {
	return &EventHandler{service: service, now: time.Now}
}

type eventListResponse struct {
	Items []*domain.Event `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func formTime(raw *string, key string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, strings.TrimSpace(*raw))
	if err != nil {
		return nil, domain.Invalid("%s must be an RFC3339 timestamp", key)
	}
	return &t, nil
}

// Create handles POST /events.
//
// @Summary      Announce an event
// @Tags         events
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        title        formData  string  true   "Title"
// @Param        location     formData  string  true   "Location"
// @Param        startsAt     formData  string  true   "Start time (RFC3339)"
// @Param        description  formData  string  false  "Description"
// @Param        image        formData  file    false  "JPEG, PNG, GIF or WebP, at most 5 MB"
// @Success      201  {object}  domain.Event
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /events [post]
func (h *EventHandler) Create(c echo.Context) error {
	who, err := callerOf(c)
	if err != nil {
		return err
	}
	form, err := formValues(c)
	if err != nil {
		return err
	}
	startsAt, err := formTime(formString(form, "startsAt"), "startsAt")
	if err != nil {
		return err
	}
	draft := domain.EventDraft{
		Title:       value(formString(form, "title")),
		Description: value(formString(form, "description")),
		Location:    value(formString(form, "location")),
	}
	if startsAt != nil {
		draft.StartsAt = *startsAt
	}

	image, closeImage, err := formUpload(c, "image")
	if err != nil {
		return err
	}
	defer closeImage()

	ev, err := h.service.Create(c.Request().Context(), who, draft, image)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, ev)
}

// List handles GET /events.
//
// @Summary      Browse events
// @Tags         events
// @Produce      json
// @Param        search    query  string  false  "Case-insensitive text in title, description or location"
// @Param        upcoming  query  bool    false  "Only events that have not started yet"
// @Param        page      query  int     false  "Page (1-based)"
// @Param        limit     query  int     false  "Page size (max 100)"
// @Success      200  {object}  eventListResponse
// @Router       /events [get]
func (h *EventHandler) List(c echo.Context) error {
	page := pageOf(c)
	filter := domain.EventFilter{
		Search: c.QueryParam("search"),
		Page:   page.Page,
		Limit:  page.Limit,
	}
	if upcoming, _ := strconv.ParseBool(c.QueryParam("upcoming")); upcoming {
		filter.After = h.now().UTC()
	}

	items, total, err := h.service.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, eventListResponse{Items: items, Total: total, Page: page.Page, Limit: page.Limit})
}

// Get handles GET /events/:id.
//
// @Summary      Get an event
// @Tags         events
// @Produce      json
// @Param        id   path      string  true  "Event id"
// @Success      200  {object}  domain.Event
// @Failure      404  {object}  errorResponse
// @Router       /events/{id} [get]
func (h *EventHandler) Get(c echo.Context) error {
	ev, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ev)
}

// Update handles PUT /events/:id.
//
// @Summary      Update an event
// @Tags         events
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id           path      string  true   "Event id"
// @Param        title        formData  string  false  "Title"
// @Param        location     formData  string  false  "Location"
// @Param        startsAt     formData  string  false  "Start time (RFC3339)"
// @Param        description  formData  string  false  "Description"
// @Param        image        formData  file    false  "Replacement image"
// @Success      200  {object}  domain.Event
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /events/{id} [put]
func (h *EventHandler) Update(c echo.Context) error {
	who, err := callerOf(c)
	if err != nil {
		return err
	}
	form, err := formValues(c)
	if err != nil {
		return err
	}
	startsAt, err := formTime(formString(form, "startsAt"), "startsAt")
	if err != nil {
		return err
	}
	patch := domain.EventPatch{
		Title:       formString(form, "title"),
		Description: formString(form, "description"),
		Location:    formString(form, "location"),
		StartsAt:    startsAt,
	}

	image, closeImage, err := formUpload(c, "image")
	if err != nil {
		return err
	}
	defer closeImage()

	ev, err := h.service.Update(c.Request().Context(), who, c.Param("id"), patch, image)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ev)
}

// Delete handles DELETE /events/:id.
//
// @Summary      Delete an event
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Event id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /events/{id} [delete]
func (h *EventHandler) Delete(c echo.Context) error {
	who, err := callerOf(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), who, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "event deleted"})
}
