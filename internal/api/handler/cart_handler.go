package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hastakala/hastakala-api/internal/core/ports"
)

// CartHandler serves the caller's cart and checkout.
type CartHandler struct {
	service ports.CartService
}

func NewCartHandler(service ports.CartService) *CartHandler {
	return &CartHandler{service: service}
}

type cartItemRequest struct {
	ArtworkID string `json:"artworkId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"min=1"`
}

// Get handles GET /cart.
//
// @Summary      Current cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Cart
// @Router       /cart [get]
func (h *CartHandler) Get(c echo.Context) error {
	who, err := callerOf(c)
	if err != nil {
		return err
	}
	cart, err := h.service.Get(c.Request().Context(), who)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

// AddItem handles POST /cart/items.
//
// @Summary      Add an artwork to the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      cartItemRequest  true  "Item"
// @Success      200   {object}  domain.Cart
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /cart/items [post]
func (h *CartHandler) AddItem(c echo.Context) error {
	who, err := callerOf(c)
	if err != nil {
		return err
	}
	req := cartItemRequest{Quantity: 1}
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	cart, err := h.service.AddItem(c.Request().Context(), who, req.ArtworkID, req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

// RemoveItem handles DELETE /cart/items/:artworkId.
//
// @Summary      Remove an artwork from the cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Param        artworkId  path      string  true  "Artwork id"
// @Success      200        {object}  domain.Cart
// @Failure      404        {object}  errorResponse
// @Router       /cart/items/{artworkId} [delete]
func (h *CartHandler) RemoveItem(c echo.Context) error {
	who, err := callerOf(c)
	if err != nil {
		return err
	}
	cart, err := h.service.RemoveItem(c.Request().Context(), who, c.Param("artworkId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}

// Checkout handles POST /cart/checkout: stock is taken for every item and
// the cart is marked paid, or nothing changes.
//
// @Summary      Pay for the cart
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Cart
// @Failure      400  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /cart/checkout [post]
func (h *CartHandler) Checkout(c echo.Context) error {
	who, err := callerOf(c)
	if err != nil {
		return err
	}
	cart, err := h.service.Checkout(c.Request().Context(), who)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cart)
}
