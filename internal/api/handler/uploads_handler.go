package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hastakala/hastakala-api/internal/core/domain"
	"github.com/hastakala/hastakala-api/internal/core/ports"
)

var errFileNotFound = fmt.Errorf("file %w", domain.ErrNotFound)

// servedTypes are the only content types handed back to browsers. Anything
// else in the store is reported as missing.
var servedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// UploadsHandler streams stored images back to clients.
type UploadsHandler struct {
	files ports.ContentStore
}

func NewUploadsHandler(files ports.ContentStore) *UploadsHandler {
	return &UploadsHandler{files: files}
}

// Serve handles GET /uploads/*.
//
// @Summary      Download an uploaded image
// @Tags         uploads
// @Produce      octet-stream
// @Param        path  path  string  true  "Path below /uploads/"
// @Success      200
// @Failure      404  {object}  errorResponse
// @Router       /uploads/{path} [get]
func (h *UploadsHandler) Serve(c echo.Context) error {
	body, contentType, err := h.files.Open(c.Request().Context(), c.Request().URL.Path)
	if errors.Is(err, ports.ErrObjectNotFound) {
		return errFileNotFound
	}
	if err != nil {
		return domain.StorageFailure("open upload", err)
	}
	defer body.Close()

	mt, _, _ := strings.Cut(contentType, ";")
	mt = strings.ToLower(strings.TrimSpace(mt))
	if !servedTypes[mt] {
		return errFileNotFound
	}

	hdr := c.Response().Header()
	hdr.Set("Cache-Control", "public, max-age=86400")
	hdr.Set(echo.HeaderXContentTypeOptions, "nosniff")
	return c.Stream(http.StatusOK, mt, body)
}
