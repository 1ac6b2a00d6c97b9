package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hastakala/hastakala-api/internal/api/middleware"
	"github.com/hastakala/hastakala-api/internal/core/domain"
)

// callerOf returns the identity injected by the Auth middleware. Handlers
// mounted behind Auth can rely on it; the check guards against misrouting.
func callerOf(c echo.Context) (domain.Identity, error) {
	who, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.Identity{}, domain.ErrMissingToken
	}
	return who, nil
}

type messageResponse struct {
	Message string `json:"message"`
}

// pageOf reads ?page= and ?limit=. Unparseable values fall back to defaults.
func pageOf(c echo.Context) domain.Page {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return domain.Page{Page: page, Limit: limit}.Clamp()
}

// bindJSON decodes and validates a JSON request body.
func bindJSON(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return domain.Invalid("invalid payload")
	}
	if c.Echo().Validator != nil {
		if err := c.Validate(dst); err != nil {
			return err
		}
	}
	return nil
}

// formValues parses a multipart or url-encoded body.
func formValues(c echo.Context) (url.Values, error) {
	form, err := c.FormParams()
	if err != nil {
		return nil, domain.Invalid("invalid form payload")
	}
	return form, nil
}

// formString returns a pointer to the field's value, or nil when it was not sent.
func formString(form url.Values, key string) *string {
	vs, ok := form[key]
	if !ok || len(vs) == 0 {
		return nil
	}
	v := vs[0]
	return &v
}

func formInt(form url.Values, key string) (*int, error) {
	s := formString(form, key)
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(*s))
	if err != nil {
		return nil, domain.Invalid("%s must be a whole number", key)
	}
	return &n, nil
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// formUpload opens the multipart file in field. A missing file yields a nil
// upload; whether that is acceptable is up to the service. The returned
// func closes the file and is never nil.
func formUpload(c echo.Context, field string) (*domain.Upload, func(), error) {
	noop := func() {}
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, noop, nil
	}
	if err != nil {
		return nil, noop, domain.Invalid("invalid multipart form")
	}
	return openUpload(fh)
}

func openUpload(fh *multipart.FileHeader) (*domain.Upload, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, domain.Invalid("unreadable file %q", fh.Filename)
	}
	return &domain.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	}, func() { _ = f.Close() }, nil
}
