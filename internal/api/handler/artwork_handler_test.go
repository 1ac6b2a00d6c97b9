package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/hastakala/hastakala-api/internal/core/domain"
)

type stubArtworkService struct {
	createFn func(ctx context.Context, who domain.Identity, draft domain.ArtworkDraft, image *domain.Upload) (*domain.Artwork, error)
	listFn   func(ctx context.Context, filter domain.ArtworkFilter) ([]*domain.Artwork, int64, error)
	updateFn func(ctx context.Context, who domain.Identity, id string, patch domain.ArtworkPatch, image *domain.Upload) (*domain.Artwork, error)
	deleteFn func(ctx context.Context, who domain.Identity, id string) error
}

func (s *stubArtworkService) Create(ctx context.Context, who domain.Identity, draft domain.ArtworkDraft, image *domain.Upload) (*domain.Artwork, error) {
	return s.createFn(ctx, who, draft, image)
}

func (s *stubArtworkService) Get(ctx context.Context, id string) (*domain.Artwork, error) {
	return nil, domain.ErrArtworkNotFound
}

func (s *stubArtworkService) List(ctx context.Context, filter domain.ArtworkFilter) ([]*domain.Artwork, int64, error) {
	return s.listFn(ctx, filter)
}

func (s *stubArtworkService) Update(ctx context.Context, who domain.Identity, id string, patch domain.ArtworkPatch, image *domain.Upload) (*domain.Artwork, error) {
	return s.updateFn(ctx, who, id, patch, image)
}

func (s *stubArtworkService) Delete(ctx context.Context, who domain.Identity, id string) error {
	return s.deleteFn(ctx, who, id)
}

// multipartRequest builds a multipart body with the given fields and, when
// fileName is non-empty, an "image" part of the given content type.
func multipartRequest(e *echo.Echo, method, target string, fields map[string]string, fileName, fileType string, file []byte) (echo.Context, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		_ = w.WriteField(k, v)
	}
	if fileName != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename="`+fileName+`"`)
		h.Set("Content-Type", fileType)
		part, _ := w.CreatePart(h)
		_, _ = part.Write(file)
	}
	_ = w.Close()

	req := httptest.NewRequest(method, target, &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestArtworkHandler_Create_PassesFormAndFile(t *testing.T) {
	e := newEcho()
	stub := &stubArtworkService{
		createFn: func(ctx context.Context, who domain.Identity, draft domain.ArtworkDraft, image *domain.Upload) (*domain.Artwork, error) {
			if who.SubjectID != "artist-1" {
				t.Fatalf("unexpected caller: %+v", who)
			}
			if draft.Title != "Sunset" || draft.Price != "Rs. 1000" || draft.Quantity != 3 {
				t.Fatalf("unexpected draft: %+v", draft)
			}
			if image == nil || image.Filename != "sunset.jpg" || image.ContentType != "image/jpeg" || image.Size != 4 {
				t.Fatalf("unexpected upload: %+v", image)
			}
			data, _ := io.ReadAll(image.Body)
			if string(data) != "JPEG" {
				t.Fatalf("unexpected body %q", data)
			}
			return &domain.Artwork{ID: "a1", Title: draft.Title, ImageURL: "/uploads/artwork/x.jpg"}, nil
		},
	}

	c, rec := multipartRequest(e, http.MethodPost, "/artworks",
		map[string]string{"title": "Sunset", "price": "Rs. 1000", "quantity": "3"},
		"sunset.jpg", "image/jpeg", []byte("JPEG"))
	asUser(c, "artist-1", domain.RoleArtist)

	if err := NewArtworkHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestArtworkHandler_Create_DefaultsQuantityAndAllowsMissingImage(t *testing.T) {
	e := newEcho()
	stub := &stubArtworkService{
		createFn: func(ctx context.Context, who domain.Identity, draft domain.ArtworkDraft, image *domain.Upload) (*domain.Artwork, error) {
			if draft.Quantity != 1 {
				t.Fatalf("expected default quantity 1, got %d", draft.Quantity)
			}
			if image != nil {
				t.Fatalf("expected no upload")
			}
			return nil, domain.Invalid("artwork image is required")
		},
	}
	c, _ := multipartRequest(e, http.MethodPost, "/artworks", map[string]string{"title": "T", "price": "1"}, "", "", nil)
	asUser(c, "artist-1", domain.RoleArtist)

	if err := NewArtworkHandler(stub).Create(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error from service, got %v", err)
	}
}

func TestArtworkHandler_Create_BadQuantity(t *testing.T) {
	e := newEcho()
	stub := &stubArtworkService{
		createFn: func(ctx context.Context, who domain.Identity, draft domain.ArtworkDraft, image *domain.Upload) (*domain.Artwork, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	c, _ := multipartRequest(e, http.MethodPost, "/artworks", map[string]string{"title": "T", "price": "1", "quantity": "many"}, "", "", nil)
	asUser(c, "artist-1", domain.RoleArtist)

	if err := NewArtworkHandler(stub).Create(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestArtworkHandler_Update_OnlySentFields(t *testing.T) {
	e := newEcho()
	stub := &stubArtworkService{
		updateFn: func(ctx context.Context, who domain.Identity, id string, patch domain.ArtworkPatch, image *domain.Upload) (*domain.Artwork, error) {
			if id != "a1" {
				t.Fatalf("unexpected id %q", id)
			}
			if patch.Title == nil || *patch.Title != "New" {
				t.Fatalf("expected title in patch: %+v", patch)
			}
			if patch.Price != nil || patch.Description != nil || patch.Quantity != nil {
				t.Fatalf("unsent fields must stay nil: %+v", patch)
			}
			return &domain.Artwork{ID: id, Title: *patch.Title}, nil
		},
	}
	c, rec := multipartRequest(e, http.MethodPut, "/artworks/a1", map[string]string{"title": "New"}, "", "", nil)
	c.SetParamNames("id")
	c.SetParamValues("a1")
	asUser(c, "artist-1", domain.RoleArtist)

	if err := NewArtworkHandler(stub).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestArtworkHandler_List_ReadsQuery(t *testing.T) {
	e := newEcho()
	stub := &stubArtworkService{
		listFn: func(ctx context.Context, f domain.ArtworkFilter) ([]*domain.Artwork, int64, error) {
			if f.Search != "sun" || f.Category != "painting" || f.ArtistID != "u9" || f.Page != 2 || f.Limit != 100 {
				t.Fatalf("unexpected filter: %+v", f)
			}
			return []*domain.Artwork{{ID: "a1"}}, 21, nil
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/artworks?search=sun&category=painting&artist=u9&page=2&limit=500", nil)
	rec := httptest.NewRecorder()

	if err := NewArtworkHandler(stub).List(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestArtworkHandler_Delete_PropagatesForbidden(t *testing.T) {
	e := newEcho()
	stub := &stubArtworkService{
		deleteFn: func(ctx context.Context, who domain.Identity, id string) error {
			return domain.ErrForbidden
		},
	}
	req := httptest.NewRequest(http.MethodDelete, "/artworks/a1", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	asUser(c, "someone", domain.RoleArtist)

	if err := NewArtworkHandler(stub).Delete(c); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}
