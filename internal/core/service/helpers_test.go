package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/hastakala/hastakala-api/internal/core/domain"
	"github.com/hastakala/hastakala-api/internal/core/ports"
	"github.com/hastakala/hastakala-api/internal/infrastructure/db/memory"
)

var testLog = zerolog.Nop()

// memFiles is a ContentStore held in a map, with switchable failures.
type memFiles struct {
	mu         sync.Mutex
	objects    map[string][]byte
	writes     int
	failWrite  error
	failDelete error
}

func newMemFiles() *memFiles {
	return &memFiles{objects: make(map[string][]byte)}
}

func (m *memFiles) Write(_ context.Context, key string, r io.Reader, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.writes++
	if m.failWrite != nil {
		return "", m.failWrite
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	path := "/uploads/" + key
	if _, exists := m.objects[path]; exists {
		return "", fmt.Errorf("object %s exists", path)
	}
	m.objects[path] = body
	return path, nil
}

func (m *memFiles) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failDelete != nil {
		return m.failDelete
	}
	if _, ok := m.objects[path]; !ok {
		return ports.ErrObjectNotFound
	}
	delete(m.objects, path)
	return nil
}

func (m *memFiles) Exists(_ context.Context, path string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[path]
	return ok, nil
}

func (m *memFiles) Open(_ context.Context, path string) (io.ReadCloser, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[path]
	if !ok {
		return nil, "", ports.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(b)), "application/octet-stream", nil
}

func (m *memFiles) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

func jpeg(name string) *domain.Upload {
	body := "\xff\xd8\xff fake jpeg"
	return &domain.Upload{
		Filename:    name,
		ContentType: "image/jpeg",
		Size:        int64(len(body)),
		Body:        strings.NewReader(body),
	}
}

// recordingNotifier captures notices instead of storing them.
type recordingNotifier struct {
	mu        sync.Mutex
	notices   []domain.Notice
	broadcast []domain.Notice
}

func (r *recordingNotifier) Notify(_ context.Context, n domain.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recordingNotifier) Broadcast(_ context.Context, n domain.Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.broadcast = append(r.broadcast, n)
}

var errDiskFull = errors.New("disk full")

// failingArtworks fails Create, or DecrementStock for one artwork id.
type failingArtworks struct {
	*memory.ArtworkRepository
	createErr     error
	decrementFail string
}

func (f *failingArtworks) Create(ctx context.Context, a *domain.Artwork) error {
	if f.createErr != nil {
		return f.createErr
	}
	return f.ArtworkRepository.Create(ctx, a)
}

func (f *failingArtworks) DecrementStock(ctx context.Context, id string, n int) error {
	if id == f.decrementFail {
		return errDiskFull
	}
	return f.ArtworkRepository.DecrementStock(ctx, id, n)
}

var (
	artist  = domain.Identity{SubjectID: "artist-1", Role: domain.RoleArtist}
	artist2 = domain.Identity{SubjectID: "artist-2", Role: domain.RoleArtist}
	buyer   = domain.Identity{SubjectID: "buyer-1", Role: domain.RoleNormalUser}
	admin   = domain.Identity{SubjectID: "admin-1", Role: domain.RoleAdmin}
)
