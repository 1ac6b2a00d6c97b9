package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math/big"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hastakala/hastakala-api/internal/api/metrics"
	"github.com/hastakala/hastakala-api/internal/core/domain"
	"github.com/hastakala/hastakala-api/internal/core/ports"
)

// imageTypes maps the accepted content types to their extensions. The first
// extension is canonical.
var imageTypes = map[string][]string{
	"image/jpeg": {".jpg", ".jpeg"},
	"image/png":  {".png"},
	"image/gif":  {".gif"},
	"image/webp": {".webp"},
}

// uploadPolicy bounds what may be uploaded for one resource kind.
type uploadPolicy struct {
	kind     string
	maxBytes int64
}

var (
	artworkImages = uploadPolicy{kind: "artwork", maxBytes: 10 << 20}
	eventImages   = uploadPolicy{kind: "event", maxBytes: 5 << 20}
	profileImages = uploadPolicy{kind: "profile", maxBytes: 5 << 20}
)

func (p uploadPolicy) check(up *domain.Upload) error {
	if up == nil || up.Body == nil {
		return domain.Invalid("%s image is required", p.kind)
	}
	if _, ok := imageTypes[mediaType(up.ContentType)]; !ok {
		return domain.Invalid("unsupported file type %q: only JPEG, PNG, GIF and WebP images are allowed", up.ContentType)
	}
	if up.Size > p.maxBytes {
		return domain.Invalid("file too large: the limit is %d MB", p.maxBytes>>20)
	}
	return nil
}

// objectKey names a new file <kind>/<kind>-<unix ms>-<random><ext>. The
// random part makes collisions between concurrent uploads negligible. The
// client's extension is kept only when it matches the declared image type.
func (p uploadPolicy) objectKey(up *domain.Upload, now time.Time) string {
	return fmt.Sprintf("%s/%s-%d-%d%s", p.kind, p.kind, now.UnixMilli(), randomSuffix(), imageExt(up))
}

func imageExt(up *domain.Upload) string {
	exts := imageTypes[mediaType(up.ContentType)]
	if len(exts) == 0 {
		return ""
	}
	ext := strings.ToLower(filepath.Ext(up.Filename))
	if slices.Contains(exts, ext) {
		return ext
	}
	return exts[0]
}

func mediaType(contentType string) string {
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}

func randomSuffix() int64 {
	n, err := rand.Int(rand.Reader, big.NewInt(1e9))
	if err != nil {
		return time.Now().UnixNano() % 1e9
	}
	return n.Int64()
}

// limitedReader fails once more than limit bytes have been read, so a client
// understating Size cannot push past the policy ceiling.
type limitedReader struct {
	r     io.Reader
	left  int64
	limit int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.left < 0 {
		return 0, domain.Invalid("file too large: the limit is %d MB", l.limit>>20)
	}
	if int64(len(p)) > l.left+1 {
		p = p[:l.left+1]
	}
	n, err := l.r.Read(p)
	l.left -= int64(n)
	if l.left < 0 {
		return n, domain.Invalid("file too large: the limit is %d MB", l.limit>>20)
	}
	return n, err
}

// uploader runs the upload-then-record saga against a content store.
type uploader struct {
	files ports.ContentStore
	log   zerolog.Logger
	now   func() time.Time
}

func newUploader(files ports.ContentStore, log zerolog.Logger) uploader {
	return uploader{files: files, log: log, now: time.Now}
}

func (u uploader) write(ctx context.Context, p uploadPolicy, up *domain.Upload) (string, error) {
	body := &limitedReader{r: up.Body, left: p.maxBytes, limit: p.maxBytes}
	path, err := u.files.Write(ctx, p.objectKey(up, u.now()), body, mediaType(up.ContentType))
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			return "", err
		}
		return "", domain.StorageFailure("write file", err)
	}
	return path, nil
}

// remove deletes a stored file. Files that are already gone count as removed;
// other failures are logged and leave an orphan behind.
func (u uploader) remove(ctx context.Context, path string) {
	if path == "" || u.files == nil {
		return
	}
	err := u.files.Delete(ctx, path)
	if err == nil || errors.Is(err, ports.ErrObjectNotFound) {
		return
	}
	metrics.OrphanCleanupFailuresTotal.Inc()
	u.log.Warn().Err(err).Str("path", path).Msg("failed to delete file")
}

// create runs check_file → write_file → check_metadata → persist. When up is
// nil and the file is optional the file steps are skipped. Any failure after
// write_file deletes the written file before the error is returned.
func (u uploader) create(
	ctx context.Context,
	sagaName string,
	p uploadPolicy,
	up *domain.Upload,
	optional bool,
	validate func() error,
	persist func(ctx context.Context, path string) error,
) error {
	skipFile := up == nil && optional
	var path string

	err := newSaga(sagaName, u.log).
		step("check_file", func(context.Context) error {
			if skipFile {
				return nil
			}
			return p.check(up)
		}, nil).
		step("write_file", func(ctx context.Context) error {
			if skipFile {
				return nil
			}
			var err error
			path, err = u.write(ctx, p, up)
			return err
		}, func(ctx context.Context) {
			u.remove(ctx, path)
		}).
		step("check_metadata", func(context.Context) error {
			return validate()
		}, nil).
		step("persist", func(ctx context.Context) error {
			return persist(ctx, path)
		}, nil).
		run(ctx)

	if !skipFile {
		recordUpload(p.kind, err)
	}
	return err
}

// replace writes a new file for an existing record. oldPath is deleted only
// after persist succeeded, so the record never points at a deleted file.
func (u uploader) replace(
	ctx context.Context,
	sagaName string,
	p uploadPolicy,
	up *domain.Upload,
	oldPath string,
	persist func(ctx context.Context, path string) error,
) error {
	var path string

	err := newSaga(sagaName, u.log).
		step("check_file", func(context.Context) error {
			return p.check(up)
		}, nil).
		step("write_file", func(ctx context.Context) error {
			var err error
			path, err = u.write(ctx, p, up)
			return err
		}, func(ctx context.Context) {
			u.remove(ctx, path)
		}).
		step("persist", func(ctx context.Context) error {
			return persist(ctx, path)
		}, nil).
		run(ctx)

	recordUpload(p.kind, err)
	if err != nil {
		return err
	}
	if oldPath != path {
		u.remove(context.WithoutCancel(ctx), oldPath)
	}
	return nil
}

func recordUpload(kind string, err error) {
	result := "stored"
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrValidation):
		result = "rejected"
	default:
		result = "failed"
	}
	metrics.UploadsTotal.WithLabelValues(kind, result).Inc()
}
