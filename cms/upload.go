package cms

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"path/filepath"

	"github.com/getwebfast/site-backend/errs"
	"github.com/getwebfast/site-backend/storage"
	_ "golang.org/x/image/webp"
)

// MaxUploadSize is the largest image the admin panel may upload.
const MaxUploadSize = 10 << 20 // 10MB

var allowedImageTypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp"}

// UploadImage stores an image under a fresh key and returns its public URL.
// The body must decode as png, jpeg, gif or webp; the declared content type
// is ignored in favour of what the bytes say.
func (r *Repository) UploadImage(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	if r.bucket == nil {
		return "", errs.NewServiceUnavailableError("storage", nil)
	}

	data, err := io.ReadAll(io.LimitReader(body, MaxUploadSize+1))
	if err != nil {
		return "", errs.NewBadRequestError("failed to read upload")
	}
	if len(data) > MaxUploadSize {
		return "", errs.NewMaxBodySizeExceededError(MaxUploadSize)
	}
	if len(data) == 0 {
		return "", errs.NewMissingRequiredFieldError("file")
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		r.logger.Warn().Err(err).Str("filename", filename).Str("declaredType", contentType).Msg("Rejected upload that is not an image")
		return "", errs.NewUnsupportedMediaTypeError(contentType, allowedImageTypes)
	}

	name := filename
	if filepath.Ext(name) == "" {
		name += "." + format
	}
	key := storage.NewObjectKey(name)
	sniffed := "image/" + format

	if err := r.bucket.Put(ctx, key, sniffed, bytes.NewReader(data)); err != nil {
		r.logger.Error().Err(err).Str("key", key).Msg("Failed to store upload")
		return "", errs.NewStorageError("upload", err)
	}

	url := r.bucket.PublicURL(key)
	r.logger.Info().Str("key", key).Str("type", sniffed).Int("bytes", len(data)).Msg("Stored upload")
	return url, nil
}
