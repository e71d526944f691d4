package upload

import (
	"errors"
	"fmt"
	"strings"

	"github.com/guaraci/paylink-gateway/internal/model"
)

// Multipart field names of the public submit contract.
const (
	FieldCardPhoto = "fotoCartao"
	FieldSelfie    = "selfieDocumento"
)

// MaxFileSize caps a single uploaded image. The total request size is capped
// separately by the HTTP layer.
const MaxFileSize = 5 << 20

var (
	ErrUnsupportedMediaType    = errors.New("only images are allowed")
	ErrPayloadTooLarge         = errors.New("image exceeds the 5 MiB limit")
	ErrMissingOrDuplicateField = errors.New("exactly one file is required per field")
)

// Validate checks the already-buffered uploads against the submit contract:
// one file under each required field, declared type image/*, at most 5 MiB
// each. Pure; it never reads beyond the buffers it is given.
func Validate(files map[string][]model.UploadedFile) (map[string]model.UploadedFile, error) {
	out := make(map[string]model.UploadedFile, 2)
	for _, field := range []string{FieldCardPhoto, FieldSelfie} {
		fs := files[field]
		if len(fs) != 1 {
			return nil, fmt.Errorf("%w: field %q has %d files", ErrMissingOrDuplicateField, field, len(fs))
		}
		f := fs[0]
		if !strings.HasPrefix(f.ContentType, "image/") {
			return nil, fmt.Errorf("%w: field %q declared %q", ErrUnsupportedMediaType, field, f.ContentType)
		}
		if f.Size > MaxFileSize {
			return nil, fmt.Errorf("%w: field %q is %d bytes", ErrPayloadTooLarge, field, f.Size)
		}
		out[field] = f
	}
	return out, nil
}
