// Package picker selects a local image file and validates it before the
// uploader sees it.
package picker

import (
	"errors"
	"fmt"
	"image"
	"io"
	"mime"
	"os"
	"path/filepath"
	"slices"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/dmitrijs2005/imgdrop/internal/filex"
	"github.com/dmitrijs2005/imgdrop/internal/uploader"
	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrNotRegularFile = errors.New("not a regular file")
	ErrEmptyFile      = errors.New("file is empty")
)

// MediaTypeMismatchError reports a file whose sniffed type does not match
// the requested pattern.
type MediaTypeMismatchError struct {
	Want string
	Got  string
}

func (e *MediaTypeMismatchError) Error() string {
	return fmt.Sprintf("content type %s does not match %s", e.Got, e.Want)
}

// SupportedImageTypes are the image formats whose headers can be decoded.
var SupportedImageTypes = []string{"image/gif", "image/jpeg", "image/png"}

// UnsupportedImageError reports an image the uploader cannot handle, such
// as WebP, HEIC or SVG.
type UnsupportedImageError struct {
	Got string
}

func (e *UnsupportedImageError) Error() string {
	names := make([]string, len(SupportedImageTypes))
	for i, ct := range SupportedImageTypes {
		names[i] = strings.TrimPrefix(ct, "image/")
	}
	return fmt.Sprintf("%s images are not supported, use one of: %s", e.Got, strings.Join(names, ", "))
}

// Inspect opens path, sniffs its content type and checks it against
// mediaType ("image/*" or an exact type). Images are also header-decoded
// so a renamed or truncated file is rejected early. Any failure is
// returned as a *uploader.SelectionError carrying the path.
func Inspect(path, mediaType string) (*uploader.Handle, error) {
	h, err := inspect(path, mediaType)
	if err != nil {
		return nil, &uploader.SelectionError{Path: path, Err: err}
	}
	return h, nil
}

func inspect(path, mediaType string) (*uploader.Handle, error) {
	path, err := filex.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if !st.Mode().IsRegular() {
		return nil, ErrNotRegularFile
	}
	if st.Size() == 0 {
		return nil, ErrEmptyFile
	}

	detected, err := mimetype.DetectReader(f)
	if err != nil {
		return nil, fmt.Errorf("detect content type: %w", err)
	}
	contentType, _, err := mime.ParseMediaType(detected.String())
	if err != nil {
		return nil, fmt.Errorf("parse content type %q: %w", detected.String(), err)
	}
	if !Matches(mediaType, contentType) {
		return nil, &MediaTypeMismatchError{Want: mediaType, Got: contentType}
	}

	if strings.HasPrefix(contentType, "image/") {
		if !slices.Contains(SupportedImageTypes, contentType) {
			return nil, &UnsupportedImageError{Got: contentType}
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		if _, _, err := image.DecodeConfig(f); err != nil {
			return nil, fmt.Errorf("decode image header: %w", err)
		}
	}

	return &uploader.Handle{
		Path:        abs,
		Name:        filepath.Base(abs),
		Size:        st.Size(),
		ContentType: contentType,
	}, nil
}

// Matches reports whether contentType satisfies pattern. "*/*" and "" match
// everything, "type/*" matches any subtype, anything else must be equal.
func Matches(pattern, contentType string) bool {
	pattern = strings.ToLower(strings.TrimSpace(pattern))
	contentType = strings.ToLower(contentType)
	switch {
	case pattern == "" || pattern == "*/*":
		return true
	case strings.HasSuffix(pattern, "/*"):
		return strings.HasPrefix(contentType, strings.TrimSuffix(pattern, "*"))
	default:
		return pattern == contentType
	}
}
