package images

import (
	"context"
	"fmt"
	"image/jpeg"
	"io"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
)

const (
	// MaxWidth is the widest a stored photo is kept.
	MaxWidth = 800
	// URLPrefix is the path stored photos are served under.
	URLPrefix = "/uploads/"

	jpegQuality = 80
)

// Uploader writes recipe photos to a directory served under URLPrefix.
type Uploader struct {
	dir     string
	baseURL string
	now     func() time.Time
}

// NewUploader creates the upload directory if needed. baseURL is the public
// origin, e.g. "https://recipes.example.com".
func NewUploader(dir, baseURL string) (*Uploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Uploader{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}, nil
}

// Dir is the directory photos are written to.
func (u *Uploader) Dir() string { return u.dir }

// Upload decodes the photo, shrinks it to MaxWidth, stores it as JPEG and
// returns its public URL.
func (u *Uploader) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	if !AllowedFile(filename) {
		return "", ErrUnsupportedFormat
	}
	img, _, err := decode(r)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if img.Bounds().Dx() > MaxWidth {
		// Height 0 keeps the aspect ratio.
		img = resize.Resize(MaxWidth, 0, img, resize.Lanczos3)
	}

	name := strconv.FormatInt(u.now().UnixNano(), 10) + "-" + uuid.New().String() + ".jpg"
	f, err := os.Create(filepath.Join(u.dir, name))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		f.Close()
		os.Remove(f.Name()) //nolint:errcheck
		return "", fmt.Errorf("encode upload: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close upload file: %w", err)
	}
	return u.baseURL + URLPrefix + name, nil
}

// Remove deletes the stored photo behind publicURL. URLs that do not point
// into the upload directory, and files that are already gone, are ignored.
func (u *Uploader) Remove(publicURL string) error {
	_, name, ok := strings.Cut(publicURL, URLPrefix)
	if !ok || name == "" || name != path.Base(name) {
		return nil
	}
	err := os.Remove(filepath.Join(u.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove upload %s: %w", name, err)
	}
	return nil
}
