package form

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/leeozaka/achados/internal/models"
)

// MaxImages bounds every ImageCollection unless a form asks for less.
const MaxImages = 10

// MaxImageBytes matches the "PNG, JPG até 10MB" upload hint.
const MaxImageBytes = 10 << 20

// ImageCollection is an ordered, capacity-bounded list of attached images.
type ImageCollection struct {
	items []models.Image
	max   int
}

func NewImageCollection(max int) *ImageCollection {
	if max <= 0 || max > MaxImages {
		max = MaxImages
	}
	return &ImageCollection{max: max}
}

func (c *ImageCollection) Len() int { return len(c.items) }
func (c *ImageCollection) Max() int { return c.max }

func (c *ImageCollection) Items() []models.Image {
	return append([]models.Image(nil), c.items...)
}

// Fits reports whether n more images (on top of reserved ones) stay within capacity.
func (c *ImageCollection) Fits(reserved, n int) error {
	if len(c.items)+reserved+n > c.max {
		return &CapacityError{Max: c.max, Current: len(c.items) + reserved, Requested: n}
	}
	return nil
}

// Append adds the whole batch or nothing.
func (c *ImageCollection) Append(imgs ...models.Image) error {
	if err := c.Fits(0, len(imgs)); err != nil {
		return err
	}
	c.items = append(c.items, imgs...)
	return nil
}

func (c *ImageCollection) Remove(i int) error {
	if i < 0 || i >= len(c.items) {
		return ErrIndexOutOfRange
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return nil
}

func (c *ImageCollection) clear() {
	c.items = nil
}

// Decoder turns a selected file into an encoded image.
type Decoder interface {
	Decode(ctx context.Context, path string) (models.Image, error)
}

type DecoderFunc func(ctx context.Context, path string) (models.Image, error)

func (f DecoderFunc) Decode(ctx context.Context, path string) (models.Image, error) {
	return f(ctx, path)
}

// FileDecoder reads local image files into data URIs.
type FileDecoder struct {
	MaxBytes int64
}

func (d FileDecoder) Decode(ctx context.Context, path string) (models.Image, error) {
	if err := ctx.Err(); err != nil {
		return models.Image{}, err
	}
	limit := d.MaxBytes
	if limit <= 0 {
		limit = MaxImageBytes
	}

	path = strings.TrimSpace(path)
	info, err := os.Stat(path)
	if err != nil {
		return models.Image{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > limit {
		return models.Image{}, fmt.Errorf("%s: larger than %d bytes", filepath.Base(path), limit)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return models.Image{}, fmt.Errorf("read %s: %w", path, err)
	}
	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return models.Image{}, fmt.Errorf("%s: not an image (%s)", filepath.Base(path), mime)
	}

	return models.Image{
		Name:    filepath.Base(path),
		MIME:    mime,
		DataURI: "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data),
	}, nil
}

// decodeConcurrency bounds how many files are read at once.
const decodeConcurrency = 4

// DecodeBatch decodes files concurrently. The result keeps the order of
// files regardless of which decode finishes first; any failure fails the batch.
func DecodeBatch(ctx context.Context, dec Decoder, files []string) ([]models.Image, error) {
	slots := make([]models.Image, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(decodeConcurrency)
	for i, f := range files {
		g.Go(func() error {
			img, err := dec.Decode(ctx, f)
			if err != nil {
				return err
			}
			slots[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slots, nil
}
