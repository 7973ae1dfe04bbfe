package worker

import (
	"context"
	"fmt"

	"uploader/internal/connectors/wordpress"
	"uploader/internal/logger"
)

// ImageAttacher is the wc/v3 slice needed to bind media to a product.
type ImageAttacher interface {
	UpdateProductImages(ctx context.Context, productID int64, mediaIDs []int64) error
}

// MediaUploader is the wp/v2 slice that stores a file in the media library.
type MediaUploader interface {
	UploadMedia(ctx context.Context, path string) (*wordpress.Media, error)
}

// ProductImageUploader uploads local images to the WordPress media library
// and attaches the surviving ones to a product. One bad image does not sink
// the rest; only a total wipeout is reported as an error.
type ProductImageUploader struct {
	media    MediaUploader
	products ImageAttacher
	logger   *logger.Logger
}

func NewProductImageUploader(media MediaUploader, products ImageAttacher, log *logger.Logger) *ProductImageUploader {
	return &ProductImageUploader{
		media:    media,
		products: products,
		logger:   log,
	}
}

func (u *ProductImageUploader) UploadImages(ctx context.Context, productID int64, paths []string) error {
	var mediaIDs []int64
	var failed int
	for _, path := range paths {
		media, err := u.media.UploadMedia(ctx, path)
		if err != nil {
			failed++
			u.logger.Warn("Failed to upload %s: %v", path, err)
			continue
		}
		mediaIDs = append(mediaIDs, media.ID)
	}

	if len(mediaIDs) == 0 {
		return fmt.Errorf("no images uploaded successfully (%d attempted)", len(paths))
	}

	if err := u.products.UpdateProductImages(ctx, productID, mediaIDs); err != nil {
		return fmt.Errorf("failed to attach images to product %d: %w", productID, err)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d images failed to upload", failed, len(paths))
	}
	return nil
}
