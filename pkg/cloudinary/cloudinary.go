package cloudinary

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/cloudinary/cloudinary-go/v2/config"
)

// Client uploads camera captures.
type Client interface {
	UploadImage(ctx context.Context, file io.Reader, folder, publicID string) (url, thumbnailURL string, err error)
}

// ErrNotConfigured is returned by NewClientFromParams when credentials are missing.
var ErrNotConfigured = errors.New("cloudinary not configured")

// Capture delivery params. Captures keep their grain, so no sharpening or
// format conversion beyond auto quality.
const (
	ImageWidth = 1080
	ThumbWidth = 240
	// sepia-toned, slightly vignetted thumbnail for the evidence board
	imageEager = "q_auto,w_1080,c_limit|q_auto,f_auto,w_240,c_fill,e_sepia:40,e_vignette:30"
)

// BuildThumbnailURL returns the evidence-board thumbnail URL for a public ID.
func BuildThumbnailURL(cloudName, publicID string, width int) string {
	if width <= 0 {
		width = ThumbWidth
	}
	return fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/q_auto,f_auto,w_%d,c_fill,e_sepia:40,e_vignette:30/%s",
		cloudName, width, publicID)
}

var eagerAsyncFalse = false

type clientImpl struct {
	cloudName string
	uploader  *uploader.API
}

// UploadImage uploads a capture with its eager thumbnail.
func (c *clientImpl) UploadImage(ctx context.Context, file io.Reader, folder, publicID string) (url, thumbnailURL string, err error) {
	result, err := c.uploader.Upload(ctx, file, uploader.UploadParams{
		Folder:     folder,
		PublicID:   publicID,
		Eager:      imageEager,
		EagerAsync: &eagerAsyncFalse,
	})
	if err != nil {
		return "", "", err
	}
	if result.Error.Message != "" {
		return "", "", errors.New(result.Error.Message)
	}
	url = result.SecureURL
	if len(result.Eager) > 1 {
		thumbnailURL = result.Eager[1].SecureURL
	}
	if thumbnailURL == "" {
		thumbnailURL = BuildThumbnailURL(c.cloudName, result.PublicID, ThumbWidth)
	}
	return url, thumbnailURL, nil
}

// NewClientFromParams builds a Client from Cloudinary cloud name, API key, and secret.
func NewClientFromParams(cloudName, apiKey, apiSecret string) (Client, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, ErrNotConfigured
	}
	cfg, err := config.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, err
	}
	up, err := uploader.NewWithConfiguration(cfg)
	if err != nil {
		return nil, err
	}
	return &clientImpl{
		cloudName: cloudName,
		uploader:  up,
	}, nil
}
