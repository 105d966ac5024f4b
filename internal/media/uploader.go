package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const uploadFolder = "task-manager/profile-images"

// Uploader stores images with an external hosting provider and returns
// public URLs for them.
type Uploader interface {
	Upload(ctx context.Context, file io.Reader, filename string) (string, error)
	Delete(ctx context.Context, publicID string) error
}

// CloudinaryUploader implements Uploader against Cloudinary.
type CloudinaryUploader struct {
	client *cloudinary.Cloudinary
}

var _ Uploader = (*CloudinaryUploader)(nil)

// NewCloudinaryUploader creates an uploader from a CLOUDINARY_URL style DSN.
func NewCloudinaryUploader(url string) (*CloudinaryUploader, error) {
	client, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	return &CloudinaryUploader{client: client}, nil
}

// Upload stores the file and returns its public URL.
func (u *CloudinaryUploader) Upload(ctx context.Context, file io.Reader, filename string) (string, error) {
	res, err := u.client.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:   uploadFolder,
		PublicID: strings.TrimSuffix(filename, path.Ext(filename)),
	})
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	return res.SecureURL, nil
}

// Delete removes a previously uploaded image by its public id.
func (u *CloudinaryUploader) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	_, err := u.client.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	return nil
}

// PublicIDFromURL derives the deletable resource identifier from a stored
// image URL: the trailing path segment stripped of its file extension.
func PublicIDFromURL(url string) string {
	if url == "" {
		return ""
	}
	segment := path.Base(url)
	return strings.TrimSuffix(segment, path.Ext(segment))
}
