package storage

import (
	"context"
	"fmt"
	"io"

	gcs "cloud.google.com/go/storage"
)

type GCSUploader struct {
	client  *gcs.Client
	bucket  string
	baseURL string
}

// NewGCSUploader uses application default credentials. baseURL overrides the
// default https://storage.googleapis.com/<bucket> link prefix when set.
func NewGCSUploader(ctx context.Context, bucket, baseURL string) (*GCSUploader, error) {
	c, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://storage.googleapis.com/%s", bucket)
	}
	return &GCSUploader{client: c, bucket: bucket, baseURL: baseURL}, nil
}

func (u *GCSUploader) Close() error { return u.client.Close() }

func (u *GCSUploader) Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (string, error) {
	obj := u.client.Bucket(u.bucket).Object(objectName)

	w := obj.NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	// resume links are handed to companies as-is
	if err := obj.ACL().Set(ctx, gcs.AllUsers, gcs.RoleReader); err != nil {
		return "", err
	}

	return publicLink(u.baseURL, objectName), nil
}

func (u *GCSUploader) Delete(ctx context.Context, objectName string) error {
	return u.client.Bucket(u.bucket).Object(objectName).Delete(ctx)
}
