package storage

import (
	"context"
	"io"
	"strings"
)

type Uploader interface {
	// Upload stores r under objectName and returns a durable public link.
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (link string, err error)
	Delete(ctx context.Context, objectName string) error
}

// publicLink joins a base URL and an object key.
func publicLink(base, objectName string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(objectName, "/")
}
