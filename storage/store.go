// Package storage abstracts putting binary objects under generated keys in a
// content area, over a local-filesystem or S3 backend selected at startup.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// Area is a content area within the store.
type Area string

const (
	AreaOriginal Area = "original"
	AreaThumb    Area = "thumb"
)

// AssetStore writes and removes binary objects. Put returns the canonical
// retrieval URL for the stored object.
type AssetStore interface {
	Put(ctx context.Context, area Area, key string, r io.Reader) (string, error)
	Delete(ctx context.Context, area Area, key string) error
}

// NewKey builds a collision-resistant object key of the form
// {field}-{random}{ext}. A timestamp alone would collide under concurrent
// uploads, so the disambiguator is a v4 UUID.
func NewKey(field, ext string) string {
	return fmt.Sprintf("%s-%s%s", field, uuid.NewString(), ext)
}
