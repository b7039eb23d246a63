package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/picboard/picboard-backend/errs"
	"github.com/picboard/picboard-backend/models"
	"github.com/picboard/picboard-backend/storage"
)

// PostStore is the slice of the persistence adapter the pipeline needs.
type PostStore interface {
	Add(post *models.Post) error
	Delete(id uint) error
}

// TagStore finds a tag by name or creates it with active=true, tolerating
// the concurrent-create race at the storage layer.
type TagStore interface {
	FindOrCreate(name string) (*models.Tag, error)
}

// TaggedPostStore records post/tag associations; duplicates are no-ops.
type TaggedPostStore interface {
	Add(assoc *models.TaggedPost) error
}

// UploadInput is one raw upload: the stream, its declared owner, the tag
// expression and an optional provenance string.
type UploadInput struct {
	OwnerID  uint
	TagExpr  string
	Source   string
	Filename string
	File     io.Reader
}

// Ingestor runs the ingestion pipeline: validate, derive metadata, store the
// original and a thumbnail, persist the post and its tag associations. Any
// failure after the first storage write triggers compensating deletes so no
// partial post is ever visible to readers.
type Ingestor struct {
	assets  storage.AssetStore
	posts   PostStore
	tags    TagStore
	tagged  TaggedPostStore
	minTags int
	logger  zerolog.Logger
}

func NewIngestor(assets storage.AssetStore, posts PostStore, tags TagStore, tagged TaggedPostStore, minTags int) *Ingestor {
	if minTags <= 0 {
		minTags = DefaultMinTags
	}
	return &Ingestor{
		assets:  assets,
		posts:   posts,
		tags:    tags,
		tagged:  tagged,
		minTags: minTags,
		logger:  log.With().Str("serviceName", "ingestor").Logger(),
	}
}

// Ingest produces a persisted post with its tag associations, or fails
// without side effects visible to readers.
func (ing *Ingestor) Ingest(ctx context.Context, in UploadInput) (*models.Post, error) {
	var messages []string
	if in.File == nil || in.Filename == "" {
		messages = append(messages, "Please select a file.")
	}

	tokens, err := NormalizeTags(in.TagExpr, ing.minTags)
	if err != nil {
		var apiErr *errs.ApiErr
		if errors.As(err, &apiErr) && len(apiErr.Messages) > 0 {
			messages = append(messages, apiErr.Messages...)
		} else {
			return nil, err
		}
	}
	if len(messages) > 0 {
		return nil, errs.NewValidationError(messages...)
	}

	// Stage the stream to a temp file so dimensions and the thumbnail can be
	// read back regardless of which store backend the bytes are headed to.
	tmp, err := os.CreateTemp("", "upload-*")
	if err != nil {
		return nil, errs.NewInternalError("failed to stage upload")
	}
	defer func() {
		tmp.Close()
		os.Remove(tmp.Name())
	}()

	size, err := io.Copy(tmp, in.File)
	if err != nil {
		return nil, errs.NewValidationError("File Error")
	}
	if size == 0 {
		return nil, errs.NewValidationError("Please select a file.")
	}

	// Decode before any storage write; an unreadable upload must not leave
	// orphaned objects behind.
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, errs.NewInternalError("failed to stage upload")
	}
	width, height, err := Dimensions(tmp)
	if err != nil {
		return nil, errs.NewValidationError("Unreadable image.")
	}
	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, errs.NewInternalError("failed to stage upload")
	}
	img, _, err := image.Decode(tmp)
	if err != nil {
		return nil, errs.NewValidationError("Unreadable image.")
	}

	ext := strings.ToLower(filepath.Ext(in.Filename))
	key := storage.NewKey("image", ext)

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		return nil, errs.NewInternalError("failed to stage upload")
	}
	url, err := ing.assets.Put(ctx, storage.AreaOriginal, key, tmp)
	if err != nil {
		return nil, errs.NewStorageWriteError(string(storage.AreaOriginal), key, err)
	}

	var thumbBuf bytes.Buffer
	if err := EncodeImage(&thumbBuf, CoverThumbnail(img, ThumbSize), ext); err != nil {
		ing.compensate(ctx, key, false, 0)
		return nil, errs.NewInternalError("failed to derive thumbnail")
	}
	thumbURL, err := ing.assets.Put(ctx, storage.AreaThumb, key, &thumbBuf)
	if err != nil {
		ing.compensate(ctx, key, false, 0)
		return nil, errs.NewStorageWriteError(string(storage.AreaThumb), key, err)
	}

	post := &models.Post{
		UserID:   in.OwnerID,
		Active:   true,
		Width:    width,
		Height:   height,
		Source:   in.Source,
		URL:      url,
		ThumbURL: thumbURL,
	}
	if err := ing.posts.Add(post); err != nil {
		ing.compensate(ctx, key, true, 0)
		return nil, errs.NewDatabaseError("create", "post", err)
	}

	for _, name := range tokens {
		tag, err := ing.tags.FindOrCreate(name)
		if err != nil {
			ing.compensate(ctx, key, true, post.ID)
			return nil, errs.NewDatabaseError("find or create", "tag", err)
		}
		assoc := &models.TaggedPost{PostID: post.ID, TagID: tag.ID, TagName: tag.Name}
		if err := ing.tagged.Add(assoc); err != nil {
			ing.compensate(ctx, key, true, post.ID)
			return nil, errs.NewDatabaseError("create", "tagged post", err)
		}
		if !containsTag(post.Tags, tag.ID) {
			post.Tags = append(post.Tags, *tag)
		}
	}

	ing.logger.Info().
		Uint("postId", post.ID).
		Uint("ownerId", in.OwnerID).
		Int("width", width).
		Int("height", height).
		Int("tags", len(post.Tags)).
		Msg("post ingested")
	return post, nil
}

// compensate undoes partial side effects after a mid-pipeline failure: the
// stored original, the thumbnail if it was written, and the post row if it
// was created. The store and the database are independent systems, so this is
// a manual undo rather than a transaction. Cleanup runs even when the caller
// disconnected mid-upload, hence the detached context.
func (ing *Ingestor) compensate(ctx context.Context, key string, wroteThumb bool, postID uint) {
	cleanupCtx := context.WithoutCancel(ctx)

	// One failed delete must not cancel the others, so no group context.
	var g errgroup.Group
	g.Go(func() error {
		return ing.assets.Delete(cleanupCtx, storage.AreaOriginal, key)
	})
	if wroteThumb {
		g.Go(func() error {
			return ing.assets.Delete(cleanupCtx, storage.AreaThumb, key)
		})
	}
	if postID != 0 {
		g.Go(func() error {
			return ing.posts.Delete(postID)
		})
	}
	if err := g.Wait(); err != nil {
		ing.logger.Error().Err(err).Str("key", key).Msg("compensating cleanup incomplete")
	}
}

func containsTag(tags []models.Tag, id uint) bool {
	for _, t := range tags {
		if t.ID == id {
			return true
		}
	}
	return false
}
