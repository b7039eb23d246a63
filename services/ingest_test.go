package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picboard/picboard-backend/errs"
	"github.com/picboard/picboard-backend/models"
	"github.com/picboard/picboard-backend/storage"
)

// fakeAssets records writes and deletes keyed by "area/key". Compensating
// cleanup deletes concurrently, hence the mutex.
type fakeAssets struct {
	mu       sync.Mutex
	objects  map[string]int64
	deletes  []string
	failArea storage.Area
}

func newFakeAssets() *fakeAssets {
	return &fakeAssets{objects: map[string]int64{}}
}

func (f *fakeAssets) Put(_ context.Context, area storage.Area, key string, r io.Reader) (string, error) {
	if area == f.failArea {
		return "", errors.New("store unavailable")
	}
	n, err := io.Copy(io.Discard, r)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[string(area)+"/"+key] = n
	return "http://assets/" + string(area) + "/" + key, nil
}

func (f *fakeAssets) Delete(_ context.Context, area storage.Area, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, string(area)+"/"+key)
	f.deletes = append(f.deletes, string(area)+"/"+key)
	return nil
}

func (f *fakeAssets) stored() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

type fakePostStore struct {
	mu      sync.Mutex
	nextID  uint
	rows    map[uint]*models.Post
	addErr  error
	deleted []uint
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{rows: map[uint]*models.Post{}}
}

func (f *fakePostStore) Add(post *models.Post) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	post.ID = f.nextID
	f.rows[post.ID] = post
	return nil
}

func (f *fakePostStore) Delete(id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rows, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakePostStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}

type fakeTagStore struct {
	nextID uint
	byName map[string]*models.Tag
}

func newFakeTagStore() *fakeTagStore {
	return &fakeTagStore{byName: map[string]*models.Tag{}}
}

func (f *fakeTagStore) FindOrCreate(name string) (*models.Tag, error) {
	if tag, ok := f.byName[name]; ok {
		return tag, nil
	}
	f.nextID++
	tag := &models.Tag{ID: f.nextID, Name: name, Active: true}
	f.byName[name] = tag
	return tag, nil
}

type fakeTaggedStore struct {
	assocs    []*models.TaggedPost
	failAfter int // fail once this many adds have succeeded; -1 never
}

func (f *fakeTaggedStore) Add(assoc *models.TaggedPost) error {
	if f.failAfter >= 0 && len(f.assocs) >= f.failAfter {
		return errors.New("insert failed")
	}
	f.assocs = append(f.assocs, assoc)
	return nil
}

type ingestFixture struct {
	assets *fakeAssets
	posts  *fakePostStore
	tags   *fakeTagStore
	tagged *fakeTaggedStore
	ing    *Ingestor
}

func newIngestFixture() *ingestFixture {
	f := &ingestFixture{
		assets: newFakeAssets(),
		posts:  newFakePostStore(),
		tags:   newFakeTagStore(),
		tagged: &fakeTaggedStore{failAfter: -1},
	}
	f.ing = NewIngestor(f.assets, f.posts, f.tags, f.tagged, 4)
	return f
}

func upload(t *testing.T) UploadInput {
	t.Helper()
	return UploadInput{
		OwnerID:  1,
		TagExpr:  "red race_car bmw m3",
		Source:   "https://example.com/origin",
		Filename: "car.png",
		File:     bytes.NewReader(pngBytes(t, 320, 240)),
	}
}

func TestIngest_Success(t *testing.T) {
	f := newIngestFixture()

	post, err := f.ing.Ingest(context.Background(), upload(t))
	require.NoError(t, err)

	assert.EqualValues(t, 1, post.ID)
	assert.EqualValues(t, 1, post.UserID)
	assert.True(t, post.Active)
	assert.Equal(t, 320, post.Width)
	assert.Equal(t, 240, post.Height)
	assert.Equal(t, "https://example.com/origin", post.Source)
	assert.Contains(t, post.URL, "original/")
	assert.Contains(t, post.ThumbURL, "thumb/")

	// Original plus thumbnail under the same key.
	assert.Equal(t, 2, f.assets.stored())
	require.Len(t, f.tagged.assocs, 4)
	for _, assoc := range f.tagged.assocs {
		assert.Equal(t, post.ID, assoc.PostID)
		assert.NotEmpty(t, assoc.TagName)
	}
	assert.Len(t, post.Tags, 4)
}

func TestIngest_DuplicateTagsCollapseOnPost(t *testing.T) {
	f := newIngestFixture()
	in := upload(t)
	in.TagExpr = "red red race_car bmw m3"

	post, err := f.ing.Ingest(context.Background(), in)
	require.NoError(t, err)

	// Five association attempts, four distinct tags on the post.
	assert.Len(t, f.tagged.assocs, 5)
	assert.Len(t, post.Tags, 4)
}

func TestIngest_BatchesValidationMessages(t *testing.T) {
	f := newIngestFixture()
	in := UploadInput{OwnerID: 1, TagExpr: "only_one"}

	_, err := f.ing.Ingest(context.Background(), in)
	require.Error(t, err)
	require.True(t, errs.IsValidation(err))

	var apiErr *errs.ApiErr
	require.True(t, errors.As(err, &apiErr))
	assert.Contains(t, apiErr.Messages, "Please select a file.")
	assert.Contains(t, apiErr.Messages, fmt.Sprintf("Minimum %d space separated tags. ie: red race_car bmw m3", 4))

	assert.Zero(t, f.assets.stored())
	assert.Zero(t, f.posts.count())
}

func TestIngest_EmptyFile(t *testing.T) {
	f := newIngestFixture()
	in := upload(t)
	in.File = bytes.NewReader(nil)

	_, err := f.ing.Ingest(context.Background(), in)
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
	assert.Zero(t, f.assets.stored())
}

func TestIngest_UnreadableImageWritesNothing(t *testing.T) {
	f := newIngestFixture()
	in := upload(t)
	in.File = bytes.NewReader([]byte("this is not an image at all"))

	_, err := f.ing.Ingest(context.Background(), in)
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
	assert.Contains(t, err.Error(), "Unreadable image.")

	// The decode gate runs before any storage write.
	assert.Zero(t, f.assets.stored())
	assert.Zero(t, f.posts.count())
}

func TestIngest_ThumbWriteFailureCompensatesOriginal(t *testing.T) {
	f := newIngestFixture()
	f.assets.failArea = storage.AreaThumb

	_, err := f.ing.Ingest(context.Background(), upload(t))
	require.Error(t, err)

	assert.Zero(t, f.assets.stored())
	assert.Zero(t, f.posts.count())
	assert.Len(t, f.assets.deletes, 1)
}

func TestIngest_PostInsertFailureCompensatesAssets(t *testing.T) {
	f := newIngestFixture()
	f.posts.addErr = errors.New("insert failed")

	_, err := f.ing.Ingest(context.Background(), upload(t))
	require.Error(t, err)

	assert.Zero(t, f.assets.stored())
	assert.Len(t, f.assets.deletes, 2)
	assert.Empty(t, f.posts.deleted)
}

func TestIngest_AssociationFailureCompensatesEverything(t *testing.T) {
	f := newIngestFixture()
	f.tagged.failAfter = 2

	_, err := f.ing.Ingest(context.Background(), upload(t))
	require.Error(t, err)

	assert.Zero(t, f.assets.stored())
	assert.Zero(t, f.posts.count())
	assert.Equal(t, []uint{1}, f.posts.deleted)
}

func TestIngest_CanceledRequestStillCleansUp(t *testing.T) {
	f := newIngestFixture()
	f.posts.addErr = errors.New("insert failed")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.ing.Ingest(ctx, upload(t))
	require.Error(t, err)

	// Cleanup uses a detached context, so cancellation cannot strand objects.
	assert.Zero(t, f.assets.stored())
}
