package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/picboard/picboard-backend/errs"
	"github.com/picboard/picboard-backend/models"
)

type favKey struct {
	postID, userID uint
}

type fakeFavoriteStore struct {
	rows    map[favKey]struct{}
	posts   map[uint]*models.Post
	addErr  error
	adds    int
	deletes int
}

func newFakeFavoriteStore() *fakeFavoriteStore {
	return &fakeFavoriteStore{
		rows:  map[favKey]struct{}{},
		posts: map[uint]*models.Post{},
	}
}

func (f *fakeFavoriteStore) Exists(postID, userID uint) (bool, error) {
	_, ok := f.rows[favKey{postID, userID}]
	return ok, nil
}

func (f *fakeFavoriteStore) Add(postID, userID uint) error {
	f.adds++
	if f.addErr != nil {
		return f.addErr
	}
	f.rows[favKey{postID, userID}] = struct{}{}
	return nil
}

func (f *fakeFavoriteStore) Delete(postID, userID uint) error {
	f.deletes++
	delete(f.rows, favKey{postID, userID})
	return nil
}

func (f *fakeFavoriteStore) FavoritesOf(userID uint) ([]*models.Post, error) {
	var out []*models.Post
	for key := range f.rows {
		if key.userID == userID {
			if post, ok := f.posts[key.postID]; ok {
				out = append(out, post)
			}
		}
	}
	return out, nil
}

func TestToggle_AddsWhenAbsent(t *testing.T) {
	store := newFakeFavoriteStore()
	store.posts[10] = &models.Post{ID: 10}
	favs := NewFavorites(store)

	list, err := favs.Toggle(1, 10)
	require.NoError(t, err)

	require.Len(t, list, 1)
	assert.EqualValues(t, 10, list[0].ID)
}

func TestToggle_RemovesWhenPresent(t *testing.T) {
	store := newFakeFavoriteStore()
	store.posts[10] = &models.Post{ID: 10}
	store.rows[favKey{10, 1}] = struct{}{}
	favs := NewFavorites(store)

	list, err := favs.Toggle(1, 10)
	require.NoError(t, err)

	assert.NotNil(t, list)
	assert.Empty(t, list)
	assert.Equal(t, 1, store.deletes)
}

func TestToggle_DoubleToggleRestoresOriginalState(t *testing.T) {
	store := newFakeFavoriteStore()
	store.posts[10] = &models.Post{ID: 10}
	favs := NewFavorites(store)

	_, err := favs.Toggle(1, 10)
	require.NoError(t, err)
	list, err := favs.Toggle(1, 10)
	require.NoError(t, err)

	assert.Empty(t, list)
	_, exists := store.rows[favKey{10, 1}]
	assert.False(t, exists)
}

func TestToggle_LostInsertRaceDeletesInstead(t *testing.T) {
	// A concurrent duplicate toggle inserted the row first: the unique
	// constraint rejects our insert and the toggle resolves as a removal.
	store := newFakeFavoriteStore()
	store.posts[10] = &models.Post{ID: 10}
	store.addErr = errs.NewAlreadyExists("favorite")
	favs := NewFavorites(store)

	list, err := favs.Toggle(1, 10)
	require.NoError(t, err)

	assert.Empty(t, list)
	assert.Equal(t, 1, store.deletes)
}

func TestToggle_UnknownPostIsNotFound(t *testing.T) {
	store := newFakeFavoriteStore()
	store.addErr = errors.New(`insert or update on table "favorited_posts" violates foreign key constraint`)
	favs := NewFavorites(store)

	_, err := favs.Toggle(1, 999)
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}

func TestToggle_OtherUsersUnaffected(t *testing.T) {
	store := newFakeFavoriteStore()
	store.posts[10] = &models.Post{ID: 10}
	store.rows[favKey{10, 2}] = struct{}{}
	favs := NewFavorites(store)

	list, err := favs.Toggle(1, 10)
	require.NoError(t, err)

	require.Len(t, list, 1)
	_, otherStillThere := store.rows[favKey{10, 2}]
	assert.True(t, otherStillThere)
}
