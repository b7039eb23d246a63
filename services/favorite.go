package services

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/picboard/picboard-backend/errs"
	"github.com/picboard/picboard-backend/models"
)

// FavoriteStore is the slice of the persistence adapter the toggle needs.
type FavoriteStore interface {
	Exists(postID, userID uint) (bool, error)
	Add(postID, userID uint) error
	Delete(postID, userID uint) error
	FavoritesOf(userID uint) ([]*models.Post, error)
}

// Favorites toggles favorite membership for (user, post) pairs.
type Favorites struct {
	store  FavoriteStore
	logger zerolog.Logger
}

func NewFavorites(store FavoriteStore) *Favorites {
	return &Favorites{
		store:  store,
		logger: log.With().Str("serviceName", "favorites").Logger(),
	}
}

// Toggle atomically flips membership: create the row if absent, delete it if
// present. Concurrent duplicate toggles from the same user are resolved by
// the association's unique constraint: the toggle that loses the insert race
// treats the row as existing and deletes it. Returns the user's updated
// favorites list.
func (f *Favorites) Toggle(userID, postID uint) ([]*models.Post, error) {
	exists, err := f.store.Exists(postID, userID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "favorite", err)
	}

	if exists {
		if err := f.store.Delete(postID, userID); err != nil {
			return nil, errs.NewDatabaseError("delete", "favorite", err)
		}
	} else if err := f.store.Add(postID, userID); err != nil {
		switch {
		case errs.IsAlreadyExists(err):
			if err := f.store.Delete(postID, userID); err != nil {
				return nil, errs.NewDatabaseError("delete", "favorite", err)
			}
		case strings.Contains(err.Error(), "foreign key"):
			return nil, errs.NewNotFoundError("post")
		default:
			return nil, errs.NewDatabaseError("create", "favorite", err)
		}
	}

	favorites, err := f.store.FavoritesOf(userID)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "favorites", err)
	}
	if favorites == nil {
		favorites = []*models.Post{}
	}
	return favorites, nil
}
