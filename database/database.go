package database

import (
	"errors"
	"strings"

	"github.com/picboard/picboard-backend/models"
	"gorm.io/gorm"
)

type Database struct {
	userRepo       *UserRepo
	postRepo       *PostRepo
	tagRepo        *TagRepo
	taggedPostRepo *TaggedPostRepo
	favoriteRepo   *FavoriteRepo
	flagRepo       *FlagRepo
	settingRepo    *SettingRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		userRepo:       NewUserRepo(db),
		postRepo:       NewPostRepo(db),
		tagRepo:        NewTagRepo(db),
		taggedPostRepo: NewTaggedPostRepo(db),
		favoriteRepo:   NewFavoriteRepo(db),
		flagRepo:       NewFlagRepo(db),
		settingRepo:    NewSettingRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) PostRepo() *PostRepo {
	return d.postRepo
}

func (d Database) TagRepo() *TagRepo {
	return d.tagRepo
}

func (d Database) TaggedPostRepo() *TaggedPostRepo {
	return d.taggedPostRepo
}

func (d Database) FavoriteRepo() *FavoriteRepo {
	return d.favoriteRepo
}

func (d Database) FlagRepo() *FlagRepo {
	return d.flagRepo
}

func (d Database) SettingRepo() *SettingRepo {
	return d.settingRepo
}

// Migrate wires the custom join tables and brings the schema up to date.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Post{}, "Tags", &models.TaggedPost{}); err != nil {
		return err
	}
	if err := db.SetupJoinTable(&models.User{}, "FavoritedPosts", &models.FavoritedPost{}); err != nil {
		return err
	}
	return db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Tag{},
		&models.TaggedPost{},
		&models.FavoritedPost{},
		&models.Flag{},
		&models.Setting{},
	)
}

// isUniqueViolation reports whether err is a unique-constraint failure. The
// postgres driver translates these to gorm.ErrDuplicatedKey; the string check
// covers drivers that do not.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "duplicate key") ||
		strings.Contains(err.Error(), "UNIQUE constraint")
}
