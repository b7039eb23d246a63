package api

import (
	"github.com/picboard/picboard-backend/database"
	"github.com/picboard/picboard-backend/services"
	"github.com/picboard/picboard-backend/storage"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, assets storage.AssetStore, sessions sessionManager, minTags int) *routeHandlers {
	ingestor := services.NewIngestor(assets, db.PostRepo(), db.TagRepo(), db.TaggedPostRepo(), minTags)
	searcher := services.NewSearcher(db.PostRepo(), db.UserRepo(), db.FavoriteRepo(), db.TaggedPostRepo())
	favorites := services.NewFavorites(db.FavoriteRepo())

	return &routeHandlers{
		postHandler:    newPostHandler(db.PostRepo(), db.FlagRepo(), ingestor, searcher, favorites),
		tagHandler:     newTagHandler(db.TagRepo()),
		userHandler:    newUserHandler(db.UserRepo(), db.SettingRepo(), sessions),
		settingHandler: newSettingHandler(db.SettingRepo()),
	}
}
