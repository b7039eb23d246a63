package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes mounts the API under /api in three tiers: public, authenticated
// and admin-only.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware) {
	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Group(func(r chi.Router) {
			r.Get("/post/list", handlers.postHandler.getPostList())
			r.Get("/post/search", handlers.postHandler.searchPosts())
			r.Get("/post/single", handlers.postHandler.getPost())
			r.Get("/tag/get", handlers.tagHandler.getTags())
			r.Get("/setting/signup", handlers.settingHandler.getSignup())

			r.Post("/user/signup", handlers.userHandler.signup())
			r.Post("/user/login", handlers.userHandler.login())
			r.Post("/user/logout", handlers.userHandler.logout())
		})

		// Endpoints that need a logged-in user
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.require)

			r.Get("/user/me", handlers.userHandler.me())
			r.Post("/post/create", handlers.postHandler.createPost())
			r.Post("/post/favorite", handlers.postHandler.toggleFavorite())
			r.Post("/post/delete/{postID}", handlers.postHandler.deletePost())
			r.Post("/post/flag/create", handlers.postHandler.createFlag())
		})

		// Admin endpoints
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.requireAdmin)

			r.Get("/post/flag/list", handlers.postHandler.listFlags())
			r.Post("/tag/toggle", handlers.tagHandler.toggleTags())
			r.Post("/tag/delete", handlers.tagHandler.deleteTags())
			r.Post("/setting/signup/toggle", handlers.settingHandler.toggleSignup())
		})
	})
}
