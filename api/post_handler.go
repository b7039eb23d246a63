package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/picboard/picboard-backend/database"
	"github.com/picboard/picboard-backend/errs"
	"github.com/picboard/picboard-backend/models"
	"github.com/picboard/picboard-backend/services"
)

// maxUploadBytes caps a single upload request body.
const maxUploadBytes = 32 << 20

type postHandler struct {
	responder Responder
	logger    zerolog.Logger
	postRepo  *database.PostRepo
	flagRepo  *database.FlagRepo
	ingestor  *services.Ingestor
	searcher  *services.Searcher
	favorites *services.Favorites
}

func newPostHandler(
	postRepo *database.PostRepo,
	flagRepo *database.FlagRepo,
	ingestor *services.Ingestor,
	searcher *services.Searcher,
	favorites *services.Favorites,
) postHandler {
	logger := log.With().Str("handlerName", "postHandler").Logger()

	return postHandler{
		responder: NewResponder(logger),
		logger:    logger,
		postRepo:  postRepo,
		flagRepo:  flagRepo,
		ingestor:  ingestor,
		searcher:  searcher,
		favorites: favorites,
	}
}

// getPostList returns one page of active posts, newest first, with the total
// count for pagination.
func (h postHandler) getPostList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, pageSize := pagination(r)

		result, err := h.searcher.List(page, pageSize)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, result)
	}
}

// searchPosts resolves a search expression into a filtered page of posts.
func (h postHandler) searchPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, pageSize := pagination(r)
		expr := r.URL.Query().Get("searchQuery")

		result, err := h.searcher.Search(expr, page, pageSize)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, result)
	}
}

// getPost returns a single post by id, active or not.
func (h postHandler) getPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUintParam(r.URL.Query().Get("id"))
		if err != nil {
			h.responder.WriteError(w, errs.BadRequest("invalid post id"))
			return
		}

		post, err := h.postRepo.FindByID(id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.responder.WriteError(w, errs.NewNotFoundError("post"))
			return
		}
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "post", err))
			return
		}

		h.responder.WriteJSON(w, post)
	}
}

// createPost accepts a multipart upload and runs the ingestion pipeline.
func (h postHandler) createPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := identityFromCtx(r.Context())

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			h.logger.Error().Err(err).Msg("Failed to parse multipart form")
			h.responder.WriteError(w, errs.NewValidationError("Please select a file."))
			return
		}

		input := services.UploadInput{
			OwnerID: identity.UserID,
			TagExpr: formOrQuery(r, "tags"),
			Source:  formOrQuery(r, "source"),
		}

		file, header, err := r.FormFile("image")
		if err == nil {
			defer file.Close()
			input.File = file
			input.Filename = header.Filename
		}

		post, err := h.ingestor.Ingest(r.Context(), input)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, post)
	}
}

// toggleFavorite flips favorite membership for the caller and the given post
// and returns the caller's updated favorites.
func (h postHandler) toggleFavorite() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := identityFromCtx(r.Context())

		postID, err := parseUintParam(r.URL.Query().Get("postId"))
		if err != nil {
			h.responder.WriteError(w, errs.BadRequest("invalid postId"))
			return
		}

		favorites, err := h.favorites.Toggle(identity.UserID, postID)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]interface{}{
			"favorites": favorites,
		})
	}
}

// deletePost soft-deletes a post: the row stays addressable by id but
// disappears from every listing, search and count.
func (h postHandler) deletePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := identityFromCtx(r.Context())

		id, err := parseUintParam(chi.URLParam(r, "postID"))
		if err != nil {
			h.responder.WriteError(w, errs.BadRequest("invalid post id"))
			return
		}

		post, err := h.postRepo.FindByID(id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.responder.WriteError(w, errs.NewNotFoundError("post"))
			return
		}
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "post", err))
			return
		}

		if !identity.Admin && post.UserID != identity.UserID {
			h.responder.WriteError(w, errs.NewForbiddenError("not the post owner"))
			return
		}

		post.Active = false
		if err := h.postRepo.Update(post); err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("update", "post", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{"status": "success"})
	}
}

// createFlag records a user report against a post.
func (h postHandler) createFlag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, _ := identityFromCtx(r.Context())

		postID, err := parseUintParam(r.URL.Query().Get("postId"))
		if err != nil {
			h.responder.WriteError(w, errs.BadRequest("invalid postId"))
			return
		}

		flag := models.Flag{
			PostID: postID,
			UserID: identity.UserID,
			Reason: r.URL.Query().Get("reason"),
		}
		if err := h.flagRepo.Add(&flag); err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("create", "flag", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{"status": "success"})
	}
}

// listFlags returns every flag with its post and reporter for admin review.
func (h postHandler) listFlags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flags, err := h.flagRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "flags", err))
			return
		}

		h.responder.WriteJSON(w, flags)
	}
}

func pagination(r *http.Request) (page, pageSize int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(r.URL.Query().Get("postsPerPage"))
	if pageSize <= 0 {
		pageSize = services.DefaultPageSize
	}
	return page, pageSize
}

func parseUintParam(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// formOrQuery reads a value from the query string first, then the form body.
func formOrQuery(r *http.Request, key string) string {
	if v := r.URL.Query().Get(key); v != "" {
		return v
	}
	return r.FormValue(key)
}
