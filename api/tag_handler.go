package api

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/picboard/picboard-backend/database"
	"github.com/picboard/picboard-backend/errs"
)

type tagHandler struct {
	responder Responder
	logger    zerolog.Logger
	tagRepo   *database.TagRepo
}

func newTagHandler(tagRepo *database.TagRepo) tagHandler {
	logger := log.With().Str("handlerName", "tagHandler").Logger()

	return tagHandler{
		responder: NewResponder(logger),
		logger:    logger,
		tagRepo:   tagRepo,
	}
}

// getTags returns every tag ordered by name.
func (h tagHandler) getTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.tagRepo.FindAll()
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "tags", err))
			return
		}

		h.responder.WriteJSON(w, tags)
	}
}

// toggleTags flips the active flag on the given tags.
func (h tagHandler) toggleTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := tagIDs(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.tagRepo.ToggleActive(ids); err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("update", "tags", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{"status": "success"})
	}
}

// deleteTags removes the given tags along with their post associations.
func (h tagHandler) deleteTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ids, err := tagIDs(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.tagRepo.Delete(ids); err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("delete", "tags", err))
			return
		}

		h.logger.Info().Uints("tagIds", ids).Msg("Deleted tags")
		h.responder.WriteJSON(w, map[string]string{"status": "success"})
	}
}

// tagIDs parses the tagIds query parameter, accepting both repeated params
// and a single comma-separated value.
func tagIDs(r *http.Request) ([]uint, error) {
	var ids []uint
	for _, raw := range r.URL.Query()["tagIds"] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := parseUintParam(part)
			if err != nil {
				return nil, errs.BadRequest("invalid tag id: " + part)
			}
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, errs.BadRequest("no tag ids given")
	}
	return ids, nil
}
