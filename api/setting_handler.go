package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/picboard/picboard-backend/database"
	"github.com/picboard/picboard-backend/errs"
)

type settingHandler struct {
	responder   Responder
	logger      zerolog.Logger
	settingRepo *database.SettingRepo
}

func newSettingHandler(settingRepo *database.SettingRepo) settingHandler {
	logger := log.With().Str("handlerName", "settingHandler").Logger()

	return settingHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		settingRepo: settingRepo,
	}
}

// getSignup reports whether new account registration is open.
func (h settingHandler) getSignup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setting, err := h.settingRepo.Get()
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "setting", err))
			return
		}

		h.responder.WriteJSON(w, map[string]bool{"signUp": setting.SignUp})
	}
}

// toggleSignup flips registration open or closed.
func (h settingHandler) toggleSignup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setting, err := h.settingRepo.ToggleSignUp()
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("update", "setting", err))
			return
		}

		h.logger.Info().Bool("signUp", setting.SignUp).Msg("Toggled signups")
		h.responder.WriteJSON(w, map[string]bool{"signUp": setting.SignUp})
	}
}
