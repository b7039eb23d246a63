package api

import (
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/picboard/picboard-backend/database"
	"github.com/picboard/picboard-backend/errs"
	"github.com/picboard/picboard-backend/models"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type userHandler struct {
	responder   Responder
	logger      zerolog.Logger
	userRepo    *database.UserRepo
	settingRepo *database.SettingRepo
	sessions    sessionManager
}

func newUserHandler(userRepo *database.UserRepo, settingRepo *database.SettingRepo, sessions sessionManager) userHandler {
	logger := log.With().Str("handlerName", "userHandler").Logger()

	return userHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		userRepo:    userRepo,
		settingRepo: settingRepo,
		sessions:    sessions,
	}
}

type signupRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// sessionResponse is what the frontend keeps about the logged-in user.
type sessionResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Admin    bool   `json:"admin"`
}

// signup registers a new account when signups are open, then logs it in.
func (h userHandler) signup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		setting, err := h.settingRepo.Get()
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "setting", err))
			return
		}
		if !setting.SignUp {
			h.responder.WriteError(w, errs.NewForbiddenError("signups are closed"))
			return
		}

		var req signupRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.BadRequest("invalid request body"))
			return
		}

		// Collect every validation problem so the form can show them all at once.
		var messages []string
		if req.Username == "" {
			messages = append(messages, "Username is required.")
		}
		if !emailPattern.MatchString(req.Email) {
			messages = append(messages, "Please enter a valid email address.")
		}
		if len(req.Password) < 8 {
			messages = append(messages, "Password must be at least 8 characters.")
		}
		if req.Password != req.ConfirmPassword {
			messages = append(messages, "Passwords do not match.")
		}
		if len(messages) > 0 {
			h.responder.WriteError(w, errs.NewValidationError(messages...))
			return
		}

		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to hash password")
			h.responder.WriteError(w, errs.NewInternalError("failed to create account"))
			return
		}

		user := models.User{
			Username: req.Username,
			Email:    req.Email,
			Password: string(hashed),
			Active:   true,
		}
		if err := h.userRepo.Add(&user); err != nil {
			if errs.IsAlreadyExists(err) {
				h.responder.WriteError(w, errs.NewValidationFieldError("email", "Sorry, that email is taken."))
				return
			}
			h.responder.WriteError(w, errs.NewDatabaseError("create", "user", err))
			return
		}

		h.logger.Info().Uint("userId", user.ID).Msg("User signed up")
		h.startSession(w, user)
	}
}

// login authenticates by email and password and sets the session cookie. The
// same message covers unknown email and wrong password.
func (h userHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.BadRequest("invalid request body"))
			return
		}

		user, err := h.userRepo.FindByEmail(req.Email)
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "user", err))
			return
		}
		if user == nil || !user.Active {
			h.responder.WriteError(w, errs.NewUnauthorizedError("Invalid email or password"))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("Invalid email or password"))
			return
		}

		h.logger.Info().Uint("userId", user.ID).Msg("User logged in")
		h.startSession(w, *user)
	}
}

// logout clears the session cookie.
func (h userHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.sessions.clearCookie(w)
		h.responder.WriteJSON(w, map[string]string{"status": "success"})
	}
}

// me reports the current session so the frontend can restore login state.
func (h userHandler) me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := identityFromCtx(r.Context())
		if !ok {
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		user, err := h.userRepo.FindByID(identity.UserID)
		if err != nil {
			h.responder.WriteError(w, errs.NewDatabaseError("find", "user", err))
			return
		}
		if user == nil || !user.Active {
			h.sessions.clearCookie(w)
			h.responder.WriteError(w, errs.Unauthorized)
			return
		}

		h.responder.WriteJSON(w, sessionResponse{
			Username: user.Username,
			Email:    user.Email,
			Admin:    user.Admin,
		})
	}
}

func (h userHandler) startSession(w http.ResponseWriter, user models.User) {
	token, err := h.sessions.issue(Identity{UserID: user.ID, Admin: user.Admin})
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to sign session token")
		h.responder.WriteError(w, errs.NewInternalError("failed to start session"))
		return
	}
	h.sessions.setCookie(w, token)

	h.responder.WriteJSON(w, sessionResponse{
		Username: user.Username,
		Email:    user.Email,
		Admin:    user.Admin,
	})
}
