package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mlukyanov/userd/internal/common"
	"github.com/mlukyanov/userd/internal/server/services"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	req := &registerRequest{}
	if !s.decode(w, r, req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	profile, err := s.users.Register(r.Context(), &services.RegisterRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		GitID:    req.GitID,
		Avatar:   req.Avatar,
		Twitter:  req.Twitter,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, profile)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	req := &loginRequest{}
	if !s.decode(w, r, req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	// an already-held session token is reused rather than re-minted
	profile, err := s.users.Login(r.Context(), req.Email, req.Password, bearerToken(r))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleOnboard(w http.ResponseWriter, r *http.Request) {
	req := &onboardRequest{}
	if !s.decode(w, r, req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	profile, err := s.onboard.RegisterWithToken(r.Context(), &services.OnboardingRequest{
		AccessToken: req.AccessToken,
		TokenType:   req.TokenType,
		Scope:       req.Scope,
		Email:       req.Email,
		Password:    req.Password,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, profile)
}

func (s *Server) handleGetSelf(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		s.writeError(w, r, common.ErrInvalidToken)
		return
	}

	profile, err := s.users.GetProfile(r.Context(), user.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleUpdateSelf(w http.ResponseWriter, r *http.Request) {
	user, ok := userFrom(r.Context())
	if !ok {
		s.writeError(w, r, common.ErrInvalidToken)
		return
	}

	req := &updateRequest{}
	if !s.decode(w, r, req) {
		return
	}
	if err := req.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	profile, err := s.users.UpdateSelf(r.Context(), user.ID, &services.UpdateRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Avatar:   req.Avatar,
		Twitter:  req.Twitter,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleFindByGitID(w http.ResponseWriter, r *http.Request) {
	profile, err := s.users.FindByGitID(r.Context(), chi.URLParam(r, "gitID"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, profile)
}

func (s *Server) handleAdjustWallet(w http.ResponseWriter, r *http.Request) {
	req := &walletRequest{}
	if !s.decode(w, r, req) {
		return
	}

	if err := s.wallet.AdjustWallet(r.Context(), chi.URLParam(r, "id"), req.Delta); err != nil {
		s.writeError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- encoding helpers ---

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeError(w, r, &common.ValidationError{Field: "body", Reason: "malformed JSON"})
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the service error taxonomy onto HTTP status codes. Raw
// store or provider detail never reaches this point; the services already
// collapsed it.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	type errorBody struct {
		Error string `json:"error"`
		Field string `json:"field,omitempty"`
	}

	var (
		status   int
		body     errorBody
		conflict *common.ConflictError
		invalid  *common.ValidationError
	)

	switch {
	case errors.As(err, &conflict):
		status, body = http.StatusConflict, errorBody{Error: conflict.Error(), Field: conflict.Field}
	case errors.As(err, &invalid):
		status, body = http.StatusBadRequest, errorBody{Error: invalid.Error(), Field: invalid.Field}
	case errors.Is(err, common.ErrInvalidCredentials):
		status, body = http.StatusUnauthorized, errorBody{Error: err.Error()}
	case errors.Is(err, common.ErrTokenExpired), errors.Is(err, common.ErrInvalidToken):
		status, body = http.StatusUnauthorized, errorBody{Error: err.Error()}
	case errors.Is(err, common.ErrNotFound):
		status, body = http.StatusNotFound, errorBody{Error: err.Error()}
	case errors.Is(err, common.ErrOnboarding):
		status, body = http.StatusBadRequest, errorBody{Error: err.Error()}
	default:
		status, body = http.StatusInternalServerError, errorBody{Error: common.ErrInternal.Error()}
		s.logger.Error(r.Context(), "internal error", "path", r.URL.Path, "error", err.Error())
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
