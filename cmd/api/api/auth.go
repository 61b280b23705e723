package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mockstack/mockstack/lib/identity"
	mw "github.com/mockstack/mockstack/lib/middleware"
)

// authRequest mirrors the nested body of POST /v3/auth/tokens. Every level is
// a pointer so a missing path segment is detectable.
type authRequest struct {
	Auth *struct {
		Identity *struct {
			Password *struct {
				User *struct {
					Name     *string `json:"name"`
					Password *string `json:"password"`
				} `json:"user"`
			} `json:"password"`
		} `json:"identity"`
	} `json:"auth"`
}

// credentials extracts the username and password, reporting whether the
// required path was present.
func (a *authRequest) credentials() (string, string, bool) {
	if a.Auth == nil || a.Auth.Identity == nil || a.Auth.Identity.Password == nil || a.Auth.Identity.Password.User == nil {
		return "", "", false
	}
	user := a.Auth.Identity.Password.User
	if user.Name == nil || user.Password == nil {
		return "", "", false
	}
	return *user.Name, *user.Password, true
}

// CreateTokenHandler handles POST /v3/auth/tokens
func (s *ApiService) CreateTokenHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req authRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondDetail(w, r, http.StatusBadRequest, "Malformed authentication body")
		return
	}
	name, password, ok := req.credentials()
	if !ok {
		respondDetail(w, r, http.StatusBadRequest, "Malformed authentication body")
		return
	}

	sess, err := s.IdentityManager.Login(ctx, name, password)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrBadCredentials):
			respondDetail(w, r, http.StatusUnauthorized, "Bad credentials")
		default:
			respondInternalError(w, r, err, "failed to log in")
		}
		return
	}

	// Clients that only read headers still get the token
	w.Header().Set("X-Subject-Token", sess.Token)
	respondJSON(w, r, http.StatusOK, sess)
}

// LogoutHandler handles POST /v3/auth/logout. Revoking an absent token is
// fine; the endpoint always acknowledges.
func (s *ApiService) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := r.Header.Get(mw.AuthTokenHeader)
	if err := s.IdentityManager.Logout(ctx, token); err != nil {
		respondInternalError(w, r, err, "failed to log out")
		return
	}
	respondDetail(w, r, http.StatusOK, "Logged out")
}
