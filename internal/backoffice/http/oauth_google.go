package http

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/lumenlms/backoffice/internal/backoffice/service"
	"github.com/lumenlms/backoffice/pkg/cryptox"
	"github.com/lumenlms/backoffice/pkg/slogx"
)

const stateCookie = "oauth_state"

// GoogleHandler drives the browser half of the Google login flow: a
// redirect out to the consent screen and the callback that turns the
// authorization code into a local session. The callback never renders JSON;
// it hands the browser back to the front end with tokens in the query on
// success or an error class on failure.
type GoogleHandler struct {
	OAuth *service.OAuthService

	// CallbackURL is the front-end route receiving tokens after a
	// successful provider login. LoginURL receives ?error= on failure.
	CallbackURL string
	LoginURL    string
}

// HandleRedirect starts the flow: mint a one-shot state value, pin it in a
// short-lived cookie and send the browser to the consent screen.
func (h *GoogleHandler) HandleRedirect(w http.ResponseWriter, r *http.Request) {
	state, err := cryptox.GenerateToken(cryptox.TokenSize128)
	if err != nil {
		h.redirectError(w, r, "server_error")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Path:     "/v1/auth/google",
		MaxAge:   int(10 * time.Minute / time.Second),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.OAuth.AuthCodeURL(state), http.StatusFound)
}

// HandleCallback finishes the flow. Every failure class collapses into an
// error code on the login page redirect; the distinguishing detail goes to
// the server log only.
func (h *GoogleHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())

	if upstreamErr := r.URL.Query().Get("error"); upstreamErr != "" {
		log.Warn("provider returned error", "error", upstreamErr)
		h.redirectError(w, r, "access_denied")
		return
	}

	cookie, err := r.Cookie(stateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != r.URL.Query().Get("state") {
		log.Warn("oauth state mismatch")
		h.redirectError(w, r, "invalid_state")
		return
	}
	h.clearStateCookie(w, r)

	code := r.URL.Query().Get("code")
	if code == "" {
		h.redirectError(w, r, "missing_code")
		return
	}

	session, err := h.OAuth.Login(r.Context(), code, clientIP(r))
	if err != nil {
		if errors.Is(err, service.ErrUpstreamProvider) {
			log.Error("provider login failed", "err", err)
			h.redirectError(w, r, "provider_error")
			return
		}
		log.Error("provider session issue failed", "err", err)
		h.redirectError(w, r, "server_error")
		return
	}

	target, err := url.Parse(h.CallbackURL)
	if err != nil {
		h.redirectError(w, r, "server_error")
		return
	}
	q := target.Query()
	q.Set("accessToken", session.Tokens.AccessToken)
	q.Set("refreshToken", session.Tokens.RefreshToken)
	target.RawQuery = q.Encode()
	http.Redirect(w, r, target.String(), http.StatusFound)
}

func (h *GoogleHandler) redirectError(w http.ResponseWriter, r *http.Request, code string) {
	target := h.LoginURL
	if u, err := url.Parse(h.LoginURL); err == nil {
		q := u.Query()
		q.Set("error", code)
		u.RawQuery = q.Encode()
		target = u.String()
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func (h *GoogleHandler) clearStateCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    "",
		Path:     "/v1/auth/google",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}
