package httpserver

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Admin access is an allow-list of emails plus an HMAC-signed token carried in
// a cookie. Google sign-in is the way operators obtain the token.

func (s *Server) issueAdminToken(email string, ttl time.Duration) (string, time.Time) {
	exp := time.Now().Add(ttl)
	payload := email + "|" + strconv.FormatInt(exp.Unix(), 10)
	mac := hmac.New(sha256.New, s.adminSecret)
	mac.Write([]byte(payload))
	sig := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	tok := base64.RawURLEncoding.EncodeToString([]byte(payload)) + "." + sig
	return tok, exp
}

func (s *Server) verifyAdminToken(tok string) (string, bool) {
	body, sig, found := strings.Cut(tok, ".")
	if !found {
		return "", false
	}
	raw, err := base64.RawURLEncoding.DecodeString(body)
	if err != nil {
		return "", false
	}
	mac := hmac.New(sha256.New, s.adminSecret)
	mac.Write(raw)
	want := base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(want), []byte(sig)) {
		return "", false
	}
	email, expStr, found := strings.Cut(string(raw), "|")
	if !found {
		return "", false
	}
	exp, err := strconv.ParseInt(expStr, 10, 64)
	if err != nil || time.Now().Unix() > exp {
		return "", false
	}
	return email, true
}

func (s *Server) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	tok := ""
	if c, err := r.Cookie("admin_token"); err == nil {
		tok = c.Value
	}
	if tok == "" {
		tok = strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	}
	if tok != "" {
		if email, ok := s.verifyAdminToken(tok); ok {
			if _, allowed := s.adminAllowed[strings.ToLower(email)]; allowed {
				return true
			}
		}
	}
	http.Error(w, "unauthorized", http.StatusUnauthorized)
	return false
}

func (s *Server) handleGoogleLogin(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg == nil {
		http.Error(w, "oauth not configured", http.StatusNotImplemented)
		return
	}
	state, _ := s.issueAdminToken("state", 10*time.Minute)
	http.Redirect(w, r, s.oauthCfg.AuthCodeURL(state), http.StatusFound)
}

func (s *Server) handleGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if s.oauthCfg == nil {
		http.Error(w, "oauth not configured", http.StatusNotImplemented)
		return
	}
	if _, ok := s.verifyAdminToken(r.URL.Query().Get("state")); !ok {
		http.Error(w, "bad state", http.StatusBadRequest)
		return
	}
	tok, err := s.oauthCfg.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		log.Warn().Err(err).Msg("oauth exchange failed")
		http.Error(w, "oauth exchange failed", http.StatusBadGateway)
		return
	}

	client := s.oauthCfg.Client(r.Context(), tok)
	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		http.Error(w, "userinfo failed", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()
	var info struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		http.Error(w, "userinfo decode failed", http.StatusBadGateway)
		return
	}

	email := strings.ToLower(strings.TrimSpace(info.Email))
	if _, allowed := s.adminAllowed[email]; !allowed {
		http.Error(w, fmt.Sprintf("email %s is not allowed", email), http.StatusForbidden)
		return
	}

	adminTok, exp := s.issueAdminToken(email, 6*time.Hour)
	http.SetCookie(w, &http.Cookie{
		Name:     "admin_token",
		Value:    adminTok,
		Expires:  exp,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/admin", http.StatusFound)
}
