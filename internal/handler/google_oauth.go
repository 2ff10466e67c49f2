package handler

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/url"

	"deadsignal/config"
	"deadsignal/internal/repository"
	"deadsignal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	googleUserInfoURL  = "https://www.googleapis.com/oauth2/v2/userinfo"
	googleTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"
	oauthStateCookie   = "ds_oauth_state"
)

type GoogleOAuthHandler struct {
	cfg          *config.Config
	authSvc      *service.AuthService
	auditRepo    *repository.AuditLogRepository
	tokenInfoURL string
}

func NewGoogleOAuthHandler(cfg *config.Config, authSvc *service.AuthService, auditRepo *repository.AuditLogRepository) *GoogleOAuthHandler {
	return &GoogleOAuthHandler{
		cfg:          cfg,
		authSvc:      authSvc,
		auditRepo:    auditRepo,
		tokenInfoURL: googleTokenInfoURL,
	}
}

func (h *GoogleOAuthHandler) OAuth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.cfg.OAuth.GoogleClientID,
		ClientSecret: h.cfg.OAuth.GoogleClientSecret,
		RedirectURL:  h.cfg.OAuth.GoogleRedirectURL,
		Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
		Endpoint:     google.Endpoint,
	}
}

func (h *GoogleOAuthHandler) configured(c *gin.Context) bool {
	if h.cfg.OAuth.GoogleClientID == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google OAuth not configured"})
		return false
	}
	return true
}

// Redirect redirects user to Google consent screen.
func (h *GoogleOAuthHandler) Redirect(c *gin.Context) {
	if !h.configured(c) {
		return
	}
	state := uuid.NewString()
	c.SetCookie(oauthStateCookie, state, 600, "/", "", h.cfg.Server.Env == "production", true)
	c.Redirect(http.StatusFound, h.OAuth2Config().AuthCodeURL(state, oauth2.AccessTypeOffline))
}

type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Callback exchanges code for tokens, fetches user info, creates/links user, returns JWT.
func (h *GoogleOAuthHandler) Callback(c *gin.Context) {
	if !h.configured(c) {
		return
	}
	if state, err := c.Cookie(oauthStateCookie); err != nil || state == "" || state != c.Query("state") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid oauth state"})
		return
	}
	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing code"})
		return
	}
	ctx := c.Request.Context()
	conf := h.OAuth2Config()
	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "exchange failed"})
		return
	}
	resp, err := conf.Client(ctx, tok).Get(googleUserInfoURL)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to get user info"})
		return
	}
	defer resp.Body.Close()
	var info googleUserInfo
	if resp.StatusCode != http.StatusOK || json.NewDecoder(resp.Body).Decode(&info) != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "invalid user info"})
		return
	}
	h.login(c, info.ID, info.Email, info.Name, info.Picture)
}

// tokeninfoResponse is the response from https://oauth2.googleapis.com/tokeninfo?id_token=...
type tokeninfoResponse struct {
	Sub     string `json:"sub"` // Google ID
	Aud     string `json:"aud"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// Token accepts an ID token from the mobile app (google_sign_in) and returns JWT.
func (h *GoogleOAuthHandler) Token(c *gin.Context) {
	if !h.configured(c) {
		return
	}
	var req struct {
		IDToken string `json:"id_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id_token required"})
		return
	}
	resp, err := http.Get(h.tokenInfoURL + "?id_token=" + url.QueryEscape(req.IDToken))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "token verification failed"})
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id_token", "detail": string(body)})
		return
	}
	var info tokeninfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "invalid token response"})
		return
	}
	if info.Sub == "" || info.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid token payload"})
		return
	}
	if info.Aud != "" && info.Aud != h.cfg.OAuth.GoogleClientID {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "id_token issued for another client"})
		return
	}
	h.login(c, info.Sub, info.Email, info.Name, info.Picture)
}

func (h *GoogleOAuthHandler) login(c *gin.Context, googleID, email, name, picture string) {
	u, access, refresh, isNew, err := h.authSvc.LoginWithGoogle(googleID, email, name, picture)
	if err != nil {
		log.Printf("[auth] google login failed: email=%s err=%v", email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	auditLog(h.auditRepo, u.ID, "google_oauth_login", c)
	c.JSON(http.StatusOK, gin.H{
		"user":          u,
		"access_token":  access,
		"refresh_token": refresh,
		"is_new_user":   isNew,
	})
}
