package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"deadsignal/config"
	"deadsignal/internal/repository"
	"deadsignal/internal/service"
	"deadsignal/internal/testdb"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func toolsRouter() *gin.Engine {
	h := NewToolsHandler(40)
	r := gin.New()
	r.GET("/tools", h.List)
	r.GET("/tools/distance", h.Distance)
	r.GET("/tools/emf", h.EMF)
	r.GET("/tools/thermal", h.Thermal)
	r.GET("/tools/camera", h.Camera)
	r.GET("/tools/cone", h.Cone)
	r.GET("/tools/spirit-box", h.SpiritBox)
	return r
}

func get(t *testing.T, r http.Handler, url string) (int, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, url, nil))
	var out map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("GET %s: decode %q: %v", url, w.Body.String(), err)
	}
	return w.Code, out
}

func TestTools(t *testing.T) {
	r := toolsRouter()
	tests := []struct {
		name  string
		url   string
		code  int
		key   string
		value interface{}
	}{
		{"emf at 5m", "/tools/emf?distance=5", 200, "level", 4.0},
		{"emf boundary", "/tools/emf?distance=3", 200, "level", 4.0},
		{"emf excitable", "/tools/emf?distance=7&personality=excitable", 200, "level", 4.0},
		{"emf bad personality", "/tools/emf?distance=5&personality=angry", 400, "", nil},
		{"emf missing distance", "/tools/emf", 400, "", nil},
		{"emf NaN distance", "/tools/emf?distance=NaN", 400, "", nil},
		{"camera close", "/tools/camera?distance=2", 200, "favorability", 1.0},
		{"camera far", "/tools/camera?distance=25", 200, "favorability", 0.0},
		{"cone wraps north", "/tools/cone?bearing=5&heading=355", 200, "in_cone", true},
		{"cone outside", "/tools/cone?bearing=40&heading=0", 200, "in_cone", false},
		{"cone wide", "/tools/cone?bearing=40&heading=0&half_angle=45", 200, "in_cone", true},
		{"cone bad half angle", "/tools/cone?bearing=40&heading=0&half_angle=200", 400, "", nil},
		{"spirit box locked", "/tools/spirit-box?target_a=0.5&target_b=0.5&knob_a=0.52&knob_b=0.48&tolerance=0.05", 200, "locked", true},
		{"spirit box off", "/tools/spirit-box?target_a=0.5&target_b=0.5&knob_a=0.6&knob_b=0.5&tolerance=0.05", 200, "locked", false},
		{"thermal bad category", "/tools/thermal?distance=1&category=lava", 400, "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := get(t, r, tt.url)
			if code != tt.code {
				t.Fatalf("status = %d, want %d (%v)", code, tt.code, body)
			}
			if tt.key != "" && body[tt.key] != tt.value {
				t.Fatalf("%s = %v, want %v", tt.key, body[tt.key], tt.value)
			}
		})
	}
}

func TestTools_ThermalAndDistance(t *testing.T) {
	r := toolsRouter()
	_, body := get(t, r, "/tools/thermal?distance=3&category=cold_spot")
	reading := body["reading"].(map[string]interface{})
	if reading["temperature"] != 45.0 || reading["category"] != "cold_spot" {
		t.Fatalf("reading = %v", reading)
	}
	_, body = get(t, r, "/tools/thermal?distance=30&category=deep_cold")
	if body["reading"].(map[string]interface{})["temperature"] != 68.0 {
		t.Fatalf("out of range reading = %v", body)
	}

	code, body := get(t, r, "/tools/distance?from_lat=40.7128&from_lng=-74.0060&to_lat=40.7589&to_lng=-73.9851")
	if code != 200 {
		t.Fatalf("distance status %d", code)
	}
	d := body["distance_meters"].(float64)
	brg := body["bearing"].(float64)
	if d < 5300 || d > 5500 || brg <= 0 || brg >= 90 {
		t.Fatalf("distance = %v bearing = %v", d, brg)
	}
	if body["proximity"] != "" {
		t.Fatalf("proximity far away = %v", body["proximity"])
	}
	_, body = get(t, r, "/tools")
	if len(body["tools"].([]interface{})) != 5 {
		t.Fatalf("tools = %v", body["tools"])
	}
}

func TestGoogleOAuth_NotConfigured(t *testing.T) {
	cfg := config.Load()
	cfg.OAuth.GoogleClientID = ""
	h := NewGoogleOAuthHandler(cfg, nil, nil)
	r := gin.New()
	r.GET("/auth/google", h.Redirect)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/google", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestGoogleOAuth_Redirect(t *testing.T) {
	cfg := config.Load()
	cfg.OAuth.GoogleClientID = "client-1"
	h := NewGoogleOAuthHandler(cfg, nil, nil)
	r := gin.New()
	r.GET("/auth/google", h.Redirect)
	r.GET("/auth/google/callback", h.Callback)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/google", nil))
	if w.Code != http.StatusFound || w.Header().Get("Location") == "" {
		t.Fatalf("redirect = %d %q", w.Code, w.Header().Get("Location"))
	}
	if len(w.Result().Cookies()) == 0 {
		t.Fatal("state cookie not set")
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=x&state=forged", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("forged state = %d, want 400", w.Code)
	}
}

func TestGoogleOAuth_Token(t *testing.T) {
	tokenInfo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("id_token") != "good" {
			http.Error(w, `{"error":"invalid_token"}`, http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{
			"sub": "g-123", "aud": "client-1", "email": "seer@deadsignal.test", "name": "Night Seer",
		})
	}))
	defer tokenInfo.Close()

	db := testdb.Open(t)
	cfg := config.Load()
	cfg.OAuth.GoogleClientID = "client-1"
	users := repository.NewUserRepository(db)
	h := NewGoogleOAuthHandler(cfg, service.NewAuthService(cfg, users), repository.NewAuditLogRepository(db))
	h.tokenInfoURL = tokenInfo.URL
	r := gin.New()
	r.POST("/auth/google/token", h.Token)

	post := func(idToken string) (int, map[string]interface{}) {
		b, _ := json.Marshal(map[string]string{"id_token": idToken})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/google/token", bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		var out map[string]interface{}
		json.Unmarshal(w.Body.Bytes(), &out)
		return w.Code, out
	}

	if code, _ := post("bad"); code != http.StatusBadRequest {
		t.Fatalf("bad token = %d", code)
	}
	code, body := post("good")
	if code != http.StatusOK || body["access_token"] == "" || body["is_new_user"] != true {
		t.Fatalf("first login = %d %v", code, body)
	}
	code, body = post("good")
	if code != http.StatusOK || body["is_new_user"] != false {
		t.Fatalf("second login = %d %v", code, body)
	}
	u, err := users.GetByEmail("seer@deadsignal.test")
	if err != nil || u.Username != "night_seer" {
		t.Fatalf("user = %+v err = %v", u, err)
	}
}
