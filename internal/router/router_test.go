package router

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"deadsignal/config"
	"deadsignal/internal/repository"
	"deadsignal/internal/testdb"
	"deadsignal/pkg/location"
	"deadsignal/pkg/sensor"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type stubUploader struct{ calls int }

func (s *stubUploader) UploadImage(_ context.Context, _ io.Reader, folder, publicID string) (string, string, error) {
	s.calls++
	return "https://img.test/" + folder + "/" + publicID, "", nil
}

type apiClient struct {
	t      *testing.T
	engine *gin.Engine
	token  string
}

func (a *apiClient) do(method, path string, body interface{}, out interface{}) int {
	a.t.Helper()
	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return a.send(req, out)
}

func (a *apiClient) send(req *http.Request, out interface{}) int {
	a.t.Helper()
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	if out != nil {
		if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
			a.t.Fatalf("%s %s: decode %q: %v", req.Method, req.URL.Path, w.Body.String(), err)
		}
	}
	return w.Code
}

func setup(t *testing.T, tweaks ...func(*config.Config)) (*apiClient, *gorm.DB, *stubUploader) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testdb.Open(t)
	cfg := config.Load()
	cfg.JWT.AccessSecret = "access-test"
	cfg.JWT.RefreshSecret = "refresh-test"
	for _, tweak := range tweaks {
		tweak(cfg)
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	up := &stubUploader{}
	engine := Setup(ctx, cfg, db, up, sensor.NewLockedSource(7))
	return &apiClient{t: t, engine: engine}, db, up
}

type authResp struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID          uint `json:"id"`
		HuntsSolved int  `json:"hunts_solved"`
	} `json:"user"`
}

type snapshotResp struct {
	Snapshot *struct {
		DistanceMeters float64 `json:"distance_meters"`
		EMF            int     `json:"emf"`
		InCameraCone   bool    `json:"in_camera_cone"`
		Thermal        struct {
			Temperature float64 `json:"temperature"`
			Category    string  `json:"category"`
		} `json:"thermal"`
		Proximity   string            `json:"proximity"`
		NewEvidence []json.RawMessage `json:"new_evidence"`
	} `json:"snapshot"`
}

func TestHealthAndAuthGate(t *testing.T) {
	api, _, _ := setup(t)
	if code := api.do(http.MethodGet, "/health", nil, nil); code != http.StatusOK {
		t.Fatalf("health = %d", code)
	}
	if code := api.do(http.MethodGet, "/api/v1/hunts/active", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated = %d, want 401", code)
	}
}

func TestFullHunt(t *testing.T) {
	api, db, up := setup(t)

	var reg authResp
	code := api.do(http.MethodPost, "/api/v1/auth/register", gin.H{
		"email": "medium@deadsignal.test", "username": "medium", "password": "ouija-board",
	}, &reg)
	if code != http.StatusCreated || reg.AccessToken == "" {
		t.Fatalf("register = %d %+v", code, reg)
	}
	api.token = reg.AccessToken

	var ghosts struct {
		Ghosts []struct {
			Name string `json:"name"`
		} `json:"ghosts"`
	}
	if code := api.do(http.MethodGet, "/api/v1/ghosts", nil, &ghosts); code != http.StatusOK || len(ghosts.Ghosts) == 0 {
		t.Fatalf("ghosts = %d %+v", code, ghosts)
	}

	home := gin.H{"latitude": 40.7128, "longitude": -74.0060, "accuracy_meters": 5, "heading": 0, "ghost": "Wraith"}
	var started struct {
		Hunt struct {
			ID uint `json:"id"`
		} `json:"hunt"`
	}
	if code := api.do(http.MethodPost, "/api/v1/hunts", home, &started); code != http.StatusCreated {
		t.Fatalf("start = %d", code)
	}
	if code := api.do(http.MethodPost, "/api/v1/hunts", home, nil); code != http.StatusConflict {
		t.Fatalf("second start = %d, want 409", code)
	}

	hunt, err := repository.NewHuntRepository(db).GetActiveByUserID(reg.User.ID)
	if err != nil {
		t.Fatal(err)
	}
	ghost := hunt.GhostPosition()
	pos := location.Destination(ghost, 180, 2)
	facing := location.Bearing(pos, ghost)

	var fix snapshotResp
	code = api.do(http.MethodPatch, "/api/v1/me/location", gin.H{
		"latitude": pos.Lat, "longitude": pos.Lng, "accuracy_meters": 3, "heading": facing,
	}, &fix)
	if code != http.StatusOK || fix.Snapshot == nil {
		t.Fatalf("location = %d %+v", code, fix)
	}
	s := fix.Snapshot
	if s.EMF != 5 || !s.InCameraCone {
		t.Fatalf("2m in front of the ghost: %+v", s)
	}
	if s.Thermal.Temperature != 32 || s.Thermal.Category != "deep_cold" {
		t.Fatalf("thermal = %+v", s.Thermal)
	}
	if s.Proximity != "Right On Top Of You" {
		t.Fatalf("proximity = %q", s.Proximity)
	}
	if len(s.NewEvidence) != 2 {
		t.Fatalf("new evidence = %d, want EMF 5 and cold reading", len(s.NewEvidence))
	}

	if code := api.do(http.MethodPatch, "/api/v1/me/location", gin.H{"latitude": 91, "longitude": 0}, nil); code != http.StatusBadRequest {
		t.Fatalf("bad latitude = %d", code)
	}

	var box struct {
		SpiritBox struct {
			Locked bool `json:"locked"`
		} `json:"spirit_box"`
	}
	if code := api.do(http.MethodPost, "/api/v1/hunts/active/spirit-box", gin.H{"knob_a": 0.9, "knob_b": 0.1}, &box); code != http.StatusOK || box.SpiritBox.Locked {
		t.Fatalf("spirit box = %d %+v", code, box)
	}
	if code := api.do(http.MethodPost, "/api/v1/hunts/active/spirit-box", gin.H{"knob_a": 0.35, "knob_b": 0.72}, &box); code != http.StatusOK || !box.SpiritBox.Locked {
		t.Fatalf("tuned spirit box = %d %+v", code, box)
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	mw.WriteField("heading", strconv.FormatFloat(facing, 'f', 3, 64))
	fw, _ := mw.CreateFormFile("photo", "frame.jpg")
	png.Encode(fw, image.NewGray(image.Rect(0, 0, 32, 24)))
	mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/hunts/active/photo", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	var shot struct {
		Result struct {
			Captured bool   `json:"captured"`
			PhotoURL string `json:"photo_url"`
		} `json:"result"`
	}
	if code := api.send(req, &shot); code != http.StatusOK {
		t.Fatalf("photo = %d", code)
	}
	if shot.Result.Captured != (up.calls == 1) || shot.Result.Captured != (shot.Result.PhotoURL != "") {
		t.Fatalf("captured=%v uploads=%d url=%q", shot.Result.Captured, up.calls, shot.Result.PhotoURL)
	}

	var ev struct {
		Evidence []json.RawMessage `json:"evidence"`
	}
	path := "/api/v1/hunts/" + strconv.FormatUint(uint64(started.Hunt.ID), 10) + "/evidence"
	if code := api.do(http.MethodGet, path, nil, &ev); code != http.StatusOK || len(ev.Evidence) < 2 {
		t.Fatalf("evidence = %d, %d entries", code, len(ev.Evidence))
	}

	if code := api.do(http.MethodPost, "/api/v1/hunts/active/end", gin.H{"solved": true}, nil); code != http.StatusOK {
		t.Fatalf("end = %d", code)
	}
	if code := api.do(http.MethodGet, "/api/v1/hunts/active", nil, nil); code != http.StatusNotFound {
		t.Fatalf("active after end = %d, want 404", code)
	}
	var me struct {
		authResp
		IsAdmin bool `json:"is_admin"`
	}
	if code := api.do(http.MethodGet, "/api/v1/me", nil, &me); code != http.StatusOK || me.User.HuntsSolved != 1 || me.IsAdmin {
		t.Fatalf("me = %d %+v", code, me)
	}
	var hist struct {
		Hunts []struct {
			Status string `json:"status"`
		} `json:"hunts"`
	}
	if code := api.do(http.MethodGet, "/api/v1/hunts", nil, &hist); code != http.StatusOK || len(hist.Hunts) != 1 || hist.Hunts[0].Status != "SOLVED" {
		t.Fatalf("history = %d %+v", code, hist)
	}
	var board struct {
		Leaderboard []struct {
			Username    string `json:"username"`
			HuntsSolved int    `json:"hunts_solved"`
		} `json:"leaderboard"`
	}
	if code := api.do(http.MethodGet, "/api/v1/leaderboard", nil, &board); code != http.StatusOK || len(board.Leaderboard) != 1 || board.Leaderboard[0].Username != "medium" {
		t.Fatalf("leaderboard = %d %+v", code, board)
	}
	if code := api.do(http.MethodGet, "/api/v1/admin/ghosts", nil, nil); code != http.StatusForbidden {
		t.Fatalf("player on admin route = %d, want 403", code)
	}

	var refreshed authResp
	api.token = ""
	if code := api.do(http.MethodPost, "/api/v1/auth/refresh", gin.H{"refresh_token": reg.RefreshToken}, &refreshed); code != http.StatusOK || refreshed.AccessToken == "" {
		t.Fatalf("refresh = %d", code)
	}
}

func TestRateLimit_PerUserBehindSharedIP(t *testing.T) {
	api, _, _ := setup(t, func(cfg *config.Config) {
		cfg.RateLimit.Requests = 4
		cfg.RateLimit.Window = time.Minute
	})
	register := func(name string) string {
		var reg authResp
		api.token = ""
		code := api.do(http.MethodPost, "/api/v1/auth/register", gin.H{
			"email": name + "@deadsignal.test", "username": name, "password": "password1",
		}, &reg)
		if code != http.StatusCreated {
			t.Fatalf("register %s = %d", name, code)
		}
		return reg.AccessToken
	}

	alice := register("alice")
	api.token = alice
	for i := 0; i < 4; i++ {
		if code := api.do(http.MethodGet, "/api/v1/me", nil, nil); code != http.StatusOK {
			t.Fatalf("alice request %d = %d", i+1, code)
		}
	}
	if code := api.do(http.MethodGet, "/api/v1/me", nil, nil); code != http.StatusTooManyRequests {
		t.Fatalf("alice over her limit = %d, want 429", code)
	}

	bob := register("bob")
	api.token = bob
	if code := api.do(http.MethodGet, "/api/v1/me", nil, nil); code != http.StatusOK {
		t.Fatalf("bob's first request = %d: same IP must not share alice's bucket", code)
	}

	// Both registrations came from the test IP; two more public calls exhaust it.
	api.token = ""
	api.do(http.MethodGet, "/api/v1/tools", nil, nil)
	api.do(http.MethodGet, "/api/v1/tools", nil, nil)
	if code := api.do(http.MethodGet, "/api/v1/tools", nil, nil); code != http.StatusTooManyRequests {
		t.Fatalf("public route over the IP limit = %d, want 429", code)
	}
}

func TestLocationWithoutHunt(t *testing.T) {
	api, _, _ := setup(t)
	var reg authResp
	api.do(http.MethodPost, "/api/v1/auth/register", gin.H{
		"email": "idle@deadsignal.test", "username": "idle", "password": "password1",
	}, &reg)
	api.token = reg.AccessToken

	var fix snapshotResp
	code := api.do(http.MethodPatch, "/api/v1/me/location", gin.H{"latitude": 0, "longitude": 0, "heading": 10}, &fix)
	if code != http.StatusOK || fix.Snapshot != nil {
		t.Fatalf("location = %d %+v", code, fix)
	}
	var loc struct {
		Heading float64 `json:"heading"`
	}
	if code := api.do(http.MethodGet, "/api/v1/me/location", nil, &loc); code != http.StatusOK || loc.Heading != 10 {
		t.Fatalf("my location = %d %+v", code, loc)
	}
	if code := api.do(http.MethodPost, "/api/v1/hunts/active/end", nil, nil); code != http.StatusNotFound {
		t.Fatalf("end without hunt = %d", code)
	}
}
