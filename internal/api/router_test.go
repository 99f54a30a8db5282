package api_test

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/herballink/herballink-be/internal/api"
	"github.com/herballink/herballink-be/internal/api/handlers"
	"github.com/herballink/herballink-be/internal/auth"
	"github.com/herballink/herballink-be/internal/database"
	"github.com/herballink/herballink-be/internal/inference"
	"github.com/herballink/herballink-be/internal/models"
	"github.com/herballink/herballink-be/internal/services"
	"github.com/herballink/herballink-be/internal/uploads"
	"github.com/herballink/herballink-be/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClassifier satisfies handlers.ImageClassifier with canned results.
type fakeClassifier struct {
	leafLabel string
	leafConf  float64
	skinLabel string
	skinConf  float64
}

func (f *fakeClassifier) ClassifyLeaf(path string) (string, float64, error) {
	return f.leafLabel, f.leafConf, nil
}

func (f *fakeClassifier) ClassifySkin(path string) (string, float64, error) {
	return f.skinLabel, f.skinConf, nil
}

type testApp struct {
	router http.Handler
	db     *sql.DB
	scans  *services.ScanService
}

func newTestApp(t *testing.T, classifier handlers.ImageClassifier) *testApp {
	t.Helper()
	auth.Init("test-secret")

	db, err := database.New(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { db.Close() })

	store, err := uploads.NewStore(t.TempDir())
	require.NoError(t, err)

	userService := services.NewUserService(db)
	scanService := services.NewScanService(db, nil)
	hub := websocket.NewHub()

	router := api.NewRouter(hub, userService, scanService, classifier, store)
	return &testApp{router: router, db: db, scans: scanService}
}

func (a *testApp) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) register(t *testing.T, fullname, email, password, confirm string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{
		"fullname":        {fullname},
		"email":           {email},
		"password":        {password},
		"confirmPassword": {confirm},
	}
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req)
}

func (a *testApp) login(t *testing.T, email, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"email": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return a.do(req)
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func multipartImage(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 30, G: 180, B: 60, A: 255})
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestUnauthenticatedRequestsAreRedirected(t *testing.T) {
	app := newTestApp(t, &fakeClassifier{})

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/scan_home"},
		{http.MethodGet, "/scan_leaf"},
		{http.MethodGet, "/scan_skin"},
		{http.MethodPost, "/predict"},
		{http.MethodPost, "/predict-leaf"},
		{http.MethodGet, "/scans"},
	}
	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rec := app.do(httptest.NewRequest(rt.method, rt.path, nil))
			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/login", rec.Header().Get("Location"))
		})
	}
}

func TestRegisterLoginFlow(t *testing.T) {
	app := newTestApp(t, &fakeClassifier{})

	rec := app.register(t, "A", "a@x.com", "pw1234", "pw1234")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = app.login(t, "a@x.com", "pw1234")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/scan_home", rec.Header().Get("Location"))
	cookie := sessionCookie(t, rec)

	rec = app.do(httptest.NewRequest(http.MethodGet, "/scan_home", nil), cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	app := newTestApp(t, &fakeClassifier{})
	app.register(t, "A", "a@x.com", "pw1234", "pw1234")

	rec := app.login(t, "a@x.com", "wrong")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	for _, c := range rec.Result().Cookies() {
		assert.NotEqual(t, auth.CookieName, c.Name, "no session may be set on failed login")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app := newTestApp(t, &fakeClassifier{})
	app.register(t, "A", "a@x.com", "pw1234", "pw1234")

	rec := app.register(t, "B", "a@x.com", "other1", "other1")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/register", rec.Header().Get("Location"))

	var count int
	require.NoError(t, app.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestLogoutClearsSession(t *testing.T) {
	app := newTestApp(t, &fakeClassifier{})
	app.register(t, "A", "a@x.com", "pw1234", "pw1234")
	cookie := sessionCookie(t, app.login(t, "a@x.com", "pw1234"))

	rec := app.do(httptest.NewRequest(http.MethodGet, "/logout", nil), cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "session cookie must be expired on logout")
}

func TestPredictLeaf_DisallowedExtension(t *testing.T) {
	app := newTestApp(t, &fakeClassifier{leafLabel: "Neem", leafConf: 90})
	app.register(t, "A", "a@x.com", "pw1234", "pw1234")
	cookie := sessionCookie(t, app.login(t, "a@x.com", "pw1234"))

	body, contentType := multipartImage(t, "leaf.txt", []byte("not an image"))
	req := httptest.NewRequest(http.MethodPost, "/predict-leaf", body)
	req.Header.Set("Content-Type", contentType)
	rec := app.do(req, cookie)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "invalid file", resp["error"])

	records, err := app.scans.ListRecent(10)
	require.NoError(t, err)
	assert.Empty(t, records, "rejected uploads must not be logged")
}

func TestPredictLeaf_ModelUnavailable(t *testing.T) {
	// A real classifier with no models degrades to sentinel results.
	app := newTestApp(t, inference.NewClassifier(nil, nil, nil))
	app.register(t, "A", "a@x.com", "pw1234", "pw1234")
	cookie := sessionCookie(t, app.login(t, "a@x.com", "pw1234"))

	body, contentType := multipartImage(t, "leaf.png", pngBytes(t))
	req := httptest.NewRequest(http.MethodPost, "/predict-leaf", body)
	req.Header.Set("Content-Type", contentType)
	rec := app.do(req, cookie)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		LeafName   string  `json:"leaf_name"`
		Confidence float64 `json:"confidence"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Unknown", resp.LeafName)
	assert.Equal(t, 0.0, resp.Confidence)

	records, err := app.scans.ListRecent(10)
	require.NoError(t, err)
	require.Len(t, records, 1, "sentinel results are still logged")
	assert.Equal(t, "Unknown", records[0].Label)
	assert.Equal(t, "a@x.com", records[0].UserEmail)
}

func TestPredictLeaf_Success(t *testing.T) {
	app := newTestApp(t, &fakeClassifier{leafLabel: "Neem", leafConf: 87.5})
	app.register(t, "A", "a@x.com", "pw1234", "pw1234")
	cookie := sessionCookie(t, app.login(t, "a@x.com", "pw1234"))

	body, contentType := multipartImage(t, "leaf.jpg", pngBytes(t))
	req := httptest.NewRequest(http.MethodPost, "/predict-leaf", body)
	req.Header.Set("Content-Type", contentType)
	rec := app.do(req, cookie)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		LeafName   string   `json:"leaf_name"`
		Uses       string   `json:"uses"`
		Diseases   []string `json:"diseases"`
		Confidence float64  `json:"confidence"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Neem", resp.LeafName)
	assert.Contains(t, resp.Uses, "antimicrobial")
	assert.Contains(t, resp.Diseases, "Eczema")
	assert.InDelta(t, 87.5, resp.Confidence, 0.001)

	records, err := app.scans.ListRecent(10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.ScanTypeLeaf, records[0].Type)
	assert.Equal(t, "leaf.jpg", records[0].Filename)
	assert.NotEqual(t, "leaf.jpg", records[0].SavedName)
}

func TestPredictSkin_NoFile(t *testing.T) {
	app := newTestApp(t, &fakeClassifier{})
	app.register(t, "A", "a@x.com", "pw1234", "pw1234")
	cookie := sessionCookie(t, app.login(t, "a@x.com", "pw1234"))

	req := httptest.NewRequest(http.MethodPost, "/predict", nil)
	rec := app.do(req, cookie)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		PredictedClass string `json:"predicted_class"`
		Recommendation string `json:"recommendation"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "No image", resp.PredictedClass)
	assert.Equal(t, "N/A", resp.Recommendation)
}

func TestPredictSkin_Success(t *testing.T) {
	app := newTestApp(t, &fakeClassifier{skinLabel: "acne", skinConf: 0.8})
	app.register(t, "A", "a@x.com", "pw1234", "pw1234")
	cookie := sessionCookie(t, app.login(t, "a@x.com", "pw1234"))

	body, contentType := multipartImage(t, "skin.png", pngBytes(t))
	req := httptest.NewRequest(http.MethodPost, "/predict", body)
	req.Header.Set("Content-Type", contentType)
	rec := app.do(req, cookie)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		PredictedClass string  `json:"predicted_class"`
		Confidence     float64 `json:"confidence"`
		Recommendation string  `json:"recommendation"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "acne", resp.PredictedClass)
	assert.InDelta(t, 0.8, resp.Confidence, 0.001)
	assert.Contains(t, resp.Recommendation, "Neem")

	records, err := app.scans.ListRecent(10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.ScanTypeSkin, records[0].Type)
	assert.Contains(t, records[0].Recommendation, "Neem")
}

func TestPredictSkin_DisallowedExtension(t *testing.T) {
	app := newTestApp(t, &fakeClassifier{skinLabel: "acne", skinConf: 0.8})
	app.register(t, "A", "a@x.com", "pw1234", "pw1234")
	cookie := sessionCookie(t, app.login(t, "a@x.com", "pw1234"))

	body, contentType := multipartImage(t, "skin.gif", []byte("gif"))
	req := httptest.NewRequest(http.MethodPost, "/predict", body)
	req.Header.Set("Content-Type", contentType)
	rec := app.do(req, cookie)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetScans(t *testing.T) {
	app := newTestApp(t, &fakeClassifier{})
	app.register(t, "A", "a@x.com", "pw1234", "pw1234")
	cookie := sessionCookie(t, app.login(t, "a@x.com", "pw1234"))

	t.Run("empty history returns an array", func(t *testing.T) {
		rec := app.do(httptest.NewRequest(http.MethodGet, "/scans", nil), cookie)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("capped at 200 newest first", func(t *testing.T) {
		for i := 0; i < 210; i++ {
			_, err := app.scans.Record(models.ScanRecord{Type: models.ScanTypeLeaf, Label: "Tulsi"})
			require.NoError(t, err)
		}
		rec := app.do(httptest.NewRequest(http.MethodGet, "/scans", nil), cookie)
		require.Equal(t, http.StatusOK, rec.Code)

		var records []models.ScanRecord
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
		assert.Len(t, records, 200)
		for i := 1; i < len(records); i++ {
			assert.False(t, records[i].CreatedAt.After(records[i-1].CreatedAt))
		}
	})
}

func TestPublicPages(t *testing.T) {
	app := newTestApp(t, &fakeClassifier{})

	rec := app.do(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "HerbalLink")

	rec = app.do(httptest.NewRequest(http.MethodGet, "/explore", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}
