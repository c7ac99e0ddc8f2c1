package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"speshway-platform/internal/auth"
	"speshway-platform/internal/blob"
	"speshway-platform/internal/memstore"
	"speshway-platform/middleware"
	"speshway-platform/models"
	"speshway-platform/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")

const testMaxUpload = 1 << 20

type testServer struct {
	router     *gin.Engine
	clients    *memstore.Clients
	banners    *memstore.HomeBanners
	images     *memstore.HomeImages
	sentences  *memstore.Sentences
	users      *memstore.Users
	blobDir    string
	adminToken string
	hrToken    string
	adminID    string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	tokens, err := auth.NewTokenManager(strings.Repeat("k", 32), rdb)
	if err != nil {
		t.Fatal(err)
	}

	blobDir := t.TempDir()
	store, err := blob.NewFilesystem(blobDir, "/uploads/%s")
	if err != nil {
		t.Fatal(err)
	}

	ts := &testServer{
		clients:   memstore.NewClients(),
		banners:   memstore.NewHomeBanners(),
		sentences: memstore.NewSentences(),
		users:     memstore.NewUsers(),
		blobDir:   blobDir,
	}
	ts.images = memstore.NewHomeImages(ts.users)

	admin := &models.User{Name: "Admin", Email: "admin@speshway.com", Role: models.RoleAdmin}
	if err := ts.users.Create(context.Background(), admin); err != nil {
		t.Fatal(err)
	}
	ts.adminID = admin.ID.Hex()
	if ts.adminToken, _, err = tokens.IssueAccessToken(context.Background(), ts.adminID, models.RoleAdmin); err != nil {
		t.Fatal(err)
	}
	if ts.hrToken, _, err = tokens.IssueAccessToken(context.Background(), "hr-1", models.RoleHR); err != nil {
		t.Fatal(err)
	}

	uploads := services.NewUploadService(store, "speshway")
	sentenceSvc := services.NewSentenceService(ts.sentences)
	authMW := middleware.NewAuthMiddleware(tokens)
	roleMW := middleware.NewRoleMiddleware()

	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	api := r.Group("/api")
	SetupHealthRoutes(api)
	SetupClientRoutes(api, services.NewClientService(ts.clients), authMW, roleMW)
	SetupHomeBannerRoutes(api, services.NewHomeBannerService(ts.banners, store), uploads, testMaxUpload, authMW, roleMW)
	SetupHomeImageRoutes(api, services.NewHomeImageService(ts.images, ts.users, store), uploads, testMaxUpload, authMW, roleMW)
	SetupSentenceRoutes(api, sentenceSvc, services.NewExportService(sentenceSvc), authMW, roleMW, nil)
	ts.router = r
	return ts
}

func (ts *testServer) do(method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func (ts *testServer) doJSON(method, path, token string, payload any) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewReader(raw)
	}
	return ts.do(method, path, token, body, "application/json")
}

// blobCount walks the blob directory and counts stored files.
func (ts *testServer) blobCount(t *testing.T) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(ts.blobDir, func(_ string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	return n
}

// multipartBody builds a form with text fields and an optional image part.
func multipartBody(t *testing.T, fields map[string]string, contentType string, image []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if image != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename="upload.png"`)
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatal(err)
		}
		part.Write(image)
	}
	w.Close()
	return &buf, w.FormDataContentType()
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodGet, "/api/health", "", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	body := decode[map[string]any](t, w)
	if body["status"] != "ok" {
		t.Errorf("status field = %v", body["status"])
	}
}

func TestClientLifecycle(t *testing.T) {
	ts := newTestServer(t)

	if w := ts.doJSON(http.MethodPost, "/api/clients", "", map[string]any{"name": "Acme"}); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous create: status %d, want 401", w.Code)
	}
	if w := ts.doJSON(http.MethodPost, "/api/clients", ts.hrToken, map[string]any{"name": "Acme"}); w.Code != http.StatusForbidden {
		t.Errorf("hr create: status %d, want 403", w.Code)
	}
	if w := ts.doJSON(http.MethodPost, "/api/clients", ts.adminToken, map[string]any{"name": "  "}); w.Code != http.StatusBadRequest {
		t.Errorf("blank name: status %d, want 400", w.Code)
	}

	w := ts.doJSON(http.MethodPost, "/api/clients", ts.adminToken, map[string]any{"name": "Acme", "website": "https://acme.test"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status %d body %s", w.Code, w.Body.String())
	}
	created := decode[models.Client](t, w)
	if !created.IsActive {
		t.Error("new client should default to active")
	}

	w = ts.doJSON(http.MethodPost, "/api/clients", ts.adminToken, map[string]any{"name": "Hidden", "isActive": false})
	if w.Code != http.StatusCreated {
		t.Fatalf("create hidden: status %d", w.Code)
	}

	public := decode[[]models.Client](t, ts.do(http.MethodGet, "/api/clients?all=true", "", nil, ""))
	if len(public) != 1 {
		t.Errorf("anonymous list with all=true returned %d clients, want 1", len(public))
	}
	hrAll := decode[[]models.Client](t, ts.do(http.MethodGet, "/api/clients?all=true", ts.hrToken, nil, ""))
	if len(hrAll) != 2 {
		t.Errorf("hr list with all=true returned %d clients, want 2", len(hrAll))
	}

	path := "/api/clients/" + created.ID.Hex()
	w = ts.doJSON(http.MethodPut, path, ts.adminToken, map[string]any{"description": "Widgets"})
	if w.Code != http.StatusOK {
		t.Fatalf("update: status %d", w.Code)
	}
	if got := decode[models.Client](t, w); got.Description != "Widgets" || got.Name != "Acme" {
		t.Errorf("update result = %+v", got)
	}

	if w := ts.do(http.MethodDelete, path, ts.adminToken, nil, ""); w.Code != http.StatusOK {
		t.Fatalf("delete: status %d", w.Code)
	} else if body := decode[map[string]any](t, w); body["message"] != "Client removed" {
		t.Errorf("delete message = %v", body["message"])
	}

	w = ts.do(http.MethodGet, path, "", nil, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("get deleted: status %d", w.Code)
	}
	if body := decode[map[string]any](t, w); body["message"] != "Client not found" || body["error_code"] != "not_found" {
		t.Errorf("not found body = %v", body)
	}
	if w := ts.do(http.MethodGet, "/api/clients/not-an-id", "", nil, ""); w.Code != http.StatusNotFound {
		t.Errorf("malformed id: status %d, want 404", w.Code)
	}
}

func TestHomeBannerUploadLifecycle(t *testing.T) {
	ts := newTestServer(t)

	body, ct := multipartBody(t, map[string]string{"title": "Spring"}, "", nil)
	w := ts.do(http.MethodPost, "/api/home-banners", ts.adminToken, body, ct)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing image: status %d", w.Code)
	}
	if msg := decode[map[string]any](t, w)["message"]; msg != "Image file is required" {
		t.Errorf("missing image message = %v", msg)
	}

	body, ct = multipartBody(t, map[string]string{"title": "Spring", "order": "2"}, "image/png", pngHeader)
	w = ts.do(http.MethodPost, "/api/home-banners", ts.adminToken, body, ct)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status %d body %s", w.Code, w.Body.String())
	}
	first := decode[models.HomeBanner](t, w)
	if first.Title != "Spring" || first.Order != 2 || !strings.HasPrefix(first.Image.URL, "/uploads/speshway/banners/") {
		t.Errorf("created banner = %+v", first)
	}
	if n := ts.blobCount(t); n != 1 {
		t.Fatalf("blob count after create = %d, want 1", n)
	}

	body, ct = multipartBody(t, nil, "image/png", pngHeader)
	w = ts.do(http.MethodPut, "/api/home-banners/"+first.ID.Hex(), ts.adminToken, body, ct)
	if w.Code != http.StatusOK {
		t.Fatalf("replace image: status %d body %s", w.Code, w.Body.String())
	}
	replaced := decode[models.HomeBanner](t, w)
	if replaced.Image.PublicID == first.Image.PublicID {
		t.Error("image was not replaced")
	}
	if replaced.Title != "Spring" {
		t.Errorf("title changed to %q", replaced.Title)
	}
	if n := ts.blobCount(t); n != 1 {
		t.Errorf("blob count after replace = %d, want 1", n)
	}

	body, ct = multipartBody(t, nil, "image/png", pngHeader)
	w = ts.do(http.MethodPut, "/api/home-banners/"+"0123456789abcdef01234567", ts.adminToken, body, ct)
	if w.Code != http.StatusNotFound {
		t.Errorf("update missing: status %d", w.Code)
	}
	if n := ts.blobCount(t); n != 1 {
		t.Errorf("orphan upload kept after failed update: %d blobs", n)
	}

	if w := ts.do(http.MethodDelete, "/api/home-banners/"+first.ID.Hex(), ts.adminToken, nil, ""); w.Code != http.StatusOK {
		t.Fatalf("delete: status %d", w.Code)
	}
	if n := ts.blobCount(t); n != 0 {
		t.Errorf("blob count after delete = %d, want 0", n)
	}
	if w := ts.do(http.MethodDelete, "/api/home-banners/"+first.ID.Hex(), ts.adminToken, nil, ""); w.Code != http.StatusNotFound {
		t.Errorf("second delete: status %d, want 404", w.Code)
	}
}

func TestHomeBannerRejectsBadUploads(t *testing.T) {
	ts := newTestServer(t)

	body, ct := multipartBody(t, nil, "text/plain", []byte("not an image"))
	if w := ts.do(http.MethodPost, "/api/home-banners", ts.adminToken, body, ct); w.Code != http.StatusBadRequest {
		t.Errorf("text file: status %d, want 400", w.Code)
	}

	big := append(append([]byte{}, pngHeader...), make([]byte, testMaxUpload)...)
	body, ct = multipartBody(t, nil, "image/png", big)
	w := ts.do(http.MethodPost, "/api/home-banners", ts.adminToken, body, ct)
	if w.Code != http.StatusBadRequest {
		t.Errorf("oversized file: status %d, want 400", w.Code)
	}
	if msg, _ := decode[map[string]any](t, w)["message"].(string); !strings.HasPrefix(msg, "File size exceeds") {
		t.Errorf("oversized message = %q", msg)
	}

	if n := ts.blobCount(t); n != 0 {
		t.Errorf("rejected uploads left %d blobs", n)
	}
	if ts.banners.Len() != 0 {
		t.Errorf("rejected uploads created %d banners", ts.banners.Len())
	}
}

func TestHomeImageEnvelope(t *testing.T) {
	ts := newTestServer(t)

	body, ct := multipartBody(t, map[string]string{"title": "Team"}, "", nil)
	w := ts.do(http.MethodPost, "/api/home-images", ts.adminToken, body, ct)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing image: status %d", w.Code)
	}
	failure := decode[map[string]any](t, w)
	if failure["success"] != false || failure["message"] != "Please upload an image" {
		t.Errorf("failure body = %v", failure)
	}

	body, ct = multipartBody(t, map[string]string{"title": "Team", "description": "Our people"}, "image/png", pngHeader)
	w = ts.do(http.MethodPost, "/api/home-images", ts.adminToken, body, ct)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status %d body %s", w.Code, w.Body.String())
	}
	created := decode[struct {
		Success bool             `json:"success"`
		Message string           `json:"message"`
		Data    models.HomeImage `json:"data"`
	}](t, w)
	if !created.Success || created.Message != "Home image created successfully" {
		t.Errorf("create envelope = %+v", created)
	}
	if created.Data.Order == 0 {
		t.Error("order was not assigned")
	}
	if created.Data.Creator == nil || created.Data.Creator.Email != "admin@speshway.com" {
		t.Errorf("creator = %+v", created.Data.Creator)
	}

	long := strings.Repeat("x", models.HomeImageTitleMax+1)
	w = ts.doJSON(http.MethodPut, "/api/home-images/"+created.Data.ID.Hex(), ts.adminToken, map[string]any{"title": long})
	if w.Code != http.StatusBadRequest {
		t.Errorf("long title: status %d, want 400", w.Code)
	}

	w = ts.doJSON(http.MethodPut, "/api/home-images/"+created.Data.ID.Hex(), ts.adminToken, map[string]any{"isActive": false})
	if w.Code != http.StatusOK {
		t.Fatalf("deactivate: status %d", w.Code)
	}
	if msg := decode[map[string]any](t, w)["message"]; msg != "Home image updated successfully" {
		t.Errorf("update message = %v", msg)
	}

	list := decode[struct {
		Success bool               `json:"success"`
		Data    []models.HomeImage `json:"data"`
	}](t, ts.do(http.MethodGet, "/api/home-images", "", nil, ""))
	if !list.Success || len(list.Data) != 0 {
		t.Errorf("public list = %+v", list)
	}
	adminList := decode[struct {
		Data []models.HomeImage `json:"data"`
	}](t, ts.do(http.MethodGet, "/api/home-images?all=true", ts.adminToken, nil, ""))
	if len(adminList.Data) != 1 {
		t.Errorf("admin list returned %d images, want 1", len(adminList.Data))
	}

	w = ts.do(http.MethodDelete, "/api/home-images/"+created.Data.ID.Hex(), ts.adminToken, nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete: status %d", w.Code)
	}
	if msg := decode[map[string]any](t, w)["message"]; msg != "Home image deleted successfully" {
		t.Errorf("delete message = %v", msg)
	}

	w = ts.do(http.MethodGet, "/api/home-images/"+created.Data.ID.Hex(), "", nil, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("get deleted: status %d", w.Code)
	}
	if body := decode[map[string]any](t, w); body["success"] != false || body["message"] != "Home image not found" {
		t.Errorf("not found body = %v", body)
	}
}

func TestSentenceRoutes(t *testing.T) {
	ts := newTestServer(t)

	if w := ts.doJSON(http.MethodPost, "/api/sentences", "", map[string]any{"text": "", "url": "https://x.test"}); w.Code != http.StatusBadRequest {
		t.Errorf("empty text: status %d, want 400", w.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/sentences",
		strings.NewReader(`{"text":"Speshway builds software.","url":"https://speshway.com/about"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "recorder-test/1.0")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: status %d body %s", w.Code, w.Body.String())
	}
	created := decode[models.Sentence](t, w)
	if created.UserAgent != "recorder-test/1.0" {
		t.Errorf("user agent = %q", created.UserAgent)
	}
	if created.Timestamp.IsZero() || created.RecordedAt.IsZero() {
		t.Error("timestamps not set")
	}

	if list := decode[[]models.Sentence](t, ts.do(http.MethodGet, "/api/sentences", "", nil, "")); len(list) != 1 {
		t.Errorf("list returned %d", len(list))
	}

	path := "/api/sentences/" + created.ID.Hex()
	if w := ts.doJSON(http.MethodPut, path, "", map[string]any{"text": "x"}); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous update: status %d, want 401", w.Code)
	}
	w = ts.doJSON(http.MethodPut, path, ts.adminToken, map[string]any{"text": "Edited sentence here."})
	if w.Code != http.StatusOK {
		t.Fatalf("update: status %d", w.Code)
	}
	if got := decode[models.Sentence](t, w); got.Text != "Edited sentence here." || got.URL != created.URL {
		t.Errorf("update result = %+v", got)
	}

	if w := ts.do(http.MethodGet, "/api/sentences/export", "", nil, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("anonymous export: status %d, want 401", w.Code)
	}
	w = ts.do(http.MethodGet, "/api/sentences/export", ts.adminToken, nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("export: status %d", w.Code)
	}
	if !strings.Contains(w.Header().Get("Content-Disposition"), ".xlsx") {
		t.Errorf("Content-Disposition = %q", w.Header().Get("Content-Disposition"))
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("PK")) {
		t.Error("export body is not a zip container")
	}

	if w := ts.do(http.MethodDelete, path, ts.adminToken, nil, ""); w.Code != http.StatusOK {
		t.Fatalf("delete: status %d", w.Code)
	} else if msg := decode[map[string]any](t, w)["message"]; msg != "Sentence removed" {
		t.Errorf("delete message = %v", msg)
	}
	if w := ts.do(http.MethodGet, path, "", nil, ""); w.Code != http.StatusNotFound {
		t.Errorf("get deleted: status %d", w.Code)
	}
}

type failingSentences struct {
	*memstore.Sentences
}

func (failingSentences) List(context.Context) ([]models.Sentence, error) {
	return nil, errors.New("connection reset")
}

func TestSentenceExportFailureAnswersJSON(t *testing.T) {
	ts := newTestServer(t)

	tokens, err := auth.NewTokenManager(strings.Repeat("k", 32), redis.NewClient(&redis.Options{Addr: miniredis.RunT(t).Addr()}))
	if err != nil {
		t.Fatal(err)
	}
	token, _, err := tokens.IssueAccessToken(context.Background(), ts.adminID, models.RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}

	svc := services.NewSentenceService(failingSentences{memstore.NewSentences()})
	r := gin.New()
	SetupSentenceRoutes(r.Group("/api"), svc, services.NewExportService(svc),
		middleware.NewAuthMiddleware(tokens), middleware.NewRoleMiddleware(), nil)
	ts.router = r

	w := ts.do(http.MethodGet, "/api/sentences/export", token, nil, "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status %d, want 500", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("content type = %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != "" {
		t.Errorf("content disposition = %q", cd)
	}
	if body := decode[map[string]any](t, w); body["error_code"] != "internal_error" {
		t.Errorf("body = %v", body)
	}
}
