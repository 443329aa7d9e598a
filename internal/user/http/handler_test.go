package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authservice "github.com/AlibekovAA/places-directory/internal/auth/service"
	"github.com/AlibekovAA/places-directory/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/places-directory/internal/common/crypto"
	commonhttp "github.com/AlibekovAA/places-directory/internal/common/http"
	"github.com/AlibekovAA/places-directory/internal/common/logger"
	"github.com/AlibekovAA/places-directory/internal/media"
	"github.com/AlibekovAA/places-directory/internal/store/memory"
	"github.com/AlibekovAA/places-directory/internal/user/service"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), bytes.Repeat([]byte{0}, 32)...)

type testEnv struct {
	router   http.Handler
	auth     *authservice.AuthService
	imageDir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	log := logger.Discard()
	ids := commoncrypto.NewUUIDGenerator()

	dir := t.TempDir()
	disk, err := media.NewDiskStore(dir)
	require.NoError(t, err)

	issuer := authservice.NewTokenIssuer("test-secret-key-must-be-at-least-32-bytes-long", ids, time.Hour, clock.NewRealClock())
	auth := authservice.NewAuthService(issuer, commoncrypto.NewBcryptHasher(4), log)

	users := service.NewUserService(service.Deps{
		Repo:        memory.New().Users(),
		Auth:        auth,
		IDGenerator: ids,
		Log:         log,
	})

	r := chi.NewRouter()
	NewHandler(users, media.NewUploader(disk, "disk", ids, log), time.Second, log).RegisterRoutes(r)

	return &testEnv{router: r, auth: auth, imageDir: dir}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func signupRequest(t *testing.T, fields map[string]string, image []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if image != nil {
		fw, err := mw.CreateFormFile("image", "avatar.png")
		require.NoError(t, err)
		_, err = fw.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/users/signup", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func aliceFields() map[string]string {
	return map[string]string{
		"name":     "Alice",
		"email":    "alice@example.com",
		"password": "Secret123",
	}
}

func countImages(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	n := 0
	for _, e := range entries {
		if !e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			n++
		}
	}
	return n
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp commonhttp.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Message
}

func TestSignupLoginAndList(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(signupRequest(t, aliceFields(), pngBytes))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var signed authResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &signed))
	assert.Equal(t, "alice@example.com", signed.Email)
	claims, err := env.auth.VerifyToken(signed.Token)
	require.NoError(t, err)
	assert.Equal(t, signed.UserID, claims.UserID)
	assert.Equal(t, 1, countImages(t, env.imageDir))

	login := httptest.NewRequest(http.MethodPost, "/api/users/login",
		strings.NewReader(`{"email":"alice@example.com","password":"Secret123"}`))
	rec = env.do(login)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var logged authResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &logged))
	assert.Equal(t, signed.UserID, logged.UserID)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/users", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")

	var list usersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Users, 1)
	assert.Equal(t, "Alice", list.Users[0].Name)
	assert.Equal(t, []string{}, list.Users[0].Places)
	assert.True(t, strings.HasPrefix(list.Users[0].Image, "uploads/images/"))
}

func TestSignup_DuplicateEmailDiscardsImage(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(signupRequest(t, aliceFields(), pngBytes))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(signupRequest(t, aliceFields(), pngBytes))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "User exists already, please login instead.", decodeMessage(t, rec))
	assert.Equal(t, 1, countImages(t, env.imageDir))
}

func TestSignup_InvalidInputDiscardsImage(t *testing.T) {
	env := newTestEnv(t)

	fields := aliceFields()
	fields["password"] = "short"
	rec := env.do(signupRequest(t, fields, pngBytes))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Invalid inputs passed, please check your data.", decodeMessage(t, rec))
	assert.Equal(t, 0, countImages(t, env.imageDir))
}

func TestSignup_RejectsNonImage(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(signupRequest(t, aliceFields(), []byte("plain text, not an image")))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Invalid mime type!", decodeMessage(t, rec))
}

func TestSignup_RequiresMultipart(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/users/signup", strings.NewReader(`{"name":"Alice"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := env.do(req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestLogin_Failures(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusCreated, env.do(signupRequest(t, aliceFields(), pngBytes)).Code)

	cases := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"wrong password", `{"email":"alice@example.com","password":"Wrong123"}`, http.StatusUnauthorized, "Could not identify user, credentials seem to be wrong."},
		{"unknown email", `{"email":"bob@example.com","password":"Secret123"}`, http.StatusUnauthorized, "Could not identify user, credentials seem to be wrong."},
		{"malformed json", `{"email":`, http.StatusBadRequest, "Invalid JSON body."},
		{"empty body", ``, http.StatusBadRequest, "Request body is empty."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/users/login", strings.NewReader(tc.body))
			rec := env.do(req)

			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.message, decodeMessage(t, rec))
		})
	}
}
