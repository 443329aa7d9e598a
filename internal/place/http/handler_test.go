package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
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
	"github.com/AlibekovAA/places-directory/internal/geocoding"
	"github.com/AlibekovAA/places-directory/internal/media"
	"github.com/AlibekovAA/places-directory/internal/place/dto"
	"github.com/AlibekovAA/places-directory/internal/place/service"
	"github.com/AlibekovAA/places-directory/internal/store/memory"
	userdomain "github.com/AlibekovAA/places-directory/internal/user/domain"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), bytes.Repeat([]byte{0}, 32)...)

type geocoderFunc func(ctx context.Context, address string) (geocoding.Coordinates, error)

func (f geocoderFunc) Resolve(ctx context.Context, address string) (geocoding.Coordinates, error) {
	return f(ctx, address)
}

type testEnv struct {
	router   http.Handler
	store    *memory.Store
	auth     *authservice.AuthService
	imageDir string
}

func newTestEnv(t *testing.T, geocoder geocoding.Geocoder) *testEnv {
	t.Helper()
	log := logger.Discard()
	ids := commoncrypto.NewUUIDGenerator()
	store := memory.New()

	dir := t.TempDir()
	disk, err := media.NewDiskStore(dir)
	require.NoError(t, err)
	uploader := media.NewUploader(disk, "disk", ids, log)

	issuer := authservice.NewTokenIssuer("test-secret-key-must-be-at-least-32-bytes-long", ids, time.Hour, clock.NewRealClock())
	auth := authservice.NewAuthService(issuer, commoncrypto.NewBcryptHasher(4), log)

	places := service.NewPlaceService(service.Deps{
		Repo:        store.Places(),
		TxManager:   store.TxManager(),
		Users:       store.Users(),
		Geocoder:    geocoder,
		Images:      uploader,
		IDGenerator: ids,
		Log:         log,
	})

	r := chi.NewRouter()
	NewHandler(Deps{
		Places:   places,
		Images:   uploader,
		Verifier: auth,
		Timeout:  time.Second,
		Log:      log,
	}).RegisterRoutes(r)

	return &testEnv{router: r, store: store, auth: auth, imageDir: dir}
}

func fixedGeocoder() geocoding.Geocoder {
	return geocoderFunc(func(ctx context.Context, address string) (geocoding.Coordinates, error) {
		return geocoding.Coordinates{Lat: 1, Lng: 2}, nil
	})
}

func (e *testEnv) seedUser(t *testing.T, id string) string {
	t.Helper()
	err := e.store.Users().Create(context.Background(), userdomain.User{
		ID:           userdomain.ID(id),
		Name:         id,
		Email:        id + "@example.com",
		PasswordHash: "hash",
		Image:        "uploads/images/avatar.png",
		Places:       []string{},
	})
	require.NoError(t, err)

	token, err := e.auth.IssueToken(id, id+"@example.com")
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func createRequest(t *testing.T, title, description, address string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("title", title))
	require.NoError(t, mw.WriteField("description", description))
	require.NoError(t, mw.WriteField("address", address))
	fw, err := mw.CreateFormFile("image", "place.png")
	require.NoError(t, err)
	_, err = fw.Write(pngBytes)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/places", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func (e *testEnv) createPlace(t *testing.T, token string) dto.Place {
	t.Helper()
	rec := e.do(createRequest(t, "Cafe", "Nice coffee", "1 Main St"), token)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp placeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Place
}

func imageCount(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	n := 0
	for _, e := range entries {
		if !strings.HasPrefix(e.Name(), ".") {
			n++
		}
	}
	return n
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp commonhttp.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Message
}

func TestCreateAndFetch(t *testing.T) {
	env := newTestEnv(t, fixedGeocoder())
	token := env.seedUser(t, "alice")

	place := env.createPlace(t, token)
	assert.Equal(t, "Cafe", place.Title)
	assert.Equal(t, "alice", place.Creator)
	assert.Equal(t, dto.Location{Lat: 1, Lng: 2}, place.Location)
	assert.True(t, strings.HasPrefix(place.Image, "uploads/images/"))

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/places/"+place.ID, nil), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got placeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, place, got.Place)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/places/user/alice", nil), "")
	require.Equal(t, http.StatusOK, rec.Code)

	var list placesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Places, 1)
	assert.Equal(t, place.ID, list.Places[0].ID)
}

func TestCreate_RequiresToken(t *testing.T) {
	env := newTestEnv(t, fixedGeocoder())

	rec := env.do(createRequest(t, "Cafe", "Nice coffee", "1 Main St"), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Authentication failed!", message(t, rec))

	rec = env.do(createRequest(t, "Cafe", "Nice coffee", "1 Main St"), "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, imageCount(t, env.imageDir))
}

func TestCreate_GeocodeFailureDiscardsImage(t *testing.T) {
	env := newTestEnv(t, geocoderFunc(func(ctx context.Context, address string) (geocoding.Coordinates, error) {
		return geocoding.Coordinates{}, geocoding.ErrGeocode.WithCause(errors.New("no results"))
	}))
	token := env.seedUser(t, "alice")

	rec := env.do(createRequest(t, "Cafe", "Nice coffee", "nowhere"), token)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Could not find location for the specified address.", message(t, rec))
	assert.Equal(t, 0, imageCount(t, env.imageDir))
}

func TestCreate_InvalidFields(t *testing.T) {
	env := newTestEnv(t, fixedGeocoder())
	token := env.seedUser(t, "alice")

	rec := env.do(createRequest(t, "Cafe", "tiny", "1 Main St"), token)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "Invalid inputs passed, please check your data.", message(t, rec))
	assert.Equal(t, 0, imageCount(t, env.imageDir))
}

func TestUpdate_OwnerOnly(t *testing.T) {
	env := newTestEnv(t, fixedGeocoder())
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	place := env.createPlace(t, alice)

	patch := func(token, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPatch, "/api/places/"+place.ID, strings.NewReader(body))
		return env.do(req, token)
	}

	rec := patch(bob, `{"title":"Hacked","description":"Not yours"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "You are not allowed to edit this place.", message(t, rec))

	rec = patch(alice, `{"title":"Cafe 2","description":"Even nicer coffee"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp placeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Cafe 2", resp.Place.Title)
	assert.Equal(t, place.Address, resp.Place.Address)
	assert.Equal(t, place.Image, resp.Place.Image)

	rec = patch(alice, `{"title":"","description":"Even nicer coffee"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestDelete(t *testing.T) {
	env := newTestEnv(t, fixedGeocoder())
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	place := env.createPlace(t, alice)
	require.Equal(t, 1, imageCount(t, env.imageDir))

	del := func(token string) *httptest.ResponseRecorder {
		return env.do(httptest.NewRequest(http.MethodDelete, "/api/places/"+place.ID, nil), token)
	}

	rec := del(bob)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = del(alice)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Deleted place.", message(t, rec))
	assert.Equal(t, 0, imageCount(t, env.imageDir))

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/places/"+place.ID, nil), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(httptest.NewRequest(http.MethodGet, "/api/places/user/alice", nil), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Could not find places for the provided user id.", message(t, rec))

	user, err := env.store.Users().FindByID(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, user.Places)

	rec = del(alice)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGet_UnknownPlace(t *testing.T) {
	env := newTestEnv(t, fixedGeocoder())

	rec := env.do(httptest.NewRequest(http.MethodGet, "/api/places/missing", nil), "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Could not find place for the provided id.", message(t, rec))
}
