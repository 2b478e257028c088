package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"assetapi/internal/http/middleware"
	"assetapi/internal/model"
	"assetapi/internal/service"
	serviceMocks "assetapi/internal/service/mocks"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestApp(svc service.AssetService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	assets := app.Group("/assets", middleware.Identity())
	assets.Get("/me", ListAssets(svc))
	assets.Post("/upload/:visibility", UploadAssets(svc))
	assets.Get("/single/:id", GetAsset(svc))
	assets.Delete("/:id", DeleteAsset(svc))
	return app
}

func asUser(req *http.Request, userID string) *http.Request {
	req.Header.Set(middleware.UserIDHeader, userID)
	return req
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListAssets(t *testing.T) {
	mockSvc := new(serviceMocks.MockAssetService)
	app := newTestApp(mockSvc)

	t.Run("success", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, model.UserScope("user-1")).
			Return([]model.Asset{{ID: "a1", Name: "x.png"}}, nil).Once()

		req := asUser(httptest.NewRequest(http.MethodGet, "/assets/me", nil), "user-1")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var assets []model.Asset
		json.NewDecoder(resp.Body).Decode(&assets)
		assert.Len(t, assets, 1)
		assert.Equal(t, "a1", assets[0].ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("admin scope resolves from admin header", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, model.AdminScope("admin-1")).
			Return([]model.Asset{}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/assets/me", nil)
		req.Header.Set(middleware.AdminIDHeader, "admin-1")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/assets/me", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("ambiguous identity", func(t *testing.T) {
		req := asUser(httptest.NewRequest(http.MethodGet, "/assets/me", nil), "user-1")
		req.Header.Set(middleware.AdminIDHeader, "admin-1")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, model.UserScope("user-1")).
			Return(nil, errors.New("db fail")).Once()

		req := asUser(httptest.NewRequest(http.MethodGet, "/assets/me", nil), "user-1")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	})
}

func multipartBody(t *testing.T, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	for name, content := range files {
		fw, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestUploadAssets(t *testing.T) {
	mockSvc := new(serviceMocks.MockAssetService)
	app := newTestApp(mockSvc)

	t.Run("uploads private batch", func(t *testing.T) {
		mockSvc.On("UploadMany", mock.Anything, model.UserScope("user-1"), mock.MatchedBy(func(files []model.File) bool {
			return len(files) == 1 && files[0].Name == "a.txt" && string(files[0].Content) == "hello"
		}), true).Return([]model.Asset{{ID: "a1", Name: "a.txt", IsPrivate: true}}).Once()

		body, ct := multipartBody(t, map[string][]byte{"a.txt": []byte("hello")})
		req := asUser(httptest.NewRequest(http.MethodPost, "/assets/upload/private", body), "user-1")
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var assets []model.Asset
		json.NewDecoder(resp.Body).Decode(&assets)
		assert.Len(t, assets, 1)
		assert.True(t, assets[0].IsPrivate)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid visibility", func(t *testing.T) {
		body, ct := multipartBody(t, map[string][]byte{"a.txt": []byte("x")})
		req := asUser(httptest.NewRequest(http.MethodPost, "/assets/upload/internal", body), "user-1")
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("no files", func(t *testing.T) {
		body, ct := multipartBody(t, nil)
		req := asUser(httptest.NewRequest(http.MethodPost, "/assets/upload/public", body), "user-1")
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var payload errorPayload
		json.NewDecoder(resp.Body).Decode(&payload)
		assert.Equal(t, "FILES_REQUIRED", payload.Error.Code)
	})

	t.Run("partial failure still returns the successes", func(t *testing.T) {
		mockSvc.On("UploadMany", mock.Anything, model.UserScope("user-1"), mock.Anything, false).
			Return([]model.Asset{{ID: "ok"}}).Once()

		body, ct := multipartBody(t, map[string][]byte{"a.txt": []byte("x"), "b.txt": []byte("y")})
		req := asUser(httptest.NewRequest(http.MethodPost, "/assets/upload/public", body), "user-1")
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var assets []model.Asset
		json.NewDecoder(resp.Body).Decode(&assets)
		assert.Len(t, assets, 1)
	})
}

func TestGetAsset(t *testing.T) {
	mockSvc := new(serviceMocks.MockAssetService)
	app := newTestApp(mockSvc)

	id := uuid.NewString()

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, id, model.UserScope("user-1")).
			Return(&model.Asset{ID: id, Name: "x.png"}, nil).Once()

		req := asUser(httptest.NewRequest(http.MethodGet, "/assets/single/"+id, nil), "user-1")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var asset model.Asset
		json.NewDecoder(resp.Body).Decode(&asset)
		assert.Equal(t, id, asset.ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		req := asUser(httptest.NewRequest(http.MethodGet, "/assets/single/not-a-uuid", nil), "user-1")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Get", mock.Anything, id, model.UserScope("user-1")).
			Return(nil, service.ErrNotFound).Once()

		req := asUser(httptest.NewRequest(http.MethodGet, "/assets/single/"+id, nil), "user-1")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestDeleteAsset(t *testing.T) {
	mockSvc := new(serviceMocks.MockAssetService)
	app := newTestApp(mockSvc)

	id := uuid.NewString()

	t.Run("success", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, model.UserScope("user-1"), id).
			Return(nil).Once()

		req := asUser(httptest.NewRequest(http.MethodDelete, "/assets/"+id, nil), "user-1")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, model.UserScope("user-1"), id).
			Return(service.ErrNotFound).Once()

		req := asUser(httptest.NewRequest(http.MethodDelete, "/assets/"+id, nil), "user-1")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("denied", func(t *testing.T) {
		mockSvc.On("Delete", mock.Anything, model.UserScope("user-1"), id).
			Return(service.ErrAccessDenied).Once()

		req := asUser(httptest.NewRequest(http.MethodDelete, "/assets/"+id, nil), "user-1")
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)

		var payload errorPayload
		json.NewDecoder(resp.Body).Decode(&payload)
		assert.Equal(t, "FORBIDDEN", payload.Error.Code)
	})
}
