package handler

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"assetapi/internal/http/middleware"
	"assetapi/internal/model"
	"assetapi/internal/service"
)

// maxUploadFiles bounds how many files one batch upload may carry.
const maxUploadFiles = 10

// HealthCheck returns a handler that checks DB connectivity only.
func HealthCheck(db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe returns a simple liveness handler.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// ListAssets returns the caller's own assets.
func ListAssets(svc service.AssetService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, ok := middleware.ScopeFromCtx(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		}
		assets, err := svc.List(c.UserContext(), scope)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(assets)
	}
}

// UploadAssets ingests a multipart batch (field name: files) under the
// visibility given by the :visibility path param (public or private).
// Files whose individual upload fails are omitted from the response.
func UploadAssets(svc service.AssetService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, ok := middleware.ScopeFromCtx(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		}

		visibility := c.Params("visibility")
		if visibility != "public" && visibility != "private" {
			return writeError(c, fiber.StatusBadRequest, "INVALID_VISIBILITY", "visibility must be public or private")
		}
		private := visibility == "private"

		form, err := c.MultipartForm()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_FORM", "invalid multipart form")
		}
		headers := form.File["files"]
		if len(headers) == 0 {
			return writeError(c, fiber.StatusBadRequest, "FILES_REQUIRED", "at least one file is required")
		}
		if len(headers) > maxUploadFiles {
			return writeError(c, fiber.StatusBadRequest, "TOO_MANY_FILES", "too many files in one upload")
		}

		files := make([]model.File, 0, len(headers))
		for _, fh := range headers {
			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded file")
			}
			content, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_READ_ERROR", "cannot read uploaded file")
			}

			ct := fh.Header.Get("Content-Type")
			if ct == "" {
				ct = "application/octet-stream"
			}
			files = append(files, model.File{
				ID:       uuid.NewString(),
				Name:     fh.Filename,
				Mimetype: ct,
				Size:     fh.Size,
				Content:  content,
			})
		}

		uploaded := svc.UploadMany(c.UserContext(), scope, files, private)
		return c.Status(fiber.StatusOK).JSON(uploaded)
	}
}

// GetAsset returns one asset by ID, scoped to the caller.
func GetAsset(svc service.AssetService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, ok := middleware.ScopeFromCtx(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		}
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		asset, err := svc.Get(c.UserContext(), id, scope)
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "asset not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(asset)
	}
}

// DeleteAsset removes one asset by ID, scoped to the caller.
func DeleteAsset(svc service.AssetService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, ok := middleware.ScopeFromCtx(c)
		if !ok {
			return writeError(c, fiber.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
		}
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		if err := svc.Delete(c.UserContext(), scope, id); err != nil {
			switch {
			case errors.Is(err, service.ErrNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "asset not found")
			case errors.Is(err, service.ErrAccessDenied):
				return writeError(c, fiber.StatusForbidden, "FORBIDDEN", "access denied")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app.
// Keep handlers minimal and free of business logic.
func RegisterRoutes(app *fiber.App, db *sql.DB, svc service.AssetService) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())

	assets := app.Group("/assets", middleware.Identity())
	assets.Get("/me", ListAssets(svc))
	assets.Post("/upload/:visibility", UploadAssets(svc))
	assets.Get("/single/:id", GetAsset(svc))
	assets.Delete("/:id", DeleteAsset(svc))
}
