package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"assetapi/internal/config"
	"assetapi/internal/event"
	"assetapi/internal/model"
	"assetapi/internal/preview"
	"assetapi/internal/repository"
	"assetapi/internal/storage"
)

var (
	ErrIDRequired         = errors.New("id is required")
	ErrScopeRequired      = errors.New("exactly one ownership identity is required")
	ErrNotFound           = errors.New("asset not found")
	ErrAccessDenied       = errors.New("access denied")
	ErrStorageUnavailable = errors.New("blob store is not configured")
	ErrImagingUnavailable = errors.New("image processor is not configured")
	ErrNoUploadURL        = errors.New("blob store did not return a URL")
)

// thumbnailSuffix is appended to the effective filename for derived previews.
const thumbnailSuffix = "-thumbnail"

// AssetService defines the use cases for handling assets. All operations are
// scoped to exactly one ownership identity; none of them panic, and every
// failure surfaces as a typed error the transport layer can map.
type AssetService interface {
	// Upload runs the full single-asset ingestion sequence: store the binary
	// (or adopt a pre-hosted URL), derive image metadata and an optional
	// thumbnail, persist the record once, then notify observers. The record is
	// only ever persisted after every derivation step has succeeded.
	// name overrides the stored filename when non-empty.
	Upload(ctx context.Context, scope model.Scope, file model.File, private bool, name string) (*model.Asset, error)

	// UploadMany applies Upload to each file sequentially. Files whose upload
	// fails are logged and omitted; the batch itself never fails as a whole.
	UploadMany(ctx context.Context, scope model.Scope, files []model.File, private bool) []model.Asset

	// List returns the assets owned by the scope's identity.
	List(ctx context.Context, scope model.Scope) ([]model.Asset, error)

	// Get returns a single asset by ID. The scope must own the asset; a
	// mismatch is indistinguishable from a missing record.
	Get(ctx context.Context, id string, scope model.Scope) (*model.Asset, error)

	// Delete verifies ownership, notifies observers, removes the binary
	// content best-effort, then deletes the record. Blob deletion failures are
	// logged and never block the record delete.
	Delete(ctx context.Context, scope model.Scope, id string) error
}

// assetService is a concrete implementation of AssetService.
type assetService struct {
	store  storage.BlobStore
	repo   repository.AssetRepository
	images preview.Processor
	events *event.Notifier
	cfg    config.AssetConfig
}

// NewAssetService constructs a new AssetService. store and images may be nil
// when the host provides no such capability; operations that need them fail
// with ErrStorageUnavailable instead of panicking.
func NewAssetService(store storage.BlobStore, repo repository.AssetRepository, images preview.Processor, events *event.Notifier, cfg config.AssetConfig) AssetService {
	return &assetService{store: store, repo: repo, images: images, events: events, cfg: cfg}
}

func (s *assetService) Upload(ctx context.Context, scope model.Scope, file model.File, private bool, name string) (*model.Asset, error) {
	if !scope.Valid() {
		return nil, ErrScopeRequired
	}

	// Effective filename: explicit name, else the client filename, else the file id.
	effName := name
	if effName == "" {
		effName = file.Name
	}
	if effName == "" {
		effName = file.ID
	}

	result, err := s.storeBinary(ctx, file, effName, private)
	if err != nil {
		return nil, err
	}
	if result.URL == "" {
		return nil, ErrNoUploadURL
	}

	draft := &model.Asset{
		ID:        uuid.New().String(),
		Key:       result.Key,
		URL:       result.URL,
		Bucket:    result.Bucket,
		Region:    result.Region,
		Name:      effName,
		Filesize:  file.Size,
		Mimetype:  file.Mimetype,
		Type:      model.KindOf(file.Mimetype),
		IsPrivate: private,
		CreatedAt: time.Now().UTC(),
	}
	if scope.IsAdmin() {
		draft.AdminID = &scope.AdminID
	} else {
		draft.UserID = &scope.UserID
	}

	if draft.Type == model.KindImage && len(file.Content) > 0 {
		if err := s.deriveImage(ctx, draft, file, effName+thumbnailSuffix, private); err != nil {
			return nil, err
		}
	} else if idx := strings.Index(file.Mimetype, "/"); idx >= 0 && idx+1 < len(file.Mimetype) {
		draft.Format = file.Mimetype[idx+1:]
	}

	stored, err := s.repo.Create(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("persist asset: %w", err)
	}

	// Observer failures never affect the returned asset.
	if s.events != nil {
		s.events.PublishUpload(event.UploadEvent{File: file, IsPrivate: private, Result: result})
	}

	return stored, nil
}

// storeBinary resolves the primary content location. Files that already carry
// an external URL skip the blob store entirely: the location fields are
// synthesized from the payload and the file's own id becomes the key.
func (s *assetService) storeBinary(ctx context.Context, file model.File, effName string, private bool) (storage.UploadResult, error) {
	if file.URL != "" {
		return storage.UploadResult{
			URL:    file.URL,
			Key:    file.ID,
			Bucket: file.Bucket,
			Region: file.Region,
		}, nil
	}

	if s.store == nil {
		return storage.UploadResult{}, ErrStorageUnavailable
	}

	result, err := s.store.Upload(ctx, bytes.NewReader(file.Content), int64(len(file.Content)), file.Mimetype, effName, private)
	if err != nil {
		return storage.UploadResult{}, fmt.Errorf("upload to storage: %w", err)
	}
	return result, nil
}

// deriveImage decodes width/height/format from the original bytes and, when
// preview generation is enabled, uploads a width-bounded thumbnail. Any
// failure here aborts the whole asset creation; no record is left behind.
func (s *assetService) deriveImage(ctx context.Context, draft *model.Asset, file model.File, thumbName string, private bool) error {
	if s.images == nil {
		return ErrImagingUnavailable
	}

	meta, err := s.images.Decode(file.Content)
	if err != nil {
		return fmt.Errorf("decode image metadata: %w", err)
	}
	draft.Width = meta.Width
	draft.Height = meta.Height
	draft.Format = meta.Format

	if !s.cfg.GeneratePreview {
		return nil
	}

	thumb, err := s.images.Resize(file.Content, s.cfg.PreviewMaxWidth)
	if err != nil {
		return fmt.Errorf("create thumbnail: %w", err)
	}

	if s.store == nil {
		return ErrStorageUnavailable
	}
	res, err := s.store.Upload(ctx, bytes.NewReader(thumb), int64(len(thumb)), file.Mimetype, thumbName, private)
	if err != nil {
		return fmt.Errorf("upload thumbnail: %w", err)
	}
	draft.ThumbnailURL = res.URL
	draft.ThumbnailKey = res.Key

	return nil
}

// UploadMany processes files one at a time rather than in parallel, bounding
// peak memory and outbound storage requests for multi-file ingestion.
func (s *assetService) UploadMany(ctx context.Context, scope model.Scope, files []model.File, private bool) []model.Asset {
	results := make([]model.Asset, 0, len(files))
	for _, file := range files {
		asset, err := s.Upload(ctx, scope, file, private, "")
		if err != nil {
			log.Printf("asset upload failed for %q: %v", file.Name, err)
			continue
		}
		results = append(results, *asset)
	}
	return results
}

// List returns the scope's own assets. User and admin scopes never see each
// other's records.
func (s *assetService) List(ctx context.Context, scope model.Scope) ([]model.Asset, error) {
	if !scope.Valid() {
		return nil, ErrScopeRequired
	}
	return s.repo.FindByOwner(ctx, scope)
}

// Get returns an asset by ID, requiring the scope to match its owner.
func (s *assetService) Get(ctx context.Context, id string, scope model.Scope) (*model.Asset, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if !scope.Valid() {
		return nil, ErrScopeRequired
	}

	asset, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !visibleTo(asset, scope) {
		return nil, ErrNotFound
	}
	return asset, nil
}

func (s *assetService) Delete(ctx context.Context, scope model.Scope, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	if !scope.Valid() {
		return ErrScopeRequired
	}

	asset, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}

	// Any admin identity may delete any asset; users may only delete their own.
	if !scope.IsAdmin() && !asset.OwnedByUser(scope.UserID) {
		return ErrAccessDenied
	}

	if asset.Key != "" {
		if s.events != nil {
			s.events.PublishDelete(event.DeleteEvent{AssetID: asset.ID, IsPrivate: asset.IsPrivate})
		}
		if s.store != nil {
			if err := s.store.Delete(ctx, asset.Key, asset.IsPrivate); err != nil {
				log.Printf("delete asset binary %q: %v", asset.Key, err)
			}
		}
	}
	// The thumbnail delete is gated only on the key's existence, not on the
	// primary branch having run.
	if asset.ThumbnailKey != "" && s.store != nil {
		if err := s.store.Delete(ctx, asset.ThumbnailKey, asset.IsPrivate); err != nil {
			log.Printf("delete asset thumbnail %q: %v", asset.ThumbnailKey, err)
		}
	}

	// The record delete is authoritative; blob cleanup above is best-effort.
	return s.repo.Delete(ctx, id)
}

// visibleTo implements the scoping rule shared by list and get: users see
// their own assets, admins see assets they own as admins.
func visibleTo(asset *model.Asset, scope model.Scope) bool {
	if scope.IsAdmin() {
		return asset.OwnedByAdmin(scope.AdminID)
	}
	return asset.OwnedByUser(scope.UserID)
}
