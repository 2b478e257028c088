package model

import (
	"strings"
	"time"
)

// AssetKind is the coarse classification of an asset derived from its MIME type.
type AssetKind string

const (
	KindImage    AssetKind = "IMAGE"
	KindVideo    AssetKind = "VIDEO"
	KindDocument AssetKind = "DOCUMENT"
	KindOther    AssetKind = "OTHER"
)

// KindOf maps a MIME type to an AssetKind. Matches are substring checks in
// fixed priority order (image, video, application); anything else is OTHER.
// The kind is computed once at creation time and never recomputed.
func KindOf(mimetype string) AssetKind {
	switch {
	case strings.Contains(mimetype, "image"):
		return KindImage
	case strings.Contains(mimetype, "video"):
		return KindVideo
	case strings.Contains(mimetype, "application"):
		return KindDocument
	default:
		return KindOther
	}
}

// Asset represents one uploaded or externally registered file and its derived
// metadata. This is a pure domain model with no database-specific dependencies
// or tags; it is immutable once created, except for deletion.
type Asset struct {
	ID     string `json:"id"`
	Key    string `json:"key,omitempty"`
	URL    string `json:"url"`
	Bucket string `json:"bucket,omitempty"`
	Region string `json:"region,omitempty"`

	Name     string    `json:"name"`
	Filesize int64     `json:"filesize"`
	Mimetype string    `json:"mimetype"`
	Type     AssetKind `json:"type"`

	IsPrivate bool `json:"is_private"`

	// Image-only fields. Width/Height are set only for IMAGE assets; Format
	// holds the decoded image format, or the MIME subtype for everything else.
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Format string `json:"format,omitempty"`

	// Thumbnail location, present only for IMAGE assets uploaded while
	// preview generation was enabled.
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	ThumbnailKey string `json:"thumbnail_key,omitempty"`

	// Exactly one of UserID/AdminID is set at creation.
	UserID  *string `json:"user_id,omitempty"`
	AdminID *string `json:"admin_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// OwnedByUser reports whether the asset belongs to the given user.
func (a *Asset) OwnedByUser(userID string) bool {
	return a.UserID != nil && *a.UserID == userID
}

// OwnedByAdmin reports whether the asset belongs to the given admin.
func (a *Asset) OwnedByAdmin(adminID string) bool {
	return a.AdminID != nil && *a.AdminID == adminID
}
