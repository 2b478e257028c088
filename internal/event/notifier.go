package event

import (
	"log"
	"sync"

	"assetapi/internal/model"
	"assetapi/internal/storage"
)

// UploadEvent is published after an asset record has been persisted.
type UploadEvent struct {
	File      model.File
	IsPrivate bool
	Result    storage.UploadResult
}

// DeleteEvent is published before an asset's binary content is removed.
type DeleteEvent struct {
	AssetID   string
	IsPrivate bool
}

// Notifier fans events out to registered listeners. Publishing is synchronous
// and can never fail the surrounding orchestration: listener panics are
// recovered and logged. Registration is safe for concurrent use.
type Notifier struct {
	mu       sync.RWMutex
	onUpload []func(UploadEvent)
	onDelete []func(DeleteEvent)
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// OnUpload registers a listener for upload events.
func (n *Notifier) OnUpload(fn func(UploadEvent)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.onUpload = append(n.onUpload, fn)
}

// OnDelete registers a listener for pre-delete events.
func (n *Notifier) OnDelete(fn func(DeleteEvent)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.onDelete = append(n.onDelete, fn)
}

// PublishUpload delivers the event to all upload listeners.
func (n *Notifier) PublishUpload(e UploadEvent) {
	n.mu.RLock()
	fns := n.onUpload
	n.mu.RUnlock()
	for _, fn := range fns {
		invoke(func() { fn(e) })
	}
}

// PublishDelete delivers the event to all delete listeners.
func (n *Notifier) PublishDelete(e DeleteEvent) {
	n.mu.RLock()
	fns := n.onDelete
	n.mu.RUnlock()
	for _, fn := range fns {
		invoke(func() { fn(e) })
	}
}

func invoke(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("asset event listener panicked: %v", r)
		}
	}()
	fn()
}
