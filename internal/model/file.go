package model

// File is a validated incoming file payload, as handed to the core by the
// transport layer. Content holds the buffered bytes for files uploaded
// directly; URL (plus Bucket/Region) is set instead when the caller registers
// an asset that is already hosted elsewhere.
type File struct {
	ID       string
	Name     string
	Mimetype string
	Size     int64
	Content  []byte

	URL    string
	Bucket string
	Region string
}
