package storage

import "context"

// Destination folders on the media store.
const (
	FolderImages = "customers/images"
	FolderVideos = "customers/videos"
)

// MediaStorage uploads a file buffer to an external media store and returns
// a publicly resolvable URL for it.
type MediaStorage interface {
	Upload(ctx context.Context, data []byte, filename string, folder string) (string, error)
}
