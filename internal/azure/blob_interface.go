package azure

import "context"

// BlobStorage defines the interface for blob storage operations
type BlobStorage interface {
	Upload(ctx context.Context, blobName, contentType string, data []byte) (string, error)
	Download(ctx context.Context, blobName string) ([]byte, error)
}

var (
	_ BlobStorage = (*BlobStorageClient)(nil)
	_ BlobStorage = (*MemoryBlobStorage)(nil)
)
