package azure

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"go.uber.org/zap"
)

const (
	// ContentTypePDF is stored as blob metadata for risk reports
	ContentTypePDF = "application/pdf"
	// ContentTypeXLSX is stored as blob metadata for spreadsheet exports
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var (
	// ErrEmptyBlobName is returned when an upload or download names no blob
	ErrEmptyBlobName = errors.New("blob name is required")
	// ErrBlobNotFound is returned when a download names a missing blob
	ErrBlobNotFound = errors.New("blob not found")
)

// BlobStorageClient wraps Azure Blob Storage SDK for file operations
type BlobStorageClient struct {
	client        *azblob.Client
	containerName string
	logger        *zap.Logger
}

// NewBlobStorageClient creates a new Azure Blob Storage client
func NewBlobStorageClient(accountName, accountKey, containerName string, logger *zap.Logger) (*BlobStorageClient, error) {
	if accountName == "" || accountKey == "" || containerName == "" {
		return nil, fmt.Errorf("accountName, accountKey, and containerName are required")
	}

	serviceURL := fmt.Sprintf("https://%s.blob.core.windows.net/", accountName)

	credential, err := azblob.NewSharedKeyCredential(accountName, accountKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create shared key credential: %w", err)
	}

	client, err := azblob.NewClientWithSharedKeyCredential(serviceURL, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create blob client: %w", err)
	}

	return &BlobStorageClient{
		client:        client,
		containerName: containerName,
		logger:        logger,
	}, nil
}

// ReportBlobName places a patient risk report under reports/<patient id>/
func ReportBlobName(patientID, filename string) string {
	return path.Join("reports", patientID, filename)
}

// ExportBlobName places an alert history export under exports/
func ExportBlobName(filename string) string {
	return path.Join("exports", filename)
}

// Upload stores data under blobName and returns the blob name
func (c *BlobStorageClient) Upload(ctx context.Context, blobName, contentType string, data []byte) (string, error) {
	if strings.TrimSpace(blobName) == "" {
		return "", ErrEmptyBlobName
	}

	c.logger.Info("uploading blob",
		zap.String("blob_name", blobName),
		zap.String("content_type", contentType),
		zap.Int("size_bytes", len(data)),
	)

	blobClient := c.client.ServiceClient().NewContainerClient(c.containerName).NewBlockBlobClient(blobName)

	_, err := blobClient.UploadBuffer(ctx, data, &azblob.UploadBufferOptions{
		Metadata: map[string]*string{
			"contenttype": toPtr(contentType),
		},
	})
	if err != nil {
		c.logger.Error("failed to upload blob",
			zap.String("blob_name", blobName),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to upload blob: %w", err)
	}

	c.logger.Info("blob uploaded successfully",
		zap.String("blob_name", blobName),
	)

	return blobName, nil
}

// Download reads a blob fully into memory
func (c *BlobStorageClient) Download(ctx context.Context, blobName string) ([]byte, error) {
	if strings.TrimSpace(blobName) == "" {
		return nil, ErrEmptyBlobName
	}

	c.logger.Info("downloading blob",
		zap.String("blob_name", blobName),
	)

	blobClient := c.client.ServiceClient().NewContainerClient(c.containerName).NewBlockBlobClient(blobName)

	downloadResponse, err := blobClient.DownloadStream(ctx, nil)
	if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, blobName)
	}
	if err != nil {
		c.logger.Error("failed to download blob",
			zap.String("blob_name", blobName),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to download blob: %w", err)
	}
	defer downloadResponse.Body.Close()

	data, err := io.ReadAll(downloadResponse.Body)
	if err != nil {
		c.logger.Error("failed to read blob data",
			zap.String("blob_name", blobName),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to read blob data: %w", err)
	}

	c.logger.Info("blob downloaded successfully",
		zap.String("blob_name", blobName),
		zap.Int("size_bytes", len(data)),
	)

	return data, nil
}

func toPtr(s string) *string {
	return &s
}
