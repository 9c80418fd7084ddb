package watermarkstore

import (
	"context"
	"fmt"
	"io"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
)

// AzureAPI is the subset of *azblob.Client used by Azure.
type AzureAPI interface {
	DownloadStream(ctx context.Context, containerName, blobName string, o *azblob.DownloadStreamOptions) (azblob.DownloadStreamResponse, error)
	UploadBuffer(ctx context.Context, containerName, blobName string, buffer []byte, o *azblob.UploadBufferOptions) (azblob.UploadBufferResponse, error)
}

// AzureOptions configures the client built by NewAzureFromConfig. A
// connection string takes precedence over the account URL.
type AzureOptions struct {
	AccountURL       string
	ConnectionString string
}

// Azure stores each record as block blob key in blob container container.
type Azure struct {
	client AzureAPI
}

// NewAzure wraps an existing client.
func NewAzure(client AzureAPI) *Azure {
	return &Azure{client: client}
}

// NewAzureFromConfig builds a client from a connection string, or from the
// account URL and the default Azure credential chain.
func NewAzureFromConfig(opts AzureOptions) (*Azure, error) {
	if opts.ConnectionString != "" {
		client, err := azblob.NewClientFromConnectionString(opts.ConnectionString, nil)
		if err != nil {
			return nil, fmt.Errorf("creating blob client from connection string: %w", err)
		}
		return NewAzure(client), nil
	}

	if opts.AccountURL == "" {
		return nil, fmt.Errorf("azure account url or connection string is required")
	}
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("creating azure credential: %w", err)
	}
	client, err := azblob.NewClient(opts.AccountURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("creating blob client: %w", err)
	}
	return NewAzure(client), nil
}

func (a *Azure) Exists(ctx context.Context, container, key string) (bool, error) {
	_, err := a.read(ctx, container, key)
	if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (a *Azure) Read(ctx context.Context, container, key string) (string, error) {
	contents, err := a.read(ctx, container, key)
	if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
		return "", notFound(container, key)
	}
	return contents, err
}

func (a *Azure) read(ctx context.Context, container, key string) (string, error) {
	if err := validateRef(container, key); err != nil {
		return "", err
	}

	resp, err := a.client.DownloadStream(ctx, container, key, nil)
	if err != nil {
		return "", fmt.Errorf("download blob %s/%s: %w", container, key, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxWatermarkSize))
	if err != nil {
		return "", fmt.Errorf("reading blob %s/%s: %w", container, key, err)
	}
	return string(data), nil
}

func (a *Azure) Write(ctx context.Context, container, key, contents string) error {
	if err := validateRef(container, key); err != nil {
		return err
	}

	_, err := a.client.UploadBuffer(ctx, container, key, []byte(contents), &azblob.UploadBufferOptions{
		HTTPHeaders: &blob.HTTPHeaders{
			BlobContentType: to.Ptr("text/plain; charset=utf-8"),
		},
	})
	if err != nil {
		return fmt.Errorf("upload blob %s/%s: %w", container, key, err)
	}
	return nil
}
