package watermarkstore_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"

	"github.com/jsamuelsen11/go-job-core/internal/adapters/watermarkstore"
	"github.com/jsamuelsen11/go-job-core/internal/domain"
)

// fakeBlob is an in-memory AzureAPI.
type fakeBlob struct {
	mu    sync.Mutex
	blobs map[string]string
	err   error
}

func newFakeBlob() *fakeBlob {
	return &fakeBlob{blobs: make(map[string]string)}
}

func (f *fakeBlob) DownloadStream(_ context.Context, containerName, blobName string, _ *azblob.DownloadStreamOptions) (azblob.DownloadStreamResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return azblob.DownloadStreamResponse{}, f.err
	}
	body, ok := f.blobs[containerName+"/"+blobName]
	if !ok {
		return azblob.DownloadStreamResponse{}, responseError(bloberror.BlobNotFound, http.StatusNotFound)
	}
	return azblob.DownloadStreamResponse{
		DownloadResponse: blob.DownloadResponse{Body: io.NopCloser(strings.NewReader(body))},
	}, nil
}

func (f *fakeBlob) UploadBuffer(_ context.Context, containerName, blobName string, buffer []byte, _ *azblob.UploadBufferOptions) (azblob.UploadBufferResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return azblob.UploadBufferResponse{}, f.err
	}
	f.blobs[containerName+"/"+blobName] = string(buffer)
	return azblob.UploadBufferResponse{}, nil
}

func responseError(code bloberror.Code, status int) *azcore.ResponseError {
	req := &http.Request{Method: http.MethodGet, URL: &url.URL{Scheme: "https", Host: "acct.blob.core.windows.net", Path: "/wm/k"}}
	return &azcore.ResponseError{
		ErrorCode:   string(code),
		StatusCode:  status,
		RawResponse: &http.Response{StatusCode: status, Status: http.StatusText(status), Header: http.Header{}, Request: req},
	}
}

func TestAzure(t *testing.T) {
	t.Parallel()
	exerciseStore(t, watermarkstore.NewAzure(newFakeBlob()))
}

func TestAzure_MissingContainerIsNotFound(t *testing.T) {
	t.Parallel()

	fake := newFakeBlob()
	fake.err = responseError(bloberror.ContainerNotFound, http.StatusNotFound)
	store := watermarkstore.NewAzure(fake)

	exists, err := store.Exists(t.Context(), "wm", "k")
	if err != nil || exists {
		t.Errorf("Exists() = (%v, %v), want (false, nil)", exists, err)
	}
	if _, err := store.Read(t.Context(), "wm", "k"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Read() error = %v, want ErrNotFound", err)
	}
}

func TestAzure_ErrorsPropagate(t *testing.T) {
	t.Parallel()

	fake := newFakeBlob()
	fake.err = responseError(bloberror.AuthorizationFailure, http.StatusForbidden)
	store := watermarkstore.NewAzure(fake)

	var respErr *azcore.ResponseError
	if _, err := store.Exists(t.Context(), "wm", "k"); !errors.As(err, &respErr) {
		t.Errorf("Exists() error = %v, want wrapped *azcore.ResponseError", err)
	}
	if err := store.Write(t.Context(), "wm", "k", "x"); !errors.As(err, &respErr) {
		t.Errorf("Write() error = %v, want wrapped *azcore.ResponseError", err)
	}
}

func TestNewAzureFromConfig_RequiresTarget(t *testing.T) {
	t.Parallel()

	if _, err := watermarkstore.NewAzureFromConfig(watermarkstore.AzureOptions{}); err == nil {
		t.Error("NewAzureFromConfig() with no account url or connection string returned nil error")
	}
}
