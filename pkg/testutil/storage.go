package testutil

import (
	"context"
	"fmt"

	"github.com/loyalx-lab/backend/pkg/storage"
)

// MockStorage resolves uploads to deterministic URLs and keeps what it saw.
type MockStorage struct {
	Uploads []storage.UploadObject

	// UploadError fails every upload.
	UploadError error
}

func NewMockStorage() *MockStorage {
	return &MockStorage{}
}

func (s *MockStorage) Upload(
	ctx context.Context, object *storage.UploadObject,
) (*storage.UploadResponse, error) {
	if s.UploadError != nil {
		return nil, s.UploadError
	}

	s.Uploads = append(s.Uploads, *object)
	return &storage.UploadResponse{
		Url:      fmt.Sprintf("https://storage.example.com/%s/%s", object.Prefix, object.FileName),
		FileName: object.FileName,
	}, nil
}

func (s *MockStorage) UploadJson(
	ctx context.Context, prefix, fileName string, obj any,
) (*storage.UploadResponse, error) {
	return s.Upload(ctx, &storage.UploadObject{
		Prefix:   prefix,
		FileName: fileName,
		Mime:     "application/json",
	})
}
