package storage

import "context"

type S3Configs struct {
	Region         string
	Endpoint       string
	PublicEndpoint string
	AccessKey      string
	SecretKey      string
	Bucket         string
	SSLDisabled    bool
}

type UploadObject struct {
	Bucket   string
	Prefix   string
	FileName string
	Mime     string
	Data     []byte
}

type UploadResponse struct {
	Url      string
	FileName string
}

type Storage interface {
	// Upload stores an opaque blob and returns its public, content-addressed
	// location.
	Upload(ctx context.Context, object *UploadObject) (*UploadResponse, error)

	// UploadJson marshals obj and stores it as an application/json blob.
	UploadJson(ctx context.Context, prefix, fileName string, obj any) (*UploadResponse, error)
}
