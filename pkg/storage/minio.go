package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type Options struct {
	Endpoint        string
	AccessKeyId     string
	SecretAccessKey string
}

// ObjectInfo describes a single blob inside a storage container.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

type StorageService interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	ListObjects(ctx context.Context, bucketName string, prefix string) ([]ObjectInfo, error)
}

type storageService struct {
	minioClient minio.Client
}

// NewStorageService creates a new storage service.
func NewStorageService(opts Options) (StorageService, error) {
	minioClient, err := minio.New(opts.Endpoint, &minio.Options{
		Creds: credentials.NewStaticV4(opts.AccessKeyId, opts.SecretAccessKey, ""),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %v", err)
	}

	return &storageService{
		minioClient: *minioClient,
	}, nil
}

// BucketExists returns whether the given bucket exists in the storage.
func (s *storageService) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	exists, err := s.minioClient.BucketExists(ctx, bucketName)
	if err != nil {
		return false, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	return exists, nil
}

// ListObjects lists all objects under the given prefix in the bucket.
func (s *storageService) ListObjects(ctx context.Context, bucketName string, prefix string) ([]ObjectInfo, error) {
	objects := make([]ObjectInfo, 0)
	for object := range s.minioClient.ListObjects(ctx, bucketName, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if object.Err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", object.Err)
		}
		objects = append(objects, ObjectInfo{
			Key:          object.Key,
			Size:         object.Size,
			LastModified: object.LastModified,
		})
	}
	return objects, nil
}
