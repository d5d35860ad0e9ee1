package scan

import (
	"context"
	"errors"
	"testing"

	"github.com/vestafn/vesta/pkg/storage"
)

type stubStorage struct{}

func (stubStorage) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	return false, nil
}

func (stubStorage) ListObjects(ctx context.Context, bucketName string, prefix string) ([]storage.ObjectInfo, error) {
	return nil, nil
}

func stubFactory(created *int) StorageFactory {
	return func(opts storage.Options) (storage.StorageService, error) {
		if created != nil {
			*created++
		}
		return stubStorage{}, nil
	}
}

func TestParseConnectionString(t *testing.T) {
	account, err := ParseConnectionString("name=prod;endpoint=minio.local:9000;accessKey=ak;secretKey=sk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.Name != "prod" {
		t.Errorf("unexpected name: %s", account.Name)
	}
	if account.Endpoint != "minio.local:9000" {
		t.Errorf("unexpected endpoint: %s", account.Endpoint)
	}
	if account.AccessKeyId != "ak" || account.SecretAccessKey != "sk" {
		t.Error("unexpected credentials")
	}
}

func TestParseConnectionStringRejectsMalformedInput(t *testing.T) {
	cases := []string{
		"name=prod",
		"endpoint=minio.local:9000",
		"name=prod;endpoint=minio.local:9000;garbage",
		"name=prod;endpoint=minio.local:9000;unknown=x",
	}
	for _, connectionString := range cases {
		if _, err := ParseConnectionString(connectionString); err == nil {
			t.Errorf("expected error for connection string %q", connectionString)
		}
	}
}

func TestResolveRegistersAccount(t *testing.T) {
	created := 0
	resolver := NewAccountResolver(stubFactory(&created))

	account, service, err := resolver.Resolve("name=prod;endpoint=minio.local:9000;accessKey=ak;secretKey=sk", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.Name != "prod" {
		t.Errorf("unexpected account name: %s", account.Name)
	}
	if service == nil {
		t.Fatal("expected a storage service")
	}
	if created != 1 {
		t.Errorf("expected 1 created service, got %d", created)
	}
}

func TestResolveByNameReusesAccount(t *testing.T) {
	created := 0
	resolver := NewAccountResolver(stubFactory(&created))

	if _, _, err := resolver.Resolve("name=prod;endpoint=minio.local:9000;accessKey=ak;secretKey=sk", ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	account, service, err := resolver.Resolve("", "prod")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.Endpoint != "minio.local:9000" {
		t.Errorf("unexpected endpoint: %s", account.Endpoint)
	}
	if service == nil {
		t.Fatal("expected the cached storage service")
	}
	if created != 1 {
		t.Errorf("expected the service to be created once, got %d", created)
	}
}

func TestResolveUnknownAccount(t *testing.T) {
	resolver := NewAccountResolver(stubFactory(nil))

	_, _, err := resolver.Resolve("", "nope")
	if !errors.Is(err, ErrUnknownAccount) {
		t.Fatalf("expected ErrUnknownAccount, got %v", err)
	}
}
