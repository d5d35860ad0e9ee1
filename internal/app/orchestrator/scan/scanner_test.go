package scan

import (
	"context"
	"errors"
	"testing"

	"github.com/vestafn/vesta/internal/app/orchestrator/registry"
	"github.com/vestafn/vesta/pkg/storage"
)

type fakeStorage struct {
	buckets     map[string][]storage.ObjectInfo
	existsErr   error
	listErr     error
	listCalled  int
	existCalled int
}

func (f *fakeStorage) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	f.existCalled++
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.buckets[bucketName]
	return ok, nil
}

func (f *fakeStorage) ListObjects(ctx context.Context, bucketName string, prefix string) ([]storage.ObjectInfo, error) {
	f.listCalled++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.buckets[bucketName], nil
}

func testAccount() Account {
	return Account{Name: "test-account", Endpoint: "localhost:9000"}
}

func TestScanRegistersDiscoveredBlobs(t *testing.T) {
	reg := registry.NewFunctionRegistry()
	store := &fakeStorage{buckets: map[string][]storage.ObjectInfo{
		"functions": {
			{Key: "prod/alpha.dll"},
			{Key: "prod/beta.dll"},
			{Key: "prod/gamma.dll"},
		},
	}}

	scanned, err := NewScanner(reg).Scan(context.Background(), testAccount(), store, "functions/prod")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if scanned != 3 {
		t.Errorf("expected 3 scanned entries, got %d", scanned)
	}
	if reg.Count() != 3 {
		t.Errorf("expected 3 registered definitions, got %d", reg.Count())
	}
}

func TestRescanCountsAllExaminedEntries(t *testing.T) {
	reg := registry.NewFunctionRegistry()
	store := &fakeStorage{buckets: map[string][]storage.ObjectInfo{
		"functions": {
			{Key: "prod/alpha.dll"},
			{Key: "prod/beta.dll"},
		},
	}}
	scanner := NewScanner(reg)

	first, err := scanner.Scan(context.Background(), testAccount(), store, "functions/prod")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := scanner.Scan(context.Background(), testAccount(), store, "functions/prod")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The count reflects examined entries, not newly indexed ones.
	if first != 2 || second != 2 {
		t.Errorf("expected both scans to report 2 entries, got %d and %d", first, second)
	}
	if reg.Count() != 2 {
		t.Errorf("expected rescan to stay idempotent, got %d definitions", reg.Count())
	}
}

func TestScanMissingContainerCountsZero(t *testing.T) {
	reg := registry.NewFunctionRegistry()
	store := &fakeStorage{buckets: map[string][]storage.ObjectInfo{}}

	scanned, err := NewScanner(reg).Scan(context.Background(), testAccount(), store, "missing/prod")
	if err != nil {
		t.Fatalf("expected missing container to be absorbed, got %v", err)
	}
	if scanned != 0 {
		t.Errorf("expected 0 scanned entries, got %d", scanned)
	}
	if reg.Count() != 0 {
		t.Errorf("expected no registrations, got %d", reg.Count())
	}
}

func TestScanStorageFailureCountsZero(t *testing.T) {
	reg := registry.NewFunctionRegistry()
	store := &fakeStorage{existsErr: errors.New("connection refused")}

	scanned, err := NewScanner(reg).Scan(context.Background(), testAccount(), store, "functions/prod")
	if err != nil {
		t.Fatalf("expected storage failure to be absorbed, got %v", err)
	}
	if scanned != 0 {
		t.Errorf("expected 0 scanned entries, got %d", scanned)
	}
}

func TestScanEnumerationFailureCountsZero(t *testing.T) {
	reg := registry.NewFunctionRegistry()
	store := &fakeStorage{
		buckets: map[string][]storage.ObjectInfo{"functions": {}},
		listErr: errors.New("read timeout"),
	}

	scanned, err := NewScanner(reg).Scan(context.Background(), testAccount(), store, "functions/prod")
	if err != nil {
		t.Fatalf("expected enumeration failure to be absorbed, got %v", err)
	}
	if scanned != 0 {
		t.Errorf("expected 0 scanned entries, got %d", scanned)
	}
}

func TestScanPropagatesCancellation(t *testing.T) {
	reg := registry.NewFunctionRegistry()
	store := &fakeStorage{existsErr: context.Canceled}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewScanner(reg).Scan(ctx, testAccount(), store, "functions/prod")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestScanDerivesAssemblyIdentity(t *testing.T) {
	reg := registry.NewFunctionRegistry()
	store := &fakeStorage{buckets: map[string][]storage.ObjectInfo{
		"functions": {{Key: "prod/Reports.Generator.dll"}},
	}}

	_, err := NewScanner(reg).Scan(context.Background(), testAccount(), store, "functions/prod")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	definitions := reg.ReadAll()
	if len(definitions) != 1 {
		t.Fatalf("expected 1 definition, got %d", len(definitions))
	}
	if definitions[0].AssemblyFullName != "Reports.Generator" {
		t.Errorf("unexpected assembly name: %s", definitions[0].AssemblyFullName)
	}
}
