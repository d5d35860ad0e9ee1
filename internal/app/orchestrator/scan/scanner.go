package scan

import (
	"context"
	"strings"

	"github.com/vestafn/vesta/internal/app/orchestrator/models"
	"github.com/vestafn/vesta/internal/app/orchestrator/registry"
	"github.com/vestafn/vesta/internal/pkg/naming"
	"github.com/vestafn/vesta/pkg/logger"
	"github.com/vestafn/vesta/pkg/storage"
)

var log = logger.NewLogger("vesta.orchestrator.scan")

// Scanner enumerates blobs of a storage container and registers a function
// definition for every entry. Scanning is best-effort discovery: storage
// failures and missing containers count as zero entries, not as errors.
type Scanner interface {
	Scan(ctx context.Context, account Account, store storage.StorageService, containerPath string) (int, error)
}

type scanner struct {
	functionRegistry registry.FunctionRegistry
}

// NewScanner creates a new Scanner instance.
func NewScanner(functionRegistry registry.FunctionRegistry) Scanner {
	return &scanner{
		functionRegistry: functionRegistry,
	}
}

// Scan enumerates the blobs under containerPath in the given account and
// registers every entry in the function registry. The returned count is the
// number of entries examined, including ones that were already known.
func (s *scanner) Scan(ctx context.Context, account Account, store storage.StorageService, containerPath string) (int, error) {
	bucket, prefix := splitContainerPath(containerPath)

	exists, err := store.BucketExists(ctx, bucket)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		log.Warnf("failed to reach storage account %s: %v", account.Name, err)
		return 0, nil
	}
	if !exists {
		log.Debugf("container %s does not exist in account %s", bucket, account.Name)
		return 0, nil
	}

	objects, err := store.ListObjects(ctx, bucket, prefix)
	if err != nil {
		if ctx.Err() != nil {
			return 0, ctx.Err()
		}
		log.Warnf("failed to enumerate container %s in account %s: %v", bucket, account.Name, err)
		return 0, nil
	}

	for _, object := range objects {
		location := models.RemoteFunctionLocation{
			Account:       account.Name,
			ContainerPath: containerPath,
			BlobName:      object.Key,
		}
		s.functionRegistry.Register(models.FunctionDefinition{
			Description:      "discovered by container scan",
			Location:         location,
			AssemblyFullName: naming.AssemblyNameForBlob(object.Key),
		})
	}

	log.Infof("scanned %d entries in %s of account %s", len(objects), containerPath, account.Name)
	return len(objects), nil
}

// splitContainerPath splits a container path into the container name and the
// blob prefix inside it.
func splitContainerPath(containerPath string) (string, string) {
	trimmed := strings.Trim(containerPath, "/")
	bucket, prefix, _ := strings.Cut(trimmed, "/")
	return bucket, prefix
}
