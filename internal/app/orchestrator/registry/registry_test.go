package registry

import (
	"testing"
	"time"

	"github.com/vestafn/vesta/internal/app/orchestrator/models"
)

func testDefinition(blobName string) models.FunctionDefinition {
	return models.FunctionDefinition{
		Description: "test function",
		Location: models.RemoteFunctionLocation{
			Account:       "test-account",
			ContainerPath: "functions/prod",
			BlobName:      blobName,
		},
		AssemblyFullName: "TestFunctions.Prod",
	}
}

func TestRegisterAndRead(t *testing.T) {
	reg := NewFunctionRegistry()

	definition := testDefinition("alpha.dll")
	reg.Register(definition)

	got, ok := reg.Read(definition.Id())
	if !ok {
		t.Fatal("expected definition to be readable after register")
	}
	if got.Id() != definition.Id() {
		t.Errorf("unexpected id: %s", got.Id())
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set on register")
	}
	if reg.Count() != 1 {
		t.Errorf("expected count 1, got %d", reg.Count())
	}
}

func TestRegisterIsIdempotentUpsert(t *testing.T) {
	base := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	now := base
	reg := &functionRegistry{
		definitions: make(map[string]models.FunctionDefinition),
		clock:       func() time.Time { return now },
	}

	definition := testDefinition("alpha.dll")
	reg.Register(definition)

	now = base.Add(time.Hour)
	refreshed := testDefinition("alpha.dll")
	refreshed.Description = "updated description"
	reg.Register(refreshed)

	if reg.Count() != 1 {
		t.Fatalf("expected count 1 after re-register, got %d", reg.Count())
	}
	got, _ := reg.Read(definition.Id())
	if got.Description != "updated description" {
		t.Errorf("expected refreshed description, got %s", got.Description)
	}
	if !got.CreatedAt.Equal(base) {
		t.Errorf("expected creation timestamp to be preserved, got %v", got.CreatedAt)
	}
	if !got.UpdatedAt.Equal(base.Add(time.Hour)) {
		t.Errorf("expected update timestamp to be refreshed, got %v", got.UpdatedAt)
	}
}

func TestDeleteReportsExistence(t *testing.T) {
	reg := NewFunctionRegistry()

	definition := testDefinition("alpha.dll")
	reg.Register(definition)

	if !reg.Delete(definition.Id()) {
		t.Error("expected delete of existing definition to report true")
	}
	if reg.Delete(definition.Id()) {
		t.Error("expected delete of missing definition to report false")
	}
	if reg.Count() != 0 {
		t.Errorf("expected count 0, got %d", reg.Count())
	}
}

func TestReadAllReturnsSnapshot(t *testing.T) {
	reg := NewFunctionRegistry()

	reg.Register(testDefinition("alpha.dll"))
	reg.Register(testDefinition("beta.dll"))

	snapshot := reg.ReadAll()
	if len(snapshot) != 2 {
		t.Fatalf("expected 2 definitions, got %d", len(snapshot))
	}

	reg.Delete(snapshot[0].Id())
	if len(snapshot) != 2 {
		t.Error("expected snapshot to be unaffected by later deletes")
	}
}

func TestDistinctBlobsGetDistinctIds(t *testing.T) {
	reg := NewFunctionRegistry()

	alpha := testDefinition("alpha.dll")
	beta := testDefinition("beta.dll")
	if alpha.Id() == beta.Id() {
		t.Fatal("expected distinct blobs to derive distinct ids")
	}

	reg.Register(alpha)
	reg.Register(beta)
	if reg.Count() != 2 {
		t.Errorf("expected count 2, got %d", reg.Count())
	}
}
