package registry

import (
	"sync"
	"time"

	"github.com/vestafn/vesta/internal/app/orchestrator/models"
	"github.com/vestafn/vesta/pkg/logger"
)

var log = logger.NewLogger("vesta.orchestrator.registry")

// FunctionRegistry is the in-memory index of known function definitions,
// keyed by location identifier. It is the exclusive owner of the definitions
// it holds; reads return copies of the current snapshot.
type FunctionRegistry interface {
	ReadAll() []models.FunctionDefinition
	Read(id string) (models.FunctionDefinition, bool)
	Register(definition models.FunctionDefinition)
	Delete(id string) bool
	Count() int
}

type functionRegistry struct {
	lock        sync.RWMutex
	definitions map[string]models.FunctionDefinition
	clock       func() time.Time
}

// NewFunctionRegistry creates a new FunctionRegistry instance.
func NewFunctionRegistry() FunctionRegistry {
	return &functionRegistry{
		definitions: make(map[string]models.FunctionDefinition),
		clock:       time.Now,
	}
}

// ReadAll returns a snapshot of all registered definitions. Order is not specified.
func (r *functionRegistry) ReadAll() []models.FunctionDefinition {
	r.lock.RLock()
	defer r.lock.RUnlock()

	definitions := make([]models.FunctionDefinition, 0, len(r.definitions))
	for _, definition := range r.definitions {
		definitions = append(definitions, definition)
	}
	return definitions
}

// Read returns the definition registered under the given location identifier.
func (r *functionRegistry) Read(id string) (models.FunctionDefinition, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	definition, ok := r.definitions[id]
	return definition, ok
}

// Register upserts a definition keyed by its location identifier. Registering
// an already known definition refreshes its update timestamp and keeps the
// original creation timestamp.
func (r *functionRegistry) Register(definition models.FunctionDefinition) {
	r.lock.Lock()
	defer r.lock.Unlock()

	id := definition.Id()
	now := r.clock()
	if existing, ok := r.definitions[id]; ok {
		definition.CreatedAt = existing.CreatedAt
		definition.UpdatedAt = now
		r.definitions[id] = definition
		log.Debugf("refreshed function definition: %s", id)
		return
	}
	definition.CreatedAt = now
	definition.UpdatedAt = now
	r.definitions[id] = definition
	log.Debugf("registered function definition: %s", id)
}

// Delete removes the definition with the given identifier. It returns false
// when no such definition exists, which is not an error.
func (r *functionRegistry) Delete(id string) bool {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.definitions[id]; !ok {
		return false
	}
	delete(r.definitions, id)
	log.Debugf("deleted function definition: %s", id)
	return true
}

// Count returns the number of registered definitions.
func (r *functionRegistry) Count() int {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return len(r.definitions)
}
