package operator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/vestafn/vesta/internal/app/orchestrator/db"
	"github.com/vestafn/vesta/internal/app/orchestrator/heartbeat"
	"github.com/vestafn/vesta/internal/app/orchestrator/history"
	"github.com/vestafn/vesta/internal/app/orchestrator/invoker"
	"github.com/vestafn/vesta/internal/app/orchestrator/models"
	"github.com/vestafn/vesta/internal/app/orchestrator/registry"
	"github.com/vestafn/vesta/internal/app/orchestrator/scan"
	"github.com/vestafn/vesta/internal/pkg/naming"
	"github.com/vestafn/vesta/pkg/logger"
	"github.com/vestafn/vesta/pkg/messaging/producer"
)

var log = logger.NewLogger("vesta.orchestrator.operator")

// ErrFunctionNotFound is returned when an invocation names an unknown function.
var ErrFunctionNotFound = errors.New("function not found")

// FunctionView is a definition annotated with derived host liveness.
type FunctionView struct {
	Id               string    `json:"id"`
	ShortName        string    `json:"shortName"`
	Description      string    `json:"description"`
	Kind             string    `json:"kind"`
	AssemblyFullName string    `json:"assemblyFullName"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
	HostIsRunning    bool      `json:"hostIsRunning"`
}

// FunctionGroup is the set of functions sharing one location identity.
type FunctionGroup struct {
	Key       string         `json:"key"`
	Functions []FunctionView `json:"functions"`
}

// InvokeRequest carries one call of the invocation endpoint.
type InvokeRequest struct {
	CorrelationId string
	Reset         bool
	Claim         *invoker.AttemptClaim
	Input         []byte
}

// InvokeOutcome is the result of a successful logical invocation, annotated
// with the liveness of the owning host for reporting.
type InvokeOutcome struct {
	Result        *invoker.Result `json:"result"`
	HostIsRunning bool            `json:"hostIsRunning"`
}

type OrchestratorOperator interface {
	Rehydrate(ctx context.Context) error
	ProcessIndexOperation(ctx context.Context, op models.IndexOperation) (models.IndexOperationResult, error)
	ListFunctions() []FunctionGroup
	InvokeFunction(ctx context.Context, functionId string, request InvokeRequest) (*InvokeOutcome, error)
	InvocationAttempts(ctx context.Context, correlationId string) ([]history.AttemptEntry, error)
}

type orchestratorOperator struct {
	functionRegistry  registry.FunctionRegistry
	scanner           scan.Scanner
	accountResolver   scan.AccountResolver
	tracker           heartbeat.Tracker
	functionInvoker   invoker.Invoker
	databaseClient    db.DatabaseClient
	historyClient     history.HistoryClient
	messagingProducer producer.MessagingProducer
	httpClient        *http.Client
}

// NewOrchestratorOperator creates a new OrchestratorOperator instance.
func NewOrchestratorOperator(
	functionRegistry registry.FunctionRegistry,
	scanner scan.Scanner,
	accountResolver scan.AccountResolver,
	tracker heartbeat.Tracker,
	functionInvoker invoker.Invoker,
	databaseClient db.DatabaseClient,
	historyClient history.HistoryClient,
	messagingProducer producer.MessagingProducer,
) OrchestratorOperator {
	return &orchestratorOperator{
		functionRegistry:  functionRegistry,
		scanner:           scanner,
		accountResolver:   accountResolver,
		tracker:           tracker,
		functionInvoker:   functionInvoker,
		databaseClient:    databaseClient,
		historyClient:     historyClient,
		messagingProducer: messagingProducer,
		httpClient:        &http.Client{Timeout: 30 * time.Second},
	}
}

// Rehydrate loads the persisted function definitions into the registry.
func (o *orchestratorOperator) Rehydrate(ctx context.Context) error {
	if o.databaseClient == nil {
		return nil
	}
	definitions, err := o.databaseClient.ListFunctions()
	if err != nil {
		return fmt.Errorf("failed to load persisted functions: %w", err)
	}
	for _, definition := range definitions {
		o.functionRegistry.Register(definition)
	}
	log.Infof("rehydrated %d function definitions", len(definitions))
	return nil
}

// ProcessIndexOperation executes a register or delete command. Each operation
// is atomic at the registry level; there are no partial-failure semantics.
func (o *orchestratorOperator) ProcessIndexOperation(ctx context.Context, op models.IndexOperation) (models.IndexOperationResult, error) {
	switch op.Kind {
	case models.IndexOperationRegister:
		account, store, err := o.accountResolver.Resolve(op.ConnectionString, op.AccountName)
		if err != nil {
			return models.IndexOperationResult{}, fmt.Errorf("failed to resolve account: %w", err)
		}
		scanned, err := o.scanner.Scan(ctx, account, store, op.ContainerPath)
		if err != nil {
			return models.IndexOperationResult{}, fmt.Errorf("failed to scan container: %w", err)
		}
		o.persistScanned(account.Name, op.ContainerPath)
		return models.IndexOperationResult{Scanned: scanned}, nil
	case models.IndexOperationDelete:
		deleted := o.functionRegistry.Delete(op.FunctionId)
		if o.databaseClient != nil {
			if err := o.databaseClient.DeleteFunction(op.FunctionId); err != nil {
				log.Errorf("failed to delete persisted function: %v", err)
			}
		}
		return models.IndexOperationResult{Deleted: deleted}, nil
	default:
		return models.IndexOperationResult{}, fmt.Errorf("unknown index operation kind: %s", op.Kind)
	}
}

// ListFunctions returns all known definitions grouped by location identity,
// each annotated with the derived liveness of its owning host.
func (o *orchestratorOperator) ListFunctions() []FunctionGroup {
	grouped := make(map[string][]FunctionView)
	for _, definition := range o.functionRegistry.ReadAll() {
		key := groupingKey(definition.Location)
		grouped[key] = append(grouped[key], FunctionView{
			Id:               definition.Id(),
			ShortName:        definition.Location.ShortName(),
			Description:      definition.Description,
			Kind:             definition.Location.Kind(),
			AssemblyFullName: definition.AssemblyFullName,
			CreatedAt:        definition.CreatedAt,
			UpdatedAt:        definition.UpdatedAt,
			HostIsRunning:    o.tracker.IsLive(definition.AssemblyFullName),
		})
	}

	groups := make([]FunctionGroup, 0, len(grouped))
	for key, functions := range grouped {
		sort.Slice(functions, func(a, b int) bool {
			return functions[a].ShortName < functions[b].ShortName
		})
		groups = append(groups, FunctionGroup{Key: key, Functions: functions})
	}
	sort.Slice(groups, func(a, b int) bool {
		return groups[a].Key < groups[b].Key
	})
	return groups
}

// InvokeFunction resolves the definition, builds the dispatch handler for its
// location variant and runs it through the retry harness. Host liveness is
// attached for reporting only and never gates the execution.
func (o *orchestratorOperator) InvokeFunction(ctx context.Context, functionId string, request InvokeRequest) (*InvokeOutcome, error) {
	definition, ok := o.functionRegistry.Read(functionId)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFunctionNotFound, functionId)
	}

	handler := o.recorded(functionId, o.dispatchHandler(definition))
	result, err := o.functionInvoker.Invoke(ctx, invoker.Request{
		CorrelationId: request.CorrelationId,
		Reset:         request.Reset,
		Claim:         request.Claim,
		Input:         request.Input,
	}, handler)
	if err != nil {
		return nil, err
	}
	return &InvokeOutcome{
		Result:        result,
		HostIsRunning: o.tracker.IsLive(definition.AssemblyFullName),
	}, nil
}

// InvocationAttempts returns the recorded attempt history of a logical invocation.
func (o *orchestratorOperator) InvocationAttempts(ctx context.Context, correlationId string) ([]history.AttemptEntry, error) {
	if o.historyClient == nil {
		return nil, errors.New("invocation history is not configured")
	}
	return o.historyClient.GetAttempts(ctx, correlationId)
}

// persistScanned writes the registry entries discovered in one container scan
// through to the database.
func (o *orchestratorOperator) persistScanned(accountName string, containerPath string) {
	if o.databaseClient == nil {
		return
	}
	for _, definition := range o.functionRegistry.ReadAll() {
		location, ok := definition.Location.(models.RemoteFunctionLocation)
		if !ok || location.Account != accountName || location.ContainerPath != containerPath {
			continue
		}
		if err := o.databaseClient.UpsertFunction(definition); err != nil {
			log.Errorf("failed to persist function %s: %v", definition.Id(), err)
		}
	}
}

// dispatchHandler builds the body execution for a definition depending on its
// location variant.
func (o *orchestratorOperator) dispatchHandler(definition models.FunctionDefinition) invoker.Handler {
	switch location := definition.Location.(type) {
	case models.UrlFunctionLocation:
		return func(ctx context.Context, attempt invoker.Attempt, input []byte) ([]byte, error) {
			return o.invokeUrl(ctx, location.Endpoint, attempt, input)
		}
	case models.RemoteFunctionLocation:
		return func(ctx context.Context, attempt invoker.Attempt, input []byte) ([]byte, error) {
			o.messagingProducer.Publish(ctx, naming.MessagingInvocationRequestTopic(definition.AssemblyFullName), &models.InvocationRequestMessage{
				CorrelationId: attempt.CorrelationId,
				FunctionId:    definition.Id(),
				Attempt:       attempt.Current,
				MaxAttempts:   attempt.Max,
				Input:         input,
			})
			return []byte(`{"status":"enqueued"}`), nil
		}
	default:
		return func(ctx context.Context, attempt invoker.Attempt, input []byte) ([]byte, error) {
			return nil, fmt.Errorf("unsupported location kind: %s", definition.Location.Kind())
		}
	}
}

// invokeUrl performs one synchronous HTTP dispatch of a URL-invokable function.
func (o *orchestratorOperator) invokeUrl(ctx context.Context, endpoint string, attempt invoker.Attempt, input []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("failed to build invocation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Vesta-Attempt", fmt.Sprint(attempt.Current))
	req.Header.Set("X-Vesta-Max-Attempts", fmt.Sprint(attempt.Max))

	res, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to invoke function endpoint: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read invocation response: %w", err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, fmt.Errorf("function endpoint responded with status %d", res.StatusCode)
	}
	return body, nil
}

// recorded wraps a handler so that every attempt outcome lands in the
// invocation history.
func (o *orchestratorOperator) recorded(functionId string, handler invoker.Handler) invoker.Handler {
	if o.historyClient == nil {
		return handler
	}
	return func(ctx context.Context, attempt invoker.Attempt, input []byte) ([]byte, error) {
		startedAt := time.Now().UTC()
		output, err := handler(ctx, attempt, input)

		entry := history.AttemptEntry{
			CorrelationId: attempt.CorrelationId,
			FunctionId:    functionId,
			Attempt:       attempt.Current,
			Succeeded:     err == nil,
			StartedAt:     startedAt,
			CompletedAt:   time.Now().UTC(),
		}
		if err != nil {
			entry.Error = err.Error()
		}
		if insertErr := o.historyClient.InsertAttempt(ctx, entry); insertErr != nil {
			log.Errorf("failed to record invocation attempt: %v", insertErr)
		}
		return output, err
	}
}

// groupingKey derives the listing group of a location. Remote functions group
// by account and container path, url functions by account only.
func groupingKey(location models.FunctionLocation) string {
	switch l := location.(type) {
	case models.RemoteFunctionLocation:
		return fmt.Sprintf("%s/%s", l.Account, l.ContainerPath)
	case models.UrlFunctionLocation:
		return l.Account
	default:
		return location.AccountName()
	}
}
