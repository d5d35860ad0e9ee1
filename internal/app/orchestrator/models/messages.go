package models

import (
	"encoding/json"
	"time"

	"github.com/vestafn/vesta/pkg/metrics"
)

// HostHeartbeatMessage is published periodically by every running host and
// consumed by the orchestrator to refresh the liveness record of the host's
// assembly identity.
type HostHeartbeatMessage struct {
	AssemblyFullName string               `json:"assemblyFullName"`
	Metrics          *metrics.HostMetrics `json:"metrics,omitempty"`
	Timestamp        time.Time            `json:"timestamp"`
}

// InvocationRequestMessage is published to the owning host's topic when a
// blob-backed function is invoked.
type InvocationRequestMessage struct {
	CorrelationId string          `json:"correlationId"`
	FunctionId    string          `json:"functionId"`
	Attempt       int             `json:"attempt"`
	MaxAttempts   int             `json:"maxAttempts"`
	Input         json.RawMessage `json:"input,omitempty"`
}

// IndexOperation is a one-shot command consumed by the orchestrator: either a
// register command carrying an account reference and a container path, or a
// delete command carrying a function identifier.
type IndexOperation struct {
	Kind             IndexOperationKind `json:"kind"`
	ConnectionString string             `json:"connectionString,omitempty"`
	AccountName      string             `json:"accountName,omitempty"`
	ContainerPath    string             `json:"containerPath,omitempty"`
	FunctionId       string             `json:"functionId,omitempty"`
}

type IndexOperationKind string

const (
	IndexOperationRegister IndexOperationKind = "register"
	IndexOperationDelete   IndexOperationKind = "delete"
)

// IndexOperationResult carries the outcome of a processed index operation.
type IndexOperationResult struct {
	Scanned int  `json:"scanned"`
	Deleted bool `json:"deleted"`
}
