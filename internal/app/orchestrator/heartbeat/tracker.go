package heartbeat

import (
	"sync"
	"time"

	"github.com/vestafn/vesta/pkg/logger"
)

var log = logger.NewLogger("vesta.orchestrator.heartbeat")

// PollInterval is the fixed process-wide time-to-live of a heartbeat record.
// A host whose last heartbeat is older than this is reported as not live.
const PollInterval = 30 * time.Second

// Tracker answers liveness queries for running hosts, keyed by the full name
// of the assembly the host is executing. Records are independent of each
// other; staleness is derived from the stored timestamp, never stored itself.
type Tracker interface {
	Touch(assemblyFullName string)
	IsLive(assemblyFullName string) bool
	LastHeartbeat(assemblyFullName string) (time.Time, bool)
}

type tracker struct {
	lock         sync.RWMutex
	lastSeen     map[string]time.Time
	pollInterval time.Duration
	clock        func() time.Time
}

// NewTracker creates a new in-memory Tracker instance.
func NewTracker() Tracker {
	return &tracker{
		lastSeen:     make(map[string]time.Time),
		pollInterval: PollInterval,
		clock:        time.Now,
	}
}

// Touch records now as the last heartbeat time for the given identity.
func (t *tracker) Touch(assemblyFullName string) {
	now := t.clock()

	t.lock.Lock()
	t.lastSeen[assemblyFullName] = now
	t.lock.Unlock()

	log.Debugf("heartbeat recorded for assembly: %s", assemblyFullName)
}

// IsLive returns true iff the identity has a heartbeat younger than the poll
// interval. Unknown identities are reported as not live.
func (t *tracker) IsLive(assemblyFullName string) bool {
	t.lock.RLock()
	last, ok := t.lastSeen[assemblyFullName]
	t.lock.RUnlock()

	if !ok {
		return false
	}
	return t.clock().Before(last.Add(t.pollInterval))
}

// LastHeartbeat returns the most recent heartbeat time for the given identity.
func (t *tracker) LastHeartbeat(assemblyFullName string) (time.Time, bool) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	last, ok := t.lastSeen[assemblyFullName]
	return last, ok
}
