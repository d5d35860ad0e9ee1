package invoker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vestafn/vesta/pkg/logger"
)

var log = logger.NewLogger("vesta.orchestrator.invoker")

// MaxRetries is the fixed number of re-attempts beyond the first one. With
// the default of 2 a failing body is attempted three times in total
// (attempts 0, 1 and 2) before the invocation is reported as exhausted.
const MaxRetries = 2

// Attempt is the retry context surfaced to the invoked function body.
type Attempt struct {
	// CorrelationId identifies the logical invocation this attempt belongs to.
	CorrelationId string `json:"correlationId"`

	// Current is the zero-based index of this attempt.
	Current int `json:"current"`

	// Max is the configured number of re-attempts beyond the first.
	Max int `json:"max"`
}

// AttemptClaim is the triggering caller's view of the retry context. When
// supplied it is verified against the orchestrator's own tracked state once,
// when the call enters the harness; a divergence at that point is a fatal
// internal-consistency error. Harness-level retries within the call are not
// re-verified, the caller cannot observe them.
type AttemptClaim struct {
	Current int `json:"current"`
	Max     int `json:"max"`
}

// Handler is one function body execution. It receives the retry context and
// the raw invocation input and returns the raw output.
type Handler func(ctx context.Context, attempt Attempt, input []byte) ([]byte, error)

// Request describes one call into the retry harness.
type Request struct {
	// CorrelationId identifies the logical invocation this call belongs to.
	// Empty means a new logical invocation; an id is generated.
	CorrelationId string

	// Reset forces the attempt counter of the logical invocation back to 0
	// before running, modelling the start of a fresh logical invocation.
	Reset bool

	// Claim is the caller's view of the retry context, verified when present.
	Claim *AttemptClaim

	// Input is the raw invocation input passed through to the body.
	Input []byte
}

// Result carries the outcome of a logical invocation.
type Result struct {
	CorrelationId string `json:"correlationId"`
	Output        []byte `json:"output,omitempty"`

	// Attempts is the number of body executions performed by this call.
	Attempts int `json:"attempts"`
}

// Backoff returns the delay before re-dispatching the given attempt. The
// default harness performs immediate retries.
type Backoff func(attempt int) time.Duration

type Options struct {
	// MaxRetries overrides the default retry bound. Zero means default.
	MaxRetries int

	// Backoff is the optional delay policy between attempts.
	Backoff Backoff
}

// Invoker runs function bodies under the bounded retry contract. Attempt
// state is owned per logical invocation, keyed by correlation id; attempts
// within one logical invocation are strictly sequential, concurrent logical
// invocations are independent.
type Invoker interface {
	Invoke(ctx context.Context, request Request, handler Handler) (*Result, error)

	// TrackedAttempt returns the tracked attempt index for a logical
	// invocation, false when no state exists.
	TrackedAttempt(correlationId string) (int, bool)
}

type invocationState struct {
	run     sync.Mutex
	attempt int
}

type invoker struct {
	maxRetries int
	backoff    Backoff
	lock       sync.Mutex
	states     map[string]*invocationState
}

// NewInvoker creates a new Invoker instance.
func NewInvoker(opts Options) Invoker {
	maxRetries := opts.MaxRetries
	if maxRetries == 0 {
		maxRetries = MaxRetries
	}
	return &invoker{
		maxRetries: maxRetries,
		backoff:    opts.Backoff,
		states:     make(map[string]*invocationState),
	}
}

// Invoke runs the handler under the retry contract. Transient body failures
// are absorbed and retried until the attempt bound is reached; only
// internal-consistency violations and exhaustion cross this boundary.
func (i *invoker) Invoke(ctx context.Context, request Request, handler Handler) (*Result, error) {
	correlationId := request.CorrelationId
	if correlationId == "" {
		correlationId = uuid.NewString()
	}

	state := i.state(correlationId)

	// Attempts of the same logical invocation never run concurrently.
	state.run.Lock()
	defer state.run.Unlock()

	if request.Reset {
		state.attempt = 0
	}

	// The claim describes the caller's view at the moment this call entered
	// the harness. Harness-level retries advance the counter without the
	// caller's involvement, so the claim is checked once, not per attempt.
	if err := i.verify(Attempt{CorrelationId: correlationId, Current: state.attempt, Max: i.maxRetries}, request.Claim); err != nil {
		log.Errorf("invocation %s failed consistency check: %v", correlationId, err)
		return nil, err
	}

	executed := 0
	for {
		// Cancellation is observed before an attempt starts and does not
		// advance the counter.
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		attempt := Attempt{CorrelationId: correlationId, Current: state.attempt, Max: i.maxRetries}
		log.Debugf("invocation %s running attempt %d of at most %d", correlationId, attempt.Current, i.maxRetries)
		output, err := handler(ctx, attempt, request.Input)
		executed++
		if err == nil {
			i.clear(correlationId)
			return &Result{
				CorrelationId: correlationId,
				Output:        output,
				Attempts:      executed,
			}, nil
		}

		if state.attempt >= i.maxRetries {
			i.clear(correlationId)
			log.Warnf("invocation %s exhausted after attempt %d: %v", correlationId, state.attempt, err)
			return nil, &ExhaustedError{CorrelationId: correlationId, Attempts: executed, Cause: err}
		}

		// Harness-level retry of the same logical invocation, no reset.
		state.attempt++
		log.Debugf("invocation %s attempt failed, retrying as attempt %d: %v", correlationId, state.attempt, err)

		if i.backoff != nil {
			if delay := i.backoff(state.attempt); delay > 0 {
				timer := time.NewTimer(delay)
				select {
				case <-ctx.Done():
					timer.Stop()
					// The counter already advanced for the next attempt,
					// which never starts; roll it back.
					state.attempt--
					return nil, ctx.Err()
				case <-timer.C:
				}
			}
		}
	}
}

// TrackedAttempt returns the tracked attempt index for a logical invocation.
func (i *invoker) TrackedAttempt(correlationId string) (int, bool) {
	i.lock.Lock()
	defer i.lock.Unlock()

	state, ok := i.states[correlationId]
	if !ok {
		return 0, false
	}
	return state.attempt, true
}

// verify checks the caller's view of the retry context against the tracked
// state. A divergence means the retry harness and the body's view of "which
// attempt is this" have drifted apart, which is a bug, not a retryable failure.
func (i *invoker) verify(attempt Attempt, claim *AttemptClaim) error {
	if claim == nil {
		return nil
	}
	if claim.Current != attempt.Current {
		return &ConsistencyError{
			Field:    "currentAttempt",
			Expected: attempt.Current,
			Actual:   claim.Current,
		}
	}
	if claim.Max != i.maxRetries {
		return &ConsistencyError{
			Field:    "maxAttempts",
			Expected: i.maxRetries,
			Actual:   claim.Max,
		}
	}
	return nil
}

// state returns the attempt state of the logical invocation, creating it on
// first use.
func (i *invoker) state(correlationId string) *invocationState {
	i.lock.Lock()
	defer i.lock.Unlock()

	state, ok := i.states[correlationId]
	if !ok {
		state = &invocationState{}
		i.states[correlationId] = state
	}
	return state
}

// clear drops the attempt state of a finished logical invocation.
func (i *invoker) clear(correlationId string) {
	i.lock.Lock()
	defer i.lock.Unlock()

	delete(i.states, correlationId)
}
