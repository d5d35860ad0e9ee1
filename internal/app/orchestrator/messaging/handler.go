package messaging

import (
	"encoding/json"
	"sync"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/vestafn/vesta/internal/app/orchestrator/heartbeat"
	"github.com/vestafn/vesta/internal/app/orchestrator/models"
	"github.com/vestafn/vesta/internal/pkg/naming"
	"github.com/vestafn/vesta/pkg/logger"
	"github.com/vestafn/vesta/pkg/messaging/consumer"
)

var log = logger.NewLogger("vesta.orchestrator.messaging.handler")

type Options struct{}

type MessagingHandler interface {
	RegisterAll()
	Handlers() consumer.Handlers
}

type messagingHandler struct {
	handlers consumer.Handlers
	lock     sync.Mutex
	tracker  heartbeat.Tracker
}

// NewMessagingHandler creates a new MessagingHandler instance.
func NewMessagingHandler(tracker heartbeat.Tracker, opts Options) MessagingHandler {
	return &messagingHandler{
		handlers: consumer.Handlers{},
		tracker:  tracker,
	}
}

// RegisterAll registrates all handlers for the subscribed topics in the handler map.
func (m *messagingHandler) RegisterAll() {
	// Handle MessagingHostHeartbeatTopic messages
	m.add(naming.MessagingHostHeartbeatTopic, func(msg *kafka.Message) {
		var message models.HostHeartbeatMessage
		if err := json.Unmarshal(msg.Value, &message); err != nil {
			log.Errorf("failed to unmarshal kafka message: %v", err)
			return
		}
		if message.AssemblyFullName == "" {
			log.Warnf("discarding heartbeat message without assembly identity")
			return
		}

		m.tracker.Touch(message.AssemblyFullName)
		if message.Metrics != nil {
			log.Debugf("host %s reports cpu %d%% memory %d%%", message.AssemblyFullName, message.Metrics.CpuUsage, message.Metrics.MemoryUsage)
		}
	})
}

// Handlers returns a map containing all handlers specified by the corresponding topic.
func (m *messagingHandler) Handlers() consumer.Handlers {
	return m.handlers
}

// add adds a handler as value and the topic as key to the handler map.
func (m *messagingHandler) add(topic string, handler func(msg *kafka.Message)) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.handlers[topic] = handler
}
