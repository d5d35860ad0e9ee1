package messaging

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/vestafn/vesta/internal/app/orchestrator/heartbeat"
	"github.com/vestafn/vesta/internal/app/orchestrator/models"
	"github.com/vestafn/vesta/internal/pkg/naming"
)

func heartbeatMessage(t *testing.T, assemblyFullName string) *kafka.Message {
	t.Helper()

	payload, err := json.Marshal(models.HostHeartbeatMessage{
		AssemblyFullName: assemblyFullName,
		Timestamp:        time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("failed to marshal heartbeat message: %v", err)
	}

	topic := naming.MessagingHostHeartbeatTopic
	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic},
		Value:          payload,
	}
}

func TestHeartbeatMessageTouchesTracker(t *testing.T) {
	tracker := heartbeat.NewTracker()
	handler := NewMessagingHandler(tracker, Options{})
	handler.RegisterAll()

	handle, ok := handler.Handlers()[naming.MessagingHostHeartbeatTopic]
	if !ok {
		t.Fatal("expected a handler for the heartbeat topic")
	}

	handle(heartbeatMessage(t, "Funcs.Alpha"))
	if !tracker.IsLive("Funcs.Alpha") {
		t.Error("expected assembly to be live after a heartbeat message")
	}
	if tracker.IsLive("Funcs.Beta") {
		t.Error("expected other assemblies to stay unaffected")
	}
}

func TestMalformedHeartbeatMessageIsDiscarded(t *testing.T) {
	tracker := heartbeat.NewTracker()
	handler := NewMessagingHandler(tracker, Options{})
	handler.RegisterAll()

	handle := handler.Handlers()[naming.MessagingHostHeartbeatTopic]

	topic := naming.MessagingHostHeartbeatTopic
	handle(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic},
		Value:          []byte("not json"),
	})

	handle(heartbeatMessage(t, ""))
	if tracker.IsLive("") {
		t.Error("expected heartbeat without identity to be discarded")
	}
}
