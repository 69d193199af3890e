package mq

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
)

// Event types published to the club activity topic.
const (
	EventMemberApproved   = "member_approved"
	EventCurrentBookSet   = "current_book_set"
	EventNotesRevealed    = "notes_revealed"
	EventMeetingScheduled = "meeting_scheduled"
)

// Event 俱乐部活动事件
type Event struct {
	Type    string         `json:"type"`
	ClubID  uint           `json:"club_id"`
	ActorID uint           `json:"actor_id"`
	At      time.Time      `json:"at"`
	Payload map[string]any `json:"payload,omitempty"`
}

// ActivityProducer 向 Kafka 发布俱乐部活动事件。
// nil 接收者表示降级模式，所有发布都是 no-op。
type ActivityProducer struct {
	producer sarama.SyncProducer
	topic    string
}

func NewActivityProducer(brokers []string, topic string) (*ActivityProducer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to start sarama producer: %w", err)
	}

	return &ActivityProducer{
		producer: producer,
		topic:    topic,
	}, nil
}

// Emit 发布事件，以 club id 作为分区键保证单俱乐部内有序。
func (p *ActivityProducer) Emit(event Event) error {
	if p == nil {
		return nil
	}
	if event.At.IsZero() {
		event.At = time.Now()
	}

	bytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(fmt.Sprintf("club-%d", event.ClubID)),
		Value: sarama.ByteEncoder(bytes),
	}

	if _, _, err := p.producer.SendMessage(msg); err != nil {
		return fmt.Errorf("failed to send event to kafka: %w", err)
	}
	return nil
}

func (p *ActivityProducer) Close() error {
	if p == nil {
		return nil
	}
	return p.producer.Close()
}
