package queue

import (
	"context"
	"encoding/json"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/sirupsen/logrus"
)

const commitTopic = "sopgov.document.commits"

var _ AuditQueue = (*Kafka)(nil)

// Kafka publishes commit events to a Kafka topic, keyed by document id so a
// document's audit trail stays ordered within a partition.
type Kafka struct {
	producer *kafka.Producer
	topic    string
}

func NewKafka(brokers string) (*Kafka, error) {
	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
	})
	if err != nil {
		return nil, err
	}

	k := &Kafka{producer: producer, topic: commitTopic}

	// drain delivery reports; failures are logged, not retried
	go func() {
		for e := range producer.Events() {
			if m, ok := e.(*kafka.Message); ok && m.TopicPartition.Error != nil {
				logrus.Errorf("audit event delivery failed: %v", m.TopicPartition.Error)
			}
		}
	}()

	return k, nil
}

func (k *Kafka) PublishCommit(ctx context.Context, event CommitEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	topic := k.topic
	return k.producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(event.DocumentID),
		Value:          payload,
	}, nil)
}

func (k *Kafka) Close() {
	k.producer.Flush(5000)
	k.producer.Close()
}
