package kafka_test

import (
	"context"
	"testing"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todochain/config"
	"todochain/infras/kafka"
)

type receipt struct {
	ID     string   `json:"id"`
	Status string   `json:"status"`
	Logs   []string `json:"logs"`
}

func TestMessage_RoundTrip(t *testing.T) {
	message := kafka.Message{Key: "tx-1", Value: receipt{ID: "tx-1", Status: "committed", Logs: []string{"Added new to-do: x"}}}

	msg, err := message.ToKafkaMessage()
	require.NoError(t, err)
	assert.Equal(t, []byte("tx-1"), msg.Key)

	decoded, err := kafka.Decode[receipt](msg)
	require.NoError(t, err)
	assert.Equal(t, message.Value, decoded)
}

func TestMessage_Errors(t *testing.T) {
	_, err := (&kafka.Message{Value: make(chan int)}).ToKafkaMessage()
	assert.Error(t, err)

	_, err = kafka.Decode[receipt](kafkaGo.Message{Value: []byte("{")})
	assert.Error(t, err)
}

func TestNew_DisabledWithoutBrokers(t *testing.T) {
	client := kafka.New(&config.Config{})

	assert.NoError(t, client.SendMessages(context.Background(), "topic", kafka.Message{Key: "k"}))
	assert.ErrorIs(t, client.Consume(context.Background(), "", "topic", func(kafkaGo.Message) {}), kafka.ErrDisabled)
	assert.NoError(t, client.Close())
}
