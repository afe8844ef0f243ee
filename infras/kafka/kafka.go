// Package kafka publishes and consumes JSON events, carrying trace context in message headers.
package kafka

//go:generate go run go.uber.org/mock/mockgen -source=./kafka.go -destination=./mocks/kafka_mock.go -package=mocks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"seva/config"
	"seva/infras/otel"
	"seva/shared/constant"
	"time"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl"
	"github.com/segmentio/kafka-go/sasl/plain"
	"golang.org/x/sync/errgroup"
)

const (
	writeTimeout        = 10 * time.Second
	batchTimeout        = 5 * time.Millisecond
	readRetryDelay      = time.Second
	otelAttrTopic       = "kafka.topic"
	otelAttrMessageSize = "kafka.messages"
	otelAttrPartition   = "kafka.partition"
	otelAttrOffset      = "kafka.offset"
)

type Message struct {
	Key   string
	Value any
}

func (m *Message) ToKafkaMessage() (kafkaGo.Message, error) {
	jsonValue, err := json.Marshal(m.Value)
	if err != nil {
		return kafkaGo.Message{}, fmt.Errorf("failed to marshal message value to JSON: %w", err)
	}

	return kafkaGo.Message{
		Key:   []byte(m.Key),
		Value: jsonValue,
	}, nil
}

// Decode unmarshals the message value into T.
func Decode[T any](msg kafkaGo.Message) (T, error) {
	var value T

	if err := json.Unmarshal(msg.Value, &value); err != nil {
		return value, fmt.Errorf("failed to unmarshal Kafka message value from JSON: %w", err)
	}

	return value, nil
}

// HeaderCarrier exposes message headers to the trace propagator.
type HeaderCarrier struct {
	Headers *[]kafkaGo.Header
}

func (c HeaderCarrier) Get(key string) string {
	for _, header := range *c.Headers {
		if header.Key == key {
			return string(header.Value)
		}
	}

	return ""
}

func (c HeaderCarrier) Set(key, value string) {
	headers := *c.Headers

	for i := range headers {
		if headers[i].Key == key {
			headers[i].Value = []byte(value)

			return
		}
	}

	*c.Headers = append(headers, kafkaGo.Header{Key: key, Value: []byte(value)})
}

func (c HeaderCarrier) Keys() []string {
	keys := make([]string, 0, len(*c.Headers))
	for _, header := range *c.Headers {
		keys = append(keys, header.Key)
	}

	return keys
}

// Handler processes one consumed message. ctx carries the producer's trace.
type Handler func(ctx context.Context, message kafkaGo.Message)

type Client interface {
	SendMessages(ctx context.Context, topic string, messages ...Message) (err error)
	Consume(ctx context.Context, consumerGroup, topic string, handler Handler)
}

type kafkaClientImpl struct {
	config    *config.Config
	otel      otel.Otel
	dialer    *kafkaGo.Dialer
	transport *kafkaGo.Transport
	address   net.Addr
}

func New(config *config.Config, otel otel.Otel) Client {
	var mechanism sasl.Mechanism
	if config.Kafka.SASL.Username != "" {
		mechanism = plain.Mechanism{
			Username: config.Kafka.SASL.Username,
			Password: config.Kafka.SASL.Password,
		}
	}

	log.Info().Strs("brokers", config.Kafka.Brokers).Msg("Kafka client initialized")

	return &kafkaClientImpl{
		config:    config,
		otel:      otel,
		dialer:    &kafkaGo.Dialer{DualStack: true, SASLMechanism: mechanism},
		transport: &kafkaGo.Transport{SASL: mechanism},
		address:   kafkaGo.TCP(config.Kafka.Brokers...),
	}
}

func (k *kafkaClientImpl) reader(consumerGroup, topic string) *kafkaGo.Reader {
	groupID := k.config.Kafka.ConsumerGroup
	if consumerGroup != "" {
		groupID = consumerGroup
	}

	return kafkaGo.NewReader(kafkaGo.ReaderConfig{
		Brokers:     k.config.Kafka.Brokers,
		Topic:       topic,
		GroupID:     groupID,
		Dialer:      k.dialer,
		StartOffset: kafkaGo.FirstOffset,
	})
}

// NewWriter returns a synchronous writer sized for one batch of batchSize messages,
// so WriteMessages returns as soon as the broker acknowledges them.
func NewWriter(addr net.Addr, transport kafkaGo.RoundTripper, topic string, batchSize int) *kafkaGo.Writer {
	return &kafkaGo.Writer{
		Addr:                   addr,
		Topic:                  topic,
		Transport:              transport,
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafkaGo.RequireOne,
		BatchSize:              max(batchSize, 1),
		BatchTimeout:           batchTimeout,
		WriteTimeout:           writeTimeout,
	}
}

func (k *kafkaClientImpl) SendMessages(ctx context.Context, topic string, messages ...Message) (err error) {
	ctx, scope := k.otel.NewScope(ctx, constant.OtelKafkaScopeName, constant.OtelKafkaScopeName+".SendMessages")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttributes(map[string]any{
		otelAttrTopic:       topic,
		otelAttrMessageSize: len(messages),
	})

	msgs := make([]kafkaGo.Message, 0, len(messages))

	for _, message := range messages {
		msg, err := message.ToKafkaMessage()
		if err != nil {
			log.Error().Err(err).Str("topic", topic).Msg("Failed to convert message to Kafka message.")

			return err
		}

		k.otel.Inject(ctx, HeaderCarrier{Headers: &msg.Headers})

		msgs = append(msgs, msg)
	}

	writer := NewWriter(k.address, k.transport, topic, len(msgs))

	defer func() {
		if closeErr := writer.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("topic", topic).Msg("Failed to close Kafka writer.")
		}
	}()

	err = writer.WriteMessages(ctx, msgs...)
	if err != nil {
		log.Error().Err(err).Str("topic", topic).Msg("Failed to send message to Kafka.")

		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	log.Debug().Str("topic", topic).Int("count", len(msgs)).Msg("Sent messages successfully.")

	return nil
}

// Consume reads topic until ctx is cancelled. At most Kafka.MaxInFlight handlers run at once,
// and in-flight handlers finish before Consume returns.
func (k *kafkaClientImpl) Consume(ctx context.Context, consumerGroup, topic string, handler Handler) {
	reader := k.reader(consumerGroup, topic)

	defer func() {
		if err := reader.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close Kafka reader.")
		}
	}()

	group := errgroup.Group{}
	if k.config.Kafka.MaxInFlight > 0 {
		group.SetLimit(k.config.Kafka.MaxInFlight)
	}

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				break
			}

			log.Error().Err(err).Str("topic", topic).Msg("Failed to read message from Kafka.")

			if !pause(ctx, readRetryDelay) {
				break
			}

			continue
		}

		group.Go(func() error {
			k.handle(context.WithoutCancel(ctx), msg, handler)

			return nil
		})
	}

	_ = group.Wait()

	log.Info().Str("topic", topic).Msg("Consumer stopped.")
}

// pause waits for d and reports false if ctx ends first.
func pause(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (k *kafkaClientImpl) handle(ctx context.Context, msg kafkaGo.Message, handler Handler) {
	ctx = k.otel.Extract(ctx, HeaderCarrier{Headers: &msg.Headers})

	ctx, scope := k.otel.NewScope(ctx, constant.OtelKafkaScopeName, constant.OtelKafkaScopeName+".Consume")
	defer scope.End()

	scope.SetAttributes(map[string]any{
		otelAttrTopic:     msg.Topic,
		otelAttrPartition: msg.Partition,
		otelAttrOffset:    msg.Offset,
	})

	handler(ctx, msg)
}
