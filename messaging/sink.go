package messaging

import (
	"context"
	"fmt"
	"strings"
	"time"

	"catalog/domain"

	jsoniter "github.com/json-iterator/go"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Sink forwards event envelopes to an external broker.
type Sink interface {
	Name() string
	Send(ctx context.Context, env domain.EventEnvelope) error
	Close() error
}

// SinkConfig selects a broker.
type SinkConfig struct {
	// Kind is none, nats, redis or kafka.
	Kind string
	// URL is the NATS URL, the Redis URL, or comma-separated Kafka brokers.
	URL string
	// Topic is the NATS subject prefix, Redis stream or Kafka topic.
	Topic string
}

const defaultTopic = "catalog.events"

// NewSink connects the configured broker. Kind "none" or "" yields a nil Sink.
func NewSink(ctx context.Context, cfg SinkConfig) (Sink, error) {
	topic := cfg.Topic
	if topic == "" {
		topic = defaultTopic
	}
	switch strings.ToLower(cfg.Kind) {
	case "", "none":
		return nil, nil
	case "nats":
		url := cfg.URL
		if url == "" {
			url = nats.DefaultURL
		}
		conn, err := nats.Connect(url, nats.Name("catalog"), nats.Timeout(5*time.Second))
		if err != nil {
			return nil, fmt.Errorf("connect nats %s: %w", url, err)
		}
		return &NATSSink{conn: conn, prefix: topic, close: conn.Close}, nil
	case "redis":
		if cfg.URL == "" {
			return nil, fmt.Errorf("redis sink requires a URL")
		}
		opts, err := redis.ParseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		return &RedisSink{client: client, stream: topic, close: client.Close}, nil
	case "kafka":
		if cfg.URL == "" {
			return nil, fmt.Errorf("kafka sink requires broker addresses")
		}
		w := &kafka.Writer{
			Addr:                   kafka.TCP(strings.Split(cfg.URL, ",")...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			WriteTimeout:           10 * time.Second,
			AllowAutoTopicCreation: true,
		}
		return &KafkaSink{writer: w}, nil
	default:
		return nil, fmt.Errorf("unknown event sink: %s", cfg.Kind)
	}
}

type natsPublisher interface {
	PublishMsg(m *nats.Msg) error
}

// NATSSink publishes each event on "<prefix>.<event type>".
type NATSSink struct {
	conn   natsPublisher
	prefix string
	close  func()
}

func (s *NATSSink) Name() string { return "nats" }

func (s *NATSSink) Send(ctx context.Context, env domain.EventEnvelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	msg := nats.NewMsg(s.prefix + "." + env.EventType)
	msg.Data = data
	msg.Header.Set("Event-Id", env.EventID)
	msg.Header.Set("Aggregate-Id", env.AggregateID)
	return s.conn.PublishMsg(msg)
}

func (s *NATSSink) Close() error {
	if s.close != nil {
		s.close()
	}
	return nil
}

type streamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// RedisSink appends each event to a Redis stream.
type RedisSink struct {
	client streamAdder
	stream string
	close  func() error
}

func (s *RedisSink) Name() string { return "redis" }

func (s *RedisSink) Send(ctx context.Context, env domain.EventEnvelope) error {
	data, err := json.MarshalToString(env)
	if err != nil {
		return err
	}
	return s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]interface{}{
			"event_id":     env.EventID,
			"event_type":   env.EventType,
			"aggregate_id": env.AggregateID,
			"data":         data,
		},
	}).Err()
}

func (s *RedisSink) Close() error {
	if s.close != nil {
		return s.close()
	}
	return nil
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink writes each event keyed by aggregate id, keeping one aggregate's
// events on one partition.
type KafkaSink struct {
	writer messageWriter
}

func (s *KafkaSink) Name() string { return "kafka" }

func (s *KafkaSink) Send(ctx context.Context, env domain.EventEnvelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	return s.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(env.AggregateID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(env.EventID)},
			{Key: "event_type", Value: []byte(env.EventType)},
		},
		Time: env.OccurredOn,
	})
}

func (s *KafkaSink) Close() error { return s.writer.Close() }
