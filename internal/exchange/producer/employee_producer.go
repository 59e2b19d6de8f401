package producer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Artexxx/HR-Employees-CSV/internal/dto"
)

type EmployeeProducer struct {
	sp     sarama.SyncProducer
	topic  string
	source string
	now    func() time.Time
	log    zerolog.Logger
}

type Config struct {
	Topic  string
	Source string
}

func NewEmployeeProducer(sp sarama.SyncProducer, cfg Config, log zerolog.Logger) *EmployeeProducer {
	return &EmployeeProducer{
		sp:     sp,
		topic:  cfg.Topic,
		source: cfg.Source,
		now:    time.Now,
		log:    log.With().Str("component", "EmployeeProducer").Logger(),
	}
}

func (p *EmployeeProducer) Close() error {
	if p == nil || p.sp == nil {
		return nil
	}
	return p.sp.Close()
}

// ProduceEmployeeEvent publishes one dataset change keyed by Employee_ID.
func (p *EmployeeProducer) ProduceEmployeeEvent(ctx context.Context, messageID uuid.UUID, ev dto.EmployeeEvent) error {
	var (
		body []byte
		err  error
	)

	switch ev.Kind {
	case dto.EventCreated, dto.EventUpdated:
		if ev.Employee == nil {
			return fmt.Errorf("%s event without employee", ev.Kind)
		}
		body, err = json.Marshal(p.envelope(messageID, ev, EmployeePayload{Employee: *ev.Employee, Rows: ev.Rows}))
	case dto.EventDeleted:
		body, err = json.Marshal(p.envelope(messageID, ev, DeletedPayload{Rows: ev.Rows}))
	default:
		return fmt.Errorf("unknown event kind %q", ev.Kind)
	}

	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	return p.send(ctx, p.topic, strconv.FormatInt(ev.EmployeeID, 10), body, map[string]string{
		"event-kind":   string(ev.Kind),
		"message-id":   messageID.String(),
		"source":       p.source,
		"content-type": "application/json",
	})
}

func (p *EmployeeProducer) envelope(messageID uuid.UUID, ev dto.EmployeeEvent, payload any) Envelope[any] {
	return Envelope[any]{
		Kind:       string(ev.Kind),
		MessageID:  messageID,
		EmployeeID: ev.EmployeeID,
		Payload:    payload,
		Timestamp:  p.now().UTC(),
		Source:     p.source,
	}
}

func (p *EmployeeProducer) send(_ context.Context, topic, key string, value []byte, headers map[string]string) error {
	if p == nil || p.sp == nil {
		return errors.New("sync producer is not initialized")
	}

	var hs []sarama.RecordHeader
	for k, v := range headers {
		hs = append(hs, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}

	msg := &sarama.ProducerMessage{
		Topic:   topic,
		Key:     sarama.StringEncoder(key),
		Value:   sarama.ByteEncoder(value),
		Headers: hs,
	}

	part, off, err := p.sp.SendMessage(msg)
	if err != nil {
		p.log.Error().
			Err(err).
			Str("topic", topic).
			Str("key", key).
			Int("bytes", len(value)).
			Msg("failed to send kafka message")
		return fmt.Errorf("send kafka message: %w", err)
	}

	p.log.Info().
		Str("topic", topic).
		Str("key", key).
		Int32("partition", part).
		Int64("offset", off).
		Int("bytes", len(value)).
		Msg("kafka message sent")
	return nil
}
