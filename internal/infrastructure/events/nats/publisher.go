// Package nats publishes audit events for user-triggered actions. The event
// stream is observability only: publish failures never fail the action.
package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/banguela/school-admin/internal/core/domain"
)

type Publisher struct {
	conn          *nats.Conn
	subjectPrefix string
}

type Options struct {
	ConnectTimeout       time.Duration
	ReconnectWait        time.Duration
	MaxReconnects        int
	RetryOnFailedConnect *bool
}

func New(url, subjectPrefix string) (*Publisher, error) {
	return NewWithOptions(url, subjectPrefix, Options{})
}

func NewWithOptions(url, subjectPrefix string, options Options) (*Publisher, error) {
	connectTimeout := options.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}
	reconnectWait := options.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}
	maxReconnects := options.MaxReconnects
	if maxReconnects <= 0 {
		maxReconnects = 60
	}
	retryOnFailedConnect := true
	if options.RetryOnFailedConnect != nil {
		retryOnFailedConnect = *options.RetryOnFailedConnect
	}

	conn, err := nats.Connect(
		url,
		nats.Name("school-admin"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.RetryOnFailedConnect(retryOnFailedConnect),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("nats disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("nats reconnected: %s", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Publisher{conn: conn, subjectPrefix: subjectPrefix}, nil
}

func (p *Publisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}

func (p *Publisher) PublishStudentRegistered(_ context.Context, student domain.Student) error {
	return p.publish("student.registered", map[string]any{
		"student_id": student.ID,
		"name":       student.Name,
		"average":    student.Average(),
	})
}

func (p *Publisher) PublishExportGenerated(_ context.Context, artifact domain.ExportArtifact) error {
	return p.publish("export.generated", map[string]any{
		"artifact_id": artifact.ID,
		"name":        artifact.Name,
		"format":      string(artifact.Format),
		"size_bytes":  len(artifact.Payload),
	})
}

func (p *Publisher) publish(event string, payload map[string]any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event, err)
	}
	if err := p.conn.Publish(p.subjectPrefix+"."+event, data); err != nil {
		return fmt.Errorf("nats publish %s: %w", event, err)
	}
	return nil
}
