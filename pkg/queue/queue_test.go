package queue_test

import (
	"testing"
	"time"

	"github.com/yeisme/coursevault/pkg/queue"
)

func TestEnvelopeRoundtrip(t *testing.T) {
	payload := queue.ContentUploadedPayload{
		Content: queue.ContentRef{
			ID:          7,
			Semester:    "5",
			Subject:     "CS501",
			ContentType: "notes",
			StorageRef:  "01K5XJ3Q8Z0000000000000000.pdf",
			Size:        2048,
			FileType:    "application/pdf",
		},
		FileName: "dsp-notes.pdf",
		Title:    "DSP 第一章",
	}

	msg, err := queue.NewWatermillMessage(
		queue.TopicContentUploaded, payload,
		queue.WithTraceID("trace-1"),
		queue.WithProducer("coursevault"),
	)
	if err != nil {
		t.Fatalf("NewWatermillMessage: %v", err)
	}

	if msg.UUID == "" {
		t.Error("message UUID empty")
	}

	if got := msg.Metadata.Get("topic"); got != queue.TopicContentUploaded {
		t.Errorf("metadata topic = %q", got)
	}

	env, err := queue.ParseContentUploaded(msg)
	if err != nil {
		t.Fatalf("ParseContentUploaded: %v", err)
	}

	if env.Header.Topic != queue.TopicContentUploaded {
		t.Errorf("header topic = %q", env.Header.Topic)
	}

	if env.Header.TraceID != "trace-1" || env.Header.Producer != "coursevault" {
		t.Errorf("header trace/producer = %q/%q", env.Header.TraceID, env.Header.Producer)
	}

	if env.Payload != payload {
		t.Errorf("payload mismatch: %+v", env.Payload)
	}
}

func TestEventHeaderDefaults(t *testing.T) {
	before := time.Now().UTC()
	hdr := queue.NewEventHeader(queue.TopicContentDeleted)

	if hdr.Topic != queue.TopicContentDeleted {
		t.Errorf("topic = %q", hdr.Topic)
	}

	if hdr.Version != queue.PayloadVersionV1 {
		t.Errorf("version = %q", hdr.Version)
	}

	if hdr.OccurredAt.Before(before.Add(-time.Second)) {
		t.Errorf("occurred_at too old: %v", hdr.OccurredAt)
	}
}
