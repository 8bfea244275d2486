package handler

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/gsampaio-rh/alexa-mcp-server/internal/alexa"
	"github.com/gsampaio-rh/alexa-mcp-server/internal/hub"
	"github.com/gsampaio-rh/alexa-mcp-server/internal/model"
)

type recordingWriter struct {
	messages [][]byte
}

func (w *recordingWriter) Write(message []byte) error {
	w.messages = append(w.messages, message)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestEventsPublishBroadcasts(t *testing.T) {
	eventHub := hub.New()
	writer := &recordingWriter{}
	eventHub.Register(&hub.Connection{Writer: writer})

	events := &Events{Hub: eventHub}
	events.Publish("speak", "hello", "Kitchen Echo", nil)

	if len(writer.messages) != 1 {
		t.Fatalf("expected one broadcast, got %d", len(writer.messages))
	}

	var msg struct {
		Type  string      `json:"type"`
		Event string      `json:"event"`
		Body  model.Event `json:"body"`
	}
	if err := json.Unmarshal(writer.messages[0], &msg); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if msg.Event != "command" || msg.Body.Command != "speak" || !msg.Body.Success {
		t.Fatalf("unexpected event %+v", msg)
	}
	if msg.Body.ID == "" {
		t.Fatalf("expected event id")
	}
}

func TestEventsPublishSanitizesErrors(t *testing.T) {
	eventHub := hub.New()
	writer := &recordingWriter{}
	eventHub.Register(&hub.Connection{Writer: writer})

	secret := "super-secret-token-0123456789"
	sanitizer := alexa.NewSanitizer(secret)
	events := &Events{Hub: eventHub, Sanitize: sanitizer.Sanitize}

	events.Publish("speak", "hello", "", errors.New("upstream said: "+secret))

	if len(writer.messages) != 1 {
		t.Fatalf("expected one broadcast, got %d", len(writer.messages))
	}
	if strings.Contains(string(writer.messages[0]), secret) {
		t.Fatalf("secret leaked into event: %s", writer.messages[0])
	}
}

func TestNilEventsIsSafe(t *testing.T) {
	var events *Events
	events.Publish("speak", "hello", "", nil)
	events.PublishLightState(model.LightState{})
}
