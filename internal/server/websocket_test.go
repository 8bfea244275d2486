package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/gsampaio-rh/alexa-mcp-server/internal/alexa"
	"github.com/gsampaio-rh/alexa-mcp-server/internal/auth"
	"github.com/gsampaio-rh/alexa-mcp-server/internal/hub"
)

func newTestRouterWithHub(t *testing.T, u *upstream, eventHub *hub.Hub) (*gin.Engine, auth.TokenConfig) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	client, err := alexa.New(
		alexa.Credentials{SessionID: "sid-value", AuthToken: "at-value"},
		alexa.Options{BaseURL: u.server.URL, HTTPClient: u.server.Client()},
	)
	if err != nil {
		t.Fatalf("alexa.New: %v", err)
	}

	tokenCfg := auth.TokenConfig{Secret: "secret", Expiry: time.Hour, Issuer: "test"}
	r := NewRouter(Deps{Client: client, TokenConfig: tokenCfg, MasterSecret: "master", Hub: eventHub})
	return r, tokenCfg
}

func TestWebSocketRequiresToken(t *testing.T) {
	r, _ := newTestRouter(t, newUpstream(t))
	srv := httptest.NewServer(r)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatalf("expected dial to fail without token")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 handshake response, got %+v", resp)
	}
}

func TestWebSocketReceivesBroadcast(t *testing.T) {
	eventHub := hub.New()
	r, tokenCfg := newTestRouterWithHub(t, newUpstream(t), eventHub)
	srv := httptest.NewServer(r)
	defer srv.Close()

	tok := bearerToken(t, tokenCfg)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + tok
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	waitForConnection(t, eventHub)
	eventHub.Broadcast([]byte(`{"type":"event","event":"command"}`))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(message), "command") {
		t.Fatalf("unexpected message %s", message)
	}
}

func waitForConnection(t *testing.T, h *hub.Hub) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if h.Count() > 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("websocket connection never registered")
}
