package alexa

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestResolveFirstSourceWins(t *testing.T) {
	doer := &fakeDoer{handler: func(req *http.Request) (*http.Response, error) {
		resp := fakeResponse(http.StatusOK, "")
		resp.Header.Add("Set-Cookie", "csrf=real-token; Path=/")
		return resp, nil
	}}
	r := NewTokenResolver(newTestTransport(doer))

	token := r.Resolve(context.Background())
	if !token.Resolved || token.Value != "real-token" {
		t.Fatalf("unexpected token %+v", token)
	}
	if len(doer.calls) != 1 {
		t.Fatalf("expected a single upstream call, got %v", doer.calls)
	}
	if doer.calls[0] != "/api/handlebars" {
		t.Fatalf("expected handlebars source first, got %v", doer.calls)
	}
}

func TestResolveFallsBackToSecondSource(t *testing.T) {
	doer := &fakeDoer{handler: func(req *http.Request) (*http.Response, error) {
		if strings.Contains(req.URL.Path, "handlebars") {
			return fakeResponse(http.StatusInternalServerError, ""), nil
		}
		resp := fakeResponse(http.StatusOK, "")
		resp.Header.Add("Set-Cookie", "csrf=second-token")
		return resp, nil
	}}
	r := NewTokenResolver(newTestTransport(doer))

	token := r.Resolve(context.Background())
	if !token.Resolved || token.Value != "second-token" {
		t.Fatalf("unexpected token %+v", token)
	}
	if len(doer.calls) != 2 || doer.calls[1] != "/api/devices-v2/device" {
		t.Fatalf("unexpected call sequence %v", doer.calls)
	}
}

func TestResolvePlaceholderEchoIsNotAToken(t *testing.T) {
	doer := &fakeDoer{handler: func(req *http.Request) (*http.Response, error) {
		resp := fakeResponse(http.StatusOK, "")
		resp.Header.Add("Set-Cookie", "csrf=1")
		return resp, nil
	}}
	r := NewTokenResolver(newTestTransport(doer))

	token := r.Resolve(context.Background())
	if token.Resolved || token.Value != PlaceholderToken {
		t.Fatalf("placeholder echo should not resolve, got %+v", token)
	}
	if len(doer.calls) != 2 {
		t.Fatalf("expected both sources tried, got %v", doer.calls)
	}
}

func TestResolveBothSourcesFailing(t *testing.T) {
	doer := &fakeDoer{handler: func(req *http.Request) (*http.Response, error) {
		return fakeResponse(http.StatusInternalServerError, "boom"), nil
	}}
	r := NewTokenResolver(newTestTransport(doer))

	token := r.Resolve(context.Background())
	if token.Resolved || token.Value != PlaceholderToken {
		t.Fatalf("expected placeholder fallback, got %+v", token)
	}
}

func TestResolveSwallowsNetworkErrors(t *testing.T) {
	doer := &fakeDoer{handler: func(req *http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	}}
	r := NewTokenResolver(newTestTransport(doer))

	token := r.Resolve(context.Background())
	if token.Value != PlaceholderToken {
		t.Fatalf("expected placeholder fallback, got %+v", token)
	}
}
