package alexa

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type Options struct {
	BaseURL       string
	HTTPClient    Doer
	DirectoryTTL  time.Duration
	Now           func() time.Time
	LightEntityID string
	Locale        string
}

// Client is the protocol client for the consumer Alexa surface. It owns
// header assembly, token resolution, the resource directory and the
// behavior-sequence write path. All operations return typed errors;
// nothing is retried here.
type Client struct {
	creds     Credentials
	locale    string
	transport *Transport
	tokens    *TokenResolver
	directory *Directory
}

func New(creds Credentials, opts Options) (*Client, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("missing base URL")
	}

	doer := opts.HTTPClient
	if doer == nil {
		doer = http.DefaultClient
	}

	sanitizer := NewSanitizer(creds.Secrets()...)
	transport := NewTransport(opts.BaseURL, doer, NewHeaderBuilder(creds), sanitizer)

	return &Client{
		creds:     creds,
		locale:    opts.Locale,
		transport: transport,
		tokens:    NewTokenResolver(transport),
		directory: NewDirectory(transport, DirectoryOptions{
			TTL:           opts.DirectoryTTL,
			Now:           opts.Now,
			LightEntityID: opts.LightEntityID,
		}),
	}, nil
}

func (c *Client) Sanitizer() *Sanitizer {
	return c.transport.Sanitizer()
}

// Headers exposes the assembled upstream header set to collaborating
// layers. Extra headers merge last and may override anything.
func (c *Client) Headers(token string, extra map[string]string) http.Header {
	return c.transport.headers.Build(token, extra)
}

func (c *Client) AccountID(ctx context.Context) (string, error) {
	info, err := c.directory.AccountInfo(ctx)
	if err != nil {
		return "", err
	}
	return info.CustomerID, nil
}

func (c *Client) Endpoints(ctx context.Context) ([]SmartHomeEndpoint, error) {
	return c.directory.Endpoints(ctx)
}

func (c *Client) PrimaryVoiceDevice(ctx context.Context) (VoiceDevice, error) {
	return c.directory.PrimaryVoiceDevice(ctx)
}

func (c *Client) PrimaryLight(ctx context.Context) (LightEndpoint, error) {
	return c.directory.PrimaryLight(ctx)
}

// FlushCache drops every cached directory value, forcing re-discovery
// on the next read. Used after a real-world device swap.
func (c *Client) FlushCache() {
	c.directory.Flush()
}

func (c *Client) Speak(ctx context.Context, text string) error {
	return c.runSequence(ctx, OperationSpeak, text)
}

func (c *Client) TextCommand(ctx context.Context, text string) error {
	return c.runSequence(ctx, OperationTextCommand, text)
}

func (c *Client) PlayMusic(ctx context.Context, searchPhrase string) error {
	return c.runSequence(ctx, OperationPlaySearchPhrase, searchPhrase)
}

// Playback executes a named playback command (PlayCommand, PauseCommand,
// NextCommand, PreviousCommand, ForwardCommand, RewindCommand) through
// the text-command channel.
func (c *Client) Playback(ctx context.Context, name string) error {
	phrase, ok := PlaybackPhrase(name)
	if !ok {
		return fmt.Errorf("unsupported playback command %q", name)
	}
	return c.runSequence(ctx, OperationTextCommand, phrase)
}

func (c *Client) runSequence(ctx context.Context, operationType, text string) error {
	device, err := c.directory.PrimaryVoiceDevice(ctx)
	if err != nil {
		return err
	}
	account, err := c.directory.AccountInfo(ctx)
	if err != nil {
		return err
	}

	seq, err := BuildSequence(operationType, SequenceTarget{
		SerialNumber: device.SerialNumber,
		DeviceType:   device.DeviceType,
		CustomerID:   account.CustomerID,
		Locale:       c.locale,
	}, text)
	if err != nil {
		return err
	}

	token := c.tokens.Resolve(ctx)
	resp, err := c.transport.PostJSON(ctx, "/api/behaviors/preview", token.Value, previewRequest(seq))
	if err != nil {
		return err
	}
	if !resp.OK() {
		return c.transport.statusError(resp)
	}
	return nil
}

type phoenixStateRequest struct {
	StateRequests []phoenixEntityRequest `json:"stateRequests"`
}

type phoenixEntityRequest struct {
	EntityID   string            `json:"entityId"`
	EntityType string            `json:"entityType"`
	Properties []phoenixProperty `json:"properties"`
}

type phoenixProperty struct {
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
}

type phoenixStateResponse struct {
	DeviceStates []struct {
		CapabilityStates []string `json:"capabilityStates"`
	} `json:"deviceStates"`
}

// capabilityState is the decoded form of one capabilityStates entry,
// which the upstream delivers as a JSON string inside JSON.
type capabilityState struct {
	Namespace string `json:"namespace"`
	Name      string `json:"name"`
	Value     any    `json:"value"`
}

// IsLightOn reads the primary light's current power state through the
// phoenix state endpoint.
func (c *Client) IsLightOn(ctx context.Context) (bool, error) {
	light, err := c.directory.PrimaryLight(ctx)
	if err != nil {
		return false, err
	}

	token := c.tokens.Resolve(ctx)
	request := phoenixStateRequest{StateRequests: []phoenixEntityRequest{{
		EntityID:   light.EntityID,
		EntityType: "APPLIANCE",
		Properties: []phoenixProperty{{Namespace: "Alexa.PowerController", Name: "powerState"}},
	}}}

	resp, err := c.transport.PostJSON(ctx, "/api/phoenix/state", token.Value, request)
	if err != nil {
		return false, err
	}
	if !resp.OK() {
		return false, c.transport.statusError(resp)
	}

	var body phoenixStateResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return false, &MalformedResponseError{What: "phoenix/state: " + err.Error()}
	}

	for _, state := range body.DeviceStates {
		for _, raw := range state.CapabilityStates {
			var cs capabilityState
			if err := json.Unmarshal([]byte(raw), &cs); err != nil {
				continue
			}
			if cs.Namespace == "Alexa.PowerController" && cs.Name == "powerState" {
				value, _ := cs.Value.(string)
				return value == "ON", nil
			}
		}
	}
	return false, &MalformedResponseError{What: "phoenix/state: missing power state"}
}

// SetLightPower switches the primary light through the text-command
// channel. The structured light-control endpoint is not a known-working
// path, so the command goes through the voice pipeline by name.
func (c *Client) SetLightPower(ctx context.Context, on bool) error {
	light, err := c.directory.PrimaryLight(ctx)
	if err != nil {
		return err
	}

	verb := "turn off"
	if on {
		verb = "turn on"
	}
	return c.runSequence(ctx, OperationTextCommand, verb+" "+light.FriendlyName)
}
