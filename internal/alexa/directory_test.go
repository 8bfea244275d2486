package alexa

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

const endpointsBody = `{"endpoints":[
	{"id":"e-other","friendlyName":"Plug","displayCategories":{"primary":{"value":"OTHER"}}},
	{"id":"e-echo","friendlyName":"Kitchen Echo",
	 "displayCategories":{"primary":{"value":"ALEXA_VOICE_ENABLED"}},
	 "legacyIdentifiers":{"dmsIdentifier":{
	   "deviceSerialNumber":{"value":{"text":"S1"}},
	   "deviceType":{"value":{"text":"T1"}}}}},
	{"id":"e-light","friendlyName":"Desk Lamp",
	 "displayCategories":{"primary":{"value":"LIGHT"}},
	 "features":[{"name":"power"},{"name":"brightness"}]}
]}`

func endpointsDoer(body string) *fakeDoer {
	return &fakeDoer{handler: func(req *http.Request) (*http.Response, error) {
		return fakeResponse(http.StatusOK, body), nil
	}}
}

func TestPrimaryVoiceDeviceSelectsFirstMatch(t *testing.T) {
	doer := endpointsDoer(endpointsBody)
	d := NewDirectory(newTestTransport(doer), DirectoryOptions{})

	device, err := d.PrimaryVoiceDevice(context.Background())
	if err != nil {
		t.Fatalf("PrimaryVoiceDevice: %v", err)
	}
	if device.SerialNumber != "S1" || device.DeviceType != "T1" || device.FriendlyName != "Kitchen Echo" {
		t.Fatalf("unexpected device %+v", device)
	}
}

func TestPrimaryVoiceDeviceEmptyList(t *testing.T) {
	doer := endpointsDoer(`{"endpoints":[]}`)
	d := NewDirectory(newTestTransport(doer), DirectoryOptions{})

	_, err := d.PrimaryVoiceDevice(context.Background())
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestPrimaryVoiceDeviceMissingLegacyIdentifiers(t *testing.T) {
	doer := endpointsDoer(`{"endpoints":[
		{"id":"e-echo","displayCategories":{"primary":{"value":"ALEXA_VOICE_ENABLED"}}}
	]}`)
	d := NewDirectory(newTestTransport(doer), DirectoryOptions{})

	_, err := d.PrimaryVoiceDevice(context.Background())
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if notFound.What != "voice device legacy identifiers" {
		t.Fatalf("normalization failure should be distinguishable, got %q", notFound.What)
	}
}

func TestPrimaryLightDefaultAndExplicit(t *testing.T) {
	d := NewDirectory(newTestTransport(endpointsDoer(endpointsBody)), DirectoryOptions{})
	light, err := d.PrimaryLight(context.Background())
	if err != nil {
		t.Fatalf("PrimaryLight: %v", err)
	}
	if light.EntityID != "e-light" || len(light.Capabilities) != 2 {
		t.Fatalf("unexpected light %+v", light)
	}

	d = NewDirectory(newTestTransport(endpointsDoer(endpointsBody)), DirectoryOptions{LightEntityID: "e-missing"})
	_, err = d.PrimaryLight(context.Background())
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError for unknown explicit id, got %v", err)
	}
}

func TestDirectoryCacheTTL(t *testing.T) {
	now := time.Unix(1000, 0)
	doer := endpointsDoer(endpointsBody)
	d := NewDirectory(newTestTransport(doer), DirectoryOptions{
		TTL: time.Minute,
		Now: func() time.Time { return now },
	})

	ctx := context.Background()
	if _, err := d.Endpoints(ctx); err != nil {
		t.Fatalf("Endpoints: %v", err)
	}
	if _, err := d.Endpoints(ctx); err != nil {
		t.Fatalf("Endpoints: %v", err)
	}
	if len(doer.calls) != 1 {
		t.Fatalf("expected cached second read, got %d calls", len(doer.calls))
	}
	firstFetch := d.endpointsFetchedAt

	now = now.Add(2 * time.Minute)
	if _, err := d.Endpoints(ctx); err != nil {
		t.Fatalf("Endpoints: %v", err)
	}
	if len(doer.calls) != 2 {
		t.Fatalf("expected exactly one re-fetch after expiry, got %d calls", len(doer.calls))
	}
	if !d.endpointsFetchedAt.After(firstFetch) {
		t.Fatalf("fetch timestamp not updated")
	}
}

func TestDirectoryFlushForcesRefetch(t *testing.T) {
	doer := endpointsDoer(endpointsBody)
	d := NewDirectory(newTestTransport(doer), DirectoryOptions{})

	ctx := context.Background()
	if _, err := d.Endpoints(ctx); err != nil {
		t.Fatalf("Endpoints: %v", err)
	}
	d.Flush()
	if _, err := d.Endpoints(ctx); err != nil {
		t.Fatalf("Endpoints: %v", err)
	}
	if len(doer.calls) != 2 {
		t.Fatalf("expected re-fetch after flush, got %d calls", len(doer.calls))
	}
}

func TestAccountInfoErrors(t *testing.T) {
	doer := &fakeDoer{handler: func(req *http.Request) (*http.Response, error) {
		return fakeResponse(http.StatusUnauthorized, "expired"), nil
	}}
	d := NewDirectory(newTestTransport(doer), DirectoryOptions{})

	_, err := d.AccountInfo(context.Background())
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}

	doer = &fakeDoer{handler: func(req *http.Request) (*http.Response, error) {
		return fakeResponse(http.StatusOK, `{"name":"nobody"}`), nil
	}}
	d = NewDirectory(newTestTransport(doer), DirectoryOptions{})

	_, err = d.AccountInfo(context.Background())
	var malformed *MalformedResponseError
	if !errors.As(err, &malformed) {
		t.Fatalf("expected MalformedResponseError, got %v", err)
	}
}

func TestAccountInfoCached(t *testing.T) {
	doer := &fakeDoer{handler: func(req *http.Request) (*http.Response, error) {
		return fakeResponse(http.StatusOK, `{"id":"CUSTOMER1"}`), nil
	}}
	d := NewDirectory(newTestTransport(doer), DirectoryOptions{})

	ctx := context.Background()
	first, err := d.AccountInfo(ctx)
	if err != nil {
		t.Fatalf("AccountInfo: %v", err)
	}
	second, err := d.AccountInfo(ctx)
	if err != nil {
		t.Fatalf("AccountInfo: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical cached value, got %+v vs %+v", first, second)
	}
	if len(doer.calls) != 1 {
		t.Fatalf("expected one upstream call, got %d", len(doer.calls))
	}
}
