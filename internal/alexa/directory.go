package alexa

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Display categories the directory resolves against.
const (
	CategoryVoiceEnabled = "ALEXA_VOICE_ENABLED"
	CategoryLight        = "LIGHT"
)

// DefaultDirectoryTTL bounds how long resolved account and device data
// is served from memory. Discovered devices rarely change and the
// upstream rate-limits frequent discovery calls.
const DefaultDirectoryTTL = 5 * time.Minute

type AccountInfo struct {
	CustomerID string
}

type SmartHomeEndpoint struct {
	EntityID        string
	DisplayCategory string
	FriendlyName    string
	SerialNumber    string
	DeviceType      string
	Features        []string
}

type VoiceDevice struct {
	SerialNumber string
	DeviceType   string
	FriendlyName string
}

type LightEndpoint struct {
	EntityID     string
	FriendlyName string
	Capabilities []string
}

type DirectoryOptions struct {
	TTL           time.Duration
	Now           func() time.Time
	LightEntityID string
}

// Directory resolves account identity and device topology and caches
// each value independently for a bounded time. Concurrent reads after
// expiry are not deduplicated: both fetch, last writer wins, which is
// harmless because cached values are immutable snapshots.
type Directory struct {
	transport     *Transport
	ttl           time.Duration
	now           func() time.Time
	lightEntityID string

	mu                 sync.Mutex
	account            *AccountInfo
	accountFetchedAt   time.Time
	endpoints          []SmartHomeEndpoint
	endpointsFetchedAt time.Time
}

func NewDirectory(transport *Transport, opts DirectoryOptions) *Directory {
	d := &Directory{
		transport:     transport,
		ttl:           opts.TTL,
		now:           opts.Now,
		lightEntityID: opts.LightEntityID,
	}
	if d.ttl <= 0 {
		d.ttl = DefaultDirectoryTTL
	}
	if d.now == nil {
		d.now = time.Now
	}
	return d
}

func (d *Directory) AccountInfo(ctx context.Context) (AccountInfo, error) {
	d.mu.Lock()
	if d.account != nil && d.now().Sub(d.accountFetchedAt) <= d.ttl {
		info := *d.account
		d.mu.Unlock()
		return info, nil
	}
	d.mu.Unlock()

	info, err := d.fetchAccountInfo(ctx)
	if err != nil {
		return AccountInfo{}, err
	}

	d.mu.Lock()
	d.account = &info
	d.accountFetchedAt = d.now()
	d.mu.Unlock()
	return info, nil
}

func (d *Directory) fetchAccountInfo(ctx context.Context) (AccountInfo, error) {
	resp, err := d.transport.Get(ctx, "/api/users/me", PlaceholderToken, nil)
	if err != nil {
		return AccountInfo{}, err
	}
	if !resp.OK() {
		return AccountInfo{}, d.transport.statusError(resp)
	}

	var body struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return AccountInfo{}, &MalformedResponseError{What: "users/me: " + err.Error()}
	}
	if body.ID == "" {
		return AccountInfo{}, &MalformedResponseError{What: "users/me: missing id"}
	}
	return AccountInfo{CustomerID: body.ID}, nil
}

func (d *Directory) Endpoints(ctx context.Context) ([]SmartHomeEndpoint, error) {
	d.mu.Lock()
	if d.endpoints != nil && d.now().Sub(d.endpointsFetchedAt) <= d.ttl {
		endpoints := d.endpoints
		d.mu.Unlock()
		return endpoints, nil
	}
	d.mu.Unlock()

	endpoints, err := d.fetchEndpoints(ctx)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	d.endpoints = endpoints
	d.endpointsFetchedAt = d.now()
	d.mu.Unlock()
	return endpoints, nil
}

// Wire shape of the smart-home graph listing. Every level is optional;
// normalization decides what is fatal, not the decoder.
type endpointRecord struct {
	ID                string             `json:"id"`
	FriendlyName      string             `json:"friendlyName"`
	DisplayCategories *displayCategories `json:"displayCategories"`
	LegacyIdentifiers *legacyIdentifiers `json:"legacyIdentifiers"`
	Features          []endpointFeature  `json:"features"`
}

type displayCategories struct {
	Primary *categoryValue `json:"primary"`
}

type categoryValue struct {
	Value string `json:"value"`
}

type legacyIdentifiers struct {
	DMSIdentifier *dmsIdentifier `json:"dmsIdentifier"`
}

type dmsIdentifier struct {
	DeviceSerialNumber *wrappedText `json:"deviceSerialNumber"`
	DeviceType         *wrappedText `json:"deviceType"`
}

type wrappedText struct {
	Value *textValue `json:"value"`
}

func (w *wrappedText) text() string {
	if w == nil || w.Value == nil {
		return ""
	}
	return w.Value.Text
}

type textValue struct {
	Text string `json:"text"`
}

type endpointFeature struct {
	Name string `json:"name"`
}

func (d *Directory) fetchEndpoints(ctx context.Context) ([]SmartHomeEndpoint, error) {
	resp, err := d.transport.Get(ctx, "/api/smarthome/v2/endpoints?expand=all", PlaceholderToken, nil)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, d.transport.statusError(resp)
	}

	var body struct {
		Endpoints []endpointRecord `json:"endpoints"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, &MalformedResponseError{What: "endpoints: " + err.Error()}
	}

	// An empty list is a valid account with no devices, not an error.
	endpoints := make([]SmartHomeEndpoint, 0, len(body.Endpoints))
	for _, rec := range body.Endpoints {
		endpoints = append(endpoints, normalizeEndpoint(rec))
	}
	return endpoints, nil
}

func normalizeEndpoint(rec endpointRecord) SmartHomeEndpoint {
	ep := SmartHomeEndpoint{
		EntityID:     rec.ID,
		FriendlyName: rec.FriendlyName,
	}
	if rec.DisplayCategories != nil && rec.DisplayCategories.Primary != nil {
		ep.DisplayCategory = rec.DisplayCategories.Primary.Value
	}
	if rec.LegacyIdentifiers != nil && rec.LegacyIdentifiers.DMSIdentifier != nil {
		dms := rec.LegacyIdentifiers.DMSIdentifier
		ep.SerialNumber = dms.DeviceSerialNumber.text()
		ep.DeviceType = dms.DeviceType.text()
	}
	for _, f := range rec.Features {
		if f.Name != "" {
			ep.Features = append(ep.Features, f.Name)
		}
	}
	return ep
}

// PrimaryVoiceDevice selects the first voice-enabled endpoint in
// upstream order. A matching endpoint without a legacy serial/type pair
// is a distinct failure from no endpoint existing at all.
func (d *Directory) PrimaryVoiceDevice(ctx context.Context) (VoiceDevice, error) {
	endpoints, err := d.Endpoints(ctx)
	if err != nil {
		return VoiceDevice{}, err
	}

	for _, ep := range endpoints {
		if ep.DisplayCategory != CategoryVoiceEnabled {
			continue
		}
		if ep.SerialNumber == "" || ep.DeviceType == "" {
			return VoiceDevice{}, &NotFoundError{What: "voice device legacy identifiers"}
		}
		return VoiceDevice{
			SerialNumber: ep.SerialNumber,
			DeviceType:   ep.DeviceType,
			FriendlyName: ep.FriendlyName,
		}, nil
	}
	return VoiceDevice{}, &NotFoundError{What: "voice device"}
}

// PrimaryLight selects the configured entity id when one is set,
// otherwise the first light-category endpoint in upstream order.
func (d *Directory) PrimaryLight(ctx context.Context) (LightEndpoint, error) {
	endpoints, err := d.Endpoints(ctx)
	if err != nil {
		return LightEndpoint{}, err
	}

	var first *SmartHomeEndpoint
	for i := range endpoints {
		ep := &endpoints[i]
		if ep.DisplayCategory != CategoryLight {
			continue
		}
		if d.lightEntityID != "" {
			if ep.EntityID == d.lightEntityID {
				return lightFromEndpoint(*ep), nil
			}
			continue
		}
		if first == nil {
			first = ep
		}
	}

	if d.lightEntityID != "" || first == nil {
		return LightEndpoint{}, &NotFoundError{What: "light"}
	}
	return lightFromEndpoint(*first), nil
}

func lightFromEndpoint(ep SmartHomeEndpoint) LightEndpoint {
	return LightEndpoint{
		EntityID:     ep.EntityID,
		FriendlyName: ep.FriendlyName,
		Capabilities: ep.Features,
	}
}

// Flush drops every cached value. The next read of each re-fetches.
func (d *Directory) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.account = nil
	d.accountFetchedAt = time.Time{}
	d.endpoints = nil
	d.endpointsFetchedAt = time.Time{}
}
