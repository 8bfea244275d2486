package alexa

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Behavior operation types accepted by the preview endpoint.
const (
	OperationSpeak            = "Alexa.Speak"
	OperationTextCommand      = "Alexa.TextCommand"
	OperationPlaySearchPhrase = "Alexa.Music.PlaySearchPhrase"
)

// Envelope sentinels required by POST /api/behaviors/preview.
const (
	behaviorIDPreview = "PREVIEW"
	behaviorEnabled   = "ENABLED"
)

const defaultLocale = "en-US"

// playbackPhrases maps named playback commands to the natural-language
// phrase issued through the text-command channel. The structured
// playback endpoint is unreliable; the text channel is the only
// consistently working path.
var playbackPhrases = map[string]string{
	"PlayCommand":     "resume music",
	"PauseCommand":    "pause",
	"NextCommand":     "next song",
	"PreviousCommand": "previous song",
	"ForwardCommand":  "skip forward",
	"RewindCommand":   "skip backward",
}

// PlaybackPhrase returns the canonical phrase for a named playback
// command.
func PlaybackPhrase(name string) (string, bool) {
	phrase, ok := playbackPhrases[name]
	return phrase, ok
}

// PlaybackCommands lists the supported named playback commands.
func PlaybackCommands() []string {
	names := make([]string, 0, len(playbackPhrases))
	for name := range playbackPhrases {
		names = append(names, name)
	}
	return names
}

// SequenceTarget identifies the device and account a behavior sequence
// addresses. The legacy serial/type pair is what the behaviors endpoint
// understands, not the entity id.
type SequenceTarget struct {
	SerialNumber string
	DeviceType   string
	CustomerID   string
	Locale       string
}

// BehaviorSequence is the serialized command payload for one operation,
// ready to wrap into a preview request.
type BehaviorSequence struct {
	OperationType string
	SequenceJSON  string
}

type sequenceEnvelope struct {
	Type      string        `json:"@type"`
	StartNode sequenceStart `json:"startNode"`
}

type sequenceStart struct {
	Type           string          `json:"@type"`
	Name           *string         `json:"name"`
	NodesToExecute []operationNode `json:"nodesToExecute"`
}

type operationNode struct {
	Type             string         `json:"@type"`
	OperationType    string         `json:"type"`
	OperationPayload map[string]any `json:"operationPayload"`
}

// EscapeText applies the upstream's escaping rule to a free-text field:
// every double quote becomes a single quote, nothing else. This mirrors
// the vendor mobile client exactly and must not be extended.
func EscapeText(text string) string {
	return strings.ReplaceAll(text, `"`, `'`)
}

// BuildSequence assembles the behavior sequence for one operation. The
// envelope always nests the operation inside a parallel start node even
// though only single-operation sequences are built today; the shape
// stays compatible with multi-operation sequences.
func BuildSequence(operationType string, target SequenceTarget, text string) (BehaviorSequence, error) {
	locale := target.Locale
	if locale == "" {
		locale = defaultLocale
	}

	payload := map[string]any{
		"deviceType":         target.DeviceType,
		"deviceSerialNumber": target.SerialNumber,
		"customerId":         target.CustomerID,
		"locale":             locale,
	}

	escaped := EscapeText(text)
	switch operationType {
	case OperationSpeak:
		payload["textToSpeak"] = escaped
	case OperationTextCommand:
		payload["text"] = escaped
	case OperationPlaySearchPhrase:
		payload["searchPhrase"] = escaped
		payload["sanitizedSearchPhrase"] = escaped
		payload["musicProviderId"] = "DEFAULT"
	default:
		return BehaviorSequence{}, fmt.Errorf("unsupported operation type %q", operationType)
	}

	envelope := sequenceEnvelope{
		Type: "com.amazon.alexa.behaviors.model.Sequence",
		StartNode: sequenceStart{
			Type: "com.amazon.alexa.behaviors.model.ParallelNode",
			NodesToExecute: []operationNode{{
				Type:             "com.amazon.alexa.behaviors.model.OpaquePayloadOperationNode",
				OperationType:    operationType,
				OperationPayload: payload,
			}},
		},
	}

	raw, err := json.Marshal(envelope)
	if err != nil {
		return BehaviorSequence{}, err
	}
	return BehaviorSequence{OperationType: operationType, SequenceJSON: string(raw)}, nil
}

// behaviorPreviewRequest is the body of POST /api/behaviors/preview,
// the single write path for every device action.
type behaviorPreviewRequest struct {
	BehaviorID   string `json:"behaviorId"`
	SequenceJSON string `json:"sequenceJson"`
	Status       string `json:"status"`
}

func previewRequest(seq BehaviorSequence) behaviorPreviewRequest {
	return behaviorPreviewRequest{
		BehaviorID:   behaviorIDPreview,
		SequenceJSON: seq.SequenceJSON,
		Status:       behaviorEnabled,
	}
}
