package trigger

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	cloudevents "github.com/cloudevents/sdk-go/v2"
	cehttp "github.com/cloudevents/sdk-go/v2/protocol/http"
	"github.com/cloudevents/sdk-go/v2/types"
	"github.com/googleapis/google-cloudevents-go/cloud/firestoredata"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// Kind is the document change that produced an event.
type Kind string

const (
	KindCreated Kind = "created"
	KindUpdated Kind = "updated"
	KindDeleted Kind = "deleted"
	// KindWritten is resolved to one of the kinds above while parsing.
	KindWritten Kind = "written"
)

const (
	firestoreEventTypePrefix = "google.cloud.firestore.document.v1."
	// Triggers created with auth context append this to every type.
	authContextSuffix = ".withAuthContext"
)

var (
	// ErrMalformedEvent means the request does not carry a usable document event.
	ErrMalformedEvent = errors.New("malformed document event")
	// ErrUnsupportedEncoding means the event data is neither JSON nor protobuf.
	ErrUnsupportedEncoding = errors.New("unsupported event data encoding")
)

// Event is a decoded Firestore document change.
type Event struct {
	ID       string
	Kind     Kind
	Document string            // relative path, e.g. chats/c1/messages/m1
	Params   map[string]string // wildcard captures of the matched pattern
	Before   map[string]interface{}
	After    map[string]interface{}
}

var unmarshalJSON = protojson.UnmarshalOptions{DiscardUnknown: true}

// ParseRequest decodes a Firestore CloudEvent delivered over HTTP in binary or
// structured mode. The DocumentEventData payload may be JSON or protobuf.
func ParseRequest(req *http.Request) (Event, error) {
	ce, err := cehttp.NewEventFromHTTPRequest(req)
	if err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	payload, err := decodeData(ce)
	if err != nil {
		return Event{}, err
	}

	ev := Event{ID: ce.ID()}
	if old := payload.GetOldValue(); old != nil {
		if ev.Before, err = decodeFields(old.GetFields()); err != nil {
			return Event{}, fmt.Errorf("%w: oldValue: %v", ErrMalformedEvent, err)
		}
	}
	if cur := payload.GetValue(); cur != nil {
		if ev.After, err = decodeFields(cur.GetFields()); err != nil {
			return Event{}, fmt.Errorf("%w: value: %v", ErrMalformedEvent, err)
		}
	}

	ev.Document = resolveDocument(extension(ce, "document"), ce.Subject(), payload)
	if ev.Document == "" {
		return Event{}, fmt.Errorf("%w: no document path", ErrMalformedEvent)
	}

	ev.Kind, err = resolveKind(ce.Type(), payload.GetOldValue() != nil, payload.GetValue() != nil)
	if err != nil {
		return Event{}, err
	}
	return ev, nil
}

func decodeData(ce *cloudevents.Event) (*firestoredata.DocumentEventData, error) {
	mediaType := ""
	if ct := ce.DataContentType(); ct != "" {
		mt, _, err := mime.ParseMediaType(ct)
		if err != nil {
			return nil, fmt.Errorf("%w: bad content type %q", ErrMalformedEvent, ct)
		}
		mediaType = mt
	}

	var payload firestoredata.DocumentEventData
	switch mediaType {
	case "", "application/json":
		if err := unmarshalJSON.Unmarshal(ce.Data(), &payload); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
	case "application/protobuf", "application/x-protobuf":
		if err := proto.Unmarshal(ce.Data(), &payload); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEncoding, mediaType)
	}
	return &payload, nil
}

func extension(ce *cloudevents.Event, name string) string {
	v, ok := ce.Extensions()[name]
	if !ok {
		return ""
	}
	s, err := types.ToString(v)
	if err != nil {
		return ""
	}
	return s
}

func resolveDocument(document, subject string, payload *firestoredata.DocumentEventData) string {
	if document != "" {
		return strings.Trim(document, "/")
	}
	if subject != "" {
		return strings.Trim(relativePath(subject), "/")
	}
	for _, d := range []*firestoredata.Document{payload.GetValue(), payload.GetOldValue()} {
		if name := d.GetName(); name != "" {
			return strings.Trim(relativePath(name), "/")
		}
	}
	return ""
}

func resolveKind(ceType string, hasOld, hasNew bool) (Kind, error) {
	kind := KindWritten
	if ceType != "" {
		if !strings.HasPrefix(ceType, firestoreEventTypePrefix) {
			return "", fmt.Errorf("%w: unexpected event type %q", ErrMalformedEvent, ceType)
		}
		kind = Kind(strings.TrimSuffix(strings.TrimPrefix(ceType, firestoreEventTypePrefix), authContextSuffix))
	}

	switch kind {
	case KindCreated, KindUpdated, KindDeleted:
		return kind, nil
	case KindWritten:
		switch {
		case !hasOld && hasNew:
			return KindCreated, nil
		case hasOld && hasNew:
			return KindUpdated, nil
		case hasOld && !hasNew:
			return KindDeleted, nil
		}
		return "", fmt.Errorf("%w: written event without old or new value", ErrMalformedEvent)
	}
	return "", fmt.Errorf("%w: unexpected event type %q", ErrMalformedEvent, ceType)
}
