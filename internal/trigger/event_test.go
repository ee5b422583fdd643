package trigger

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/googleapis/google-cloudevents-go/cloud/firestoredata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
)

const updateBody = `{
	"oldValue": {
		"name": "projects/p/databases/(default)/documents/match_requests/r1",
		"fields": {"status": {"stringValue": "pending"}, "moveId": {"stringValue": "mv1"}}
	},
	"value": {
		"name": "projects/p/databases/(default)/documents/match_requests/r1",
		"fields": {"status": {"stringValue": "waiting_for_mover"}, "moveId": {"stringValue": "mv1"}}
	},
	"updateMask": {"fieldPaths": ["status"]}
}`

func binaryHeader(ceType, document string) http.Header {
	h := http.Header{}
	h.Set("Content-Type", "application/json; charset=utf-8")
	h.Set("ce-specversion", "1.0")
	h.Set("ce-id", "evt-1")
	h.Set("ce-source", "//firestore.googleapis.com/projects/p/databases/(default)")
	h.Set("ce-type", ceType)
	if document != "" {
		h.Set("ce-document", document)
	}
	return h
}

func parse(h http.Header, body []byte) (Event, error) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(string(body)))
	req.Header = h
	return ParseRequest(req)
}

func TestParseRequest_BinaryMode(t *testing.T) {
	ev, err := parse(binaryHeader("google.cloud.firestore.document.v1.updated", "match_requests/r1"), []byte(updateBody))
	require.NoError(t, err)

	assert.Equal(t, "evt-1", ev.ID)
	assert.Equal(t, KindUpdated, ev.Kind)
	assert.Equal(t, "match_requests/r1", ev.Document)
	assert.Equal(t, "pending", ev.Before["status"])
	assert.Equal(t, "waiting_for_mover", ev.After["status"])
}

func TestParseRequest_Protobuf(t *testing.T) {
	data, err := proto.Marshal(&firestoredata.DocumentEventData{
		Value: &firestoredata.Document{
			Name: "projects/p/databases/(default)/documents/chats/c1/messages/m1",
			Fields: map[string]*firestoredata.Value{
				"senderId": {ValueType: &firestoredata.Value_StringValue{StringValue: "u1"}},
				"seq":      {ValueType: &firestoredata.Value_IntegerValue{IntegerValue: 7}},
			},
		},
	})
	require.NoError(t, err)

	h := binaryHeader("google.cloud.firestore.document.v1.created", "")
	h.Set("Content-Type", "application/protobuf")
	ev, err := parse(h, data)
	require.NoError(t, err)

	assert.Equal(t, KindCreated, ev.Kind)
	assert.Equal(t, "chats/c1/messages/m1", ev.Document)
	assert.Equal(t, "u1", ev.After["senderId"])
	assert.Equal(t, int64(7), ev.After["seq"])
	assert.Nil(t, ev.Before)
}

func TestParseRequest_AuthContextType(t *testing.T) {
	ev, err := parse(binaryHeader("google.cloud.firestore.document.v1.created.withAuthContext", "match_requests/r1"), []byte(updateBody))
	require.NoError(t, err)
	assert.Equal(t, KindCreated, ev.Kind)

	ev, err = parse(binaryHeader("google.cloud.firestore.document.v1.written.withAuthContext", ""), []byte(updateBody))
	require.NoError(t, err)
	assert.Equal(t, KindUpdated, ev.Kind)
}

func TestParseRequest_DocumentFromValueName(t *testing.T) {
	ev, err := parse(binaryHeader("google.cloud.firestore.document.v1.updated", ""), []byte(updateBody))
	require.NoError(t, err)
	assert.Equal(t, "match_requests/r1", ev.Document)
}

func TestParseRequest_DocumentFromSubject(t *testing.T) {
	h := binaryHeader("google.cloud.firestore.document.v1.updated", "")
	h.Set("ce-subject", "documents/match_requests/r9")
	ev, err := parse(h, []byte(updateBody))
	require.NoError(t, err)
	assert.Equal(t, "match_requests/r9", ev.Document)
}

func TestParseRequest_WrittenResolvesKind(t *testing.T) {
	deleted := `{"oldValue": {"name": "projects/p/databases/(default)/documents/match_requests/r1", "fields": {"status": {"stringValue": "pending"}}}}`
	ev, err := parse(binaryHeader("google.cloud.firestore.document.v1.written", ""), []byte(deleted))
	require.NoError(t, err)
	assert.Equal(t, KindDeleted, ev.Kind)
	assert.Nil(t, ev.After)

	ev, err = parse(binaryHeader("google.cloud.firestore.document.v1.written", ""), []byte(updateBody))
	require.NoError(t, err)
	assert.Equal(t, KindUpdated, ev.Kind)
}

func TestParseRequest_StructuredMode(t *testing.T) {
	body := `{
		"specversion": "1.0",
		"id": "evt-2",
		"source": "//firestore.googleapis.com/projects/p/databases/(default)",
		"type": "google.cloud.firestore.document.v1.created",
		"document": "chats/c1/messages/m1",
		"datacontenttype": "application/json",
		"data": {"value": {"fields": {"senderId": {"stringValue": "u1"}, "text": {"stringValue": "hi"}}}}
	}`
	h := http.Header{}
	h.Set("Content-Type", "application/cloudevents+json")

	ev, err := parse(h, []byte(body))
	require.NoError(t, err)
	assert.Equal(t, "evt-2", ev.ID)
	assert.Equal(t, KindCreated, ev.Kind)
	assert.Equal(t, "chats/c1/messages/m1", ev.Document)
	assert.Equal(t, "u1", ev.After["senderId"])
	assert.Nil(t, ev.Before)
}

func TestParseRequest_Errors(t *testing.T) {
	_, err := parse(binaryHeader("google.cloud.firestore.document.v1.updated", "x/y"), []byte("{not json"))
	assert.ErrorIs(t, err, ErrMalformedEvent)

	_, err = parse(binaryHeader("google.cloud.storage.object.v1.finalized", "x/y"), []byte(updateBody))
	assert.ErrorIs(t, err, ErrMalformedEvent)

	_, err = parse(binaryHeader("google.cloud.firestore.document.v1.created", ""), []byte(`{}`))
	assert.ErrorIs(t, err, ErrMalformedEvent, "no document path")

	h := binaryHeader("google.cloud.firestore.document.v1.created", "x/y")
	h.Del("ce-specversion")
	_, err = parse(h, []byte(updateBody))
	assert.ErrorIs(t, err, ErrMalformedEvent, "not a cloud event")

	h = binaryHeader("google.cloud.firestore.document.v1.created", "x/y")
	h.Set("Content-Type", "application/protobuf")
	_, err = parse(h, []byte{0xff, 0xff})
	assert.ErrorIs(t, err, ErrMalformedEvent, "truncated protobuf")

	h = binaryHeader("google.cloud.firestore.document.v1.created", "x/y")
	h.Set("Content-Type", "text/plain")
	_, err = parse(h, []byte("hello"))
	assert.ErrorIs(t, err, ErrUnsupportedEncoding)
}
