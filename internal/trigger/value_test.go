package trigger

import (
	"testing"
	"time"

	"github.com/googleapis/google-cloudevents-go/cloud/firestoredata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/type/latlng"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func str(s string) *firestoredata.Value {
	return &firestoredata.Value{ValueType: &firestoredata.Value_StringValue{StringValue: s}}
}

func TestDecodeFields_AllTypes(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 123000000, time.UTC)
	fields := map[string]*firestoredata.Value{
		"s":  str("hi"),
		"b":  {ValueType: &firestoredata.Value_BooleanValue{BooleanValue: true}},
		"i":  {ValueType: &firestoredata.Value_IntegerValue{IntegerValue: 42}},
		"d":  {ValueType: &firestoredata.Value_DoubleValue{DoubleValue: 1.5}},
		"n":  {ValueType: &firestoredata.Value_NullValue{}},
		"ts": {ValueType: &firestoredata.Value_TimestampValue{TimestampValue: timestamppb.New(ts)}},
		"arr": {ValueType: &firestoredata.Value_ArrayValue{ArrayValue: &firestoredata.ArrayValue{
			Values: []*firestoredata.Value{str("u1"), str("u2")},
		}}},
		"emp": {ValueType: &firestoredata.Value_ArrayValue{ArrayValue: &firestoredata.ArrayValue{}}},
		"m": {ValueType: &firestoredata.Value_MapValue{MapValue: &firestoredata.MapValue{
			Fields: map[string]*firestoredata.Value{"k": str("v")},
		}}},
		"ref": {ValueType: &firestoredata.Value_ReferenceValue{ReferenceValue: "projects/p/databases/(default)/documents/users/u1"}},
		"geo": {ValueType: &firestoredata.Value_GeoPointValue{GeoPointValue: &latlng.LatLng{Latitude: 32.1, Longitude: 34.8}}},
		"raw": {ValueType: &firestoredata.Value_BytesValue{BytesValue: []byte("hi")}},
	}

	got, err := decodeFields(fields)
	require.NoError(t, err)

	assert.Equal(t, "hi", got["s"])
	assert.Equal(t, true, got["b"])
	assert.Equal(t, int64(42), got["i"])
	assert.Equal(t, 1.5, got["d"])
	assert.Nil(t, got["n"])
	assert.Contains(t, got, "n")
	assert.Equal(t, ts, got["ts"])
	assert.Equal(t, []interface{}{"u1", "u2"}, got["arr"])
	assert.Equal(t, []interface{}{}, got["emp"])
	assert.Equal(t, map[string]interface{}{"k": "v"}, got["m"])
	assert.Equal(t, "projects/p/databases/(default)/documents/users/u1", got["ref"])
	assert.Equal(t, map[string]interface{}{"latitude": 32.1, "longitude": 34.8}, got["geo"])
	assert.Equal(t, []byte("hi"), got["raw"])
}

func TestDecodeFields_FromJSON(t *testing.T) {
	raw := `{"value": {"fields": {
		"i":  {"integerValue": "42"},
		"ts": {"timestampValue": "2024-05-01T10:00:00Z"},
		"members": {"arrayValue": {"values": [{"stringValue": "u1"}]}}
	}}}`
	var payload firestoredata.DocumentEventData
	require.NoError(t, unmarshalJSON.Unmarshal([]byte(raw), &payload))

	got, err := decodeFields(payload.GetValue().GetFields())
	require.NoError(t, err)
	assert.Equal(t, int64(42), got["i"])
	assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), got["ts"])
	assert.Equal(t, []interface{}{"u1"}, got["members"])
}

func TestDecodeValue_Errors(t *testing.T) {
	_, err := decodeValue(&firestoredata.Value{})
	assert.Error(t, err, "untyped value")

	_, err = decodeValue(&firestoredata.Value{ValueType: &firestoredata.Value_ArrayValue{ArrayValue: &firestoredata.ArrayValue{
		Values: []*firestoredata.Value{str("ok"), {}},
	}}})
	assert.ErrorContains(t, err, "element 1")
}

func TestMatch(t *testing.T) {
	params, ok := Match("chats/{chatId}/messages/{messageId}", "chats/c1/messages/m1")
	require.True(t, ok)
	assert.Equal(t, map[string]string{"chatId": "c1", "messageId": "m1"}, params)

	_, ok = Match("chats/{chatId}/messages/{messageId}", "chats/c1")
	assert.False(t, ok)

	_, ok = Match("match_requests/{requestId}", "moves/r1")
	assert.False(t, ok)

	params, ok = Match("moves/{requestId}", "/moves/r1/")
	require.True(t, ok)
	assert.Equal(t, "r1", params["requestId"])
}

func TestRelativePath(t *testing.T) {
	assert.Equal(t, "users/u1", relativePath("projects/p/databases/(default)/documents/users/u1"))
	assert.Equal(t, "users/u1", relativePath("documents/users/u1"))
	assert.Equal(t, "users/u1", relativePath("users/u1"))
}
