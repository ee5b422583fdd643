package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_ChatMessage(t *testing.T) {
	var msg ChatMessage
	err := Decode(map[string]interface{}{"senderId": "u1", "text": "hi", "imageUrl": "x"}, &msg)
	require.NoError(t, err)
	assert.Equal(t, "u1", msg.SenderID)
	assert.Equal(t, "hi", msg.Text)
}

func TestDecode_MissingSenderIsInvalid(t *testing.T) {
	var msg ChatMessage
	err := Decode(map[string]interface{}{"text": "hi"}, &msg)
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestDecode_WrongTypeIsInvalid(t *testing.T) {
	var req MatchRequest
	err := Decode(map[string]interface{}{"status": []interface{}{"pending"}}, &req)
	assert.ErrorIs(t, err, ErrInvalidDocument)
}

func TestDecode_NilFieldsGiveZeroRecord(t *testing.T) {
	var mv Move
	require.NoError(t, Decode(nil, &mv))
	assert.Equal(t, Move{}, mv)
}

func TestChatMessage_BodyPrecedence(t *testing.T) {
	assert.Equal(t, "m", ChatMessage{Message: "m", Text: "t", Content: "c"}.Body("p"))
	assert.Equal(t, "t", ChatMessage{Text: "t", Content: "c"}.Body("p"))
	assert.Equal(t, "c", ChatMessage{Content: "c"}.Body("p"))
	assert.Equal(t, "p", ChatMessage{}.Body("p"))
}

func TestChat_OtherParticipant(t *testing.T) {
	chat := Chat{UserIDs: []string{"u1", "u2"}}
	for _, tc := range []struct{ sender, want string }{{"u1", "u2"}, {"u2", "u1"}} {
		got, ok := chat.OtherParticipant(tc.sender)
		assert.True(t, ok)
		assert.Equal(t, tc.want, got)
	}

	_, ok := Chat{UserIDs: []string{"u2"}}.OtherParticipant("u1")
	assert.False(t, ok, "single participant")

	_, ok = Chat{}.OtherParticipant("u1")
	assert.False(t, ok, "absent participants")

	_, ok = Chat{UserIDs: []string{"u1", "u1"}}.OtherParticipant("u1")
	assert.False(t, ok, "self chat")

	got, ok := Chat{UserIDs: []string{"u1", "u2", "u3"}}.OtherParticipant("u1")
	assert.True(t, ok)
	assert.Equal(t, "u2", got, "group chats pick the first other member")
}
