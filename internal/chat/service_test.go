package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/hearth-storefront/pkg/chatbot"
	"github.com/angelmondragon/hearth-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/hearth-storefront/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBot struct {
	reply *chatbot.Reply
	err   error
	calls int
}

func (s *stubBot) Send(context.Context, string) (*chatbot.Reply, error) {
	s.calls++
	return s.reply, s.err
}

func TestAskIgnoresBlankMessage(t *testing.T) {
	t.Parallel()
	bot := &stubBot{}
	svc, err := NewService(bot, "+254113368527", nil)
	require.NoError(t, err)

	_, err = svc.Ask(context.Background(), "   ")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	assert.Zero(t, bot.calls)
}

func TestAskOffersWhatsAppForHandOffIntents(t *testing.T) {
	t.Parallel()
	for _, intent := range []enums.ChatIntent{enums.ChatIntentFallback, enums.ChatIntentContactAgent} {
		svc, _ := NewService(&stubBot{reply: &chatbot.Reply{Response: "Let me get someone", Intent: intent}}, "+254 113 368 527", nil)
		reply, err := svc.Ask(context.Background(), "I need help")
		require.NoError(t, err)
		assert.Equal(t, "https://wa.me/254113368527", reply.WhatsAppURL)
	}

	svc, _ := NewService(&stubBot{reply: &chatbot.Reply{Response: "Breakfast is at 7", Intent: "breakfast_hours"}}, "+254113368527", nil)
	reply, err := svc.Ask(context.Background(), "breakfast?")
	require.NoError(t, err)
	assert.Empty(t, reply.WhatsAppURL)
	assert.Equal(t, "Breakfast is at 7", reply.Text)
}

func TestAskApologisesOnFailure(t *testing.T) {
	t.Parallel()
	svc, _ := NewService(&stubBot{err: errors.New("down")}, "+254113368527", nil)
	reply, err := svc.Ask(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, msgBotFailure, reply.Text)
	assert.Empty(t, reply.WhatsAppURL)
}

func TestWelcome(t *testing.T) {
	t.Parallel()
	svc, _ := NewService(&stubBot{}, "", nil)
	assert.Equal(t, "Hello! How can we help you today?", svc.Welcome().Text)
	assert.Empty(t, WhatsAppLink("n/a"))
}
