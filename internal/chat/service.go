// Package chat relays guest questions to the chatbot and decides when to
// offer a hand-off to a human agent on WhatsApp.
package chat

import (
	"context"
	"strings"
	"unicode"

	"github.com/angelmondragon/hearth-storefront/pkg/chatbot"
	"github.com/angelmondragon/hearth-storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/hearth-storefront/pkg/errors"
	"github.com/angelmondragon/hearth-storefront/pkg/logger"
)

const (
	Greeting      = "Hello! How can we help you today?"
	msgBotFailure = "Sorry, something went wrong. Please try again later."
)

// Reply is one bot message in the widget.
type Reply struct {
	Text        string           `json:"text"`
	Intent      enums.ChatIntent `json:"intent,omitempty"`
	WhatsAppURL string           `json:"whatsapp_url,omitempty"`
}

type chatClient interface {
	Send(ctx context.Context, message string) (*chatbot.Reply, error)
}

type Service struct {
	client      chatClient
	whatsAppURL string
	logg        *logger.Logger
}

// NewService wires the chatbot client. whatsAppNumber may contain spaces or a
// leading plus; only its digits end up in the link.
func NewService(client chatClient, whatsAppNumber string, logg *logger.Logger) (*Service, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "chatbot client required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service{client: client, whatsAppURL: WhatsAppLink(whatsAppNumber), logg: logg}, nil
}

// Welcome is the first bot message shown when the widget opens.
func (s *Service) Welcome() Reply {
	return Reply{Text: Greeting}
}

// Ask sends message to the chatbot. Chatbot failures become an apology reply
// rather than an error so the conversation can continue.
func (s *Service) Ask(ctx context.Context, message string) (*Reply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "message is required")
	}

	res, err := s.client.Send(ctx, message)
	if err != nil {
		s.logg.Error(ctx, "chatbot request failed", err)
		return &Reply{Text: msgBotFailure}, nil
	}

	reply := &Reply{Text: res.Response, Intent: res.Intent}
	if res.Intent.NeedsHuman() && s.whatsAppURL != "" {
		reply.WhatsAppURL = s.whatsAppURL
	}
	return reply, nil
}

// WhatsAppLink builds a wa.me link from a phone number.
func WhatsAppLink(number string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, number)
	if digits == "" {
		return ""
	}
	return "https://wa.me/" + digits
}
