package enums

// ChatIntent is the intent label the chatbot attaches to each reply.
type ChatIntent string

const (
	ChatIntentFallback     ChatIntent = "fallback"
	ChatIntentContactAgent ChatIntent = "contact_agent"
)

// String implements fmt.Stringer.
func (c ChatIntent) String() string {
	return string(c)
}

// NeedsHuman reports whether the reply should offer a hand-off to staff.
func (c ChatIntent) NeedsHuman() bool {
	return c == ChatIntentFallback || c == ChatIntentContactAgent
}
