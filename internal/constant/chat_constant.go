package constant

const (
	TurnRoleUser      = "user"
	TurnRoleAssistant = "assistant"
)

const (
	// GreetingTurn seeds every new conversation transcript.
	GreetingTurn = "Hi, I'm Strategy Buddy. How can I help you?"

	// ErrorTurn replaces the assistant reply whenever the turn pipeline fails,
	// whatever the cause. The client never sees pipeline internals.
	ErrorTurn = "Sorry, there was an error processing your request."

	// NoTextResponse is returned verbatim when a completed run produced a
	// message with no text block. Not an error.
	NoTextResponse = "No text response available"
)

// DocumentBlockHeader delimits inlined document text in the outgoing prompt.
const DocumentBlockHeader = "\n--- Document: %s ---\n"

// FormattingDirective is appended to every enriched prompt. Prompt-level
// convention only; nothing enforces the shape of the reply.
const FormattingDirective = "\n\nFormat your response using structured markdown: " +
	"use headings, tables, bold text and horizontal rules where they aid readability."
