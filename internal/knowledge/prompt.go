package knowledge

import (
	"strings"

	"github.com/google/uuid"

	"agent-router/internal/conversation"
	"agent-router/internal/index"
)

func writeHistory(b *strings.Builder, history []conversation.Turn) {
	for _, turn := range history {
		b.WriteString("User: ")
		b.WriteString(turn.Question)
		b.WriteString("\nAssistant: ")
		b.WriteString(turn.Answer)
		b.WriteString("\n")
	}
}

// condensePrompt asks for a follow-up question rewritten so it can be
// understood, and searched for, without the conversation.
func condensePrompt(history []conversation.Turn, question string) string {
	var b strings.Builder
	b.WriteString("Rewrite the follow-up question so it can be understood without the conversation below. ")
	b.WriteString("Resolve pronouns and references to earlier turns. Keep the language of the question. ")
	b.WriteString("Reply with the rewritten question only.\n\n")
	b.WriteString("Conversation:\n")
	writeHistory(&b, history)
	b.WriteString("\nFollow-up question: ")
	b.WriteString(question)
	b.WriteString("\nStandalone question:")
	return b.String()
}

func answerPrompt(question string, passages []index.Passage, history []conversation.Turn) string {
	var b strings.Builder
	b.WriteString("You answer questions about a car using only the manual excerpts below. ")
	b.WriteString("If the excerpts do not contain the answer, say that you do not know.\n\n")
	b.WriteString("Excerpts:\n")
	b.WriteString(buildContext(passages))
	if len(history) > 0 {
		b.WriteString("\nConversation so far:\n")
		writeHistory(&b, history)
	}
	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\nAnswer:")
	return b.String()
}

// buildContext concatenates passage texts, prefixing each document's
// summary the first time one of its passages shows up.
func buildContext(passages []index.Passage) string {
	var b strings.Builder
	seen := make(map[uuid.UUID]bool)
	for _, p := range passages {
		if p.Summary != "" && !seen[p.DocumentID] {
			seen[p.DocumentID] = true
			b.WriteString("[Document summary] ")
			b.WriteString(p.Summary)
			if len(p.KeyPoints) > 0 {
				b.WriteString(" Key points: ")
				b.WriteString(strings.Join(p.KeyPoints, "; "))
			}
			b.WriteString("\n")
		}
		b.WriteString(p.Text)
		b.WriteString("\n")
	}
	return b.String()
}
