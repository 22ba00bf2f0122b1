package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"agent-router/internal/availability"
	"agent-router/internal/conversation"
	"agent-router/internal/index"
	"agent-router/internal/llm"
	"agent-router/internal/reply"
)

const (
	MsgModelUnavailable = "The language model is currently unavailable."
	MsgIndexUnavailable = "The knowledge base is currently unavailable."
	MsgEmptyQuestion    = "Please ask a question."
	MsgFailed           = "An error occurred while processing your request."
)

const defaultCallTimeout = 30 * time.Second

type Deps struct {
	LLM         llm.Client
	Retriever   Retriever
	History     *conversation.History
	ModelStatus availability.Status
	IndexStatus availability.Status
	CallTimeout time.Duration
	Log         *slog.Logger
}

// Responder answers questions about the car manual corpus. It is the only
// writer of the conversation history: a turn is appended after a successful
// answer and never on failure.
type Responder struct {
	llm         llm.Client
	retriever   Retriever
	history     *conversation.History
	modelStatus availability.Status
	indexStatus availability.Status
	timeout     time.Duration
	log         *slog.Logger
}

func NewResponder(d Deps) *Responder {
	if d.History == nil {
		d.History = conversation.NewHistory()
	}
	if d.CallTimeout <= 0 {
		d.CallTimeout = defaultCallTimeout
	}
	if d.Log == nil {
		d.Log = slog.Default()
	}
	return &Responder{
		llm:         d.LLM,
		retriever:   d.Retriever,
		history:     d.History,
		modelStatus: d.ModelStatus,
		indexStatus: d.IndexStatus,
		timeout:     d.CallTimeout,
		log:         d.Log.With("responder", "knowledge"),
	}
}

// History exposes the turns for read-only use.
func (r *Responder) History() []conversation.Turn {
	return r.history.Snapshot()
}

func (r *Responder) Answer(ctx context.Context, query string) reply.Reply {
	if !r.modelStatus.IsReady() {
		r.log.Warn("language model unavailable", "reason", r.modelStatus.Reason())
		return reply.Fail(reply.CodeModelUnavailable, MsgModelUnavailable)
	}
	if !r.indexStatus.IsReady() {
		r.log.Warn("knowledge index unavailable", "reason", r.indexStatus.Reason())
		return reply.Fail(reply.CodeIndexUnavailable, MsgIndexUnavailable)
	}
	if strings.TrimSpace(query) == "" {
		return reply.Fail(reply.CodeEmptyQuestion, MsgEmptyQuestion)
	}

	answer, err := r.answer(ctx, query)
	if err != nil {
		r.log.Error("knowledge answer failed", "question", query, "err", err)
		return reply.Fail(reply.CodeKnowledgeFailed, MsgFailed)
	}
	turn := r.history.Append(query, answer)
	r.log.Debug("turn recorded", "turn_id", turn.ID)
	return reply.OK(answer)
}

func (r *Responder) answer(ctx context.Context, query string) (answer string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()
	history := r.history.Snapshot()

	question := query
	if len(history) > 0 {
		standalone, err := r.complete(ctx, condensePrompt(history, query))
		if err != nil {
			return "", fmt.Errorf("condense question: %w", err)
		}
		if s := strings.TrimSpace(standalone); s != "" {
			question = s
		}
		r.log.Debug("condensed follow-up question", "question", query, "standalone", question)
	}

	passages, err := r.retrieve(ctx, question)
	if err != nil {
		return "", fmt.Errorf("retrieve passages: %w", err)
	}
	r.log.Debug("retrieved passages", "count", len(passages))

	answer, err = r.complete(ctx, answerPrompt(question, passages, history))
	if err != nil {
		return "", fmt.Errorf("complete answer: %w", err)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", llm.ErrEmptyCompletion
	}
	return answer, nil
}

func (r *Responder) complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.llm.Complete(ctx, prompt)
}

func (r *Responder) retrieve(ctx context.Context, question string) ([]index.Passage, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	return r.retriever.Retrieve(ctx, question)
}
