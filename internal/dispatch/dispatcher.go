package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	goretry "github.com/sethvargo/go-retry"

	"agent-router/internal/availability"
	"agent-router/internal/llm"
	"agent-router/internal/reply"
	"agent-router/internal/retry"
)

const (
	MsgNoResponder         = "No fitting agent found."
	MsgUnclassified        = "I could not determine how to handle your request."
	MsgDispatchUnavailable = "The dispatcher is currently unavailable."
)

const defaultCallTimeout = 30 * time.Second

// WeatherResponder answers weather questions.
type WeatherResponder interface {
	GetWeather(ctx context.Context, utterance string) reply.Reply
}

// KnowledgeResponder answers questions about the car manual corpus.
type KnowledgeResponder interface {
	Answer(ctx context.Context, query string) reply.Reply
}

// capability is one line of the classification prompt.
type capability struct {
	name        string
	description string
}

var capabilities = []capability{
	{WeatherAgent, "Can provide current weather information for any city."},
	{CarManualAgent, "Can provide details and explanations about car models and their manuals."},
}

type Deps struct {
	LLM         llm.Client
	ModelStatus availability.Status
	Weather     WeatherResponder
	Knowledge   KnowledgeResponder
	Retry       retry.Policy
	CallTimeout time.Duration
	Log         *slog.Logger
}

// Dispatcher classifies each query with the language model and forwards
// the rewritten query to the selected responder.
type Dispatcher struct {
	llm       llm.Client
	status    availability.Status
	weather   WeatherResponder
	knowledge KnowledgeResponder
	retry     retry.Policy
	timeout   time.Duration
	log       *slog.Logger
}

func New(d Deps) *Dispatcher {
	if d.CallTimeout <= 0 {
		d.CallTimeout = defaultCallTimeout
	}
	if d.Log == nil {
		d.Log = slog.Default()
	}
	return &Dispatcher{
		llm:       d.LLM,
		status:    d.ModelStatus,
		weather:   d.Weather,
		knowledge: d.Knowledge,
		retry:     d.Retry,
		timeout:   d.CallTimeout,
		log:       d.Log.With("component", "dispatcher"),
	}
}

// Process always returns a reply with non-empty text.
func (d *Dispatcher) Process(ctx context.Context, query string) reply.Reply {
	if !d.status.IsReady() {
		d.log.Warn("dispatch skipped, language model unavailable", "reason", d.status.Reason())
		return reply.Fail(reply.CodeDispatchUnavailable, MsgDispatchUnavailable)
	}

	decision, err := d.classify(ctx, query)
	if err != nil {
		if errors.Is(err, ErrMalformed) {
			d.log.Warn("classification retries exhausted", "attempts", d.retry.Attempts(), "query", query)
			return reply.Fail(reply.CodeUnclassified, MsgUnclassified)
		}
		d.log.Error("classification failed", "err", err)
		return reply.Fail(reply.CodeDispatchUnavailable, MsgDispatchUnavailable)
	}

	d.log.Info("query routed", "responder", decision.Name, "target", decision.Target.String(), "forwarded_query", decision.Query)

	switch decision.Target {
	case TargetWeather:
		return d.weather.GetWeather(ctx, decision.Query)
	case TargetKnowledge:
		return d.knowledge.Answer(ctx, decision.Query)
	default:
		return reply.Fail(reply.CodeNoResponder, MsgNoResponder)
	}
}

// classify asks the model until it answers in the expected format or the
// retry policy gives up. Only malformed answers are retried; a failing
// model call ends the loop at once.
func (d *Dispatcher) classify(ctx context.Context, query string) (Decision, error) {
	prompt := classificationPrompt(query)

	var (
		decision Decision
		attempt  int
	)
	err := goretry.Do(ctx, d.retry.Backoff(), func(ctx context.Context) error {
		attempt++
		out, err := d.complete(ctx, prompt)
		if err != nil {
			return fmt.Errorf("classification call: %w", err)
		}
		parsed, err := ParseDecision(out)
		if err != nil {
			d.log.Warn("malformed classification", "attempt", attempt, "output", out)
			return goretry.RetryableError(err)
		}
		decision = parsed
		return nil
	})
	return decision, err
}

func (d *Dispatcher) complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return d.llm.Complete(ctx, prompt)
}

func classificationPrompt(query string) string {
	var b strings.Builder
	b.WriteString("You are a dispatcher. Given the following agents and their capabilities, ")
	b.WriteString("decide which agent should handle the user query.\n\n")
	for i, c := range capabilities {
		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, c.name, c.description)
	}
	b.WriteString("\nUser query: ")
	b.WriteString(query)
	b.WriteString("\n\nRespond with a single line of the form <agent name>")
	b.WriteString(separator)
	b.WriteString("<query for that agent>, using one of the agent names above exactly as written, ")
	b.WriteString("followed by the user query rewritten for that agent.")
	return b.String()
}
