package executor

import (
	"context"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"krishi-voice-be/internal/constant"
	"krishi-voice-be/pkg/llm"
	"krishi-voice-be/pkg/store"
	"krishi-voice-be/pkg/tools"
)

// scriptedProvider returns canned decisions in order, one per ChatWithTools call.
type scriptedProvider struct {
	decisions []*llm.Decision
	errs      []error
	calls     int
}

func (p *scriptedProvider) ChatWithTools(ctx context.Context, history []llm.Message, defs []llm.ToolDefinition, opts ...llm.Option) (*llm.Decision, error) {
	idx := p.calls
	p.calls++
	if idx < len(p.errs) && p.errs[idx] != nil {
		return nil, p.errs[idx]
	}
	if idx >= len(p.decisions) {
		return nil, errors.New("script exhausted")
	}
	return p.decisions[idx], nil
}

type stubTool struct {
	def    llm.ToolDefinition
	invoke func(ctx context.Context, args map[string]interface{}) (interface{}, error)
}

func (s *stubTool) Definition() llm.ToolDefinition { return s.def }
func (s *stubTool) Invoke(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	return s.invoke(ctx, args)
}

func echoToolDef(name string) llm.ToolDefinition {
	return llm.ToolDefinition{
		Type: "function",
		Function: llm.FunctionDefinition{
			Name:        name,
			Description: "test tool",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"location": map[string]interface{}{"type": "string"},
				},
				"required": []string{},
			},
		},
	}
}

func answerDecision(text string) *llm.Decision {
	return &llm.Decision{Answer: text}
}

func toolDecision(name string, args map[string]interface{}) *llm.Decision {
	return &llm.Decision{ToolCalls: []llm.ToolCall{{
		ID:       "call_0",
		Function: llm.FunctionCall{Name: name, Arguments: args},
	}}}
}

func newTestExecutor(provider llm.LLMProvider, registry *tools.Registry, budget int, toolTimeout time.Duration) *TurnExecutor {
	return NewTurnExecutor(provider, registry, Config{
		TurnBudget:   budget,
		ToolTimeout:  toolTimeout,
		MaxAnswerLen: 600,
	}, log.New(log.Writer(), "", 0))
}

func TestExecuteDirectAnswer(t *testing.T) {
	provider := &scriptedProvider{decisions: []*llm.Decision{answerDecision("**Wheat** needs water.")}}
	exec := newTestExecutor(provider, tools.NewRegistry(), 4, time.Second)

	session := &store.Session{CallID: "c1"}
	turn := exec.Execute(context.Background(), session, 1, "tell me about wheat")

	if turn.Failed {
		t.Fatal("turn should not be failed")
	}
	if turn.Answer != "Wheat needs water." {
		t.Errorf("Answer = %q, want markup stripped", turn.Answer)
	}
	if len(turn.ToolCalls) != 0 {
		t.Errorf("expected no tool calls, got %d", len(turn.ToolCalls))
	}
}

func TestExecuteUnknownToolRecovery(t *testing.T) {
	provider := &scriptedProvider{decisions: []*llm.Decision{
		toolDecision("get_soil_report", nil),
		answerDecision("I could not check that, but here is general advice."),
	}}
	exec := newTestExecutor(provider, tools.NewRegistry(), 4, time.Second)

	session := &store.Session{CallID: "c1"}
	turn := exec.Execute(context.Background(), session, 1, "soil report please")

	if turn.Failed {
		t.Fatal("unknown tool must not fail the turn")
	}
	if len(turn.ToolCalls) != 1 || !turn.ToolCalls[0].Failed {
		t.Fatalf("expected one failed tool call, got %+v", turn.ToolCalls)
	}
	if turn.Answer == "" {
		t.Error("expected an answer after recovery")
	}
	if provider.calls != 2 {
		t.Errorf("provider called %d times, want 2 (one recovery round)", provider.calls)
	}
}

func TestExecuteBudgetExhausted(t *testing.T) {
	registry := tools.NewRegistry()
	if err := registry.Register(&stubTool{
		def: echoToolDef("get_weather_forecast"),
		invoke: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			return map[string]string{"summary": "sunny"}, nil
		},
	}); err != nil {
		t.Fatal(err)
	}

	// The model keeps asking for the same tool and never answers.
	loop := toolDecision("get_weather_forecast", map[string]interface{}{"location": "Hisar"})
	provider := &scriptedProvider{decisions: []*llm.Decision{loop, loop, loop, loop}}
	exec := newTestExecutor(provider, registry, 2, time.Second)

	session := &store.Session{CallID: "c1"}
	turn := exec.Execute(context.Background(), session, 1, "weather?")

	if turn.Answer != constant.FallbackBudgetExceeded {
		t.Errorf("Answer = %q, want budget fallback", turn.Answer)
	}
	if len(turn.ToolCalls) != 2 {
		t.Errorf("recorded %d tool calls, want exactly the budget (2)", len(turn.ToolCalls))
	}
	if provider.calls != 2 {
		t.Errorf("provider called %d times, want exactly the budget (2)", provider.calls)
	}
}

func TestExecuteReasoningFailure(t *testing.T) {
	provider := &scriptedProvider{errs: []error{errors.New("connection refused")}}
	exec := newTestExecutor(provider, tools.NewRegistry(), 4, time.Second)

	session := &store.Session{CallID: "c1"}
	turn := exec.Execute(context.Background(), session, 1, "what is the mandi price of wheat")

	if !turn.Failed {
		t.Fatal("reasoning failure must mark the turn failed")
	}
	if !strings.Contains(turn.Answer, "market") {
		t.Errorf("expected keyword-routed fallback, got %q", turn.Answer)
	}
}

func TestExecuteToolTimeout(t *testing.T) {
	registry := tools.NewRegistry()
	if err := registry.Register(&stubTool{
		def: echoToolDef("get_weather_forecast"),
		invoke: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		},
	}); err != nil {
		t.Fatal(err)
	}

	provider := &scriptedProvider{decisions: []*llm.Decision{
		toolDecision("get_weather_forecast", map[string]interface{}{"location": "Pune"}),
		answerDecision("The weather service is slow right now, please try again shortly."),
	}}
	exec := newTestExecutor(provider, registry, 4, 10*time.Millisecond)

	session := &store.Session{CallID: "c1"}
	turn := exec.Execute(context.Background(), session, 1, "forecast for Pune")

	if turn.Failed {
		t.Fatal("a timing-out tool must not fail the turn")
	}
	if len(turn.ToolCalls) != 1 || !turn.ToolCalls[0].Failed {
		t.Fatalf("expected one failed tool call record, got %+v", turn.ToolCalls)
	}
	if turn.Answer == "" {
		t.Error("expected a spoken answer despite the timeout")
	}
}

func TestExecuteInvalidArgumentsRecovery(t *testing.T) {
	registry := tools.NewRegistry()
	if err := registry.Register(&stubTool{
		def: echoToolDef("get_weather_forecast"),
		invoke: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			t.Fatal("tool must not be invoked with invalid arguments")
			return nil, nil
		},
	}); err != nil {
		t.Fatal(err)
	}

	provider := &scriptedProvider{decisions: []*llm.Decision{
		toolDecision("get_weather_forecast", map[string]interface{}{"city": "Pune"}),
		answerDecision("Could you tell me which district you are in?"),
	}}
	exec := newTestExecutor(provider, registry, 4, time.Second)

	session := &store.Session{CallID: "c1"}
	turn := exec.Execute(context.Background(), session, 1, "forecast")

	if len(turn.ToolCalls) != 1 || !turn.ToolCalls[0].Failed {
		t.Fatalf("expected one failed tool call record, got %+v", turn.ToolCalls)
	}
	if !strings.Contains(turn.ToolCalls[0].Error, "unexpected argument") {
		t.Errorf("Error = %q, want argument validation failure", turn.ToolCalls[0].Error)
	}
}

func TestExecuteHarvestsFarmerContext(t *testing.T) {
	registry := tools.NewRegistry()
	if err := registry.Register(&stubTool{
		def: echoToolDef("get_weather_forecast"),
		invoke: func(ctx context.Context, args map[string]interface{}) (interface{}, error) {
			return map[string]string{"summary": "clear"}, nil
		},
	}); err != nil {
		t.Fatal(err)
	}

	provider := &scriptedProvider{decisions: []*llm.Decision{
		toolDecision("get_weather_forecast", map[string]interface{}{"location": "Ludhiana"}),
		answerDecision("Clear skies in Ludhiana for the next two days."),
	}}
	exec := newTestExecutor(provider, registry, 4, time.Second)

	session := &store.Session{CallID: "c1"}
	exec.Execute(context.Background(), session, 1, "weather in ludhiana")

	if session.Context.Location != "Ludhiana" {
		t.Errorf("Context.Location = %q, want harvested from tool arguments", session.Context.Location)
	}
}
