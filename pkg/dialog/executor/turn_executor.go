package executor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"krishi-voice-be/internal/constant"
	"krishi-voice-be/pkg/dialog/prompt"
	"krishi-voice-be/pkg/llm"
	"krishi-voice-be/pkg/store"
	"krishi-voice-be/pkg/tools"
)

// Config bounds one turn of the reasoning loop.
type Config struct {
	TurnBudget   int           // max tool-invocation rounds before the fixed fallback
	ToolTimeout  time.Duration // ceiling per tool execution
	MaxAnswerLen int           // spoken-length ceiling in bytes
}

func DefaultConfig() Config {
	return Config{
		TurnBudget:   4,
		ToolTimeout:  5 * time.Second,
		MaxAnswerLen: 600,
	}
}

// TurnExecutor converts one caller utterance into one assistant response,
// orchestrating zero or more tool calls. All failures are absorbed here: the
// returned turn always carries well-formed spoken text, never an error,
// because the consumer is a live phone call.
type TurnExecutor struct {
	provider llm.LLMProvider
	registry *tools.Registry
	builder  *prompt.Builder
	config   Config
	logger   *log.Logger
}

func NewTurnExecutor(provider llm.LLMProvider, registry *tools.Registry, config Config, logger *log.Logger) *TurnExecutor {
	if config.TurnBudget <= 0 {
		config.TurnBudget = DefaultConfig().TurnBudget
	}
	if config.ToolTimeout <= 0 {
		config.ToolTimeout = DefaultConfig().ToolTimeout
	}
	return &TurnExecutor{
		provider: provider,
		registry: registry,
		builder:  prompt.NewBuilder(),
		config:   config,
		logger:   logger,
	}
}

// Execute runs the reasoning loop for one utterance. The session is a
// read/mutate handle valid for this turn only; the caller persists the
// returned turn through the session manager.
func (e *TurnExecutor) Execute(ctx context.Context, session *store.Session, sequence int64, utterance string) store.Turn {
	turn := store.Turn{
		Sequence:  sequence,
		Utterance: utterance,
		CreatedAt: time.Now(),
	}

	messages := e.builder.Build(session, utterance)
	definitions := e.registry.Definitions()

	for round := 0; round < e.config.TurnBudget; round++ {
		decision, err := e.provider.ChatWithTools(ctx, messages, definitions)
		if err != nil {
			// Reasoning engine down or talking gibberish: fatal to the turn.
			// The turn is recorded as failed so it never poisons future context.
			e.logger.Printf("[ERROR] Reasoning engine failure on call %s: %v", session.CallID, err)
			turn.Failed = true
			turn.Answer = fallbackFor(utterance)
			return turn
		}

		if !decision.IsToolCall() {
			turn.Answer = NormalizeForSpeech(decision.Answer, e.config.MaxAnswerLen)
			return turn
		}

		// Tool calls within a turn are sequenced, not parallelized: each
		// decision depends on the previous tool's result.
		call := decision.ToolCalls[0]
		record, dispatchErr := e.dispatch(ctx, call)
		turn.ToolCalls = append(turn.ToolCalls, record)

		e.logger.Printf("[TOOL] call=%s tool=%s failed=%v latency=%dms",
			session.CallID, record.Name, record.Failed, record.LatencyMs)

		if !record.Failed {
			harvestFarmerContext(session, call)
		}

		messages = append(messages,
			llm.Message{Role: constant.ChatMessageRoleAssistant, ToolCalls: []llm.ToolCall{call}},
			llm.Message{Role: constant.ChatMessageRoleTool, Content: observationFor(record, dispatchErr), ToolCallID: call.ID},
		)
	}

	e.logger.Printf("[WARN] Turn budget exhausted on call %s after %d rounds", session.CallID, e.config.TurnBudget)
	turn.Answer = constant.FallbackBudgetExceeded
	return turn
}

// dispatch validates and executes one requested tool call. Failures are not
// fatal: they come back as failed records whose observations let the
// reasoning engine self-correct.
func (e *TurnExecutor) dispatch(ctx context.Context, call llm.ToolCall) (store.ToolCallRecord, error) {
	record := store.ToolCallRecord{
		ID:        call.ID,
		Name:      call.Function.Name,
		Arguments: call.Function.Arguments,
	}

	tool, err := e.registry.Get(call.Function.Name)
	if err != nil {
		record.Failed = true
		record.Error = err.Error()
		return record, err
	}

	if err := tools.ValidateArguments(tool.Definition(), call.Function.Arguments); err != nil {
		record.Failed = true
		record.Error = err.Error()
		return record, err
	}

	toolCtx, cancel := context.WithTimeout(ctx, e.config.ToolTimeout)
	defer cancel()

	started := time.Now()
	result, err := tool.Invoke(toolCtx, call.Function.Arguments)
	record.LatencyMs = time.Since(started).Milliseconds()

	if err != nil {
		record.Failed = true
		record.Error = err.Error()
		return record, err
	}

	payload, err := json.Marshal(result)
	if err != nil {
		err = fmt.Errorf("%w: unserializable result: %v", tools.ErrToolUnavailable, err)
		record.Failed = true
		record.Error = err.Error()
		return record, err
	}
	record.Result = string(payload)
	return record, nil
}

// observationFor renders a tool record as the observation fed back into the
// reasoning context. Errors become structured observations, not exceptions,
// so the model can pick another tool or answer with a caveat.
func observationFor(record store.ToolCallRecord, err error) string {
	if err == nil {
		return record.Result
	}
	switch {
	case errors.Is(err, tools.ErrUnknownTool):
		return fmt.Sprintf(`{"error":"unknown tool %q; choose one of the provided tools"}`, record.Name)
	case errors.Is(err, tools.ErrInvalidArguments):
		return fmt.Sprintf(`{"error":"invalid arguments for %q: %s"}`, record.Name, record.Error)
	default:
		return fmt.Sprintf(`{"error":"tool %q is currently unavailable; use another tool or answer with a caveat"}`, record.Name)
	}
}

// harvestFarmerContext lifts personalization slots out of successful tool
// arguments so later turns need less repetition from the caller.
func harvestFarmerContext(session *store.Session, call llm.ToolCall) {
	switch call.Function.Name {
	case "get_weather_forecast":
		if loc, ok := call.Function.Arguments["location"].(string); ok && loc != "" {
			session.Context.Location = loc
		}
	case "get_market_prices":
		if crop, ok := call.Function.Arguments["crop"].(string); ok && crop != "" {
			session.Context.Crop = crop
		}
		if state, ok := call.Function.Arguments["state"].(string); ok && state != "" && session.Context.Location == "" {
			session.Context.Location = state
		}
	}
}
