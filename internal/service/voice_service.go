package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"krishi-voice-be/internal/dto"
	"krishi-voice-be/internal/pkg/logger"
	"krishi-voice-be/pkg/dialog/executor"
	"krishi-voice-be/pkg/dialog/session"
	"krishi-voice-be/pkg/events"
	pktNats "krishi-voice-be/pkg/nats"
	"krishi-voice-be/pkg/store"
)

type IVoiceService interface {
	HandleTurn(ctx context.Context, req *dto.TurnWebhookRequest) (*dto.TurnWebhookResponse, error)
	EndCall(ctx context.Context, callId string) error
	ActiveSessions(ctx context.Context) []dto.ActiveSessionResponse
}

type voiceService struct {
	sessionManager   *session.Manager
	turnExecutor     *executor.TurnExecutor
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	logger           logger.ILogger
}

func NewVoiceService(
	sessionManager *session.Manager,
	turnExecutor *executor.TurnExecutor,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	sysLogger logger.ILogger,
) IVoiceService {
	vs := &voiceService{
		sessionManager:   sessionManager,
		turnExecutor:     turnExecutor,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		logger:           sysLogger,
	}
	// Inactivity evictions archive too; hangups are not the only way out.
	sessionManager.OnEvicted(func(callId string, sess *store.Session) {
		vs.logger.Info("voice", "Session evicted after inactivity", map[string]interface{}{"call_id": callId})
		vs.finishCall(context.Background(), sess)
	})
	return vs
}

// HandleTurn serializes turns per call, replays recorded answers on webhook
// redelivery, and runs the reasoning loop for genuinely new utterances.
func (vs *voiceService) HandleTurn(ctx context.Context, req *dto.TurnWebhookRequest) (*dto.TurnWebhookResponse, error) {
	unlock := vs.sessionManager.Acquire(req.CallId)
	defer unlock()

	sess, created := vs.sessionManager.GetOrCreate(req.CallId)
	if created {
		vs.publishEvent(ctx, events.NewCallStartedEvent(req.CallId))
	}

	// Redelivered event: hand back the already-recorded answer, never rerun
	// tools for it.
	if prior, found := sess.TurnBySequence(req.Sequence); found {
		vs.logger.Info("voice", "Replayed recorded turn", map[string]interface{}{"call_id": req.CallId, "sequence": req.Sequence})
		return &dto.TurnWebhookResponse{CallId: req.CallId, Reply: prior.Answer}, nil
	}

	turn := vs.turnExecutor.Execute(ctx, sess, req.Sequence, req.Utterance)
	if err := vs.sessionManager.AppendTurn(req.CallId, turn); err != nil {
		// The session timed out or was hung up while the turn ran. The caller
		// still hears the answer; the next webhook starts a fresh session.
		vs.logger.Warn("voice", "Turn finished for a gone session", map[string]interface{}{
			"call_id": req.CallId, "sequence": req.Sequence, "error": err.Error(),
		})
	}

	return &dto.TurnWebhookResponse{CallId: req.CallId, Reply: turn.Answer}, nil
}

// EndCall handles the hangup webhook. Ending an unknown or already-ended call
// is a no-op: hangup events get redelivered like everything else.
func (vs *voiceService) EndCall(ctx context.Context, callId string) error {
	unlock := vs.sessionManager.Acquire(callId)
	defer unlock()

	sess, found := vs.sessionManager.End(callId)
	if !found {
		vs.logger.Info("voice", "Hangup for unknown call ignored", map[string]interface{}{"call_id": callId})
		return nil
	}
	vs.finishCall(ctx, sess)
	return nil
}

func (vs *voiceService) ActiveSessions(_ context.Context) []dto.ActiveSessionResponse {
	sessions := vs.sessionManager.Active()

	res := make([]dto.ActiveSessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		res = append(res, dto.ActiveSessionResponse{
			CallId:       sess.CallID,
			TurnCount:    len(sess.Turns),
			StartedAt:    sess.CreatedAt,
			LastActiveAt: sess.LastActiveAt,
		})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].StartedAt.Before(res[j].StartedAt) })
	return res
}

// finishCall publishes the lifecycle event and queues the transcript for
// archiving. Both are best-effort: a dead broker must not break hangup.
func (vs *voiceService) finishCall(ctx context.Context, sess *store.Session) {
	endedAt := time.Now()
	vs.publishEvent(ctx, events.NewCallEndedEvent(sess.CallID, len(sess.Turns), endedAt.Sub(sess.CreatedAt)))

	msg := dto.PublishArchiveCallMessage{
		CallId:        sess.CallID,
		Turns:         sess.Turns,
		FarmerContext: sess.Context,
		StartedAt:     sess.CreatedAt,
		EndedAt:       endedAt,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		vs.logger.Error("voice", "Failed to marshal archive message", map[string]interface{}{"call_id": sess.CallID, "error": err.Error()})
		return
	}
	if err := vs.publisherService.Publish(ctx, payload); err != nil {
		vs.logger.Error("voice", "Failed to queue transcript archive", map[string]interface{}{"call_id": sess.CallID, "error": err.Error()})
	}
}

func (vs *voiceService) publishEvent(ctx context.Context, event events.Event) {
	if vs.eventPublisher == nil {
		return
	}
	if err := vs.eventPublisher.Publish(ctx, event); err != nil {
		vs.logger.Warn("voice", "Failed to publish lifecycle event", map[string]interface{}{"event": event.EventType(), "error": err.Error()})
	}
}
