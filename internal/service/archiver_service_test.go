package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"krishi-voice-be/internal/dto"
	"krishi-voice-be/internal/model"
	"krishi-voice-be/pkg/store"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingTranscriptRepo struct {
	mu      sync.Mutex
	created []*model.CallTranscript
}

func (r *capturingTranscriptRepo) Create(ctx context.Context, transcript *model.CallTranscript) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.created = append(r.created, transcript)
	return nil
}

func (r *capturingTranscriptRepo) snapshot() []*model.CallTranscript {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*model.CallTranscript(nil), r.created...)
}

func TestArchiverPersistsTranscript(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	repo := &capturingTranscriptRepo{}

	const topic = "ARCHIVE_CALL_TRANSCRIPT"
	archiver := NewArchiverService(pubSub, topic, repo)
	require.NoError(t, archiver.Consume(context.Background()))

	publisher := NewPublisherService(topic, pubSub)

	started := time.Now().Add(-90 * time.Second)
	msg := dto.PublishArchiveCallMessage{
		CallId: "call-7",
		Turns: []store.Turn{
			{Sequence: 1, Utterance: "wheat price?", Answer: "2275 rupees per quintal."},
			{Sequence: 2, Utterance: "thanks", Answer: "Happy to help."},
		},
		FarmerContext: store.FarmerContext{Crop: "Wheat"},
		StartedAt:     started,
		EndedAt:       time.Now(),
	}
	payload, err := json.Marshal(msg)
	require.NoError(t, err)
	require.NoError(t, publisher.Publish(context.Background(), payload))

	require.Eventually(t, func() bool {
		return len(repo.snapshot()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	got := repo.snapshot()[0]
	assert.Equal(t, "call-7", got.CallId)
	assert.Equal(t, 2, got.TurnCount)

	var turns []store.Turn
	require.NoError(t, json.Unmarshal(got.Turns, &turns))
	assert.Equal(t, int64(1), turns[0].Sequence)
}

func TestArchiverIgnoresGarbage(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	repo := &capturingTranscriptRepo{}

	const topic = "ARCHIVE_CALL_TRANSCRIPT"
	archiver := NewArchiverService(pubSub, topic, repo)
	require.NoError(t, archiver.Consume(context.Background()))

	publisher := NewPublisherService(topic, pubSub)
	require.NoError(t, publisher.Publish(context.Background(), []byte("{not json")))

	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, repo.snapshot())
}
