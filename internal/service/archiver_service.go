package service

import (
	"context"
	"encoding/json"
	"log"

	"krishi-voice-be/internal/dto"
	"krishi-voice-be/internal/model"
	"krishi-voice-be/internal/repository/contract"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type IArchiverService interface {
	Consume(ctx context.Context) error
}

type archiverService struct {
	pubSub         *gochannel.GoChannel
	topicName      string
	transcriptRepo contract.CallTranscriptRepository
}

func NewArchiverService(
	pubSub *gochannel.GoChannel,
	topicName string,
	transcriptRepo contract.CallTranscriptRepository,
) IArchiverService {
	return &archiverService{
		pubSub:         pubSub,
		topicName:      topicName,
		transcriptRepo: transcriptRepo,
	}
}

func (as *archiverService) Consume(ctx context.Context) error {
	messages, err := as.pubSub.Subscribe(ctx, as.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			as.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (as *archiverService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishArchiveCallMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal archive message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Archiving transcript for call %s (%d turns)", payload.CallId, len(payload.Turns))

	turns, err := json.Marshal(payload.Turns)
	if err != nil {
		log.Printf("[ERROR] Failed to serialize turns for call %s: %v", payload.CallId, err)
		msg.Ack()
		return
	}
	farmerCtx, err := json.Marshal(payload.FarmerContext)
	if err != nil {
		log.Printf("[ERROR] Failed to serialize farmer context for call %s: %v", payload.CallId, err)
		msg.Ack()
		return
	}

	transcript := &model.CallTranscript{
		Id:            uuid.New(),
		CallId:        payload.CallId,
		Turns:         datatypes.JSON(turns),
		FarmerContext: datatypes.JSON(farmerCtx),
		TurnCount:     len(payload.Turns),
		StartedAt:     payload.StartedAt,
		EndedAt:       payload.EndedAt,
	}

	if err := as.transcriptRepo.Create(ctx, transcript); err != nil {
		log.Printf("[ERROR] Failed to persist transcript for call %s: %v", payload.CallId, err)
		msg.Nack() // Retry persistence failures; the database may be back shortly
		return
	}

	log.Printf("[INFO] Transcript archived for call %s", payload.CallId)
	msg.Ack()
}
