package service

import (
	"context"
	"encoding/json"
	"log"

	"trade-assistant-be/internal/dto"
	"trade-assistant-be/internal/entity"
	"trade-assistant-be/internal/repository/contract"
	"trade-assistant-be/pkg/events"
	pktNats "trade-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the share-opt-in topic: each message becomes an
// audit row, and is forwarded to the external NATS bus when one is wired.
type consumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	audits    contract.ShareAuditRepository
	natsPub   *pktNats.Publisher // optional
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	audits contract.ShareAuditRepository,
	natsPub *pktNats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:    pubSub,
		topicName: topicName,
		audits:    audits,
		natsPub:   natsPub,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.ShareOptInMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal share opt-in message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	audit := &entity.ShareAudit{
		Id:         uuid.New(),
		UserId:     payload.UserId,
		StableName: payload.StableName,
		ExternalId: payload.ExternalId,
		FileName:   payload.FileName,
		LibraryIds: payload.LibraryIds,
		SharedAt:   payload.OccurredAt,
	}
	if err := cs.audits.Create(ctx, audit); err != nil {
		log.Printf("[ERROR] Failed to persist share audit: %v", err)
		msg.Nack()
		return
	}

	if cs.natsPub != nil {
		event := events.LibraryShareOptIn{
			UserId:     payload.UserId,
			StableName: payload.StableName,
			ExternalId: payload.ExternalId,
			FileName:   payload.FileName,
			LibraryIds: payload.LibraryIds,
			OccurredAt: payload.OccurredAt,
		}
		if err := cs.natsPub.Publish(ctx, event); err != nil {
			// Audit row is already durable; external forwarding is best effort
			log.Printf("[WARN] Failed to forward share opt-in to NATS: %v", err)
		}
	}

	msg.Ack()
}
