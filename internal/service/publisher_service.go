package service

import (
	"context"
	"encoding/json"

	"trade-assistant-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IPublisherService interface {
	PublishShareOptIn(ctx context.Context, msg *dto.ShareOptInMessage) error
}

type publisherService struct {
	topicName string
	pubSub    *gochannel.GoChannel
}

func NewPublisherService(topicName string, pubSub *gochannel.GoChannel) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
	}
}

func (ps *publisherService) PublishShareOptIn(_ context.Context, msg *dto.ShareOptInMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return ps.pubSub.Publish(ps.topicName, message.NewMessage(watermill.NewUUID(), payload))
}
