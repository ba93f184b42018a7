package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"campus/internal/domain/entity"

	"cloud.google.com/go/pubsub/v2"
	pubsubpb "cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"github.com/pkg/errors"
)

// wireAuthEvent is the message payload on the revocation feed. An
// identity-platform hook (or an admin tool) publishes one whenever a
// session is created or killed out of band.
type wireAuthEvent struct {
	Type        string `json:"type"`
	IdentityID  string `json:"identityId"`
	AccessToken string `json:"accessToken,omitempty"`
}

// googleSubscriber bridges a Google Pub/Sub subscription into the
// auth-event stream consumed by the session bootstrap.
type googleSubscriber struct {
	client     *pubsub.Client
	subscriber *pubsub.Subscriber
	logger     *slog.Logger
	bus        *Bus

	cancel context.CancelFunc
	done   chan struct{}
}

// NewGoogleSubscriber creates a subscriber and starts pulling events.
func NewGoogleSubscriber(ctx context.Context, projectID, subscriptionID string, logger *slog.Logger) (*googleSubscriber, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// Check if subscription exists using SubscriptionAdminClient
	subscriptionPath := fmt.Sprintf("projects/%s/subscriptions/%s", projectID, subscriptionID)
	_, err = client.SubscriptionAdminClient.GetSubscription(ctx, &pubsubpb.GetSubscriptionRequest{
		Subscription: subscriptionPath,
	})
	if err != nil {
		client.Close()

		return nil, errors.Wrapf(err, "failed to get subscription %s", subscriptionID)
	}

	receiveCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	sub := &googleSubscriber{
		client:     client,
		subscriber: client.Subscriber(subscriptionID),
		logger:     logger,
		bus:        NewBus(),
		cancel:     cancel,
		done:       make(chan struct{}),
	}

	go sub.receive(receiveCtx)

	logger.Info("Google Pub/Sub auth-event subscriber initialized",
		slog.String("project_id", projectID),
		slog.String("subscription_id", subscriptionID),
	)

	return sub, nil
}

// receive pulls messages until the subscriber is closed. Malformed
// payloads are acked and dropped so they do not redeliver forever.
func (s *googleSubscriber) receive(ctx context.Context) {
	defer close(s.done)

	err := s.subscriber.Receive(ctx, func(_ context.Context, msg *pubsub.Message) {
		defer msg.Ack()

		var wire wireAuthEvent
		if err := json.Unmarshal(msg.Data, &wire); err != nil {
			s.logger.Warn("[GooglePubSub] Dropping malformed auth event", slog.Any("error", err))

			return
		}

		event, ok := s.toDomainEvent(wire)
		if !ok {
			s.logger.Warn("[GooglePubSub] Dropping auth event with unknown type",
				slog.String("type", wire.Type))

			return
		}

		s.logger.Info("[GooglePubSub] Auth event received",
			slog.String("type", wire.Type),
			slog.String("identity_id", wire.IdentityID),
		)
		s.bus.Publish(event)
	})
	if err != nil && ctx.Err() == nil {
		s.logger.Error("[GooglePubSub] Receive loop terminated", slog.Any("error", err))
	}
}

func (s *googleSubscriber) toDomainEvent(wire wireAuthEvent) (entity.AuthEvent, bool) {
	switch entity.AuthEventType(wire.Type) {
	case entity.AuthEventSignedOut:
		return entity.AuthEvent{Type: entity.AuthEventSignedOut}, true
	case entity.AuthEventSignedIn:
		event := entity.AuthEvent{Type: entity.AuthEventSignedIn}
		if wire.AccessToken != "" {
			event.Session = &entity.Session{
				AccessToken: wire.AccessToken,
				IdentityID:  wire.IdentityID,
			}
		}

		return event, true
	default:
		return entity.AuthEvent{}, false
	}
}

// SubscribeAuthEvents attaches a consumer to the ingress stream.
func (s *googleSubscriber) SubscribeAuthEvents(_ context.Context) (<-chan entity.AuthEvent, func(), error) {
	events, unsubscribe := s.bus.Subscribe()

	return events, unsubscribe, nil
}

// Close stops the receive loop and releases Pub/Sub client resources.
func (s *googleSubscriber) Close() error {
	s.cancel()
	<-s.done
	s.bus.Close()

	return errors.WithStack(s.client.Close())
}
