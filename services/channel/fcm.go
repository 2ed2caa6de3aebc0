package channel

import (
	"context"
	"fmt"

	"santai/models"

	"firebase.google.com/go/v4/messaging"
)

// FCMChannel pushes operator alerts to the admin devices subscribed to the
// ops topic. No per-admin token lookup: every admin dashboard subscribes to
// the topic on login.
type FCMChannel struct {
	Client *messaging.Client
	Topic  string
}

func NewFCMChannel(client *messaging.Client, topic string) (*FCMChannel, error) {
	if client == nil {
		return nil, fmt.Errorf("fcm channel initialization error: messaging client is nil")
	}
	if topic == "" {
		return nil, fmt.Errorf("fcm channel initialization error: topic is empty")
	}
	return &FCMChannel{Client: client, Topic: topic}, nil
}

func (c *FCMChannel) Name() string { return "fcm" }

// Send pushes the alert to the ops topic.
func (c *FCMChannel) Send(ctx context.Context, n models.AdminNotification) error {
	msg := &messaging.Message{
		Topic: c.Topic,
		Notification: &messaging.Notification{
			Title: n.Title,
			Body:  n.Message,
		},
		Data: map[string]string{
			"type":         string(n.Type),
			"commissionId": n.CommissionID,
			"bookingId":    n.BookingID,
			"priority":     n.Priority,
		},
	}

	if n.Priority == models.PriorityUrgent || n.Priority == models.PriorityHigh {
		msg.Android = &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		}
		msg.APNS = &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		}
	}

	if _, err := c.Client.Send(ctx, msg); err != nil {
		return fmt.Errorf("FCMChannel: failed to send alert %s: %w", n.ID, err)
	}
	return nil
}
