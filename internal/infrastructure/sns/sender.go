// Package sns delivers push notifications through AWS SNS platform
// endpoints.
package sns

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/wavelinehq/notifier/internal/domain"
)

// publishTimeout bounds one device-level publish. Retries, if any, are
// SDK-level; the pipeline never retries a failed push itself.
const publishTimeout = 10 * time.Second

// Client is the slice of the SNS API the sender uses.
type Client interface {
	Publish(ctx context.Context, params *awssns.PublishInput, optFns ...func(*awssns.Options)) (*awssns.PublishOutput, error)
}

// Sender is the SNS implementation of domain.PushSink.
type Sender struct {
	client Client
}

// New creates a Sender over the given SNS client.
func New(client Client) *Sender {
	return &Sender{client: client}
}

// SendPushNotification publishes msg to one device endpoint ARN, with the
// payload keyed for the device's platform.
func (s *Sender) SendPushNotification(ctx context.Context, target domain.PushTarget, msg domain.PushMessage) error {
	payload, err := buildPayload(target, msg)
	if err != nil {
		return fmt.Errorf("build push payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	_, err = s.client.Publish(ctx, &awssns.PublishInput{
		TargetArn:        aws.String(target.TargetARN),
		MessageStructure: aws.String("json"),
		Message:          aws.String(payload),
	})
	if err != nil {
		return fmt.Errorf("sns publish to %s: %w", target.TargetARN, err)
	}
	return nil
}

type apnsPayload struct {
	APS struct {
		Alert struct {
			Title string `json:"title"`
			Body  string `json:"body"`
		} `json:"alert"`
		Badge int    `json:"badge"`
		Sound string `json:"sound"`
	} `json:"aps"`
	Data map[string]any `json:"data,omitempty"`
}

type fcmPayload struct {
	Notification struct {
		Title string `json:"title"`
		Body  string `json:"body"`
	} `json:"notification"`
	Data map[string]any `json:"data,omitempty"`
}

// buildPayload assembles the SNS multi-platform JSON envelope: a default
// message plus the platform-specific document matching the device type.
func buildPayload(target domain.PushTarget, msg domain.PushMessage) (string, error) {
	envelope := map[string]string{"default": msg.Body}

	switch target.DeviceType {
	case "ios":
		var p apnsPayload
		p.APS.Alert.Title = msg.Title
		p.APS.Alert.Body = msg.Body
		p.APS.Badge = target.BadgeCount
		p.APS.Sound = "default"
		p.Data = msg.Data
		doc, err := json.Marshal(p)
		if err != nil {
			return "", err
		}
		envelope["APNS"] = string(doc)
		envelope["APNS_SANDBOX"] = string(doc)
	default:
		var p fcmPayload
		p.Notification.Title = msg.Title
		p.Notification.Body = msg.Body
		p.Data = msg.Data
		doc, err := json.Marshal(p)
		if err != nil {
			return "", err
		}
		envelope["GCM"] = string(doc)
	}

	out, err := json.Marshal(envelope)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
