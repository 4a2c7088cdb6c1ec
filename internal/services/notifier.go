package services

import (
	"fmt"

	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/certificate"
	"github.com/sideshow/apns2/payload"
)

// Notifier sends push notifications through APNs. Callers treat delivery
// as best-effort; errors are reported back only so they can be logged.
type Notifier struct {
	client *apns2.Client
	topic  string
}

// NewNotifier creates an APNs notifier from a p12 certificate
func NewNotifier(certFile, certPassword, topic string, production bool) (*Notifier, error) {
	cert, err := certificate.FromP12File(certFile, certPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to load APNs certificate: %w", err)
	}

	client := apns2.NewClient(cert).Development()
	if production {
		client = apns2.NewClient(cert).Production()
	}

	return &Notifier{
		client: client,
		topic:  topic,
	}, nil
}

// PushNewFollower tells a device its user gained a follower
func (n *Notifier) PushNewFollower(deviceToken, followerName string) error {
	notification := &apns2.Notification{
		DeviceToken: deviceToken,
		Topic:       n.topic,
		Payload: payload.NewPayload().
			Alert(fmt.Sprintf("%s started following you!", followerName)).
			Sound("default"),
	}

	res, err := n.client.Push(notification)
	if err != nil {
		return fmt.Errorf("failed to push notification: %w", err)
	}
	if !res.Sent() {
		return fmt.Errorf("push rejected: %s", res.Reason)
	}
	return nil
}
