// Package notify delivers the resident-facing "ready for pick-up" email.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"barangay/pkg/types"

	"github.com/sirupsen/logrus"
)

const pickupSubjectFmt = "Your %s is ready for pick-up (%s)"

var pickupBody = template.Must(template.New("pickup").Parse(`Dear {{.FullName}},

Good news! Your request for {{.ServiceName}} has been approved and your document is now ready for pick-up at the barangay hall.

Reference number: {{.ReferenceNumber}}

Please bring a valid ID and present this reference number when claiming your document.

Thank you.
`))

// Message is the rendered email for a notice.
type Message struct {
	To      string
	Subject string
	Body    string
}

// ComposePickupMessage renders the notice. A missing service name reads as
// "document".
func ComposePickupMessage(notice types.PickupNotice) (*Message, error) {
	if notice.ServiceName == "" {
		notice.ServiceName = "document"
	}

	var body bytes.Buffer
	if err := pickupBody.Execute(&body, notice); err != nil {
		return nil, fmt.Errorf("render pickup email: %w", err)
	}

	return &Message{
		To:      notice.Email,
		Subject: fmt.Sprintf(pickupSubjectFmt, notice.ServiceName, notice.ReferenceNumber),
		Body:    body.String(),
	}, nil
}

// LogSender writes notices to the log instead of sending them. Used when
// EMAIL_ENABLED is off.
type LogSender struct {
	logger logrus.FieldLogger
}

func NewLogSender(logger logrus.FieldLogger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) SendReadyForPickup(ctx context.Context, notice types.PickupNotice) error {
	msg, err := ComposePickupMessage(notice)
	if err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"application_id": notice.ApplicationID,
		"to":             msg.To,
		"subject":        msg.Subject,
	}).Info("email disabled, pickup notice logged only")

	return nil
}
