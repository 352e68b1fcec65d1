package mailer

import (
	"context"

	"github.com/certsend/certsend/pkg/mimemsg"
)

// Sender delivers one fully-prepared message. Implementations perform a
// complete transport cycle per call and must not retry internally; retry
// policy belongs to the Mailer.
type Sender interface {
	Send(ctx context.Context, msg mimemsg.Message) error
}
