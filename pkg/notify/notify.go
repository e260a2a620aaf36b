// Package notify sends support e-mails. Delivery is fire-and-forget: failures
// are logged and never retried or reported to the caller.
package notify

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/honorwa/honor-wallet/models"
)

type Message struct {
	To       string
	ToName   string
	Subject  string
	Text     string
	HTML     string
	TicketID string
	Kind     string // new_ticket or admin_reply
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// LogSender only logs the message. It is the default when no mail provider
// is configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, msg Message) error {
	logrus.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
		"ticket":  msg.TicketID,
		"kind":    msg.Kind,
	}).Info("email (log only)")
	return nil
}

// Notifier renders ticket notifications and hands them to a Sender.
type Notifier struct {
	sender       Sender
	supportInbox string
	brand        string
}

func NewNotifier(sender Sender, supportInbox string) *Notifier {
	if sender == nil {
		sender = LogSender{}
	}
	return &Notifier{sender: sender, supportInbox: supportInbox, brand: "Honor Wallet"}
}

// NewTicket tells the support inbox about a freshly opened ticket.
func (n *Notifier) NewTicket(ctx context.Context, t models.SupportTicket) {
	text := fmt.Sprintf("New ticket received from: %s\nTicket ID: %s\nPriority: %s\n\nMessage:\n%s\n",
		t.UserEmail, t.ID, t.Priority, t.Message)
	n.deliver(ctx, Message{
		To:       n.supportInbox,
		ToName:   n.brand + " Support",
		Subject:  "New Support Ticket: " + t.Subject,
		Text:     text,
		HTML:     htmlBody("New support ticket", text),
		TicketID: t.ID,
		Kind:     "new_ticket",
	})
}

// AdminReply forwards an admin answer to the ticket owner.
func (n *Notifier) AdminReply(ctx context.Context, t models.SupportTicket, reply string) {
	text := fmt.Sprintf("Dear Member,\n\nYou have received a reply to your support ticket regarding %q.\n\nAdmin Response:\n%s\n\nTicket ID: %s\n\nSincerely,\n%s Concierge\n",
		t.Subject, reply, t.ID, n.brand)
	n.deliver(ctx, Message{
		To:       t.UserEmail,
		Subject:  fmt.Sprintf("Re: %s - %s Support", t.Subject, n.brand),
		Text:     text,
		HTML:     htmlBody("Support reply", text),
		TicketID: t.ID,
		Kind:     "admin_reply",
	})
}

func (n *Notifier) deliver(ctx context.Context, msg Message) {
	log := logrus.WithFields(logrus.Fields{"to": msg.To, "ticket": msg.TicketID, "kind": msg.Kind})
	if msg.To == "" {
		log.Warn("email skipped: no recipient")
		return
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		log.WithError(err).Error("email delivery failed")
		return
	}
	log.Info("email sent")
}
