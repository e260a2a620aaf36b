package notify

import (
	"context"

	"github.com/mailjet/mailjet-apiv3-go/v4"
	"github.com/sirupsen/logrus"
)

type Mailjet struct {
	client    *mailjet.Client
	fromEmail string
	fromName  string
}

func NewMailjet(apiKey, secretKey, fromEmail, fromName string) *Mailjet {
	return &Mailjet{
		client:    mailjet.NewMailjetClient(apiKey, secretKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (m *Mailjet) Send(_ context.Context, msg Message) error {
	messagesInfo := []mailjet.InfoMessagesV31{
		{
			From: &mailjet.RecipientV31{
				Email: m.fromEmail,
				Name:  m.fromName,
			},
			To: &mailjet.RecipientsV31{
				{
					Email: msg.To,
					Name:  msg.ToName,
				},
			},
			Subject:  msg.Subject,
			TextPart: msg.Text,
			HTMLPart: msg.HTML,
			CustomID: msg.TicketID,
		},
	}
	res, err := m.client.SendMailV31(&mailjet.MessagesV31{Info: messagesInfo})
	if err != nil {
		return err
	}
	logrus.Debugf("mailjet response: %+v", res)
	return nil
}
