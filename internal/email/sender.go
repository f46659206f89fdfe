// Package email sends the stats notification through Amazon SES.
package email

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	sestypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/rs/zerolog/log"

	appconfig "gr8tracker/internal/config"
	"gr8tracker/internal/metrics"
	"gr8tracker/internal/models"
	"gr8tracker/internal/render"
)

const charset = "UTF-8"

// sesAPI is the subset of the SES client the sender uses.
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// Sender delivers stats notifications to a configured recipient.
type Sender struct {
	client    sesAPI
	sender    string
	recipient string
}

// NewSender builds a Sender from a resolved email configuration.
func NewSender(ctx context.Context, cfg appconfig.EmailConfig) (*Sender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &Sender{
		client:    sesv2.NewFromConfig(awsCfg),
		sender:    cfg.Sender,
		recipient: cfg.Recipient,
	}, nil
}

// Send delivers the stats email. A non-empty recipient overrides the
// configured default.
func (s *Sender) Send(ctx context.Context, bundle models.StatsBundle, recipient string) error {
	if recipient == "" {
		recipient = s.recipient
	}

	htmlBody, err := render.EmailHTML(bundle)
	if err != nil {
		metrics.RecordEmail("error")
		return err
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.sender),
		Destination: &sestypes.Destination{
			ToAddresses: []string{recipient},
		},
		Content: &sestypes.EmailContent{
			Simple: &sestypes.Message{
				Subject: &sestypes.Content{
					Data:    aws.String(render.EmailSubject(bundle)),
					Charset: aws.String(charset),
				},
				Body: &sestypes.Body{
					Text: &sestypes.Content{
						Data:    aws.String(render.EmailText(bundle)),
						Charset: aws.String(charset),
					},
					Html: &sestypes.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String(charset),
					},
				},
			},
		},
	}

	out, err := s.client.SendEmail(ctx, input)
	if err != nil {
		metrics.RecordEmail("error")
		log.Error().Err(err).Str("recipient", recipient).Msg("Failed to send email")
		return fmt.Errorf("failed to send email to %s: %w", recipient, err)
	}

	metrics.RecordEmail("success")
	log.Info().
		Str("recipient", recipient).
		Str("message_id", aws.ToString(out.MessageId)).
		Msg("Email sent")
	return nil
}
