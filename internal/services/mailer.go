package services

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// Mailer delivers a single transactional email.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SESMailer sends through AWS SES.
type SESMailer struct {
	client *ses.Client
	from   string
}

// NewSESMailer builds an SES-backed mailer for the region.
func NewSESMailer(ctx context.Context, region, from string) (*SESMailer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SESMailer{client: ses.NewFromConfig(cfg), from: from}, nil
}

// Send delivers one HTML email.
func (m *SESMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	input := &ses.SendEmailInput{
		Source: aws.String(m.from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(htmlBody), Charset: aws.String("UTF-8")},
			},
		},
	}

	_, err := m.client.SendEmail(ctx, input)
	return err
}
