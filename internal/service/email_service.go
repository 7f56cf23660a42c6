package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// SESEmailService sends plain-text mail through Amazon SES. When no sender
// address is configured the service is disabled and sends become no-ops,
// which keeps local development working without AWS credentials.
type SESEmailService struct {
	client  *sesv2.Client
	from    string
	enabled bool
}

var _ EmailSender = (*SESEmailService)(nil)

// NewEmailService creates an SES-backed email sender.
func NewEmailService(ctx context.Context, region, from string) (*SESEmailService, error) {
	if from == "" {
		log.Println("email service disabled: SES_FROM_EMAIL not configured")
		return &SESEmailService{enabled: false}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &SESEmailService{
		client:  sesv2.NewFromConfig(cfg),
		from:    from,
		enabled: true,
	}, nil
}

// SendEmail delivers a plain-text message.
func (s *SESEmailService) SendEmail(ctx context.Context, to, subject, body string) error {
	if !s.enabled {
		log.Printf("skipping email send (service disabled): %q to %s", subject, to)
		return nil
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Text: &types.Content{
						Data:    aws.String(body),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}
