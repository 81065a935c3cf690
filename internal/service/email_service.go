package service

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// EmailService sends notifications via Amazon SES
type EmailService struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
}

// NewEmailService creates a new email service. With no sender address
// configured it comes up disabled and every send is a logged no-op.
func NewEmailService(awsRegion, fromEmail, fromName, appBaseURL string) (*EmailService, error) {
	if fromEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{enabled: false}, nil
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, awsRegion)
	return &EmailService{
		client:     sesv2.NewFromConfig(cfg),
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
	}, nil
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendWinnerEmail tells a cycle winner they were crowned
func (s *EmailService) SendWinnerEmail(ctx context.Context, toEmail, displayName, campaignName string, troops int) error {
	if !s.enabled {
		log.Printf("Skipping email send (service disabled): crown notification to %s", toEmail)
		return nil
	}

	subject := fmt.Sprintf("You were crowned in %s!", campaignName)
	textBody := fmt.Sprintf(
		"%s,\n\nThe cycle in %s has ended and your %d troops carried the day. "+
			"You wear the crown until someone takes it from you.\n\n"+
			"A winner's reward is waiting: visit %s to choose who receives your oracle whispers.\n",
		displayName, campaignName, troops, s.appBaseURL)
	htmlBody := fmt.Sprintf(
		"<p>%s,</p><p>The cycle in <strong>%s</strong> has ended and your <strong>%d troops</strong> carried the day. "+
			"You wear the crown until someone takes it from you.</p>"+
			"<p>A winner's reward is waiting: <a href=\"%s\">choose who receives your oracle whispers</a>.</p>",
		displayName, campaignName, troops, s.appBaseURL)

	return s.send(ctx, toEmail, subject, textBody, htmlBody)
}

func (s *EmailService) send(ctx context.Context, toEmail, subject, textBody, htmlBody string) error {
	from := s.fromEmail
	if s.fromName != "" {
		from = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(textBody)},
					Html: &types.Content{Data: aws.String(htmlBody)},
				},
			},
		},
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	log.Printf("Email sent: %q to %s", subject, toEmail)
	return nil
}
