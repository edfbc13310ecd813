package mailer

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"bearcat-ticketing/internal/config"
	"bearcat-ticketing/internal/logger"
)

// NewMailer builds a Mailer from config. Provider "ses" uses AWS SES;
// anything else gets the no-op mailer, which only logs.
func NewMailer(cfg config.EmailConfig, log *logger.Logger) Mailer {
	switch cfg.Provider {
	case "ses":
		awsCfg := aws.Config{
			Region: cfg.Region,
			Credentials: aws.NewCredentialsCache(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
			),
		}
		return &sesMailer{
			client:      ses.NewFromConfig(awsCfg),
			fromAddress: cfg.FromAddress,
			fromName:    cfg.FromName,
			log:         log,
		}
	default:
		if cfg.Provider != "noop" {
			log.Warn("EMAIL", fmt.Sprintf("unknown email provider %q, using noop", cfg.Provider))
		}
		return &noopMailer{log: log}
	}
}

type sesMailer struct {
	client      *ses.Client
	fromAddress string
	fromName    string
	log         *logger.Logger
}

func (s *sesMailer) Send(ctx context.Context, to, subject, html, text string) error {
	source := s.fromAddress
	if s.fromName != "" {
		source = fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)
	}

	input := &ses.SendEmailInput{
		Source: aws.String(source),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{},
		},
	}
	if html != "" {
		input.Message.Body.Html = &types.Content{
			Data:    aws.String(html),
			Charset: aws.String("UTF-8"),
		}
	}
	if text != "" {
		input.Message.Body.Text = &types.Content{
			Data:    aws.String(text),
			Charset: aws.String("UTF-8"),
		}
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email via SES: %w", err)
	}
	s.log.LogEmail("SENT", to, "SES message id "+aws.ToString(result.MessageId))
	return nil
}

type noopMailer struct {
	log *logger.Logger
}

func (n *noopMailer) Send(ctx context.Context, to, subject, html, text string) error {
	n.log.LogEmail("NOOP", to, "would send: "+subject)
	return nil
}
