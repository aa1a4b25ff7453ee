package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/formar-para-liderar/app-bolsas/internal/logging"
	"github.com/formar-para-liderar/app-bolsas/internal/models"
	"github.com/formar-para-liderar/app-bolsas/internal/observability"
	"go.uber.org/zap"
)

const notificationTimeout = 10 * time.Second

// Notifier tells a candidate about a decision on their application
type Notifier interface {
	NotifyDecision(ctx context.Context, app *models.Application) error
}

// NopNotifier discards every notification
type NopNotifier struct{}

func (NopNotifier) NotifyDecision(context.Context, *models.Application) error { return nil }

// SESAPI is the part of the SES client used for decision e-mails
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESNotifier sends decision e-mails through Amazon SES
type SESNotifier struct {
	client SESAPI
	sender string
}

// NewSESNotifier loads the default AWS configuration for region
func NewSESNotifier(ctx context.Context, region, sender string) (*SESNotifier, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return &SESNotifier{client: ses.NewFromConfig(cfg), sender: sender}, nil
}

// NotifyDecision e-mails the applicant when the status is a decision.
// Other statuses are ignored.
func (n *SESNotifier) NotifyDecision(ctx context.Context, app *models.Application) error {
	if !app.Status.IsTerminal() || strings.TrimSpace(app.Email) == "" {
		return nil
	}

	subject, body := decisionMessage(app)
	_, err := n.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{ToAddresses: []string{app.Email}},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body), Charset: aws.String("UTF-8")},
			},
		},
		Source: aws.String(n.sender),
	})
	if err != nil {
		return fmt.Errorf("send decision e-mail: %w", err)
	}
	return nil
}

func decisionMessage(app *models.Application) (string, string) {
	p := app.Status.Presentation()
	subject := "FORMAR PARA LIDERAR: " + p.Title
	body := fmt.Sprintf("Caro(a) %s,\n\n%s\n\nTipo de bolsa: %s\nEstado: %s\n",
		app.FullName, p.Message, app.ScholarshipType.Label(), p.Label)
	return subject, body
}

// notify sends the decision e-mail and only logs failures
func notify(ctx context.Context, notifier Notifier, app *models.Application, logger *logging.SafeLogger) {
	if notifier == nil || !app.Status.IsTerminal() {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notificationTimeout)
	defer cancel()

	if err := notifier.NotifyDecision(ctx, app); err != nil {
		observability.NotificationsSent.WithLabelValues(string(app.Status), "error").Inc()
		logger.Error("failed to send decision notification",
			zap.Error(err),
			zap.String("application_id", app.ID),
			zap.String("email", observability.MaskEmail(app.Email)))
		return
	}
	observability.NotificationsSent.WithLabelValues(string(app.Status), "success").Inc()
}
