// internal/workers/evaluation/notify-shortlisted/handler.go
package notifyshortlisted

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"kjet-workers/internal/common/logger"
	"kjet-workers/internal/common/metrics"
	"kjet-workers/internal/common/validation"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "notify-shortlisted"
)

var (
	ErrNotificationSendFailed = errors.New("NOTIFICATION_SEND_FAILED")
)

// EmailSender matches the SES SendEmail surface so tests can substitute a mock.
type EmailSender interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

// SMSSender matches the SNS Publish surface.
type SMSSender interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

type Handler struct {
	logger logger.Logger
	config *Config
	email  EmailSender
	sms    SMSSender
}

// NewHandler builds the notify-shortlisted handler. Either sender may be nil;
// the matching channel is then skipped.
func NewHandler(config *Config, email EmailSender, sms SMSSender, log logger.Logger) *Handler {
	return &Handler{
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
		config: config,
		email:  email,
		sms:    sms,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, "APPLICATION_PARSE_ERROR", err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, "NOTIFICATION_SEND_FAILED", err.Error())
		return
	}

	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	_, err = cmd.Send(context.Background())
	if err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	output := &Output{}

	for _, applicant := range input.Shortlisted {
		delivered := false

		if h.emailEnabled() && validation.ValidateEmail(applicant.Email) {
			if err := h.sendEmail(ctx, input, &applicant); err != nil {
				output.Failures = append(output.Failures,
					fmt.Sprintf("email %s: %s", applicant.ApplicationID, err.Error()))
			} else {
				output.EmailsSent++
				delivered = true
			}
		}

		if h.smsEnabled() && validation.ValidatePhone(applicant.Phone) {
			if err := h.sendSMS(ctx, input, &applicant); err != nil {
				output.Failures = append(output.Failures,
					fmt.Sprintf("sms %s: %s", applicant.ApplicationID, err.Error()))
			} else {
				output.SMSSent++
				delivered = true
			}
		}

		if !delivered {
			output.Skipped++
			h.logger.Warn("applicant not notified", map[string]interface{}{
				"applicationId": applicant.ApplicationID,
				"hasEmail":      applicant.Email != "",
				"hasPhone":      applicant.Phone != "",
			})
		}
	}

	if len(input.Shortlisted) > 0 && output.EmailsSent == 0 && output.SMSSent == 0 && len(output.Failures) > 0 {
		return nil, fmt.Errorf("%w: all %d deliveries failed", ErrNotificationSendFailed, len(output.Failures))
	}

	h.logger.Info("shortlist notifications processed", map[string]interface{}{
		"region":     input.Region,
		"emailsSent": output.EmailsSent,
		"smsSent":    output.SMSSent,
		"skipped":    output.Skipped,
		"failures":   len(output.Failures),
	})
	return output, nil
}

func (h *Handler) emailEnabled() bool {
	return h.config.EmailEnabled && h.email != nil
}

func (h *Handler) smsEnabled() bool {
	return h.config.SMSEnabled && h.sms != nil
}

func (h *Handler) sendEmail(ctx context.Context, input *Input, applicant *ShortlistedApplicant) error {
	subject := fmt.Sprintf("KJET %s: your application has been shortlisted", input.Cohort)
	body := fmt.Sprintf(
		"Dear %s,\n\nYour application %s has been shortlisted in %s at rank %d with a composite score of %.2f.",
		applicant.Name, applicant.ApplicationID, applicant.Region, applicant.Rank, applicant.CompositeScore,
	)
	if applicant.Tier != "" {
		body += fmt.Sprintf("\nReadiness tier: %s.", applicant.Tier)
	}
	body += "\n\nThe programme team will contact you with next steps."

	_, err := h.email.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(h.config.FromEmail),
		Destination: &sestypes.Destination{
			ToAddresses: []string{applicant.Email},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
	})
	return err
}

func (h *Handler) sendSMS(ctx context.Context, input *Input, applicant *ShortlistedApplicant) error {
	message := fmt.Sprintf(
		"KJET %s: application %s shortlisted in %s at rank %d. You will be contacted with next steps.",
		input.Cohort, applicant.ApplicationID, applicant.Region, applicant.Rank,
	)

	_, err := h.sms.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(applicant.Phone),
		Message:     aws.String(message),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {
				DataType:    aws.String("String"),
				StringValue: aws.String(h.config.SMSSenderID),
			},
		},
	})
	return err
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, errorCode, errorMessage string) {
	metrics.WorkerJobsFailed.WithLabelValues(job.Type, errorCode).Inc()
	h.logger.Error("job failed", map[string]interface{}{
		"jobKey":       job.Key,
		"errorCode":    errorCode,
		"errorMessage": errorMessage,
	})

	_, _ = client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(errorCode).
		ErrorMessage(errorMessage).
		Send(context.Background())
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
