// internal/workers/evaluation/notify-shortlisted/handler_test.go
package notifyshortlisted

import (
	"context"
	"testing"

	"kjet-workers/internal/common/logger"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockEmailSender struct {
	inputs []*ses.SendEmailInput
	err    error
}

func (m *mockEmailSender) SendEmail(_ context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.inputs = append(m.inputs, input)
	return &ses.SendEmailOutput{}, nil
}

type mockSMSSender struct {
	inputs []*sns.PublishInput
	err    error
}

func (m *mockSMSSender) Publish(_ context.Context, input *sns.PublishInput) (*sns.PublishOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.inputs = append(m.inputs, input)
	return &sns.PublishOutput{}, nil
}

func sampleInput() *Input {
	return &Input{
		Cohort: "cohort-2025",
		Region: "Nakuru",
		Shortlisted: []ShortlistedApplicant{
			{
				ApplicationID:  "APP-001",
				Name:           "Lakeview Dairies",
				Email:          "info@lakeviewdairies.co.ke",
				Phone:          "+254712345678",
				Region:         "Nakuru",
				Rank:           1,
				Tier:           "Tier 1: Ready-to-Scale",
				CompositeScore: 87.5,
			},
			{
				ApplicationID:  "APP-002",
				Name:           "Rift Textiles",
				Email:          "contact@rifttextiles.co.ke",
				Region:         "Nakuru",
				Rank:           2,
				CompositeScore: 74.2,
			},
		},
	}
}

func TestHandler_Execute_SendsBothChannels(t *testing.T) {
	email := &mockEmailSender{}
	sms := &mockSMSSender{}
	handler := NewHandler(LoadConfig(), email, sms, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), sampleInput())

	require.NoError(t, err)
	assert.Equal(t, 2, output.EmailsSent)
	assert.Equal(t, 1, output.SMSSent, "only the first applicant has a phone number")
	assert.Equal(t, 0, output.Skipped)
	assert.Empty(t, output.Failures)

	require.Len(t, email.inputs, 2)
	assert.Equal(t, "no-reply@kjet.go.ke", *email.inputs[0].Source)
	assert.Equal(t, []string{"info@lakeviewdairies.co.ke"}, email.inputs[0].Destination.ToAddresses)
	assert.Contains(t, *email.inputs[0].Message.Body.Text.Data, "rank 1")
	assert.Contains(t, *email.inputs[0].Message.Body.Text.Data, "Tier 1: Ready-to-Scale")

	require.Len(t, sms.inputs, 1)
	assert.Equal(t, "+254712345678", *sms.inputs[0].PhoneNumber)
	assert.Contains(t, *sms.inputs[0].Message, "APP-001")
}

func TestHandler_Execute_SkipsUnreachableApplicant(t *testing.T) {
	email := &mockEmailSender{}
	sms := &mockSMSSender{}
	handler := NewHandler(LoadConfig(), email, sms, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{
		Cohort: "cohort-2025",
		Region: "Nakuru",
		Shortlisted: []ShortlistedApplicant{
			{ApplicationID: "APP-003", Name: "No Contact Traders", Rank: 3},
			{ApplicationID: "APP-004", Name: "Bad Contact", Email: "not-an-email", Phone: "12ab", Rank: 4},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 0, output.EmailsSent)
	assert.Equal(t, 0, output.SMSSent)
	assert.Equal(t, 2, output.Skipped)
}

func TestHandler_Execute_AllDeliveriesFail(t *testing.T) {
	email := &mockEmailSender{err: assert.AnError}
	sms := &mockSMSSender{err: assert.AnError}
	handler := NewHandler(LoadConfig(), email, sms, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), sampleInput())

	assert.Error(t, err)
	assert.Nil(t, output)
	assert.ErrorIs(t, err, ErrNotificationSendFailed)
}

func TestHandler_Execute_PartialFailureCompletes(t *testing.T) {
	email := &mockEmailSender{err: assert.AnError}
	sms := &mockSMSSender{}
	handler := NewHandler(LoadConfig(), email, sms, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), sampleInput())

	require.NoError(t, err)
	assert.Equal(t, 0, output.EmailsSent)
	assert.Equal(t, 1, output.SMSSent)
	assert.Len(t, output.Failures, 2)
}

func TestHandler_Execute_ChannelsDisabled(t *testing.T) {
	config := LoadConfig()
	config.EmailEnabled = false
	config.SMSEnabled = false
	handler := NewHandler(config, &mockEmailSender{}, &mockSMSSender{}, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), sampleInput())

	require.NoError(t, err)
	assert.Equal(t, 0, output.EmailsSent)
	assert.Equal(t, 0, output.SMSSent)
	assert.Equal(t, 2, output.Skipped)
}

func TestHandler_Execute_EmptyShortlist(t *testing.T) {
	handler := NewHandler(LoadConfig(), &mockEmailSender{}, &mockSMSSender{}, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{Cohort: "cohort-2025", Region: "Nakuru"})

	require.NoError(t, err)
	assert.Equal(t, 0, output.EmailsSent)
	assert.Equal(t, 0, output.SMSSent)
}
