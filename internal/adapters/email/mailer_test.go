package email

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	input *ses.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &ses.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSESMailer_Send(t *testing.T) {
	fake := &fakeSES{}
	m := newSESMailer(fake, "noreply@bodhini.com", "BODHINI Contact", discardLogger())

	err := m.Send(context.Background(), "to@example.com", "Subject", "<p>hi</p>", "hi")
	require.NoError(t, err)
	require.NotNil(t, fake.input)
	assert.Equal(t, "BODHINI Contact <noreply@bodhini.com>", aws.ToString(fake.input.Source))
	assert.Equal(t, []string{"to@example.com"}, fake.input.Destination.ToAddresses)
	assert.Equal(t, "Subject", aws.ToString(fake.input.Message.Subject.Data))
	assert.Equal(t, "<p>hi</p>", aws.ToString(fake.input.Message.Body.Html.Data))
	assert.Equal(t, "hi", aws.ToString(fake.input.Message.Body.Text.Data))
}

func TestSESMailer_Send_TextOnlyWithoutName(t *testing.T) {
	fake := &fakeSES{}
	m := newSESMailer(fake, "noreply@bodhini.com", "", discardLogger())

	require.NoError(t, m.Send(context.Background(), "to@example.com", "S", "", "plain"))
	assert.Equal(t, "noreply@bodhini.com", aws.ToString(fake.input.Source))
	assert.Nil(t, fake.input.Message.Body.Html)
	assert.NotNil(t, fake.input.Message.Body.Text)
}

func TestSESMailer_Send_Error(t *testing.T) {
	fake := &fakeSES{err: errors.New("throttled")}
	m := newSESMailer(fake, "noreply@bodhini.com", "", discardLogger())

	err := m.Send(context.Background(), "to@example.com", "S", "", "plain")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestNewMailer(t *testing.T) {
	m, err := NewMailer(MailerConfig{Provider: "noop"}, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &noopMailer{}, m)
	require.NoError(t, m.Send(context.Background(), "a@b.com", "s", "", "t"))

	m, err = NewMailer(MailerConfig{Provider: "carrier-pigeon"}, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &noopMailer{}, m)

	_, err = NewMailer(MailerConfig{Provider: "ses"}, discardLogger())
	assert.Error(t, err, "ses without from address")

	m, err = NewMailer(MailerConfig{Provider: "ses", FromAddress: "noreply@bodhini.com", SES: SESConfig{Region: "eu-west-1"}}, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &sesMailer{}, m)
}
