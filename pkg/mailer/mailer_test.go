package mailer_test

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/certsend/certsend/pkg/mailer"
	"github.com/certsend/certsend/pkg/mimemsg"
	"github.com/certsend/certsend/pkg/payload"
	"github.com/certsend/certsend/pkg/smtpclient"
)

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, msg mimemsg.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func validDocument(t *testing.T) (payload.EncodedDocument, []byte) {
	t.Helper()
	content := make([]byte, 1500)
	copy(content, "%PDF-1.7\n")
	for i := 9; i < len(content); i++ {
		content[i] = byte('a' + i%26)
	}
	return payload.EncodedDocument{
		MediaType: payload.MediaTypePDF,
		Encoding:  payload.EncodingBase64,
		Data:      base64.StdEncoding.EncodeToString(content),
	}, content
}

func testRequest(t *testing.T) mailer.DeliveryRequest {
	t.Helper()
	doc, _ := validDocument(t)
	return mailer.DeliveryRequest{
		To:                "jane@example.com",
		ParticipantName:   "Jane Doe",
		CertificateNumber: "CERT-2026-117",
		Document:          doc,
	}
}

func newTestMailer(t *testing.T, sender mailer.Sender) *mailer.Mailer {
	t.Helper()
	return mailer.New(sender, mailer.DefaultRenderer(), mailer.Config{
		FromName:   "Certificates",
		FromEmail:  "certs@example.com",
		RetryDelay: time.Millisecond,
	})
}

func TestMailer_DeliverCertificate(t *testing.T) {
	t.Parallel()

	sender := new(MockSender)
	var sent mimemsg.Message
	sender.On("Send", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			sent = args.Get(1).(mimemsg.Message)
		}).
		Return(nil).
		Once()

	m := newTestMailer(t, sender)
	req := testRequest(t)
	require.NoError(t, m.DeliverCertificate(context.Background(), req))
	sender.AssertExpectations(t)

	assert.Equal(t, "Certificates <certs@example.com>", sent.From)
	assert.Equal(t, "jane@example.com", sent.To)
	assert.Equal(t, "Your Certificate CERT-2026-117", sent.Subject,
		"subject comes from template frontmatter with data interpolated")
	assert.Contains(t, sent.HTMLBody, "Jane Doe")
	assert.Contains(t, sent.HTMLBody, "CERT-2026-117")

	require.NotNil(t, sent.Attachment)
	assert.Equal(t, "Certificate_Jane_Doe.pdf", sent.Attachment.Filename)
	assert.Equal(t, req.Document.Data, sent.Attachment.Base64Content,
		"a clean payload must be transmitted exactly as received")
}

func TestMailer_SubjectOverride(t *testing.T) {
	t.Parallel()

	sender := new(MockSender)
	var sent mimemsg.Message
	sender.On("Send", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			sent = args.Get(1).(mimemsg.Message)
		}).
		Return(nil).
		Once()

	m := newTestMailer(t, sender)
	req := testRequest(t)
	req.Subject = "Webinar certificate for {{.ParticipantName}}"
	require.NoError(t, m.DeliverCertificate(context.Background(), req))

	assert.Equal(t, "Webinar certificate for Jane Doe", sent.Subject)
}

func TestMailer_NoteIsStripped(t *testing.T) {
	t.Parallel()

	sender := new(MockSender)
	var sent mimemsg.Message
	sender.On("Send", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			sent = args.Get(1).(mimemsg.Message)
		}).
		Return(nil).
		Once()

	m := newTestMailer(t, sender)
	req := testRequest(t)
	req.Note = `Great talk!<script>alert('x')</script>`
	require.NoError(t, m.DeliverCertificate(context.Background(), req))

	assert.Contains(t, sent.HTMLBody, "Great talk!")
	assert.NotContains(t, sent.HTMLBody, "<script>")
}

func TestMailer_RetriesTransientThenSucceeds(t *testing.T) {
	t.Parallel()

	sender := new(MockSender)
	transient := errors.Join(smtpclient.ErrConnect, errors.New("connection reset"))
	sender.On("Send", mock.Anything, mock.Anything).Return(transient).Twice()
	sender.On("Send", mock.Anything, mock.Anything).Return(nil).Once()

	m := newTestMailer(t, sender)
	require.NoError(t, m.DeliverCertificate(context.Background(), testRequest(t)))
	sender.AssertNumberOfCalls(t, "Send", 3)
}

func TestMailer_ExhaustsAttempts(t *testing.T) {
	t.Parallel()

	sender := new(MockSender)
	transient := errors.Join(smtpclient.ErrConnect, errors.New("connection reset"))
	sender.On("Send", mock.Anything, mock.Anything).Return(transient)

	m := newTestMailer(t, sender)
	err := m.DeliverCertificate(context.Background(), testRequest(t))
	require.ErrorIs(t, err, mailer.ErrDeliveryFailed)
	require.ErrorIs(t, err, smtpclient.ErrConnect, "terminal error must carry the underlying cause")
	sender.AssertNumberOfCalls(t, "Send", 3)
}

func TestMailer_PermanentRejectIsNotRetried(t *testing.T) {
	t.Parallel()

	sender := new(MockSender)
	sender.On("Send", mock.Anything, mock.Anything).
		Return(&smtpclient.RejectError{Code: 550, Text: "550 no such user"})

	m := newTestMailer(t, sender)
	err := m.DeliverCertificate(context.Background(), testRequest(t))
	require.ErrorIs(t, err, mailer.ErrDeliveryFailed)
	sender.AssertNumberOfCalls(t, "Send", 1)
}

func TestMailer_ValidationFailureSkipsDelivery(t *testing.T) {
	t.Parallel()

	sender := new(MockSender)
	m := newTestMailer(t, sender)

	req := testRequest(t)
	req.Document.Data = strings.Repeat("ab!d", 400)
	err := m.DeliverCertificate(context.Background(), req)
	require.ErrorIs(t, err, mailer.ErrValidationFailed)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestMailer_InvalidRecipient(t *testing.T) {
	t.Parallel()

	sender := new(MockSender)
	m := newTestMailer(t, sender)

	req := testRequest(t)
	req.To = "not an address"
	err := m.DeliverCertificate(context.Background(), req)
	require.ErrorIs(t, err, mailer.ErrInvalidRecipient)
	sender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestMailer_DeliverBatch(t *testing.T) {
	t.Parallel()

	sender := new(MockSender)
	sender.On("Send", mock.Anything, mock.MatchedBy(func(msg mimemsg.Message) bool {
		return msg.To == "bad@example.com"
	})).Return(&smtpclient.RejectError{Code: 550, Text: "550 no such user"})
	sender.On("Send", mock.Anything, mock.Anything).Return(nil)

	m := newTestMailer(t, sender)

	good := testRequest(t)
	bad := testRequest(t)
	bad.To = "bad@example.com"
	other := testRequest(t)
	other.To = "john@example.com"

	result := m.DeliverBatch(context.Background(), []mailer.DeliveryRequest{good, bad, other}, 0)
	assert.Equal(t, 2, result.Succeeded)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "bad@example.com", result.Failures[0].Recipient)
	require.ErrorIs(t, result.Failures[0].Err, mailer.ErrDeliveryFailed)
}

func TestMailer_BatchStopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	sender := new(MockSender)
	sender.On("Send", mock.Anything, mock.Anything).Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	m := newTestMailer(t, sender)

	reqs := []mailer.DeliveryRequest{testRequest(t), testRequest(t)}
	cancel()
	result := m.DeliverBatch(ctx, reqs, time.Minute)

	// The first delivery runs without an inter-job wait; the second is
	// abandoned when the cancelled context interrupts the delay.
	assert.Equal(t, 1, result.Succeeded)
	require.Len(t, result.Failures, 1)
	require.ErrorIs(t, result.Failures[0].Err, context.Canceled)
}
