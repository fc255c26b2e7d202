package notifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/content-admin/internal/lib/smtp"
	"github.com/magabrotheeeer/content-admin/internal/services/reconciler"
)

type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(smtp.Client), args.Error(1)
}

func (m *MockTransport) GetSMTPUser() string {
	args := m.Called()
	return args.String(0)
}

type MockSMTPClient struct {
	mock.Mock
}

func (m *MockSMTPClient) Mail(from string) error {
	return m.Called(from).Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	return m.Called(to).Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Close() error {
	return m.Called().Error(0)
}

func (m *MockSMTPClient) Quit() error {
	return m.Called().Error(0)
}

type writeCloser struct {
	bytes.Buffer
}

func (w *writeCloser) Close() error { return nil }

func eventBody(t *testing.T, event reconciler.ExpiredEvent) []byte {
	t.Helper()
	body, err := json.Marshal(event)
	require.NoError(t, err)
	return body
}

func newTestService(transport *MockTransport) *Service {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return New(transport, logger)
}

func TestSendAccessExpired(t *testing.T) {
	event := reconciler.ExpiredEvent{
		UserID:      "u1",
		Email:       "user@example.com",
		ProductID:   "p1",
		ProductName: "Go Course",
		EndDate:     time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
	}

	transport := new(MockTransport)
	client := new(MockSMTPClient)
	writer := &writeCloser{}

	transport.On("GetSMTPUser").Return("noreply@example.com")
	transport.On("Connect").Return(client, nil)
	client.On("Mail", "noreply@example.com").Return(nil)
	client.On("Rcpt", "user@example.com").Return(nil)
	client.On("Data").Return(writer, nil)
	client.On("Quit").Return(nil)
	client.On("Close").Return(nil)

	err := newTestService(transport).SendAccessExpired(eventBody(t, event))

	require.NoError(t, err)
	assert.Contains(t, writer.String(), "Go Course")
	assert.Contains(t, writer.String(), "15.06.2025")
	transport.AssertExpectations(t)
	client.AssertExpectations(t)
}

func TestSendAccessExpired_NoEmail(t *testing.T) {
	transport := new(MockTransport)

	err := newTestService(transport).SendAccessExpired(eventBody(t, reconciler.ExpiredEvent{
		UserID:    "u1",
		ProductID: "p1",
	}))

	// Письмо отправить некуда, но событие не должно возвращаться в очередь.
	assert.NoError(t, err)
	transport.AssertNotCalled(t, "Connect")
}

func TestSendAccessExpired_BadPayload(t *testing.T) {
	transport := new(MockTransport)

	err := newTestService(transport).SendAccessExpired([]byte("not json"))

	assert.Error(t, err)
}

func TestSendAccessExpired_ConnectError(t *testing.T) {
	transport := new(MockTransport)
	transport.On("GetSMTPUser").Return("noreply@example.com")
	transport.On("Connect").Return(nil, errors.New("connection refused"))

	err := newTestService(transport).SendAccessExpired(eventBody(t, reconciler.ExpiredEvent{
		UserID: "u1",
		Email:  "user@example.com",
	}))

	assert.Error(t, err)
}
