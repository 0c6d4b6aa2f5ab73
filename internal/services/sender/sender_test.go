package services

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/olympiad-crm/internal/lib/smtp"
	"github.com/magabrotheeeer/olympiad-crm/internal/models"
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
	args := m.Called(from)
	return args.Error(0)
}

func (m *MockSMTPClient) Rcpt(to string) error {
	args := m.Called(to)
	return args.Error(0)
}

func (m *MockSMTPClient) Data() (io.WriteCloser, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.WriteCloser), args.Error(1)
}

func (m *MockSMTPClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSMTPClient) Quit() error {
	args := m.Called()
	return args.Error(0)
}

type MockSMTPWriter struct {
	mock.Mock
}

func (m *MockSMTPWriter) Write(p []byte) (n int, err error) {
	args := m.Called(p)
	return args.Int(0), args.Error(1)
}

func (m *MockSMTPWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func reminderBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(models.CallReminder{
		ID:           11,
		ClientID:     5,
		ManagerID:    2,
		ReminderDate: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		Description:  "Обсудить оплату олимпиады",
		ClientName:   "Смирнов Алексей",
		ClientPhone:  "+79001112233",
		ManagerName:  "Петрова Анна",
		ManagerEmail: "petrova@example.com",
	})
	if err != nil {
		t.Fatalf("marshal reminder: %v", err)
	}
	return body
}

func TestSenderService_SendCallReminder(t *testing.T) {
	tests := []struct {
		name          string
		body          []byte
		setupMocks    func(*MockTransport)
		expectedError bool
		errorMessage  string
	}{
		{
			name: "success - send call reminder email",
			body: nil, // заполняется в тесте
			setupMocks: func(tr *MockTransport) {
				mockClient := new(MockSMTPClient)
				mockWriter := new(MockSMTPWriter)

				tr.On("GetSMTPUser").Return("crm@example.com")
				tr.On("Connect").Return(mockClient, nil).Once()
				mockClient.On("Mail", "crm@example.com").Return(nil).Once()
				mockClient.On("Rcpt", "petrova@example.com").Return(nil).Once()
				mockClient.On("Data").Return(mockWriter, nil).Once()
				mockWriter.On("Write", mock.AnythingOfType("[]uint8")).Return(100, nil).Once()
				mockWriter.On("Close").Return(nil).Once()
				mockClient.On("Quit").Return(nil).Once()
				mockClient.On("Close").Return(nil).Once()
			},
			expectedError: false,
		},
		{
			name: "invalid JSON",
			body: []byte(`invalid json`),
			setupMocks: func(_ *MockTransport) {
				// транспорт не трогается
			},
			expectedError: true,
			errorMessage:  "error unmarshalling message",
		},
		{
			name: "SMTP connection error",
			body: nil,
			setupMocks: func(tr *MockTransport) {
				tr.On("GetSMTPUser").Return("crm@example.com")
				tr.On("Connect").Return(nil, errors.New("connection error")).Once()
			},
			expectedError: true,
			errorMessage:  "connection error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := new(MockTransport)
			service := NewSenderService(transport, newNoopLogger())

			tt.setupMocks(transport)

			body := tt.body
			if body == nil {
				body = reminderBody(t)
			}
			err := service.SendCallReminder(body)

			if tt.expectedError {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMessage)
			} else {
				assert.NoError(t, err)
			}

			transport.AssertExpectations(t)
		})
	}
}

func TestSenderService_SkipsReminderWithoutManagerEmail(t *testing.T) {
	transport := new(MockTransport)
	service := NewSenderService(transport, newNoopLogger())

	body, err := json.Marshal(models.CallReminder{ID: 11, ClientName: "Смирнов Алексей"})
	assert.NoError(t, err)

	err = service.SendCallReminder(body)

	assert.NoError(t, err)
	transport.AssertNotCalled(t, "Connect")
}

func TestSenderService_SMTPErrorHandling(t *testing.T) {
	tests := []struct {
		name          string
		setupMocks    func(*MockTransport)
		expectedError string
	}{
		{
			name: "SMTP Mail error",
			setupMocks: func(tr *MockTransport) {
				mockClient := new(MockSMTPClient)

				tr.On("GetSMTPUser").Return("crm@example.com")
				tr.On("Connect").Return(mockClient, nil).Once()
				mockClient.On("Mail", "crm@example.com").Return(errors.New("mail error")).Once()
				mockClient.On("Close").Return(nil).Once()
			},
			expectedError: "mail error",
		},
		{
			name: "SMTP Rcpt error",
			setupMocks: func(tr *MockTransport) {
				mockClient := new(MockSMTPClient)

				tr.On("GetSMTPUser").Return("crm@example.com")
				tr.On("Connect").Return(mockClient, nil).Once()
				mockClient.On("Mail", "crm@example.com").Return(nil).Once()
				mockClient.On("Rcpt", "petrova@example.com").Return(errors.New("rcpt error")).Once()
				mockClient.On("Close").Return(nil).Once()
			},
			expectedError: "rcpt error",
		},
		{
			name: "SMTP Data error",
			setupMocks: func(tr *MockTransport) {
				mockClient := new(MockSMTPClient)

				tr.On("GetSMTPUser").Return("crm@example.com")
				tr.On("Connect").Return(mockClient, nil).Once()
				mockClient.On("Mail", "crm@example.com").Return(nil).Once()
				mockClient.On("Rcpt", "petrova@example.com").Return(nil).Once()
				mockClient.On("Data").Return(nil, errors.New("data error")).Once()
				mockClient.On("Close").Return(nil).Once()
			},
			expectedError: "data error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := new(MockTransport)
			service := NewSenderService(transport, newNoopLogger())

			tt.setupMocks(transport)

			err := service.SendCallReminder(reminderBody(t))

			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)

			transport.AssertExpectations(t)
		})
	}
}
