package logger

import (
	"github.com/stretchr/testify/mock"
)

// MockLogger is a Logger recording its calls with testify/mock.
type MockLogger struct {
	mock.Mock
}

var _ Logger = (*MockLogger)(nil)

func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (m *MockLogger) Debug(msg string, keysAndValues ...any) {
	m.Called(msg, keysAndValues)
}

func (m *MockLogger) Info(msg string, keysAndValues ...any) {
	m.Called(msg, keysAndValues)
}

func (m *MockLogger) Warn(msg string, keysAndValues ...any) {
	m.Called(msg, keysAndValues)
}

func (m *MockLogger) Error(msg string, keysAndValues ...any) {
	m.Called(msg, keysAndValues)
}

func (m *MockLogger) Fatal(msg string, keysAndValues ...any) {
	m.Called(msg, keysAndValues)
}

func (m *MockLogger) SetLevel(level Level) {
	m.Called(level)
}

func (m *MockLogger) Level() Level {
	args := m.Called()
	return args.Get(0).(Level) //nolint:forcetypeassert
}

// With returns the logger registered for the With call, or m itself when the
// expectation returns nothing.
func (m *MockLogger) With(keyValues ...any) Logger {
	args := m.Called(keyValues...)
	if l, ok := args.Get(0).(Logger); ok {
		return l
	}

	return m
}

// AllowAll accepts every logging call without asserting it, and makes With return
// m. Expectations registered before AllowAll take precedence.
func (m *MockLogger) AllowAll() *MockLogger {
	for _, method := range []string{"Debug", "Info", "Warn", "Error"} {
		m.On(method, mock.Anything, mock.Anything).Maybe()
	}
	m.On("With", mock.Anything, mock.Anything).Return(nil).Maybe()

	return m
}
