package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestLevelFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	assert.Equal(t, DebugLevel, levelFromEnv())

	t.Setenv("LOG_LEVEL", "bogus")
	assert.Equal(t, InfoLevel, levelFromEnv())
}

func TestSetDefault(t *testing.T) {
	orig := GetLogger()
	t.Cleanup(func() { SetDefault(orig) })

	ml := NewMockLogger()
	ml.On("Info", "xbee: opened", []any{"port", "COM3"}).Once()
	ml.AllowAll()

	SetDefault(ml)
	assert.Same(t, ml, GetLogger())
	Info("xbee: opened", "port", "COM3")
	assert.Same(t, ml, With("port", "COM3"), "With returns the mock itself")

	SetDefault(nil)
	assert.Same(t, ml, GetLogger(), "a nil logger is ignored")

	ml.AssertExpectations(t)
	ml.AssertCalled(t, "With", "port", "COM3")
	ml.AssertNotCalled(t, "Error", mock.Anything, mock.Anything)
}
