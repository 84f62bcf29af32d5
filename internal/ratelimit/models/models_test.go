package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewIPRateLimitKey(t *testing.T) {
	assert.Equal(t, "rl:ip:write:10.0.0.1", NewIPRateLimitKey(ClassWrite, "10.0.0.1"))
	assert.Equal(t, "rl:ip:payment:__1", NewIPRateLimitKey(ClassPayment, "::1"))
}

func TestRetryAfterSeconds(t *testing.T) {
	assert.Equal(t, 1, RetryAfterSeconds(0))
	assert.Equal(t, 1, RetryAfterSeconds(200*time.Millisecond))
	assert.Equal(t, 2, RetryAfterSeconds(1500*time.Millisecond))
	assert.Equal(t, 60, RetryAfterSeconds(time.Minute))
}

func TestEndpointClassIsValid(t *testing.T) {
	assert.True(t, ClassWrite.IsValid())
	assert.True(t, ClassPayment.IsValid())
	assert.False(t, EndpointClass("read").IsValid())
}
