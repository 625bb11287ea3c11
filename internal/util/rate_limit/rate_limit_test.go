package rate_limit

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func Test_CheckRateLimit_WithinLimits_AllowsRequest(t *testing.T) {
	rateLimiter := NewRateLimiter()
	key := uuid.New().String()
	rpsLimit := 10
	burstLimit := 20

	rateLimiter.ResetRateLimit(key)

	result, err := rateLimiter.CheckRateLimit(key, rpsLimit, burstLimit)

	assert.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, burstLimit-1, result.Remaining)
	assert.Equal(t, 0, result.RetryAfterSec)
	assert.True(t, result.ResetTime.After(time.Now().Add(-time.Second)))
}

func Test_CheckRateLimit_ExceedsBurstLimit_DeniesRequest(t *testing.T) {
	rateLimiter := NewRateLimiter()
	key := uuid.New().String()
	rpsLimit := 1
	burstLimit := 2

	rateLimiter.ResetRateLimit(key)

	for i := 0; i < burstLimit; i++ {
		result, err := rateLimiter.CheckRateLimit(key, rpsLimit, burstLimit)
		assert.NoError(t, err)
		assert.True(t, result.Allowed, "request %d should be allowed", i+1)
	}

	result, err := rateLimiter.CheckRateLimit(key, rpsLimit, burstLimit)
	assert.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Equal(t, 0, result.Remaining)
	assert.True(t, result.RetryAfterSec > 0)
}

func Test_CheckRateLimit_TokensRefillOverTime(t *testing.T) {
	rateLimiter := NewRateLimiter()
	key := uuid.New().String()
	rpsLimit := 10
	burstLimit := 1

	rateLimiter.ResetRateLimit(key)

	result, err := rateLimiter.CheckRateLimit(key, rpsLimit, burstLimit)
	assert.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, 0, result.Remaining)

	result, err = rateLimiter.CheckRateLimit(key, rpsLimit, burstLimit)
	assert.NoError(t, err)
	assert.False(t, result.Allowed)

	// one token refills every 100ms at 10 RPS
	time.Sleep(150 * time.Millisecond)

	result, err = rateLimiter.CheckRateLimit(key, rpsLimit, burstLimit)
	assert.NoError(t, err)
	assert.True(t, result.Allowed)
}

func Test_CheckRateLimit_SeparateKeysHaveSeparateBuckets(t *testing.T) {
	rateLimiter := NewRateLimiter()
	first := uuid.New().String()
	second := uuid.New().String()

	rateLimiter.ResetRateLimit(first)
	rateLimiter.ResetRateLimit(second)

	result, err := rateLimiter.CheckRateLimit(first, 1, 1)
	assert.NoError(t, err)
	assert.True(t, result.Allowed)

	result, err = rateLimiter.CheckRateLimit(first, 1, 1)
	assert.NoError(t, err)
	assert.False(t, result.Allowed)

	result, err = rateLimiter.CheckRateLimit(second, 1, 1)
	assert.NoError(t, err)
	assert.True(t, result.Allowed)
}
