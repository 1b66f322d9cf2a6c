package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenBucketExhaustion(t *testing.T) {
	bucket := NewTokenBucket(2, 1, time.Hour)

	allowed, _ := bucket.Allow()
	assert.True(t, allowed)
	allowed, _ = bucket.Allow()
	assert.True(t, allowed)

	allowed, wait := bucket.Allow()
	assert.False(t, allowed)
	assert.Greater(t, wait, time.Duration(0))
}

func TestRateLimiterIsolatesUsersAndActions(t *testing.T) {
	limiter := NewRateLimiter()

	for i := 0; i < 30; i++ {
		allowed, _ := limiter.Allow("alice", "send_message")
		assert.True(t, allowed, "send %d", i)
	}
	allowed, _ := limiter.Allow("alice", "send_message")
	assert.False(t, allowed)

	// A different user and a different action still have tokens.
	allowed, _ = limiter.Allow("bob", "send_message")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow("alice", "create_tag")
	assert.True(t, allowed)
}
