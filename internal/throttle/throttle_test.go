package throttle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoopNeverBlocks(t *testing.T) {
	var l Limiter = Noop{}
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		assert.NoError(t, l.Fail(ctx, "alice"))
	}
	blocked, err := l.Blocked(ctx, "alice")
	assert.NoError(t, err)
	assert.False(t, blocked)
}

func TestDialRejectsBadURL(t *testing.T) {
	_, err := Dial(context.Background(), "http://localhost:6379")
	assert.Error(t, err)
}
