package enrichment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedDelay_Waits(t *testing.T) {
	start := time.Now()
	err := FixedDelay(20 * time.Millisecond).Wait(context.Background())

	assert.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestFixedDelay_Zero(t *testing.T) {
	assert.NoError(t, FixedDelay(0).Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, FixedDelay(0).Wait(ctx), context.Canceled)
}

func TestFixedDelay_Canceled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := FixedDelay(time.Hour).Wait(ctx)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestPacerFunc(t *testing.T) {
	calls := 0
	var p Pacer = PacerFunc(func(ctx context.Context) error {
		calls++
		return nil
	})

	assert.NoError(t, p.Wait(context.Background()))
	assert.Equal(t, 1, calls)
}
