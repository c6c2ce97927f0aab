package utils

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestStartCleanupJob(t *testing.T) {
	c := qt.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	StartCleanupJob(ctx, "test", 10*time.Millisecond, func() { runs.Add(1) })
	c.Assert(runs.Load(), qt.Equals, int32(1))

	deadline := time.Now().Add(2 * time.Second)
	for runs.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	c.Assert(runs.Load() >= 3, qt.IsTrue)
}
