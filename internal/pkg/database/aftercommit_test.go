package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAfterCommit_RunsImmediatelyOutsideTransaction(t *testing.T) {
	ran := false
	AfterCommit(context.Background(), func(context.Context) { ran = true })
	assert.True(t, ran)
}

func TestAfterCommit_DeferredUntilRun(t *testing.T) {
	ctx, run := WithAfterCommit(context.Background())

	var order []string
	AfterCommit(ctx, func(context.Context) { order = append(order, "first") })
	AfterCommit(ctx, func(context.Context) { order = append(order, "second") })
	assert.Empty(t, order)

	run(context.Background())
	assert.Equal(t, []string{"first", "second"}, order)

	// Hooks run once.
	run(context.Background())
	assert.Len(t, order, 2)
}
