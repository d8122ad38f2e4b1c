package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStartRunAndStartFetchProduceSpans(t *testing.T) {
	ctx, runSpan := StartRun(context.Background(), "golang")
	defer runSpan.End()
	assert.NotNil(t, runSpan)

	_, fetchSpan := StartFetch(ctx, "wikipedia")
	defer fetchSpan.End()
	assert.NotNil(t, fetchSpan)
}

func TestTracerIsNotNil(t *testing.T) {
	assert.NotNil(t, Tracer())
}
