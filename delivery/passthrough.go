package delivery

import "context"

// passThroughStrategy hands the render URL straight back; the chat client
// is expected to unfurl it. No extra I/O.
type passThroughStrategy struct{}

func (passThroughStrategy) Name() string { return "pass-through" }

func (passThroughStrategy) Deliver(_ context.Context, renderURL, _ string) Outcome {
	return delivered(renderURL)
}
