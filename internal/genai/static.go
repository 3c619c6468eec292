package genai

import (
	"context"
	"sync"
)

// StaticClient replies with canned bodies keyed by purpose. Purposes
// without an entry get the purpose's fallback text. Used by scenario
// tooling and tests to run sessions without a live service.
type StaticClient struct {
	mu       sync.Mutex
	Bodies   map[Purpose]string
	Err      error
	requests []Request
}

// NewStaticClient builds a client with the given canned bodies.
func NewStaticClient(bodies map[Purpose]string) *StaticClient {
	return &StaticClient{Bodies: bodies}
}

// Generate implements Client.
func (c *StaticClient) Generate(_ context.Context, req Request) (Response, error) {
	c.mu.Lock()
	c.requests = append(c.requests, req)
	c.mu.Unlock()
	if c.Err != nil {
		return Response{}, c.Err
	}
	if body, ok := c.Bodies[req.Purpose]; ok {
		return Response{Screen: Screen{Body: body}}, nil
	}
	return Response{Screen: Screen{Body: FallbackText(req.Purpose)}}, nil
}

// Requests returns a copy of every request seen so far.
func (c *StaticClient) Requests() []Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Request, len(c.requests))
	copy(out, c.requests)
	return out
}
