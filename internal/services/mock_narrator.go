package services

import (
	"context"
	"sync"
)

// MockReply is one scripted narrator outcome.
type MockReply struct {
	Text string
	Err  error
}

// MockNarrator replays scripted replies in order. Once the script runs out
// it answers with Default.
type MockNarrator struct {
	RespondFunc func(ctx context.Context, req *NarratorRequest) (string, error)
	Default     string

	mu       sync.Mutex
	script   []MockReply
	requests []NarratorRequest
}

// NewMockNarrator creates a narrator that returns replies in order.
func NewMockNarrator(replies ...MockReply) *MockNarrator {
	return &MockNarrator{
		Default: "The corridor is silent.\n\nCOMMAND?",
		script:  replies,
	}
}

// Push appends replies to the script.
func (m *MockNarrator) Push(replies ...MockReply) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.script = append(m.script, replies...)
}

// Say appends a successful reply.
func (m *MockNarrator) Say(text string) {
	m.Push(MockReply{Text: text})
}

// Fail appends a failing reply.
func (m *MockNarrator) Fail(err error) {
	m.Push(MockReply{Err: err})
}

func (m *MockNarrator) Respond(ctx context.Context, req *NarratorRequest) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, *req)
	fn := m.RespondFunc
	var next *MockReply
	if len(m.script) > 0 {
		r := m.script[0]
		m.script = m.script[1:]
		next = &r
	}
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if fn != nil {
		return fn(ctx, req)
	}
	if next == nil {
		return m.Default, nil
	}
	return next.Text, next.Err
}

// Requests returns a copy of every request received.
func (m *MockNarrator) Requests() []NarratorRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]NarratorRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// Calls returns how many requests were received.
func (m *MockNarrator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}
