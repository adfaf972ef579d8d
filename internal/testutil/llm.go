package testutil

import (
	"context"
	"sync"
)

// FakeLLM is an llm.Model for tests. It records every prompt and
// returns canned responses in order, falling back to Response once the
// queue is exhausted.
type FakeLLM struct {
	mu        sync.Mutex
	Responses []string
	Response  string
	Err       error

	Calls []FakeLLMCall
}

// FakeLLMCall captures one Generate invocation.
type FakeLLMCall struct {
	System string
	Prompt string
}

// Generate implements llm.Model.
func (f *FakeLLM) Generate(_ context.Context, system, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.Calls = append(f.Calls, FakeLLMCall{System: system, Prompt: prompt})
	if f.Err != nil {
		return "", f.Err
	}
	if len(f.Responses) > 0 {
		resp := f.Responses[0]
		f.Responses = f.Responses[1:]
		return resp, nil
	}
	if f.Response != "" {
		return f.Response, nil
	}
	return "ok", nil
}

// CallCount returns how many times Generate was invoked.
func (f *FakeLLM) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}
