package analyzer

import (
	"context"
	"sync"
)

type ModelClientStub struct {
	mu sync.Mutex

	Response string
	Err      error
	PingErr  error

	GenerateCalls int
	PingCalls     int
	LastPrompt    string
	LastImage     []byte
	LastMimeType  string
}

func NewModelClientStub() *ModelClientStub {
	return &ModelClientStub{}
}

func (c *ModelClientStub) Generate(_ context.Context, prompt string, image []byte, mimeType string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.GenerateCalls++
	c.LastPrompt = prompt
	c.LastImage = image
	c.LastMimeType = mimeType
	if c.Err != nil {
		return "", c.Err
	}
	return c.Response, nil
}

func (c *ModelClientStub) Ping(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.PingCalls++
	return c.PingErr
}
