package analyzer

import (
	"context"
	"sync"
)

type RepositoryStub struct {
	mu        sync.Mutex
	Artifacts []Artifact
	Err       error
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{}
}

func (r *RepositoryStub) Store(_ context.Context, artifact Artifact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.Err != nil {
		return r.Err
	}
	r.Artifacts = append(r.Artifacts, artifact)
	return nil
}
