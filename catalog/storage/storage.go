package storage

import (
	"context"
	"errors"
)

// Source supplies the raw bytes of one catalog file.
type Source interface {
	Load(ctx context.Context) ([]byte, error)
}

// StaticSource is a simple in-memory implementation for testing.
type StaticSource struct {
	data []byte
	err  error
}

func NewStaticSource(data []byte) *StaticSource {
	return &StaticSource{data: data}
}

func NewStaticSourceWithError() *StaticSource {
	return &StaticSource{err: errors.New("not found")}
}

func (s *StaticSource) Load(ctx context.Context) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.data, nil
}
