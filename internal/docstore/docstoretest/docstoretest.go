// Package docstoretest provides docstore.Client doubles for tests.
package docstoretest

import (
	"context"
	"sync/atomic"

	"github.com/simp-lee/transitdesk/internal/docstore"
)

// Failing is a docstore.Client whose every call fails with Err.
type Failing struct {
	Err   error
	Calls atomic.Int64
}

var _ docstore.Client = (*Failing)(nil)

func (f *Failing) fail() error {
	f.Calls.Add(1)
	return f.Err
}

func (f *Failing) Get(context.Context, string, string) (*docstore.Document, error) {
	return nil, f.fail()
}

func (f *Failing) Run(context.Context, docstore.Query) ([]docstore.Document, error) {
	return nil, f.fail()
}

func (f *Failing) Add(context.Context, string, map[string]any) (string, error) {
	return "", f.fail()
}

func (f *Failing) Create(context.Context, string, string, map[string]any) error { return f.fail() }

func (f *Failing) Update(context.Context, string, string, map[string]any) error { return f.fail() }

func (f *Failing) Delete(context.Context, string, string) error { return f.fail() }

func (f *Failing) Ping(context.Context) error { return f.fail() }

func (f *Failing) Close() error { return nil }

// Vanishing wraps a client so that writes succeed but reads of single
// documents report docstore.ErrNotFound, as a lagging replica would.
type Vanishing struct {
	docstore.Client
}

func (v Vanishing) Get(context.Context, string, string) (*docstore.Document, error) {
	return nil, docstore.ErrNotFound
}
