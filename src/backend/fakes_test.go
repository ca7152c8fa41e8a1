package main

import (
	"context"
	"errors"
	"sync"
	"testing"

	"SDGDashboard/src/toolkit"
)

// fakeLibrary stands in for a loaded toolkit.
type fakeLibrary struct {
	version  string
	newErr   error
	newPanic any

	mu          sync.Mutex
	constructed int
}

func (f *fakeLibrary) Version() string {
	return f.version
}

func (f *fakeLibrary) NewBaseBlock(name string) (toolkit.BaseBlock, error) {
	f.mu.Lock()
	f.constructed++
	f.mu.Unlock()

	if f.newPanic != nil {
		panic(f.newPanic)
	}
	if f.newErr != nil {
		return toolkit.BaseBlock{}, f.newErr
	}
	return toolkit.NewBaseBlock(name)
}

func (f *fakeLibrary) constructions() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.constructed
}

func loaderFor(lib toolkit.Library) toolkit.Loader {
	return func() (toolkit.Library, error) { return lib, nil }
}

func failingLoader(msg string) toolkit.Loader {
	return func() (toolkit.Library, error) { return nil, errors.New(msg) }
}

// memoryStore keeps runs in memory, newest last.
type memoryStore struct {
	mu        sync.Mutex
	runs      []Run
	recordErr error
}

func (m *memoryStore) Record(_ context.Context, run Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recordErr != nil {
		return m.recordErr
	}
	run.ID = int64(len(m.runs) + 1)
	m.runs = append(m.runs, run)
	return nil
}

func (m *memoryStore) Recent(_ context.Context, limit int) ([]Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Run
	for i := len(m.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.runs[i])
	}
	return out, nil
}

func (m *memoryStore) Close() error { return nil }

func (m *memoryStore) all() []Run {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Run(nil), m.runs...)
}

func newTestApp(t *testing.T, load toolkit.Loader, history runStore) *app {
	t.Helper()

	cfg := Config{
		Addr:          defaultAddr,
		TemplatePath:  "../frontend/templates/",
		StaticPath:    "../frontend/static/",
		SessionSecret: "test-secret",
		SessionDir:    t.TempDir(),
		LogLevel:      "info",
	}
	store, err := newSessionStore(cfg)
	if err != nil {
		t.Fatalf("session store: %v", err)
	}
	return &app{
		cfg:      cfg,
		diag:     NewDiagnosticService(initializeProbe(load)),
		history:  history,
		sessions: store,
	}
}
