// Package toolkit is the block toolkit the dashboard checks: the base
// processing unit, the batch it transforms, and the loaders that resolve a
// Library when the process starts.
package toolkit

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotImplemented is returned by BaseBlock.Forward. Concrete blocks
	// embed BaseBlock and provide their own Forward.
	ErrNotImplemented = errors.New("forward is not implemented")

	ErrEmptyBlockName = errors.New("block name is required")
)

// Block is a single data-transformation step.
type Block interface {
	Name() string
	Forward(batch *Batch) (*Batch, error)
}

// BaseBlock carries what every block has in common. Embed it and override
// Forward.
type BaseBlock struct {
	name string
}

func NewBaseBlock(name string) (BaseBlock, error) {
	if strings.TrimSpace(name) == "" {
		return BaseBlock{}, ErrEmptyBlockName
	}
	return BaseBlock{name: name}, nil
}

func (b BaseBlock) Name() string {
	return b.name
}

func (b BaseBlock) Forward(*Batch) (*Batch, error) {
	return nil, fmt.Errorf("block %q: %w", b.name, ErrNotImplemented)
}

// Library is a loaded toolkit.
type Library interface {
	// Version reports the library version, or "" when it has none.
	Version() string
	NewBaseBlock(name string) (BaseBlock, error)
}

// Loader resolves a Library. It is called once at startup.
type Loader func() (Library, error)

// Select returns the plugin loader when pluginPath is set and the built-in
// toolkit otherwise.
func Select(pluginPath string) Loader {
	if pluginPath != "" {
		return OpenPlugin(pluginPath)
	}
	return Builtin()
}
