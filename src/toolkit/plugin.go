package toolkit

import (
	"fmt"
	"plugin"
)

// Symbols looked up in a toolkit plugin. Toolkit is required; Version is an
// optional string variable.
const (
	ToolkitSymbol = "Toolkit"
	VersionSymbol = "Version"
)

// symbolTable is the part of *plugin.Plugin a toolkit is read from.
type symbolTable interface {
	Lookup(symName string) (plugin.Symbol, error)
}

// OpenPlugin loads a toolkit from a Go plugin built with -buildmode=plugin.
func OpenPlugin(path string) Loader {
	return func() (Library, error) {
		p, err := plugin.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open toolkit plugin %s: %w", path, err)
		}
		lib, err := fromSymbols(p)
		if err != nil {
			return nil, fmt.Errorf("toolkit plugin %s: %w", path, err)
		}
		return lib, nil
	}
}

func fromSymbols(syms symbolTable) (Library, error) {
	sym, err := syms.Lookup(ToolkitSymbol)
	if err != nil {
		return nil, err
	}
	lib, err := asLibrary(sym)
	if err != nil {
		return nil, err
	}

	if v, err := syms.Lookup(VersionSymbol); err == nil {
		return withVersion(lib, v), nil
	}
	return lib, nil
}

func asLibrary(sym plugin.Symbol) (Library, error) {
	switch v := sym.(type) {
	case *Library:
		if v == nil || *v == nil {
			return nil, fmt.Errorf("symbol %s is nil", ToolkitSymbol)
		}
		return *v, nil
	case Library:
		return v, nil
	case func() Library:
		lib := v()
		if lib == nil {
			return nil, fmt.Errorf("symbol %s returned nil", ToolkitSymbol)
		}
		return lib, nil
	}
	return nil, fmt.Errorf("symbol %s has type %T, want toolkit.Library", ToolkitSymbol, sym)
}

// withVersion lets a plugin-level Version variable override the library's
// own version. An empty or mistyped variable is ignored.
func withVersion(lib Library, sym plugin.Symbol) Library {
	var v string
	switch s := sym.(type) {
	case *string:
		if s != nil {
			v = *s
		}
	case string:
		v = s
	}
	if v == "" {
		return lib
	}
	return versioned{Library: lib, version: v}
}

type versioned struct {
	Library
	version string
}

func (v versioned) Version() string {
	return v.version
}
