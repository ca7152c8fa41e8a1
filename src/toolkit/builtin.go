package toolkit

// version is stamped at build time:
//
//	go build -ldflags "-X SDGDashboard/src/toolkit.version=1.2.3"
var version string

type builtin struct{}

func (builtin) Version() string {
	return version
}

func (builtin) NewBaseBlock(name string) (BaseBlock, error) {
	return NewBaseBlock(name)
}

// Builtin loads the toolkit linked into this binary.
func Builtin() Loader {
	return func() (Library, error) {
		return builtin{}, nil
	}
}
