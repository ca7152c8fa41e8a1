package main

import (
	"errors"
	"fmt"

	"SDGDashboard/src/toolkit"
)

const unknownVersion = "unknown"

// ImportProbe records whether the toolkit loaded at startup. Detail holds
// the version when Loaded and the failure otherwise; it is never empty.
type ImportProbe struct {
	Loaded bool
	Detail string

	lib toolkit.Library
}

// initializeProbe runs load once and converts every failure, panics
// included, into an unloaded probe.
func initializeProbe(load toolkit.Loader) (probe ImportProbe) {
	defer func() {
		if r := recover(); r != nil {
			probe = failedProbe(fmt.Errorf("%v", r))
		}
	}()

	if load == nil {
		return failedProbe(errors.New("no toolkit loader configured"))
	}
	lib, err := load()
	if err != nil {
		return failedProbe(err)
	}
	if lib == nil {
		return failedProbe(errors.New("toolkit loader returned no library"))
	}

	v := lib.Version()
	if v == "" {
		v = unknownVersion
	}
	return ImportProbe{Loaded: true, Detail: v, lib: lib}
}

func failedProbe(err error) ImportProbe {
	return ImportProbe{Detail: "import failed: " + err.Error()}
}
