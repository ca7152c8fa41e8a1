package main

import (
	"fmt"
	"slices"
	"strings"

	goerrors "github.com/go-errors/errors"

	"SDGDashboard/src/toolkit"
)

const (
	libraryName   = "sdg_hub"
	noOpBlockName = "noop_block"

	markOK   = "✅"
	markFail = "❌"
)

// SmokeOutcome is the terminal state of one smoke test run.
type SmokeOutcome int

const (
	SmokeSkipped SmokeOutcome = iota
	SmokePassed
	SmokeFailed
)

func (o SmokeOutcome) String() string {
	switch o {
	case SmokeSkipped:
		return "skipped"
	case SmokePassed:
		return "passed"
	case SmokeFailed:
		return "failed"
	}
	return fmt.Sprintf("SmokeOutcome(%d)", int(o))
}

// SmokeResult is the outcome of RunSmokeTest. It is turned into text only by
// Report.
type SmokeResult struct {
	Outcome SmokeOutcome

	// ImportDetail is set when the run was skipped.
	ImportDetail string

	Input  *toolkit.Batch
	Output *toolkit.Batch

	// Err carries the failure and the stack it was raised on.
	Err *goerrors.Error
}

func (r SmokeResult) Report() string {
	switch r.Outcome {
	case SmokeSkipped:
		return markFail + " Cannot run smoke test because " + libraryName + " failed to import.\n\n" +
			"Import error: " + r.ImportDetail
	case SmokePassed:
		return markOK + " Smoke test PASSED\n\n" +
			"Created and executed a simple NoOpBlock from " + libraryName + ".\n\n" +
			"Input batch:  " + r.Input.String() + "\n" +
			"Output batch: " + r.Output.String()
	}
	return markFail + " Smoke test FAILED\n\n" +
		"Error: " + r.errorText() + "\n\n" +
		"Traceback:\n" + r.trace()
}

func (r SmokeResult) errorText() string {
	if r.Err == nil {
		return "unknown error"
	}
	return r.Err.Error()
}

func (r SmokeResult) trace() string {
	if r.Err == nil {
		return "(no trace captured)"
	}
	return r.Err.ErrorStack()
}

// DiagnosticService answers the two dashboard questions: did the toolkit
// load, and can it run a block.
type DiagnosticService struct {
	probe ImportProbe
}

func NewDiagnosticService(probe ImportProbe) *DiagnosticService {
	return &DiagnosticService{probe: probe}
}

func (s *DiagnosticService) Probe() ImportProbe {
	return s.probe
}

func (s *DiagnosticService) Status() string {
	if !s.probe.Loaded {
		return markFail + " " + libraryName + " import FAILED\n\n" +
			"Details: " + s.probe.Detail + "\n\n" +
			"Check that the container has sdg-hub installed."
	}

	msg := []string{
		markOK + " " + libraryName + " import OK",
		"Version: " + s.probe.Detail,
		"",
		"You can now run the smoke test below to confirm SDG Hub can do basic work.",
	}
	return strings.Join(msg, "\n")
}

func (s *DiagnosticService) SmokeTest() string {
	return s.RunSmokeTest().Report()
}

// RunSmokeTest builds a no-op block from the loaded toolkit and pushes the
// sample batch through it. It never panics.
func (s *DiagnosticService) RunSmokeTest() SmokeResult {
	if !s.probe.Loaded {
		return SmokeResult{Outcome: SmokeSkipped, ImportDetail: s.probe.Detail}
	}

	input, output, err := runNoOp(s.probe.lib)
	if err != nil {
		return SmokeResult{Outcome: SmokeFailed, Input: input, Err: err}
	}
	return SmokeResult{Outcome: SmokePassed, Input: input, Output: output}
}

func runNoOp(lib toolkit.Library) (input, output *toolkit.Batch, err *goerrors.Error) {
	defer func() {
		if r := recover(); r != nil {
			output = nil
			err = goerrors.Wrap(r, 2)
		}
	}()

	base, e := lib.NewBaseBlock(noOpBlockName)
	if e != nil {
		return nil, nil, goerrors.Wrap(e, 0)
	}
	var block toolkit.Block = noOpBlock{BaseBlock: base}

	input = sampleBatch()
	output, e = block.Forward(input)
	if e != nil {
		return input, nil, goerrors.Wrap(e, 0)
	}
	if e := checkPassthrough(input, output); e != nil {
		return input, output, goerrors.Wrap(e, 0)
	}
	return input, output, nil
}

// checkPassthrough fails when a no-op block changed the batch it was given.
func checkPassthrough(in, out *toolkit.Batch) error {
	if out.Len() != in.Len() {
		return fmt.Errorf("%s returned %d columns, want %d", noOpBlockName, out.Len(), in.Len())
	}
	for _, key := range in.Keys() {
		want, _ := in.Get(key)
		got, ok := out.Get(key)
		if !ok {
			return fmt.Errorf("%s dropped column %q", noOpBlockName, key)
		}
		if !slices.Equal(got, want) {
			return fmt.Errorf("%s changed column %q", noOpBlockName, key)
		}
	}
	return nil
}

func sampleBatch() *toolkit.Batch {
	b := toolkit.NewBatch()
	b.Set("text", "hello sdg_hub", "this is a test")
	return b
}

// noOpBlock returns its input unchanged.
type noOpBlock struct {
	toolkit.BaseBlock
}

func (noOpBlock) Forward(batch *toolkit.Batch) (*toolkit.Batch, error) {
	return batch, nil
}
