package toolchain

import (
	"context"
	"fmt"
)

// fakeRunner records invocations and replies from a scripted table keyed by
// command name, so tool wrappers can be tested without real binaries.
type fakeRunner struct {
	calls   []Command
	replies map[string]Result
	errs    map[string]error
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		replies: make(map[string]Result),
		errs:    make(map[string]error),
	}
}

func (f *fakeRunner) Run(_ context.Context, cmd Command) (Result, error) {
	f.calls = append(f.calls, cmd)
	key := fmt.Sprintf("%s %v", cmd.Name, cmd.Args)
	if err, ok := f.errs[key]; ok {
		return Result{}, err
	}
	if res, ok := f.replies[key]; ok {
		return res, nil
	}
	return Result{}, nil
}

func (f *fakeRunner) reply(name string, args []string, res Result) {
	f.replies[fmt.Sprintf("%s %v", name, args)] = res
}

func (f *fakeRunner) fail(name string, args []string, err error) {
	f.errs[fmt.Sprintf("%s %v", name, args)] = err
}
