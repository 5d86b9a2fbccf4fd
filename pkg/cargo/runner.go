package cargo

import (
	"bytes"
	"errors"
	"os/exec"
)

type invocation struct {
	success bool
	stdout  []byte
	stderr  []byte
}

type runner interface {
	run(name string, args ...string) (invocation, error)
}

// execRunner runs the tool as a child process and waits for it to exit.
type execRunner struct{}

func (execRunner) run(name string, args ...string) (invocation, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.Command(name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		if _, ok := errors.AsType[*exec.ExitError](err); ok {
			return invocation{
				success: false,
				stdout:  stdout.Bytes(),
				stderr:  stderr.Bytes(),
			}, nil
		}

		return invocation{}, err
	}

	return invocation{
		success: true,
		stdout:  stdout.Bytes(),
		stderr:  stderr.Bytes(),
	}, nil
}
