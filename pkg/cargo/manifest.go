// Package cargo retrieves the Cargo manifest path of the surrounding crate by
// parsing the output of `cargo locate-project`.
package cargo

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

const (
	// DefaultTool is the executable run when no override is configured.
	DefaultTool = "cargo"
	// ToolEnvVar names the environment variable overriding DefaultTool.
	ToolEnvVar = "CARGO"

	locateProjectSubcommand = "locate-project"
)

// ManifestLocator is implemented by anything that can find a Cargo manifest.
type ManifestLocator interface {
	Locate() (string, error)
	LocateDir() (string, error)
}

// Locator runs `cargo locate-project` and extracts the manifest path from
// its output. The zero value is ready to use.
type Locator struct {
	// Tool, when set, takes precedence over the CARGO environment variable.
	Tool string

	runner runner
	getenv func(string) string
}

// NewLocator initializes a Locator that runs the given tool, or the
// environment/default tool when tool is empty.
func NewLocator(tool string) *Locator {
	return &Locator{
		Tool:   tool,
		runner: execRunner{},
		getenv: os.Getenv,
	}
}

// LocateManifest returns the Cargo manifest path of the surrounding crate.
func LocateManifest() (string, error) {
	return NewLocator("").Locate()
}

// ResolveTool returns the executable to run: override if non-empty, then the
// CARGO environment variable if non-empty, then DefaultTool.
func ResolveTool(override string) string {
	return resolveTool(override, os.Getenv)
}

func resolveTool(override string, getenv func(string) string) string {
	return lo.CoalesceOrEmpty(override, getenv(ToolEnvVar), DefaultTool)
}

// Locate runs the tool once and returns the "root" field of its JSON output
// exactly as reported.
func (l *Locator) Locate() (string, error) {
	getenv := l.getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	var r runner = execRunner{}
	if l.runner != nil {
		r = l.runner
	}

	out, err := r.run(resolveTool(l.Tool, getenv), locateProjectSubcommand)
	if err != nil {
		return "", &Error{Kind: KindIo, Err: err}
	}

	if !out.success {
		return "", &Error{Kind: KindCargoExecution, Stderr: out.stderr}
	}

	text, err := decodeOutput(out.stdout)
	if err != nil {
		return "", &Error{Kind: KindStringConversion, Err: err}
	}

	var parsed any
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return "", &Error{Kind: KindParseJSON, Err: err}
	}

	object, _ := parsed.(map[string]any)
	root, ok := object["root"].(string)
	if !ok {
		return "", &Error{Kind: KindNoRoot}
	}

	return root, nil
}

// LocateDir returns the directory containing the located manifest.
func (l *Locator) LocateDir() (string, error) {
	manifest, err := l.Locate()
	if err != nil {
		return "", err
	}

	return filepath.Dir(manifest), nil
}

func decodeOutput(stdout []byte) (string, error) {
	decoded, n, err := transform.Bytes(encoding.UTF8Validator, stdout)
	if err != nil {
		if !errors.Is(err, encoding.ErrInvalidUTF8) {
			return "", err
		}

		return "", &UTF8Error{Output: stdout, Offset: n, Err: err}
	}

	return string(decoded), nil
}
