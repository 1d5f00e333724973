// Package proc runs programs on an external `hvm` binary. Each run writes the
// program to a temporary file and evaluates one entry term with
// `hvm run -f <file> <term>`.
package proc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/kind-lang/kindhvm/internal/hvm"
)

var (
	ERR_PROCESS_FAILED = errors.New("hvm process failed")
	ERR_NO_OUTPUT      = errors.New("hvm produced no output")
	ERR_INVALID_HOST   = errors.New("invalid host")
)

const DefaultPath = "hvm"

type Options struct {
	// Path is the hvm executable, looked up in PATH when it has no slash.
	Path string
	// Timeout bounds one run. Zero means no bound.
	Timeout time.Duration
	// Trace receives every output line before the final normal form, which is
	// where `HVM.put` writes.
	Trace io.Writer
}

type Engine struct {
	opts Options
}

func New(opts Options) *Engine {
	if opts.Path == "" {
		opts.Path = DefaultPath
	}
	return &Engine{opts: opts}
}

// Load checks that code parses; the binary itself only sees it on RunIO.
func (e *Engine) Load(code string) (hvm.Runtime, error) {
	if _, err := hvm.ParseFile(code); err != nil {
		return nil, err
	}
	return &Runtime{opts: e.opts, code: code}, nil
}

type Runtime struct {
	opts    Options
	code    string
	entries []string
	results map[hvm.Host]*hvm.Term
}

func (rt *Runtime) AllocCode(code string) (hvm.Host, error) {
	if _, err := hvm.ParseTerm(code); err != nil {
		return 0, err
	}
	rt.entries = append(rt.entries, code)
	return hvm.Host(len(rt.entries) - 1), nil
}

// RunIO runs the binary. The binary normalizes as part of the run, so
// Normalize only has to make sure RunIO happened.
func (rt *Runtime) RunIO(host hvm.Host) error {
	if int(host) >= len(rt.entries) {
		return fmt.Errorf("%w: %d", ERR_INVALID_HOST, host)
	}
	if _, ok := rt.results[host]; ok {
		return nil
	}

	output, err := rt.run(rt.entries[host])
	if err != nil {
		return err
	}
	term, err := rt.parseOutput(output)
	if err != nil {
		return err
	}
	if rt.results == nil {
		rt.results = make(map[hvm.Host]*hvm.Term)
	}
	rt.results[host] = term
	return nil
}

func (rt *Runtime) Normalize(host hvm.Host) error {
	return rt.RunIO(host)
}

func (rt *Runtime) Readback(host hvm.Host) (*hvm.Term, error) {
	term, ok := rt.results[host]
	if !ok {
		return nil, fmt.Errorf("%w: %d was never run", ERR_INVALID_HOST, host)
	}
	return term, nil
}

func (rt *Runtime) run(entry string) (string, error) {
	file, err := os.CreateTemp("", "kindhvm-*.hvm")
	if err != nil {
		return "", err
	}
	defer os.Remove(file.Name())

	if _, err := file.WriteString(rt.code); err != nil {
		file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", err
	}

	ctx := context.Background()
	if rt.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, rt.opts.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, rt.opts.Path, "run", "-f", file.Name(), entry)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %v after %s", ERR_PROCESS_FAILED, ctx.Err(), rt.opts.Timeout)
		}
		return "", fmt.Errorf("%w: %w: %v: %s", ERR_PROCESS_FAILED, hvm.ERR_REJECTED, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// parseOutput reads the normal form from the last non-empty line and hands
// the lines before it to the trace.
func (rt *Runtime) parseOutput(output string) (*hvm.Term, error) {
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	last := -1
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.TrimSpace(lines[i]) != "" {
			last = i
			break
		}
	}
	if last < 0 {
		return nil, ERR_NO_OUTPUT
	}

	if rt.opts.Trace != nil {
		for _, line := range lines[:last] {
			if _, err := io.WriteString(rt.opts.Trace, line+"\n"); err != nil {
				return nil, err
			}
		}
	}
	return hvm.ParseTerm(strings.TrimSpace(lines[last]))
}
