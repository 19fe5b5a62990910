package hooks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Result records one hook run.
type Result struct {
	Hook     Hook
	Phase    HookPhase
	Success  bool
	Stdout   string
	Stderr   string
	Duration time.Duration
	Error    error
}

// Executor runs configured hooks for one export.
type Executor struct {
	config  *Config
	export  ExportContext
	results []Result
}

// NewExecutor creates an executor. A nil config runs nothing.
func NewExecutor(config *Config, export ExportContext) *Executor {
	if config == nil {
		config = &Config{}
	}
	return &Executor{config: config, export: export}
}

// RunPreExport runs pre-export hooks in order and stops at the first failing
// hook whose on_error is fail.
func (e *Executor) RunPreExport() error {
	for _, hook := range e.config.Hooks.PreExport {
		res := e.run(hook, PreExport)
		if !res.Success && hook.OnError == "fail" {
			return fmt.Errorf("pre-export hook %q failed: %w", hook.Name, res.Error)
		}
	}
	return nil
}

// RunPostExport runs every post-export hook and returns the first failure of
// a hook whose on_error is fail.
func (e *Executor) RunPostExport() error {
	var first error
	for _, hook := range e.config.Hooks.PostExport {
		res := e.run(hook, PostExport)
		if !res.Success && hook.OnError == "fail" && first == nil {
			first = fmt.Errorf("post-export hook %q failed: %w", hook.Name, res.Error)
		}
	}
	return first
}

func (e *Executor) run(hook Hook, phase HookPhase) Result {
	timeout := hook.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", hook.Command)
	cmd.Env = append(os.Environ(), e.export.ToEnv()...)
	for k, v := range hook.Env {
		cmd.Env = append(cmd.Env, k+"="+os.ExpandEnv(v))
	}
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	res := Result{
		Hook:     hook,
		Phase:    phase,
		Success:  err == nil,
		Stdout:   strings.TrimSpace(stdout.String()),
		Stderr:   strings.TrimSpace(stderr.String()),
		Duration: time.Since(start),
		Error:    err,
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		res.Success = false
		res.Error = fmt.Errorf("timed out after %s", timeout)
	}
	e.results = append(e.results, res)
	return res
}

// Results returns every hook run so far, in run order.
func (e *Executor) Results() []Result {
	return e.results
}

// Summary is a one-line count plus a line per failed hook.
func (e *Executor) Summary() string {
	if len(e.results) == 0 {
		return ""
	}
	var ok, failed int
	var sb strings.Builder
	for _, r := range e.results {
		if r.Success {
			ok++
			continue
		}
		failed++
		fmt.Fprintf(&sb, "\n  %s %s: %v", r.Phase, r.Hook.Name, r.Error)
		if r.Stderr != "" {
			fmt.Fprintf(&sb, " (%s)", truncate(r.Stderr, 80))
		}
	}
	return fmt.Sprintf("Hooks: %d succeeded, %d failed", ok, failed) + sb.String()
}

// RunHooks loads hooks.yaml from dir and returns an executor, or nil when
// noHooks is set or nothing is configured.
func RunHooks(dir string, export ExportContext, noHooks bool) (*Executor, error) {
	if noHooks {
		return nil, nil
	}
	loader := NewLoader(WithDir(dir))
	if err := loader.Load(); err != nil {
		return nil, err
	}
	if !loader.HasHooks() {
		return nil, nil
	}
	return NewExecutor(loader.Config(), export), nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
