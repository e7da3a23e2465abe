package providers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/httpclient"
	"github.com/Ramsey-B/clover/pkg/metrics"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// RunnerConfig points at an optional remote command runner and SSH target.
type RunnerConfig struct {
	RunnerURL   string
	RunnerToken string
	SSHHost     string
	SSHUser     string
	SSHPort     int
}

// RemoteRunner executes shell commands through an external runner service.
// Without a runner URL every call is a dry run that reports the would-be
// command without executing anything.
type RemoteRunner struct {
	hc     *httpclient.Client
	cfg    RunnerConfig
	logger ectologger.Logger
}

// NewRemoteRunner creates a new remote command runner client
func NewRemoteRunner(hc *httpclient.Client, cfg RunnerConfig, logger ectologger.Logger) *RemoteRunner {
	if cfg.SSHUser == "" {
		cfg.SSHUser = "root"
	}
	if cfg.SSHPort == 0 {
		cfg.SSHPort = 22
	}
	return &RemoteRunner{
		hc:     hc,
		cfg:    cfg,
		logger: logger,
	}
}

// CommandResult is the outcome of a remote command.
type CommandResult struct {
	Command  string `json:"command"`
	DryRun   bool   `json:"dryRun"`
	ExitCode int    `json:"exitCode"`
	Stdout   string `json:"stdout,omitempty"`
	Stderr   string `json:"stderr,omitempty"`
}

// Execute runs a command through the configured runner. With an SSH host the
// command is wrapped in an ssh invocation first.
func (r *RemoteRunner) Execute(ctx context.Context, command, shell string) (*CommandResult, error) {
	ctx, span := tracing.StartSpan(ctx, "RemoteRunner.Execute")
	defer span.End()

	if strings.TrimSpace(command) == "" {
		return nil, httperror.NewHTTPError(http.StatusBadRequest, "command is required for execute_remote_command")
	}
	if shell == "" {
		shell = "bash"
	}

	effective := command
	if r.cfg.SSHHost != "" {
		escaped := strings.ReplaceAll(command, `"`, `\"`)
		effective = fmt.Sprintf(`ssh -p %d %s@%s "%s"`, r.cfg.SSHPort, r.cfg.SSHUser, r.cfg.SSHHost, escaped)
	}

	if r.cfg.RunnerURL == "" {
		return &CommandResult{Command: effective, DryRun: true}, nil
	}

	headers := map[string]string{}
	if r.cfg.RunnerToken != "" {
		headers["Authorization"] = "Bearer " + r.cfg.RunnerToken
	}

	resp, err := r.hc.PostJSON(ctx, r.cfg.RunnerURL, headers, map[string]any{
		"command": effective,
		"shell":   shell,
		"sshHost": r.cfg.SSHHost,
	})
	if resp != nil {
		metrics.RecordHTTPRequest("remote_runner", strconv.Itoa(resp.StatusCode), resp.Duration.Seconds())
	}
	if err != nil {
		return nil, err
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("remote runner failed (%d)", resp.StatusCode)
	}

	var body struct {
		ExitCode int    `json:"exitCode"`
		Stdout   string `json:"stdout"`
		Stderr   string `json:"stderr"`
	}
	if err := resp.DecodeJSON(&body); err != nil {
		return nil, err
	}

	return &CommandResult{
		Command:  effective,
		ExitCode: body.ExitCode,
		Stdout:   body.Stdout,
		Stderr:   body.Stderr,
	}, nil
}
