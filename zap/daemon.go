package zap

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"zapline/wait"
)

// DefaultCommand is the engine launcher looked up on PATH when no explicit
// command is configured.
const DefaultCommand = "zap.sh"

// readyInterval is the sleep between readiness probes.
const readyInterval = 2 * time.Second

// Daemon is a scan-engine process owned by this run. The API key is
// disabled on launch, so the daemon must only ever bind locally.
type Daemon struct {
	Port int

	cmd    *exec.Cmd
	client *Client
}

// StartDaemon spawns the engine in daemon mode on the given port. The
// returned Daemon must be stopped with Stop on every exit path.
func StartDaemon(command string, port int) (*Daemon, error) {
	if len(command) == 0 {
		command = DefaultCommand
	}

	cmd := exec.Command(command,
		"-daemon",
		"-port", strconv.Itoa(port),
		"-config", "api.disablekey=true",
	)
	if err := cmd.Start(); err != nil {
		return nil, &StartError{Err: err}
	}

	logrus.Debugf("engine started: %s (pid %d)", command, cmd.Process.Pid)
	return &Daemon{
		Port:   port,
		cmd:    cmd,
		client: NewClient(fmt.Sprintf("http://localhost:%d", port)),
	}, nil
}

// Client returns a control-API client bound to this daemon.
func (d *Daemon) Client() *Client {
	return d.client
}

// WaitReady polls the version endpoint every 2s until the engine answers
// or timeout elapses. It returns false on timeout rather than an error so
// callers can fail fast with a clear exit status.
func (d *Daemon) WaitReady(ctx context.Context, timeout time.Duration) bool {
	cfg := wait.Config{Interval: readyInterval, Deadline: timeout}
	err := wait.Until(ctx, cfg, func(ctx context.Context) (bool, error) {
		if _, err := d.client.Version(ctx); err != nil {
			logrus.Debugf("engine not ready yet: %v", err)
			return false, nil
		}
		return true, nil
	})
	return err == nil
}

// Stop signals the engine process to terminate and waits for it to exit.
// Safe to call on a daemon whose process already exited.
func (d *Daemon) Stop() error {
	if d.cmd == nil || d.cmd.Process == nil {
		return nil
	}
	if err := d.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		logrus.Debugf("engine signal failed: %v", err)
	}
	if err := d.cmd.Wait(); err != nil {
		// SIGTERM exits are expected; anything else is only worth a log line.
		logrus.Debugf("engine exited: %v", err)
	}
	return nil
}
