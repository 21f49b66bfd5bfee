// ABOUTME: Read-eval loop for the text command interface
// ABOUTME: Outputs go to stdout, error messages to stderr; failures never stop the loop

package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nainya/txkv/internal/logger"
	"github.com/nainya/txkv/internal/metrics"
	"github.com/nainya/txkv/pkg/command"
)

// Store is the store driven by the handler
type Store interface {
	command.Store
	Depth() int
	Len() int
}

// Handler executes command lines against one store and reports the outcome
type Handler struct {
	store   Store
	log     *logger.Logger
	metrics *metrics.Metrics
	out     io.Writer
	errOut  io.Writer
}

// NewHandler creates a handler writing results to out and errors to errOut
func NewHandler(store Store, log *logger.Logger, m *metrics.Metrics, out, errOut io.Writer) *Handler {
	return &Handler{
		store:   store,
		log:     log.Component("terminal"),
		metrics: m,
		out:     out,
		errOut:  errOut,
	}
}

// HandleInput executes one line. Errors are printed, not returned.
func (h *Handler) HandleInput(line string) {
	start := time.Now()
	cmd, res, err := command.Run(h.store, line)
	duration := time.Since(start)

	name := "INVALID"
	if cmd != nil {
		name = command.Name(cmd)
	}

	status := "success"
	if err != nil {
		status = "error"
	}
	h.metrics.RecordCommand(name, status, duration)
	h.metrics.UpdateStoreStats(h.store.Depth(), h.store.Len())
	h.log.LogCommand(name, h.store.Depth(), duration, err)

	if err != nil {
		fmt.Fprintln(h.errOut, command.Message(err))
		return
	}
	if res.Output != "" {
		fmt.Fprintln(h.out, res.Output)
	}
}

// Run prints prompt and then handles lines from in until EXIT, end of
// input, or ctx is cancelled. Cancellation is observed between lines.
// Lines have no length limit.
func (h *Handler) Run(ctx context.Context, in io.Reader, prompt string) error {
	if prompt != "" {
		fmt.Fprintln(h.out, prompt)
	}

	reader := bufio.NewReader(in)
	for {
		line, readErr := reader.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return fmt.Errorf("read input: %w", readErr)
		}
		if readErr == io.EOF && line == "" {
			return nil
		}

		if err := ctx.Err(); err != nil {
			return err
		}

		line = strings.TrimRight(line, "\r\n")
		if command.IsExit(line) {
			h.log.Info("Exit requested").Send()
			return nil
		}
		h.HandleInput(line)

		if readErr == io.EOF {
			return nil
		}
	}
}
