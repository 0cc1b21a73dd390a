package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// InterruptHandler stops a document batch on SIGINT or SIGTERM and reports
// how far it got. Documents written before the signal stay on disk.
type InterruptHandler struct {
	writer      io.Writer
	signals     chan os.Signal
	total       int
	done        int
	interrupted bool
	mu          sync.Mutex
}

// NewInterruptHandler creates a handler that reports to writer, or stderr
// when writer is nil.
func NewInterruptHandler(writer io.Writer) *InterruptHandler {
	if writer == nil {
		writer = os.Stderr
	}
	return &InterruptHandler{
		writer:  writer,
		signals: make(chan os.Signal, 1),
	}
}

// HandleInterrupts returns a context canceled by the first signal. Signal
// handling stops once the parent context is done.
func (h *InterruptHandler) HandleInterrupts(ctx context.Context) context.Context {
	ctx, cancel := context.WithCancel(ctx)
	signal.Notify(h.signals, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(h.signals)
		select {
		case <-h.signals:
			h.mu.Lock()
			h.interrupted = true
			msg := h.message()
			h.mu.Unlock()
			_, _ = fmt.Fprint(h.writer, msg)
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx
}

// Expect sets the batch size shown in the interrupt message.
func (h *InterruptHandler) Expect(total int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.total = total
}

// Done records one finished document.
func (h *InterruptHandler) Done() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.done++
}

// WasInterrupted reports whether a signal arrived.
func (h *InterruptHandler) WasInterrupted() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.interrupted
}

func (h *InterruptHandler) message() string {
	msg := "\n\n" + FormatWarning("Interrupted!")
	if h.total > 0 {
		msg += "\n" + FormatInfo(fmt.Sprintf("%d of %d documents were written and kept. Rerun with --index to finish the rest.", h.done, h.total))
	}
	return msg + "\n"
}
