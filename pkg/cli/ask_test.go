package cli

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/harrisonrobin/cuppa/pkg/aggregate"
	"github.com/harrisonrobin/cuppa/pkg/dispatch"
)

func testDispatcher() *dispatch.Dispatcher {
	// The loop-exit paths under test never reach the workspace.
	return dispatch.New(aggregate.New(nil, nil), "")
}

func TestInteractiveLoopQuitWords(t *testing.T) {
	for _, word := range []string{"quit", "exit", "bye", "q", "QUIT", "  exit  "} {
		err := interactiveLoop(testDispatcher(), strings.NewReader(word+"\n"), nil)
		if err != nil {
			t.Errorf("interactiveLoop(%q) = %v, want clean return", word, err)
		}
	}
}

func TestInteractiveLoopEOF(t *testing.T) {
	if err := interactiveLoop(testDispatcher(), strings.NewReader(""), nil); err != nil {
		t.Errorf("interactiveLoop at EOF = %v, want nil", err)
	}
}

// An interrupt must return from the loop rather than kill the process, so
// the caller's deferred cache flush still happens.
func TestInteractiveLoopInterrupt(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	defer pr.Close()

	interrupt := make(chan os.Signal, 1)
	interrupt <- os.Interrupt

	done := make(chan error, 1)
	go func() {
		done <- interactiveLoop(testDispatcher(), pr, interrupt)
	}()

	if err := <-done; err != nil {
		t.Errorf("interactiveLoop on interrupt = %v, want nil", err)
	}
}
