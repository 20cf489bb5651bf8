package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/harrisonrobin/cuppa/pkg/dispatch"
	"github.com/harrisonrobin/cuppa/pkg/nlp"
	"github.com/harrisonrobin/cuppa/pkg/render"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask in plain English, or start an interactive session",
	Long: `ask classifies a plain-English request and runs it.

With arguments it answers once and exits:
  cuppa ask show my overdue tasks

With no arguments it starts an interactive loop.`,
	RunE: runAsk,
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	d := dispatch.New(a.agg, a.settings.DefaultTeam)

	if len(args) > 0 {
		return answer(d, strings.Join(args, " "))
	}
	return interactive(d)
}

// answer runs one utterance end to end: classify, dispatch, render.
func answer(d *dispatch.Dispatcher, utterance string) error {
	intent, params := nlp.Classify(utterance)
	fmt.Printf("Processing: %s...\n\n", intent.Title())

	res, err := d.Dispatch(intent, params)
	if err != nil {
		return err
	}
	renderResult(res)
	return nil
}

// quit words end the interactive session.
var quitWords = map[string]bool{
	"quit": true,
	"exit": true,
	"bye":  true,
	"q":    true,
}

func interactive(d *dispatch.Dispatcher) error {
	// Ctrl+C is a normal way to leave the loop, not a failure.
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)
	return interactiveLoop(d, os.Stdin, interrupt)
}

// interactiveLoop reads utterances until EOF, a quit word, or an
// interrupt. Every exit path returns normally so the caller's deferred
// cleanup (the user cache flush) still runs.
func interactiveLoop(d *dispatch.Dispatcher, in io.Reader, interrupt <-chan os.Signal) error {
	lines := make(chan string)
	scanDone := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		scanDone <- scanner.Err()
	}()

	fmt.Println("cuppa interactive mode. Ask about your tasks in plain English.")
	fmt.Println("Type 'help' for what I understand, or 'quit' to leave.")
	fmt.Println()

	for {
		fmt.Print("> ")
		select {
		case <-interrupt:
			fmt.Println("\nGoodbye!")
			return nil
		case err := <-scanDone:
			fmt.Println("\nGoodbye!")
			return err
		case raw := <-lines:
			line := strings.TrimSpace(raw)
			if line == "" {
				continue
			}
			if quitWords[strings.ToLower(line)] {
				fmt.Println("Goodbye!")
				return nil
			}
			if err := answer(d, line); err != nil {
				fmt.Fprintln(os.Stderr, "Error:", err)
			}
			fmt.Println()
		}
	}
}

// renderResult prints one dispatch result. Warnings go to the log stream
// so piped output stays clean.
func renderResult(res *dispatch.Result) {
	logWarnings(res.Warnings)

	switch {
	case res.Message != "":
		fmt.Println(res.Message)

	case res.Teams != nil:
		fmt.Print(render.Teams(res.Teams))

	case res.User != nil:
		fmt.Print(render.Whoami(res.User))

	case res.Report != nil:
		r := res.Report
		if r.Total == 0 {
			fmt.Println("No tasks found.")
			return
		}
		if res.SummaryOnly {
			fmt.Print(render.Summary(r))
			return
		}
		now := time.Now()
		if res.Username != "" {
			fmt.Printf("Found %d task(s) for %s:\n\n", r.Total, res.Username)
		} else {
			fmt.Printf("Found %d task(s):\n\n", r.Total)
		}
		if res.Detailed {
			fmt.Println(render.DetailedTable(r.Tasks, now))
		} else {
			fmt.Println(render.TaskTable(r.Tasks, now))
		}
		fmt.Print(render.Summary(r))

	default:
		fmt.Println("No tasks found.")
	}
}
