package cli

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verolang/verogen/internal/debugctl"
	"github.com/verolang/verogen/internal/ui"
)

var debugBreakpoints []int

var debugCmd = &cobra.Command{
	Use:   "debug -- <command> [args...]",
	Short: "Run a generated test under the step debugger",
	Long: `Starts the given test runner command and attaches to its stepper
protocol. Tests must have been generated with debug instrumentation enabled.

Interactive commands: resume, step, stop, break <line...>.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := loadConfig(); err != nil {
			return err
		}
		return runDebug(args)
	},
}

func init() {
	debugCmd.Flags().IntSliceVarP(&debugBreakpoints, "break", "b", nil, "initial breakpoint lines")
	rootCmd.AddCommand(debugCmd)
}

func runDebug(args []string) error {
	proc := exec.Command(args[0], args[1:]...)
	proc.Stderr = os.Stderr

	stdin, err := proc.StdinPipe()
	if err != nil {
		return fmt.Errorf("failed to open stdin pipe: %w", err)
	}
	stdout, err := proc.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to open stdout pipe: %w", err)
	}

	if err := proc.Start(); err != nil {
		return fmt.Errorf("failed to start test runner: %w", err)
	}

	session := debugctl.Attach(stdin, stdout)
	log.WithField("session", session.ID).Debug("Debug session attached")

	if len(debugBreakpoints) > 0 {
		if err := session.SetBreakpoints(debugBreakpoints); err != nil {
			return err
		}
	}

	go readDebugCommands(session)

	for ev := range session.Events() {
		switch ev.Kind {
		case debugctl.EventStepBefore:
			ui.StepLine(os.Stdout, ev.Line, ev.Statement, ev.Target)
		case debugctl.EventStepAfter:
			ui.StatusLine(os.Stdout, ev.Line, ev.Status, ev.Error)
		case debugctl.EventPaused:
			ui.PausedLine(os.Stdout, ev.Line)
		case debugctl.EventVariable:
			ui.VariableLine(os.Stdout, ev.Name, ev.Value)
		}
	}

	return proc.Wait()
}

// readDebugCommands translates terminal input into stepper commands until
// the terminal stream ends.
func readDebugCommands(session *debugctl.Session) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		var err error
		switch fields[0] {
		case "resume", "r":
			err = session.Resume()
		case "step", "s":
			err = session.Step()
		case "stop", "q":
			err = session.Stop()
		case "break", "b":
			var lines []int
			for _, field := range fields[1:] {
				n, convErr := strconv.Atoi(field)
				if convErr != nil {
					fmt.Fprintf(os.Stderr, "invalid breakpoint line %q\n", field)
					continue
				}
				lines = append(lines, n)
			}
			err = session.SetBreakpoints(lines)
		default:
			fmt.Fprintf(os.Stderr, "unknown command %q (resume, step, stop, break)\n", fields[0])
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to send command: %v\n", err)
		}
	}
}
