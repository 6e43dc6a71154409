package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"volumectl/internal/logging"
)

func newShellCmd() *cobra.Command {
	var prompt string
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive shell for the subcommands",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractiveShell(prompt)
		},
	}
	cmd.Flags().StringVar(&prompt, "prompt", "volume> ", "shell prompt")
	return cmd
}

func runInteractiveShell(prompt string) error {
	historyFile := filepath.Join(os.TempDir(), "volumectl-shell.history")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return err
	}
	defer rl.Close()

	session := shellSession{
		verbosity: verbosity,
		config:    cfgPath,
		backend:   backendFlag,
		stream:    streamFlag,
	}
	fmt.Println("Interactive shell. Type 'help' for usage, 'exit' to quit.")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			fmt.Println()
			continue
		}
		if err == io.EOF {
			fmt.Println()
			return nil
		}
		if done := session.handleLine(line, os.Stdout); done {
			return nil
		}
	}
}

// shellSession carries the root flags across shell commands.
type shellSession struct {
	verbosity int
	config    string
	backend   string
	stream    string
}

// handleLine runs one shell line and reports whether the shell should exit.
func (s *shellSession) handleLine(line string, out io.Writer) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	switch line {
	case "exit", "quit":
		fmt.Fprintln(out, "Bye!")
		return true
	case "help":
		printShellHelp(out)
		return false
	}
	tokens, err := shlex.Split(line)
	if err != nil {
		fmt.Fprintf(out, "Parse error: %v\n", err)
		return false
	}
	if len(tokens) == 0 {
		return false
	}
	switch tokens[0] {
	case "log":
		if err := s.handleLog(tokens[1:], out); err != nil {
			fmt.Fprintf(out, "log: %v\n", err)
		}
		return false
	case "shell":
		fmt.Fprintln(out, "Already in the shell. Enter another command or 'exit'.")
		return false
	}

	if err := s.execute(tokens, out); err != nil {
		fmt.Fprintf(out, "command error: %v\n", err)
	}
	return false
}

// execute runs tokens on a fresh root command carrying the session flags.
func (s *shellSession) execute(tokens []string, out io.Writer) error {
	root := NewRootCmd()
	args := []string{"--config", s.config}
	if s.backend != "" {
		args = append(args, "--backend", s.backend)
	}
	if s.stream != "" {
		args = append(args, "--stream", s.stream)
	}
	if s.verbosity > 0 {
		args = append(args, "-"+strings.Repeat("v", s.verbosity))
	}
	// Session flags go first so a "--" in tokens still ends flag parsing.
	root.SetArgs(append(args, tokens...))
	root.SetOut(out)
	root.SetErr(out)
	return root.Execute()
}

func (s *shellSession) handleLog(args []string, out io.Writer) error {
	fs := pflag.NewFlagSet("log", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var vcount int
	var level string
	var show bool
	fs.CountVarP(&vcount, "verbose", "v", "Increase verbosity (-v... up to 4)")
	fs.StringVar(&level, "level", "", "level (error|warn|info|debug|trace)")
	fs.BoolVarP(&show, "show", "s", false, "show the current level")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case show && vcount == 0 && level == "":
		fmt.Fprintf(out, "log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	case level != "":
		_, count, err := logging.ParseLevel(level)
		if err != nil {
			return err
		}
		s.verbosity = count
	case vcount > 0:
		s.verbosity = vcount
	default:
		fmt.Fprintf(out, "log level: %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
		return nil
	}

	logging.SetVerbosity(s.verbosity)
	fmt.Fprintf(out, "log level set to %s (-v x%d)\n", logging.LevelName(), logging.Verbosity())
	return nil
}

func printShellHelp(out io.Writer) {
	fmt.Fprintln(out, `Examples:
  get                         # current volume
  set 0.4                     # set volume to 40%
  muted                       # mute check (below 10%)
  info                        # combined snapshot
  exec setVolume '[0.25]'     # raw bridge call
  serve --addr 0.0.0.0:7070   # HTTP/WebSocket bridge
  config get                  # show settings
  log -vv                     # more logging
  log --show                  # current log level
  exit / quit                 # leave the shell`)
}
