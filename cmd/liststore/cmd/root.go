// Package cmd implements the liststore CLI commands.
//
// The command structure follows standard Go CLI patterns with a root command
// that dispatches to subcommands (replay, render, watch).
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-drift/liststore/cmd/liststore/internal/config"
	"github.com/go-drift/liststore/pkg/errors"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// Command represents a CLI command.
type Command struct {
	Name  string
	Short string
	Long  string
	Usage string
	Run   func(args []string) error
}

var rootCmd = &Command{
	Name:  "liststore",
	Short: "liststore - replay list diffs against a typed list store",
	Long: `liststore replays scripts of list diffs (set, append, move_up,
move_down) against a typed list store and shows the change notifications
a list view bound to the store would receive.

Use "liststore <command> --help" for more information about a command.`,
	Usage: "liststore <command> [flags]",
}

var (
	commands = make(map[string]*Command)
	order    []*Command

	// stdout receives command output. Tests replace it.
	stdout io.Writer = os.Stdout

	// configDir overrides the project root used to resolve liststore.yaml.
	configDir string
)

// RegisterCommand adds a command to the CLI.
func RegisterCommand(cmd *Command) {
	commands[cmd.Name] = cmd
	order = append(order, cmd)
}

// Execute runs the CLI with the given arguments.
func Execute(args []string) error {
	if len(args) == 0 {
		printHelp(rootCmd)
		return nil
	}

	// Handle global flags and extract --config-dir
	var filteredArgs []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-h", "--help", "help":
			if len(filteredArgs) == 0 {
				printHelp(rootCmd)
				return nil
			}
			filteredArgs = append(filteredArgs, arg)
		case "-v", "--version", "version":
			if len(filteredArgs) == 0 {
				fmt.Fprintf(stdout, "liststore version %s (built %s)\n", Version, BuildTime)
				return nil
			}
			filteredArgs = append(filteredArgs, arg)
		case "--config-dir":
			if i+1 >= len(args) {
				return fmt.Errorf("--config-dir requires a directory path")
			}
			configDir = args[i+1]
			i++
		default:
			if strings.HasPrefix(arg, "--config-dir=") {
				configDir = strings.TrimPrefix(arg, "--config-dir=")
				continue
			}
			filteredArgs = append(filteredArgs, arg)
		}
	}
	args = filteredArgs

	if len(args) == 0 {
		printHelp(rootCmd)
		return nil
	}

	cmdName := args[0]
	cmd, ok := commands[cmdName]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", cmdName)
		printHelp(rootCmd)
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	cmdArgs := args[1:]
	for _, arg := range cmdArgs {
		if arg == "-h" || arg == "--help" || arg == "help" {
			printCommandHelp(cmd)
			return nil
		}
	}

	return cmd.Run(cmdArgs)
}

// resolveConfig resolves liststore.yaml for the current project and
// applies its logging settings.
func resolveConfig() (*config.Resolved, error) {
	root := configDir
	if root == "" {
		var err error
		root, err = config.FindProjectRoot()
		if err != nil {
			return nil, err
		}
	}
	cfg, err := config.Resolve(root)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	errors.SetHandler(&errors.LogHandler{Verbose: cfg.Verbose})
	return cfg, nil
}

func printHelp(cmd *Command) {
	fmt.Fprintln(stdout, cmd.Long)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Usage:")
	fmt.Fprintf(stdout, "  %s\n", cmd.Usage)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Commands:")
	for _, sub := range order {
		fmt.Fprintf(stdout, "  %-14s %s\n", sub.Name, sub.Short)
	}
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Flags:")
	fmt.Fprintln(stdout, "  -h, --help           Show help for a command")
	fmt.Fprintln(stdout, "  -v, --version        Show version information")
	fmt.Fprintln(stdout, "  --config-dir DIR     Directory holding liststore.yaml (default: project root)")
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Examples:")
	fmt.Fprintln(stdout, "  liststore replay script.yaml           Print notifications and final rows")
	fmt.Fprintln(stdout, "  liststore render script.yaml -o a.png  Render the final rows as an image")
	fmt.Fprintln(stdout, "  liststore watch script.yaml            Replay whenever the script changes")
}

func printCommandHelp(cmd *Command) {
	fmt.Fprintln(stdout, cmd.Long)
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Usage:")
	fmt.Fprintf(stdout, "  %s\n", cmd.Usage)
}
