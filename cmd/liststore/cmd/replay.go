package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/go-drift/liststore/pkg/diffscript"
	"github.com/go-drift/liststore/pkg/liststore"
	"github.com/go-drift/liststore/pkg/metrics"
	"github.com/go-drift/liststore/pkg/native"
)

func init() {
	RegisterCommand(&Command{
		Name:  "replay",
		Short: "Replay a diff script and print the result",
		Long: `Replay a diff script against an empty list store.

Every change notification the store emits is printed as it happens,
followed by the final rows.

Flags:
  --quiet     Only print the final rows
  --metrics   Print store metrics after the replay
  --dump      Print the script in normalized form instead of replaying it`,
		Usage: "liststore replay <script.yaml> [--quiet] [--metrics] [--dump]",
		Run:   runReplay,
	})
}

type replayOptions struct {
	path    string
	quiet   bool
	metrics bool
	dump    bool
}

func parseReplayArgs(args []string) (replayOptions, error) {
	var opts replayOptions
	for _, arg := range args {
		switch arg {
		case "--quiet":
			opts.quiet = true
		case "--metrics":
			opts.metrics = true
		case "--dump":
			opts.dump = true
		default:
			if strings.HasPrefix(arg, "-") {
				return opts, fmt.Errorf("unknown flag %q", arg)
			}
			if opts.path != "" {
				return opts, fmt.Errorf("only one script may be given")
			}
			opts.path = arg
		}
	}
	if opts.path == "" {
		return opts, fmt.Errorf("script is required\n\nUsage: liststore replay <script.yaml>")
	}
	return opts, nil
}

func runReplay(args []string) error {
	opts, err := parseReplayArgs(args)
	if err != nil {
		return err
	}
	if _, err := resolveConfig(); err != nil {
		return err
	}
	if opts.dump {
		script, err := diffscript.Load(opts.path)
		if err != nil {
			return err
		}
		return diffscript.Encode(stdout, script)
	}

	var collector *metrics.Collector
	reg := prometheus.NewRegistry()
	if opts.metrics {
		if collector, err = metrics.New(reg); err != nil {
			return err
		}
	}

	store, err := replay(stdout, opts.path, opts.quiet, collector)
	if err != nil {
		return err
	}
	defer store.Release()

	printRows(stdout, store)
	if opts.metrics {
		return printMetrics(stdout, reg)
	}
	return nil
}

// replay loads the script at path and applies it to a new store, printing
// change notifications to w unless quiet is set.
func replay(w io.Writer, path string, quiet bool, collector *metrics.Collector) (*liststore.ListStore[string], error) {
	script, err := diffscript.Load(path)
	if err != nil {
		return nil, err
	}

	store := liststore.New[string]()
	if collector != nil {
		collector.Observe("replay", store.Native())
	}
	if !quiet {
		store.Subscribe(func(c native.ItemsChanged) {
			fmt.Fprintf(w, "changed at %d: -%d +%d\n", c.Position, c.Removed, c.Added)
		})
	}

	if err := diffscript.Apply(store, script, diffscript.String); err != nil {
		store.Release()
		return nil, err
	}
	return store, nil
}

func printRows(w io.Writer, store *liststore.ListStore[string]) {
	fmt.Fprintf(w, "rows (%d):\n", store.Len())
	for i, row := range store.All2() {
		fmt.Fprintf(w, "  %3d  %s\n", i, row)
	}
}

func printMetrics(w io.Writer, gatherer prometheus.Gatherer) error {
	families, err := gatherer.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	fmt.Fprintln(w, "metrics:")
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			value := m.GetCounter().GetValue()
			if g := m.GetGauge(); g != nil {
				value = g.GetValue()
			}
			fmt.Fprintf(w, "  %-34s %g\n", mf.GetName(), value)
		}
	}
	return nil
}
