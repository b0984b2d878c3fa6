package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-drift/liststore/pkg/preview"
)

func init() {
	RegisterCommand(&Command{
		Name:  "render",
		Short: "Render the rows of a replayed script as a PNG",
		Long: `Replay a diff script and render the final rows as a list view image.

The title, width and row height come from liststore.yaml when present.

Flags:
  -o, --output FILE   Output path (default: <script>.png)`,
		Usage: "liststore render <script.yaml> [-o FILE]",
		Run:   runRender,
	})
}

func runRender(args []string) error {
	var path, output string
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; arg {
		case "-o", "--output":
			if i+1 >= len(args) {
				return fmt.Errorf("%s requires a file path", arg)
			}
			output = args[i+1]
			i++
		default:
			if strings.HasPrefix(arg, "-") {
				return fmt.Errorf("unknown flag %q", arg)
			}
			path = arg
		}
	}
	if path == "" {
		return fmt.Errorf("script is required\n\nUsage: liststore render <script.yaml> [-o FILE]")
	}
	if output == "" {
		output = strings.TrimSuffix(path, ".yaml") + ".png"
	}

	cfg, err := resolveConfig()
	if err != nil {
		return err
	}

	store, err := replay(io.Discard, path, true, nil)
	if err != nil {
		return err
	}
	defer store.Release()

	img := preview.Render(store, func(row string) string { return row }, preview.Options{
		Title:     cfg.Title,
		Width:     cfg.Width,
		RowHeight: cfg.RowHeight,
	})

	f, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}
	if err := preview.WritePNG(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Wrote %d rows to %s\n", store.Len(), output)
	return nil
}
