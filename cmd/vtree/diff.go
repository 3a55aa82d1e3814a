package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/protocol"
	"github.com/vango-dev/vtree/pkg/vdom"
)

func diffCmd() *cobra.Command {
	var (
		asJSON   bool
		showHTML bool
		debug    bool
	)

	cmd := &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Print the mutations that turn one tree into another",
		Long: `Render OLD into an in-memory document, sync it to NEW and print
the recorded mutations, the engine counters and the encoded size of
the patch batch.

Tree files are JSON or YAML, chosen by extension.

Examples:
  vtree diff before.json after.json
  vtree diff before.yaml after.yaml --json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := runDiff(args[0], args[1], debug)
			if err != nil {
				return err
			}
			if asJSON {
				return res.writeJSON(cmd.OutOrStdout())
			}
			res.writeText(cmd.OutOrStdout(), showHTML)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVar(&showHTML, "html", false, "Print the document before and after")
	cmd.Flags().BoolVar(&debug, "debug", false, "Validate every child list")

	return cmd
}

type diffResult struct {
	Ops     []string   `json:"ops"`
	Stats   vdom.Stats `json:"stats"`
	Encoded int        `json:"encodedBytes"`
	Frames  int        `json:"frames"`
	Before  string     `json:"before"`
	After   string     `json:"after"`
}

func runDiff(oldPath, newPath string, debug bool) (*diffResult, error) {
	a, err := loadTree(oldPath)
	if err != nil {
		return nil, err
	}
	b, err := loadTree(newPath)
	if err != nil {
		return nil, err
	}

	doc := dom.New()
	cfg := vdom.DefaultConfig()
	cfg.Debug = debug
	engine := vdom.NewEngine(doc, vdom.WithConfig(cfg))

	if _, err := engine.Render(doc.Root(), nil, a, nil); err != nil {
		return nil, err
	}
	before := doc.HTML()
	initial := doc.Drain()
	engine.ResetStats()

	if err := engine.Sync(doc.Root(), a, b, nil, vdom.SyncAttached); err != nil {
		return nil, err
	}
	ops := doc.Drain()

	frames, err := protocol.PatchFrames(1, ops)
	if err != nil {
		return nil, err
	}
	res := &diffResult{
		Ops:    make([]string, len(ops)),
		Stats:  engine.Stats(),
		Frames: len(frames),
		Before: before,
		After:  doc.HTML(),
	}
	for i, op := range ops {
		res.Ops[i] = op.String()
	}
	for _, f := range frames {
		res.Encoded += protocol.FrameHeaderSize + len(f.Payload)
	}

	// The stream must rebuild the same document on a replica.
	replica := dom.New()
	if err := replica.ApplyAll(initial); err != nil {
		return nil, err
	}
	if err := replica.ApplyAll(ops); err != nil {
		return nil, err
	}
	if got := replica.HTML(); got != res.After {
		return nil, errors.Newf(errors.CategoryCLI, "replica diverged: got %s, want %s", got, res.After)
	}
	return res, nil
}

func (r *diffResult) writeText(w io.Writer, showHTML bool) {
	if showHTML {
		fmt.Fprintf(w, "before: %s\n", r.Before)
	}
	if len(r.Ops) == 0 {
		fmt.Fprintln(w, "no changes")
	}
	for _, op := range r.Ops {
		fmt.Fprintf(w, "  %s\n", op)
	}
	if showHTML {
		fmt.Fprintf(w, "after:  %s\n", r.After)
	}
	s := r.Stats
	fmt.Fprintf(w, "\n%d ops, %d bytes in %d frame(s)\n", len(r.Ops), r.Encoded, r.Frames)
	fmt.Fprintf(w, "creates=%d inserts=%d moves=%d removes=%d replaces=%d clears=%d renders=%d\n",
		s.Creates, s.Inserts, s.Moves, s.Removes, s.Replaces, s.Clears, s.Renders)
}

func (r *diffResult) writeJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
