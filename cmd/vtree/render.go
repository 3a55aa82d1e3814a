package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vtree/pkg/render"
)

func renderCmd() *cobra.Command {
	var (
		blueprint bool
		page      bool
		title     string
	)

	cmd := &cobra.Command{
		Use:   "render FILE [NEXT...]",
		Short: "Render tree files to HTML",
		Long: `Render a tree file to HTML on the server.

With --blueprint every file is rendered through one blueprint cache
entry, the way repeated page requests are served: the first file
builds the blueprint and later files reuse its cached markup where
their content is unchanged.

Examples:
  vtree render page.json
  vtree render --page --title=Home page.yaml
  vtree render --blueprint v1.json v2.json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.OutOrStdout(), args, blueprint, page, title)
		},
	}

	cmd.Flags().BoolVarP(&blueprint, "blueprint", "b", false, "Render through a blueprint cache")
	cmd.Flags().BoolVarP(&page, "page", "p", false, "Wrap the markup in a full HTML page")
	cmd.Flags().StringVarP(&title, "title", "t", "", "Page title for --page")

	return cmd
}

func runRender(w io.Writer, paths []string, blueprint, page bool, title string) error {
	renderer := render.NewRenderer(render.RendererConfig{})
	cache := render.NewBlueprintCache()

	for _, path := range paths {
		node, err := loadTree(path)
		if err != nil {
			return err
		}

		var html string
		if blueprint {
			html, err = cache.Render("cli", node, nil)
		} else {
			html, err = renderer.RenderToString(node)
		}
		if err != nil {
			return err
		}

		if page {
			if err := renderer.RenderPage(w, render.PageData{Title: title, Body: html}); err != nil {
				return err
			}
			fmt.Fprintln(w)
			continue
		}
		fmt.Fprintln(w, html)
	}

	if blueprint {
		hits, misses := cache.Stats()
		fmt.Fprintf(w, "blueprint: %d hit(s), %d miss(es)\n", hits, misses)
	}
	return nil
}
