package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	geoerrors "github.com/matzehuels/geofig/pkg/errors"
	"github.com/matzehuels/geofig/pkg/figure"
	geoio "github.com/matzehuels/geofig/pkg/io"
	"github.com/matzehuels/geofig/pkg/render/nodelink"
)

// graphOpts holds the flags for the graph command.
type graphOpts struct {
	block    int
	format   string
	output   string
	detailed bool
	scale    float64
}

// graphCommand creates the graph command, which draws the point reference
// graph of one block. It is a debugging aid for figures whose elements do
// not line up the way the author expected.
func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{block: 1, format: "svg", scale: 2}

	cmd := &cobra.Command{
		Use:   "graph FILE",
		Short: "Draw which elements define and use which points",
		Long: `Draw the reference graph of one figure block with Graphviz: points are
ellipses, elements are boxes, solid edges mark the element that defines a
point and dashed edges mark later uses.`,
		Example: `  geofig graph algebra.txt --block 2 -o refs.svg
  geofig graph figure.yaml --format dot`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd, args[0], opts)
		},
	}

	cmd.Flags().IntVarP(&opts.block, "block", "b", opts.block, "block number (1-based)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot, svg, png, pdf")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <block id>.refs.<format>)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show element fields in node labels")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG scale factor")

	return cmd
}

func (c *CLI) runGraph(cmd *cobra.Command, path string, opts graphOpts) error {
	ctx := cmd.Context()
	blocks, err := geoio.ReadBlocks(path)
	if err != nil {
		return err
	}
	if opts.block < 1 || opts.block > len(blocks) {
		return fmt.Errorf("block %d out of range (file has %d)", opts.block, len(blocks))
	}
	b := blocks[opts.block-1]

	spec, errs := figure.Parse(b.Text)
	if err := errs.Err(); err != nil {
		return err
	}
	dot := nodelink.ToDOT(spec, nodelink.Options{Detailed: opts.detailed})

	var data []byte
	switch opts.format {
	case "dot":
		data = []byte(dot)
	case "svg":
		data, err = nodelink.RenderSVG(ctx, dot)
	case "png":
		data, err = nodelink.RenderPNG(ctx, dot, opts.scale)
	case "pdf":
		data, err = nodelink.RenderPDF(ctx, dot)
	default:
		return geoerrors.New(geoerrors.ErrCodeInvalidConfig, "unknown graph format %q", opts.format)
	}
	if err != nil {
		return err
	}

	out := opts.output
	if out == "" {
		out = b.ID + ".refs." + opts.format
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if err := geoio.WriteFileAtomic(out, data, 0o644); err != nil {
		return err
	}
	c.Logger.Debug("graph", "block", b.Source, "elements", len(spec.Elements), "bytes", len(data))
	printSuccess("%s %s", b.Source, StyleDim.Render(string(spec.Type)))
	printFile(out)
	return nil
}
