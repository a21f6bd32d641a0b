package pipeline

import (
	"context"
	"fmt"

	rferrors "github.com/matzehuels/routefinder/pkg/errors"
	"github.com/matzehuels/routefinder/pkg/graph"
)

// Graph export formats.
const (
	GraphFormatDOT = "dot"
	GraphFormatSVG = "svg"
)

// ValidGraphFormats is the set of supported travel graph formats.
var ValidGraphFormats = map[string]bool{
	GraphFormatDOT: true,
	GraphFormatSVG: true,
}

// GraphOptions configures [RenderGraph].
type GraphOptions struct {
	Format   string
	Airport  string
	Detailed bool
}

// ValidateGraphFormat checks that a graph export format is valid.
func ValidateGraphFormat(format string) error {
	if !ValidGraphFormats[format] {
		return rferrors.New(rferrors.ErrCodeInvalidInput, "invalid graph format: %q (must be one of: dot, svg)", format)
	}
	return nil
}

// RenderGraph exports g as DOT source or as an SVG drawn by Graphviz.
func RenderGraph(ctx context.Context, g *graph.Graph, opts GraphOptions) ([]byte, error) {
	if opts.Format == "" {
		opts.Format = GraphFormatDOT
	}
	if err := ValidateGraphFormat(opts.Format); err != nil {
		return nil, err
	}

	dot := g.ToDOT(graph.DOTOptions{Airport: opts.Airport, Detailed: opts.Detailed})
	switch opts.Format {
	case GraphFormatSVG:
		data, err := graph.RenderSVG(ctx, dot)
		if err != nil {
			return nil, fmt.Errorf("render svg: %w", err)
		}
		return data, nil
	default:
		return []byte(dot), nil
	}
}
