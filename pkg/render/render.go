package render

import (
	"context"
	"strings"

	"github.com/matzehuels/waypoint/pkg/errors"
	"github.com/matzehuels/waypoint/pkg/graph"
	"github.com/matzehuels/waypoint/pkg/render/nodelink"
)

// Output formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

// Formats lists the supported output formats.
var Formats = []string{FormatDOT, FormatSVG}

// ValidateFormat checks that format is supported. Matching is exact.
func ValidateFormat(format string) error {
	for _, f := range Formats {
		if f == format {
			return nil
		}
	}
	return errors.New(errors.ErrCodeUnsupported,
		"unsupported format %q (must be one of: %s)", format, strings.Join(Formats, ", "))
}

// Graph renders g in the requested format.
func Graph(ctx context.Context, g *graph.Graph, opts nodelink.Options, format string) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	dot := nodelink.ToDOT(g, opts)
	if format == FormatDOT {
		return []byte(dot), nil
	}
	return nodelink.RenderSVG(ctx, dot)
}
