package pipeline

import (
	"context"

	geoerrors "github.com/matzehuels/geofig/pkg/errors"
	"github.com/matzehuels/geofig/pkg/layout"
	"github.com/matzehuels/geofig/pkg/render"
	"github.com/matzehuels/geofig/pkg/render/sink"
)

// renderArtifacts renders p in every requested format. The first failing
// format fails the figure.
func renderArtifacts(ctx context.Context, p *layout.Placed, opts Options) (map[render.Format][]byte, error) {
	out := make(map[render.Format][]byte, len(opts.Formats))
	for _, f := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, geoerrors.Wrap(geoerrors.ErrCodeRenderTimeout, err, "render interrupted before %s", f)
		}
		data, err := sink.Render(ctx, p, f, *opts.Styles)
		if err != nil {
			return nil, err
		}
		out[f] = data
	}
	return out, nil
}

// placeholders renders the failure artifact in every requested format. It
// runs detached from the figure's deadline, which may be what failed it,
// but keeps a deadline of its own.
func placeholders(ctx context.Context, description string, opts Options) (map[render.Format][]byte, error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), opts.Timeout)
	defer cancel()

	out := make(map[render.Format][]byte, len(opts.Formats))
	var firstErr error
	for _, f := range opts.Formats {
		data, err := sink.Placeholder(ctx, description, opts.Canvas, f, *opts.Styles)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		out[f] = data
	}
	return out, firstErr
}
