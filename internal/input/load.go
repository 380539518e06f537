package input

import (
	"context"
	"errors"
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/gyaneshwarpardhi/critnet/internal/graph"
)

// Load reads the links input and the optional alpha column concurrently and
// zips the weights onto the edge list. Cell-level problems from both inputs
// come back joined as the error, with the best-effort graph and weights still
// returned; read failures abort.
func Load(ctx context.Context, links io.Reader, alpha io.Reader) (*graph.Graph, graph.EdgeValues, error) {
	var (
		g        *graph.Graph
		rows     [][]string
		linksErr error
	)

	eg, _ := errgroup.WithContext(ctx)
	eg.Go(func() error {
		var err error
		g, err = ParseLinks(links)
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			linksErr = err
			return nil
		}
		return err
	})
	if alpha != nil {
		eg.Go(func() error {
			var err error
			rows, err = readRows(alpha)
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}

	if alpha == nil {
		return g, nil, linksErr
	}

	weights, alphaErr := alphaFromRows(rows, g.Edges())
	return g, weights, errors.Join(linksErr, alphaErr)
}
