// ABOUTME: Calculator abstraction shared by the sizing commands
// ABOUTME: Either calls the backend API or runs the calculators in-process

package cmd

import (
	"context"

	"github.com/pelikan-io/capacity-calculator/backend/models"
	"github.com/pelikan-io/capacity-calculator/backend/services"
	"github.com/pelikan-io/capacity-calculator/cli/internal/client"
)

// calculator sizes clusters and single instances.
type calculator interface {
	SizeCluster(ctx context.Context, req *models.SizingRequest) (*models.CalculationResult, error)
	Footprint(ctx context.Context, req *models.FootprintRequest) (*models.FootprintResult, error)
}

// localCalculator runs the backend services without a server.
type localCalculator struct {
	cluster   *services.ClusterCalculator
	footprint *services.FootprintCalculator
}

func newLocalCalculator() *localCalculator {
	return &localCalculator{
		cluster:   services.NewClusterCalculator(),
		footprint: services.NewFootprintCalculator(),
	}
}

func (l *localCalculator) SizeCluster(ctx context.Context, req *models.SizingRequest) (*models.CalculationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := l.cluster.Calculate(*req)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (l *localCalculator) Footprint(ctx context.Context, req *models.FootprintRequest) (*models.FootprintResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res, err := l.footprint.Calculate(*req)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// newCalculator picks the in-process calculator when local is set,
// otherwise the API client for GetAPIURL.
func newCalculator(local bool) (calculator, string) {
	if local {
		return newLocalCalculator(), "local"
	}
	url := GetAPIURL()
	return client.New(url), url
}
