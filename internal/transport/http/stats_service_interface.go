package http

import (
	"context"

	"vinstats/internal/files"
	"vinstats/internal/services"
)

// StatsService is the contract the handlers need from the service layer.
// It is satisfied by *services.StatsService and mocked in tests.
type StatsService interface {
	Files(ctx context.Context) ([]files.FileInfo, error)
	Organizations(ctx context.Context, fileNames []string) (*services.CatalogOverview, error)
	Summary(ctx context.Context, filter services.StatsFilter) (*services.Summary, error)
	Export(ctx context.Context, filter services.StatsFilter) (string, []byte, error)
	Reload(ctx context.Context)
}
