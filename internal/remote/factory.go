package remote

import (
	"context"
	"fmt"

	"github.com/pageza/alchemorsel-v2/mealplan/config"
	"github.com/pageza/alchemorsel-v2/mealplan/internal/model"
)

// Store is the remote plan contract shared by the HTTP and S3 drivers.
type Store interface {
	Load(ctx context.Context) (model.PlanDocument, error)
	Save(ctx context.Context, plan model.CalendarPlan) error
}

// New builds the remote store selected by cfg.RemoteDriver.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.RemoteDriver {
	case config.RemoteHTTP:
		if cfg.RemoteBaseURL == "" {
			return nil, fmt.Errorf("REMOTE_BASE_URL is required for the http remote driver")
		}
		return NewHTTPPlanStore(cfg.RemoteBaseURL, cfg.SessionToken, cfg.RemoteTimeout), nil
	case config.RemoteS3:
		s3Cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return NewS3PlanStore(s3Cfg.Client, s3Cfg.BucketName, cfg.RecordNamespace), nil
	default:
		return nil, fmt.Errorf("unknown remote driver %q", cfg.RemoteDriver)
	}
}
