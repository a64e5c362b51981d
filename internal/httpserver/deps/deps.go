package deps

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/karripar/va-backend-sub000/internal/domain"
	"github.com/karripar/va-backend-sub000/internal/logger"
)

// DestinationBuilder serves the public directory endpoint.
type DestinationBuilder interface {
	BuildDestinations(ctx context.Context, field domain.Field, lang domain.Lang) (domain.SectionedDestinations, error)
}

// SourceAdmin backs the admin source-configuration endpoints.
type SourceAdmin interface {
	List(ctx context.Context) ([]domain.SourceURL, error)
	Upsert(ctx context.Context, src domain.SourceURL) error
}

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string
	TimeNow   func() time.Time // for testing, defaults to time.Now

	Builder    DestinationBuilder
	Sources    SourceAdmin
	ReadyCheck func(ctx context.Context) error // nil = always ready

	RedisClient *redis.Client // shared rate-limit counters

	AdminCIDRS []string // networks allowed on admin endpoints
	AdminHosts []string // Host headers allowed on admin endpoints (optional)
	TrustProxy bool     // true if running behind a trusted reverse proxy

	RefreshTrigger chan struct{} // channel to trigger a manual refresh walk

	RateLimitRequests int
	RateLimitWindow   time.Duration
}
