// Package mongo persists the destination cache and the admin-configured
// source URLs. Both collections use the (field, lang) pair as their
// natural key and are written with upserts only.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/karripar/va-backend-sub000/internal/logger"
)

// ConnectOptions defines MongoDB connection behavior.
type ConnectOptions struct {
	URI            string        // Connection string (ex: "mongodb://localhost:27017")
	Database       string        // Database name
	ConnectTimeout time.Duration // Total time allowed for connection attempts
	PingTimeout    time.Duration // Timeout for each ping attempt
	RetryInterval  time.Duration // Initial wait between retries, grows exponentially
	MaxWait        time.Duration // Max wait between retries
}

// Connect opens a client and pings until the server answers or
// ConnectTimeout runs out. Retries back off exponentially so a database
// that is still starting up does not get hammered.
func Connect(opts ConnectOptions, log logger.Logger) (*mongo.Client, error) {
	if opts.ConnectTimeout <= 0 {
		return nil, fmt.Errorf("ConnectTimeout must be > 0, got %v", opts.ConnectTimeout)
	}
	if opts.PingTimeout <= 0 {
		return nil, fmt.Errorf("PingTimeout must be > 0, got %v", opts.PingTimeout)
	}
	if opts.RetryInterval <= 0 {
		return nil, fmt.Errorf("RetryInterval must be > 0, got %v", opts.RetryInterval)
	}
	if opts.MaxWait <= 0 {
		return nil, fmt.Errorf("MaxWait must be > 0, got %v", opts.MaxWait)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	log.Info("connecting to mongodb",
		logger.String("database", opts.Database),
		logger.Duration("timeout", opts.ConnectTimeout))

	attempt := 0
	wait := opts.RetryInterval
	for {
		attempt++

		pingCtx, pingCancel := context.WithTimeout(ctx, opts.PingTimeout)
		err = client.Ping(pingCtx, nil)
		pingCancel()

		if err == nil {
			if attempt > 1 {
				log.Warn("connected to mongodb after retry",
					logger.String("database", opts.Database),
					logger.Int("attempts", attempt))
			} else {
				log.Info("connected to mongodb",
					logger.String("database", opts.Database))
			}
			return client, nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Error("mongodb unavailable - failed to connect after timeout",
				logger.String("database", opts.Database),
				logger.Int("attempts", attempt),
				logger.Error(err))
			return nil, fmt.Errorf("mongodb unavailable after %d attempts (timeout: %v): %w",
				attempt, opts.ConnectTimeout, err)
		case <-timer.C:
			log.Warn("mongodb connection failed, retrying",
				logger.Int("attempt", attempt),
				logger.Duration("next_retry_in", wait),
				logger.Error(err))
			wait *= 2
			if wait > opts.MaxWait {
				wait = opts.MaxWait
			}
		}
	}
}
