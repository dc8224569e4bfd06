package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// ErrConnectFailed is returned when no connection could be established
// after exhausting the configured retries.
var ErrConnectFailed = errors.New("mongo: failed to connect")

// Config holds connection settings for the document store.
type Config struct {
	URL            string        `env:"MONGODB_URL,required"`
	Database       string        `env:"MONGODB_DATABASE" envDefault:"blogsmith"`
	ConnectTimeout time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`
	MaxPoolSize    uint64        `env:"MONGODB_MAX_POOL_SIZE" envDefault:"100"`
	RetryAttempts  int           `env:"MONGODB_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"MONGODB_RETRY_INTERVAL" envDefault:"5s"`
}

// Connect establishes a verified client connection, retrying up to
// cfg.RetryAttempts times with cfg.RetryInterval between attempts.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, error) {
	var lastErr error
	for attempt := 0; attempt < cfg.RetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, errors.Join(ErrConnectFailed, ctx.Err())
			case <-time.After(cfg.RetryInterval):
			}
		}

		client, err := mongo.Connect(options.Client().
			ApplyURI(cfg.URL).
			SetConnectTimeout(cfg.ConnectTimeout).
			SetMaxPoolSize(cfg.MaxPoolSize).
			SetRetryWrites(true).
			SetRetryReads(true))
		if err != nil {
			lastErr = err
			continue
		}
		if err := client.Ping(ctx, nil); err != nil {
			lastErr = err
			_ = client.Disconnect(ctx)
			continue
		}
		return client, nil
	}
	return nil, errors.Join(ErrConnectFailed, lastErr)
}

// Database connects and returns the configured application database.
func Database(ctx context.Context, cfg Config) (*mongo.Database, error) {
	client, err := Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return client.Database(cfg.Database), nil
}

// Healthcheck returns a readiness probe bound to the client.
func Healthcheck(client *mongo.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		return client.Ping(ctx, nil)
	}
}
