package relcache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/unkn0wn-root/relcache/codec"
)

const (
	defaultTTL       = 60 * time.Second
	defaultScanCount = 100
	tracerName       = "github.com/unkn0wn-root/relcache"
)

// Options configure a Cache. Prefix and one of URL/Client are required;
// everything else has a default.
type Options struct {
	// Required
	Prefix string // namespace for every key this instance touches, e.g. "poetry"; no glob metacharacters
	URL    string // redis://... parsed once by New; the Cache owns that client

	// Client is used instead of URL. It is borrowed unless CloseClient is set.
	Client      redis.UniversalClient
	CloseClient bool

	Codec          codec.Codec          // nil => codec.JSON{}
	Logger         Logger               // nil => NopLogger
	Hooks          Hooks                // nil => NopHooks
	TracerProvider trace.TracerProvider // nil => otel.GetTracerProvider()
	DefaultTTL     time.Duration        // entries written with ttl <= 0; 0 => 60s
	DependencyTTL  time.Duration        // refreshed on every registration; 0 => sets never expire
	ScanCount      int64                // SCAN COUNT hint for DelByPattern; 0 => 100
}

// Cache is one namespaced view over a Redis connection. It is safe for
// concurrent use.
type Cache struct {
	prefix     string
	rdb        redis.UniversalClient
	ownsClient bool

	codec  codec.Codec
	log    Logger
	hooks  Hooks
	tracer trace.Tracer

	defaultTTL    time.Duration
	dependencyTTL time.Duration
	scanCount     int64

	flight singleflight.Group

	closeOnce sync.Once
	closeErr  error
}

func New(opts Options) (*Cache, error) {
	if err := validatePrefix(opts.Prefix); err != nil {
		return nil, err
	}
	if opts.Client != nil && opts.URL != "" {
		return nil, fmt.Errorf("relcache: set either URL or Client, not both")
	}

	c := &Cache{
		prefix:     opts.Prefix,
		rdb:        opts.Client,
		ownsClient: opts.CloseClient,
	}
	if c.rdb == nil {
		if opts.URL == "" {
			return nil, fmt.Errorf("relcache: URL or Client is required")
		}
		ro, err := redis.ParseURL(opts.URL)
		if err != nil {
			return nil, fmt.Errorf("relcache: parse url: %w", err)
		}
		c.rdb = redis.NewClient(ro)
		c.ownsClient = true
	}

	// defaults
	c.codec = coalesce[codec.Codec](opts.Codec, codec.JSON{})
	c.log = coalesce[Logger](opts.Logger, NopLogger{})
	c.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	c.defaultTTL = coalesce[time.Duration](opts.DefaultTTL, defaultTTL)
	c.dependencyTTL = opts.DependencyTTL
	c.scanCount = coalesce[int64](opts.ScanCount, defaultScanCount)
	tp := coalesce[trace.TracerProvider](opts.TracerProvider, otel.GetTracerProvider())
	c.tracer = tp.Tracer(tracerName)

	c.log = c.log.With(Fields{"prefix": c.prefix})
	return c, nil
}

// validatePrefix rejects empty prefixes and glob metacharacters, which would
// let DelByPattern match keys outside the namespace. ':' is allowed, but a
// prefix must not be another instance's prefix followed by ':' (e.g. "poetry"
// and "poetry:v2"): "poetry" evicting "*" also matches "poetry:v2:..." keys.
func validatePrefix(p string) error {
	if p == "" {
		return fmt.Errorf("%w: prefix is required", ErrInvalidPrefix)
	}
	if strings.ContainsAny(p, `*?[]\`) {
		return fmt.Errorf("%w: %q contains a glob metacharacter", ErrInvalidPrefix, p)
	}
	return nil
}

// Prefix returns the namespace prefix of this instance.
func (c *Cache) Prefix() string { return c.prefix }

// Client exposes the underlying connection, e.g. for health checks.
func (c *Cache) Client() redis.UniversalClient { return c.rdb }

// Ping checks the connection.
func (c *Cache) Ping(ctx context.Context) error { return c.rdb.Ping(ctx).Err() }

// Close releases the connection when this Cache owns it. Safe to call
// multiple times.
func (c *Cache) Close(context.Context) error {
	c.closeOnce.Do(func() {
		if !c.ownsClient {
			return
		}
		if err := c.rdb.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
			c.closeErr = err
		}
	})
	return c.closeErr
}

func (c *Cache) ttl(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return c.defaultTTL
	}
	return ttl
}
