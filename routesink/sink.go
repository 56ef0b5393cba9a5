package routesink

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Kind is the type of an announced step.
type Kind string

const (
	// KindMove is a move between two cells, resolved by the companion.
	KindMove Kind = "move"
	// KindAction is any other plan action, printed as-is.
	KindAction Kind = "action"
	// KindGoal marks the end of the plan.
	KindGoal Kind = "goal"
)

// Step is one announced plan step.
type Step struct {
	Session string    `json:"session"`
	Seq     int       `json:"seq"`
	Kind    Kind      `json:"kind"`
	Action  string    `json:"action"`
	Args    []string  `json:"args,omitempty"`
	From    string    `json:"from,omitempty"`
	To      string    `json:"to,omitempty"`
	Time    time.Time `json:"time"`
}

// Sink receives announced steps.
type Sink interface {
	Publish(ctx context.Context, step Step) error
	Close() error
}

// Options configures the Redis connection.
type Options struct {
	// URL is the Redis connection string (e.g. "redis://localhost:6379").
	URL string

	// Prefix is prepended to the session ID to form channel and list keys.
	Prefix string

	// TTL is how long the per-session route list is kept.
	TTL time.Duration

	TLS            *tls.Config
	ConnectTimeout time.Duration
	WriteTimeout   time.Duration
}

// DefaultPrefix is used when Options.Prefix is empty.
const DefaultPrefix = "pathbridge:route"

// Redis publishes steps with go-redis.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis connects to Redis and verifies the connection with PING.
func NewRedis(opts Options) (*Redis, error) {
	if opts.URL == "" {
		opts.URL = "redis://localhost:6379"
	}
	if opts.Prefix == "" {
		opts.Prefix = DefaultPrefix
	}
	if opts.TTL == 0 {
		opts.TTL = 24 * time.Hour
	}
	if opts.ConnectTimeout == 0 {
		opts.ConnectTimeout = 5 * time.Second
	}
	if opts.WriteTimeout == 0 {
		opts.WriteTimeout = 5 * time.Second
	}

	redisOpts, err := redis.ParseURL(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	redisOpts.TLSConfig = opts.TLS
	redisOpts.DialTimeout = opts.ConnectTimeout
	redisOpts.WriteTimeout = opts.WriteTimeout

	client := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), opts.ConnectTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Redis{client: client, prefix: opts.Prefix, ttl: opts.TTL}, nil
}

// Key returns the channel and list key for a session.
func (r *Redis) Key(session string) string {
	return r.prefix + ":" + session
}

// Publish sends the step on the session channel and appends it to the
// session list in one pipeline.
func (r *Redis) Publish(ctx context.Context, step Step) error {
	data, err := json.Marshal(step)
	if err != nil {
		return fmt.Errorf("failed to marshal step: %w", err)
	}

	key := r.Key(step.Session)
	_, err = r.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		p.Publish(ctx, key, data)
		p.RPush(ctx, key, data)
		p.Expire(ctx, key, r.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to publish step to %s: %w", key, err)
	}
	return nil
}

// Steps returns every step recorded for a session, in announcement order.
func (r *Redis) Steps(ctx context.Context, session string) ([]Step, error) {
	key := r.Key(session)
	raw, err := r.client.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read route %s: %w", key, err)
	}

	steps := make([]Step, 0, len(raw))
	for _, s := range raw {
		var step Step
		if err := json.Unmarshal([]byte(s), &step); err != nil {
			return nil, fmt.Errorf("failed to unmarshal step: %w", err)
		}
		steps = append(steps, step)
	}
	return steps, nil
}

// Close closes the Redis connection.
func (r *Redis) Close() error {
	return r.client.Close()
}

// Memory collects steps in process. It is safe for concurrent use.
type Memory struct {
	mu     sync.Mutex
	steps  []Step
	closed bool
}

// Publish appends step.
func (m *Memory) Publish(_ context.Context, step Step) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return fmt.Errorf("sink closed")
	}
	m.steps = append(m.steps, step)
	return nil
}

// Steps returns a copy of the collected steps.
func (m *Memory) Steps() []Step {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Step, len(m.steps))
	copy(out, m.steps)
	return out
}

// Close marks the sink closed.
func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}
