package overrides

import (
	"context"
	"encoding/json"
	"io"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/depfetch/pkg/dependency"
	"github.com/matzehuels/depfetch/pkg/errors"
)

// DefaultRedisKey is the hash holding pre-resolved outcomes.
const DefaultRedisKey = "depfetch:overrides"

// RedisConfig configures a [RedisStore].
type RedisConfig struct {
	Addr     string // host:port
	Password string
	DB       int
	Key      string // Hash key (default: DefaultRedisKey)
}

// RedisStore keeps one outcome per hash field, so several machines can share
// and extend the same table.
type RedisStore struct {
	client *redis.Client
	key    string
	logger *log.Logger
}

// NewRedisStore connects and pings the server.
func NewRedisStore(ctx context.Context, cfg RedisConfig, logger *log.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to redis at %s", cfg.Addr)
	}
	return newRedisStore(client, cfg.Key, logger), nil
}

func newRedisStore(client *redis.Client, key string, logger *log.Logger) *RedisStore {
	if key == "" {
		key = DefaultRedisKey
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &RedisStore{client: client, key: key, logger: logger}
}

// Load reads every field of the hash. Malformed fields are skipped.
func (s *RedisStore) Load(ctx context.Context) (*Table, error) {
	fields, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "read %s", s.key)
	}

	t := NewTable(nil)
	for coord, raw := range fields {
		var e entry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			s.logger.Debug("skipping malformed override", "coord", coord, "err", err)
			continue
		}
		o, err := e.outcome()
		if err != nil {
			s.logger.Debug("skipping invalid override", "coord", coord, "err", err)
			continue
		}
		t.Set(coord, o)
	}
	return t, nil
}

// Save writes results as hash fields in one round trip.
func (s *RedisStore) Save(ctx context.Context, results map[string]*dependency.Outcome) error {
	if len(results) == 0 {
		return nil
	}
	values := make(map[string]any, len(results))
	for coord, o := range results {
		data, err := json.Marshal(toEntry(o))
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "encode %s", coord)
		}
		values[coord] = string(data)
	}
	if err := s.client.HSet(ctx, s.key, values).Err(); err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "write %s", s.key)
	}
	return nil
}

// Clear deletes the hash.
func (s *RedisStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}

// Close releases the connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

var _ Store = (*RedisStore)(nil)
