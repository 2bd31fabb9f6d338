package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// StorageKey names the namespace holding offline campaigns in every store.
const StorageKey = "campaigns"

// LocalStore keeps campaigns created while the API is unreachable. Its
// contents are never reconciled with the server.
type LocalStore interface {
	List(ctx context.Context) ([]Campaign, error)
	Save(ctx context.Context, c Campaign) error
	Replace(ctx context.Context, campaigns []Campaign) error
}

// FileStore persists the local namespace as a JSON document on disk.
type FileStore struct {
	Path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

type fileDocument map[string][]Campaign

func (s *FileStore) read() (fileDocument, error) {
	b, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return fileDocument{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.Path, err)
	}
	doc := fileDocument{}
	if len(b) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.Path, err)
	}
	return doc, nil
}

// write replaces the file atomically through a temp file.
func (s *FileStore) write(doc fileDocument) error {
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode local store: %w", err)
	}
	if dir := filepath.Dir(s.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	tmp := s.Path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	return os.Rename(tmp, s.Path)
}

func (s *FileStore) List(ctx context.Context) ([]Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return nil, err
	}
	out := doc[StorageKey]
	if out == nil {
		out = []Campaign{}
	}
	return out, nil
}

func (s *FileStore) Save(ctx context.Context, c Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	doc[StorageKey] = append(doc[StorageKey], c)
	return s.write(doc)
}

func (s *FileStore) Replace(ctx context.Context, campaigns []Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return err
	}
	doc[StorageKey] = campaigns
	return s.write(doc)
}

// RedisStore keeps the local namespace in a Redis hash, one field per campaign id.
type RedisStore struct {
	Client *redis.Client
	Key    string
}

type RedisOpts struct {
	Addr        string
	Password    string
	DB          int
	DialTimeout time.Duration
}

// NewRedisStore connects and pings before returning.
func NewRedisStore(opts RedisOpts) (*RedisStore, error) {
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 5 * time.Second
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        opts.Addr,
		Password:    opts.Password,
		DB:          opts.DB,
		DialTimeout: opts.DialTimeout,
	})
	ctx, cancel := context.WithTimeout(context.Background(), opts.DialTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisStore{Client: rdb, Key: StorageKey}, nil
}

// List returns the stored campaigns in creation order.
func (s *RedisStore) List(ctx context.Context) ([]Campaign, error) {
	fields, err := s.Client.HGetAll(ctx, s.Key).Result()
	if err != nil {
		return nil, fmt.Errorf("hgetall %s: %w", s.Key, err)
	}

	out := make([]Campaign, 0, len(fields))
	for id, raw := range fields {
		var c Campaign
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return nil, fmt.Errorf("decode campaign %s: %w", id, err)
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *RedisStore) Save(ctx context.Context, c Campaign) error {
	b, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode campaign: %w", err)
	}
	if err := s.Client.HSet(ctx, s.Key, string(c.ID), b).Err(); err != nil {
		return fmt.Errorf("hset %s: %w", s.Key, err)
	}
	return nil
}

func (s *RedisStore) Replace(ctx context.Context, campaigns []Campaign) error {
	pipe := s.Client.TxPipeline()
	pipe.Del(ctx, s.Key)
	for _, c := range campaigns {
		b, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("encode campaign: %w", err)
		}
		pipe.HSet(ctx, s.Key, string(c.ID), b)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("replace %s: %w", s.Key, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.Client.Close()
}

var (
	_ LocalStore = (*FileStore)(nil)
	_ LocalStore = (*RedisStore)(nil)
)
