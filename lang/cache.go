package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"
)

// globalCache stores parsed programs keyed by the xxh3 hash of their source.
var globalCache sync.Map

// cacheSize counts the entries of globalCache. The cache is emptied when a
// new entry would exceed maxCacheEntries.
var (
	cacheSize       atomic.Int64
	maxCacheEntries int64 = 4096
)

// entry tracks the parse state of a single source text.
type entry struct {
	src  string
	once sync.Once
	prog *Program
	err  error
}

// ParseReader reads all of r and parses it, consulting the parse cache.
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*Program, error) {
	cfg := makeConfig(opts...)

	// Wrap reader with async read-ahead for concurrent I/O.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	cfg.logger.TraceContext(ctx, "read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true))

	return ParseCached(ctx, string(data), opts...)
}

// ParseCached parses src, reusing the result of any earlier parse of the
// same text. Programs are never modified after parsing, so the cached value
// is shared by every caller.
func ParseCached(ctx context.Context, src string, opts ...Option) (*Program, error) {
	cfg := makeConfig(opts...)

	hash := xxh3.Hash([]byte(src))
	key := strconv.FormatUint(hash, 36)

	value, hit := globalCache.LoadOrStore(key, &entry{src: src})

	cached, ok := value.(*entry)
	if !ok {
		return ParseString(ctx, src, opts...)
	}

	cfg.logger.TraceContext(ctx, "cache lookup",
		slog.String("source_hash", strconv.FormatUint(hash, 16)),
		slog.Bool("cache_hit", hit))

	if hit && cached.src != src {
		cfg.logger.TraceContext(ctx, "cache collision",
			slog.String("source_hash", strconv.FormatUint(hash, 16)))

		return ParseString(ctx, src, opts...)
	}

	if !hit && cacheSize.Add(1) > maxCacheEntries {
		cfg.logger.TraceContext(ctx, "cache full",
			slog.Int64("entries", maxCacheEntries))

		ClearCache()
		globalCache.Store(key, cached)
		cacheSize.Add(1)
	}

	cached.once.Do(func() {
		cached.prog, cached.err = ParseString(ctx, src, opts...)
	})

	return cached.prog, cached.err
}

// ClearCache removes all cached programs.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache.Clear()
	cacheSize.Store(0)
}
