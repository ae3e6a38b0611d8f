package lang

import (
	"bytes"
	"context"
	"encoding/gob"
	"io"
	"log/slog"
	"strconv"
	"sync"

	"github.com/klauspost/readahead"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/coral/lang/token"
)

// globalCache stores compiled modules keyed by a hash of source and options.
var globalCache sync.Map

// entry is a cache slot. The first Program to claim it compiles the source;
// concurrent claims wait for that result.
type entry struct {
	once   sync.Once
	module *Module
	tokens []token.Token
	err    error
}

// hashOptions encodes options using gob and hashes with xxh3.
// Returns a hash that uniquely identifies the options configuration.
func hashOptions(opts optionsKey) uint64 {
	var buf bytes.Buffer

	enc := gob.NewEncoder(&buf)

	// Encode relevant options fields
	_ = enc.Encode(opts.name)
	_ = enc.Encode(opts.maxDepth)

	return xxh3.Hash(buf.Bytes())
}

// CompileReader reads all of r and compiles it with [Compile].
func CompileReader(
	ctx context.Context,
	r io.Reader,
	opts ...Option,
) (*Program, error) {
	// Wrap reader with async read-ahead so that reading overlaps with the
	// consumer draining earlier chunks.
	ra := readahead.NewReader(r)
	defer ra.Close()

	data, err := io.ReadAll(ra)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("source", "reader"))
	}

	newProgram(opts...).logger.TraceContext(
		ctx,
		"read input",
		slog.Int("source_bytes", len(data)),
		slog.Bool("read_ahead", true),
	)

	return Compile(ctx, string(data), opts...)
}

func (p *Program) compileCached(ctx context.Context, src string) error {
	sourceHash := xxh3.HashString(src)
	optsHash := hashOptions(p.opts)
	key := strconv.FormatUint(sourceHash^optsHash, 36)

	value, hit := globalCache.LoadOrStore(key, new(entry))

	ent, ok := value.(*entry)
	if !ok {
		return ErrReadInput.
			With(slog.String("issue", "invalid entry type in cache"))
	}

	p.logger.TraceContext(
		ctx,
		"cache lookup",
		slog.String("source_hash", strconv.FormatUint(sourceHash, 16)),
		slog.String("opts_hash", strconv.FormatUint(optsHash, 16)),
		slog.Bool("cache_hit", hit),
	)

	ent.once.Do(func() {
		ent.err = p.compile(ctx, src)
		ent.module, ent.tokens = p.Module, p.Tokens
	})

	if ent.err != nil {
		return ent.err
	}

	p.Module, p.Tokens = ent.module, ent.tokens

	return nil
}

// ClearCache removes all cached modules.
// This is primarily useful for testing or when memory needs to be reclaimed.
func ClearCache() {
	globalCache.Clear()
}
