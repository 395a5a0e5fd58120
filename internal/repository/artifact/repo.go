// Package artifact persists training artifact sets through a key-value blob store.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/cardiofeat/internal/db"
	"github.com/kailas-cloud/cardiofeat/internal/domain"
	domart "github.com/kailas-cloud/cardiofeat/internal/domain/artifact"
)

// store is the consumer interface for artifact persistence (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Repo saves and loads artifact sets. Each set lives under <prefix>/<generation>/ and
// the <prefix>/CURRENT key names the generation being served.
type Repo struct {
	store  store
	prefix string
}

// New creates an artifact repository.
func New(s store, prefix string) *Repo {
	return &Repo{store: s, prefix: strings.Trim(prefix, "/")}
}

func (r *Repo) key(parts ...string) string {
	return path.Join(append([]string{r.prefix}, parts...)...)
}

// Save writes every blob of set, then flips CURRENT to its generation.
// If any blob fails, CURRENT still names the previous generation.
func (r *Repo) Save(ctx context.Context, set domart.Set) error {
	if err := set.Validate(); err != nil {
		return fmt.Errorf("save artifacts: %w", err)
	}

	params, err := encodeParams(set.Params)
	if err != nil {
		return fmt.Errorf("encode %s: %w", blobParams, err)
	}
	ref, err := encodeReference(set.Reference)
	if err != nil {
		return fmt.Errorf("encode %s: %w", blobReference, err)
	}
	m, err := encodeMeta(meta{
		FormatVersion:   formatVersion,
		Generation:      set.Generation,
		TrainedAt:       set.TrainedAt.UTC(),
		UniverseVersion: set.UniverseVersion,
		Features:        set.Reference.Len(),
		Metrics:         set.Metrics,
	})
	if err != nil {
		return fmt.Errorf("encode %s: %w", blobMeta, err)
	}

	blobs := map[string][]byte{
		blobParams:    params,
		blobReference: ref,
		blobModel:     set.Model,
		blobMeta:      m,
	}
	g, gctx := errgroup.WithContext(ctx)
	for name, data := range blobs {
		key := r.key(set.Generation, name)
		g.Go(func() error {
			if err := r.store.Set(gctx, key, data); err != nil {
				return fmt.Errorf("write %s: %w", key, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := r.store.Set(ctx, r.key(currentKey), []byte(set.Generation)); err != nil {
		return fmt.Errorf("publish generation %s: %w", set.Generation, err)
	}
	return nil
}

// Current returns the generation CURRENT points to.
func (r *Repo) Current(ctx context.Context) (string, error) {
	data, err := r.store.Get(ctx, r.key(currentKey))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return "", domain.NewMissingConfiguration(domain.ArtifactSet)
		}
		return "", fmt.Errorf("read %s: %w", currentKey, err)
	}
	gen := strings.TrimSpace(string(data))
	if gen == "" {
		return "", domain.NewMissingConfiguration(domain.ArtifactSet)
	}
	return gen, nil
}

// Load reads the set CURRENT points to. With no published generation it returns a
// MissingConfigurationError naming the absent artifact.
func (r *Repo) Load(ctx context.Context) (domart.Set, error) {
	gen, err := r.Current(ctx)
	if err != nil {
		return domart.Set{}, err
	}

	names := []string{blobParams, blobReference, blobModel, blobMeta}
	data := make([][]byte, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			b, err := r.store.Get(gctx, r.key(gen, name))
			if err != nil {
				if errors.Is(err, db.ErrKeyNotFound) {
					return fmt.Errorf("generation %s: %w", gen, domain.NewMissingConfiguration(artifactFor(name)))
				}
				return fmt.Errorf("read %s: %w", name, err)
			}
			data[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domart.Set{}, err
	}

	params, err := decodeParams(data[0])
	if err != nil {
		return domart.Set{}, fmt.Errorf("decode %s: %w", blobParams, err)
	}
	ref, err := decodeReference(data[1])
	if err != nil {
		return domart.Set{}, fmt.Errorf("decode %s: %w", blobReference, err)
	}
	m, err := decodeMeta(data[3])
	if err != nil {
		return domart.Set{}, fmt.Errorf("decode %s: %w", blobMeta, err)
	}
	if m.Generation != gen {
		return domart.Set{}, fmt.Errorf("generation %s: meta names generation %s", gen, m.Generation)
	}

	set := domart.Set{
		Generation:      gen,
		TrainedAt:       m.TrainedAt,
		UniverseVersion: m.UniverseVersion,
		Params:          params,
		Reference:       ref,
		Model:           data[2],
		Metrics:         m.Metrics,
	}
	if err := set.Validate(); err != nil {
		return domart.Set{}, fmt.Errorf("generation %s: %w", gen, err)
	}
	return set, nil
}

func artifactFor(blob string) string {
	switch blob {
	case blobParams:
		return domain.ArtifactNormalization
	case blobReference:
		return domain.ArtifactReference
	case blobModel:
		return domain.ArtifactModel
	default:
		return domain.ArtifactSet
	}
}
