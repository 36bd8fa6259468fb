// Package encoding holds the per-process snapshot of reference embeddings.
// The store is built once at startup and read-only afterwards; re-enrollment
// means a restart, so matching never runs against a partially-updated set.
package encoding

import (
	"context"
	"fmt"
	"sort"

	"github.com/saturnino-fabrica-de-software/presenca/internal/domain"
	"github.com/saturnino-fabrica-de-software/presenca/internal/repository"
)

type Store struct {
	dim  int
	refs map[string][][]float64
	keys []string
	size int
}

// Load builds the store from durable storage. It fails with
// domain.ErrEncodingLoad when the set is empty or any vector does not match
// the expected dimensionality; the process must not start in that state.
func Load(ctx context.Context, repo repository.EmbeddingRepositoryInterface, dim int) (*Store, error) {
	rows, err := repo.ListAll(ctx)
	if err != nil {
		return nil, domain.ErrEncodingLoad.WithError(err)
	}

	if len(rows) == 0 {
		return nil, domain.ErrEncodingLoad.WithError(fmt.Errorf("no reference embeddings enrolled"))
	}

	refs := make(map[string][][]float64)
	for _, row := range rows {
		if len(row.Vector) != dim {
			return nil, domain.ErrEncodingLoad.WithError(
				fmt.Errorf("embedding for %s has dimension %d, expected %d", row.ExternalID, len(row.Vector), dim))
		}
		refs[row.ExternalID] = append(refs[row.ExternalID], row.Vector)
	}

	keys := make([]string, 0, len(refs))
	for k := range refs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return &Store{dim: dim, refs: refs, keys: keys, size: len(rows)}, nil
}

// NewStore builds a store from an in-memory mapping. Used by tests and by
// tooling that already holds the vectors.
func NewStore(dim int, refs map[string][][]float64) (*Store, error) {
	if len(refs) == 0 {
		return nil, domain.ErrEncodingLoad.WithError(fmt.Errorf("no reference embeddings enrolled"))
	}

	copied := make(map[string][][]float64, len(refs))
	keys := make([]string, 0, len(refs))
	size := 0
	for k, vectors := range refs {
		for _, v := range vectors {
			if len(v) != dim {
				return nil, domain.ErrEncodingLoad.WithError(
					fmt.Errorf("embedding for %s has dimension %d, expected %d", k, len(v), dim))
			}
		}
		copied[k] = vectors
		keys = append(keys, k)
		size += len(vectors)
	}
	sort.Strings(keys)

	return &Store{dim: dim, refs: copied, keys: keys, size: size}, nil
}

// Keys returns the identity keys in lexicographic order. Callers must not
// modify the returned slice.
func (s *Store) Keys() []string {
	return s.keys
}

// Embeddings returns the reference vectors for one identity, in enrollment
// order.
func (s *Store) Embeddings(externalID string) [][]float64 {
	return s.refs[externalID]
}

// Dim is the fixed embedding dimensionality.
func (s *Store) Dim() int {
	return s.dim
}

// Identities is the number of distinct enrolled identities.
func (s *Store) Identities() int {
	return len(s.keys)
}

// Size is the total number of reference embeddings.
func (s *Store) Size() int {
	return s.size
}
