// Package directory presents a filtered, read-only view over the job
// postings fetched from the platform. Filtering is a pure function over the
// loaded snapshot: no network, no mutation, original order preserved.
package directory

import (
	"context"
	"strings"

	"github.com/aim-ba/ravenlink/internal/model"
)

// AllTypes is the sentinel type value that disables type filtering.
const AllTypes = "all"

// Criteria holds the current search inputs. Zero value means "no filter"
// beyond the implicit active-only rule.
type Criteria struct {
	SearchText   string // matched case-insensitively against title/company/location
	SelectedType string // AllTypes or an exact match against JobPosting.Type
}

// Loader fetches the full posting collection.
type Loader interface {
	ListJobs(ctx context.Context) ([]model.JobPosting, error)
}

// Cache holds posting snapshots between runs. Optional; a nil Cache is a
// valid configuration.
type Cache interface {
	GetJobs(ctx context.Context) ([]model.JobPosting, bool)
	SetJobs(ctx context.Context, postings []model.JobPosting) error
}

// Directory owns the loaded posting snapshot. Consumers treat the snapshot
// as read-only.
type Directory struct {
	loader   Loader
	cache    Cache
	postings []model.JobPosting
	loaded   bool
}

func New(loader Loader, cache Cache) *Directory {
	return &Directory{loader: loader, cache: cache}
}

// Load populates the snapshot, cache-first when a cache is configured. On a
// fetch failure the prior snapshot (or empty, on first load) is kept and the
// error is returned; there is no automatic retry.
func (d *Directory) Load(ctx context.Context) error {
	if d.cache != nil {
		if postings, ok := d.cache.GetJobs(ctx); ok {
			d.postings = postings
			d.loaded = true
			return nil
		}
	}

	postings, err := d.loader.ListJobs(ctx)
	if err != nil {
		return err
	}

	d.postings = postings
	d.loaded = true
	if d.cache != nil {
		// Best effort; an unreachable cache never fails a load.
		_ = d.cache.SetJobs(ctx, postings)
	}
	return nil
}

// Loaded reports whether a collection has been loaded at least once.
func (d *Directory) Loaded() bool {
	return d.loaded
}

// Postings returns the current snapshot in fetch order.
func (d *Directory) Postings() []model.JobPosting {
	return d.postings
}

// Filter applies c to the loaded snapshot.
func (d *Directory) Filter(c Criteria) []model.JobPosting {
	return Filter(d.postings, c)
}

// Types returns the selectable type values for the loaded snapshot.
func (d *Directory) Types() []string {
	return DistinctTypes(d.postings)
}

// Filter returns the ordered subsequence of postings matching c. Inactive
// postings are always excluded. Search text is substring-matched, not
// tokenized; whitespace-only search means no search filter.
func Filter(postings []model.JobPosting, c Criteria) []model.JobPosting {
	search := strings.ToLower(strings.TrimSpace(c.SearchText))
	byType := c.SelectedType != "" && c.SelectedType != AllTypes

	result := make([]model.JobPosting, 0, len(postings))
	for _, p := range postings {
		if !p.IsActive {
			continue
		}
		if search != "" && !p.MatchesSearch(search) {
			continue
		}
		if byType && p.Type != c.SelectedType {
			continue
		}
		result = append(result, p)
	}
	return result
}

// DistinctTypes derives the selectable type values: AllTypes first, then
// every posting type in first-seen order.
func DistinctTypes(postings []model.JobPosting) []string {
	types := []string{AllTypes}
	seen := make(map[string]bool)
	for _, p := range postings {
		if p.Type == "" || seen[p.Type] {
			continue
		}
		seen[p.Type] = true
		types = append(types, p.Type)
	}
	return types
}
