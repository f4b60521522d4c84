// Package sources keeps the catalogs the activity form picks from: named
// locations with an image, leaders and groups.
package sources

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/klabast/wb-services/programacao/internal/kv"
	"github.com/klabast/wb-services/programacao/internal/observability"
)

// Catalog names, used in errors and metrics.
const (
	CatalogLocations = "locations"
	CatalogLeaders   = "leaders"
	CatalogGroups    = "groups"
)

var (
	// ErrEmptyName is returned for a blank name.
	ErrEmptyName = errors.New("name is required")
	// ErrDuplicate is returned when a catalog already holds the name,
	// compared case-insensitively.
	ErrDuplicate = errors.New("name already registered")
)

// LocationOrder selects how the location catalog is ordered.
type LocationOrder string

const (
	OrderAlphabetical LocationOrder = "alphabetical"
	OrderInsertion    LocationOrder = "insertion"
)

// ParseLocationOrder accepts "alphabetical" or "insertion"; empty means
// alphabetical.
func ParseLocationOrder(s string) (LocationOrder, error) {
	switch LocationOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", OrderAlphabetical:
		return OrderAlphabetical, nil
	case OrderInsertion:
		return OrderInsertion, nil
	}
	return "", fmt.Errorf("unknown location order %q", s)
}

// Location is a named place with a representative image.
type Location struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for persistence failures.
func WithLogger(logger *log.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithLocationOrder sets the location ordering policy.
func WithLocationOrder(order LocationOrder) Option {
	return func(r *Registry) {
		r.order = order
	}
}

// Registry holds the three catalogs and writes each one through to the
// backing store under its own key.
type Registry struct {
	mu        sync.RWMutex
	locations []Location
	leaders   []string
	groups    []string

	backing  kv.Store
	order    LocationOrder
	collator *collate.Collator
	logger   *log.Logger
	timeout  time.Duration
}

// NewRegistry builds a Registry holding the built-in catalogs. backing may
// be nil.
func NewRegistry(backing kv.Store, opts ...Option) *Registry {
	r := &Registry{
		backing:  backing,
		order:    OrderAlphabetical,
		collator: collate.New(language.BrazilianPortuguese, collate.IgnoreCase),
		logger:   log.Default(),
		timeout:  5 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.resetToDefaults()
	return r
}

func (r *Registry) resetToDefaults() {
	r.locations = slices.Clone(defaultLocations)
	r.sortLocations(r.locations)
	r.leaders = slices.Clone(defaultLeaders)
	r.collator.SortStrings(r.leaders)
	r.groups = slices.Clone(defaultGroups)
	r.collator.SortStrings(r.groups)
}

// Load reads every catalog from the backing store. A catalog whose key is
// absent keeps its built-in contents.
func (r *Registry) Load(ctx context.Context) error {
	if r.backing == nil {
		return nil
	}

	var (
		locations []Location
		leaders   []string
		groups    []string
	)
	foundLocations, err := kv.LoadJSON(ctx, r.backing, kv.KeyLocations, &locations)
	if err != nil {
		return err
	}
	foundLeaders, err := kv.LoadJSON(ctx, r.backing, kv.KeyLeaders, &leaders)
	if err != nil {
		return err
	}
	foundGroups, err := kv.LoadJSON(ctx, r.backing, kv.KeyGroups, &groups)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.resetToDefaults()
	if foundLocations {
		r.locations = nonNil(locations)
	}
	if foundLeaders {
		r.leaders = nonNil(leaders)
	}
	if foundGroups {
		r.groups = nonNil(groups)
	}
	return nil
}

// AddLocation registers a location. imageURL is usually a data URL produced
// by IngestImage.
func (r *Registry) AddLocation(name, imageURL string) (Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		observability.RecordRejection(CatalogLocations, "empty")
		return Location{}, fmt.Errorf("%s: %w", CatalogLocations, ErrEmptyName)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, l := range r.locations {
		if strings.EqualFold(l.Name, name) {
			observability.RecordRejection(CatalogLocations, "duplicate")
			return Location{}, fmt.Errorf("%s: %w: %s", CatalogLocations, ErrDuplicate, name)
		}
	}

	loc := Location{ID: uuid.NewString(), Name: name, ImageURL: imageURL}
	r.locations = append(r.locations, loc)
	r.sortLocations(r.locations)
	r.persistLocked(kv.KeyLocations, r.locations)
	return loc, nil
}

// RemoveLocation deletes a location by id. Activities that reference it keep
// their stored image.
func (r *Registry) RemoveLocation(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := slices.IndexFunc(r.locations, func(l Location) bool { return l.ID == id })
	if idx < 0 {
		return false
	}
	r.locations = slices.Delete(r.locations, idx, idx+1)
	r.persistLocked(kv.KeyLocations, r.locations)
	return true
}

// AddLeader registers a leader name.
func (r *Registry) AddLeader(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	names, err := r.addNameLocked(CatalogLeaders, r.leaders, name)
	if err != nil {
		return err
	}
	r.leaders = names
	r.persistLocked(kv.KeyLeaders, r.leaders)
	return nil
}

// RemoveLeader deletes a leader by exact name.
func (r *Registry) RemoveLeader(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	names, ok := removeName(r.leaders, name)
	if !ok {
		return false
	}
	r.leaders = names
	r.persistLocked(kv.KeyLeaders, r.leaders)
	return true
}

// AddGroup registers a group name.
func (r *Registry) AddGroup(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	names, err := r.addNameLocked(CatalogGroups, r.groups, name)
	if err != nil {
		return err
	}
	r.groups = names
	r.persistLocked(kv.KeyGroups, r.groups)
	return nil
}

// RemoveGroup deletes a group by exact name.
func (r *Registry) RemoveGroup(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	names, ok := removeName(r.groups, name)
	if !ok {
		return false
	}
	r.groups = names
	r.persistLocked(kv.KeyGroups, r.groups)
	return true
}

// Locations returns a copy of the location catalog.
func (r *Registry) Locations() []Location {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.locations)
}

// Leaders returns a copy of the leader catalog.
func (r *Registry) Leaders() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.leaders)
}

// Groups returns a copy of the group catalog.
func (r *Registry) Groups() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.groups)
}

// ImageFor returns the image of the location with exactly this name.
func (r *Registry) ImageFor(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, l := range r.locations {
		if l.Name == name {
			return l.ImageURL, true
		}
	}
	return "", false
}

func (r *Registry) addNameLocked(catalog string, names []string, name string) ([]string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		observability.RecordRejection(catalog, "empty")
		return nil, fmt.Errorf("%s: %w", catalog, ErrEmptyName)
	}
	for _, existing := range names {
		if strings.EqualFold(existing, name) {
			observability.RecordRejection(catalog, "duplicate")
			return nil, fmt.Errorf("%s: %w: %s", catalog, ErrDuplicate, name)
		}
	}
	out := append(slices.Clone(names), name)
	r.collator.SortStrings(out)
	return out, nil
}

func (r *Registry) sortLocations(locations []Location) {
	if r.order != OrderAlphabetical {
		return
	}
	sort.SliceStable(locations, func(i, j int) bool {
		return r.collator.CompareString(locations[i].Name, locations[j].Name) < 0
	})
}

func (r *Registry) persistLocked(key string, v any) {
	if r.backing == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	if err := kv.SaveJSON(ctx, r.backing, key, v); err != nil {
		observability.RecordPersistFailure(key)
		r.logger.Printf("Error persisting %s: %v", key, err)
	}
}

func removeName(names []string, name string) ([]string, bool) {
	idx := slices.Index(names, name)
	if idx < 0 {
		return names, false
	}
	return slices.Delete(slices.Clone(names), idx, idx+1), true
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
