package schedule

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/klabast/wb-services/programacao/internal/kv"
	"github.com/klabast/wb-services/programacao/internal/observability"
)

// DefaultPlaceholderTemplate yields a random stock photo; {seed} is replaced
// per activity.
const DefaultPlaceholderTemplate = "https://picsum.photos/seed/{seed}/400/300"

const defaultWriteTimeout = 5 * time.Second

// ImageResolver finds the image of a registered location by exact name.
type ImageResolver interface {
	ImageFor(location string) (string, bool)
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for persistence failures.
func WithLogger(logger *log.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithPlaceholderTemplate sets the placeholder image URL template.
func WithPlaceholderTemplate(template string) Option {
	return func(s *Store) {
		if template != "" {
			s.placeholder = PlaceholderFunc(template)
		}
	}
}

// WithIDGenerator replaces the uuid id generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

// PlaceholderFunc returns a generator that substitutes a fresh random seed
// into template.
func PlaceholderFunc(template string) func() string {
	return func() string {
		return strings.ReplaceAll(template, "{seed}", uuid.NewString())
	}
}

// Store holds the activity collection in canonical order and writes it
// through to the backing store after every mutation.
type Store struct {
	mu         sync.RWMutex
	activities []Activity

	backing     kv.Store
	images      ImageResolver
	placeholder func() string
	newID       func() string
	logger      *log.Logger
	timeout     time.Duration
}

// NewStore builds an empty Store. backing and images may be nil.
func NewStore(backing kv.Store, images ImageResolver, opts ...Option) *Store {
	s := &Store{
		activities:  []Activity{},
		backing:     backing,
		images:      images,
		placeholder: PlaceholderFunc(DefaultPlaceholderTemplate),
		newID:       uuid.NewString,
		logger:      log.Default(),
		timeout:     defaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory collection with the persisted one. A missing
// key leaves the store empty.
func (s *Store) Load(ctx context.Context) error {
	if s.backing == nil {
		return nil
	}
	var loaded []Activity
	if _, err := kv.LoadJSON(ctx, s.backing, kv.KeyActivities, &loaded); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.activities = SortActivities(loaded)
	return nil
}

// Add creates an activity with a fresh id and inserts it in order.
func (s *Store) Add(in Input) (Activity, error) {
	in = in.WithDefaults()
	if err := in.Validate(); err != nil {
		return Activity{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	activity := Activity{
		ID:       s.newID(),
		Day:      in.Day,
		Time:     in.Time,
		Location: in.Location,
		Leader:   in.Leader,
		Group:    in.Group,
		ImageURL: s.resolveImage(in.Location),
	}
	s.activities = SortActivities(append(s.activities, activity))
	s.persistLocked()
	observability.RecordMutation("add")
	return activity, nil
}

// Update replaces the fields of the activity with the given id. An unknown
// id is a silent no-op and reports false. The stored image is kept when the
// location is unchanged.
func (s *Store) Update(id string, in Input) (Activity, bool, error) {
	in = in.WithDefaults()
	if err := in.Validate(); err != nil {
		return Activity{}, false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return Activity{}, false, nil
	}

	current := s.activities[idx]
	image := current.ImageURL
	if in.Location != current.Location {
		image = s.resolveImage(in.Location)
	}

	updated := Activity{
		ID:       current.ID,
		Day:      in.Day,
		Time:     in.Time,
		Location: in.Location,
		Leader:   in.Leader,
		Group:    in.Group,
		ImageURL: image,
	}
	s.activities[idx] = updated
	s.activities = SortActivities(s.activities)
	s.persistLocked()
	observability.RecordMutation("update")
	return updated, true, nil
}

// Remove deletes the activity with the given id. Removing an absent id is a
// no-op that reports false.
func (s *Store) Remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexLocked(id)
	if idx < 0 {
		return false
	}
	s.activities = append(s.activities[:idx], s.activities[idx+1:]...)
	s.persistLocked()
	observability.RecordMutation("remove")
	return true
}

// ResetAll clears the whole collection.
func (s *Store) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.activities = []Activity{}
	s.persistLocked()
	observability.RecordMutation("reset")
}

// List returns a copy of the collection in canonical order.
func (s *Store) List() []Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Activity, len(s.activities))
	copy(out, s.activities)
	return out
}

// Get returns the activity with the given id.
func (s *Store) Get(id string) (Activity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.indexLocked(id); idx >= 0 {
		return s.activities[idx], true
	}
	return Activity{}, false
}

// Len returns the number of activities.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.activities)
}

func (s *Store) indexLocked(id string) int {
	for i, a := range s.activities {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) resolveImage(location string) string {
	if s.images != nil {
		if url, ok := s.images.ImageFor(location); ok {
			return url
		}
	}
	return s.placeholder()
}

// persistLocked writes the collection through. Failures are logged and
// counted; the in-memory state stays as mutated.
func (s *Store) persistLocked() {
	if s.backing == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if err := kv.SaveJSON(ctx, s.backing, kv.KeyActivities, s.activities); err != nil {
		observability.RecordPersistFailure(kv.KeyActivities)
		s.logger.Printf("Error persisting activities: %v", err)
	}
}
