// Package repository holds the authoritative in-memory collection of sets.
//
// Every mutation goes through one of Create, Delete or AppendSession and is
// followed by a full snapshot write to the key-value store. The cached
// CurrentBag and Status fields are recomputed here and nowhere else.
package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"bricktrack/internal/aggregate"
	"bricktrack/internal/logging"
	"bricktrack/internal/model"
	"bricktrack/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultName is used when a draft has no name.
const DefaultName = "Unnamed Set"

// Options configures a Repository. Zero values pick production defaults.
type Options struct {
	Logger *zap.Logger
	Now    func() time.Time
	NewID  func() string
}

// Repository is the ordered, newest-first collection of sets plus the
// active selection.
type Repository struct {
	mu       sync.RWMutex
	store    storage.Store
	log      *zap.Logger
	now      func() time.Time
	newID    func() string
	sets     []model.Set
	activeID string
}

// Load builds a repository from the snapshot in store. A missing or
// unreadable snapshot is logged and the repository starts empty.
func Load(store storage.Store, opts Options) *Repository {
	r := &Repository{
		store: store,
		log:   logging.OrNop(opts.Logger),
		now:   opts.Now,
		newID: opts.NewID,
		sets:  []model.Set{},
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.newID == nil {
		r.newID = uuid.NewString
	}
	if store == nil {
		return r
	}

	data, err := store.Get(storage.SetsKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			r.log.Error("failed to load sets", zap.Error(err))
		}
		return r
	}
	sets, err := Decode(data)
	if err != nil {
		r.log.Error("failed to parse sets, starting empty", zap.Error(err))
		return r
	}
	for i := range sets {
		if repairCache(&sets[i]) {
			r.log.Debug("repaired derived fields", zap.String("set", sets[i].ID))
		}
	}
	r.sets = sets
	r.log.Info("sets loaded", zap.Int("count", len(sets)))
	return r
}

// Decode parses a serialized collection. Null session lists become empty.
func Decode(data []byte) ([]model.Set, error) {
	var sets []model.Set
	if err := json.Unmarshal(data, &sets); err != nil {
		return nil, fmt.Errorf("decode sets: %w", err)
	}
	if sets == nil {
		sets = []model.Set{}
	}
	for i := range sets {
		if sets[i].Sessions == nil {
			sets[i].Sessions = []model.Session{}
		}
	}
	return sets, nil
}

// Encode serializes a collection as the JSON array stored under SetsKey.
func Encode(sets []model.Set) ([]byte, error) {
	if sets == nil {
		sets = []model.Set{}
	}
	data, err := json.Marshal(sets)
	if err != nil {
		return nil, fmt.Errorf("encode sets: %w", err)
	}
	return data, nil
}

func repairCache(s *model.Set) bool {
	changed := false
	if s.TotalBags < 1 {
		s.TotalBags = 1
		changed = true
	}
	current := aggregate.CurrentBagWatermark(s.Sessions)
	status := aggregate.DeriveStatus(current, s.TotalBags)
	if s.CurrentBag != current || s.Status != status {
		s.CurrentBag = current
		s.Status = status
		changed = true
	}
	return changed
}

// Create adds a set built from draft at the front of the collection.
// Unparseable numbers fall back to 0 pieces and 1 bag. The returned error
// only reports a failed snapshot write; the set is kept in memory either way.
func (r *Repository) Create(draft model.Draft) (model.Set, error) {
	name := strings.TrimSpace(draft.Name)
	if name == "" {
		name = DefaultName
	}
	set := model.Set{
		ID:          r.newID(),
		Name:        name,
		SetNumber:   strings.TrimSpace(draft.SetNumber),
		TotalPieces: draft.Pieces(),
		TotalBags:   draft.Bags(),
		Image:       strings.TrimSpace(draft.ImageURL),
		Status:      model.StatusPlanning,
		Sessions:    []model.Session{},
		CurrentBag:  0,
		CreatedAt:   model.Now(r.now()),
		Theme:       strings.TrimSpace(draft.Theme),
	}

	r.mu.Lock()
	r.sets = append([]model.Set{set}, r.sets...)
	err := r.persistLocked()
	r.mu.Unlock()

	r.log.Info("set created", zap.String("id", set.ID), zap.String("name", set.Name))
	return set.Clone(), err
}

// Delete removes the set with id and clears the selection if it pointed at
// it. Unknown ids are a no-op.
func (r *Repository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexLocked(id)
	if idx < 0 {
		return nil
	}
	r.sets = append(r.sets[:idx:idx], r.sets[idx+1:]...)
	if r.activeID == id {
		r.activeID = ""
	}
	r.log.Info("set deleted", zap.String("id", id))
	return r.persistLocked()
}

// AppendSession logs one bag for the set with id and recomputes the cached
// watermark and status. It reports false when id does not name a set.
func (r *Repository) AppendSession(id string, bagNumber, durationSeconds int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexLocked(id)
	if idx < 0 {
		return false, nil
	}
	if bagNumber < 1 {
		bagNumber = 1
	}
	if durationSeconds < 0 {
		durationSeconds = 0
	}

	set := r.sets[idx].Clone()
	set.Sessions = append(set.Sessions, model.Session{
		BagNumber:         bagNumber,
		DurationInSeconds: durationSeconds,
		Timestamp:         model.Now(r.now()),
	})
	set.CurrentBag = aggregate.CurrentBagWatermark(set.Sessions)
	set.Status = aggregate.DeriveStatus(set.CurrentBag, set.TotalBags)
	r.sets[idx] = set

	r.log.Info("bag logged",
		zap.String("set", id),
		zap.Int("bag", bagNumber),
		zap.Int("seconds", durationSeconds),
		zap.String("status", string(set.Status)))
	return true, r.persistLocked()
}

// List returns copies of every set, newest created first.
func (r *Repository) List() []model.Set {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.Set, 0, len(r.sets))
	for _, s := range r.sets {
		out = append(out, s.Clone())
	}
	return out
}

// Get returns a copy of the set with id.
func (r *Repository) Get(id string) (model.Set, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	idx := r.indexLocked(id)
	if idx < 0 {
		return model.Set{}, false
	}
	return r.sets[idx].Clone(), true
}

// Len is the number of sets.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sets)
}

// Select makes id the active set. An empty id clears the selection; an
// unknown id leaves the selection unchanged and reports false.
func (r *Repository) Select(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if id == "" {
		r.activeID = ""
		return true
	}
	if r.indexLocked(id) < 0 {
		return false
	}
	r.activeID = id
	return true
}

// ActiveID is the selected set's id, or "".
func (r *Repository) ActiveID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.activeID
}

// Active returns the selected set.
func (r *Repository) Active() (model.Set, bool) {
	id := r.ActiveID()
	if id == "" {
		return model.Set{}, false
	}
	return r.Get(id)
}

// Close writes a final snapshot.
func (r *Repository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.persistLocked()
}

func (r *Repository) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i := range r.sets {
		if r.sets[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *Repository) persistLocked() error {
	if r.store == nil {
		return nil
	}
	data, err := Encode(r.sets)
	if err != nil {
		r.log.Error("failed to encode sets", zap.Error(err))
		return err
	}
	if err := r.store.Put(storage.SetsKey, data); err != nil {
		r.log.Error("failed to save sets", zap.Error(err))
		return fmt.Errorf("save sets: %w", err)
	}
	return nil
}
