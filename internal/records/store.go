// ABOUTME: Ordered fuel entry collection with derived consumption
// ABOUTME: Owns sorting, validation, persistence, and summary statistics

package records

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/harper/fuel/internal/models"
	"github.com/harper/fuel/internal/storage"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/stat"
)

// StorageKey is the blob key the whole collection is persisted under.
const StorageKey = "fuelRecords"

// NewIndex passed to Upsert appends instead of replacing.
const NewIndex = -1

// Candidate is raw user input for a create-or-update.
type Candidate struct {
	Date     string
	Time     string
	Liters   string
	Distance string
}

// Summary is the headline statistic pair.
type Summary struct {
	// AverageConsumption is the mean of defined consumptions, rounded to 2 places.
	AverageConsumption float64 `json:"average_consumption"`
	// Count includes entries with undefined consumption.
	Count int `json:"count"`
}

// Series is the chart input: parallel date labels and consumption values in
// chronological order. Undefined consumption is NaN.
type Series struct {
	Labels []string
	Values []float64
}

// Store is the sorted fuel log. Entries are identified only by their current
// index, which every mutation may change.
type Store struct {
	mu      sync.Mutex
	blob    storage.BlobStore
	log     zerolog.Logger
	entries []models.Entry
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store's logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// New creates an empty store over blob. Call Load to read persisted entries.
func New(blob storage.BlobStore, opts ...Option) *Store {
	s := &Store{
		blob: blob,
		log:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory collection with the persisted one.
// A missing, unreadable, or corrupt blob yields an empty collection. Corruption
// is logged but otherwise undetectable to callers.
func (s *Store) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil

	data, err := s.blob.Get(StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		s.log.Debug().Msg("no persisted entries")
		return
	}
	if err != nil {
		s.log.Warn().Err(err).Msg("read persisted entries failed, starting empty")
		return
	}

	var entries []models.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		s.log.Warn().Err(err).Int("bytes", len(data)).Msg("persisted entries are corrupt, starting empty")
		return
	}
	for i, e := range entries {
		if err := validateStored(e); err != nil {
			s.log.Warn().Err(err).Int("element", i).Msg("persisted entries are corrupt, starting empty")
			return
		}
	}

	sortEntries(entries)
	s.entries = entries
	s.log.Debug().Int("count", len(entries)).Msg("loaded entries")
}

// Upsert validates c and either appends it (targetIndex == NewIndex) or replaces
// the entry at targetIndex. The collection is then re-sorted and persisted.
// On any error nothing changes.
func (s *Store) Upsert(c Candidate, targetIndex int) error {
	entry, err := parseCandidate(c)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if targetIndex != NewIndex {
		if err := s.checkIndex(targetIndex); err != nil {
			return err
		}
	}

	next := slices.Clone(s.entries)
	if targetIndex == NewIndex {
		next = append(next, entry)
	} else {
		next[targetIndex] = entry
	}
	sortEntries(next)

	if err := s.commit(next); err != nil {
		return err
	}
	s.log.Debug().
		Str("date", entry.Date).
		Str("time", entry.Time).
		Int("target", targetIndex).
		Float64("consumption", entry.Consumption).
		Msg("upserted entry")
	return nil
}

// Remove deletes the entry at index and persists. Order is unchanged.
func (s *Store) Remove(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkIndex(index); err != nil {
		return err
	}

	next := slices.Delete(slices.Clone(s.entries), index, index+1)
	if err := s.commit(next); err != nil {
		return err
	}
	s.log.Debug().Int("index", index).Msg("removed entry")
	return nil
}

// Clear drops every entry and erases the persisted blob. Safe to repeat.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.blob.Clear(); err != nil {
		return fmt.Errorf("clear storage: %w", err)
	}
	s.entries = nil
	s.log.Debug().Msg("cleared entries")
	return nil
}

// Replace swaps the whole collection for entries, recomputing consumption.
// Every entry must carry a valid date; time may be empty for legacy data.
func (s *Store) Replace(entries []models.Entry) error {
	next := make([]models.Entry, 0, len(entries))
	for i, e := range entries {
		if err := validateStored(e); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		next = append(next, models.NewEntry(e.Date, e.Time, e.Liters, e.Distance))
	}
	sortEntries(next)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.commit(next); err != nil {
		return err
	}
	s.log.Debug().Int("count", len(next)).Msg("replaced entries")
	return nil
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Entries returns a copy of the sorted collection.
func (s *Store) Entries() []models.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.entries)
}

// Entry returns the entry at index, for pre-filling an edit.
func (s *Store) Entry(index int) (models.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkIndex(index); err != nil {
		return models.Entry{}, err
	}
	return s.entries[index], nil
}

// Summary averages defined consumptions and counts every entry.
func (s *Store) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := make([]float64, 0, len(s.entries))
	for _, e := range s.entries {
		if e.HasConsumption() {
			values = append(values, e.Consumption)
		}
	}

	sum := Summary{Count: len(s.entries)}
	if len(values) > 0 {
		sum.AverageConsumption = models.Round2(stat.Mean(values, nil))
	}
	return sum
}

// Series returns chart input in chronological order.
func (s *Store) Series() Series {
	s.mu.Lock()
	defer s.mu.Unlock()

	series := Series{
		Labels: make([]string, len(s.entries)),
		Values: make([]float64, len(s.entries)),
	}
	for i, e := range s.entries {
		series.Labels[i] = e.Date
		series.Values[i] = e.Consumption
	}
	return series
}

// Totals sums liters and distance for export.
func (s *Store) Totals() models.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()

	var t models.Totals
	for _, e := range s.entries {
		t.TotalLiters += e.Liters
		t.TotalKm += e.Distance
	}
	if t.TotalLiters != 0 {
		t.AverageConsumption = t.TotalKm / t.TotalLiters
	}
	return t
}

// Close releases the underlying blob store.
func (s *Store) Close() error {
	return s.blob.Close()
}

// commit persists next and only then adopts it. Caller holds mu.
func (s *Store) commit(next []models.Entry) error {
	if next == nil {
		next = []models.Entry{}
	}
	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode entries: %w", err)
	}
	if err := s.blob.Set(StorageKey, data); err != nil {
		return fmt.Errorf("persist entries: %w", err)
	}
	s.entries = next
	return nil
}

// checkIndex validates index against the current collection. Caller holds mu.
func (s *Store) checkIndex(index int) error {
	if index < 0 || index >= len(s.entries) {
		return &IndexOutOfRangeError{Index: index, Len: len(s.entries)}
	}
	return nil
}

// sortEntries orders by date+time. Stable: equal keys keep their prior order,
// so an appended entry lands after existing entries with the same key.
func sortEntries(entries []models.Entry) {
	slices.SortStableFunc(entries, func(a, b models.Entry) int {
		return strings.Compare(a.SortKey(), b.SortKey())
	})
}

func parseCandidate(c Candidate) (models.Entry, error) {
	date := strings.TrimSpace(c.Date)
	if err := models.ValidateDate(date); err != nil {
		return models.Entry{}, &InvalidInputError{Field: "date", Reason: err.Error()}
	}
	clock := strings.TrimSpace(c.Time)
	if err := models.ValidateTime(clock); err != nil {
		return models.Entry{}, &InvalidInputError{Field: "time", Reason: err.Error()}
	}
	liters, err := parseQuantity("liters", c.Liters)
	if err != nil {
		return models.Entry{}, err
	}
	distance, err := parseQuantity("distance", c.Distance)
	if err != nil {
		return models.Entry{}, err
	}
	return models.NewEntry(date, clock, liters, distance), nil
}

func parseQuantity(field, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, &InvalidInputError{Field: field, Reason: "cannot be empty"}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &InvalidInputError{Field: field, Reason: fmt.Sprintf("%q is not a number", raw)}
	}
	if err := models.ValidateQuantity(v); err != nil {
		return 0, &InvalidInputError{Field: field, Reason: err.Error()}
	}
	return v, nil
}

func validateStored(e models.Entry) error {
	if err := models.ValidateDate(e.Date); err != nil {
		return &InvalidInputError{Field: "date", Reason: err.Error()}
	}
	if e.Time != "" {
		if err := models.ValidateTime(e.Time); err != nil {
			return &InvalidInputError{Field: "time", Reason: err.Error()}
		}
	}
	if err := models.ValidateQuantity(e.Liters); err != nil {
		return &InvalidInputError{Field: "liters", Reason: err.Error()}
	}
	if err := models.ValidateQuantity(e.Distance); err != nil {
		return &InvalidInputError{Field: "distance", Reason: err.Error()}
	}
	return nil
}
