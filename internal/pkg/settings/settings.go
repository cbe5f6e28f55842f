package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/pinwager/pinwager/internal/pkg/enums"
)

func init() {
	// The settings file and /showconfig output carry plain JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// Settings holds the operator-tunable risk controls. Read by the parser on
// every tip, written only by operator commands.
type Settings struct {
	BaseStake     decimal.Decimal `json:"base_stake"`
	MinStake      decimal.Decimal `json:"min_stake"`
	OddsTolerance decimal.Decimal `json:"odds_tolerance"`
	AllowTennis   bool            `json:"allow_tennis"`
	AllowFootball bool            `json:"allow_football"`
}

// Defaults returns the settings used when no file exists yet
func Defaults() Settings {
	return Settings{
		BaseStake:     decimal.NewFromInt(5),
		MinStake:      decimal.NewFromInt(5),
		OddsTolerance: decimal.NewFromFloat(0.01),
		AllowTennis:   true,
		AllowFootball: true,
	}
}

// Validate checks the settings invariants
func (s Settings) Validate() error {
	if !s.MinStake.IsPositive() {
		return fmt.Errorf("min_stake must be positive, got %s", s.MinStake)
	}
	if s.OddsTolerance.IsNegative() {
		return fmt.Errorf("odds_tolerance must not be negative, got %s", s.OddsTolerance)
	}
	return nil
}

// Allows reports whether betting on the sport is enabled
func (s Settings) Allows(sport enums.Sport) bool {
	switch sport {
	case enums.Tennis:
		return s.AllowTennis
	case enums.Football:
		return s.AllowFootball
	default:
		return false
	}
}

// Store owns the single mutable Settings instance and its file persistence.
// All writes go through Update so in-memory state and the file never diverge.
type Store struct {
	mu      sync.Mutex
	path    string
	current Settings
}

// Load reads the settings file, falling back to defaults when it is absent
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var s Settings
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, fmt.Errorf("failed to parse settings file: %w", err)
		}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("invalid settings file: %w", err)
		}
		return &Store{path: path, current: s}, nil
	case errors.Is(err, fs.ErrNotExist):
		return &Store{path: path, current: Defaults()}, nil
	default:
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}
}

// Get returns a copy of the current settings
func (st *Store) Get() Settings {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.current
}

// Update applies fn to a copy of the current settings, validates the result
// and persists it. In-memory state changes only after the write succeeds.
func (st *Store) Update(fn func(*Settings)) (Settings, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	next := st.current
	fn(&next)

	if err := next.Validate(); err != nil {
		return st.current, err
	}
	if err := persist(st.path, next); err != nil {
		return st.current, fmt.Errorf("failed to persist settings: %w", err)
	}

	st.current = next
	return next, nil
}

// persist writes through a temp file + rename so a crash mid-write cannot
// leave a truncated settings file behind.
func persist(path string, s Settings) error {
	data, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
