// Package store persists named scenarios. It is a hybrid vault: Postgres is
// the primary when a pool is configured, with a file-system directory as the
// local fallback. Durability is best-effort by contract; the store does no
// retry, locking, or cross-writer arbitration.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mixeduse_planner/pkg/core/scenario"
	"mixeduse_planner/pkg/core/utils"
)

// ErrNotFound reports an absent scenario name. Callers surface it as the
// empty / "create new" state rather than a failure.
var ErrNotFound = errors.New("scenario not found")

// ScenarioStore saves and loads scenarios by name.
// If pool is nil it falls back to one JSON document per scenario under dir.
type ScenarioStore struct {
	pool    *pgxpool.Pool
	fileDir string
}

// Entry wraps a scenario on the file backend with bookkeeping metadata.
type Entry struct {
	Name     string             `json:"name"`
	SavedAt  time.Time          `json:"saved_at"`
	Scenario *scenario.Scenario `json:"scenario"`
}

// NewScenarioStore creates a store. When pool is nil and dir is empty, the
// default local directory is used.
func NewScenarioStore(pool *pgxpool.Pool, dir string) *ScenarioStore {
	if pool == nil && dir == "" {
		dir = filepath.Join(".data", "scenarios")
	}
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			fmt.Printf("[WARNING] Check scenario dir: %v\n", err)
		}
	}
	return &ScenarioStore{pool: pool, fileDir: dir}
}

// Save persists the scenario under its name, replacing any previous snapshot.
// The file backend writes whole-file atomically (temp file + rename) so a
// concurrent reader never observes a partial document.
func (s *ScenarioStore) Save(ctx context.Context, sc *scenario.Scenario) error {
	if sc == nil || sc.Name == "" {
		return fmt.Errorf("cannot save a scenario without a name")
	}
	if err := sc.Validate(); err != nil {
		return err
	}

	if s.pool != nil {
		data, err := json.Marshal(sc)
		if err != nil {
			return fmt.Errorf("failed to marshal scenario: %w", err)
		}
		query := `
			INSERT INTO scenarios (id, name, data, created_at, updated_at)
			VALUES ($1, $2, $3, NOW(), NOW())
			ON CONFLICT (name)
			DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
		`
		if _, err := s.pool.Exec(ctx, query, sc.ID, sc.Name, data); err != nil {
			return fmt.Errorf("failed to save scenario to db: %w", err)
		}
		return nil
	}

	entry := Entry{Name: sc.Name, SavedAt: time.Now(), Scenario: sc}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal scenario: %w", err)
	}

	path := s.scenarioPath(sc.Name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write scenario file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to finalize scenario file: %w", err)
	}
	return nil
}

// Load retrieves a scenario by name, or ErrNotFound.
func (s *ScenarioStore) Load(ctx context.Context, name string) (*scenario.Scenario, error) {
	if s.pool != nil {
		var data []byte
		err := s.pool.QueryRow(ctx, `SELECT data FROM scenarios WHERE name = $1 LIMIT 1`, name).Scan(&data)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, ErrNotFound
			}
			return nil, fmt.Errorf("failed to load scenario from db: %w", err)
		}
		return decodeScenario(data)
	}

	// File backend: prefer .json, accept hand-edited .hjson.
	path := s.scenarioPath(name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s.loadHJSON(name)
		}
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err == nil && entry.Scenario != nil {
		entry.Scenario.Normalize()
		return entry.Scenario, nil
	}
	// Fallback: a bare scenario document with no entry wrapper.
	return decodeScenario(data)
}

// List returns the sorted names of all saved scenarios.
func (s *ScenarioStore) List(ctx context.Context) ([]string, error) {
	if s.pool != nil {
		rows, err := s.pool.Query(ctx, `SELECT name FROM scenarios ORDER BY name`)
		if err != nil {
			return nil, fmt.Errorf("failed to list scenarios: %w", err)
		}
		defer rows.Close()
		var names []string
		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				return nil, fmt.Errorf("failed to scan scenario name: %w", err)
			}
			names = append(names, name)
		}
		return names, rows.Err()
	}

	files, err := os.ReadDir(s.fileDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario dir: %w", err)
	}
	// A name can be backed by both a .json and a .hjson file; list it once.
	seen := make(map[string]bool)
	var names []string
	for _, f := range files {
		ext := filepath.Ext(f.Name())
		if ext != ".json" && ext != ".hjson" {
			continue
		}
		name := strings.TrimSuffix(f.Name(), ext)
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes a saved scenario, or returns ErrNotFound.
func (s *ScenarioStore) Delete(ctx context.Context, name string) error {
	if s.pool != nil {
		tag, err := s.pool.Exec(ctx, `DELETE FROM scenarios WHERE name = $1`, name)
		if err != nil {
			return fmt.Errorf("failed to delete scenario: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrNotFound
		}
		return nil
	}

	err := os.Remove(s.scenarioPath(name))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete scenario file: %w", err)
	}
	return nil
}

// Exists reports whether a scenario name is saved.
func (s *ScenarioStore) Exists(ctx context.Context, name string) bool {
	_, err := s.Load(ctx, name)
	return err == nil
}

func (s *ScenarioStore) scenarioPath(name string) string {
	return filepath.Join(s.fileDir, sanitizeName(name)+".json")
}

// loadHJSON reads a hand-edited scenario in HJSON form (comments, unquoted
// keys) and converts it to the standard wire format before decoding.
// A missing file is ErrNotFound; a present but broken file keeps its
// original error so the caller can tell the two apart.
func (s *ScenarioStore) loadHJSON(name string) (*scenario.Scenario, error) {
	data, err := os.ReadFile(filepath.Join(s.fileDir, sanitizeName(name)+".hjson"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	jsonStr, err := utils.ParseHJSON(string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse hjson scenario: %w", err)
	}
	return decodeScenario([]byte(jsonStr))
}

func decodeScenario(data []byte) (*scenario.Scenario, error) {
	var sc scenario.Scenario
	if err := json.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scenario: %w", err)
	}
	sc.Normalize()
	return &sc, nil
}

// sanitizeName keeps scenario names filesystem-safe without losing
// uniqueness for ordinary names.
func sanitizeName(name string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", "..", "_", " ", "_")
	return replacer.Replace(name)
}
