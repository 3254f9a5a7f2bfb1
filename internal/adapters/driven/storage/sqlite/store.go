package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/worklens/worklens/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/worklens/worklens/internal/core/domain"
	"github.com/worklens/worklens/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// all metadata store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.worklens/data/worklens.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".worklens", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "worklens.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// ContextStore returns a ContextStore interface backed by this store.
func (s *Store) ContextStore() driven.ContextStore {
	return &contextStore{store: s}
}

// IntegrationStore returns an IntegrationStore interface backed by this store.
func (s *Store) IntegrationStore() driven.IntegrationStore {
	return &integrationStore{store: s}
}

// SyncStateStore returns a SyncStateStore interface backed by this store.
func (s *Store) SyncStateStore() driven.SyncStateStore {
	return &syncStateStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(
			"INSERT INTO schema_migrations (version) VALUES (?)", version,
		); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Context Store ====================

// contextStore implements driven.ContextStore.
type contextStore struct {
	store *Store
}

var _ driven.ContextStore = (*contextStore)(nil)

// Upsert inserts or updates a Context keyed by (owner, source, source_id).
// Immutable source kinds keep the first ingested row.
func (s *contextStore) Upsert(ctx context.Context, record *domain.Context) error {
	if record.Owner == "" || record.SourceID == "" || !record.Source.IsValid() {
		return domain.ErrInvalidInput
	}

	attributesJSON, err := json.Marshal(record.Attributes)
	if err != nil {
		return fmt.Errorf("marshalling attributes: %w", err)
	}

	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	if record.UpdatedAt.IsZero() {
		record.UpdatedAt = now
	}

	conflict := `
		ON CONFLICT(owner, source, source_id) DO UPDATE SET
			title = excluded.title,
			body = excluded.body,
			external_url = excluded.external_url,
			attributes = excluded.attributes,
			updated_at = excluded.updated_at`
	if record.Source.Immutable() {
		conflict = "ON CONFLICT(owner, source, source_id) DO NOTHING"
	}

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO contexts (owner, source, source_id, title, body, external_url, attributes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`+conflict,
		record.Owner, string(record.Source), record.SourceID,
		record.Title, record.Body, record.ExternalURL, string(attributesJSON),
		record.CreatedAt, record.UpdatedAt)

	if err != nil {
		return fmt.Errorf("upserting context: %w", err)
	}
	return nil
}

// GetByKey retrieves one Context by its natural key.
func (s *contextStore) GetByKey(ctx context.Context, key domain.ContextKey) (*domain.Context, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT owner, source, source_id, title, body, external_url, attributes, created_at, updated_at
		FROM contexts WHERE owner = ? AND source = ? AND source_id = ?
	`, key.Owner, string(key.Source), key.SourceID)

	return scanContext(row)
}

// List returns Contexts matching the filter, most recently updated first.
func (s *contextStore) List(ctx context.Context, filter domain.ContextFilter) ([]domain.Context, error) {
	query := `
		SELECT owner, source, source_id, title, body, external_url, attributes, created_at, updated_at
		FROM contexts`

	var conditions []string
	var args []any

	if filter.Owner != "" {
		conditions = append(conditions, "owner = ?")
		args = append(args, filter.Owner)
	}
	if len(filter.Sources) > 0 {
		placeholders := make([]string, len(filter.Sources))
		for i, source := range filter.Sources {
			placeholders[i] = "?"
			args = append(args, string(source))
		}
		conditions = append(conditions, "source IN ("+strings.Join(placeholders, ", ")+")")
	}
	if !filter.DateRange.IsZero() {
		conditions = append(conditions, "updated_at >= ? AND updated_at < ?")
		args = append(args, filter.DateRange.From, filter.DateRange.To)
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY updated_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying contexts: %w", err)
	}
	defer rows.Close()

	var records []domain.Context //nolint:prealloc // size unknown from query
	for rows.Next() {
		record, err := scanContextRows(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contexts: %w", err)
	}

	return records, nil
}

// CountBySource returns per-source record counts for an owner.
func (s *contextStore) CountBySource(ctx context.Context, owner string) (map[domain.SourceType]int, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT source, COUNT(*) FROM contexts WHERE owner = ? GROUP BY source
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("counting contexts: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.SourceType]int)
	for rows.Next() {
		var source string
		var count int
		if err := rows.Scan(&source, &count); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		counts[domain.SourceType(source)] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating counts: %w", err)
	}

	return counts, nil
}

// scanContext scans a single context row.
func scanContext(row *sql.Row) (*domain.Context, error) {
	var record domain.Context
	var source, attributesJSON string

	if err := row.Scan(&record.Owner, &source, &record.SourceID, &record.Title, &record.Body,
		&record.ExternalURL, &attributesJSON, &record.CreatedAt, &record.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning context: %w", err)
	}

	record.Source = domain.SourceType(source)
	if err := json.Unmarshal([]byte(attributesJSON), &record.Attributes); err != nil {
		return nil, fmt.Errorf("unmarshalling attributes: %w", err)
	}

	return &record, nil
}

// scanContextRows scans a context from *sql.Rows.
func scanContextRows(rows *sql.Rows) (*domain.Context, error) {
	var record domain.Context
	var source, attributesJSON string

	if err := rows.Scan(&record.Owner, &source, &record.SourceID, &record.Title, &record.Body,
		&record.ExternalURL, &attributesJSON, &record.CreatedAt, &record.UpdatedAt); err != nil {
		return nil, fmt.Errorf("scanning context: %w", err)
	}

	record.Source = domain.SourceType(source)
	if err := json.Unmarshal([]byte(attributesJSON), &record.Attributes); err != nil {
		return nil, fmt.Errorf("unmarshalling attributes: %w", err)
	}

	return &record, nil
}

// ==================== Integration Store ====================

// integrationStore implements driven.IntegrationStore.
type integrationStore struct {
	store *Store
}

var _ driven.IntegrationStore = (*integrationStore)(nil)

// Save stores or updates an integration, keyed by (owner, provider).
func (s *integrationStore) Save(ctx context.Context, integration domain.Integration) error {
	if integration.ID == "" || integration.Owner == "" || !integration.Provider.IsValid() {
		return domain.ErrInvalidInput
	}

	metadataJSON, err := json.Marshal(integration.SiteMetadata)
	if err != nil {
		return fmt.Errorf("marshalling site metadata: %w", err)
	}

	now := time.Now().UTC()
	if integration.CreatedAt.IsZero() {
		integration.CreatedAt = now
	}
	integration.UpdatedAt = now

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO integrations
			(id, owner, provider, access_token, refresh_token, expiry, site_metadata, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(owner, provider) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expiry = excluded.expiry,
			site_metadata = excluded.site_metadata,
			active = excluded.active,
			updated_at = excluded.updated_at
	`, integration.ID, integration.Owner, string(integration.Provider),
		integration.AccessToken, integration.RefreshToken, nullTime(integration.Expiry),
		string(metadataJSON), integration.Active, integration.CreatedAt, integration.UpdatedAt)

	if err != nil {
		return fmt.Errorf("saving integration: %w", err)
	}
	return nil
}

// Get retrieves the integration for (owner, provider).
func (s *integrationStore) Get(
	ctx context.Context, owner string, provider domain.ProviderType,
) (*domain.Integration, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, owner, provider, access_token, refresh_token, expiry, site_metadata, active, created_at, updated_at
		FROM integrations WHERE owner = ? AND provider = ?
	`, owner, string(provider))

	var integration domain.Integration
	var providerStr, metadataJSON string
	var expiry sql.NullTime
	if err := row.Scan(&integration.ID, &integration.Owner, &providerStr,
		&integration.AccessToken, &integration.RefreshToken, &expiry,
		&metadataJSON, &integration.Active, &integration.CreatedAt, &integration.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning integration: %w", err)
	}

	integration.Provider = domain.ProviderType(providerStr)
	if expiry.Valid {
		integration.Expiry = expiry.Time
	}
	if err := json.Unmarshal([]byte(metadataJSON), &integration.SiteMetadata); err != nil {
		return nil, fmt.Errorf("unmarshalling site metadata: %w", err)
	}

	return &integration, nil
}

// ListByOwner returns all integrations for an owner.
func (s *integrationStore) ListByOwner(ctx context.Context, owner string) ([]domain.Integration, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, owner, provider, access_token, refresh_token, expiry, site_metadata, active, created_at, updated_at
		FROM integrations WHERE owner = ? ORDER BY provider
	`, owner)
	if err != nil {
		return nil, fmt.Errorf("querying integrations: %w", err)
	}
	defer rows.Close()

	var integrations []domain.Integration //nolint:prealloc // size unknown from query
	for rows.Next() {
		var integration domain.Integration
		var providerStr, metadataJSON string
		var expiry sql.NullTime
		if err := rows.Scan(&integration.ID, &integration.Owner, &providerStr,
			&integration.AccessToken, &integration.RefreshToken, &expiry,
			&metadataJSON, &integration.Active, &integration.CreatedAt, &integration.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning integration: %w", err)
		}

		integration.Provider = domain.ProviderType(providerStr)
		if expiry.Valid {
			integration.Expiry = expiry.Time
		}
		if err := json.Unmarshal([]byte(metadataJSON), &integration.SiteMetadata); err != nil {
			return nil, fmt.Errorf("unmarshalling site metadata: %w", err)
		}

		integrations = append(integrations, integration)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating integrations: %w", err)
	}

	return integrations, nil
}

// ListOwners returns all owners with at least one active integration.
func (s *integrationStore) ListOwners(ctx context.Context) ([]string, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT DISTINCT owner FROM integrations WHERE active = 1 ORDER BY owner
	`)
	if err != nil {
		return nil, fmt.Errorf("querying owners: %w", err)
	}
	defer rows.Close()

	var owners []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var owner string
		if err := rows.Scan(&owner); err != nil {
			return nil, fmt.Errorf("scanning owner: %w", err)
		}
		owners = append(owners, owner)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating owners: %w", err)
	}

	return owners, nil
}

// Deactivate soft-disables an integration.
func (s *integrationStore) Deactivate(ctx context.Context, owner string, provider domain.ProviderType) error {
	result, err := s.store.db.ExecContext(ctx, `
		UPDATE integrations SET active = 0, updated_at = ? WHERE owner = ? AND provider = ?
	`, time.Now().UTC(), owner, string(provider))
	if err != nil {
		return fmt.Errorf("deactivating integration: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking deactivation: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ==================== Sync State Store ====================

// syncStateStore implements driven.SyncStateStore.
type syncStateStore struct {
	store *Store
}

var _ driven.SyncStateStore = (*syncStateStore)(nil)

// Save stores or updates sync state.
func (s *syncStateStore) Save(ctx context.Context, state domain.SyncState) error {
	if state.Owner == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sync_states (owner, last_sync)
		VALUES (?, ?)
		ON CONFLICT(owner) DO UPDATE SET last_sync = excluded.last_sync
	`, state.Owner, state.LastSync)

	if err != nil {
		return fmt.Errorf("saving sync state: %w", err)
	}
	return nil
}

// Get retrieves sync state for an owner.
func (s *syncStateStore) Get(ctx context.Context, owner string) (*domain.SyncState, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT owner, last_sync FROM sync_states WHERE owner = ?
	`, owner)

	var state domain.SyncState
	var lastSync sql.NullTime
	if err := row.Scan(&state.Owner, &lastSync); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning sync state: %w", err)
	}

	if lastSync.Valid {
		state.LastSync = lastSync.Time
	}

	return &state, nil
}

// nullTime converts a zero time to NULL.
func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
