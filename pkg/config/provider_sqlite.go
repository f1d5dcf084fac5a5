package config

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/chrissnell/airwatch/internal/hotspot"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS server_config (
	id          INTEGER PRIMARY KEY CHECK (id = 1),
	listen_addr TEXT,
	port        INTEGER,
	cert        TEXT,
	key         TEXT
);

CREATE TABLE IF NOT EXISTS provider_config (
	id              INTEGER PRIMARY KEY CHECK (id = 1),
	type            TEXT,
	base_url        TEXT,
	air_quality_url TEXT,
	timeout         TEXT
);

CREATE TABLE IF NOT EXISTS render_config (
	id          INTEGER PRIMARY KEY CHECK (id = 1),
	width       INTEGER,
	height      INTEGER,
	blur_radius INTEGER,
	alpha       INTEGER,
	workers     INTEGER
);

CREATE TABLE IF NOT EXISTS hotspots (
	position  INTEGER PRIMARY KEY,
	name      TEXT,
	latitude  REAL NOT NULL CHECK (latitude BETWEEN -90 AND 90),
	longitude REAL NOT NULL CHECK (longitude BETWEEN -180 AND 180),
	intensity REAL NOT NULL CHECK (intensity BETWEEN 0 AND 1),
	radius    REAL NOT NULL CHECK (radius > 0)
);
`

// SQLiteProvider implements ConfigProvider for SQLite database configuration
type SQLiteProvider struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteProvider creates a new SQLite configuration provider
func NewSQLiteProvider(dbPath string) (*SQLiteProvider, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	return &SQLiteProvider{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// InitSchema creates the configuration tables if they do not exist
func (s *SQLiteProvider) InitSchema() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// LoadConfig loads the complete configuration from SQLite database. Missing
// rows leave their section zeroed for ApplyDefaults to fill.
func (s *SQLiteProvider) LoadConfig() (*ConfigData, error) {
	config := &ConfigData{}

	if err := s.loadServer(&config.Server); err != nil {
		return nil, fmt.Errorf("failed to load server config: %w", err)
	}
	if err := s.loadProvider(&config.Provider); err != nil {
		return nil, fmt.Errorf("failed to load provider config: %w", err)
	}
	if err := s.loadRender(&config.Render); err != nil {
		return nil, fmt.Errorf("failed to load render config: %w", err)
	}

	hotspots, err := s.GetHotspots()
	if err != nil {
		return nil, fmt.Errorf("failed to load hotspots: %w", err)
	}
	config.Hotspots = hotspots

	return config, nil
}

func (s *SQLiteProvider) loadServer(d *ServerData) error {
	var listenAddr, cert, key sql.NullString
	var port sql.NullInt64

	err := s.db.QueryRow(`SELECT listen_addr, port, cert, key FROM server_config WHERE id = 1`).
		Scan(&listenAddr, &port, &cert, &key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	d.ListenAddr = listenAddr.String
	d.Port = int(port.Int64)
	d.Cert = cert.String
	d.Key = key.String
	return nil
}

func (s *SQLiteProvider) loadProvider(d *ProviderData) error {
	var typ, baseURL, aqURL, timeout sql.NullString

	err := s.db.QueryRow(`SELECT type, base_url, air_quality_url, timeout FROM provider_config WHERE id = 1`).
		Scan(&typ, &baseURL, &aqURL, &timeout)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	d.Type = typ.String
	d.BaseURL = baseURL.String
	d.AirQualityURL = aqURL.String
	d.Timeout = timeout.String
	return nil
}

func (s *SQLiteProvider) loadRender(d *RenderData) error {
	var width, height, blur, alpha, workers sql.NullInt64

	err := s.db.QueryRow(`SELECT width, height, blur_radius, alpha, workers FROM render_config WHERE id = 1`).
		Scan(&width, &height, &blur, &alpha, &workers)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return err
	}

	d.Width = int(width.Int64)
	d.Height = int(height.Int64)
	d.BlurRadius = int(blur.Int64)
	d.Alpha = int(alpha.Int64)
	d.Workers = int(workers.Int64)
	return nil
}

// GetHotspots returns the stored hotspots in catalog order
func (s *SQLiteProvider) GetHotspots() ([]hotspot.Hotspot, error) {
	rows, err := s.db.Query(`SELECT name, latitude, longitude, intensity, radius FROM hotspots ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query hotspots: %w", err)
	}
	defer rows.Close()

	var hotspots []hotspot.Hotspot
	for rows.Next() {
		var h hotspot.Hotspot
		var name sql.NullString
		if err := rows.Scan(&name, &h.Latitude, &h.Longitude, &h.Intensity, &h.Radius); err != nil {
			return nil, fmt.Errorf("failed to scan hotspot row: %w", err)
		}
		h.Name = name.String
		hotspots = append(hotspots, h)
	}
	return hotspots, rows.Err()
}

// IsReadOnly returns false since SQLite configuration can be modified
func (s *SQLiteProvider) IsReadOnly() bool {
	return false
}

// Close closes the database connection
func (s *SQLiteProvider) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveConfig replaces the stored configuration with configData
func (s *SQLiteProvider) SaveConfig(configData *ConfigData) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	sv := configData.Server
	if _, err := tx.Exec(`INSERT OR REPLACE INTO server_config (id, listen_addr, port, cert, key) VALUES (1, ?, ?, ?, ?)`,
		sv.ListenAddr, sv.Port, sv.Cert, sv.Key); err != nil {
		return fmt.Errorf("failed to save server config: %w", err)
	}

	p := configData.Provider
	if _, err := tx.Exec(`INSERT OR REPLACE INTO provider_config (id, type, base_url, air_quality_url, timeout) VALUES (1, ?, ?, ?, ?)`,
		p.Type, p.BaseURL, p.AirQualityURL, p.Timeout); err != nil {
		return fmt.Errorf("failed to save provider config: %w", err)
	}

	r := configData.Render
	if _, err := tx.Exec(`INSERT OR REPLACE INTO render_config (id, width, height, blur_radius, alpha, workers) VALUES (1, ?, ?, ?, ?, ?)`,
		r.Width, r.Height, r.BlurRadius, r.Alpha, r.Workers); err != nil {
		return fmt.Errorf("failed to save render config: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM hotspots`); err != nil {
		return fmt.Errorf("failed to clear hotspots: %w", err)
	}
	for i, h := range configData.Hotspots {
		if _, err := tx.Exec(`INSERT INTO hotspots (position, name, latitude, longitude, intensity, radius) VALUES (?, ?, ?, ?, ?, ?)`,
			i, h.Name, h.Latitude, h.Longitude, h.Intensity, h.Radius); err != nil {
			return fmt.Errorf("failed to insert hotspot %d (%s): %w", i, h.Name, err)
		}
	}

	return tx.Commit()
}
