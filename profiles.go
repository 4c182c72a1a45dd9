package main

import (
	"database/sql"
	"log"

	_ "modernc.org/sqlite"
)

const defaultRosterSize = 6

// ProfileStore wraps the SQLite database holding the computer-opponent
// roster: display names and driving-behavior bundles. This is
// configuration, not race history; nothing about finished races is
// persisted.
type ProfileStore struct {
	conn *sql.DB
}

// OpenProfileStore opens (or creates) the profile database and seeds it
// with the default roster when empty
func OpenProfileStore(path string) (*ProfileStore, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, err
	}

	ps := &ProfileStore{conn: conn}
	if err := ps.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	if err := ps.seedDefaults(); err != nil {
		conn.Close()
		return nil, err
	}
	return ps, nil
}

// Close closes the database connection
func (ps *ProfileStore) Close() error {
	return ps.conn.Close()
}

// migrate creates tables if they don't exist
func (ps *ProfileStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS driver_profiles (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE,
		base_throttle REAL NOT NULL,
		corner_penalty REAL NOT NULL,
		catchup_gain REAL NOT NULL,
		target_speed REAL NOT NULL,
		steer_response REAL NOT NULL,
		lookahead_min REAL NOT NULL,
		lookahead_max REAL NOT NULL,
		mistake_chance REAL NOT NULL,
		mistake_magnitude REAL NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	_, err := ps.conn.Exec(schema)
	if err != nil {
		log.Printf("profile store migration error: %v", err)
	}
	return err
}

// seedDefaults inserts the built-in roster when the table is empty
func (ps *ProfileStore) seedDefaults() error {
	var count int
	if err := ps.conn.QueryRow("SELECT COUNT(*) FROM driver_profiles").Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, p := range DefaultRoster() {
		_, err := ps.conn.Exec(`
			INSERT INTO driver_profiles
				(name, base_throttle, corner_penalty, catchup_gain, target_speed,
				 steer_response, lookahead_min, lookahead_max, mistake_chance, mistake_magnitude)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.Name, p.Params.BaseThrottle, p.Params.CornerPenalty, p.Params.CatchupGain,
			p.Params.TargetSpeed, p.Params.SteerResponse, p.Params.LookaheadMin,
			p.Params.LookaheadMax, p.Params.MistakeChance, p.Params.MistakeMagnitude,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// LoadRoster returns up to limit opponent profiles. Columns not stored
// per profile keep the default bundle's values.
func (ps *ProfileStore) LoadRoster(limit int) ([]DriverProfile, error) {
	rows, err := ps.conn.Query(`
		SELECT name, base_throttle, corner_penalty, catchup_gain, target_speed,
		       steer_response, lookahead_min, lookahead_max, mistake_chance, mistake_magnitude
		FROM driver_profiles ORDER BY id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roster []DriverProfile
	for rows.Next() {
		p := DriverProfile{Params: DefaultDriverParams()}
		if err := rows.Scan(
			&p.Name, &p.Params.BaseThrottle, &p.Params.CornerPenalty, &p.Params.CatchupGain,
			&p.Params.TargetSpeed, &p.Params.SteerResponse, &p.Params.LookaheadMin,
			&p.Params.LookaheadMax, &p.Params.MistakeChance, &p.Params.MistakeMagnitude,
		); err != nil {
			return nil, err
		}
		roster = append(roster, p)
	}
	return roster, rows.Err()
}

// GetSetting returns a settings value, or "" when absent
func (ps *ProfileStore) GetSetting(key string) string {
	var value string
	err := ps.conn.QueryRow("SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return ""
	}
	if err != nil {
		log.Printf("settings read error: %v", err)
		return ""
	}
	return value
}

// SetSetting stores a settings value
func (ps *ProfileStore) SetSetting(key, value string) error {
	_, err := ps.conn.Exec(
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	return err
}

// DefaultRoster is the built-in opponent lineup used when no profile
// store is available
func DefaultRoster() []DriverProfile {
	base := DefaultDriverParams()

	steady := base
	steady.MistakeChance = 0.15
	steady.BaseThrottle = 0.8

	aggressive := base
	aggressive.BaseThrottle = 0.95
	aggressive.TargetSpeed = 36
	aggressive.MistakeChance = 0.4
	aggressive.MistakeMagnitude = 0.35

	cautious := base
	cautious.BaseThrottle = 0.7
	cautious.TargetSpeed = 26
	cautious.RecoveryAngle = 0.9
	cautious.MistakeChance = 0.1

	erratic := base
	erratic.MistakeChance = 0.55
	erratic.MistakeMagnitude = 0.4
	erratic.MistakeMaxDur = 1.6

	smooth := base
	smooth.SteerResponse = 0.7
	smooth.CornerPenalty = 0.4

	return []DriverProfile{
		{Name: "Vega", Params: aggressive},
		{Name: "Castor", Params: steady},
		{Name: "Lyra", Params: smooth},
		{Name: "Pollux", Params: cautious},
		{Name: "Rigel", Params: erratic},
		{Name: "Mira", Params: base},
	}
}
