package services

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/herballink/herballink-be/internal/models"
	ws "github.com/herballink/herballink-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

// DefaultScanLimit caps how much history a single listing returns.
const DefaultScanLimit = 200

// ScanServiceProvider defines the interface for the scan log.
type ScanServiceProvider interface {
	Record(entry models.ScanRecord) (models.ScanRecord, error)
	ListRecent(limit int) ([]models.ScanRecord, error)
}

// ScanService provides the append-only prediction log.
type ScanService struct {
	db  *sql.DB
	hub *ws.Hub
}

// NewScanService creates a new ScanService. The hub may be nil, in which
// case new records are not broadcast.
func NewScanService(db *sql.DB, hub *ws.Hub) *ScanService {
	return &ScanService{db: db, hub: hub}
}

// Record appends one immutable scan entry and broadcasts it to live feed
// clients.
func (s *ScanService) Record(entry models.ScanRecord) (models.ScanRecord, error) {
	entry.ID = uuid.New().String()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	diseasesJSON, err := json.Marshal(entry.Diseases)
	if err != nil {
		return models.ScanRecord{}, err
	}

	stmt, err := s.db.Prepare(`INSERT INTO scans
		(id, type, user_email, label, confidence, uses, diseases_json, recommendation, filename, saved_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return models.ScanRecord{}, err
	}
	defer stmt.Close()

	_, err = stmt.Exec(entry.ID, entry.Type, entry.UserEmail, entry.Label, entry.Confidence,
		entry.Uses, string(diseasesJSON), entry.Recommendation, entry.Filename, entry.SavedName, entry.CreatedAt)
	if err != nil {
		return models.ScanRecord{}, err
	}

	s.broadcast(entry)
	return entry, nil
}

// ListRecent retrieves the most recent scan entries, newest first. A
// non-positive or oversized limit falls back to DefaultScanLimit.
func (s *ScanService) ListRecent(limit int) ([]models.ScanRecord, error) {
	if limit <= 0 || limit > DefaultScanLimit {
		limit = DefaultScanLimit
	}

	rows, err := s.db.Query(`SELECT id, type, user_email, label, confidence, uses, diseases_json, recommendation, filename, saved_name, created_at
		FROM scans ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.ScanRecord
	for rows.Next() {
		var rec models.ScanRecord
		var diseasesJSON string
		if err := rows.Scan(&rec.ID, &rec.Type, &rec.UserEmail, &rec.Label, &rec.Confidence,
			&rec.Uses, &diseasesJSON, &rec.Recommendation, &rec.Filename, &rec.SavedName, &rec.CreatedAt); err != nil {
			return nil, err
		}
		if diseasesJSON != "" {
			if err := json.Unmarshal([]byte(diseasesJSON), &rec.Diseases); err != nil {
				return nil, err
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *ScanService) broadcast(entry models.ScanRecord) {
	if s.hub == nil {
		return
	}
	msg, err := json.Marshal(ws.Message{Action: "scan_recorded", Payload: entry})
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode scan broadcast")
		return
	}
	s.hub.Broadcast <- msg
}
