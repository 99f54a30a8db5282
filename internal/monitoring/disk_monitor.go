package monitoring

import (
	"encoding/json"
	"fmt"
	"time"

	ws "github.com/herballink/herballink-be/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/disk"
)

// DiskMonitor periodically samples usage of the partition holding the
// uploads directory and raises an alert when it crosses the configured
// threshold. Uploads are retained indefinitely by default, so a filling disk
// is the main operational risk.
type DiskMonitor struct {
	path         string
	alertPercent float64
	hub          *ws.Hub
	ticker       *time.Ticker
	done         chan bool
	alerted      bool
}

// NewDiskMonitor creates a new DiskMonitor watching path.
func NewDiskMonitor(path string, alertPercent float64, hub *ws.Hub) *DiskMonitor {
	return &DiskMonitor{
		path:         path,
		alertPercent: alertPercent,
		hub:          hub,
		done:         make(chan bool),
	}
}

// Run starts the periodic sampling loop.
func (m *DiskMonitor) Run() {
	log.Info().Str("path", m.path).Msg("Starting disk usage monitor...")
	m.ticker = time.NewTicker(5 * time.Minute)
	defer m.ticker.Stop()

	// Run once immediately on start
	m.check()

	for {
		select {
		case <-m.done:
			log.Info().Msg("Stopping disk usage monitor.")
			return
		case <-m.ticker.C:
			m.check()
		}
	}
}

// Stop halts the monitor.
func (m *DiskMonitor) Stop() {
	m.done <- true
}

func (m *DiskMonitor) check() {
	usage, err := disk.Usage(m.path)
	if err != nil {
		log.Error().Err(err).Str("path", m.path).Msg("DiskMonitor: failed to read usage")
		return
	}

	if usage.UsedPercent < m.alertPercent {
		m.alerted = false
		return
	}
	if m.alerted {
		// Alert already raised for this episode.
		return
	}
	m.alerted = true

	log.Warn().
		Float64("used_percent", usage.UsedPercent).
		Uint64("free_bytes", usage.Free).
		Str("path", m.path).
		Msg("Uploads partition running low on space")

	if m.hub != nil {
		msg, err := json.Marshal(ws.Message{
			Action: "system_alert",
			Payload: fmt.Sprintf("uploads disk %.1f%% full (%d bytes free)",
				usage.UsedPercent, usage.Free),
		})
		if err == nil {
			m.hub.Broadcast <- msg
		}
	}
}
