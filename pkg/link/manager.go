package link

import (
	"bufio"
	"context"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/alex22022005/AquaSentry/pkg/models"
)

// alertKey identifies the persistent connectivity alert in the ledger.
const alertKey = "link:sensor"

// PortInfo describes one enumerated serial device.
type PortInfo struct {
	Path     string
	VendorID string
	Product  string
}

// PortLister enumerates attached serial devices.
type PortLister interface {
	List() ([]PortInfo, error)
}

// Port is an open serial connection.
type Port interface {
	io.Reader
	Close() error
}

// PortOpener opens a serial device at a path.
type PortOpener interface {
	Open(path string, baud int) (Port, error)
}

// Publisher delivers connection state changes to observers.
type Publisher interface {
	Publish(evt models.Event) error
}

// AlertSink records connectivity conditions in the alert ledger.
type AlertSink interface {
	Raise(key string, severity models.Severity, message string, critical bool)
	Dismiss(key string)
}

// Manager owns the sensor link lifecycle: it scans for a recognized device,
// holds at most one open port, feeds raw lines downstream, and republishes
// every state transition. Scan attempts are serialized; a scan that arrives
// while another is running or while connected is a no-op.
type Manager struct {
	lister  PortLister
	opener  PortOpener
	vendors []string
	baud    int

	hub    Publisher
	alerts AlertSink
	onLine func(string)

	mu         sync.Mutex
	state      models.ConnectionState
	port       Port
	attempting bool
	closing    bool
}

// NewManager wires a link manager. onLine receives each trimmed sensor line.
func NewManager(lister PortLister, opener PortOpener, vendors []string, baud int, hub Publisher, alerts AlertSink, onLine func(string)) *Manager {
	return &Manager{
		lister:  lister,
		opener:  opener,
		vendors: vendors,
		baud:    baud,
		hub:     hub,
		alerts:  alerts,
		onLine:  onLine,
		state:   models.ConnectionState{Status: models.StatusDisconnected},
	}
}

// State returns the current link state.
func (m *Manager) State() models.ConnectionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// ScanAndConnect looks for a recognized device and opens it. Returns
// immediately when already connected or when a scan is in flight.
func (m *Manager) ScanAndConnect() {
	m.mu.Lock()
	if m.port != nil || m.attempting || m.closing {
		m.mu.Unlock()
		return
	}
	m.attempting = true
	m.setStateLocked(models.ConnectionState{Status: models.StatusScanning})
	m.mu.Unlock()

	ports, err := m.lister.List()
	if err != nil {
		log.Printf("❌ Serial enumeration failed: %v", err)
		m.scanFailed()
		return
	}

	var match *PortInfo
	for i := range ports {
		if matchDevice(ports[i], m.vendors) {
			match = &ports[i]
			break
		}
	}
	if match == nil {
		m.scanFailed()
		return
	}

	port, err := m.opener.Open(match.Path, m.baud)
	if err != nil {
		log.Printf("❌ Failed to open %s: %v", match.Path, err)
		m.scanFailed()
		return
	}

	m.mu.Lock()
	m.port = port
	m.attempting = false
	m.setStateLocked(models.ConnectionState{Status: models.StatusConnected, Port: match.Path})
	m.mu.Unlock()

	m.alerts.Dismiss(alertKey)
	log.Printf("✓ Sensor connected on %s", match.Path)

	go m.readLoop(port)
}

// Run rescans on a fixed interval until the context is canceled.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	m.ScanAndConnect()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.ScanAndConnect()
		case <-ctx.Done():
			m.Close()
			return
		}
	}
}

// Close drops the open port, if any, and stops further scans. A close is
// deliberate: the read loop winding down afterwards is not a link loss.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closing = true
	port := m.port
	m.mu.Unlock()
	if port != nil {
		port.Close()
	}
}

func (m *Manager) readLoop(port Port) {
	scanner := bufio.NewScanner(port)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			m.onLine(line)
		}
	}
	m.handleClosed(scanner.Err())
}

func (m *Manager) handleClosed(err error) {
	m.mu.Lock()
	closing := m.closing
	if m.port != nil {
		m.port.Close()
		m.port = nil
	}
	m.setStateLocked(models.ConnectionState{Status: models.StatusDisconnected})
	m.mu.Unlock()

	if closing {
		log.Println("Sensor link closed")
		return
	}

	if err != nil {
		log.Printf("❌ Sensor link lost: %v", err)
	} else {
		log.Println("Sensor link closed by peer")
	}
	m.alerts.Raise(alertKey, models.SeverityDanger, "Sensor connection lost", true)
}

func (m *Manager) scanFailed() {
	m.mu.Lock()
	m.attempting = false
	m.setStateLocked(models.ConnectionState{Status: models.StatusDisconnected})
	m.mu.Unlock()
}

func (m *Manager) setStateLocked(state models.ConnectionState) {
	m.state = state
	if err := m.hub.Publish(models.NewConnectionEvent(state)); err != nil {
		log.Printf("❌ Failed to publish connection state: %v", err)
	}
}

// matchDevice reports whether an enumerated device looks like one of ours,
// by vendor ID or by product name substring, case-insensitively.
func matchDevice(info PortInfo, vendors []string) bool {
	for _, v := range vendors {
		needle := strings.ToLower(v)
		if strings.ToLower(info.VendorID) == needle {
			return true
		}
		if info.Product != "" && strings.Contains(strings.ToLower(info.Product), needle) {
			return true
		}
	}
	return false
}
