// ABOUTME: mDNS service discovery for chunkstream players
// ABOUTME: Players advertise their ingest endpoint; feeders browse for it
package discovery

import (
	"context"
	"fmt"
	"log"
	"net"
	"strings"
	"time"

	"github.com/hashicorp/mdns"
)

// ServiceType is the DNS-SD service advertised by players
const ServiceType = "_chunkstream._tcp"

// Config holds discovery configuration
type Config struct {
	ServiceName string
	Port        int
	Path        string // websocket path, advertised as path=<Path>
	Version     string
}

// Manager handles mDNS operations
type Manager struct {
	config  Config
	ctx     context.Context
	cancel  context.CancelFunc
	players chan *PlayerInfo
}

// PlayerInfo describes a discovered player
type PlayerInfo struct {
	Name    string
	Host    string
	Port    int
	Path    string
	Version string
}

// URL returns the websocket URL of the player's ingest endpoint
func (p *PlayerInfo) URL() string {
	path := p.Path
	if path == "" {
		path = "/stream"
	}
	return fmt.Sprintf("ws://%s%s", net.JoinHostPort(p.Host, fmt.Sprint(p.Port)), path)
}

// NewManager creates a discovery manager
func NewManager(config Config) *Manager {
	if config.Path == "" {
		config.Path = "/stream"
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		config:  config,
		ctx:     ctx,
		cancel:  cancel,
		players: make(chan *PlayerInfo, 10),
	}
}

// TXTRecords returns the TXT entries advertised for this player
func (m *Manager) TXTRecords() []string {
	txt := []string{"path=" + m.config.Path}
	if m.config.Version != "" {
		txt = append(txt, "version="+m.config.Version)
	}
	return txt
}

// Advertise advertises this player via mDNS until Stop
func (m *Manager) Advertise() error {
	ips, err := getLocalIPs()
	if err != nil {
		return fmt.Errorf("failed to get local IPs: %w", err)
	}

	service, err := mdns.NewMDNSService(
		m.config.ServiceName,
		ServiceType,
		"",
		"",
		m.config.Port,
		ips,
		m.TXTRecords(),
	)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return fmt.Errorf("failed to create mdns server: %w", err)
	}

	log.Printf("Advertising mDNS service: %s on port %d (type: %s)", m.config.ServiceName, m.config.Port, ServiceType)

	go func() {
		<-m.ctx.Done()
		server.Shutdown()
	}()

	return nil
}

// Browse searches for players until Stop; results arrive on Players
func (m *Manager) Browse() {
	go m.browseLoop()
}

func (m *Manager) browseLoop() {
	for {
		select {
		case <-m.ctx.Done():
			return
		default:
		}

		entries := make(chan *mdns.ServiceEntry, 10)

		go func() {
			for entry := range entries {
				player := entryToPlayer(entry)
				if player == nil {
					continue
				}

				log.Printf("Discovered player: %s at %s:%d", player.Name, player.Host, player.Port)

				select {
				case m.players <- player:
				case <-m.ctx.Done():
					return
				}
			}
		}()

		params := &mdns.QueryParam{
			Service: ServiceType,
			Domain:  "local",
			Timeout: 3 * time.Second,
			Entries: entries,
		}

		if err := mdns.Query(params); err != nil {
			log.Printf("mDNS query failed: %v", err)
		}
		close(entries)
	}
}

// entryToPlayer converts a service entry, returning nil when it has no IPv4 address
func entryToPlayer(entry *mdns.ServiceEntry) *PlayerInfo {
	if entry == nil || entry.AddrV4 == nil {
		return nil
	}

	player := &PlayerInfo{
		Name: entry.Name,
		Host: entry.AddrV4.String(),
		Port: entry.Port,
	}
	for _, field := range entry.InfoFields {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			continue
		}
		switch key {
		case "path":
			player.Path = value
		case "version":
			player.Version = value
		}
	}
	return player
}

// Players returns the channel of discovered players
func (m *Manager) Players() <-chan *PlayerInfo {
	return m.players
}

// Stop stops advertising and browsing
func (m *Manager) Stop() {
	m.cancel()
}

// getLocalIPs returns non-loopback IPv4 addresses of interfaces that are up
func getLocalIPs() ([]net.IP, error) {
	var ips []net.IP

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
				if ipnet.IP.To4() != nil {
					ips = append(ips, ipnet.IP)
				}
			}
		}
	}

	return ips, nil
}
