// ABOUTME: Tests for mDNS discovery
// ABOUTME: Tests TXT records, service entry parsing and player URLs
package discovery

import (
	"net"
	"testing"

	"github.com/hashicorp/mdns"
)

func TestNewManager(t *testing.T) {
	mgr := NewManager(Config{
		ServiceName: "Test Player",
		Port:        8927,
	})
	if mgr == nil {
		t.Fatal("expected manager to be created")
	}
	if mgr.config.Path != "/stream" {
		t.Errorf("expected default path /stream, got %s", mgr.config.Path)
	}
	mgr.Stop()
}

func TestTXTRecords(t *testing.T) {
	mgr := NewManager(Config{ServiceName: "p", Port: 1, Version: "1.2.3"})

	txt := mgr.TXTRecords()
	if len(txt) != 2 || txt[0] != "path=/stream" || txt[1] != "version=1.2.3" {
		t.Errorf("unexpected TXT records: %v", txt)
	}

	noVersion := NewManager(Config{ServiceName: "p", Port: 1, Path: "/audio"})
	if txt := noVersion.TXTRecords(); len(txt) != 1 || txt[0] != "path=/audio" {
		t.Errorf("unexpected TXT records: %v", txt)
	}
}

func TestEntryToPlayer(t *testing.T) {
	entry := &mdns.ServiceEntry{
		Name:       "kitchen._chunkstream._tcp.local.",
		AddrV4:     net.IPv4(192, 168, 1, 20),
		Port:       8927,
		InfoFields: []string{"path=/stream", "version=0.3.0", "junk"},
	}

	player := entryToPlayer(entry)
	if player == nil {
		t.Fatal("expected player")
	}
	if player.Host != "192.168.1.20" || player.Port != 8927 {
		t.Errorf("unexpected address %s:%d", player.Host, player.Port)
	}
	if player.Path != "/stream" || player.Version != "0.3.0" {
		t.Errorf("unexpected TXT fields: %+v", player)
	}
	if got := player.URL(); got != "ws://192.168.1.20:8927/stream" {
		t.Errorf("unexpected URL %s", got)
	}
}

func TestEntryToPlayerWithoutIPv4(t *testing.T) {
	if entryToPlayer(&mdns.ServiceEntry{Name: "v6only", Port: 1}) != nil {
		t.Error("expected nil for entry without IPv4 address")
	}
	if entryToPlayer(nil) != nil {
		t.Error("expected nil for nil entry")
	}
}

func TestPlayerURLDefaultPath(t *testing.T) {
	p := &PlayerInfo{Host: "10.0.0.5", Port: 9000}
	if got := p.URL(); got != "ws://10.0.0.5:9000/stream" {
		t.Errorf("unexpected URL %s", got)
	}
}
