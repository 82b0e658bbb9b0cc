// ABOUTME: Entry point for the chunkstream player
// ABOUTME: Parses CLI flags, wires the stream, ingest server, discovery and TUI together
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/Sendspin/chunkstream/internal/config"
	"github.com/Sendspin/chunkstream/internal/discovery"
	"github.com/Sendspin/chunkstream/internal/ingest"
	"github.com/Sendspin/chunkstream/internal/metrics"
	"github.com/Sendspin/chunkstream/internal/ui"
	"github.com/Sendspin/chunkstream/internal/version"
	"github.com/Sendspin/chunkstream/pkg/audio/output"
	"github.com/Sendspin/chunkstream/pkg/stream"
	tea "github.com/charmbracelet/bubbletea"
)

var (
	configFile = flag.String("config", "", "Config file (YAML, TOML or JSON)")
	backend    = flag.String("backend", "", "Output backend: malgo, oto, portaudio, null")
	sampleRate = flag.Int("sample-rate", 0, "Output sample rate in Hz")
	blockSize  = flag.Int("block-size", 0, "Frames per output callback")
	listen     = flag.String("listen", "", "Ingest listen address (host:port)")
	name       = flag.String("name", "", "mDNS service name (default: hostname-chunkstream)")
	noMDNS     = flag.Bool("no-mdns", false, "Disable mDNS advertisement")
	noTUI      = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
	logFile    = flag.String("log-file", "", "Log file path")
	resample   = flag.Bool("resample", false, "Resample chunks to the output rate")
	debug      = flag.Bool("debug", false, "Log every decoded chunk")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyFlags(&cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	useTUI := cfg.TUI

	// Set up logging
	f, err := os.OpenFile(cfg.LogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		// TUI mode: log only to file
		log.SetOutput(f)
	} else {
		// Streaming logs mode: log to both stdout and file
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		serviceName = fmt.Sprintf("%s-%s", hostname, version.Product)
	}

	log.Printf("Starting %s %s: %s", version.Product, version.Version, serviceName)

	device, err := output.New(cfg.Backend)
	if err != nil {
		log.Fatalf("Failed to create output: %v", err)
	}

	// TUI setup
	var tuiProg *tea.Program
	var controls *ui.Controls

	if useTUI {
		controls = ui.NewControls()
		tuiProg, err = ui.Run(controls, ui.InfoMsg{
			Backend:    device.Name(),
			SampleRate: cfg.SampleRate,
			BlockSize:  cfg.BlockSize,
			Listen:     cfg.Listen,
		})
		if err != nil {
			log.Fatalf("Failed to start TUI: %v", err)
		}
		go tuiProg.Run()
	}

	streamer, err := stream.New(stream.Config{
		SampleRate:  cfg.SampleRate,
		BlockSize:   cfg.BlockSize,
		QueueSize:   cfg.QueueSize,
		JoinTimeout: cfg.JoinTimeout,
		Resample:    cfg.Resample,
		Debug:       cfg.Debug,
		Device:      device,
		OnError: func(err error) {
			log.Printf("Audio error: %v", err)
			if tuiProg != nil {
				tuiProg.Send(ui.ErrorMsg{Err: err})
			}
		},
	})
	if err != nil {
		log.Fatalf("Failed to create streamer: %v", err)
	}

	var server *ingest.Server
	var disc *discovery.Manager

	if cfg.Listen != "" {
		server = ingest.New(ingest.Config{
			Addr:    cfg.Listen,
			Version: version.Version,
			Metrics: metrics.New(streamer),
		}, streamer)
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start ingest server: %v", err)
		}

		if cfg.MDNS {
			disc = discovery.NewManager(discovery.Config{
				ServiceName: serviceName,
				Port:        listenPort(server),
				Path:        ingest.DefaultPath,
				Version:     version.Version,
			})
			if err := disc.Advertise(); err != nil {
				log.Printf("Failed to start mDNS advertisement: %v", err)
			}
		}
	}

	if err := streamer.Start(); err != nil {
		log.Fatalf("Failed to start audio output: %v", err)
	}

	// Positional arguments are played as chunks, in order
	for _, path := range flag.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("Skipping %s: %v", path, err)
			continue
		}
		if err := streamer.AddChunk(data); err != nil {
			log.Printf("Failed to queue %s: %v", path, err)
			continue
		}
		log.Printf("Queued %s (%d bytes)", path, len(data))
	}

	if tuiProg != nil {
		go handleControls(streamer, controls)
		go statsUpdateLoop(streamer, server, tuiProg)
	}

	// Handle shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if controls != nil {
		select {
		case <-controls.Quit:
			log.Printf("Received quit signal from TUI")
		case <-sigChan:
			log.Printf("Shutdown signal received")
			tuiProg.Quit()
		}
	} else {
		<-sigChan
		log.Printf("Shutdown signal received")
	}

	if disc != nil {
		disc.Stop()
	}
	if server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := server.Shutdown(ctx); err != nil {
			log.Printf("Ingest server shutdown error: %v", err)
		}
		cancel()
	}
	if err := streamer.Stop(); err != nil {
		log.Printf("Error stopping audio output: %v", err)
	}

	log.Printf("Player stopped")
}

// applyFlags overrides config values with explicitly set flags
func applyFlags(cfg *config.Config) {
	flag.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "backend":
			cfg.Backend = *backend
		case "sample-rate":
			cfg.SampleRate = *sampleRate
		case "block-size":
			cfg.BlockSize = *blockSize
		case "listen":
			cfg.Listen = *listen
		case "name":
			cfg.ServiceName = *name
		case "no-mdns":
			cfg.MDNS = !*noMDNS
		case "no-tui":
			cfg.TUI = !*noTUI
		case "log-file":
			cfg.LogFile = *logFile
		case "resample":
			cfg.Resample = *resample
		case "debug":
			cfg.Debug = *debug
		}
	})
}

func listenPort(server *ingest.Server) int {
	if addr, ok := server.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return 0
}

// handleControls processes start/stop toggles from the TUI
func handleControls(streamer *stream.Streamer, controls *ui.Controls) {
	for range controls.Toggle {
		var err error
		if streamer.State() == stream.Running {
			err = streamer.Stop()
		} else {
			err = streamer.Start()
		}
		if err != nil {
			log.Printf("Toggle failed: %v", err)
		}
	}
}

// statsUpdateLoop periodically updates the TUI with pipeline statistics
func statsUpdateLoop(streamer *stream.Streamer, server *ingest.Server, prog *tea.Program) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	// Use a slower ticker for expensive runtime stats to avoid GC pauses
	runtimeStatsTicker := time.NewTicker(2 * time.Second)
	defer runtimeStatsTicker.Stop()

	var lastGoroutines int
	var lastMemAlloc uint64

	for {
		select {
		case <-runtimeStatsTicker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			lastGoroutines = runtime.NumGoroutine()
			lastMemAlloc = m.Alloc

		case <-ticker.C:
			clients := 0
			if server != nil {
				clients = server.ConnectionCount()
			}
			prog.Send(ui.StatsMsg{
				Stats:      streamer.Stats(),
				Clients:    clients,
				Goroutines: lastGoroutines,
				MemAlloc:   lastMemAlloc,
			})
		}
	}
}
