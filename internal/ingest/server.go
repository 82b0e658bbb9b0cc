// ABOUTME: Websocket ingest server feeding chunks to the player
// ABOUTME: Serves /stream, /healthz and /metrics on one HTTP listener
package ingest

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/Sendspin/chunkstream/internal/metrics"
	"github.com/Sendspin/chunkstream/pkg/stream"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// DefaultPath is the websocket endpoint
	DefaultPath = "/stream"

	// DefaultMaxMessageBytes bounds a single chunk
	DefaultMaxMessageBytes = 16 << 20

	writeDeadline = 10 * time.Second
)

// Player is the part of *stream.Streamer the server drives
type Player interface {
	AddChunk(chunk []byte) error
	Start() error
	Stop() error
	Stats() stream.Stats
}

// Config holds server configuration
type Config struct {
	// Addr is the listen address (host:port)
	Addr string

	// Path is the websocket endpoint (default: /stream)
	Path string

	// MaxMessageBytes limits incoming messages (default: 16 MiB)
	MaxMessageBytes int64

	// Version is reported by /healthz
	Version string

	// Metrics enables /metrics and request instrumentation when set
	Metrics *metrics.Metrics
}

// Server accepts chunk producers over websockets
type Server struct {
	config   Config
	player   Player
	upgrader websocket.Upgrader
	mux      *http.ServeMux

	httpServer *http.Server
	listener   net.Listener

	mu    sync.RWMutex
	conns map[string]*websocket.Conn
	wg    sync.WaitGroup
}

// New creates a server; call Start to listen
func New(config Config, player Player) *Server {
	if config.Path == "" {
		config.Path = DefaultPath
	}
	if config.MaxMessageBytes == 0 {
		config.MaxMessageBytes = DefaultMaxMessageBytes
	}

	s := &Server{
		config: config,
		player: player,
		upgrader: websocket.Upgrader{
			// Producers are local services and CLI tools, not browsers
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		mux:   http.NewServeMux(),
		conns: make(map[string]*websocket.Conn),
	}

	s.handle(config.Path, s.handleWebSocket)
	s.handle("/healthz", s.handleHealth)
	if config.Metrics != nil {
		s.mux.Handle("/metrics", config.Metrics.Handler())
	}

	return s
}

func (s *Server) handle(endpoint string, handler http.HandlerFunc) {
	if s.config.Metrics != nil {
		handler = s.config.Metrics.Wrap(endpoint, handler)
	}
	s.mux.HandleFunc(endpoint, handler)
}

// Handler returns the HTTP handler serving all endpoints
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Start listens on Config.Addr and serves in the background
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr, err)
	}

	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("Ingest server listening on ws://%s%s", ln.Addr(), s.config.Path)

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("HTTP server error: %v", err)
		}
	}()
	return nil
}

// Addr returns the bound listen address, or nil before Start
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown closes every connection and stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	for id, conn := range s.conns {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "player shutting down"),
			time.Now().Add(time.Second))
		conn.Close()
		delete(s.conns, id)
	}
	s.mu.Unlock()

	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	s.wg.Wait()
	return err
}

// ConnectionCount returns the number of open websocket connections
func (s *Server) ConnectionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conns)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	id := uuid.New().String()
	log.Printf("New ingest connection %s from %s", id, r.RemoteAddr)

	s.wg.Add(1)
	defer s.wg.Done()

	s.register(id, conn)
	defer s.unregister(id, conn)

	s.readLoop(id, conn)
	log.Printf("Ingest connection %s closed", id)
}

func (s *Server) register(id string, conn *websocket.Conn) {
	s.mu.Lock()
	s.conns[id] = conn
	s.mu.Unlock()

	if s.config.Metrics != nil {
		s.config.Metrics.Connections.Inc()
	}
}

func (s *Server) unregister(id string, conn *websocket.Conn) {
	s.mu.Lock()
	delete(s.conns, id)
	s.mu.Unlock()
	conn.Close()

	if s.config.Metrics != nil {
		s.config.Metrics.Connections.Dec()
	}
}

func (s *Server) readLoop(id string, conn *websocket.Conn) {
	conn.SetReadLimit(s.config.MaxMessageBytes)

	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error on %s: %v", id, err)
			}
			return
		}

		switch msgType {
		case websocket.BinaryMessage:
			s.submit(conn, "binary", data)
		case websocket.TextMessage:
			s.handleText(id, conn, data)
		}
	}
}

func (s *Server) handleText(id string, conn *websocket.Conn, data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		s.record("invalid", 0)
		s.sendError(conn, fmt.Errorf("invalid message: %w", err))
		return
	}

	switch msg.Type {
	case TypeAudioOutput:
		chunk, err := base64.StdEncoding.DecodeString(msg.Data)
		if err != nil {
			s.record("invalid", 0)
			s.sendError(conn, fmt.Errorf("invalid audio_output data: %w", err))
			return
		}
		s.submit(conn, TypeAudioOutput, chunk)

	case TypeStart:
		s.record(TypeStart, 0)
		log.Printf("Start requested by %s", id)
		if err := s.player.Start(); err != nil {
			s.sendError(conn, err)
			return
		}
		s.sendStatus(conn)

	case TypeStop:
		s.record(TypeStop, 0)
		log.Printf("Stop requested by %s", id)
		if err := s.player.Stop(); err != nil {
			s.sendError(conn, err)
			return
		}
		s.sendStatus(conn)

	default:
		s.record("unknown", 0)
		log.Printf("Unknown message type from %s: %s", id, msg.Type)
		s.sendError(conn, fmt.Errorf("unknown message type: %s", msg.Type))
	}
}

func (s *Server) submit(conn *websocket.Conn, kind string, chunk []byte) {
	s.record(kind, len(chunk))
	if err := s.player.AddChunk(chunk); err != nil {
		s.sendError(conn, err)
	}
}

func (s *Server) record(kind string, size int) {
	if s.config.Metrics != nil {
		s.config.Metrics.RecordMessage(kind, size)
	}
}

func (s *Server) sendStatus(conn *websocket.Conn) {
	stats := s.player.Stats()
	s.send(conn, Status{
		Type:       TypeStatus,
		State:      stats.State.String(),
		Queued:     stats.QueuedChunks,
		BufferedMs: stats.BufferedMs,
	})
}

func (s *Server) sendError(conn *websocket.Conn, err error) {
	s.send(conn, Message{Type: TypeError, Error: err.Error()})
}

// send writes a JSON reply; only the connection's read loop calls it
func (s *Server) send(conn *websocket.Conn, v any) {
	conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	if err := conn.WriteJSON(v); err != nil {
		log.Printf("Error writing reply: %v", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats := s.player.Stats()
	health := Health{
		Status:      "ok",
		State:       stats.State.String(),
		Version:     s.config.Version,
		Connections: s.ConnectionCount(),
		Received:    stats.ChunksReceived,
		Decoded:     stats.ChunksDecoded,
		Fallback:    stats.ChunksFallback,
		Dropped:     stats.ChunksDropped,
		Rejected:    stats.ChunksRejected,
		Underruns:   stats.Underruns(),
		Queued:      stats.QueuedChunks,
		BufferedMs:  stats.BufferedMs,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(health); err != nil {
		log.Printf("Error encoding health response: %v", err)
	}
}
