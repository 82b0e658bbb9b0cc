// ABOUTME: WebSocket client for feeding chunks to a chunkstream player
// ABOUTME: Sends binary or base64 JSON chunks and start/stop requests, surfaces replies
package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Sendspin/chunkstream/internal/ingest"
	"github.com/gorilla/websocket"
)

const writeDeadline = 10 * time.Second

// Config holds client configuration
type Config struct {
	// URL of the player's ingest endpoint, e.g. ws://host:8927/stream
	URL string

	// JSON sends chunks as base64 audio_output messages instead of binary frames
	JSON bool
}

// Client is a connection to one player
type Client struct {
	config Config
	conn   *websocket.Conn
	mu     sync.Mutex // serializes writes

	replies chan ingest.Reply
	done    chan struct{}
}

// NewClient creates a client; call Connect before sending
func NewClient(config Config) *Client {
	return &Client{
		config:  config,
		replies: make(chan ingest.Reply, 100),
		done:    make(chan struct{}),
	}
}

// Connect dials the player and starts reading replies
func (c *Client) Connect(ctx context.Context) error {
	log.Printf("Connecting to %s", c.config.URL)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.config.URL, nil)
	if err != nil {
		return fmt.Errorf("dial failed: %w", err)
	}
	c.conn = conn

	go c.readReplies()
	return nil
}

// Replies delivers status and error messages from the player. It is closed
// when the connection ends.
func (c *Client) Replies() <-chan ingest.Reply {
	return c.replies
}

// SendChunk sends one audio chunk
func (c *Client) SendChunk(chunk []byte) error {
	if c.config.JSON {
		return c.sendJSON(ingest.Message{
			Type: ingest.TypeAudioOutput,
			Data: base64.StdEncoding.EncodeToString(chunk),
		})
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	if err := c.conn.WriteMessage(websocket.BinaryMessage, chunk); err != nil {
		return fmt.Errorf("failed to send chunk: %w", err)
	}
	return nil
}

// Start asks the player to start its output stream
func (c *Client) Start() error {
	return c.sendJSON(ingest.Message{Type: ingest.TypeStart})
}

// Stop asks the player to stop its output stream
func (c *Client) Stop() error {
	return c.sendJSON(ingest.Message{Type: ingest.TypeStop})
}

func (c *Client) sendJSON(msg ingest.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	if err := c.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to send %s: %w", msg.Type, err)
	}
	return nil
}

func (c *Client) readReplies() {
	defer close(c.replies)

	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			select {
			case <-c.done:
			default:
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Printf("Read error: %v", err)
				}
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		var reply ingest.Reply
		if err := json.Unmarshal(data, &reply); err != nil {
			log.Printf("Error unmarshaling reply: %v", err)
			continue
		}

		select {
		case c.replies <- reply:
		default:
			log.Printf("Dropping reply %s: nobody is reading", reply.Type)
		}
	}
}

// Close sends a close frame and closes the connection
func (c *Client) Close() error {
	select {
	case <-c.done:
		return nil
	default:
		close(c.done)
	}

	c.mu.Lock()
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	c.mu.Unlock()
	return c.conn.Close()
}

// SplitChunks cuts raw PCM into chunks of about size bytes. Sizes are
// rounded up to whole 16-bit samples; size <= 0 returns data as one chunk.
func SplitChunks(data []byte, size int) [][]byte {
	if len(data) == 0 {
		return nil
	}
	if size <= 0 || size >= len(data) {
		return [][]byte{data}
	}
	if size%2 != 0 {
		size++
	}

	chunks := make([][]byte, 0, (len(data)+size-1)/size)
	for start := 0; start < len(data); start += size {
		end := start + size
		if end > len(data) {
			end = len(data)
		}
		chunks = append(chunks, data[start:end])
	}
	return chunks
}
