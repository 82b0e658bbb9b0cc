// ABOUTME: Ingest websocket message definitions
// ABOUTME: JSON control messages exchanged on the /stream endpoint
package ingest

// Message types
const (
	TypeAudioOutput = "audio_output" // client -> player: base64 chunk in Data
	TypeStart       = "start"        // client -> player
	TypeStop        = "stop"         // client -> player
	TypeStatus      = "status"       // player -> client
	TypeError       = "error"        // player -> client
)

// Message is the envelope of every JSON text frame
type Message struct {
	Type  string `json:"type"`
	Data  string `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

// Status is sent in reply to start/stop requests
type Status struct {
	Type       string `json:"type"`
	State      string `json:"state"`
	Queued     int    `json:"queued"`
	BufferedMs int    `json:"buffered_ms"`
}

// Health is the /healthz response body
type Health struct {
	Status      string `json:"status"`
	State       string `json:"state"`
	Version     string `json:"version"`
	Connections int    `json:"connections"`
	Received    int64  `json:"chunks_received"`
	Decoded     int64  `json:"chunks_decoded"`
	Fallback    int64  `json:"chunks_fallback"`
	Dropped     int64  `json:"chunks_dropped"`
	Rejected    int64  `json:"chunks_rejected"`
	Underruns   int64  `json:"underruns"`
	Queued      int    `json:"queued"`
	BufferedMs  int    `json:"buffered_ms"`
}

// Reply decodes any server -> client message
type Reply struct {
	Type       string `json:"type"`
	Error      string `json:"error,omitempty"`
	State      string `json:"state,omitempty"`
	Queued     int    `json:"queued,omitempty"`
	BufferedMs int    `json:"buffered_ms,omitempty"`
}
