// ABOUTME: Entry point for the chunkfeed client
// ABOUTME: Sends audio files to a running chunkstream player over its websocket
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Sendspin/chunkstream/internal/client"
	"github.com/Sendspin/chunkstream/internal/discovery"
	"github.com/Sendspin/chunkstream/internal/ingest"
	"github.com/Sendspin/chunkstream/pkg/audio/decode"
	"github.com/Sendspin/chunkstream/pkg/audio/encode"
)

var (
	addr      = flag.String("addr", "", "Player ingest URL (default: discover via mDNS)")
	chunkSize = flag.Int("chunk-bytes", 0, "Split each file into chunks of this many bytes (raw PCM only, 0 = whole file)")
	interval  = flag.Duration("interval", 0, "Pause between chunks")
	useJSON   = flag.Bool("json", false, "Send base64 audio_output messages instead of binary frames")
	start     = flag.Bool("start", false, "Ask the player to start before sending")
	stop      = flag.Bool("stop", false, "Ask the player to stop after sending")
	discover  = flag.Duration("discover-timeout", 10*time.Second, "How long to browse for a player")
	tone      = flag.Float64("tone", 0, "Send a sine tone of this frequency (Hz) as raw PCM instead of files")
	toneRate  = flag.Int("tone-rate", 48000, "Sample rate of the generated tone; match the player's output rate")
	toneLen   = flag.Duration("tone-duration", 2*time.Second, "Length of the generated tone")
)

type source struct {
	name string
	data []byte
}

func main() {
	flag.Parse()

	if flag.NArg() == 0 && *tone <= 0 {
		log.Fatalf("usage: chunkfeed [flags] file... | chunkfeed -tone 440 [flags]")
	}

	url := *addr
	if url == "" {
		url = discoverPlayer(*discover)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	c := client.NewClient(client.Config{URL: url, JSON: *useJSON})
	if err := c.Connect(ctx); err != nil {
		log.Fatalf("Connection failed: %v", err)
	}
	defer c.Close()

	go logReplies(c)

	if *start {
		if err := c.Start(); err != nil {
			log.Fatalf("Failed to send start: %v", err)
		}
	}

	sent := 0
	for _, src := range sources() {
		for _, chunk := range splitSource(src, *chunkSize) {
			if ctx.Err() != nil {
				log.Printf("Interrupted after %d chunks", sent)
				return
			}
			if err := c.SendChunk(chunk); err != nil {
				log.Fatalf("Send failed: %v", err)
			}
			sent++

			if *interval > 0 {
				select {
				case <-time.After(*interval):
				case <-ctx.Done():
				}
			}
		}
		log.Printf("Sent %s (%d bytes)", src.name, len(src.data))
	}

	if *stop {
		if err := c.Stop(); err != nil {
			log.Printf("Failed to send stop: %v", err)
		}
	}

	// Give the player a moment to report errors for the last chunks
	time.Sleep(200 * time.Millisecond)
	log.Printf("Done: %d chunks sent", sent)
}

// sources returns the generated tone, if any, followed by the named files
func sources() []source {
	var out []source
	if *tone > 0 {
		out = append(out, source{
			name: fmt.Sprintf("%.0fHz tone", *tone),
			data: encode.RawPCM(sine(*tone, *toneRate, *toneLen)),
		})
	}
	for _, path := range flag.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Printf("Skipping %s: %v", path, err)
			continue
		}
		out = append(out, source{name: path, data: data})
	}
	return out
}

// splitSource cuts raw PCM into size-byte chunks. Encoded files are sent
// whole; their pieces would lose the container header.
func splitSource(src source, size int) [][]byte {
	if size > 0 {
		if c := decode.Sniff(src.data); c != decode.ContainerUnknown {
			log.Printf("Warning: not splitting %s, it is a %s file; sending it as one chunk", src.name, c)
			size = 0
		}
	}
	return client.SplitChunks(src.data, size)
}

func sine(freq float64, sampleRate int, d time.Duration) []float32 {
	n := int(d * time.Duration(sampleRate) / time.Second)
	samples := make([]float32, n)
	for i := range samples {
		samples[i] = float32(0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)))
	}
	return samples
}

func discoverPlayer(timeout time.Duration) string {
	log.Printf("Browsing for players...")
	disc := discovery.NewManager(discovery.Config{})
	disc.Browse()
	defer disc.Stop()

	select {
	case player := <-disc.Players():
		log.Printf("Using player %s (version %s)", player.Name, player.Version)
		return player.URL()
	case <-time.After(timeout):
		log.Fatalf("No player found after %v", timeout)
	}
	return ""
}

func logReplies(c *client.Client) {
	for reply := range c.Replies() {
		switch reply.Type {
		case ingest.TypeError:
			log.Printf("Player error: %s", reply.Error)
		default:
			log.Printf("Player %s: state=%s queued=%d buffered=%dms", reply.Type, reply.State, reply.Queued, reply.BufferedMs)
		}
	}
}
