package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yoockh/halte-concierge/internal/utils"
)

const (
	defaultRealtimeURL = "wss://api.openai.com/v1/realtime"
	DefaultModel       = "gpt-4o-realtime-preview"
	DefaultVoice       = "alloy"
	protocolVersion    = "realtime=v1"
)

// Conn is one side of a duplex session. *websocket.Conn satisfies it.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	Close() error
}

// Upstream opens the provider leg of a duplex session.
type Upstream interface {
	Dial(ctx context.Context) (Conn, error)
}

// Dialer connects to the OpenAI realtime endpoint. Each Dial opens a fresh
// connection; connections are never shared between sessions.
type Dialer struct {
	apiKey  string
	model   string
	baseURL string
	dialer  *websocket.Dialer
}

func NewDialer(apiKey, model, baseURL string, handshakeTimeout time.Duration) *Dialer {
	if model == "" {
		model = DefaultModel
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = defaultRealtimeURL
	}
	if handshakeTimeout <= 0 {
		handshakeTimeout = 10 * time.Second
	}
	return &Dialer{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: handshakeTimeout,
		},
	}
}

// URL is the endpoint with the model query parameter applied.
func (d *Dialer) URL() string {
	u, err := url.Parse(d.baseURL)
	if err != nil {
		return d.baseURL + "?model=" + url.QueryEscape(d.model)
	}
	q := u.Query()
	q.Set("model", d.model)
	u.RawQuery = q.Encode()
	return u.String()
}

func (d *Dialer) Dial(ctx context.Context) (Conn, error) {
	const op = "realtime.Dialer.Dial"

	header := http.Header{}
	header.Set("Authorization", "Bearer "+d.apiKey)
	header.Set("OpenAI-Beta", protocolVersion)

	conn, resp, err := d.dialer.DialContext(ctx, d.URL(), header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		msg := "dial upstream"
		if resp != nil {
			msg = "dial upstream: " + resp.Status
		}
		return nil, utils.E(utils.CodeUpstreamConnectionLost, op, msg, err)
	}
	return conn, nil
}

type sessionUpdate struct {
	Type    string        `json:"type"`
	Session sessionConfig `json:"session"`
}

type sessionConfig struct {
	Instructions            string                  `json:"instructions"`
	Voice                   string                  `json:"voice"`
	OutputAudioFormat       string                  `json:"output_audio_format"`
	InputAudioTranscription inputAudioTranscription `json:"input_audio_transcription"`
}

type inputAudioTranscription struct {
	Enabled bool `json:"enabled"`
}

// SessionUpdate builds the one configuration frame sent upstream once the
// connection is open: persona instructions, voice, mp3 output and input
// transcription.
func SessionUpdate(instructions, voice string) ([]byte, error) {
	if voice == "" {
		voice = DefaultVoice
	}
	return json.Marshal(sessionUpdate{
		Type: "session.update",
		Session: sessionConfig{
			Instructions:            instructions,
			Voice:                   voice,
			OutputAudioFormat:       "mp3",
			InputAudioTranscription: inputAudioTranscription{Enabled: true},
		},
	})
}

var (
	_ Conn     = (*websocket.Conn)(nil)
	_ Upstream = (*Dialer)(nil)
)
