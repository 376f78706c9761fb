package services

import (
	"bytes"
	"context"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/yoockh/halte-concierge/internal/models"
	"github.com/yoockh/halte-concierge/internal/persona"
	"github.com/yoockh/halte-concierge/internal/providers/realtime"
)

const closeWriteWait = time.Second

var replacementChar = []byte(string(utf8.RuneError))

// RelayService bridges one guest websocket to one freshly dialed upstream
// realtime connection until either side goes away.
type RelayService interface {
	Serve(ctx context.Context, client realtime.Conn) models.CloseReason
}

type relayService struct {
	upstream realtime.Upstream
	config   []byte
	log      *logrus.Logger
}

// NewRelayService prebuilds the session.update frame; the persona never
// changes so every session sends the same bytes.
func NewRelayService(up realtime.Upstream, p persona.Config, voice string, log *logrus.Logger) (RelayService, error) {
	frame, err := realtime.SessionUpdate(p.Instructions(), voice)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logrus.New()
	}
	return &relayService{upstream: up, config: frame, log: log}, nil
}

func (s *relayService) Serve(ctx context.Context, client realtime.Conn) models.CloseReason {
	started := time.Now()
	log := s.log.WithField("session_id", uuid.NewString())
	transition := func(st models.SessionState) {
		log.WithField("state", st).Info("relay session")
	}

	transition(models.SessionConnecting)

	up, err := s.upstream.Dial(ctx)
	if err != nil {
		log.WithError(err).Error("upstream dial failed")
		closeConn(client, websocket.CloseInternalServerErr)
		return s.closed(log, models.CloseDialFailed, started, 0, 0)
	}

	if err := up.WriteMessage(websocket.TextMessage, s.config); err != nil {
		log.WithError(err).Error("session config send failed")
		closeConn(up, websocket.CloseNormalClosure)
		closeConn(client, websocket.CloseInternalServerErr)
		return s.closed(log, models.CloseConfigFailed, started, 0, 0)
	}
	transition(models.SessionConfigSent)

	relayCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		fromClient, fromUpstream atomic.Int64
		once                     sync.Once
		reason                   models.CloseReason
		wg                       sync.WaitGroup
	)
	finish := func(r models.CloseReason) {
		once.Do(func() {
			reason = r
			cancel()
		})
	}

	transition(models.SessionRelaying)

	wg.Add(2)
	go func() {
		defer wg.Done()
		finish(forward(relayCtx, client, up, &fromClient, models.CloseByClient, models.CloseByUpstream))
	}()
	go func() {
		defer wg.Done()
		finish(forward(relayCtx, up, client, &fromUpstream, models.CloseByUpstream, models.CloseByClient))
	}()

	select {
	case <-relayCtx.Done():
	case <-ctx.Done():
	}
	finish(models.CloseContextCancel)

	// Unblock whichever ReadMessage is still pending.
	closeConn(up, websocket.CloseNormalClosure)
	closeConn(client, websocket.CloseNormalClosure)
	wg.Wait()

	return s.closed(log, reason, started, fromClient.Load(), fromUpstream.Load())
}

func (s *relayService) closed(log *logrus.Entry, reason models.CloseReason, started time.Time, fromClient, fromUpstream int64) models.CloseReason {
	log.WithFields(logrus.Fields{
		"state":           models.SessionClosed,
		"reason":          reason,
		"duration_ms":     time.Since(started).Milliseconds(),
		"client_frames":   fromClient,
		"upstream_frames": fromUpstream,
	}).Info("relay session")
	return reason
}

// forward copies frames from src to dst as text until one side fails. The
// returned reason names the side whose failure stopped the loop. Bytes that
// are not valid UTF-8 become U+FFFD so every text frame stays legal.
func forward(ctx context.Context, src, dst realtime.Conn, count *atomic.Int64, srcGone, dstGone models.CloseReason) models.CloseReason {
	for {
		_, data, err := src.ReadMessage()
		if err != nil {
			return srcGone
		}
		if ctx.Err() != nil {
			return srcGone
		}
		if !utf8.Valid(data) {
			data = bytes.ToValidUTF8(data, replacementChar)
		}
		if err := dst.WriteMessage(websocket.TextMessage, data); err != nil {
			return dstGone
		}
		count.Add(1)
	}
}

func closeConn(c realtime.Conn, code int) {
	msg := websocket.FormatCloseMessage(code, "")
	_ = c.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeWriteWait))
	_ = c.Close()
}
