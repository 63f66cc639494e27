// Package webrtc accepts peer connections whose "input" data channel
// carries control messages.
package webrtc

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/frudas24/inputsim/internal/applog"
	"github.com/frudas24/inputsim/internal/control"
	"github.com/pion/interceptor"
	"github.com/pion/logging"
	"github.com/pion/webrtc/v3"
)

// InputLabel is the data channel label that carries control messages.
const InputLabel = "input"

// Handler executes one control payload and returns its reply.
type Handler func(ctx context.Context, data []byte) control.Reply

// Endpoint creates peer connections and binds their input channel to a
// handler. At most one peer is live at a time.
type Endpoint struct {
	mu     sync.Mutex
	api    *webrtc.API
	handle Handler
	log    logging.LeveledLogger
	peer   *webrtc.PeerConnection
	cancel context.CancelFunc
}

// NewEndpoint initializes the WebRTC API with default codecs and
// interceptors, logging through factory.
func NewEndpoint(handle Handler, factory logging.LoggerFactory) (*Endpoint, error) {
	if handle == nil {
		return nil, fmt.Errorf("handler is required")
	}
	media := &webrtc.MediaEngine{}
	if err := media.RegisterDefaultCodecs(); err != nil {
		return nil, fmt.Errorf("register codecs: %w", err)
	}

	interceptors := &interceptor.Registry{}
	if err := webrtc.RegisterDefaultInterceptors(media, interceptors); err != nil {
		return nil, fmt.Errorf("register interceptors: %w", err)
	}

	settings := webrtc.SettingEngine{}
	log := applog.Discard()
	if factory != nil {
		settings.LoggerFactory = factory
		log = factory.NewLogger("peer")
	}

	api := webrtc.NewAPI(
		webrtc.WithMediaEngine(media),
		webrtc.WithInterceptorRegistry(interceptors),
		webrtc.WithSettingEngine(settings),
	)

	return &Endpoint{api: api, handle: handle, log: log}, nil
}

// NewPeer replaces any live peer with a fresh one.
func (e *Endpoint) NewPeer() (*webrtc.PeerConnection, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.closeLocked()

	peer, err := e.api.NewPeerConnection(webrtc.Configuration{})
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())

	peer.OnDataChannel(func(dc *webrtc.DataChannel) {
		if dc.Label() != InputLabel {
			e.log.Warnf("ignoring data channel %q", dc.Label())
			_ = dc.Close()
			return
		}
		e.log.Infof("input channel open")
		dc.OnMessage(func(msg webrtc.DataChannelMessage) {
			if !msg.IsString {
				return
			}
			reply := e.handle(ctx, msg.Data)
			data, err := json.Marshal(reply)
			if err != nil {
				e.log.Errorf("encode reply: %v", err)
				return
			}
			if err := dc.SendText(string(data)); err != nil {
				e.log.Warnf("send reply: %v", err)
			}
		})
	})
	peer.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		e.log.Debugf("peer state: %s", state)
		if state == webrtc.PeerConnectionStateFailed || state == webrtc.PeerConnectionStateClosed {
			cancel()
		}
	})

	e.peer = peer
	e.cancel = cancel
	return peer, nil
}

// ClosePeer closes the current peer connection.
func (e *Endpoint) ClosePeer() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closeLocked()
}

func (e *Endpoint) closeLocked() {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	if e.peer != nil {
		_ = e.peer.Close()
		e.peer = nil
	}
}
