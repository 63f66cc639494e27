package signaling

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/frudas24/inputsim/internal/control"
	"github.com/frudas24/inputsim/internal/session"
	rtc "github.com/frudas24/inputsim/internal/webrtc"
	"github.com/gorilla/websocket"
	"github.com/pion/webrtc/v3"
	"github.com/stretchr/testify/require"
)

func newSignalingServer(t *testing.T, authFn func(*http.Request) bool) string {
	t.Helper()
	endpoint, err := rtc.NewEndpoint(func(_ context.Context, data []byte) control.Reply {
		msg, err := control.ParseMessage(data)
		if err != nil {
			return control.Reply{T: control.MsgResult, Error: err.Error()}
		}
		return control.Reply{T: control.MsgResult, Seq: msg.Seq, OK: true}
	}, nil)
	require.NoError(t, err)
	t.Cleanup(endpoint.ClosePeer)

	srv := httptest.NewServer(NewServer(endpoint, session.PolicyReplace, authFn, nil))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

// TestServer_Unauthorized verifies signaling requires auth.
func TestServer_Unauthorized(t *testing.T) {
	url := newSignalingServer(t, func(*http.Request) bool { return false })
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// TestServer_OfferAnswer verifies a full negotiation opens the input channel.
func TestServer_OfferAnswer(t *testing.T) {
	url := newSignalingServer(t, nil)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	client, err := webrtc.NewPeerConnection(webrtc.Configuration{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	dc, err := client.CreateDataChannel(rtc.InputLabel, nil)
	require.NoError(t, err)
	replies := make(chan string, 1)
	dc.OnOpen(func() { _ = dc.SendText(`{"t":"reset","seq":42}`) })
	dc.OnMessage(func(msg webrtc.DataChannelMessage) { replies <- string(msg.Data) })

	offer, err := client.CreateOffer(nil)
	require.NoError(t, err)
	gathered := webrtc.GatheringCompletePromise(client)
	require.NoError(t, client.SetLocalDescription(offer))
	<-gathered
	require.NoError(t, conn.WriteJSON(Message{T: "offer", SDP: client.LocalDescription().SDP}))

	_ = conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	for {
		var msg Message
		require.NoError(t, conn.ReadJSON(&msg))
		if msg.T == "answer" {
			require.NoError(t, client.SetRemoteDescription(webrtc.SessionDescription{Type: webrtc.SDPTypeAnswer, SDP: msg.SDP}))
			break
		}
	}

	select {
	case reply := <-replies:
		require.JSONEq(t, `{"t":"result","seq":42,"ok":true}`, reply)
	case <-time.After(10 * time.Second):
		t.Fatalf("no reply on input channel")
	}
}

// TestServer_EmptyOffer verifies a bad offer is reported before closing.
func TestServer_EmptyOffer(t *testing.T) {
	url := newSignalingServer(t, nil)
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	require.NoError(t, conn.WriteJSON(Message{T: "offer"}))
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	require.Equal(t, "error", msg.T)
	require.Contains(t, msg.Error, "empty offer")
}
