package api

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	reconnectBaseDelay = 1 * time.Second
	reconnectMaxDelay  = 30 * time.Second
	writeTimeout       = 10 * time.Second
	pongTimeout        = 60 * time.Second
	pingInterval       = 30 * time.Second
)

// WSClient manages the event-stream connection to the Blastline backend.
// The backend pushes campaign delivery progress, template review decisions
// and WhatsApp channel health over it.
type WSClient struct {
	url string
	log zerolog.Logger

	mu      sync.Mutex
	writeMu sync.Mutex // serialises all conn writes (ping, auth)
	token   string
	conn    *websocket.Conn
	seq     uint64
	pingCtx context.CancelFunc // cancels the active ping goroutine
}

// NewWSClient creates a client that connects to the given WebSocket URL.
func NewWSClient(url, token string, log zerolog.Logger) *WSClient {
	return &WSClient{url: url, token: token, log: log}
}

// SetToken updates the credential sent in the auth frame on the next dial.
func (c *WSClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// --- Bubble Tea messages ---

// WSConnectedMsg is sent when the event stream connects.
type WSConnectedMsg struct{}

// WSDisconnectedMsg is sent when the connection drops.
type WSDisconnectedMsg struct{ Err error }

// WSCampaignProgressMsg delivers a campaign delivery-progress update.
type WSCampaignProgressMsg struct{ Payload CampaignProgressPayload }

// WSTemplateStatusMsg delivers a provider review decision.
type WSTemplateStatusMsg struct{ Payload TemplateStatusPayload }

// WSChannelStatusMsg reports WhatsApp channel health changes.
type WSChannelStatusMsg struct{ Payload ChannelStatusPayload }

// WSErrorMsg wraps a server-side error event.
type WSErrorMsg struct{ Raw json.RawMessage }

// Listen returns a Bubble Tea command that connects and authenticates.
// It retries with capped exponential backoff until the context is cancelled.
func (c *WSClient) Listen(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		delay := reconnectBaseDelay
		for {
			select {
			case <-ctx.Done():
				return nil
			default:
			}

			conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
			if err != nil {
				c.log.Warn().Err(err).Dur("retry_in", delay).Msg("event stream dial failed")
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(delay):
				}
				delay = min(delay*2, reconnectMaxDelay)
				continue
			}

			// Authenticate before the connection is shared; no write mutex
			// needed because it is not stored in c.conn yet.
			c.mu.Lock()
			token := c.token
			c.mu.Unlock()
			if token != "" {
				auth := map[string]string{"type": "auth", "token": token}
				if err := conn.WriteJSON(auth); err != nil {
					conn.Close()
					continue
				}
			}

			c.mu.Lock()
			if c.pingCtx != nil {
				c.pingCtx()
			}
			pingCtx, pingCancel := context.WithCancel(ctx)
			c.conn = conn
			c.seq = 0
			c.pingCtx = pingCancel
			c.mu.Unlock()

			go c.pingLoop(pingCtx, conn)

			return WSConnectedMsg{}
		}
	}
}

// ReadLoop returns a Bubble Tea command that reads events from the
// connection. Start it after receiving WSConnectedMsg and re-issue it after
// every dispatched event.
func (c *WSClient) ReadLoop(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()
		if conn == nil {
			return WSDisconnectedMsg{Err: fmt.Errorf("no connection")}
		}

		conn.SetPongHandler(func(string) error {
			conn.SetReadDeadline(time.Now().Add(pongTimeout))
			return nil
		})
		conn.SetReadDeadline(time.Now().Add(pongTimeout))

		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				c.mu.Lock()
				if c.conn == conn {
					c.conn = nil
				}
				c.mu.Unlock()
				conn.Close()
				return WSDisconnectedMsg{Err: err}
			}

			var ev WSEvent
			if err := json.Unmarshal(data, &ev); err != nil {
				continue
			}

			c.mu.Lock()
			c.seq = ev.Seq
			c.mu.Unlock()

			teaMsg := dispatch(ev)
			if teaMsg != nil {
				return teaMsg
			}
		}
	}
}

// pingLoop sends periodic pings on the given connection. It exits when the
// context is cancelled or the connection changes.
func (c *WSClient) pingLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.mu.Lock()
			cc := c.conn
			c.mu.Unlock()
			if cc != conn {
				return
			}
			c.writeMu.Lock()
			conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			err := conn.WriteMessage(websocket.PingMessage, nil)
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

// Seq returns the last seen sequence number.
func (c *WSClient) Seq() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

func dispatch(ev WSEvent) tea.Msg {
	switch ev.Type {
	case EventCampaignProgress:
		var p CampaignProgressPayload
		if json.Unmarshal(ev.Payload, &p) == nil {
			return WSCampaignProgressMsg{Payload: p}
		}
	case EventTemplateStatus:
		var p TemplateStatusPayload
		if json.Unmarshal(ev.Payload, &p) == nil {
			return WSTemplateStatusMsg{Payload: p}
		}
	case EventChannelStatus:
		var p ChannelStatusPayload
		if json.Unmarshal(ev.Payload, &p) == nil {
			return WSChannelStatusMsg{Payload: p}
		}
	case EventError:
		return WSErrorMsg{Raw: ev.Payload}
	}
	return nil
}
