package external

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"djp.chapter42.de/printerbridge/internal/auth"
	"djp.chapter42.de/printerbridge/internal/backoff"
	"djp.chapter42.de/printerbridge/internal/data"
	"djp.chapter42.de/printerbridge/internal/logger"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Message types of the Home Assistant WebSocket API.
const (
	MessageTypeAuthRequired = "auth_required"
	MessageTypeAuth         = "auth"
	MessageTypeAuthOK       = "auth_ok"
	MessageTypeAuthInvalid  = "auth_invalid"
	MessageTypeCallService  = "call_service"
	MessageTypeResult       = "result"
)

// ErrAuthInvalid is returned when Home Assistant refuses the access token. It is not retried.
var ErrAuthInvalid = errors.New("home assistant rejected the access token")

type WSMessage struct {
	ID          int                    `json:"id,omitempty"`
	Type        string                 `json:"type"`
	AccessToken string                 `json:"access_token,omitempty"`
	Domain      string                 `json:"domain,omitempty"`
	Service     string                 `json:"service,omitempty"`
	ServiceData map[string]interface{} `json:"service_data,omitempty"`
	Success     *bool                  `json:"success,omitempty"`
	Error       *WSError               `json:"error,omitempty"`
	Message     string                 `json:"message,omitempty"`
	HAVersion   string                 `json:"ha_version,omitempty"`
}

type WSError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WSClient sends service calls over one lazily opened WebSocket connection.
// Calls are serialized; a broken connection is dropped and reopened on the next call.
type WSClient struct {
	url      string
	tokens   auth.AccessTokenProvider
	dialer   *websocket.Dialer
	backoff  backoff.Exponential
	attempts int

	mu     sync.Mutex
	conn   *websocket.Conn
	nextID int
}

func NewWSClient(cfg *data.HomeAssistantConfig) (*WSClient, error) {
	wsURL := cfg.WSURL
	if wsURL == "" {
		derived, err := DeriveWebSocketURL(cfg.BaseURL)
		if err != nil {
			return nil, err
		}
		wsURL = derived
	}

	tokens, ok := cfg.AuthProvider.(auth.AccessTokenProvider)
	if !ok {
		return nil, fmt.Errorf("websocket transport needs a token or oauth2 auth provider")
	}

	attempts := cfg.Reconnect.Attempts
	if attempts <= 0 {
		attempts = 1
	}

	return &WSClient{
		url:    wsURL,
		tokens: tokens,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: 10 * time.Second,
		},
		backoff:  backoff.Exponential{Base: cfg.Reconnect.Base, Max: cfg.Reconnect.Max},
		attempts: attempts,
	}, nil
}

// DeriveWebSocketURL maps http(s)://host to ws(s)://host/api/websocket.
func DeriveWebSocketURL(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base_url: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("cannot derive websocket url from scheme %q", u.Scheme)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/api/websocket"
	return u.String(), nil
}

func (c *WSClient) CallService(ctx context.Context, domain, service string, serviceData map[string]interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		if err := c.connect(ctx); err != nil {
			return err
		}
	}

	c.nextID++
	id := c.nextID
	if serviceData == nil {
		serviceData = map[string]interface{}{}
	}

	conn := c.conn
	stop := context.AfterFunc(ctx, func() {
		conn.SetReadDeadline(time.Now())
		conn.SetWriteDeadline(time.Now())
	})
	defer stop()

	err := conn.WriteJSON(WSMessage{
		ID:          id,
		Type:        MessageTypeCallService,
		Domain:      domain,
		Service:     service,
		ServiceData: serviceData,
	})
	if err != nil {
		c.drop()
		return fmt.Errorf("error while sending %s.%s: %w", domain, service, err)
	}

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			c.drop()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("error while waiting for result of %s.%s: %w", domain, service, err)
		}
		if msg.Type != MessageTypeResult || msg.ID != id {
			logger.Log.Debug("Ignoring websocket message:", zap.String("type", msg.Type), zap.Int("id", msg.ID))
			continue
		}
		if msg.Success != nil && *msg.Success {
			return nil
		}
		if msg.Error != nil {
			return fmt.Errorf("service %s.%s failed: %s: %s", domain, service, msg.Error.Code, msg.Error.Message)
		}
		return fmt.Errorf("service %s.%s failed", domain, service)
	}
}

func (c *WSClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

func (c *WSClient) connect(ctx context.Context) error {
	var lastErr error
	for attempt := 0; attempt < c.attempts; attempt++ {
		if attempt > 0 {
			delay := c.backoff.Delay(attempt - 1)
			logger.Log.Info("Reconnecting to Home Assistant websocket", zap.Int("attempt", attempt+1), zap.Duration("delay", delay))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		conn, err := c.open(ctx)
		if err == nil {
			c.conn = conn
			return nil
		}
		if errors.Is(err, ErrAuthInvalid) {
			return err
		}
		lastErr = err
		logger.Log.Warn("Websocket connection failed:", zap.String("url", c.url), zap.Error(err))
	}
	return fmt.Errorf("websocket connection failed after %d attempts: %w", c.attempts, lastErr)
}

func (c *WSClient) open(ctx context.Context) (*websocket.Conn, error) {
	conn, _, err := c.dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return nil, err
	}

	var msg WSMessage
	if err := conn.ReadJSON(&msg); err != nil {
		conn.Close()
		return nil, fmt.Errorf("error while reading auth_required: %w", err)
	}
	if msg.Type != MessageTypeAuthRequired {
		conn.Close()
		return nil, fmt.Errorf("unexpected first message %q", msg.Type)
	}

	token, err := c.tokens.AccessToken()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if err := conn.WriteJSON(WSMessage{Type: MessageTypeAuth, AccessToken: token}); err != nil {
		conn.Close()
		return nil, err
	}

	if err := conn.ReadJSON(&msg); err != nil {
		conn.Close()
		return nil, fmt.Errorf("error while reading auth result: %w", err)
	}
	switch msg.Type {
	case MessageTypeAuthOK:
		logger.Log.Info("Connected to Home Assistant websocket", zap.String("ha_version", msg.HAVersion))
		c.nextID = 0
		return conn, nil
	case MessageTypeAuthInvalid:
		conn.Close()
		return nil, fmt.Errorf("%w: %s", ErrAuthInvalid, msg.Message)
	default:
		conn.Close()
		return nil, fmt.Errorf("unexpected auth answer %q", msg.Type)
	}
}

func (c *WSClient) drop() {
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}
