package syncbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/coder/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/wethinkt/go-timegraph/internal/tuilog"
)

// URL returns the websocket URL of a relay listening on addr (host:port).
func URL(addr string) string {
	return "ws://" + addr + WSPath
}

// Client is a Transport backed by a relay connection. Signals published
// on it are sent to the relay; signals from the relay are fanned out to
// its subscribers. Run must be called to move data.
type Client struct {
	conn  *websocket.Conn
	local *Bus
	out   chan Signal
}

// Dial connects to the relay at url.
func Dial(ctx context.Context, url, token string) (*Client, error) {
	opts := &websocket.DialOptions{}
	if token != "" {
		opts.HTTPHeader = http.Header{
			"Authorization": []string{"Bearer " + token},
		}
	}
	conn, _, err := websocket.Dial(ctx, url, opts)
	if err != nil {
		return nil, fmt.Errorf("dial relay %s: %w", url, err)
	}
	tuilog.Log.Info("Connected to sync relay", "url", url)
	return &Client{
		conn:  conn,
		local: NewBus(),
		out:   make(chan Signal, subscriberBuffer),
	}, nil
}

// Publish queues s for the relay. It never blocks; when the queue is full
// the signal is dropped.
func (c *Client) Publish(s Signal) {
	select {
	case c.out <- s:
	default:
		signalsDroppedTotal.Inc()
		tuilog.Log.Warn("Dropping signal, relay connection backed up", "kind", s.Kind)
	}
}

// Subscribe receives signals arriving from the relay.
func (c *Client) Subscribe() (<-chan Signal, func()) {
	return c.local.Subscribe()
}

// Run pumps signals in both directions until ctx is cancelled or the
// connection fails. A normal close or cancellation returns nil.
func (c *Client) Run(parent context.Context) error {
	g, ctx := errgroup.WithContext(parent)
	g.Go(func() error {
		for {
			_, data, err := c.conn.Read(ctx)
			if err != nil {
				return err
			}
			sig, err := decodeSignal(data)
			if err != nil {
				tuilog.Log.Debug("Malformed relay message", "error", err)
				continue
			}
			c.local.Publish(sig)
		}
	})
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case sig := <-c.out:
				data, err := json.Marshal(sig)
				if err != nil {
					continue
				}
				if err := c.conn.Write(ctx, websocket.MessageText, data); err != nil {
					return err
				}
			}
		}
	})

	err := g.Wait()
	if parent.Err() != nil || errors.Is(err, context.Canceled) || websocket.CloseStatus(err) == websocket.StatusNormalClosure {
		return nil
	}
	return err
}

// Close closes the relay connection.
func (c *Client) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "client closing")
}
