package syncbus

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/wethinkt/go-timegraph/internal/config"
	"github.com/wethinkt/go-timegraph/internal/tuilog"
)

// WSPath is the relay's websocket endpoint.
const WSPath = "/ws"

// DefaultOrigins are the browser origins allowed on /ws besides the
// relay's own host. Clients that send no Origin header are always allowed.
var DefaultOrigins = []string{"localhost:*", "127.0.0.1:*"}

// ServerConfig configures the relay.
type ServerConfig struct {
	Host    string
	Port    int
	Token   string   // bearer token required on /ws when set
	Origins []string // host patterns of allowed browser origins, DefaultOrigins if empty
	Quiet   bool     // suppress HTTP request logging
}

// Server relays signals between views over websockets. Every signal a
// connection sends is forwarded to all other connections and to local
// subscribers of the server's bus.
type Server struct {
	config    ServerConfig
	bus       *Bus
	router    chi.Router
	startedAt time.Time
}

// NewServer creates a relay around bus; a nil bus gets a fresh one.
func NewServer(cfg ServerConfig, bus *Bus) *Server {
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if len(cfg.Origins) == 0 {
		cfg.Origins = DefaultOrigins
	}
	if bus == nil {
		bus = NewBus()
	}
	s := &Server{config: cfg, bus: bus, startedAt: time.Now()}
	s.router = s.setupRouter()
	return s
}

// Handler returns the relay's HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Bus returns the bus the relay forwards through.
func (s *Server) Bus() *Bus { return s.bus }

// Addr returns host:port of the relay.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
}

func (s *Server) setupRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	if !s.config.Quiet {
		r.Use(middleware.Logger)
	}

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	r.Group(func(r chi.Router) {
		if s.config.Token != "" {
			r.Use(bearerAuth(s.config.Token))
		}
		r.Get(WSPath, s.handleWS)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled. The relay is registered
// in the config directory while it runs so views can discover it.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	if s.config.Port == 0 {
		s.config.Port = ln.Addr().(*net.TCPAddr).Port
	}

	relay := config.Relay{
		PID:       os.Getpid(),
		Host:      s.config.Host,
		Port:      s.config.Port,
		StartedAt: s.startedAt,
	}
	if err := config.RegisterRelay(relay); err != nil {
		tuilog.Log.Warn("Failed to register relay", "error", err)
	}
	defer config.UnregisterRelay(relay.PID)

	srv := &http.Server{Handler: s.router}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	tuilog.Log.Info("Sync relay listening", "addr", s.Addr())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "ok",
		"subscribers": s.bus.Len(),
		"uptime":      time.Since(s.startedAt).Round(time.Second).String(),
	})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: s.config.Origins,
	})
	if err != nil {
		tuilog.Log.Error("WebSocket accept failed", "error", err)
		return
	}
	defer conn.CloseNow()

	ch, unsub := s.bus.Subscribe()
	defer unsub()

	wsConnectionsActive.Inc()
	defer wsConnectionsActive.Dec()
	tuilog.Log.Info("Relay client connected", "remote", r.RemoteAddr)

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		for {
			_, data, err := conn.Read(ctx)
			if err != nil {
				return err
			}
			sig, err := decodeSignal(data)
			if err != nil {
				tuilog.Log.Debug("Malformed relay message", "error", err)
				continue
			}
			s.bus.PublishExcept(sig, ch)
		}
	})
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case sig, ok := <-ch:
				if !ok {
					return nil
				}
				data, err := json.Marshal(sig)
				if err != nil {
					continue
				}
				if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
					return err
				}
			}
		}
	})
	err = g.Wait()
	tuilog.Log.Info("Relay client disconnected", "remote", r.RemoteAddr, "error", err)
}

// decodeSignal parses and checks one relay message.
func decodeSignal(data []byte) (Signal, error) {
	var sig Signal
	if err := json.Unmarshal(data, &sig); err != nil {
		malformedSignalsTotal.Inc()
		return Signal{}, err
	}
	switch sig.Kind {
	case KindRange, KindTime, KindSelection, KindEntry:
	default:
		malformedSignalsTotal.Inc()
		return Signal{}, fmt.Errorf("unknown signal kind %q", sig.Kind)
	}
	if sig.Source == "" {
		malformedSignalsTotal.Inc()
		return Signal{}, errors.New("signal without source")
	}
	return sig, nil
}

// bearerAuth returns middleware that validates a bearer token using
// constant-time comparison.
func bearerAuth(token string) func(http.Handler) http.Handler {
	const prefix = "Bearer "
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if len(auth) < len(prefix) || auth[:len(prefix)] != prefix {
				w.Header().Set("WWW-Authenticate", `Bearer realm="timegraph-sync"`)
				writeError(w, http.StatusUnauthorized, "unauthorized", "Missing or malformed Authorization header")
				return
			}
			if subtle.ConstantTimeCompare([]byte(auth[len(prefix):]), []byte(token)) != 1 {
				writeError(w, http.StatusUnauthorized, "unauthorized", "Invalid token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ErrorResponse is a relay error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeError(w http.ResponseWriter, status int, err string, msg string) {
	writeJSON(w, status, ErrorResponse{Error: err, Message: msg})
}
