package cli

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dirgraph/pkg/engine"
	apperrors "github.com/matzehuels/dirgraph/pkg/errors"
	"github.com/matzehuels/dirgraph/pkg/graph"
	"github.com/matzehuels/dirgraph/pkg/observability"
	"github.com/matzehuels/dirgraph/pkg/session"
)

const (
	maxInputBytes   = 64 << 10
	writeTimeout    = 5 * time.Second
	shutdownTimeout = 5 * time.Second
)

// serveCommand creates the serve command that streams a live graph to remote
// renderers.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve [dir]",
		Short: "Serve a live graph over HTTP and websockets",
		Long: `Serve a live graph of a directory to remote renderers.

Endpoints:
  GET  /api/snapshot   current graph as JSON
  POST /api/input      apply one input event, returns the click outcome
  GET  /ws             websocket: snapshot frame per tick, input events in`,
		Example: `  # Serve the current directory on the configured address
  dirgraph serve

  # Serve a directory on all interfaces
  dirgraph serve ~/src --addr :7878`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, args []string, addr string) error {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if addr == "" {
		addr = cfg.Serve.Addr
	}
	if err := apperrors.ValidateListenAddr(addr); err != nil {
		return err
	}
	root, err := c.resolveRoot(args)
	if err != nil {
		return err
	}
	e, err := c.newEngine(cfg, root)
	if err != nil {
		return err
	}
	e.Expand(e.Root())

	sess := session.New(e, session.Options{Tick: cfg.Tick(), Logger: logger})
	sessCtx, stopSession := context.WithCancel(ctx)
	defer stopSession()
	go sess.Run(sessCtx)

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           newServer(sess, logger).routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- httpSrv.ListenAndServe() }()

	printSuccess("Serving %s", root)
	printKeyValue("Address", "http://"+addr)
	printKeyValue("Session", sess.ID)
	printDetail("GET /api/snapshot · POST /api/input · GET /ws")
	printInfo("Press Ctrl+C to stop")

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	stopSession()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", "err", err)
	}
	return ctx.Err()
}

// =============================================================================
// server - HTTP and Websocket Handlers
// =============================================================================

type server struct {
	sess     *session.Session
	logger   *log.Logger
	upgrader websocket.Upgrader
}

func newServer(sess *session.Session, logger *log.Logger) *server {
	return &server{
		sess:   sess,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/api/snapshot", s.handleSnapshot)
	r.Post("/api/input", s.handleInput)
	r.Get("/ws", s.handleWS)
	return r
}

func (s *server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.sess.Snapshot(r.Context())
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInternal, err, "snapshot"))
		return
	}
	writeJSON(w, http.StatusOK, graph.FromSnapshot(snap))
}

func (s *server) handleInput(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxInputBytes))
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	in, err := graph.UnmarshalInput(data)
	if err != nil {
		writeError(w, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "decode input"))
		return
	}
	ev, err := s.apply(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, graph.FromEvent(ev))
}

// apply feeds in to the session and classifies the failure.
func (s *server) apply(ctx context.Context, in graph.Input) (engine.Event, error) {
	ev, err := s.sess.Apply(ctx, in)
	switch {
	case err == nil:
		return ev, nil
	case errors.Is(err, session.ErrClosed), errors.Is(err, context.Canceled):
		return ev, apperrors.Wrap(apperrors.ErrCodeInternal, err, "apply input")
	default:
		return ev, apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "apply input")
	}
}

func (s *server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("ws upgrade", "err", err)
		return
	}
	ws := newSafeConn(conn)
	defer ws.Close()

	clientID := uuid.NewString()
	hooks := observability.Session()
	hooks.OnClientConnect(clientID)

	sub, err := s.sess.Subscribe(r.Context())
	if err != nil {
		hooks.OnClientDisconnect(clientID, err)
		return
	}
	defer sub.Close()

	readErr := make(chan error, 1)
	go s.readInputs(ws, sub, readErr)

	err = s.writeFrames(ws, sub, readErr)
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		err = nil
	}
	hooks.OnClientDisconnect(clientID, err)
}

// writeFrames pushes frames until the client goes away or the session stops.
func (s *server) writeFrames(ws *safeConn, sub *session.Subscription, readErr <-chan error) error {
	for {
		select {
		case f, ok := <-sub.Frames():
			if !ok {
				ws.closeWith(websocket.CloseGoingAway, "session closed")
				return nil
			}
			if err := ws.WriteJSON(f); err != nil {
				return err
			}
		case err := <-readErr:
			return err
		}
	}
}

// readInputs applies every input message from the client. Rejected inputs
// are answered with an error frame on the client's own subscription; the
// connection stays open.
func (s *server) readInputs(ws *safeConn, sub *session.Subscription, readErr chan<- error) {
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			readErr <- err
			return
		}
		in, err := graph.UnmarshalInput(data)
		if err == nil {
			_, err = s.apply(context.Background(), in)
		}
		if err == nil {
			continue
		}
		if errors.Is(err, session.ErrClosed) {
			readErr <- err
			return
		}
		if rerr := sub.Reject(context.Background(), err); rerr != nil {
			readErr <- rerr
			return
		}
	}
}

// =============================================================================
// safeConn - Serialized Websocket Writes
// =============================================================================

// safeConn serializes writes to a websocket.Conn. Reads happen on a single
// goroutine and need no lock.
type safeConn struct {
	c       *websocket.Conn
	writeMu sync.Mutex
}

func newSafeConn(c *websocket.Conn) *safeConn {
	return &safeConn{c: c}
}

func (s *safeConn) ReadMessage() (int, []byte, error) {
	return s.c.ReadMessage()
}

func (s *safeConn) WriteJSON(v any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.c.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return s.c.WriteJSON(v)
}

func (s *safeConn) closeWith(code int, reason string) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	msg := websocket.FormatCloseMessage(code, reason)
	_ = s.c.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeTimeout))
}

func (s *safeConn) Close() error {
	return s.c.Close()
}

// =============================================================================
// HTTP Helpers
// =============================================================================

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError answers with the status for err's code. The body carries the
// message and its immediate cause.
func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, apperrors.HTTPStatus(err), errorBody{
		Error: errorMessage(err),
		Code:  string(apperrors.GetCode(err)),
	})
}

// requestLogger logs each request at debug level.
func requestLogger(l *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			l.Debug("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "took", time.Since(start).Round(time.Microsecond))
		})
	}
}
