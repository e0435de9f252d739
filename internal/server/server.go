package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"sealrpc/internal/channel"
	"sealrpc/internal/crypto"
	"sealrpc/internal/domain"
	"sealrpc/internal/metrics"
	"sealrpc/internal/transport"
	"sealrpc/internal/util/log"
	"sealrpc/internal/util/memzero"
)

// JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

const maxFrameBytes = 1 << 20

// Handler serves one method. Returning a *domain.RPCError sends it as is;
// any other error becomes an internal error.
type Handler func(ctx context.Context, params json.RawMessage) (any, error)

// Server holds the server keypair and the method table.
type Server struct {
	curve    crypto.Curve
	provider crypto.Provider
	priv     domain.PrivateKey
	pub      domain.PublicKey

	mu       sync.RWMutex
	handlers map[string]Handler

	// Metrics, when set, records dispatched calls.
	Metrics *metrics.Metrics
}

// New generates a server keypair on curve and registers Echo for the
// standard methods. Nil arguments select P-256 and AES-256-GCM.
func New(curve crypto.Curve, provider crypto.Provider) (*Server, error) {
	if curve == nil {
		curve = crypto.P256
	}
	if provider == nil {
		provider = crypto.DefaultSuite()
	}
	id, err := crypto.GenerateIdentity(curve, provider.Random())
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	s := &Server{
		curve:    curve,
		provider: provider,
		priv:     id.Private,
		pub:      id.Public,
		handlers: make(map[string]Handler),
	}
	for _, m := range []string{"deploy", "execute", "transfer", "join", "split"} {
		s.Handle(m, Echo)
	}
	return s, nil
}

// PublicKey returns a copy of the advertised key.
func (s *Server) PublicKey() domain.PublicKey { return s.pub.Clone() }

// Handle registers h for method, replacing any previous handler.
func (s *Server) Handle(method string, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[method] = h
}

func (s *Server) handler(method string) (Handler, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.handlers[method]
	return h, ok
}

// Echo returns its params.
func Echo(_ context.Context, params json.RawMessage) (any, error) {
	if len(params) == 0 {
		return nil, nil
	}
	return params, nil
}

// Router returns the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc(transport.DiscoveryPath, s.handleDiscovery()).Methods(http.MethodGet, http.MethodOptions)
	r.HandleFunc("/", s.handleRPC()).Methods(http.MethodPost, http.MethodOptions)
	r.Use(accessLog, mux.CORSMethodMiddleware(r), cors)
	return r
}

// Serve listens on addr and serves h until ctx is done. A nil h serves
// Router.
func (s *Server) Serve(ctx context.Context, addr string, h http.Handler) error {
	if h == nil {
		h = s.Router()
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	log.Info("dev server listening",
		zap.String("addr", addr),
		zap.String("curve", s.curve.Name().String()),
		zap.String("cipher", s.provider.Cipher().String()),
		zap.String("fingerprint", crypto.GroupFingerprint(crypto.Fingerprint(s.pub))),
	)
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Close wipes the server private key.
func (s *Server) Close() {
	memzero.Zero(s.priv.Slice())
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// accessLog records method, path, remote, status, bytes and duration.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Debug("http",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote", r.RemoteAddr),
			zap.Int("status", rec.status),
			zap.Int("bytes", rec.bytes),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+transport.PublicKeyHeader)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleDiscovery() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, _ := json.Marshal(domain.DiscoveryResult{PublicKey: s.pub})
		writeJSON(w, http.StatusOK, domain.RPCResponse{
			JSONRPC: domain.JSONRPCVersion,
			ID:      json.RawMessage("1"),
			Result:  result,
		})
	}
}

type inbound struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	ID      json.RawMessage `json:"id"`
}

func (s *Server) handleRPC() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		peer, err := domain.ParsePublicKeyHex(r.Header.Get(transport.PublicKeyHeader))
		if err != nil || len(peer) == 0 {
			writeError(w, http.StatusBadRequest, nil, CodeInvalidRequest, "missing or malformed "+transport.PublicKeyHeader)
			return
		}
		frame, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxFrameBytes))
		if err != nil {
			writeError(w, http.StatusRequestEntityTooLarge, nil, CodeInvalidRequest, "frame too large")
			return
		}

		key, err := crypto.Agree(s.curve, s.priv, peer)
		if err != nil {
			log.Debug("rejecting sender key", zap.String("sender", crypto.Fingerprint(peer)), zap.Error(err))
			writeError(w, http.StatusBadRequest, nil, CodeInvalidRequest, "invalid sender key")
			return
		}
		plaintext, err := channel.Decrypt(s.provider, key, frame)
		memzero.Zero(key.Slice())
		if err != nil {
			log.Debug("rejecting frame", zap.String("sender", crypto.Fingerprint(peer)), zap.Error(err))
			writeError(w, http.StatusBadRequest, nil, CodeInvalidRequest, "frame authentication failed")
			return
		}

		var req inbound
		if err := json.Unmarshal(plaintext, &req); err != nil {
			writeError(w, http.StatusOK, nil, CodeParseError, "parse error")
			return
		}
		if req.JSONRPC != domain.JSONRPCVersion || req.Method == "" {
			writeError(w, http.StatusOK, req.ID, CodeInvalidRequest, "invalid request")
			return
		}
		h, ok := s.handler(req.Method)
		if !ok {
			writeError(w, http.StatusOK, req.ID, CodeMethodNotFound, "method not found: "+req.Method)
			return
		}

		log.Info("rpc", zap.String("method", req.Method), zap.String("sender", crypto.Fingerprint(peer)))
		start := time.Now()
		out, err := h(r.Context(), req.Params)
		s.Metrics.ObserveCall(req.Method, start, err)
		if err != nil {
			var rpcErr *domain.RPCError
			if errors.As(err, &rpcErr) {
				writeJSON(w, http.StatusOK, domain.RPCResponse{JSONRPC: domain.JSONRPCVersion, ID: req.ID, Error: rpcErr})
				return
			}
			log.Warn("handler failed", zap.String("method", req.Method), zap.Error(err))
			writeError(w, http.StatusOK, req.ID, CodeInternalError, err.Error())
			return
		}
		result, err := json.Marshal(out)
		if err != nil {
			writeError(w, http.StatusOK, req.ID, CodeInternalError, "encode result")
			return
		}
		writeJSON(w, http.StatusOK, domain.RPCResponse{JSONRPC: domain.JSONRPCVersion, ID: req.ID, Result: result})
	}
}

func writeError(w http.ResponseWriter, status int, id json.RawMessage, code int, msg string) {
	writeJSON(w, status, domain.RPCResponse{
		JSONRPC: domain.JSONRPCVersion,
		ID:      id,
		Error:   &domain.RPCError{Code: code, Message: msg},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug("write response", zap.Error(err))
	}
}
