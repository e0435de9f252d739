package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"sealrpc/internal/channel"
	"sealrpc/internal/domain"
	"sealrpc/internal/metrics"
	"sealrpc/internal/util/log"
)

// Error is a JSON-RPC error object returned by the server.
type Error = domain.RPCError

const maxResponseBytes = 4 << 20

// Sender seals requests and posts them to one server.
type Sender struct {
	URL       string
	Transport domain.Transport
	Channel   *channel.Channel
	Public    domain.PublicKey
	Metrics   *metrics.Metrics
}

// Send marshals, encrypts and posts req. The response is returned as
// received; the caller closes its body.
func (s *Sender) Send(ctx context.Context, req domain.RPCRequest) (*http.Response, error) {
	start := time.Now()
	resp, err := s.send(ctx, req)
	s.Metrics.ObserveCall(req.Method, start, err)
	if err != nil {
		log.Debug("rpc send failed", zap.String("method", req.Method), zap.Uint64("id", req.ID), zap.Error(err))
		return nil, err
	}
	log.Debug("rpc sent", zap.String("method", req.Method), zap.Uint64("id", req.ID), zap.Int("status", resp.StatusCode))
	return resp, nil
}

func (s *Sender) send(ctx context.Context, req domain.RPCRequest) (*http.Response, error) {
	if s.Channel == nil || s.Transport == nil {
		return nil, domain.ErrNotReady
	}
	body, err := Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("rpc: marshal %s: %w", req.Method, err)
	}
	frame, err := s.Channel.Encrypt(body)
	if err != nil {
		return nil, err
	}
	return s.Transport.PostFrame(ctx, s.URL, frame, s.Public)
}

// DecodeResponse reads a JSON-RPC response from resp, closes the body and
// unmarshals the result into out. A nil out discards the result. An error
// member is returned as *Error.
func DecodeResponse(resp *http.Response, out any) error {
	defer resp.Body.Close()
	b, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("rpc: read response: %w", err)
	}
	var env domain.RPCResponse
	if err := json.Unmarshal(b, &env); err != nil {
		if resp.StatusCode/100 != 2 {
			return fmt.Errorf("rpc: %s", resp.Status)
		}
		return fmt.Errorf("rpc: decode response: %w", err)
	}
	if env.Error != nil {
		return env.Error
	}
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("rpc: %s", resp.Status)
	}
	if out == nil || len(env.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("rpc: decode result: %w", err)
	}
	return nil
}

// IsError reports whether err carries a JSON-RPC error object and returns it.
func IsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}
