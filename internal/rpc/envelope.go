package rpc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sync/atomic"

	"sealrpc/internal/domain"
)

const (
	MethodDeploy   = "deploy"
	MethodExecute  = "execute"
	MethodTransfer = "transfer"
	MethodJoin     = "join"
	MethodSplit    = "split"
)

// Convention is how a method expects its params.
type Convention int

const (
	// Named sends params as a JSON object.
	Named Convention = iota
	// Positional sends params as a JSON array.
	Positional
)

// Conventions is the calling convention of every known method. Methods not
// listed are called with named params.
var Conventions = map[string]Convention{
	MethodDeploy:   Positional,
	MethodExecute:  Named,
	MethodTransfer: Positional,
	MethodJoin:     Positional,
	MethodSplit:    Positional,
}

// ConventionFor returns the convention for method.
func ConventionFor(method string) Convention {
	if c, ok := Conventions[method]; ok {
		return c
	}
	return Named
}

// ErrUnorderedParams is returned when a map is given to a positional method.
var ErrUnorderedParams = errors.New("map params have no order; use a struct or json.RawMessage")

// IDSource hands out request ids.
type IDSource interface {
	Next() uint64
}

// Counter is a goroutine-safe IDSource starting at 1.
type Counter struct {
	n atomic.Uint64
}

// Next returns the next id.
func (c *Counter) Next() uint64 { return c.n.Add(1) }

// StaticID always returns the same id.
type StaticID uint64

// Next returns s.
func (s StaticID) Next() uint64 { return uint64(s) }

// BuildRequest wraps params for method using its registered convention.
func BuildRequest(method string, params any, id uint64) (domain.RPCRequest, error) {
	return BuildRequestWith(method, ConventionFor(method), params, id)
}

// BuildRequestWith wraps params for method using conv.
func BuildRequestWith(method string, conv Convention, params any, id uint64) (domain.RPCRequest, error) {
	if method == "" {
		return domain.RPCRequest{}, fmt.Errorf("rpc: empty method")
	}
	var (
		p   any
		err error
	)
	switch conv {
	case Positional:
		p, err = positional(params)
	default:
		p, err = named(params)
	}
	if err != nil {
		return domain.RPCRequest{}, fmt.Errorf("rpc: %s params: %w", method, err)
	}
	return domain.RPCRequest{
		JSONRPC: domain.JSONRPCVersion,
		Method:  method,
		Params:  p,
		ID:      id,
	}, nil
}

// Marshal encodes req compactly without HTML escaping.
func Marshal(req domain.RPCRequest) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(req); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func named(params any) (any, error) {
	if params == nil {
		return map[string]any{}, nil
	}
	return params, nil
}

// positional turns params into an ordered sequence. Slices and arrays pass
// through; objects contribute their values in encoding order; a lone scalar
// becomes a one-element sequence.
func positional(params any) (any, error) {
	switch v := params.(type) {
	case nil:
		return []any{}, nil
	case json.RawMessage:
		return flattenJSON(v)
	case []byte:
		return flattenJSON(v)
	}
	switch reflect.Indirect(reflect.ValueOf(params)).Kind() {
	case reflect.Slice, reflect.Array:
		return params, nil
	case reflect.Map:
		return nil, ErrUnorderedParams
	}
	b, err := json.Marshal(params)
	if err != nil {
		return nil, err
	}
	return flattenJSON(b)
}

func flattenJSON(b []byte) ([]json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return []json.RawMessage{json.RawMessage(bytes.TrimSpace(b))}, nil
	}
	if delim != '{' && delim != '[' {
		return nil, fmt.Errorf("unexpected %v", delim)
	}
	out := []json.RawMessage{}
	for dec.More() {
		if delim == '{' {
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
		}
		var v json.RawMessage
		if err := dec.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
