package rpc_test

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"sealrpc/internal/rpc"
)

type transferParams struct {
	To     string `json:"to"`
	Amount int    `json:"amount"`
}

func mustMarshal(t *testing.T, method string, params any, id uint64) string {
	t.Helper()
	req, err := rpc.BuildRequest(method, params, id)
	if err != nil {
		t.Fatalf("BuildRequest: %v", err)
	}
	b, err := rpc.Marshal(req)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	return string(b)
}

func TestTransferIsPositional(t *testing.T) {
	got := mustMarshal(t, rpc.MethodTransfer, transferParams{To: "X", Amount: 5}, 1)
	want := `{"jsonrpc":"2.0","method":"transfer","params":["X",5],"id":1}`
	if got != want {
		t.Fatalf("got %s\nwant %s", got, want)
	}
}

func TestPositionalFromRawObjectKeepsOrder(t *testing.T) {
	raw := json.RawMessage(`{"b": 2, "a": {"x": [1, 2]}, "c": "<&>"}`)
	got := mustMarshal(t, rpc.MethodJoin, raw, 7)
	want := `{"jsonrpc":"2.0","method":"join","params":[2,{"x":[1,2]},"<&>"],"id":7}`
	if got != want {
		t.Fatalf("got %s\nwant %s", got, want)
	}
}

func TestPositionalSliceAndScalar(t *testing.T) {
	if got := mustMarshal(t, rpc.MethodSplit, []int{3, 4}, 2); got != `{"jsonrpc":"2.0","method":"split","params":[3,4],"id":2}` {
		t.Fatalf("slice: %s", got)
	}
	if got := mustMarshal(t, rpc.MethodDeploy, "code", 3); got != `{"jsonrpc":"2.0","method":"deploy","params":["code"],"id":3}` {
		t.Fatalf("scalar: %s", got)
	}
	if got := mustMarshal(t, rpc.MethodDeploy, nil, 4); got != `{"jsonrpc":"2.0","method":"deploy","params":[],"id":4}` {
		t.Fatalf("nil: %s", got)
	}
}

func TestPositionalRejectsMaps(t *testing.T) {
	m := map[string]any{"to": "X", "amount": 5}
	for _, params := range []any{m, &m} {
		_, err := rpc.BuildRequest(rpc.MethodTransfer, params, 1)
		if !errors.Is(err, rpc.ErrUnorderedParams) {
			t.Fatalf("%T: err = %v, want ErrUnorderedParams", params, err)
		}
	}
	// Named methods still take maps.
	if _, err := rpc.BuildRequest(rpc.MethodExecute, m, 1); err != nil {
		t.Fatalf("execute: %v", err)
	}
}

func TestExecuteIsNamed(t *testing.T) {
	got := mustMarshal(t, rpc.MethodExecute, map[string]any{"contract": "c1"}, 1)
	want := `{"jsonrpc":"2.0","method":"execute","params":{"contract":"c1"},"id":1}`
	if got != want {
		t.Fatalf("got %s\nwant %s", got, want)
	}
	if got := mustMarshal(t, "status", nil, 9); got != `{"jsonrpc":"2.0","method":"status","params":{},"id":9}` {
		t.Fatalf("unknown method: %s", got)
	}
}

func TestConventionFor(t *testing.T) {
	cases := map[string]rpc.Convention{
		"deploy": rpc.Positional, "transfer": rpc.Positional, "join": rpc.Positional,
		"split": rpc.Positional, "execute": rpc.Named, "whatever": rpc.Named,
	}
	for m, want := range cases {
		if got := rpc.ConventionFor(m); got != want {
			t.Fatalf("%s: got %v want %v", m, got, want)
		}
	}
}

func TestBuildRequestRejectsEmptyMethod(t *testing.T) {
	if _, err := rpc.BuildRequest("", nil, 1); err == nil {
		t.Fatalf("expected error")
	}
}

func TestPositionalRejectsBadJSON(t *testing.T) {
	if _, err := rpc.BuildRequest(rpc.MethodTransfer, json.RawMessage(`{"a":`), 1); err == nil {
		t.Fatalf("expected error")
	}
}

func TestCounterIsMonotonic(t *testing.T) {
	var c rpc.Counter
	if got := c.Next(); got != 1 {
		t.Fatalf("first id = %d", got)
	}
	var wg sync.WaitGroup
	seen := make(chan uint64, 100)
	for range 100 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- c.Next()
		}()
	}
	wg.Wait()
	close(seen)
	uniq := map[uint64]bool{}
	for id := range seen {
		if id < 2 || id > 101 || uniq[id] {
			t.Fatalf("bad id %d", id)
		}
		uniq[id] = true
	}
}

func TestStaticID(t *testing.T) {
	s := rpc.StaticID(1)
	if s.Next() != 1 || s.Next() != 1 {
		t.Fatalf("static id moved")
	}
}
