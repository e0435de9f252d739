package commands

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"
)

func TestPromptConfirm(t *testing.T) {
	key := []byte{0x02, 0x01}
	for in, want := range map[string]bool{"y\n": true, "YES\n": true, "n\n": false, "\n": false, "": false} {
		var out bytes.Buffer
		ok, err := promptConfirm(strings.NewReader(in), &out, "http://node")(context.Background(), key)
		if err != nil || ok != want {
			t.Fatalf("%q: got %v, %v", in, ok, err)
		}
		if !strings.Contains(out.String(), "http://node") || !strings.Contains(out.String(), "[y/N]") {
			t.Fatalf("prompt = %q", out.String())
		}
	}
}

func TestPromptConfirmCanceled(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	ok, err := promptConfirm(r, io.Discard, "http://node")(ctx, []byte{1})
	if ok || err == nil {
		t.Fatalf("got %v, %v", ok, err)
	}
}
