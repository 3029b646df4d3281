package options

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"
)

func TestDecode(t *testing.T) {
	want := []Option{{ID: 0, Label: "Brown"}, {ID: 1, Label: "Blue"}}

	fromJSON, err := DecodeJSON([]byte(`[{"id":0,"label":"Brown"},{"id":1,"name":" Blue "}]`))
	if err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if diff := cmp.Diff(want, fromJSON); diff != "" {
		t.Fatalf("json mismatch (-want +got):\n%s", diff)
	}

	fromYAML, err := DecodeYAML([]byte("- id: 0\n  label: Brown\n- id: 1\n  name: Blue\n"))
	if err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if diff := cmp.Diff(want, fromYAML); diff != "" {
		t.Fatalf("yaml mismatch (-want +got):\n%s", diff)
	}

	if _, err := DecodeJSON([]byte(`[{"label":"no id"}]`)); err == nil || !strings.Contains(err.Error(), "missing an id") {
		t.Fatalf("expected missing id error, got %v", err)
	}
	if _, err := DecodeJSON([]byte(`{`)); err == nil {
		t.Fatalf("expected malformed json to fail")
	}
}

func TestFileSupplier_ReadsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tastes.json")
	if err := os.WriteFile(path, []byte(`[{"id":3,"label":"Sweet"}]`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := File(path).Load(context.Background(), "tastes")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]Option{{ID: 3, Label: "Sweet"}}, got); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestFileSupplier_WaitsForFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kinds.yaml")
	go func() {
		time.Sleep(30 * time.Millisecond)
		_ = os.WriteFile(path, []byte("- id: 1\n  label: Elvis\n"), 0o644)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	got, err := File(path).Load(ctx, "kinds")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]Option{{ID: 1, Label: "Elvis"}}, got); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestFileSupplier_HonoursContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := File(path).Load(ctx, "missing"); err == nil {
		t.Fatalf("expected context error")
	}
	if _, err := File("").Load(context.Background(), "x"); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestHTTPSupplier(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/options/eyeColors" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("X-Token") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":0,"label":"Brown"}]`))
	}))
	defer srv.Close()

	supplier := HTTP(srv.URL + "/options/{name}")
	supplier.Headers = map[string]string{"X-Token": "secret"}
	got, err := supplier.Load(context.Background(), "eyeColors")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff([]Option{{ID: 0, Label: "Brown"}}, got); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}

	if _, err := supplier.Load(context.Background(), "unknown"); err == nil || !strings.Contains(err.Error(), "unexpected status 404") {
		t.Fatalf("expected status error, got %v", err)
	}
	if _, err := HTTP(" ").Load(context.Background(), "x"); err == nil {
		t.Fatalf("expected error for empty url")
	}
}

func TestNewRedisSupplier_ClosesClientWhenPingFails(t *testing.T) {
	var created *redis.Client
	orig := newRedisClient
	newRedisClient = func(opts *redis.Options) *redis.Client {
		opts.DialTimeout = 50 * time.Millisecond
		opts.MaxRetries = -1
		created = redis.NewClient(opts)
		return created
	}
	defer func() { newRedisClient = orig }()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if _, err := NewRedisSupplier(ctx, RedisConfig{Addr: "127.0.0.1:1"}); err == nil {
		t.Fatalf("expected ping against a closed port to fail")
	}
	if created == nil {
		t.Fatalf("expected a client to be created")
	}
	if err := created.Ping(ctx).Err(); !errors.Is(err, redis.ErrClosed) {
		t.Fatalf("expected client to be closed, got %v", err)
	}
}

func TestRedisSupplier(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	client := redis.NewClient(&redis.Options{Addr: addr})
	supplier, err := NewRedisSupplierWithClient(ctx, client, "formstate:test:")
	if err != nil {
		_ = client.Close()
		t.Skipf("redis not reachable at %s: %v", addr, err)
	}
	defer supplier.Close()

	want := []Option{{ID: 1, Label: "Spicy"}, {ID: 0, Label: "Bitter"}}
	if err := supplier.Publish(ctx, "tastes", want); err != nil {
		t.Fatalf("publish: %v", err)
	}
	defer client.Del(context.Background(), supplier.Key("tastes"))

	got, err := supplier.Load(ctx, "tastes")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if supplier.Key("tastes") != "formstate:test:tastes" {
		t.Fatalf("unexpected key %q", supplier.Key("tastes"))
	}
}
