package history

import (
	"context"
	"reflect"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestRedisAppendIsIdempotent(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	h := NewRedis(client, "satirist:history")
	defer h.Close()

	empty, err := h.Load(ctx)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty history, got %v err=%v", empty, err)
	}

	for _, title := range []string{"first", "second", "first"} {
		if err := h.Append(ctx, title); err != nil {
			t.Fatalf("append %q: %v", title, err)
		}
	}
	got, err := h.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"first", "second"}) {
		t.Fatalf("unexpected history %v", got)
	}
	if ok, _ := mr.SIsMember("satirist:history:set", "second"); !ok {
		t.Fatalf("expected title in companion set")
	}
}

func TestRedisLoadFailsWhenServerGone(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	h := NewRedis(client, "k")
	defer h.Close()
	mr.Close()

	if _, err := h.Load(context.Background()); err == nil {
		t.Fatalf("expected error from closed server")
	}
}

func TestDialPings(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := Dial(context.Background(), mr.Addr(), "", 0, 0)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	_ = client.Close()
}
