package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestSaga_CompensatesInReverse(t *testing.T) {
	var trail []string
	boom := errors.New("boom")

	ctx, cancel := context.WithCancel(context.Background())
	err := newSaga("test", testLog).
		step("a", func(context.Context) error { trail = append(trail, "a"); return nil },
			func(ctx context.Context) {
				if ctx.Err() != nil {
					t.Errorf("compensation ran on a cancelled context")
				}
				trail = append(trail, "undo a")
			}).
		step("b", func(context.Context) error { trail = append(trail, "b"); return nil },
			func(context.Context) { trail = append(trail, "undo b") }).
		step("c", func(context.Context) error { cancel(); return boom },
			func(context.Context) { trail = append(trail, "undo c") }).
		run(ctx)

	if !errors.Is(err, boom) {
		t.Fatalf("expected step error, got %v", err)
	}
	want := []string{"a", "b", "undo b", "undo a"}
	if !reflect.DeepEqual(trail, want) {
		t.Fatalf("expected %v, got %v", want, trail)
	}
}
