package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLocalStoreSaveResolveRemove(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/uploads/")
	if err != nil {
		t.Fatalf("new local store: %v", err)
	}

	ref, err := store.Save(context.Background(), "photo.PNG", strings.NewReader("image-bytes"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.HasSuffix(ref, ".png") {
		t.Fatalf("expected lowered extension, got %q", ref)
	}

	data, err := os.ReadFile(filepath.Join(store.Dir(), ref))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "image-bytes" {
		t.Fatalf("unexpected contents %q", data)
	}

	if got := store.Resolve(ref); got != "/uploads/"+ref {
		t.Fatalf("unexpected resolved url %q", got)
	}

	if err := store.Remove(context.Background(), ref); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := store.Remove(context.Background(), ref); err != nil {
		t.Fatalf("remove missing should be nil, got %v", err)
	}
}

func TestLocalStoreResolvePassthrough(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "")
	if err != nil {
		t.Fatalf("new local store: %v", err)
	}
	url := "https://cdn.example.com/p/abc.png"
	if got := store.Resolve(url); got != url {
		t.Fatalf("expected passthrough, got %q", got)
	}
	if got := store.Resolve(""); got != "" {
		t.Fatalf("expected empty resolve, got %q", got)
	}
}
