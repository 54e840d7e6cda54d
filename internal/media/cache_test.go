package media

import (
	"bytes"
	"context"
	"errors"
	"image"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type countingTranscoder struct {
	inner Transcoder
	calls int64
}

func (c *countingTranscoder) Transform(ctx context.Context, src []byte, t Transform) ([]byte, error) {
	atomic.AddInt64(&c.calls, 1)
	return c.inner.Transform(ctx, src, t)
}

func newTestStore(t *testing.T) (*Store, *countingTranscoder, string) {
	t.Helper()
	dir := t.TempDir()
	tc := &countingTranscoder{inner: NewImageTranscoder(testLogger(t))}
	store, err := NewStore(dir, testLogger(t), tc)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store, tc, dir
}

func writeOriginal(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatalf("failed to write original: %v", err)
	}
}

func readAll(t *testing.T, res *Result) []byte {
	t.Helper()
	defer res.Reader.Close()
	data, err := io.ReadAll(res.Reader)
	if err != nil {
		t.Fatalf("failed to read result: %v", err)
	}
	if int64(len(data)) != res.Size {
		t.Fatalf("result size %d does not match body length %d", res.Size, len(data))
	}
	return data
}

func TestFetchOriginalPassthrough(t *testing.T) {
	store, tc, dir := newTestStore(t)
	original := encodeTestPNG(t, 800, 600)
	writeOriginal(t, dir, "a1.png", original)

	res, err := store.Fetch(context.Background(), FetchRequest{AssetType: "images", Filename: "a1.png"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ContentType != "image/png" {
		t.Fatalf("expected content type image/png, got %s", res.ContentType)
	}
	if !bytes.Equal(readAll(t, res), original) {
		t.Fatalf("original passthrough must return stored bytes verbatim")
	}
	if atomic.LoadInt64(&tc.calls) != 0 {
		t.Fatalf("passthrough must not invoke the transcoder")
	}
}

func TestFetchNonImageTypeIgnoresTransform(t *testing.T) {
	store, tc, dir := newTestStore(t)
	payload := []byte("%PDF-1.4 fake document")
	writeOriginal(t, dir, "doc1.pdf", payload)

	res, err := store.Fetch(context.Background(), FetchRequest{
		AssetType: "file",
		Filename:  "doc1.pdf",
		Format:    "webp",
		Width:     "100",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ContentType != "application/pdf" {
		t.Fatalf("expected content type application/pdf, got %s", res.ContentType)
	}
	if !bytes.Equal(readAll(t, res), payload) {
		t.Fatalf("non-image types must always serve the original")
	}
	if atomic.LoadInt64(&tc.calls) != 0 {
		t.Fatalf("non-image types must not invoke the transcoder")
	}
}

func TestFetchTransformMissThenHit(t *testing.T) {
	store, tc, dir := newTestStore(t)
	writeOriginal(t, dir, "a1.png", encodeTestPNG(t, 800, 600))

	req := FetchRequest{AssetType: "images", Filename: "a1.png", Format: "webp", Quality: "60", Width: "400"}

	first, err := store.Fetch(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error on miss: %v", err)
	}
	if first.ContentType != "image/webp" {
		t.Fatalf("expected content type image/webp, got %s", first.ContentType)
	}
	firstBytes := readAll(t, first)

	cached := filepath.Join(dir, "a1_q60_w400.webp")
	onDisk, err := os.ReadFile(cached)
	if err != nil {
		t.Fatalf("expected cached variant at %s: %v", cached, err)
	}
	if !bytes.Equal(onDisk, firstBytes) {
		t.Fatalf("published variant must match the streamed buffer")
	}
	img, _, err := image.Decode(bytes.NewReader(firstBytes))
	if err != nil {
		t.Fatalf("variant is not a decodable image: %v", err)
	}
	if img.Bounds().Dx() != 400 {
		t.Fatalf("expected resized width 400, got %d", img.Bounds().Dx())
	}

	second, err := store.Fetch(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error on hit: %v", err)
	}
	if !bytes.Equal(readAll(t, second), firstBytes) {
		t.Fatalf("cache hit must return byte-identical output")
	}
	if got := atomic.LoadInt64(&tc.calls); got != 1 {
		t.Fatalf("expected exactly one transcode, got %d", got)
	}
}

func TestFetchRejectsTraversal(t *testing.T) {
	store, tc, _ := newTestStore(t)

	for _, name := range []string{"../etc/passwd", "a/../../b.png", `a\b.png`, "sub/dir.png", ".."} {
		if _, err := store.Fetch(context.Background(), FetchRequest{AssetType: "images", Filename: name}); !errors.Is(err, ErrInvalidIdentifier) {
			t.Fatalf("expected ErrInvalidIdentifier for %q, got %v", name, err)
		}
	}
	if atomic.LoadInt64(&tc.calls) != 0 {
		t.Fatalf("rejected names must never reach the transcoder")
	}
}

func TestFetchMissingOriginal(t *testing.T) {
	store, _, _ := newTestStore(t)

	if _, err := store.Fetch(context.Background(), FetchRequest{AssetType: "images", Filename: "missing.png"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFetchInvalidParameters(t *testing.T) {
	store, _, dir := newTestStore(t)
	writeOriginal(t, dir, "a1.png", encodeTestPNG(t, 10, 10))

	if _, err := store.Fetch(context.Background(), FetchRequest{AssetType: "images", Filename: "a1.png", Width: "-4"}); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter, got %v", err)
	}
	if _, err := store.Fetch(context.Background(), FetchRequest{AssetType: "images", Filename: "a1.png", Format: "tiff"}); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestConcurrentFetchSameNovelKey(t *testing.T) {
	store, _, dir := newTestStore(t)
	writeOriginal(t, dir, "a1.png", encodeTestPNG(t, 640, 480))

	req := FetchRequest{AssetType: "images", Filename: "a1.png", Format: "jpeg", Quality: "70", Width: "320"}

	const n = 8
	var wg sync.WaitGroup
	results := make([][]byte, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := store.Fetch(context.Background(), req)
			if err != nil {
				errs[i] = err
				return
			}
			defer res.Reader.Close()
			results[i], errs[i] = io.ReadAll(res.Reader)
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("concurrent fetch %d failed: %v", i, errs[i])
		}
		if img, _, err := image.Decode(bytes.NewReader(results[i])); err != nil {
			t.Fatalf("concurrent fetch %d returned undecodable bytes: %v", i, err)
		} else if img.Bounds().Dx() != 320 {
			t.Fatalf("concurrent fetch %d returned width %d, want 320", i, img.Bounds().Dx())
		}
	}

	if _, err := os.Stat(filepath.Join(dir, "a1_q70_w320.jpeg")); err != nil {
		t.Fatalf("expected published variant after concurrent fetches: %v", err)
	}
}

// gatedTranscoder blocks inside Transform until released, so a test can hold
// a variant generation in flight while other fetchers line up behind it.
type gatedTranscoder struct {
	inner       Transcoder
	started     chan struct{}
	startedOnce sync.Once
	release     chan struct{}
}

func (g *gatedTranscoder) Transform(ctx context.Context, src []byte, t Transform) ([]byte, error) {
	g.startedOnce.Do(func() { close(g.started) })
	<-g.release
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return g.inner.Transform(ctx, src, t)
}

func TestFetchWaiterSurvivesFirstCallerCancellation(t *testing.T) {
	dir := t.TempDir()
	gate := &gatedTranscoder{
		inner:   NewImageTranscoder(testLogger(t)),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	store, err := NewStore(dir, testLogger(t), gate)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	writeOriginal(t, dir, "a1.png", encodeTestPNG(t, 200, 150))

	req := FetchRequest{AssetType: "images", Filename: "a1.png", Format: "jpeg", Quality: "60", Width: "100"}

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		res, err := store.Fetch(firstCtx, req)
		if err == nil {
			res.Reader.Close()
		}
		firstErr <- err
	}()
	<-gate.started

	waiterErr := make(chan error, 1)
	go func() {
		res, err := store.Fetch(context.Background(), req)
		if err == nil {
			res.Reader.Close()
		}
		waiterErr <- err
	}()

	// Let the waiter join the in-flight generation, then drop the first
	// caller while the transcode is still held at the gate.
	time.Sleep(50 * time.Millisecond)
	cancel()
	close(gate.release)

	if err := <-waiterErr; err != nil {
		t.Fatalf("waiter must not inherit the first caller's cancellation: %v", err)
	}
	<-firstErr
	if _, err := os.Stat(filepath.Join(dir, "a1_q60_w100.jpeg")); err != nil {
		t.Fatalf("expected published variant despite cancellation: %v", err)
	}
}

func TestPurgeVariants(t *testing.T) {
	store, _, dir := newTestStore(t)
	writeOriginal(t, dir, "a1.png", encodeTestPNG(t, 100, 100))
	writeOriginal(t, dir, "b2.png", encodeTestPNG(t, 100, 100))

	for _, req := range []FetchRequest{
		{AssetType: "images", Filename: "a1.png", Format: "jpeg", Quality: "50"},
		{AssetType: "images", Filename: "a1.png", Format: "png", Width: "50"},
		{AssetType: "images", Filename: "b2.png", Format: "jpeg", Quality: "50"},
	} {
		res, err := store.Fetch(context.Background(), req)
		if err != nil {
			t.Fatalf("failed to seed variant: %v", err)
		}
		res.Reader.Close()
	}

	removed, err := store.PurgeVariants("a1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed variants, got %d", removed)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to list dir: %v", err)
	}
	for _, entry := range entries {
		if len(entry.Name()) > 3 && entry.Name()[:3] == "a1_" {
			t.Fatalf("variant %s survived the purge", entry.Name())
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "b2_q50_worig.jpeg")); err != nil {
		t.Fatalf("purge must not touch other assets' variants: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "a1.png")); err != nil {
		t.Fatalf("purge must not remove the original: %v", err)
	}
}

func TestSaveAndRemoveOriginal(t *testing.T) {
	store, _, dir := newTestStore(t)
	payload := []byte("hello")

	n, err := store.SaveOriginal("c3.txt", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != int64(len(payload)) {
		t.Fatalf("expected %d bytes written, got %d", len(payload), n)
	}
	if _, err := store.SaveOriginal("../evil.txt", bytes.NewReader(payload)); !errors.Is(err, ErrInvalidIdentifier) {
		t.Fatalf("expected ErrInvalidIdentifier, got %v", err)
	}

	if _, err := store.OriginalPath("c3", ".txt"); err != nil {
		t.Fatalf("expected original to resolve: %v", err)
	}
	if err := store.RemoveOriginal("c3.txt"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "c3.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected original removed, stat err: %v", err)
	}
	if _, err := store.OriginalPath("c3", ".txt"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after removal, got %v", err)
	}
	// Removing again is a no-op.
	if err := store.RemoveOriginal("c3.txt"); err != nil {
		t.Fatalf("expected idempotent removal, got %v", err)
	}
}
