package texture

import (
	"bytes"
	"errors"
	"hash/crc32"
	"image"
	"sync"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

type upload struct {
	rect image.Rectangle
	data []byte
}

// recordingBackend records every upload.
type recordingBackend struct {
	mu      sync.Mutex
	uploads []upload
	binds   []uint32
	fail    error
}

func (r *recordingBackend) Upload(x, y, w, h int, pixels []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.uploads = append(r.uploads, upload{image.Rect(x, y, x+w, y+h), bytes.Clone(pixels[:w*h])})
	return nil
}

func (r *recordingBackend) Bind(unit uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.binds = append(r.binds, unit)
	return nil
}

func fill(w, h int, v byte) []byte {
	return bytes.Repeat([]byte{v}, w*h)
}

func TestNewInvalidSize(t *testing.T) {
	for _, sz := range [][2]int{{0, 10}, {10, 0}, {-1, -1}} {
		if _, err := New(sz[0], sz[1], nil); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("New(%d, %d) error = %v, want ErrInvalidSize", sz[0], sz[1], err)
		}
	}
}

func TestNewStartsDirty(t *testing.T) {
	rb := &recordingBackend{}
	tex, err := New(100, 40, rb)
	if err != nil {
		t.Fatal(err)
	}
	// 4x2 tiles, each row merged into one span
	if got := tex.DirtyTiles(); got != 8 {
		t.Errorf("DirtyTiles() = %d, want 8", got)
	}
	n, err := tex.Update()
	if err != nil {
		t.Fatal(err)
	}
	if n != 2 {
		t.Errorf("Update() = %d uploads, want 2", n)
	}
	if rb.uploads[0].rect != image.Rect(0, 0, 100, 32) {
		t.Errorf("first upload rect = %v, want (0,0)-(100,32)", rb.uploads[0].rect)
	}
	if rb.uploads[1].rect != image.Rect(0, 32, 100, 40) {
		t.Errorf("second upload rect = %v, want clipped to texture", rb.uploads[1].rect)
	}
	if tex.Dirty() {
		t.Error("Dirty() = true after Update")
	}
}

func TestSetSubDataBounds(t *testing.T) {
	tex, _ := New(64, 64, nil)
	tests := []struct {
		name       string
		x, y, w, h int
		data       []byte
		want       error
	}{
		{"inside", 10, 10, 4, 4, fill(4, 4, 1), nil},
		{"right edge", 60, 0, 4, 4, fill(4, 4, 1), nil},
		{"past right", 61, 0, 4, 4, fill(4, 4, 1), ErrOutOfBounds},
		{"negative", -1, 0, 4, 4, fill(4, 4, 1), ErrOutOfBounds},
		{"short", 0, 0, 4, 4, fill(3, 4, 1), ErrShortData},
		{"empty", 0, 0, 0, 0, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tex.SetSubData(tt.x, tt.y, tt.w, tt.h, tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("SetSubData() error = %v, want %v", err, tt.want)
			}
		})
	}
	if tex.At(11, 11) != 1 || tex.At(9, 9) != 0 {
		t.Errorf("At() = %d,%d, want 1,0", tex.At(11, 11), tex.At(9, 9))
	}
}

func TestUpdateFlushesOnce(t *testing.T) {
	rb := &recordingBackend{}
	tex, _ := New(128, 128, rb)
	if _, err := tex.Update(); err != nil {
		t.Fatal(err)
	}
	rb.uploads = nil

	if err := tex.SetSubData(40, 40, 8, 8, fill(8, 8, 200)); err != nil {
		t.Fatal(err)
	}
	if got := tex.DirtyTiles(); got != 1 {
		t.Fatalf("DirtyTiles() = %d, want 1", got)
	}
	n, err := tex.Update()
	if err != nil || n != 1 {
		t.Fatalf("Update() = %d, %v, want 1, nil", n, err)
	}
	if rb.uploads[0].rect != image.Rect(32, 32, 64, 64) {
		t.Errorf("upload rect = %v, want tile (32,32)-(64,64)", rb.uploads[0].rect)
	}
	// pixel (40,40) is at (8,8) in the 32px tile
	if got := rb.uploads[0].data[8*32+8]; got != 200 {
		t.Errorf("uploaded pixel = %d, want 200", got)
	}

	n, _ = tex.Update()
	if n != 0 {
		t.Errorf("second Update() = %d uploads, want 0", n)
	}
}

func TestUpdateFailureKeepsDirty(t *testing.T) {
	boom := errors.New("device lost")
	rb := &recordingBackend{fail: boom}
	tex, _ := New(32, 32, rb)
	if _, err := tex.Update(); !errors.Is(err, boom) {
		t.Fatalf("Update() error = %v, want %v", err, boom)
	}
	if !tex.Dirty() {
		t.Error("Dirty() = false after failed upload")
	}
	rb.fail = nil
	if n, err := tex.Update(); err != nil || n != 1 {
		t.Errorf("retry Update() = %d, %v, want 1, nil", n, err)
	}
}

func TestBind(t *testing.T) {
	rb := &recordingBackend{}
	tex, _ := New(8, 8, rb)
	if err := tex.Bind(3); err != nil {
		t.Fatal(err)
	}
	if len(rb.binds) != 1 || rb.binds[0] != 3 {
		t.Errorf("binds = %v, want [3]", rb.binds)
	}
	if len(rb.uploads) != 0 {
		t.Error("Bind() uploaded data")
	}

	var none Texture
	if err := none.Bind(0); err != nil {
		t.Errorf("Bind() without backend error = %v", err)
	}
}

// TestConcurrentWritersMirror writes from many goroutines while another
// flushes, all serialized by one mutex, and checks the GPU mirror matches
// the CPU store.
func TestConcurrentWritersMirror(t *testing.T) {
	mirror := NewMemoryBackend(256, 256)
	tex, _ := New(256, 256, mirror)
	var mu sync.Mutex

	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 32 {
				x := (g*32 + i*7) % 240
				y := (i * 13) % 240
				mu.Lock()
				_ = tex.SetSubData(x, y, 16, 16, fill(16, 16, byte(g*32+i)))
				mu.Unlock()
			}
		}()
	}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for range 50 {
			mu.Lock()
			_, _ = tex.Update()
			mu.Unlock()
		}
	}()
	wg.Wait()
	<-done

	mu.Lock()
	defer mu.Unlock()
	if _, err := tex.Update(); err != nil {
		t.Fatal(err)
	}
	if got, want := crc32.ChecksumIEEE(mirror.Image().Pix), tex.Checksum(); got != want {
		t.Errorf("mirror checksum = %#x, want %#x", got, want)
	}
}

func TestMemoryBackend(t *testing.T) {
	m := NewMemoryBackend(16, 16)
	if err := m.Upload(12, 12, 8, 8, fill(8, 8, 1)); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("Upload(out of bounds) error = %v", err)
	}
	if err := m.Upload(0, 0, 2, 2, fill(1, 1, 1)); !errors.Is(err, ErrShortData) {
		t.Errorf("Upload(short) error = %v", err)
	}
	if err := m.Upload(2, 2, 2, 2, []byte{1, 2, 3, 4}); err != nil {
		t.Fatal(err)
	}
	img := m.Image()
	if img.AlphaAt(3, 3).A != 4 {
		t.Errorf("mirror pixel = %d, want 4", img.AlphaAt(3, 3).A)
	}
	if calls, n := m.Uploads(); calls != 1 || n != 4 {
		t.Errorf("Uploads() = %d, %d, want 1, 4", calls, n)
	}
	_ = m.Bind(2)
	if unit, ok := m.BoundUnit(); !ok || unit != 2 {
		t.Errorf("BoundUnit() = %d, %v, want 2, true", unit, ok)
	}
}

func TestDirtyTilesSpans(t *testing.T) {
	d := newDirtyTiles(32*5, 32*2)
	d.mark(0, 0)
	d.mark(1, 0)
	d.mark(3, 0)
	d.mark(4, 1)
	spans := d.take()
	want := []image.Rectangle{
		image.Rect(0, 0, 2, 1),
		image.Rect(3, 0, 4, 1),
		image.Rect(4, 1, 5, 2),
	}
	if len(spans) != len(want) {
		t.Fatalf("take() = %v, want %v", spans, want)
	}
	for i := range want {
		if spans[i] != want[i] {
			t.Errorf("span %d = %v, want %v", i, spans[i], want[i])
		}
	}
	if !d.empty() {
		t.Error("take() left tiles dirty")
	}
	d.markRect(-100, -100, 50, 50)
	if d.count() != 0 {
		t.Errorf("markRect outside grid marked %d tiles", d.count())
	}
}

// mockDevice implements gpucontext.Device for testing.
type mockDevice struct{}

func (m *mockDevice) Poll(wait bool) {}
func (m *mockDevice) Destroy()       {}

// mockQueue implements gpucontext.Queue for testing.
type mockQueue struct{}

// mockAdapter implements gpucontext.Adapter for testing.
type mockAdapter struct{}

// mockProvider implements gpucontext.DeviceProvider without HAL access.
type mockProvider struct{}

func (m *mockProvider) Device() gpucontext.Device             { return &mockDevice{} }
func (m *mockProvider) Queue() gpucontext.Queue               { return &mockQueue{} }
func (m *mockProvider) Adapter() gpucontext.Adapter           { return &mockAdapter{} }
func (m *mockProvider) SurfaceFormat() gputypes.TextureFormat { return gputypes.TextureFormatBGRA8Unorm }
func (m *mockProvider) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: "mock", Type: gpucontext.AdapterTypeUnknown}
}

var (
	_ gpucontext.DeviceProvider = (*mockProvider)(nil)
	_ gpucontext.DeviceProvider = (*halMockProvider)(nil)
)

// halMockProvider exposes HAL accessors that return the wrong types.
type halMockProvider struct {
	mockProvider
	device any
	queue  any
}

func (m *halMockProvider) HalDevice() any { return m.device }
func (m *halMockProvider) HalQueue() any  { return m.queue }

func TestNewHALBackendFromProvider(t *testing.T) {
	tests := []struct {
		name     string
		provider gpucontext.DeviceProvider
	}{
		{"no HAL accessors", &mockProvider{}},
		{"nil HAL device", &halMockProvider{}},
		{"wrong device type", &halMockProvider{device: "device", queue: "queue"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewHALBackendFromProvider(tt.provider, 512, 512)
			if !errors.Is(err, ErrNoHAL) {
				t.Errorf("NewHALBackendFromProvider() error = %v, want ErrNoHAL", err)
			}
			if b != nil {
				t.Error("NewHALBackendFromProvider() returned a backend")
			}
		})
	}
}

func TestNewHALBackendNilDevice(t *testing.T) {
	if _, err := NewHALBackend(nil, nil, 16, 16, "atlas"); !errors.Is(err, ErrNoHAL) {
		t.Errorf("NewHALBackend(nil) error = %v, want ErrNoHAL", err)
	}
}
