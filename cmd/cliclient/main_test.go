package main

import (
	"errors"
	"image"
	"image/png"
	"net"
	"os"
	"path/filepath"
	"testing"

	"github.com/marben/irpc"
	mandel "github.com/marben/mandelzoom"
)

func TestParseClicks(t *testing.T) {
	tests := []struct {
		in      string
		want    []click
		wantErr bool
	}{
		{in: "", want: nil},
		{in: "1,2", want: []click{{1, 2, mandel.Primary}}},
		{in: "1,2,r; 3,4,L", want: []click{{1, 2, mandel.Secondary}, {3, 4, mandel.Primary}}},
		{in: "1", wantErr: true},
		{in: "a,2", wantErr: true},
		{in: "1,2,m", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseClicks(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseClicks(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseClicks(%q) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("click %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestExplore(t *testing.T) {
	s, err := mandel.NewSession(mandel.SessionConfig{Width: 30, Height: 30})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	// in then out at the center pixel leaves the region where it was
	f, err := explore(s, "", []click{{15, 15, mandel.Primary}, {15, 15, mandel.Secondary}})
	if err != nil {
		t.Fatalf("explore: %v", err)
	}
	const eps = 1e-12
	r := f.Region
	if d := r.Xmax - r.Xmin; d < 4-eps || d > 4+eps {
		t.Errorf("width = %g, want 4", d)
	}

	if _, err := explore(s, "nowhere", nil); !errors.Is(err, mandel.ErrInvalidArgument) {
		t.Errorf("explore(nowhere) err = %v, want ErrInvalidArgument", err)
	}
}

func TestRunLocal(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.png")
	opts, err := parseFlags([]string{"-local", "-width", "20", "-height", "10", "-goto", "dragon", "-o", out})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if err := run(opts); err != nil {
		t.Fatalf("run: %v", err)
	}

	img := decodePNG(t, out)
	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Errorf("bounds = %v, want 20x10", b)
	}
}

func TestRunRemote(t *testing.T) {
	s, err := mandel.NewSession(mandel.SessionConfig{Width: 24, Height: 18})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer l.Close()

	srv := irpc.NewServer()
	srv.AddService(mandel.NewViewerIrpcService(s))
	go srv.Serve(l)

	out := filepath.Join(t.TempDir(), "remote.png")
	opts, err := parseFlags([]string{"-addr", l.Addr().String(), "-clicks", "12,9", "-o", out})
	if err != nil {
		t.Fatalf("parseFlags: %v", err)
	}
	if err := run(opts); err != nil {
		t.Fatalf("run: %v", err)
	}

	img := decodePNG(t, out)
	if b := img.Bounds(); b.Dx() != 24 || b.Dy() != 18 {
		t.Errorf("bounds = %v, want 24x18", b)
	}
	if r, _ := s.Region(); r == mandel.DefaultRegion {
		t.Error("replayed click did not reach the server")
	}
}

func decodePNG(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return img
}
