package ffmpeg

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// skipIfNoFFmpeg skips the test if ffmpeg is not available
func skipIfNoFFmpeg(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		t.Skip("ffmpeg not found in PATH")
	}
	if _, err := exec.LookPath("ffprobe"); err != nil {
		t.Skip("ffprobe not found in PATH")
	}
}

// makeTestVideo renders a two second 320x240 test pattern with a tone.
func makeTestVideo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.mp4")
	cmd := exec.Command("ffmpeg", "-v", "error", "-y",
		"-f", "lavfi", "-i", "testsrc=duration=2:size=320x240:rate=25",
		"-f", "lavfi", "-i", "sine=frequency=440:duration=2",
		"-shortest", path)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Skipf("cannot generate test video: %v: %s", err, out)
	}
	return path
}

func TestNewMissingBinary(t *testing.T) {
	_, err := New(zerolog.Nop(), Paths{FFmpeg: "/nonexistent/ffmpeg"})
	if err == nil {
		t.Fatal("expected error for missing ffmpeg")
	}
}

func TestParseProbe(t *testing.T) {
	tests := []struct {
		name     string
		json     string
		wantErr  bool
		video    bool
		audio    bool
		width    int
		fps      float64
		duration time.Duration
	}{
		{
			name: "video with audio",
			json: `{"format":{"duration":"12.5","bit_rate":"800000"},"streams":[
				{"codec_type":"video","codec_name":"h264","width":1080,"height":1920,"r_frame_rate":"30/1"},
				{"codec_type":"audio","codec_name":"aac"}]}`,
			video: true, audio: true, width: 1080, fps: 30, duration: 12500 * time.Millisecond,
		},
		{
			name: "mp3 with cover art",
			json: `{"format":{"duration":"3.0"},"streams":[
				{"codec_type":"audio","codec_name":"mp3"},
				{"codec_type":"video","codec_name":"mjpeg","width":500,"height":500,"disposition":{"attached_pic":1}}]}`,
			audio: true, duration: 3 * time.Second,
		},
		{name: "no streams", json: `{"format":{},"streams":[]}`, wantErr: true},
		{name: "garbage", json: `not json`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := parseProbe([]byte(tt.json))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseProbe: %v", err)
			}
			if info.HasVideo != tt.video || info.HasAudio != tt.audio {
				t.Errorf("video=%v audio=%v", info.HasVideo, info.HasAudio)
			}
			if info.Width != tt.width || info.FPS != tt.fps || info.Duration != tt.duration {
				t.Errorf("info = %+v", info)
			}
		})
	}
}

func TestFilterBuilder(t *testing.T) {
	tests := []struct {
		name string
		fb   *FilterBuilder
		want string
	}{
		{"empty", NewFilterBuilder(), ""},
		{"scale", NewFilterBuilder().Scale(1920, 1080), "scale=1920:1080"},
		{"cover", NewFilterBuilder().Cover(270, 480),
			"scale=270:480:force_original_aspect_ratio=increase,crop=270:480"},
		{"ignores zero size", NewFilterBuilder().Cover(0, 480).Custom("hflip"), "hflip"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fb.Build(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProbeAndPoster(t *testing.T) {
	skipIfNoFFmpeg(t)
	path := makeTestVideo(t)

	e, err := New(zerolog.Nop(), Paths{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	info, err := e.Probe(ctx, path)
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if info.Width != 320 || info.Height != 240 || !info.HasAudio || info.Duration == 0 {
		t.Errorf("info = %+v", info)
	}

	img, _, err := e.Poster(ctx, path, 90, 160)
	if err != nil {
		t.Fatalf("Poster: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 90 || b.Dy() != 160 {
		t.Errorf("poster bounds = %v", b)
	}
}

func TestProbeInvalidFile(t *testing.T) {
	skipIfNoFFmpeg(t)
	e, err := New(zerolog.Nop(), Paths{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := e.Probe(context.Background(), filepath.Join(t.TempDir(), "missing.mp4")); err == nil {
		t.Error("Probe should fail for a missing file")
	}
}
