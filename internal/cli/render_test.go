package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/glitchid/pkg/config"
	apperr "github.com/matzehuels/glitchid/pkg/errors"
	"github.com/matzehuels/glitchid/pkg/pipeline"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		def   string
		want  []string
	}{
		{"empty uses default", "", "jpeg", []string{"jpeg"}},
		{"empty without default", "", "", []string{"png"}},
		{"single format", "gif", "png", []string{"gif"}},
		{"multiple formats", "png,jpeg,bmp", "png", []string{"png", "jpeg", "bmp"}},
		{"spaces and blanks", " png , ,tiff ", "png", []string{"png", "tiff"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input, tt.def)
			if !slices.Equal(got, tt.want) {
				t.Errorf("parseFormats(%q, %q) = %v, want %v", tt.input, tt.def, got, tt.want)
			}
		})
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		format string
		multi  bool
		want   string
	}{
		{"download name", "", pipeline.FormatPNG, false, "identity_glitch_NEO.png"},
		{"download name jpeg", "", pipeline.FormatJPEG, true, "identity_glitch_NEO.jpg"},
		{"explicit single", "out/frame.img", pipeline.FormatGIF, false, "out/frame.img"},
		{"explicit multi", "out/frame.png", pipeline.FormatJPEG, true, "out/frame.jpg"},
		{"explicit multi no ext", "frame", pipeline.FormatTIFF, true, "frame.tiff"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outputPath(tt.output, "NEO", tt.format, tt.multi); got != tt.want {
				t.Errorf("outputPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReplayCommand(t *testing.T) {
	ts := time.Date(2024, 1, 1, 13, 37, 0, 0, time.UTC)
	result := &pipeline.Result{Identity: "AGENT SMITH", Seed: 42}
	base := `glitchid render avatar.png --name "AGENT SMITH" --seed 42 --time 2024-01-01T13:37:00Z`
	defaults := config.Default().Render

	tests := []struct {
		name    string
		size    int
		formats []string
		def     config.RenderConfig
		want    string
	}{
		{"defaults", 500, []string{"png"}, defaults, base},
		{"custom size", 300, []string{"png"}, defaults, base + " --size 300"},
		{"custom formats", 500, []string{"jpeg", "gif"}, defaults, base + " --format jpeg,gif"},
		{"config size", 64, []string{"png"}, config.RenderConfig{Size: 64, Format: "png"}, base + " --size 64"},
		{"default size over config", 500, []string{"png"}, config.RenderConfig{Size: 64, Format: "png"}, base + " --size 500"},
		{"png over config format", 500, []string{"png"}, config.RenderConfig{Size: 500, Format: "jpg"}, base + " --format png"},
		{"zero config", 500, []string{"png"}, config.RenderConfig{}, base},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := pipeline.Options{Size: tt.size, Formats: tt.formats, Timestamp: ts}
			if got := replayCommand("avatar.png", result, opts, tt.def); got != tt.want {
				t.Errorf("replayCommand() = %q, want %q", got, tt.want)
			}
		})
	}

	opts := pipeline.Options{Size: 500, Formats: []string{"png"}, Timestamp: ts}
	if got := replayCommand("", result, opts, defaults); strings.Contains(got, "avatar") {
		t.Errorf("replayCommand() without source = %q", got)
	}
}

func TestRenderCommandReplaysSize(t *testing.T) {
	cfg, _ := renderConfig(t)
	dir := t.TempDir()

	args := []string{"--name", "neo", "--seed", "9", "--time", "2024-01-01T00:00:00+02:00"}
	if _, err := execute(t, append([]string{"render", "--config", cfg, "--no-cache", "--size", "96", "-o", filepath.Join(dir, "a.png")}, args...)...); err != nil {
		t.Fatal(err)
	}
	replay := replayCommand("", &pipeline.Result{Identity: "NEO", Seed: 9},
		pipeline.Options{Size: 96, Formats: []string{"png"}, Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.FixedZone("", 2*3600))},
		config.RenderConfig{Size: 64, Format: "png"})
	fields := strings.Fields(replay)[2:]
	for i, f := range fields {
		fields[i] = strings.Trim(f, `"`)
	}
	if _, err := execute(t, append([]string{"render", "--config", cfg, "--no-cache", "-o", filepath.Join(dir, "b.png")}, fields...)...); err != nil {
		t.Fatalf("replay %v: %v", fields, err)
	}

	a, _ := os.ReadFile(filepath.Join(dir, "a.png"))
	b, _ := os.ReadFile(filepath.Join(dir, "b.png"))
	if len(a) == 0 || !bytes.Equal(a, b) {
		t.Errorf("replay %q did not reproduce the frame", replay)
	}
}

// renderConfig returns a config file with a small frame and a private cache.
func renderConfig(t *testing.T) (cfgPath, cacheDir string) {
	t.Helper()
	cacheDir = t.TempDir()
	return writeConfig(t, "[render]\nsize = 64\n\n[cache]\ndir = "+quote(cacheDir)+"\n"), cacheDir
}

func TestRenderCommandWritesFormats(t *testing.T) {
	cfg, cacheDir := renderConfig(t)
	out := filepath.Join(t.TempDir(), "frame.png")

	_, err := execute(t, "render", "--config", cfg,
		"--name", "neo", "--seed", "42", "--time", "2024-01-01T13:37:00Z",
		"-f", "png,jpg", "-o", out)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("png output missing: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 64 {
		t.Errorf("bounds = %v, want 64x64", b)
	}
	if _, err := os.Stat(strings.TrimSuffix(out, ".png") + ".jpg"); err != nil {
		t.Errorf("jpeg output missing: %v", err)
	}

	entries, err := os.ReadDir(cacheDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) == 0 {
		t.Error("seeded render was not cached")
	}
}

func TestRenderCommandReproducible(t *testing.T) {
	cfg, _ := renderConfig(t)
	dir := t.TempDir()

	for _, name := range []string{"a.png", "b.png"} {
		_, err := execute(t, "render", "--config", cfg, "--no-cache",
			"--name", "trinity", "--seed", "7", "--time", "2024-01-01T00:00:00Z",
			"-o", filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("render %s: %v", name, err)
		}
	}

	a, _ := os.ReadFile(filepath.Join(dir, "a.png"))
	b, _ := os.ReadFile(filepath.Join(dir, "b.png"))
	if len(a) == 0 || !bytes.Equal(a, b) {
		t.Error("same seed and time produced different files")
	}
}

func TestRenderCommandWithSource(t *testing.T) {
	cfg, _ := renderConfig(t)
	dir := t.TempDir()

	srcPath := filepath.Join(dir, "avatar.png")
	if err := os.WriteFile(srcPath, pngBytes(t), 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "out.bmp")
	if _, err := execute(t, "render", srcPath, "--config", cfg, "--no-cache", "-f", "bmp", "-o", out); err != nil {
		t.Fatalf("render: %v", err)
	}
	if info, err := os.Stat(out); err != nil || info.Size() == 0 {
		t.Errorf("bmp output missing or empty: %v", err)
	}
}

// pngBytes encodes a small gradient.
func pngBytes(t *testing.T) []byte {
	t.Helper()
	src := image.NewRGBA(image.Rect(0, 0, 32, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 32; x++ {
			src.Set(x, y, color.RGBA{uint8(x * 8), 0, uint8(y * 16), 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestRenderCommandWithURL(t *testing.T) {
	avatar := pngBytes(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(avatar)
	}))
	defer server.Close()

	cfg, _ := renderConfig(t)
	out := filepath.Join(t.TempDir(), "remote.png")
	if _, err := execute(t, "render", "--config", cfg, "--url", server.URL+"/me.png", "--name", "neo", "-o", out); err != nil {
		t.Fatalf("render --url: %v", err)
	}
	if info, err := os.Stat(out); err != nil || info.Size() == 0 {
		t.Errorf("output missing or empty: %v", err)
	}
}

func TestAvatarSource(t *testing.T) {
	cfg := config.Default()
	tests := []struct {
		name string
		opts renderOpts
		want string
		ref  string
	}{
		{"none", renderOpts{}, "<nil>", ""},
		{"github", renderOpts{github: "octocat"}, "*github.Client", "octocat"},
		{"gitlab", renderOpts{gitlab: "trinity"}, "*gitlab.Client", "trinity"},
		{"url", renderOpts{url: "https://example.com/a.png"}, "*integrations.Client", "https://example.com/a.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fmt.Sprintf("%T", avatarSource(nil, cfg, tt.opts)); got != tt.want {
				t.Errorf("avatarSource() = %s, want %s", got, tt.want)
			}
			if got := avatarRef(tt.opts); got != tt.ref {
				t.Errorf("avatarRef() = %q, want %q", got, tt.ref)
			}
		})
	}
}

func TestRenderCommandErrors(t *testing.T) {
	cfg, _ := renderConfig(t)
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
		code apperr.Code
	}{
		{"bad time", []string{"--time", "yesterday"}, ""},
		{"bad format", []string{"-f", "webp"}, apperr.ErrCodeInvalidFormat},
		{"stdout with two formats", []string{"-f", "png,gif", "-o", "-"}, ""},
		{"missing source", []string{filepath.Join(dir, "nope.png")}, ""},
		{"size too small", []string{"--size", "8"}, apperr.ErrCodeInvalidSize},
		{"file and url", []string{"avatar.png", "--url", "https://example.com/a.png"}, ""},
		{"github and gitlab", []string{"--github", "a", "--gitlab", "b"}, ""},
		{"bad url scheme", []string{"--url", "file:///etc/passwd"}, apperr.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"render", "--config", cfg, "--no-cache", "-o", filepath.Join(dir, "x.png")}, tt.args...)
			_, err := execute(t, args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.code != "" && apperr.GetCode(err) != tt.code {
				t.Errorf("code = %q, want %q (err: %v)", apperr.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestRenderCommandFlags(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	cmd := c.renderCommand()
	for _, flag := range []string{"name", "seed", "time", "format", "size", "output", "no-cache", "refresh", "github", "gitlab", "url"} {
		if cmd.Flags().Lookup(flag) == nil {
			t.Errorf("render command has no --%s flag", flag)
		}
	}
}

func TestRenderCommandInterrupted(t *testing.T) {
	cfg, _ := renderConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"render", "--config", cfg, "--no-cache", "-o", filepath.Join(t.TempDir(), "x.png")})
	if err := root.ExecuteContext(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
