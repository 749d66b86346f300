package module

import (
	"image"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ordersnag/internal/core/uiprobe"
	"ordersnag/internal/platform/config"
	"ordersnag/internal/platform/logger"
)

// Options configures the inspector module
type Options struct {
	TTL      time.Duration
	Capacity int
	Patches  map[string][]uiprobe.Patch
}

// FromConfig reads INSPECTOR_* values from process config/env
func FromConfig(cfg config.Conf) Options {
	ic := cfg.Prefix("INSPECTOR_")
	return Options{
		TTL:      ic.MayDuration("CACHE_TTL", 3*time.Second),
		Capacity: ic.MayInt("CACHE_CAP", 8),
		Patches:  loadPatches(ic.MayString("PATCH_DIR", "")),
	}
}

// loadPatches reads grayscale reference patches from dir, one subdirectory
// per source package holding PNG files. A missing or empty dir disables the
// image fallback
func loadPatches(dir string) map[string][]uiprobe.Patch {
	out := make(map[string][]uiprobe.Patch)
	if dir == "" {
		return out
	}

	pkgs, err := os.ReadDir(dir)
	if err != nil {
		logger.Named("inspector").Warn().Err(err).Str("dir", dir).Msg("patch dir unreadable, image fallback off")
		return out
	}

	for _, pd := range pkgs {
		if !pd.IsDir() {
			continue
		}
		pkg := pd.Name()
		files, err := os.ReadDir(filepath.Join(dir, pkg))
		if err != nil {
			continue
		}
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), ".png") {
				continue
			}
			img, err := readGrayPNG(filepath.Join(dir, pkg, f.Name()))
			if err != nil {
				logger.Named("inspector").Warn().Err(err).Str("file", f.Name()).Msg("skipping bad patch")
				continue
			}
			out[pkg] = append(out[pkg], uiprobe.Patch{
				Name: strings.TrimSuffix(f.Name(), ".png"),
				Img:  img,
			})
		}
	}
	return out
}

func readGrayPNG(path string) (*image.Gray, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	src, err := png.Decode(f)
	if err != nil {
		return nil, err
	}
	if g, ok := src.(*image.Gray); ok {
		return g, nil
	}
	g := image.NewGray(src.Bounds())
	draw.Draw(g, g.Bounds(), src, src.Bounds().Min, draw.Src)
	return g, nil
}
