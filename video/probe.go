// Package video reads frames out of a source video by shelling out to
// ffmpeg/ffprobe, decoding the rawvideo byte stream in-process.
package video

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Info is the source metadata the sampler needs.
type Info struct {
	Path        string
	Width       int
	Height      int
	FPS         float64
	TotalFrames int
	DurationSec float64
}

// CheckFFmpegAvailable verifies both ffmpeg and ffprobe are on PATH.
func CheckFFmpegAvailable() error {
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			return fmt.Errorf("%s not found in PATH: %w", bin, err)
		}
	}
	return nil
}

// Probe inspects the first video stream of the file.
func Probe(path string) (Info, error) {
	cmd := exec.Command("ffprobe",
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,avg_frame_rate,nb_frames",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1",
		path,
	)
	output, err := cmd.Output()
	if err != nil {
		return Info{}, fmt.Errorf("ffprobe failed for %s: %w", path, err)
	}

	info := Info{Path: path}
	for _, line := range strings.Split(string(output), "\n") {
		key, value, found := strings.Cut(strings.TrimSpace(line), "=")
		if !found || value == "N/A" {
			continue
		}
		switch key {
		case "width":
			info.Width, _ = strconv.Atoi(value)
		case "height":
			info.Height, _ = strconv.Atoi(value)
		case "avg_frame_rate":
			info.FPS = parseRate(value)
		case "nb_frames":
			info.TotalFrames, _ = strconv.Atoi(value)
		case "duration":
			info.DurationSec, _ = strconv.ParseFloat(value, 64)
		}
	}

	if info.Width <= 0 || info.Height <= 0 {
		return Info{}, fmt.Errorf("no video stream dimensions in %s", path)
	}
	if info.FPS <= 0 {
		return Info{}, fmt.Errorf("could not determine frame rate of %s", path)
	}
	// Some containers omit nb_frames; fall back to duration * fps.
	if info.TotalFrames <= 0 && info.DurationSec > 0 {
		info.TotalFrames = int(info.DurationSec * info.FPS)
	}
	return info, nil
}

// parseRate handles ffprobe rational rates like "30000/1001".
func parseRate(value string) float64 {
	num, den, found := strings.Cut(value, "/")
	if !found {
		rate, _ := strconv.ParseFloat(value, 64)
		return rate
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}
