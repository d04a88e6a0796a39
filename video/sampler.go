package video

import (
	"image"
	"io"
)

// Sample is one element of the sampler's output sequence.
type Sample struct {
	FrameNumber int
	TimestampMs float64
	Image       *image.RGBA
}

// SamplerOptions bound the sampled sequence.
type SamplerOptions struct {
	TargetFPS float64 // frames per second to keep
	MaxFrames int     // 0 means unbounded
	StartSec  float64 // inclusive start of the time window
	EndSec    float64 // exclusive end; 0 means end of stream
}

// Sampler yields a lazy, finite, non-restartable sequence of sampled frames
// spaced at native_fps/target_fps native-frame intervals.
type Sampler struct {
	reader   *Reader
	info     Info
	interval int
	endFrame int
	maxKeep  int

	nextFrame int
	emitted   int
	done      bool
}

// SampleInterval computes the native-frame stride for a target rate. A target
// at or above the native rate degenerates to 1 (plain native sampling).
func SampleInterval(nativeFPS, targetFPS float64) int {
	if targetFPS <= 0 || targetFPS >= nativeFPS {
		return 1
	}
	interval := int(nativeFPS / targetFPS)
	if interval < 1 {
		interval = 1
	}
	return interval
}

// FrameWindow converts the [start, end) time window in seconds to native
// frame bounds. An omitted end (0) reads to end of stream.
func FrameWindow(info Info, startSec, endSec float64) (startFrame, endFrame int) {
	startFrame = int(startSec * info.FPS)
	endFrame = info.TotalFrames
	if endSec > 0 {
		endFrame = int(endSec * info.FPS)
		if endFrame > info.TotalFrames && info.TotalFrames > 0 {
			endFrame = info.TotalFrames
		}
	}
	return startFrame, endFrame
}

// NewSampler opens the source at the window start and prepares the stride
// walk. The caller owns Close.
func NewSampler(info Info, opts SamplerOptions) (*Sampler, error) {
	startFrame, endFrame := FrameWindow(info, opts.StartSec, opts.EndSec)

	reader, err := OpenReader(info.Path, info.Width, info.Height, opts.StartSec)
	if err != nil {
		return nil, err
	}

	return &Sampler{
		reader:    reader,
		info:      info,
		interval:  SampleInterval(info.FPS, opts.TargetFPS),
		endFrame:  endFrame,
		maxKeep:   opts.MaxFrames,
		nextFrame: startFrame,
	}, nil
}

// Interval exposes the native-frame stride in use.
func (s *Sampler) Interval() int { return s.interval }

// Next returns the next sampled frame, or io.EOF at the earlier of the end
// frame, the frame cap, or end of stream. A decode failure terminates the
// sequence early; the source is assumed seekable and reliable, so there is
// no retry.
func (s *Sampler) Next() (Sample, error) {
	if s.done {
		return Sample{}, io.EOF
	}
	if s.maxKeep > 0 && s.emitted >= s.maxKeep {
		s.done = true
		return Sample{}, io.EOF
	}
	if s.endFrame > 0 && s.nextFrame >= s.endFrame {
		s.done = true
		return Sample{}, io.EOF
	}

	img, err := s.reader.ReadFrame()
	if err != nil {
		s.done = true
		return Sample{}, io.EOF
	}

	sample := Sample{
		FrameNumber: s.nextFrame,
		TimestampMs: float64(s.nextFrame) / s.info.FPS * 1000,
		Image:       img,
	}

	s.emitted++
	s.nextFrame += s.interval

	// Discard the native frames between samples; a short tail just means the
	// next ReadFrame hits EOF.
	if err := s.reader.Skip(s.interval - 1); err != nil {
		s.done = true
	}

	return sample, nil
}

// Close releases the underlying decoder.
func (s *Sampler) Close() {
	s.reader.Close()
}
