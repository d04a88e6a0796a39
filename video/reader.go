package video

import (
	"fmt"
	"image"
	"io"
	"os/exec"
	"strconv"
)

// Reader streams decoded rgb24 frames from an ffmpeg child process.
// It is forward-only; seeking is expressed as a start offset at open time.
type Reader struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	width  int
	height int

	frameBuf []byte
	skipBuf  []byte
}

// OpenReader starts ffmpeg decoding the file from startSec onward. The
// stream keeps the source resolution so saved frames match the original.
func OpenReader(path string, width, height int, startSec float64) (*Reader, error) {
	args := []string{"-v", "error", "-threads", "2"}
	if startSec > 0 {
		args = append(args, "-ss", strconv.FormatFloat(startSec, 'f', 3, 64))
	}
	args = append(args,
		"-i", path,
		"-c:v", "rawvideo", "-pix_fmt", "rgb24", "-f", "rawvideo",
		"-",
	)

	cmd := exec.Command("ffmpeg", args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("ffmpeg start: %w", err)
	}

	return &Reader{
		cmd:      cmd,
		stdout:   stdout,
		width:    width,
		height:   height,
		frameBuf: make([]byte, width*height*3),
		skipBuf:  make([]byte, width*height*3),
	}, nil
}

// ReadFrame decodes the next frame into a freshly allocated RGBA image.
// io.EOF (or io.ErrUnexpectedEOF on a truncated tail) signals end of stream.
func (r *Reader) ReadFrame() (*image.RGBA, error) {
	if _, err := io.ReadFull(r.stdout, r.frameBuf); err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	src := r.frameBuf
	dst := img.Pix
	for i, j := 0, 0; i < len(src); i, j = i+3, j+4 {
		dst[j] = src[i]
		dst[j+1] = src[i+1]
		dst[j+2] = src[i+2]
		dst[j+3] = 0xFF
	}
	return img, nil
}

// Skip discards n frames from the stream.
func (r *Reader) Skip(n int) error {
	for i := 0; i < n; i++ {
		if _, err := io.ReadFull(r.stdout, r.skipBuf); err != nil {
			return err
		}
	}
	return nil
}

// Close tears down the ffmpeg child. Safe to call after EOF.
func (r *Reader) Close() {
	r.stdout.Close()
	r.cmd.Wait()
}
