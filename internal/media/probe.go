package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	ffmpegbin "github.com/mgpai22/cueline/internal/ffmpeg"
)

// media file information
type Info struct {
	Path        string
	ContentType string
	Duration    time.Duration
	HasAudio    bool
	HasVideo    bool
	Width       int
	Height      int
	VideoCodec  string
	AudioCodec  string
}

// Seconds is the duration in the caption time unit.
func (i *Info) Seconds() float64 {
	return i.Duration.Seconds()
}

// JSON output from ffprobe
type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
}

// Prober reads media information with ffprobe.
type Prober struct {
	bins *ffmpegbin.Resolver
}

func NewProber(bins *ffmpegbin.Resolver) *Prober {
	return &Prober{bins: bins}
}

// Probe applies the type gate and then asks ffprobe for duration and streams.
func (p *Prober) Probe(ctx context.Context, filePath string) (*Info, error) {
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s: %w", filePath, os.ErrNotExist)
	}

	ct, err := CheckFile(filePath)
	if err != nil {
		return nil, err
	}

	ffprobePath, err := p.bins.FFprobePath()
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	info, err := parseProbeOutput(out.Bytes())
	if err != nil {
		return nil, err
	}
	info.Path = filePath
	info.ContentType = ct
	return info, nil
}

func parseProbeOutput(data []byte) (*Info, error) {
	var probe ffprobeOutput
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	info := &Info{}
	if probe.Format.Duration != "" {
		seconds, err := strconv.ParseFloat(probe.Format.Duration, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse duration: %w", err)
		}
		info.Duration = time.Duration(seconds * float64(time.Second))
	}

	for _, s := range probe.Streams {
		switch s.CodecType {
		case "audio":
			if !info.HasAudio {
				info.HasAudio = true
				info.AudioCodec = s.CodecName
			}
		case "video":
			// cover art shows up as a video stream without dimensions
			if !info.HasVideo && s.Width > 0 {
				info.HasVideo = true
				info.VideoCodec = s.CodecName
				info.Width = s.Width
				info.Height = s.Height
			}
		}
	}

	if !info.HasAudio && !info.HasVideo {
		return nil, fmt.Errorf("%w: no audio or video streams", ErrUnsupportedFileType)
	}
	return info, nil
}
