package video

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/mgpai22/cueline/internal/ffmpeg"
	"github.com/mgpai22/cueline/internal/logging"
	"github.com/mgpai22/cueline/internal/media"
)

// holds options for audio extraction
type ExtractAudioOptions struct {
	Format     string // Output format (wav, mp3, aac, flac)
	SampleRate int    // Sample rate in Hz (e.g., 16000, 44100, 48000)
	Channels   int    // Number of channels (1 = mono, 2 = stereo)
	Bitrate    string // Bitrate for lossy formats (e.g., "128k", "320k")
}

// light mono proxy that the waveform view can decode quickly
func DefaultExtractAudioOptions() ExtractAudioOptions {
	return ExtractAudioOptions{
		Format:     "mp3",
		SampleRate: 22050,
		Channels:   1,
		Bitrate:    "64k",
	}
}

// default implementation using ffmpeg
type Processor struct {
	bins   *ffmpegbin.Resolver
	logger *logging.Logger
}

func NewProcessor(bins *ffmpegbin.Resolver, logger *logging.Logger) *Processor {
	return &Processor{
		bins:   bins,
		logger: logger.Named("video"),
	}
}

// extracts an audio proxy from a media file
func (p *Processor) ExtractAudio(
	ctx context.Context,
	videoPath, outputPath string,
	opts ExtractAudioOptions,
) error {
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return fmt.Errorf("video file not found: %s", videoPath)
	}
	if !media.IsMediaFile(videoPath) {
		if _, err := media.CheckFile(videoPath); err != nil {
			return err
		}
	}

	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	kwargs := ffmpeg.KwArgs{
		"vn": "",              // No video
		"ar": opts.SampleRate, // Sample rate
		"ac": opts.Channels,   // Channels
	}

	switch opts.Format {
	case "mp3":
		kwargs["acodec"] = "libmp3lame"
		if opts.Bitrate != "" {
			kwargs["b:a"] = opts.Bitrate
		}
	case "aac":
		kwargs["acodec"] = "aac"
		if opts.Bitrate != "" {
			kwargs["b:a"] = opts.Bitrate
		}
	case "flac":
		kwargs["acodec"] = "flac"
	default:
		kwargs["acodec"] = "pcm_s16le"
	}

	ffmpegPath, err := p.bins.FFmpegPath()
	if err != nil {
		return err
	}

	p.logger.Infow("extracting audio",
		"input", videoPath,
		"output", outputPath,
		"format", opts.Format,
	)

	stream := ffmpeg.Input(videoPath).
		Output(outputPath, kwargs).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath)

	if err := run(ctx, stream); err != nil {
		return fmt.Errorf("ffmpeg extraction failed: %w", err)
	}

	return nil
}

// muxes a subtitle file into a copy of the video as a soft track
func (p *Processor) EmbedSubtitles(
	ctx context.Context,
	videoPath, subtitlePath, outputPath string,
) error {
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return fmt.Errorf("video file not found: %s", videoPath)
	}
	if _, err := os.Stat(subtitlePath); os.IsNotExist(err) {
		return fmt.Errorf("subtitle file not found: %s", subtitlePath)
	}
	if !media.IsVideoFile(videoPath) {
		return fmt.Errorf("%w: %s is not a video", media.ErrUnsupportedFileType, videoPath)
	}

	codec, err := subtitleCodecFor(outputPath)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ffmpegPath, err := p.bins.FFmpegPath()
	if err != nil {
		return err
	}

	p.logger.Infow("embedding subtitles",
		"video", videoPath,
		"subtitles", subtitlePath,
		"output", outputPath,
		"codec", codec,
	)

	stream := ffmpeg.Output(
		[]*ffmpeg.Stream{ffmpeg.Input(videoPath), ffmpeg.Input(subtitlePath)},
		outputPath,
		ffmpeg.KwArgs{
			"c":   "copy",
			"c:s": codec,
		},
	).OverWriteOutput().SetFfmpegPath(ffmpegPath)

	if err := run(ctx, stream); err != nil {
		return fmt.Errorf("ffmpeg embed failed: %w", err)
	}

	return nil
}

// subtitle codec accepted by the output container
func subtitleCodecFor(outputPath string) (string, error) {
	switch strings.ToLower(filepath.Ext(outputPath)) {
	case ".mp4", ".m4v", ".mov":
		return "mov_text", nil
	case ".mkv":
		return "srt", nil
	case ".webm":
		return "webvtt", nil
	default:
		return "", fmt.Errorf(
			"unsupported output container %q (use .mp4, .mov, .mkv or .webm)",
			filepath.Ext(outputPath),
		)
	}
}

// runs the compiled ffmpeg command, killing it when ctx is cancelled
func run(ctx context.Context, stream *ffmpeg.Stream) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cmd := stream.Compile()
	if err := cmd.Start(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
	}()

	select {
	case <-ctx.Done():
		_ = cmd.Process.Kill()
		<-done
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// output path next to the input with a new suffix and extension
func DerivedPath(inputPath, suffix, ext string) string {
	base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	return base + suffix + ext
}
