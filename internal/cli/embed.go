package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mgpai22/cueline/internal/video"
)

var embedCmd = &cobra.Command{
	Use:   "embed [video_file] [subtitle_file]",
	Short: "Mux a caption file into a video as a soft subtitle track",
	Long: `Copy the video and audio streams into a new container with the captions
added as a selectable subtitle track. Nothing is re-encoded.

The subtitle codec follows the output container: mov_text for mp4 and mov,
srt for mkv, webvtt for webm.

Examples:
  cueline embed talk.mp4 talk.srt
  cueline embed talk.mp4 talk.srt -o talk.captioned.mkv`,
	Args: cobra.ExactArgs(2),
	RunE: runEmbed,
}

func init() {
	rootCmd.AddCommand(embedCmd)
}

func runEmbed(cmd *cobra.Command, args []string) error {
	videoPath, subtitlePath := args[0], args[1]

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = video.DerivedPath(videoPath, ".captioned", filepath.Ext(videoPath))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	processor := video.NewProcessor(newResolver(), logger)
	if err := processor.EmbedSubtitles(ctx, videoPath, subtitlePath, outputPath); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Subtitles embedded: %s\n", absPath(outputPath))
	return nil
}
