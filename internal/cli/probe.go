package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mgpai22/cueline/internal/api"
	"github.com/mgpai22/cueline/internal/media"
	"github.com/mgpai22/cueline/internal/subtitle"
)

var probeCmd = &cobra.Command{
	Use:   "probe [media_file]",
	Short: "Show duration and stream information for a media file",
	Long: `Probe an audio or video file with ffprobe. Files that are not audio or
video are rejected, the same as when loading media into the editor.`,
	Args: cobra.ExactArgs(1),
	RunE: runProbe,
}

func init() {
	rootCmd.AddCommand(probeCmd)
	probeCmd.Flags().Bool("json", false, "Print as JSON")
}

func runProbe(cmd *cobra.Command, args []string) error {
	prober := media.NewProber(newResolver())

	info, err := prober.Probe(context.Background(), args[0])
	if err != nil {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		return writeJSON(cmd.OutOrStdout(), api.MediaToResponse(info))
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Path:\t%s\n", info.Path)
	fmt.Fprintf(tw, "Type:\t%s\n", info.ContentType)
	fmt.Fprintf(tw, "Duration:\t%s\n", subtitle.FormatDisplayTime(info.Seconds()))
	if info.HasVideo {
		fmt.Fprintf(tw, "Video:\t%s %dx%d\n", info.VideoCodec, info.Width, info.Height)
	}
	if info.HasAudio {
		fmt.Fprintf(tw, "Audio:\t%s\n", info.AudioCodec)
	}
	return tw.Flush()
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
