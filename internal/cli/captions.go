package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mgpai22/cueline/internal/session"
	"github.com/mgpai22/cueline/internal/subtitle"
)

var captionsCmd = &cobra.Command{
	Use:   "captions",
	Short: "Edit a caption file from the command line",
	Long: `List and edit the captions of a subtitle file. Changes are written back to
the file atomically in its own format, or to --output in the format of its
extension.

Examples:
  cueline captions list talk.srt
  cueline captions add talk.srt --at 12.5 --text "Hello there"
  cueline captions edit talk.srt 0 end 14.75
  cueline captions delete talk.srt 3
  cueline captions clear talk.srt`,
}

var captionsListCmd = &cobra.Command{
	Use:   "list [subtitle_file]",
	Short: "Print the caption list",
	Args:  cobra.ExactArgs(1),
	RunE:  runCaptionsList,
}

var captionsAddCmd = &cobra.Command{
	Use:   "add [subtitle_file]",
	Short: "Add a caption starting at --at",
	Long: `Add a caption starting at --at seconds. The end time is the start plus
caption.default_duration from the config. The file is created if missing.`,
	Args: cobra.ExactArgs(1),
	RunE: runCaptionsAdd,
}

var captionsEditCmd = &cobra.Command{
	Use:   "edit [subtitle_file] [index] [start|end|text] [value]",
	Short: "Change one field of a caption",
	Args:  cobra.ExactArgs(4),
	RunE:  runCaptionsEdit,
}

var captionsDeleteCmd = &cobra.Command{
	Use:   "delete [subtitle_file] [index]",
	Short: "Remove a caption; later captions shift down",
	Args:  cobra.ExactArgs(2),
	RunE:  runCaptionsDelete,
}

var captionsClearCmd = &cobra.Command{
	Use:   "clear [subtitle_file]",
	Short: "Remove every caption",
	Args:  cobra.ExactArgs(1),
	RunE:  runCaptionsClear,
}

func init() {
	rootCmd.AddCommand(captionsCmd)
	captionsCmd.AddCommand(
		captionsListCmd,
		captionsAddCmd,
		captionsEditCmd,
		captionsDeleteCmd,
		captionsClearCmd,
	)

	captionsListCmd.Flags().Bool("json", false, "Print the list view as JSON")

	captionsAddCmd.Flags().Float64("at", 0, "Start time in seconds")
	captionsAddCmd.Flags().String("text", "", "Caption text (required)")
	_ = captionsAddCmd.MarkFlagRequired("text")
}

func runCaptionsList(cmd *cobra.Command, args []string) error {
	s, _, err := openCaptionFile(args[0], false)
	if err != nil {
		return err
	}

	view := session.ListView(s.Snapshot())
	out := cmd.OutOrStdout()

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		return writeJSON(out, view)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, item := range view.Items {
		fmt.Fprintf(tw, "%d\t%s\t%s\n",
			item.Index,
			subtitle.FormatDisplayTime(item.End),
			item.Label,
		)
	}
	return tw.Flush()
}

func runCaptionsAdd(cmd *cobra.Command, args []string) error {
	path := args[0]
	at, _ := cmd.Flags().GetFloat64("at")
	text, _ := cmd.Flags().GetString("text")

	s, format, err := openCaptionFile(path, true)
	if err != nil {
		return err
	}

	idx, err := s.Add(text, &at)
	if err != nil {
		return err
	}
	if err := writeBack(cmd, s, path, format); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Added caption %d at %s\n", idx, subtitle.FormatDisplayTime(at))
	return nil
}

func runCaptionsEdit(cmd *cobra.Command, args []string) error {
	path := args[0]
	idx, err := parseIndex(args[1])
	if err != nil {
		return err
	}

	s, format, err := openCaptionFile(path, false)
	if err != nil {
		return err
	}
	if err := s.Edit(idx, args[2], args[3]); err != nil {
		return err
	}
	return writeBack(cmd, s, path, format)
}

func runCaptionsDelete(cmd *cobra.Command, args []string) error {
	path := args[0]
	idx, err := parseIndex(args[1])
	if err != nil {
		return err
	}

	s, format, err := openCaptionFile(path, false)
	if err != nil {
		return err
	}
	if err := s.Delete(idx); err != nil {
		return err
	}
	return writeBack(cmd, s, path, format)
}

func runCaptionsClear(cmd *cobra.Command, args []string) error {
	path := args[0]
	s, format, err := openCaptionFile(path, true)
	if err != nil {
		return err
	}
	s.Clear()
	return writeBack(cmd, s, path, format)
}

func writeBack(cmd *cobra.Command, s *session.Session, path string, format subtitle.Format) error {
	target, targetFormat, err := outputTarget(cmd, path, format)
	if err != nil {
		return err
	}
	captions := s.Snapshot()
	if err := saveCaptions(captions, targetFormat, target); err != nil {
		return err
	}
	logger.Infow("captions written", "path", target, "format", targetFormat, "count", len(captions))
	return nil
}

func parseIndex(s string) (int, error) {
	idx, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid caption index %q", s)
	}
	return idx, nil
}
