package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/cueline/internal/clipboard"
	"github.com/mgpai22/cueline/internal/fsutil"
	"github.com/mgpai22/cueline/internal/subtitle"
)

var exportCmd = &cobra.Command{
	Use:   "export [subtitle_file]",
	Short: "Convert a caption file to another subtitle format",
	Long: `Load a caption file into the caption store and render it in the chosen
format. Files with no captions are refused.

The output goes next to the input with the new extension unless --output is
given. Use --output - to print to stdout.

Examples:
  cueline export talk.srt -f vtt
  cueline export talk.ass -f srt -o out/talk.srt
  cueline export talk.srt -f srt --reflow --clipboard`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().
		StringP("format", "f", "", "Output subtitle format (srt, vtt, ass, ttml); defaults to export.format")
	exportCmd.Flags().
		Bool("clipboard", false, "Also copy the rendered document to the clipboard")
	exportCmd.Flags().
		Bool("reflow", false, "Split long captions and wrap lines before rendering")
}

func runExport(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	formatStr, _ := cmd.Flags().GetString("format")
	toClipboard, _ := cmd.Flags().GetBool("clipboard")
	reflow, _ := cmd.Flags().GetBool("reflow")
	outputPath, _ := cmd.Flags().GetString("output")

	format := cfg.ExportFormat()
	if formatStr != "" {
		f, err := subtitle.ParseFormat(formatStr)
		if err != nil {
			return err
		}
		format = f
	}

	s, _, err := openCaptionFile(inputPath, false)
	if err != nil {
		return err
	}

	if reflow {
		before := s.Snapshot()
		if err := s.Replace(subtitle.NewReflow().Apply(before)); err != nil {
			return fmt.Errorf("failed to reflow captions: %w", err)
		}
		logger.Infow("captions reflowed", "before", len(before), "after", len(s.Snapshot()))
	}

	out, err := s.Export(format)
	if err != nil {
		return err
	}

	if outputPath == "-" {
		_, err := cmd.OutOrStdout().Write(out.Data)
		return err
	}
	if outputPath == "" {
		outputPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) +
			subtitle.GetExtensionForFormat(format)
	}
	if absPath(outputPath) == absPath(inputPath) && format != subtitle.GetFormatFromExtension(inputPath) {
		return fmt.Errorf("refusing to overwrite %s with %s content", inputPath, format)
	}

	if err := fsutil.WriteFileAtomic(outputPath, out.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	if toClipboard {
		if err := clipboard.WriteAll(string(out.Data)); err != nil {
			logger.Warnw("could not copy to clipboard", "error", err)
		} else {
			logger.Infow("copied to clipboard", "bytes", len(out.Data))
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Subtitles exported: %s\n", absPath(outputPath))
	fmt.Fprintf(cmd.OutOrStdout(), "  Captions: %d\n", len(s.Snapshot()))
	fmt.Fprintf(cmd.OutOrStdout(), "  Format: %s\n", out.Format)
	return nil
}
