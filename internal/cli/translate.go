package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/cueline/internal/subtitle"
	"github.com/mgpai22/cueline/internal/translate"
)

var translateCmd = &cobra.Command{
	Use:   "translate [subtitle_file]",
	Short: "Translate caption text to another language using an LLM",
	Long: `Translate the captions of a subtitle file. Timing is kept as is; only the
text changes.

The --overlay flag creates bilingual captions with the translated text
first, followed by the original text on the next line.

Examples:
  cueline translate talk.srt -t japanese
  cueline translate talk.vtt -t ja --overlay
  cueline translate talk.srt --from english -t spanish --provider anthropic -o talk.es.srt`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().
		StringP("target-language", "t", "", "Target language for translation (required)")
	translateCmd.Flags().
		String("from", "", "Source language (detected by the model when empty)")
	translateCmd.Flags().
		Bool("overlay", false, "Overlay translated text with original (bilingual captions)")
	translateCmd.Flags().
		StringP("api-key", "k", "", "API key (or set GEMINI_API_KEY/OPENAI_API_KEY/ANTHROPIC_API_KEY)")
	translateCmd.Flags().
		String("provider", "", "Translation provider (gemini, openai, anthropic); defaults to translate.provider")
	translateCmd.Flags().
		String("model", "", "Model to use (provider-specific, uses sensible defaults)")
	translateCmd.Flags().
		Bool("model-override", false, "Allow any custom model, bypassing provider model validation")
	translateCmd.Flags().
		String("prompt", "", "Additional instructions for the model")
	translateCmd.Flags().
		Int("concurrency", 0, "Number of parallel translation workers; defaults to translate.concurrency")
	translateCmd.Flags().
		Int("batch-size", 0, "Captions per API request; defaults to translate.batch_size")

	_ = translateCmd.MarkFlagRequired("target-language")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	targetLang, _ := cmd.Flags().GetString("target-language")
	inputLang, _ := cmd.Flags().GetString("from")
	overlay, _ := cmd.Flags().GetBool("overlay")
	apiKey, _ := cmd.Flags().GetString("api-key")
	providerStr, _ := cmd.Flags().GetString("provider")
	model, _ := cmd.Flags().GetString("model")
	modelOverride, _ := cmd.Flags().GetBool("model-override")
	prompt, _ := cmd.Flags().GetString("prompt")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	batchSize, _ := cmd.Flags().GetInt("batch-size")
	outputPath, _ := cmd.Flags().GetString("output")

	targetLang = strings.TrimSpace(targetLang)
	if targetLang == "" {
		return fmt.Errorf("target language is required")
	}
	if inputLang != "" && strings.EqualFold(strings.TrimSpace(inputLang), targetLang) {
		return fmt.Errorf(
			"input language %q and target language %q cannot be the same",
			inputLang,
			targetLang,
		)
	}

	if providerStr == "" {
		providerStr = cfg.Translate.Provider
	}
	provider, err := translate.ParseProvider(providerStr)
	if err != nil {
		return err
	}

	apiKey = translate.APIKey(provider, apiKey)
	if apiKey == "" {
		return fmt.Errorf(
			"API key is required: use --api-key flag or set %s environment variable",
			translate.APIKeyEnv(provider),
		)
	}

	if model == "" {
		model = cfg.Translate.Model
	}
	if !modelOverride {
		if err := translate.ValidateModel(provider, model); err != nil {
			return err
		}
	}

	if concurrency == 0 {
		concurrency = cfg.Translate.Concurrency
	}
	if batchSize == 0 {
		batchSize = cfg.Translate.BatchSize
	}
	if concurrency < 0 {
		return fmt.Errorf("concurrency must be positive, got %d", concurrency)
	}
	if batchSize < 0 {
		return fmt.Errorf("batch-size must be positive, got %d", batchSize)
	}

	s, format, err := openCaptionFile(inputPath, false)
	if err != nil {
		return err
	}
	original := s.Snapshot()
	if len(original) == 0 {
		return fmt.Errorf("%s: %w", inputPath, subtitle.ErrEmptyInput)
	}

	outFormat := format
	if outputPath == "" {
		suffix := "." + targetLang
		if overlay {
			suffix += ".overlay"
		}
		outputPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) +
			suffix + filepath.Ext(inputPath)
	} else if outFormat, err = subtitle.FormatFromPath(outputPath); err != nil {
		return err
	}

	logger.Infow("starting caption translation",
		"input", inputPath,
		"output", outputPath,
		"captions", len(original),
		"provider", provider,
		"model", model,
		"target_language", targetLang,
		"overlay", overlay,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	translator, err := translate.Factory(ctx, provider, apiKey, translate.Options{
		InputLanguage:  inputLang,
		TargetLanguage: targetLang,
		Model:          model,
		Prompt:         prompt,
		BatchSize:      batchSize,
	})
	if err != nil {
		return fmt.Errorf("failed to create translator: %w", err)
	}

	translated, err := translate.Captions(ctx, translator, original, concurrency)
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}
	if overlay {
		if translated, err = translate.Overlay(original, translated); err != nil {
			return err
		}
	}

	if err := s.Replace(translated); err != nil {
		return err
	}
	if err := saveCaptions(s.Snapshot(), outFormat, outputPath); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Captions translated successfully: %s\n", absPath(outputPath))
	fmt.Fprintf(out, "  Captions: %d\n", len(translated))
	fmt.Fprintf(out, "  Target language: %s\n", targetLang)
	if overlay {
		fmt.Fprintf(out, "  Mode: bilingual overlay\n")
	}
	return nil
}
