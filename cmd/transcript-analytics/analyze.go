package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/xxxsen/transcript-analytics/internal/config"
	"github.com/xxxsen/transcript-analytics/internal/emotion"
	"github.com/xxxsen/transcript-analytics/internal/model"
)

type analyzeFlags struct {
	configPath string
	mode       string
	file       string
	text       string
	target     string
	language   string
	plots      bool
}

func newAnalyzeCmd() *cobra.Command {
	var f analyzeFlags
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "analyze a transcript once and print the result as json",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if f.configPath != "" {
				loaded, err := config.Load(f.configPath)
				if err != nil {
					return err
				}
				cfg = loaded
			}
			initLogger(cfg)
			a, err := buildApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			out, err := runAnalyze(cmd.Context(), a, f)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().StringVar(&f.configPath, "config", "", "optional config file")
	cmd.Flags().StringVar(&f.mode, "mode", "document", "document|emotion|trends|frame|session")
	cmd.Flags().StringVar(&f.file, "file", "", "input file, '-' for stdin; trends expects a json array of sessions")
	cmd.Flags().StringVar(&f.text, "text", "", "inline input text")
	cmd.Flags().StringVar(&f.target, "target", "", "target word for frame mode")
	cmd.Flags().StringVar(&f.language, "language", "", "italian or english")
	cmd.Flags().BoolVar(&f.plots, "plots", false, "include base64 plots")
	return cmd
}

func runAnalyze(ctx context.Context, a *app, f analyzeFlags) (interface{}, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	input, err := readInput(f)
	if err != nil {
		return nil, err
	}
	switch f.mode {
	case "document":
		return a.analysis.AnalyzeDocument(ctx, model.SingleDocumentRequest{Transcript: input, Language: f.language})
	case "emotion":
		return a.emotions.AnalyzeText(ctx, model.EmotionAnalysisRequest{Text: input, Language: f.language, IncludePlot: f.plots})
	case "trends":
		var sessions []emotion.Session
		if err := json.Unmarshal([]byte(input), &sessions); err != nil {
			return nil, fmt.Errorf("decode sessions: %w", err)
		}
		return a.emotions.Trends(ctx, model.EmotionTrendsRequest{Sessions: sessions, Language: f.language, IncludePlots: f.plots})
	case "frame":
		return a.emotions.SemanticFrame(ctx, model.SemanticFrameRequest{Text: input, TargetWord: f.target, Language: f.language})
	case "session":
		return a.sessions.AnalyzeSession(ctx, model.SingleSessionRequest{Text: input, Language: f.language})
	default:
		return nil, fmt.Errorf("unknown mode %q", f.mode)
	}
}

func readInput(f analyzeFlags) (string, error) {
	switch {
	case f.text != "":
		return f.text, nil
	case f.file == "-":
		raw, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(raw), nil
	case f.file != "":
		raw, err := os.ReadFile(f.file)
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return string(raw), nil
	default:
		return "", fmt.Errorf("--text or --file is required")
	}
}
