// Package main provides the CLI entry point for pptfill.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Dragosjosan/powerpoint-automation/pkg/pptfill"
)

var (
	outputPath string
	logLevel   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pptfill [template.pptx] [payload.(json|yaml)]",
		Short: "Fill PowerPoint templates with structured data",
		Long: `pptfill rewrites {{key}} text placeholders, fills tables and swaps image
placeholders in a .pptx template from a JSON or YAML payload keyed by slide
title. Skipped slides, tables and images are warnings; the filled
presentation is saved even when some entries could not be applied.`,
		Args: cobra.ExactArgs(2),
		RunE: run,
	}

	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: <template>_filled.pptx)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")

	slidesCmd := &cobra.Command{
		Use:   "slides [template.pptx]",
		Short: "List the titled slides of a template",
		Args:  cobra.ExactArgs(1),
		RunE:  runSlides,
	}
	rootCmd.AddCommand(slidesCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger() (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", logLevel)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}

func run(cmd *cobra.Command, args []string) error {
	templatePath, payloadPath := args[0], args[1]

	logger, err := newLogger()
	if err != nil {
		return err
	}

	tmpl, err := pptfill.Open(templatePath, pptfill.Options{Logger: logger})
	if err != nil {
		return fmt.Errorf("failed to open template: %w", err)
	}

	payload, err := pptfill.LoadPayload(payloadPath)
	if err != nil {
		return fmt.Errorf("failed to load payload: %w", err)
	}

	logger.Info("applying data to template", "template", templatePath, "entries", len(payload.Entries))
	report := tmpl.Apply(payload)

	out := outputPath
	if out == "" {
		out = strings.TrimSuffix(templatePath, filepath.Ext(templatePath)) + "_filled.pptx"
	}
	if err := tmpl.Save(out); err != nil {
		return fmt.Errorf("failed to save presentation: %w", err)
	}

	logger.Info("apply finished",
		"slides_applied", report.SlidesApplied,
		"slides_skipped", report.SlidesSkipped,
		"warnings", len(report.Warnings))
	fmt.Printf("Presentation saved as %s\n", out)
	return nil
}

func runSlides(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return err
	}

	tmpl, err := pptfill.Open(args[0], pptfill.Options{Logger: logger})
	if err != nil {
		return fmt.Errorf("failed to open template: %w", err)
	}

	slides := tmpl.Slides()
	if len(slides) == 0 {
		fmt.Println("No titled slides in template")
		return nil
	}
	for _, s := range slides {
		fmt.Printf("%3d  %s\n", s.Index, s.Title)
	}
	return nil
}
