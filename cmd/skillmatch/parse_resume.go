package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/skillmatch/internal/observability"
	"github.com/jonathan/skillmatch/internal/pipeline"
)

var parseResumeCmd = &cobra.Command{
	Use:   "parse-resume",
	Short: "Analyze a resume into skills, contact details and sections",
	RunE:  runParseResume,
}

var (
	parseResumeFile    string
	parseResumeText    string
	parseResumeNoModel bool
	parseResumeOut     string
)

func init() {
	parseResumeCmd.Flags().StringVarP(&parseResumeFile, "file", "f", "", "Resume file (text, PDF or DOCX)")
	parseResumeCmd.Flags().StringVarP(&parseResumeText, "text", "t", "", "Resume text")
	parseResumeCmd.Flags().BoolVar(&parseResumeNoModel, "no-model", false, "Use dictionary matching only")
	parseResumeCmd.Flags().StringVarP(&parseResumeOut, "out", "o", "", "Output file (default stdout)")

	rootCmd.AddCommand(parseResumeCmd)
}

func runParseResume(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	text, err := readInput(parseResumeText, parseResumeFile)
	if err != nil {
		return err
	}

	ext, err := buildExtractor(cfg, parseResumeNoModel)
	if err != nil {
		return err
	}
	defer closeExtractor(ext)

	doc := pipeline.NewAnalyzer(ext, nil).AnalyzeResume(cmd.Context(), text)
	if cfg.Verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintDocument(doc)
	}
	return writeJSON(cmd.OutOrStdout(), parseResumeOut, doc)
}
