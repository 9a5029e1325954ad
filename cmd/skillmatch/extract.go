package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/skillmatch/internal/ingestion"
	"github.com/jonathan/skillmatch/internal/observability"
	"github.com/jonathan/skillmatch/internal/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract the canonical skill set from text",
	Long: `Extract skills from free text or a file (text, PDF or DOCX). The text is
normalized first; model entities and dictionary matches are unioned.`,
	RunE: runExtract,
}

var (
	extractText    string
	extractFile    string
	extractNoModel bool
	extractOut     string
)

type extractOutput struct {
	Skills types.SkillSet `json:"skills"`
	Count  int            `json:"count"`
}

func init() {
	extractCmd.Flags().StringVarP(&extractText, "text", "t", "", "Text to extract skills from")
	extractCmd.Flags().StringVarP(&extractFile, "file", "f", "", "File to extract skills from (- for stdin)")
	extractCmd.Flags().BoolVar(&extractNoModel, "no-model", false, "Use dictionary matching only")
	extractCmd.Flags().StringVarP(&extractOut, "out", "o", "", "Output file (default stdout)")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	text, err := readInput(extractText, extractFile)
	if err != nil {
		return err
	}

	ext, err := buildExtractor(cfg, extractNoModel)
	if err != nil {
		return err
	}
	defer closeExtractor(ext)

	skills := ext.Extract(cmd.Context(), ingestion.Normalize(text))
	if cfg.Verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintSkills("Extracted Skills", skills)
	}
	return writeJSON(cmd.OutOrStdout(), extractOut, extractOutput{Skills: skills, Count: skills.Len()})
}
