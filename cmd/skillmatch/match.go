package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/skillmatch/internal/ingestion"
	"github.com/jonathan/skillmatch/internal/matching"
	"github.com/jonathan/skillmatch/internal/observability"
	"github.com/jonathan/skillmatch/internal/schemas"
	"github.com/jonathan/skillmatch/internal/types"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Score a resume skill set against a job skill set",
	Long: `Compute the overlap score with matched and missing skills. Skill sets are
given directly (--resume-skills, --job-skills) or extracted from text
(--resume-text, --job-text).`,
	RunE: runMatch,
}

var (
	matchResumeSkills string
	matchJobSkills    string
	matchResumeText   string
	matchJobText      string
	matchNoModel      bool
)

func init() {
	matchCmd.Flags().StringVar(&matchResumeSkills, "resume-skills", "", "Comma-separated resume skills")
	matchCmd.Flags().StringVar(&matchJobSkills, "job-skills", "", "Comma-separated job skills")
	matchCmd.Flags().StringVar(&matchResumeText, "resume-text", "", "Resume text to extract skills from")
	matchCmd.Flags().StringVar(&matchJobText, "job-text", "", "Job posting text to extract skills from")
	matchCmd.Flags().BoolVar(&matchNoModel, "no-model", false, "Use dictionary matching only")

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	if matchResumeSkills == "" && matchResumeText == "" {
		return fmt.Errorf("either --resume-skills or --resume-text must be provided")
	}
	if matchJobSkills == "" && matchJobText == "" {
		return fmt.Errorf("either --job-skills or --job-text must be provided")
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	resume := types.NewSkillSet(splitList(matchResumeSkills)...)
	job := types.NewSkillSet(splitList(matchJobSkills)...)
	if matchResumeText != "" || matchJobText != "" {
		ext, err := buildExtractor(cfg, matchNoModel)
		if err != nil {
			return err
		}
		defer closeExtractor(ext)
		if matchResumeText != "" {
			resume = resume.Union(ext.Extract(cmd.Context(), ingestion.Normalize(matchResumeText)))
		}
		if matchJobText != "" {
			job = job.Union(ext.Extract(cmd.Context(), ingestion.Normalize(matchJobText)))
		}
	}

	result := matching.Score(resume, job)
	if cfg.Verbose {
		observability.NewPrinter(cmd.ErrOrStderr()).PrintMatchResult(&result)
	}
	if err := validateOutput(cfg, schemas.MatchResultSchema, result); err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), "", result)
}
