package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/skillmatch/internal/ingestion"
	"github.com/jonathan/skillmatch/internal/sections"
	"github.com/jonathan/skillmatch/internal/types"
)

var segmentCmd = &cobra.Command{
	Use:   "segment",
	Short: "Extract one section of a resume and its skills",
	Long: `Extract the lines of a resume section. Use --section for a predefined
section (projects, internships) or --headers and --stops for a custom one.`,
	RunE: runSegment,
}

var (
	segmentText    string
	segmentFile    string
	segmentSection string
	segmentHeaders string
	segmentStops   string
)

type segmentOutput struct {
	Name    string         `json:"name,omitempty"`
	Section string         `json:"section"`
	Skills  types.SkillSet `json:"skills"`
}

func init() {
	segmentCmd.Flags().StringVarP(&segmentText, "text", "t", "", "Resume text")
	segmentCmd.Flags().StringVarP(&segmentFile, "file", "f", "", "Resume file (text, PDF or DOCX)")
	segmentCmd.Flags().StringVarP(&segmentSection, "section", "s", "", "Predefined section: projects or internships")
	segmentCmd.Flags().StringVar(&segmentHeaders, "headers", "", "Comma-separated header keywords")
	segmentCmd.Flags().StringVar(&segmentStops, "stops", "", "Comma-separated stop keywords")

	rootCmd.AddCommand(segmentCmd)
}

func segmentSpec() (sections.Spec, error) {
	switch segmentSection {
	case sections.ProjectsSpec.Name:
		return sections.ProjectsSpec, nil
	case sections.InternshipsSpec.Name:
		return sections.InternshipsSpec, nil
	case "":
		headers := splitList(segmentHeaders)
		if len(headers) == 0 {
			return sections.Spec{}, fmt.Errorf("either --section or --headers must be provided")
		}
		return sections.Spec{Headers: headers, Stops: splitList(segmentStops)}, nil
	default:
		return sections.Spec{}, fmt.Errorf("unknown section %q (want projects or internships)", segmentSection)
	}
}

func runSegment(cmd *cobra.Command, _ []string) error {
	spec, err := segmentSpec()
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	text, err := readInput(segmentText, segmentFile)
	if err != nil {
		return err
	}

	section := sections.KeywordSegmenter{}.Segment(ingestion.CleanText(text), spec)
	out := segmentOutput{Name: section.Name, Section: section.Text, Skills: types.NewSkillSet()}
	if section.Text != "" {
		ext, err := buildExtractor(cfg, false)
		if err != nil {
			return err
		}
		defer closeExtractor(ext)
		out.Skills = ext.Extract(cmd.Context(), ingestion.Normalize(section.Text))
	}
	return writeJSON(cmd.OutOrStdout(), "", out)
}
