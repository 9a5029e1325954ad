package types

// Contact holds contact details found in a resume.
type Contact struct {
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// IsEmpty reports whether no contact field was found.
func (c *Contact) IsEmpty() bool {
	return c == nil || (c.Email == "" && c.Phone == "")
}

// Section is a named span of resume text.
type Section struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// SectionSkills is a section together with the skills extracted from it.
type SectionSkills struct {
	Section
	Skills SkillSet `json:"skills"`
}

// ExtractedDocument is the result of ingesting one resume or job posting.
// It is built once and not modified afterwards.
type ExtractedDocument struct {
	RawText        string          `json:"raw_text"`
	NormalizedText string          `json:"normalized_text"`
	Skills         SkillSet        `json:"skills"`
	Contact        *Contact        `json:"contact,omitempty"`
	Sections       []SectionSkills `json:"sections,omitempty"`
}

// Section returns the named section, or nil if it was not extracted.
func (d *ExtractedDocument) Section(name string) *SectionSkills {
	for i := range d.Sections {
		if d.Sections[i].Name == name {
			return &d.Sections[i]
		}
	}
	return nil
}
