package types

// JobRecord is an external job posting with arbitrary field names, as returned
// by scrapers and job boards.
type JobRecord map[string]any

// NormalizedJob is the canonical shape of a job record. Company, Location and
// URL are carried through for presentation only.
type NormalizedJob struct {
	Title    string   `json:"title"`
	Text     string   `json:"text"`
	Skills   SkillSet `json:"skills"`
	Company  string   `json:"company,omitempty"`
	Location string   `json:"location,omitempty"`
	URL      string   `json:"url,omitempty"`
}
