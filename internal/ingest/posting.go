package ingest

// Posting is one raw scraped job posting as delivered by a scraper. The
// salary field is free-form text exactly as it appeared on the source
// page; normalization happens when the worker stores the record.
type Posting struct {
	Company        string `json:"company"`
	Role           string `json:"role"`
	TechStack      string `json:"tech_stack"`
	JobType        string `json:"job_type"`
	Salary         string `json:"salary"`
	Location       string `json:"location"`
	Description    string `json:"description"`
	SourcePlatform string `json:"source_platform"`
	SourceURL      string `json:"source_url"`
}
