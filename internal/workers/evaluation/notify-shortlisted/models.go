// internal/workers/evaluation/notify-shortlisted/models.go
package notifyshortlisted

type ShortlistedApplicant struct {
	ApplicationID  string  `json:"applicationId"`
	Name           string  `json:"name"`
	Email          string  `json:"email,omitempty"`
	Phone          string  `json:"phone,omitempty"`
	Region         string  `json:"region"`
	Rank           int     `json:"rank"`
	Tier           string  `json:"tier,omitempty"`
	CompositeScore float64 `json:"compositeScore"`
}

type Input struct {
	Cohort      string                 `json:"cohort"`
	Region      string                 `json:"region"`
	Shortlisted []ShortlistedApplicant `json:"shortlisted"`
}

type Output struct {
	EmailsSent int      `json:"emailsSent"`
	SMSSent    int      `json:"smsSent"`
	Skipped    int      `json:"skipped"`
	Failures   []string `json:"failures,omitempty"`
}
