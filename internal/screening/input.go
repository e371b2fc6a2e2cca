package screening

import "go-interview-backend/internal/domain"

// Input is everything a generator may draw on for one candidate.
type Input struct {
	CandidateName   string
	CandidateEmail  string
	JobTitle        string
	JobDescription  string
	RequiredSkills  string
	ExperienceLevel string
	ResumeText      string
	Count           int
}

// NewInput builds an Input from the persisted entities.
func NewInput(c *domain.Candidate, j *domain.Job, resumeText string, count int) Input {
	return Input{
		CandidateName:   c.Name,
		CandidateEmail:  c.Email,
		JobTitle:        j.Title,
		JobDescription:  j.Description,
		RequiredSkills:  j.RequiredSkills,
		ExperienceLevel: j.ExperienceLevel,
		ResumeText:      resumeText,
		Count:           count,
	}
}
