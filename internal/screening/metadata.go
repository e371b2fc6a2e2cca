package screening

import (
	"context"

	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/ai"
	"go-interview-backend/pkg/logger"
)

const (
	maxTopSkills = 5
	notProvided  = "Not Provided"
	unknown      = "Unknown"
)

// MetadataExtractor produces the structured resume record: AI first, then
// the keyword and regex heuristic.
type MetadataExtractor struct {
	completer ai.Completer
	chain     Chain[Input, domain.ResumeMetadata]
}

func NewMetadataExtractor(c ai.Completer) *MetadataExtractor {
	e := &MetadataExtractor{completer: c}
	e.chain = Chain[Input, domain.ResumeMetadata]{
		{Name: string(domain.ExtractionAI), Run: e.fromAI},
		{Name: string(domain.ExtractionHeuristic), Run: e.fromHeuristic},
	}
	return e
}

// Extract never fails; the heuristic stage always answers.
func (e *MetadataExtractor) Extract(ctx context.Context, in Input) domain.ResumeMetadata {
	md, outcome, err := e.chain.Run(ctx, in)
	if err != nil {
		// unreachable while the heuristic stage is last
		md, _ = e.fromHeuristic(ctx, in)
	}
	if outcome.Stage != string(domain.ExtractionAI) {
		md.Provenance.Reason = outcome.Reason()
		if e.completer.Enabled() {
			logger.Log.Warn("Metadata extraction fell back to heuristic", "reason", md.Provenance.Reason)
		}
	}
	return md
}

func (e *MetadataExtractor) fromAI(ctx context.Context, in Input) (domain.ResumeMetadata, error) {
	if !e.completer.Enabled() {
		return domain.ResumeMetadata{}, ai.ErrDisabled
	}
	raw, err := e.completer.Complete(ctx, metadataPrompt(in.ResumeText))
	if err != nil {
		return domain.ResumeMetadata{}, err
	}
	var doc metadataDoc
	if err := decodeContract(raw, metadataContract, &doc); err != nil {
		return domain.ResumeMetadata{}, err
	}

	md := domain.ResumeMetadata{
		FullName:        orDefault(doc.FullName, notProvided),
		Email:           orDefault(doc.Email, notProvided),
		TopSkills:       firstN(doc.TopSkills, maxTopSkills),
		ExperienceYears: max(int(doc.ExperienceYears), 0),
		Summary:         orDefault(doc.Summary, notProvided),
		Education:       orDefault(doc.Education, notProvided),
		Provenance: domain.ExtractionProvenance{
			Source: domain.ExtractionAI,
			Model:  e.completer.Model(),
		},
	}
	if md.TopSkills == nil {
		md.TopSkills = []string{}
	}
	return md, nil
}

func (e *MetadataExtractor) fromHeuristic(_ context.Context, in Input) (domain.ResumeMetadata, error) {
	email := in.CandidateEmail
	if email == "" {
		email = unknown
		if m := emailRe.FindString(in.ResumeText); m != "" {
			email = m
		}
	}
	skills := firstN(detectKeywords(in.ResumeText, metadataKeywords), maxTopSkills)
	if skills == nil {
		skills = []string{}
	}
	return domain.ResumeMetadata{
		FullName:        orDefault(in.CandidateName, unknown),
		Email:           email,
		TopSkills:       skills,
		ExperienceYears: detectExperienceYears(in.ResumeText),
		Summary:         "Auto-generated summary from raw text.",
		Education:       notProvided,
		Provenance:      domain.ExtractionProvenance{Source: domain.ExtractionHeuristic},
	}, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
