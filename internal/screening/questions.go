package screening

import (
	"context"
	"fmt"
	"strings"

	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/ai"
	"go-interview-backend/pkg/logger"
)

// maxCodingTemplates is the number of deterministic coding problems.
const maxCodingTemplates = 2

// Draft is a generated question before it is bound to a session.
type Draft struct {
	Text              string
	FocusArea         string
	Difficulty        string
	ExpectedSkills    []string
	InputOutputFormat string
}

// Generated is the output of one question chain run.
type Generated struct {
	Drafts         []Draft
	Source         domain.GenerationSource
	Model          string
	DetectedSkills []string
	FallbackReason string
}

// QuestionGenerator builds oral and coding questions through their chains.
type QuestionGenerator struct {
	completer ai.Completer
	oral      Chain[Input, []Draft]
	coding    Chain[Input, []Draft]
}

func NewQuestionGenerator(c ai.Completer) *QuestionGenerator {
	g := &QuestionGenerator{completer: c}
	g.oral = Chain[Input, []Draft]{
		{Name: string(domain.SourceAI), Run: g.oralFromAI},
		{Name: string(domain.SourceKeywordFallback), Run: oralFromKeywords},
		{Name: string(domain.SourceStaticFallback), Run: oralFromRole},
	}
	g.coding = Chain[Input, []Draft]{
		{Name: string(domain.SourceAI), Run: g.codingFromAI},
		{Name: string(domain.SourceKeywordFallback), Run: codingFromTemplates},
	}
	return g
}

// Oral returns personalised oral questions. Fallback stages always return
// exactly in.Count drafts.
func (g *QuestionGenerator) Oral(ctx context.Context, in Input) Generated {
	return g.run(ctx, g.oral, in, "oral")
}

// Coding returns coding problems; the deterministic stage is capped at two.
func (g *QuestionGenerator) Coding(ctx context.Context, in Input) Generated {
	return g.run(ctx, g.coding, in, "coding")
}

func (g *QuestionGenerator) run(ctx context.Context, chain Chain[Input, []Draft], in Input, kind string) Generated {
	out := Generated{DetectedSkills: DetectSkills(in.ResumeText)}
	if in.Count <= 0 {
		out.Source = domain.SourceStaticFallback
		out.FallbackReason = "no questions requested"
		return out
	}

	drafts, outcome, err := chain.Run(ctx, in)
	if err != nil {
		// the last stage of both chains cannot fail
		logger.Log.Error("Question generation failed", "kind", kind, "error", err)
		return out
	}
	out.Drafts = drafts
	out.Source = domain.GenerationSource(outcome.Stage)
	out.FallbackReason = outcome.Reason()
	if out.Source == domain.SourceAI {
		out.Model = g.completer.Model()
	} else if g.completer.Enabled() {
		logger.Log.Warn("Question generation fell back", "kind", kind, "stage", outcome.Stage, "reason", out.FallbackReason)
	}
	return out
}

func (g *QuestionGenerator) oralFromAI(ctx context.Context, in Input) ([]Draft, error) {
	if !g.completer.Enabled() {
		return nil, ai.ErrDisabled
	}
	raw, err := g.completer.Complete(ctx, oralPrompt(in))
	if err != nil {
		return nil, err
	}
	var items []oralItem
	if err := decodeContract(raw, oralContract, &items); err != nil {
		return nil, err
	}
	if len(items) > in.Count {
		items = items[:in.Count]
	}
	drafts := make([]Draft, 0, len(items))
	for _, it := range items {
		drafts = append(drafts, Draft{
			Text:           strings.TrimSpace(it.Question),
			FocusArea:      truncateRunes(it.FocusArea, maxFocusAreaLen),
			Difficulty:     normalizeDifficulty(it.Difficulty),
			ExpectedSkills: []string(it.ExpectedSkills),
		})
	}
	return drafts, nil
}

func (g *QuestionGenerator) codingFromAI(ctx context.Context, in Input) ([]Draft, error) {
	if !g.completer.Enabled() {
		return nil, ai.ErrDisabled
	}
	raw, err := g.completer.Complete(ctx, codingPrompt(in))
	if err != nil {
		return nil, err
	}
	var items []codingItem
	if err := decodeContract(raw, codingContract, &items); err != nil {
		return nil, err
	}
	if len(items) > in.Count {
		items = items[:in.Count]
	}
	drafts := make([]Draft, 0, len(items))
	for _, it := range items {
		drafts = append(drafts, Draft{
			Text:              strings.TrimSpace(it.Problem),
			FocusArea:         truncateRunes(it.FocusArea, maxFocusAreaLen),
			Difficulty:        normalizeDifficulty(it.Difficulty),
			ExpectedSkills:    []string(it.ExpectedSkills),
			InputOutputFormat: it.InputOutputFormat,
		})
	}
	return drafts, nil
}

// oralFromKeywords applies when the resume mentions a known skill or the job
// lists required skills.
func oralFromKeywords(_ context.Context, in Input) ([]Draft, error) {
	detected := DetectSkills(in.ResumeText)
	required := strings.TrimSpace(in.RequiredSkills)
	if len(detected) == 0 && required == "" {
		return nil, ErrNotApplicable
	}

	skillStr := required
	expected := []string{required}
	primary := "your core skills"
	if len(detected) > 0 {
		top := firstN(detected, 3)
		skillStr = strings.Join(top, ", ")
		expected = top
		primary = detected[0]
	}

	templates := []Draft{
		{
			Text:       fmt.Sprintf("Hello %s, I noticed you have experience with %s. Can you walk me through a challenging project where you used these technologies and the impact it had?", in.CandidateName, skillStr),
			FocusArea:  "Project Experience",
			Difficulty: "Medium",
		},
		{
			Text:       fmt.Sprintf("Based on your resume, what was the most complex technical problem you solved using %s, and how did you approach it?", primary),
			FocusArea:  "Problem Solving",
			Difficulty: "Medium",
		},
		{
			Text:       fmt.Sprintf("How would you design a scalable solution using %s for a high-traffic application? Walk me through your architecture decisions.", skillStr),
			FocusArea:  "System Design",
			Difficulty: "Hard",
		},
		{
			Text:       fmt.Sprintf("Tell me about a time when you had to learn a new technology quickly. How did you approach it, and how does that relate to your experience with %s?", skillStr),
			FocusArea:  "Learning Agility",
			Difficulty: "Easy",
		},
		{
			Text:       fmt.Sprintf("Looking at your background with %s, how would you optimize the performance of a slow-running application in a production environment?", skillStr),
			FocusArea:  "Performance Optimization",
			Difficulty: "Hard",
		},
	}

	drafts := make([]Draft, 0, in.Count)
	for i := 0; i < in.Count; i++ {
		var d Draft
		if i < len(templates) {
			d = templates[i]
		} else {
			d = Draft{
				Text:       fmt.Sprintf("Can you describe how your experience with %s prepares you for the challenges in this role?", skillStr),
				FocusArea:  "Role Fit",
				Difficulty: "Medium",
			}
		}
		d.ExpectedSkills = append([]string(nil), expected...)
		drafts = append(drafts, d)
	}
	return drafts, nil
}

// oralFromRole always applies.
func oralFromRole(_ context.Context, in Input) ([]Draft, error) {
	drafts := make([]Draft, in.Count)
	for i := range drafts {
		drafts[i] = Draft{
			Text:           fmt.Sprintf("Regarding the %s role, how do your previous experiences prepare you for its key responsibilities?", in.JobTitle),
			FocusArea:      "Role Fit",
			Difficulty:     "Medium",
			ExpectedSkills: []string{"Core Competencies"},
		}
	}
	return drafts, nil
}

// codingFromTemplates always applies and returns at most two problems in the
// first language the resume mentions.
func codingFromTemplates(_ context.Context, in Input) ([]Draft, error) {
	lang := detectLanguage(in.ResumeText)
	drafts := []Draft{
		{
			Text:              fmt.Sprintf("Design and implement a REST API endpoint that handles user authentication. The solution should include input validation, error handling, and return appropriate HTTP status codes. Use %s and demonstrate best practices for API design.", lang),
			ExpectedSkills:    []string{lang, "API Design", "Authentication"},
			InputOutputFormat: "Input: User credentials (username, password). Output: JWT token or error message. Example: POST /api/auth/login with JSON body.",
			Difficulty:        "Medium",
			FocusArea:         "API Development",
		},
		{
			Text:              fmt.Sprintf("Implement a function that processes a large dataset efficiently. Given a list of user transactions, find the top 10 users by total transaction amount. Optimize for both time and space complexity. Implement in %s.", lang),
			ExpectedSkills:    []string{lang, "Data Structures", "Algorithms"},
			InputOutputFormat: "Input: List of transactions [{user_id, amount}]. Output: List of top 10 users with total amounts. Example: [{user_id: 1, total: 5000}]",
			Difficulty:        "Medium",
			FocusArea:         "Data Processing",
		},
	}
	return drafts[:min(in.Count, maxCodingTemplates)], nil
}
