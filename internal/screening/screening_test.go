package screening

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-interview-backend/internal/domain"
	"go-interview-backend/pkg/ai"
)

type MockCompleter struct {
	mock.Mock
}

func (m *MockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockCompleter) Model() string { return "test-model" }
func (m *MockCompleter) Enabled() bool { return true }
func (m *MockCompleter) Close() error  { return nil }

func baseInput(count int) Input {
	return Input{
		CandidateName:   "Ada",
		CandidateEmail:  "ada@example.com",
		JobTitle:        "Backend Engineer",
		JobDescription:  "Build APIs",
		RequiredSkills:  "Go, SQL",
		ExperienceLevel: "Senior",
		ResumeText:      "Worked with Python and Docker on AWS.",
		Count:           count,
	}
}

func TestOralFromAI(t *testing.T) {
	t.Run("fenced response truncated to requested count", func(t *testing.T) {
		c := new(MockCompleter)
		c.On("Complete", mock.Anything, mock.Anything).Return("```json\n"+
			`[{"question":"Q1","focus_area":"F","difficulty":"Hard","expected_skills":["Go"]},`+
			`{"question":"Q2","expected_skills":"SQL, Redis"},`+
			`{"question":"Q3"}]`+"\n```", nil)

		got := NewQuestionGenerator(c).Oral(context.Background(), baseInput(2))

		assert.Equal(t, domain.SourceAI, got.Source)
		assert.Equal(t, "test-model", got.Model)
		require.Len(t, got.Drafts, 2)
		assert.Equal(t, "Q1", got.Drafts[0].Text)
		assert.Equal(t, []string{"SQL", "Redis"}, got.Drafts[1].ExpectedSkills)
		assert.Empty(t, got.FallbackReason)
	})

	t.Run("fewer items are used as returned", func(t *testing.T) {
		c := new(MockCompleter)
		c.On("Complete", mock.Anything, mock.Anything).Return(`[{"question":"only one"}]`, nil)

		got := NewQuestionGenerator(c).Oral(context.Background(), baseInput(4))

		assert.Equal(t, domain.SourceAI, got.Source)
		assert.Len(t, got.Drafts, 1)
	})
}

func TestOralFallsBackToKeywords(t *testing.T) {
	responses := map[string]struct {
		raw string
		err error
	}{
		"service error":  {"", errors.New("quota exceeded")},
		"malformed":      {"Sure! Here are your questions:", nil},
		"not a list":     {`{"question":"Q"}`, nil},
		"empty list":     {`[]`, nil},
		"blank question": {`[{"question":"  \n "}]`, nil},
	}
	for name, r := range responses {
		t.Run(name, func(t *testing.T) {
			c := new(MockCompleter)
			c.On("Complete", mock.Anything, mock.Anything).Return(r.raw, r.err)

			got := NewQuestionGenerator(c).Oral(context.Background(), baseInput(7))

			assert.Equal(t, domain.SourceKeywordFallback, got.Source)
			require.Len(t, got.Drafts, 7)
			assert.Contains(t, got.Drafts[0].Text, "Hello Ada")
			assert.Contains(t, got.Drafts[0].Text, "Python, AWS, Docker")
			assert.Equal(t, "Role Fit", got.Drafts[5].FocusArea)
			assert.Equal(t, "Role Fit", got.Drafts[6].FocusArea)
			assert.Equal(t, []string{"Python", "AWS", "Docker"}, got.Drafts[3].ExpectedSkills)
			assert.Contains(t, got.FallbackReason, "ai:")
		})
	}
}

func TestOralKeywordStageUsesRequiredSkills(t *testing.T) {
	in := baseInput(2)
	in.ResumeText = "No resume provided. Questions generated based on Job Description only."

	got := NewQuestionGenerator(ai.Disabled()).Oral(context.Background(), in)

	assert.Equal(t, domain.SourceKeywordFallback, got.Source)
	require.Len(t, got.Drafts, 2)
	assert.Contains(t, got.Drafts[0].Text, "Go, SQL")
	assert.Contains(t, got.Drafts[1].Text, "your core skills")
	assert.Equal(t, []string{"Go, SQL"}, got.Drafts[0].ExpectedSkills)
}

func TestOralStaticStage(t *testing.T) {
	in := baseInput(3)
	in.ResumeText = "Nothing relevant here."
	in.RequiredSkills = "  "

	got := NewQuestionGenerator(ai.Disabled()).Oral(context.Background(), in)

	assert.Equal(t, domain.SourceStaticFallback, got.Source)
	require.Len(t, got.Drafts, 3)
	for _, d := range got.Drafts {
		assert.Equal(t, "Regarding the Backend Engineer role, how do your previous experiences prepare you for its key responsibilities?", d.Text)
		assert.Equal(t, []string{"Core Competencies"}, d.ExpectedSkills)
	}
	assert.Contains(t, got.FallbackReason, "keyword_fallback: stage not applicable")
}

func TestCodingFallback(t *testing.T) {
	in := baseInput(5)
	in.ResumeText = "Ten years of Ruby on Rails"

	got := NewQuestionGenerator(ai.Disabled()).Coding(context.Background(), in)

	assert.Equal(t, domain.SourceKeywordFallback, got.Source)
	require.Len(t, got.Drafts, 2)
	assert.Equal(t, "API Development", got.Drafts[0].FocusArea)
	assert.Equal(t, []string{"Ruby", "Data Structures", "Algorithms"}, got.Drafts[1].ExpectedSkills)

	in.Count = 1
	in.ResumeText = "plain text"
	got = NewQuestionGenerator(ai.Disabled()).Coding(context.Background(), in)
	require.Len(t, got.Drafts, 1)
	assert.Contains(t, got.Drafts[0].Text, "Use Python")
}

func TestCodingFromAI(t *testing.T) {
	c := new(MockCompleter)
	c.On("Complete", mock.Anything, mock.Anything).Return(`[{"problem":"Build a rate limiter","expected_skills":["Go"],"input_output_format":"Input: n","difficulty":"Hard","focus_area":"Concurrency"}]`, nil)

	got := NewQuestionGenerator(c).Coding(context.Background(), baseInput(2))

	assert.Equal(t, domain.SourceAI, got.Source)
	require.Len(t, got.Drafts, 1)
	assert.Equal(t, "Input: n", got.Drafts[0].InputOutputFormat)
}

func TestOralFromAINormalizesDraftFields(t *testing.T) {
	c := new(MockCompleter)
	long := strings.Repeat("x", 300)
	c.On("Complete", mock.Anything, mock.Anything).Return("Here are the questions:\n```json\n"+
		`[{"question":"Q1","difficulty":"Intermediate to Advanced","focus_area":"`+long+`"},`+
		`{"question":"Q2","difficulty":"beginner friendly"},`+
		`{"question":"Q3"}]`+"\n```", nil)

	got := NewQuestionGenerator(c).Oral(context.Background(), baseInput(3))

	assert.Equal(t, domain.SourceAI, got.Source)
	require.Len(t, got.Drafts, 3)
	assert.Equal(t, "Hard", got.Drafts[0].Difficulty)
	assert.Len(t, got.Drafts[0].FocusArea, 255)
	assert.Equal(t, "Easy", got.Drafts[1].Difficulty)
	assert.Equal(t, "Medium", got.Drafts[2].Difficulty)
}

func TestCodingBlankProblemFallsBack(t *testing.T) {
	c := new(MockCompleter)
	c.On("Complete", mock.Anything, mock.Anything).Return(`[{"problem":"\t "}]`, nil)

	got := NewQuestionGenerator(c).Coding(context.Background(), baseInput(1))

	assert.Equal(t, domain.SourceKeywordFallback, got.Source)
	require.Len(t, got.Drafts, 1)
	assert.NotEmpty(t, strings.TrimSpace(got.Drafts[0].Text))
}

func TestNormalizeDifficulty(t *testing.T) {
	cases := map[string]string{
		"Hard":                     "Hard",
		"Intermediate to Advanced": "Hard",
		"intermediate":             "Medium",
		"Easy":                     "Easy",
		"":                         "Medium",
		"unknown label":            "Medium",
	}
	for in, want := range cases {
		assert.Equal(t, want, normalizeDifficulty(in), in)
	}
}

func TestZeroCountGeneratesNothing(t *testing.T) {
	c := new(MockCompleter)
	got := NewQuestionGenerator(c).Oral(context.Background(), baseInput(0))
	assert.Empty(t, got.Drafts)
	c.AssertNotCalled(t, "Complete", mock.Anything, mock.Anything)
}

func TestMetadataHeuristic(t *testing.T) {
	in := baseInput(0)
	in.ResumeText = "Engineer with 5 years of experience in Python, SQL, Excel, AWS, Docker and Django."

	md := NewMetadataExtractor(ai.Disabled()).Extract(context.Background(), in)

	assert.Equal(t, domain.ExtractionHeuristic, md.Provenance.Source)
	assert.Equal(t, 5, md.ExperienceYears)
	assert.Contains(t, md.TopSkills, "Python")
	assert.Len(t, md.TopSkills, 5)
	assert.Equal(t, "Ada", md.FullName)
	assert.Equal(t, "ada@example.com", md.Email)
	assert.Equal(t, "Not Provided", md.Education)
	assert.NotEmpty(t, md.Provenance.Reason)
}

func TestMetadataHeuristicEmailAndYears(t *testing.T) {
	in := Input{ResumeText: "contact: jo@mail.dev, 10+ yrs exp"}
	md := NewMetadataExtractor(ai.Disabled()).Extract(context.Background(), in)
	assert.Equal(t, "Unknown", md.FullName)
	assert.Equal(t, "jo@mail.dev", md.Email)
	assert.Equal(t, 10, md.ExperienceYears)
	assert.Empty(t, md.TopSkills)

	in.ResumeText = "no dates anywhere"
	md = NewMetadataExtractor(ai.Disabled()).Extract(context.Background(), in)
	assert.Equal(t, 0, md.ExperienceYears)
	assert.Equal(t, "Unknown", md.Email)
}

func TestDetectExperienceYearsOverflow(t *testing.T) {
	assert.Equal(t, 1, detectExperienceYears("99999999999999999999 years experience"))
}

func TestMetadataFromAI(t *testing.T) {
	c := new(MockCompleter)
	c.On("Complete", mock.Anything, mock.Anything).Return("```json\n"+
		`{"full_name":"Ada L","email":"ada@l.dev","top_skills":["a","b","c","d","e","f"],"experience_years":"3-5 years","summary":"s"}`+"\n```", nil)

	md := NewMetadataExtractor(c).Extract(context.Background(), baseInput(0))

	assert.Equal(t, domain.ExtractionAI, md.Provenance.Source)
	assert.Equal(t, "test-model", md.Provenance.Model)
	assert.Equal(t, 5, md.ExperienceYears)
	assert.Len(t, md.TopSkills, 5)
	assert.Equal(t, "Not Provided", md.Education)
}

func TestMetadataFromAIMalformedFallsBack(t *testing.T) {
	c := new(MockCompleter)
	c.On("Complete", mock.Anything, mock.Anything).Return(`["not","an","object"]`, nil)

	in := baseInput(0)
	in.ResumeText = "5 years of experience with Python"
	md := NewMetadataExtractor(c).Extract(context.Background(), in)

	assert.Equal(t, domain.ExtractionHeuristic, md.Provenance.Source)
	assert.Equal(t, 5, md.ExperienceYears)
	assert.Equal(t, []string{"Python"}, md.TopSkills)
}
