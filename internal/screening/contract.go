package screening

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"go-interview-backend/pkg/ai"
)

const oralSchema = `{
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "required": ["question"],
    "properties": {
      "question": {"type": "string", "pattern": "\\S"},
      "focus_area": {"type": "string"},
      "difficulty": {"type": "string"},
      "expected_skills": {"type": ["string", "array"], "items": {"type": "string"}}
    }
  }
}`

const codingSchema = `{
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "required": ["problem"],
    "properties": {
      "problem": {"type": "string", "pattern": "\\S"},
      "expected_skills": {"type": ["string", "array"], "items": {"type": "string"}},
      "input_output_format": {"type": "string"},
      "difficulty": {"type": "string"},
      "focus_area": {"type": "string"}
    }
  }
}`

const metadataSchema = `{
  "type": "object",
  "properties": {
    "full_name": {"type": "string"},
    "email": {"type": "string"},
    "top_skills": {"type": "array", "items": {"type": "string"}},
    "experience_years": {"type": ["integer", "number", "string"]},
    "summary": {"type": "string"},
    "education": {"type": "string"}
  }
}`

var (
	oralContract     = mustSchema(oralSchema)
	codingContract   = mustSchema(codingSchema)
	metadataContract = mustSchema(metadataSchema)
)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("screening: invalid schema: %v", err))
	}
	return s
}

// decodeContract pulls the JSON document out of a raw completion, validates
// it against schema and unmarshals it into v.
func decodeContract(raw string, schema *gojsonschema.Schema, v any) error {
	doc := ai.ExtractJSON(raw)
	if doc == "" {
		return fmt.Errorf("empty completion")
	}
	res, err := schema.Validate(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return fmt.Errorf("malformed JSON: %w", err)
	}
	if !res.Valid() {
		msgs := make([]string, 0, len(res.Errors()))
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("contract violation: %s", strings.Join(msgs, ", "))
	}
	return json.Unmarshal([]byte(doc), v)
}

// skillList accepts either a JSON list of strings or a comma separated string.
type skillList []string

func (s *skillList) UnmarshalJSON(b []byte) error {
	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*s = cleanList(list)
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	*s = cleanList(strings.Split(str, ","))
	return nil
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// flexInt accepts 5, 5.0, "5" or "3-5 years" (highest number wins).
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*f = flexInt(n)
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	best := 0
	for _, m := range digitsRe.FindAllString(str, -1) {
		if v, err := strconv.Atoi(m); err == nil && v > best {
			best = v
		}
	}
	*f = flexInt(best)
	return nil
}

type oralItem struct {
	Question       string    `json:"question"`
	FocusArea      string    `json:"focus_area"`
	Difficulty     string    `json:"difficulty"`
	ExpectedSkills skillList `json:"expected_skills"`
}

type codingItem struct {
	Problem           string    `json:"problem"`
	ExpectedSkills    skillList `json:"expected_skills"`
	InputOutputFormat string    `json:"input_output_format"`
	Difficulty        string    `json:"difficulty"`
	FocusArea         string    `json:"focus_area"`
}

// maxFocusAreaLen matches the questions.focus_area column.
const maxFocusAreaLen = 255

// normalizeDifficulty maps free-form difficulty labels onto Easy, Medium or
// Hard. The hardest level named wins, so "Intermediate to Advanced" is Hard.
func normalizeDifficulty(s string) string {
	l := strings.ToLower(s)
	switch {
	case strings.Contains(l, "hard"), strings.Contains(l, "advanced"), strings.Contains(l, "expert"), strings.Contains(l, "senior"):
		return "Hard"
	case strings.Contains(l, "medium"), strings.Contains(l, "intermediate"), strings.Contains(l, "moderate"), strings.Contains(l, "mid"):
		return "Medium"
	case strings.Contains(l, "easy"), strings.Contains(l, "beginner"), strings.Contains(l, "basic"), strings.Contains(l, "junior"):
		return "Easy"
	}
	return "Medium"
}

// truncateRunes cuts s to at most n runes.
func truncateRunes(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}

type metadataDoc struct {
	FullName        string    `json:"full_name"`
	Email           string    `json:"email"`
	TopSkills       skillList `json:"top_skills"`
	ExperienceYears flexInt   `json:"experience_years"`
	Summary         string    `json:"summary"`
	Education       string    `json:"education"`
}
