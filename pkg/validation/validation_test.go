package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name           string `validate:"required,valid_name"`
	RequiredSkills string `validate:"skill_list"`
	Title          string `validate:"no_emoji"`
}

func TestCustomValidators(t *testing.T) {
	v := validator.New()
	RegisterValidators(v)

	assert.NoError(t, v.Struct(sample{Name: "Mary-Jane O'Neil", RequiredSkills: "Go, SQL, AWS", Title: "Backend"}))

	err := v.Struct(sample{Name: "Bob <script>", RequiredSkills: "Go,,SQL", Title: "Dev 🚀"})
	msgs := FormatValidationErrors(err)
	assert.Len(t, msgs, 3)
	assert.Contains(t, msgs[0], "Candidate name")
	assert.Contains(t, msgs[1], "Required skills")
}

func TestFormatNonValidationError(t *testing.T) {
	assert.Equal(t, []string{assert.AnError.Error()}, FormatValidationErrors(assert.AnError))
}
