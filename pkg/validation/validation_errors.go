package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to labels shown to HR users.
var FieldLabels = map[string]string{
	"Title":               "Job title",
	"Description":         "Job description",
	"RequiredSkills":      "Required skills",
	"ExperienceLevel":     "Experience level",
	"OralQuestionCount":   "Oral question count",
	"CodingQuestionCount": "Coding question count",
	"ThinkingTime":        "Thinking time",
	"RecordingTime":       "Recording time",
	"CodingTime":          "Coding time",
	"Name":                "Candidate name",
	"Email":               "Email",
	"ResumeURL":           "Resume URL",
	"Username":            "Username",
	"Password":            "Password",
	"EventType":           "Event type",
	"Details":             "Details",
}

// FormatValidationErrors converts validator.ValidationErrors to readable messages.
func FormatValidationErrors(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	messages := make([]string, 0, len(verrs))
	for _, e := range verrs {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s: is required", label)
	case "min", "gte":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s: must be at least %s", label, param)
	case "max", "lte":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: must be at most %s characters", label, param)
		}
		return fmt.Sprintf("%s: must be at most %s", label, param)
	case "oneof":
		return fmt.Sprintf("%s: must be one of: %s", label, strings.ReplaceAll(param, " ", ", "))
	case "email":
		return fmt.Sprintf("%s: invalid email format", label)
	case "url":
		return fmt.Sprintf("%s: invalid URL format", label)
	case "valid_name":
		return fmt.Sprintf("%s: only letters, digits, spaces and . ' - / & ( ) , are allowed", label)
	case "no_emoji":
		return fmt.Sprintf("%s: must not contain emoji or special symbols", label)
	case "skill_list":
		return fmt.Sprintf("%s: must be a comma separated list of at most %d skills", label, maxSkills)
	}
	return fmt.Sprintf("%s: failed validation (%s)", label, e.Tag())
}

func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
