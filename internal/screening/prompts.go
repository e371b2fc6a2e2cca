package screening

import (
	"fmt"
	"strings"
)

func oralPrompt(in Input) string {
	var b strings.Builder
	b.WriteString("You are an expert technical interviewer conducting a personalized interview.\n\n")
	fmt.Fprintf(&b, "CANDIDATE INFORMATION:\nName: %s\nExperience Level Expected: %s\n\n", in.CandidateName, in.ExperienceLevel)
	fmt.Fprintf(&b, "JOB TITLE:\n%s\n\nJOB DESCRIPTION:\n%s\n\n", in.JobTitle, in.JobDescription)
	fmt.Fprintf(&b, "REQUIRED SKILLS FOR THIS ROLE:\n%s\n\n", in.RequiredSkills)
	fmt.Fprintf(&b, "CANDIDATE'S RESUME:\n%s\n\n", in.ResumeText)
	fmt.Fprintf(&b, "TASK:\nGenerate exactly %d personalized, open-ended oral interview questions that:\n", in.Count)
	b.WriteString(`1. Reference specific projects, technologies or achievements from the resume.
2. Test the required skills the candidate claims to have.
3. Match the expected experience level.
4. Cannot be answered with yes or no.
5. Progressively test deeper understanding, including scenario-based questions for the role.

OUTPUT FORMAT:
Return a JSON array in this format:
[
  {
    "question": "Based on your work with ... how would you ...",
    "focus_area": "Technology or skill being tested",
    "difficulty": "Easy|Medium|Hard",
    "expected_skills": ["skill1", "skill2"]
  }
]

Return ONLY the JSON array. No markdown, no explanations, no code blocks.`)
	return b.String()
}

func codingPrompt(in Input) string {
	var b strings.Builder
	b.WriteString("You are an expert technical interviewer creating coding challenges.\n\n")
	fmt.Fprintf(&b, "JOB TITLE:\n%s\n\nJOB DESCRIPTION:\n%s\n\n", in.JobTitle, in.JobDescription)
	fmt.Fprintf(&b, "REQUIRED SKILLS:\n%s\n\nEXPERIENCE LEVEL: %s\n\n", in.RequiredSkills, in.ExperienceLevel)
	fmt.Fprintf(&b, "CANDIDATE'S RESUME (for context on their background):\n%s\n\n", in.ResumeText)
	fmt.Fprintf(&b, "TASK:\nGenerate exactly %d coding problem(s) that:\n", in.Count)
	b.WriteString(`1. Use the languages and technologies named in the job description.
2. Reflect real challenges of this role rather than generic puzzles.
3. Are solvable in 30 to 60 minutes at the stated experience level.
4. Have clear input and output specifications.

OUTPUT FORMAT:
Return a JSON array in this format:
[
  {
    "problem": "Detailed problem statement with context",
    "expected_skills": ["skill1", "skill2"],
    "input_output_format": "Input: ... Output: ... Example: ...",
    "difficulty": "Easy|Medium|Hard",
    "focus_area": "API Design, Data Structures, ..."
  }
]

Return ONLY the JSON array. No markdown, no explanations, no code blocks.`)
	return b.String()
}

func metadataPrompt(resumeText string) string {
	return `Act as a professional HR data parser. The text below was extracted from a candidate's resume (PDF, document or spreadsheet).

Extract the following fields into a single JSON object:
- If a field is missing use "Not Provided".
- "top_skills" lists the 5 most relevant technical skills.
- "experience_years" is a single integer; for a range take the highest number.

JSON shape:
{
  "full_name": "string",
  "email": "string",
  "top_skills": ["skill1", "skill2"],
  "experience_years": 0,
  "summary": "A 2-sentence professional overview",
  "education": "Highest degree and institution"
}

Raw resume text:
---
` + resumeText + `
---

Return ONLY the JSON object. Do not include any introductory text or markdown code blocks.`
}
