package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFile(t *testing.T) {
	pdf := append([]byte("%PDF-1.7\n"), make([]byte, 32)...)
	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 'I', 'H', 'D', 'R'}

	cases := []struct {
		name  string
		kind  FileKind
		file  string
		data  []byte
		valid bool
	}{
		{"pdf resume", KindResume, "cv.PDF", pdf, true},
		{"text resume", KindResume, "cv.txt", []byte("Jane Doe, 5 years of experience"), true},
		{"spoofed pdf", KindResume, "cv.pdf", []byte("MZ\x90\x00 not a pdf"), false},
		{"image as resume", KindResume, "cv.png", png, false},
		{"no extension", KindResume, "resume", pdf, false},
		{"png snapshot", KindSnapshot, "frame.png", png, true},
		{"pdf as snapshot", KindSnapshot, "frame.pdf", pdf, false},
		{"webm recording", KindRecording, "answer.webm", []byte{0x1A, 0x45, 0xDF, 0xA3, 0x9F, 0x42, 0x86, 0x81}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := ValidateFile(tc.kind, tc.file, tc.data)
			assert.Equal(t, tc.valid, res.Valid, res.Error)
		})
	}
}

func TestValidateFileExtension(t *testing.T) {
	assert.NoError(t, ValidateFileExtension(KindResume, "a.docx"))
	assert.Error(t, ValidateFileExtension(KindResume, "a.exe"))
	assert.Error(t, ValidateFileExtension(KindSnapshot, "a"))
}
