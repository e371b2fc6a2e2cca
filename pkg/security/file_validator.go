package security

import (
	"bytes"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
)

// FileKind selects the whitelist a file is validated against.
type FileKind int

const (
	KindResume    FileKind = iota // pdf, doc, docx, txt
	KindSnapshot                  // proctoring webcam frames
	KindRecording                 // oral answer recordings
)

// FileValidationResult contains the result of file validation
type FileValidationResult struct {
	Valid        bool
	Extension    string
	DetectedMIME string
	Error        string
}

// Magic byte signatures keyed by lowercase extension. An empty list means the
// format has no signature and is checked by MIME only.
var magicBytes = map[string][][]byte{
	".pdf":  {{0x25, 0x50, 0x44, 0x46}},                         // %PDF
	".doc":  {{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}}, // OLE Compound Document
	".docx": {{0x50, 0x4B, 0x03, 0x04}},                         // ZIP (PK..)
	".txt":  {},
	".jpg":  {{0xFF, 0xD8, 0xFF}},
	".jpeg": {{0xFF, 0xD8, 0xFF}},
	".png":  {{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	".webm": {{0x1A, 0x45, 0xDF, 0xA3}}, // EBML
	".wav":  {{0x52, 0x49, 0x46, 0x46}}, // RIFF
	".mp4":  {},                         // ftyp box at offset 4, see hasFtyp
}

var allowedByKind = map[FileKind]map[string]bool{
	KindResume:    {".pdf": true, ".doc": true, ".docx": true, ".txt": true},
	KindSnapshot:  {".jpg": true, ".jpeg": true, ".png": true},
	KindRecording: {".webm": true, ".wav": true, ".mp4": true},
}

// application/octet-stream is never accepted on its own.
var strictMIMETypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/zip": true, // docx sniffed as zip
	"text/plain":      true,
	"image/jpeg":      true,
	"image/png":       true,
	"video/webm":      true,
	"audio/webm":      true,
	"audio/wave":      true,
	"audio/wav":       true,
	"video/mp4":       true,
	"video/avi":       true, // RIFF sniffing quirk for some wav headers
}

// ValidateFile runs the extension whitelist for kind, then magic bytes, then
// the MIME whitelist.
func ValidateFile(kind FileKind, filename string, data []byte) FileValidationResult {
	detected := http.DetectContentType(data)
	if i := strings.Index(detected, ";"); i >= 0 {
		detected = detected[:i]
	}
	result := FileValidationResult{DetectedMIME: detected}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		result.Error = "file has no extension"
		return result
	}
	result.Extension = ext

	if !allowedByKind[kind][ext] {
		result.Error = "file extension not allowed: " + ext
		return result
	}

	if ext != ".txt" && !validateMagicBytes(ext, data) {
		result.Error = "file content does not match extension (potential file spoofing detected)"
		return result
	}

	if detected == "application/octet-stream" {
		// OLE documents and mp4 variants sniff as octet-stream; magic bytes above vouch for them
		if ext != ".doc" && ext != ".docx" && ext != ".mp4" {
			result.Error = "binary files not allowed; file type could not be determined"
			return result
		}
	} else if !strictMIMETypes[detected] {
		result.Error = "MIME type not allowed: " + detected
		return result
	}

	result.Valid = true
	return result
}

func validateMagicBytes(ext string, data []byte) bool {
	if len(data) < 4 {
		return false
	}
	if ext == ".mp4" {
		return hasFtyp(data)
	}
	signatures, ok := magicBytes[ext]
	if !ok {
		return false
	}
	if len(signatures) == 0 {
		return true
	}
	for _, sig := range signatures {
		if bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}

func hasFtyp(data []byte) bool {
	return len(data) >= 8 && bytes.Equal(data[4:8], []byte("ftyp"))
}

// ValidateFileExtension checks only the extension (for quick pre-validation)
func ValidateFileExtension(kind FileKind, filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		return errors.New("file has no extension")
	}
	if !allowedByKind[kind][ext] {
		return errors.New("file extension not allowed: " + ext)
	}
	return nil
}

// IsImageExtension checks if the extension is an image type
func IsImageExtension(ext string) bool {
	ext = strings.ToLower(ext)
	return ext == ".jpg" || ext == ".jpeg" || ext == ".png"
}
