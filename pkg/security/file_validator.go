package security

import (
	"bytes"
	"mime"
	"net/http"
	"path/filepath"
	"slices"
	"sort"
	"strings"
)

// FileValidationResult contains the result of file validation
type FileValidationResult struct {
	Valid        bool   // Whether the file passed all validation checks
	Extension    string // Normalized file extension
	DetectedMIME string // MIME type sniffed from the content
	Error        string // Error message if validation failed
}

// Magic byte signatures per lowercase extension
var magicBytes = map[string][][]byte{
	".jpg":  {{0xFF, 0xD8, 0xFF}},
	".jpeg": {{0xFF, 0xD8, 0xFF}},
	".png":  {{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}},
	".gif":  {{0x47, 0x49, 0x46, 0x38, 0x37, 0x61}, {0x47, 0x49, 0x46, 0x38, 0x39, 0x61}}, // GIF87a & GIF89a
	".pdf":  {{0x25, 0x50, 0x44, 0x46}},                                                   // %PDF
	".doc":  {{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}},                           // OLE Compound Document
	".docx": {{0x50, 0x4B, 0x03, 0x04}},                                                   // ZIP (PK..)
	".txt":  {},                                                                           // checked by content sniffing instead
}

// Declared media types accepted per extension
var allowedMIMETypes = map[string][]string{
	".jpg":  {"image/jpeg", "image/jpg", "image/pjpeg"},
	".jpeg": {"image/jpeg", "image/jpg", "image/pjpeg"},
	".png":  {"image/png"},
	".gif":  {"image/gif"},
	".pdf":  {"application/pdf"},
	".doc":  {"application/msword"},
	".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	".txt":  {"text/plain"},
}

// ValidateFile performs 3-layer file validation:
// 1. Extension whitelist
// 2. Declared media type must belong to that extension
// 3. Content must start with the extension's magic bytes
//
// head only needs to hold the first 512 bytes of the file.
func ValidateFile(filename, declaredMIME string, head []byte) FileValidationResult {
	result := FileValidationResult{DetectedMIME: http.DetectContentType(head)}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		result.Error = "file has no extension"
		return result
	}
	result.Extension = ext

	// Layer 1: Extension whitelist
	allowed, ok := allowedMIMETypes[ext]
	if !ok {
		result.Error = "file extension not allowed: " + ext
		return result
	}

	// Layer 2: Declared media type. Parameters such as charset are ignored.
	mediaType, _, err := mime.ParseMediaType(declaredMIME)
	if err != nil || !slices.Contains(allowed, strings.ToLower(mediaType)) {
		result.Error = "file type not allowed: " + declaredMIME
		return result
	}

	// Layer 3: Content
	if ext == ".txt" {
		if !strings.HasPrefix(result.DetectedMIME, "text/plain") {
			result.Error = "file content is not plain text"
			return result
		}
	} else if !validateMagicBytes(ext, head) {
		result.Error = "file content does not match extension"
		return result
	}

	result.Valid = true
	return result
}

func validateMagicBytes(ext string, data []byte) bool {
	if len(data) < 4 {
		return false
	}
	for _, sig := range magicBytes[ext] {
		if bytes.HasPrefix(data, sig) {
			return true
		}
	}
	return false
}

// GetAllowedExtensions returns the allowed extensions, sorted, for error messages
func GetAllowedExtensions() []string {
	extensions := make([]string, 0, len(allowedMIMETypes))
	for ext := range allowedMIMETypes {
		extensions = append(extensions, ext)
	}
	sort.Strings(extensions)
	return extensions
}

// IsImageExtension reports whether ext is a raster image we may downscale.
func IsImageExtension(ext string) bool {
	ext = strings.ToLower(ext)
	return ext == ".jpg" || ext == ".jpeg" || ext == ".png"
}
