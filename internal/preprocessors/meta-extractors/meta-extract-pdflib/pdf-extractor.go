// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package metaextractpdflib

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"pdf-extract/internal/extractor"
	"pdf-extract/internal/security"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// maxSafeFileSize is the size above which the whole-file read is reported
const maxSafeFileSize = 100 * 1024 * 1024

// Patterns for files pdfcpu rejects, where only the raw bytes are left
var (
	infoRefPattern  = regexp.MustCompile(`/Info\s+(\d+)\s+\d+\s+R`)
	encryptPattern  = regexp.MustCompile(`/Encrypt\s+\d+\s+\d+\s+R`)
	pageTypePattern = regexp.MustCompile(`/Type\s*/Page[^s]`)
)

// Metadata represents PDF document metadata
type Metadata struct {
	Filename    string            `json:"filename" yaml:"filename"`
	FileSize    int64             `json:"file_size" yaml:"file_size"`
	ModTime     time.Time         `json:"mod_time" yaml:"mod_time"`
	Version     string            `json:"version" yaml:"version"`
	PageCount   int               `json:"page_count" yaml:"page_count"`
	Title       string            `json:"title,omitempty" yaml:"title,omitempty"`
	Author      string            `json:"author,omitempty" yaml:"author,omitempty"`
	Subject     string            `json:"subject,omitempty" yaml:"subject,omitempty"`
	Creator     string            `json:"creator,omitempty" yaml:"creator,omitempty"`
	Producer    string            `json:"producer,omitempty" yaml:"producer,omitempty"`
	CreatedDate *time.Time        `json:"created_date,omitempty" yaml:"created_date,omitempty"`
	Encrypted   bool              `json:"encrypted" yaml:"encrypted"`
	Valid       bool              `json:"valid" yaml:"valid"`
	Validation  string            `json:"validation_error,omitempty" yaml:"validation_error,omitempty"`
	Properties  map[string]string `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Inspector reads document level metadata with pdfcpu
type Inspector struct {
	password *security.Secret
}

// NewInspector creates an inspector using pdfcpu's relaxed validation
func NewInspector() *Inspector {
	return &Inspector{}
}

// WithPassword sets the user password tried on encrypted documents
func (in *Inspector) WithPassword(password *security.Secret) *Inspector {
	in.password = password
	return in
}

// GetComponentName returns the component identifier
func (in *Inspector) GetComponentName() string {
	return "inspector"
}

// configuration returns a fresh pdfcpu configuration; pdfcpu records the
// running command in it, so calls do not share one
func (in *Inspector) configuration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	if !in.password.IsEmpty() {
		conf.UserPW = in.password.Reveal()
	}
	return conf
}

// ExtractMetadata inspects filePath. Failures to read the file are errors;
// a document pdfcpu cannot parse or validate still yields metadata with
// Valid=false and the reason in Validation.
func (in *Inspector) ExtractMetadata(filePath string) (*Metadata, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return nil, fmt.Errorf("file error: %w", err)
	}
	if !fileInfo.Mode().IsRegular() {
		return nil, fmt.Errorf("file error: %s is not a regular file", filePath)
	}

	if fileInfo.Size() > maxSafeFileSize {
		fmt.Fprintf(os.Stderr, "Warning: Large PDF file (%d MB), metadata extraction may use significant memory\n", fileInfo.Size()/(1024*1024))
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}

	version, err := extractor.HeaderVersion(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	metadata := &Metadata{
		Filename:   filepath.Base(filePath),
		FileSize:   fileInfo.Size(),
		ModTime:    fileInfo.ModTime(),
		Version:    version,
		Properties: make(map[string]string),
	}

	info, err := api.PDFInfo(bytes.NewReader(data), metadata.Filename, nil, false, in.configuration())
	if err != nil {
		metadata.Validation = err.Error()
		extractFromRawBytes(data, metadata)
		return metadata, nil
	}
	applyInfo(info, metadata)

	if err := api.ValidateFile(filePath, in.configuration()); err != nil {
		metadata.Validation = err.Error()
	} else {
		metadata.Valid = true
	}

	return metadata, nil
}

// applyInfo copies the document properties pdfcpu decoded
func applyInfo(info *pdfcpu.PDFInfo, metadata *Metadata) {
	metadata.PageCount = info.PageCount
	metadata.Encrypted = info.Encrypted
	metadata.Title = info.Title
	metadata.Author = info.Author
	metadata.Subject = info.Subject
	metadata.Creator = info.Creator
	metadata.Producer = info.Producer

	setDates(metadata, info.CreationDate, info.ModificationDate)
}

// extractFromRawBytes is the fallback for files pdfcpu rejects, usually
// because they are encrypted or damaged
func extractFromRawBytes(data []byte, metadata *Metadata) {
	metadata.Encrypted = isEncrypted(data)
	metadata.PageCount = countPages(data)
	extractInfoDictionary(data, metadata)
}

func setDates(metadata *Metadata, created, modified string) {
	if created != "" {
		if date, err := parseInfoDate(created); err == nil {
			metadata.CreatedDate = &date
		}
		metadata.Properties["CreationDate"] = created
	}
	if modified != "" {
		metadata.Properties["ModificationDate"] = modified
	}
}

// extractInfoDictionary fills the string fields of the document Info dictionary
func extractInfoDictionary(data []byte, metadata *Metadata) {
	m := infoRefPattern.FindSubmatch(data)
	if len(m) < 2 {
		return
	}

	objPattern := regexp.MustCompile(`(?s)\b` + string(m[1]) + `\s+\d+\s+obj\s*<<(.*?)>>`)
	objMatches := objPattern.FindSubmatch(data)
	if len(objMatches) < 2 {
		return
	}
	dict := string(objMatches[1])

	metadata.Title = extractStringField(dict, "Title")
	metadata.Author = extractStringField(dict, "Author")
	metadata.Subject = extractStringField(dict, "Subject")
	metadata.Creator = extractStringField(dict, "Creator")
	metadata.Producer = extractStringField(dict, "Producer")
	setDates(metadata, extractStringField(dict, "CreationDate"), extractStringField(dict, "ModDate"))

	// Strings of an encrypted document are ciphertext here
	for _, field := range []string{"Title", "Author", "Creator", "Producer"} {
		if containsNonPrintableChars(fieldValue(metadata, field)) {
			setField(metadata, field, "[Encrypted or malformed data]")
		}
	}
}

func fieldValue(metadata *Metadata, field string) string {
	switch field {
	case "Title":
		return metadata.Title
	case "Author":
		return metadata.Author
	case "Creator":
		return metadata.Creator
	case "Producer":
		return metadata.Producer
	}
	return ""
}

func setField(metadata *Metadata, field, value string) {
	switch field {
	case "Title":
		metadata.Title = value
	case "Author":
		metadata.Author = value
	case "Creator":
		metadata.Creator = value
	case "Producer":
		metadata.Producer = value
	}
}

// extractStringField extracts a literal or hex string field from a dictionary body
func extractStringField(dictionary, fieldName string) string {
	pattern := regexp.MustCompile(`/` + fieldName + `\s*\(((?:\\.|[^\\()])*)\)`)
	if matches := pattern.FindStringSubmatch(dictionary); len(matches) >= 2 {
		value := matches[1]
		value = strings.ReplaceAll(value, "\\)", ")")
		value = strings.ReplaceAll(value, "\\(", "(")
		value = strings.ReplaceAll(value, "\\\\", "\\")
		return value
	}

	hexPattern := regexp.MustCompile(`/` + fieldName + `\s*<([0-9A-Fa-f]+)>`)
	if hexMatches := hexPattern.FindStringSubmatch(dictionary); len(hexMatches) >= 2 {
		hexStr := hexMatches[1]
		var result strings.Builder
		for i := 0; i+1 < len(hexStr); i += 2 {
			if byteVal, err := strconv.ParseUint(hexStr[i:i+2], 16, 8); err == nil {
				result.WriteByte(byte(byteVal))
			}
		}
		return result.String()
	}

	return ""
}

// countPages is the fallback page count for files pdfcpu cannot read
func countPages(data []byte) int {
	return len(pageTypePattern.FindAll(data, -1))
}

func isEncrypted(data []byte) bool {
	return encryptPattern.Match(data)
}

// infoDateLayouts are the non-PDF forms a decoded date may take
var infoDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05 Z07:00",
	"2006-01-02 15:04:05",
}

// parseInfoDate accepts a PDF date (D:YYYYMMDD...) or a formatted timestamp
func parseInfoDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "D:") || leadingDigits(s) >= 8 {
		return parsePDFDate(s)
	}
	for _, layout := range infoDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

func leadingDigits(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}

// parsePDFDate parses a PDF date string (D:YYYYMMDDHHmmSSOHH'mm')
func parsePDFDate(dateStr string) (time.Time, error) {
	dateStr = strings.TrimPrefix(dateStr, "D:")

	if len(dateStr) < 4 {
		return time.Time{}, fmt.Errorf("invalid date format")
	}

	year := extractInt(dateStr, 0, 4, 0)
	month := extractInt(dateStr, 4, 2, 1)
	day := extractInt(dateStr, 6, 2, 1)
	hour := extractInt(dateStr, 8, 2, 0)
	minute := extractInt(dateStr, 10, 2, 0)
	second := extractInt(dateStr, 12, 2, 0)

	offset := 0
	if len(dateStr) >= 15 && (dateStr[14] == '+' || dateStr[14] == '-') {
		offset = extractInt(dateStr, 15, 2, 0)*3600 + extractInt(dateStr, 18, 2, 0)*60
		if dateStr[14] == '-' {
			offset = -offset
		}
	}

	return time.Date(year, time.Month(month), day, hour, minute, second, 0, time.FixedZone("", offset)), nil
}

// containsNonPrintableChars reports whether more than 20% of s is outside printable ASCII
func containsNonPrintableChars(s string) bool {
	if s == "" {
		return false
	}

	nonPrintable := 0
	for _, r := range s {
		if r < 32 || r > 126 {
			nonPrintable++
		}
	}

	return float64(nonPrintable)/float64(len(s)) > 0.2
}

func extractInt(s string, start, length, defaultVal int) int {
	if start+length <= len(s) {
		val, err := strconv.Atoi(s[start : start+length])
		if err == nil {
			return val
		}
	}
	return defaultVal
}
