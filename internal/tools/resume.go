package tools

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/rahul/sahayak/internal/task"
)

// ResumeParserTool extracts plain text from an uploaded resume file.
// Supported formats: PDF, DOCX and TXT.
type ResumeParserTool struct {
	Workspace string
}

func NewResumeParserTool(workspace string) *ResumeParserTool {
	abs, _ := filepath.Abs(workspace)
	return &ResumeParserTool{Workspace: abs}
}

func (r *ResumeParserTool) Name() string {
	return "resume_parse"
}

func (r *ResumeParserTool) Description() string {
	return "Extract the text of a resume file (PDF, DOCX or TXT). Args: file_path (string)."
}

func (r *ResumeParserTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"file_path": map[string]any{
				"type":        "string",
				"description": "Path to the resume file inside the workspace",
			},
		},
		"required": []string{"file_path"},
	}
}

func (r *ResumeParserTool) Execute(ctx context.Context, args task.Args, tc *task.Context) (*Result, error) {
	filePath := args.String("file_path")
	if filePath == "" {
		return nil, task.Toolf(r.Name(), "missing file_path")
	}
	if !filepath.IsAbs(filePath) {
		filePath = filepath.Join(r.Workspace, filePath)
	}
	filePath = filepath.Clean(filePath)

	// Safety check: the resolved path must stay inside the workspace.
	if rel, err := filepath.Rel(r.Workspace, filePath); err != nil || (len(rel) >= 2 && rel[:2] == "..") {
		return nil, task.Toolf(r.Name(), "unsafe path attempt: %s", args.String("file_path"))
	}

	if _, err := os.Stat(filePath); err != nil {
		return nil, task.Toolf(r.Name(), "resume file not found: %s", filePath)
	}

	fileName := filepath.Base(filePath)
	logs := []string{fmt.Sprintf("Parsing resume: %s", fileName)}

	var text string
	var err error
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".pdf":
		text, err = extractPDF(filePath)
	case ".docx", ".doc":
		text, err = extractDOCX(filePath)
	case ".txt":
		text, err = extractTXT(filePath)
	default:
		return nil, task.Toolf(r.Name(), "unsupported file format: %s", filepath.Ext(filePath))
	}
	if err != nil {
		return nil, &task.ToolError{Tool: r.Name(), Err: err}
	}

	text = strings.TrimSpace(text)
	if len(text) < 10 {
		return nil, task.Toolf(r.Name(), "could not extract text from %s", fileName)
	}

	wordCount := len(strings.Fields(text))
	logs = append(logs, fmt.Sprintf("Successfully parsed resume (%d words)", wordCount))

	return &Result{
		Logs: logs,
		Output: map[string]any{
			"resume_text": text,
			"file_name":   fileName,
			"word_count":  wordCount,
		},
	}, nil
}

func extractPDF(path string) (string, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()

	body, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to read pdf text: %w", err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, body); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// extractDOCX pulls paragraph text out of word/document.xml. A .docx file
// is a zip archive; <w:t> elements carry the runs, </w:p> ends a paragraph.
func extractDOCX(path string) (string, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open docx: %w", err)
	}
	defer archive.Close()

	var doc io.ReadCloser
	for _, f := range archive.File {
		if f.Name == "word/document.xml" {
			doc, err = f.Open()
			if err != nil {
				return "", err
			}
			break
		}
	}
	if doc == nil {
		return "", fmt.Errorf("docx missing word/document.xml")
	}
	defer doc.Close()

	var b strings.Builder
	decoder := xml.NewDecoder(doc)
	inText := false
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("malformed docx xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}

func extractTXT(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
