package docgen

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/lukasjarosch/go-docx"
)

// Renderer renders a template against a flat context into dst.
type Renderer interface {
	Render(templatePath string, context map[string]string, dst string) error
}

// DocxRenderer fills the placeholders of a .docx template. Both {列名} and the
// double-brace {{列名}} / {{ 列名 }} spelling are accepted; a placeholder
// without a matching column renders empty.
type DocxRenderer struct{}

// Render opens a fresh copy of the template for every call, so no state from
// a previous row leaks into the next document.
func (DocxRenderer) Render(templatePath string, context map[string]string, dst string) error {
	template, err := loadTemplate(templatePath)
	if err != nil {
		return fmt.Errorf("failed to open template: %w", err)
	}

	doc, err := docx.OpenBytes(template)
	if err != nil {
		return fmt.Errorf("failed to open template: %w", err)
	}
	defer doc.Close()

	placeholders := make(docx.PlaceholderMap, len(context))
	for key, value := range context {
		placeholders[key] = value
	}

	found, err := doc.GetPlaceHoldersList()
	if err != nil {
		return fmt.Errorf("failed to read template placeholders: %w", err)
	}
	for _, placeholder := range found {
		key := docx.RemovePlaceholderDelimiter(placeholder)
		if _, ok := placeholders[key]; !ok && strings.TrimSpace(key) != "" {
			placeholders[key] = ""
		}
	}

	if err = doc.ReplaceAll(placeholders); err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	if err = doc.WriteToFile(dst); err != nil {
		return fmt.Errorf("failed to save %s: %w", dst, err)
	}

	return nil
}

var (
	doubleOpen  = regexp.MustCompile(`\{(?:<[^>]*>)*\{(?:\s|<[^>]*>)*`)
	doubleClose = regexp.MustCompile(`(?:\s|<[^>]*>)*\}(?:<[^>]*>)*\}`)
	xmlTag      = regexp.MustCompile(`<[^>]*>`)
)

// loadTemplate reads the template archive and rewrites double-brace
// placeholders in the parts that hold text to single braces.
func loadTemplate(path string) ([]byte, error) {
	archive, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer archive.Close()

	var buf bytes.Buffer
	out := zip.NewWriter(&buf)
	for _, part := range archive.File {
		if !isTextPart(part.Name) {
			if err = out.Copy(part); err != nil {
				return nil, err
			}
			continue
		}

		content, errRead := readPart(part)
		if errRead != nil {
			return nil, errRead
		}
		writer, errCreate := out.CreateHeader(&zip.FileHeader{
			Name:     part.Name,
			Method:   part.Method,
			Modified: part.Modified,
		})
		if errCreate != nil {
			return nil, errCreate
		}
		if _, err = writer.Write(singleBraces(content)); err != nil {
			return nil, err
		}
	}
	if err = out.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func isTextPart(name string) bool {
	return name == docx.DocumentXml || docx.HeaderPathRegex.MatchString(name) || docx.FooterPathRegex.MatchString(name)
}

func readPart(part *zip.File) ([]byte, error) {
	reader, err := part.Open()
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return io.ReadAll(reader)
}

// singleBraces turns {{ name }} into {name}. Markup between the braces, as
// left by word processors splitting a run, is kept in place.
func singleBraces(content []byte) []byte {
	content = doubleOpen.ReplaceAllFunc(content, func(match []byte) []byte {
		return append([]byte{'{'}, bytes.Join(xmlTag.FindAll(match, -1), nil)...)
	})

	return doubleClose.ReplaceAllFunc(content, func(match []byte) []byte {
		return append(bytes.Join(xmlTag.FindAll(match, -1), nil), '}')
	})
}
