package httpclient

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// MultipartBody is a multipart/form-data request body. It is encoded fresh
// for every attempt, streaming file contents through a pipe.
type MultipartBody struct {
	Fields map[string]string
	Files  []FileField
}

// FileField is one uploaded file. Path is opened on each attempt; Data is
// used when Path is empty.
type FileField struct {
	FieldName   string
	FileName    string
	ContentType string
	Path        string
	Data        []byte
}

// replayable reports whether the body can be encoded again after a failure.
func replayable(body any) bool {
	switch body.(type) {
	case io.Reader:
		return false
	default:
		return true
	}
}

// open validates file paths and returns a reader producing the encoded body.
func (m *MultipartBody) open() (io.ReadCloser, string, error) {
	for _, f := range m.Files {
		if f.Path == "" {
			continue
		}
		if _, err := os.Stat(f.Path); err != nil {
			return nil, "", fmt.Errorf("multipart file %s: %w", f.FieldName, err)
		}
	}

	pr, pw := io.Pipe()
	w := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(m.write(w))
	}()
	return pr, w.FormDataContentType(), nil
}

func (m *MultipartBody) write(w *multipart.Writer) error {
	keys := make([]string, 0, len(m.Fields))
	for k := range m.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := w.WriteField(k, m.Fields[k]); err != nil {
			return err
		}
	}

	for _, f := range m.Files {
		if err := writeFile(w, f); err != nil {
			return err
		}
	}
	return w.Close()
}

func writeFile(w *multipart.Writer, f FileField) error {
	name := f.FileName
	if name == "" && f.Path != "" {
		name = filepath.Base(f.Path)
	}
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, escapeQuotes(f.FieldName), escapeQuotes(name)))
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return err
	}

	if f.Path == "" {
		_, err = part.Write(f.Data)
		return err
	}
	file, err := os.Open(f.Path)
	if err != nil {
		return err
	}
	defer file.Close()
	_, err = io.Copy(part, file)
	return err
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
