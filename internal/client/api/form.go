package api

import (
	"bytes"
	"mime/multipart"
)

// Form is a multipart/form-data body. Parts are written in the order added.
type Form struct {
	parts []formPart
}

type formPart struct {
	field    string
	filename string
	value    []byte
	isFile   bool
}

func NewForm() *Form {
	return &Form{}
}

// Add appends a text field.
func (f *Form) Add(field, value string) *Form {
	f.parts = append(f.parts, formPart{field: field, value: []byte(value)})
	return f
}

// AddFile appends a file part.
func (f *Form) AddFile(field, filename string, content []byte) *Form {
	f.parts = append(f.parts, formPart{field: field, filename: filename, value: content, isFile: true})
	return f
}

func (f *Form) encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if f != nil {
		for _, p := range f.parts {
			if p.isFile {
				fw, err := w.CreateFormFile(p.field, p.filename)
				if err != nil {
					return nil, "", err
				}
				if _, err := fw.Write(p.value); err != nil {
					return nil, "", err
				}
				continue
			}
			if err := w.WriteField(p.field, string(p.value)); err != nil {
				return nil, "", err
			}
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
