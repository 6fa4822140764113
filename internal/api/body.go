package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strconv"
)

// FileUpload is a file part of a multipart request.
type FileUpload struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// MultipartBody is implemented by requests that must be sent as form-data.
type MultipartBody interface {
	MultipartFields() Form
}

// Form collects form-data fields in insertion order.
type Form struct {
	fields []formField
	files  []formFile
}

type formField struct{ name, value string }

type formFile struct {
	name string
	file FileUpload
}

func (f *Form) Set(name, value string) { f.fields = append(f.fields, formField{name, value}) }

func (f *Form) SetBool(name string, v bool) {
	if v {
		f.Set(name, "1")
		return
	}
	f.Set(name, "0")
}

func (f *Form) SetInt(name string, v int) { f.Set(name, strconv.Itoa(v)) }

func (f *Form) SetFile(name string, file *FileUpload) {
	if file == nil || file.Content == nil {
		return
	}
	f.files = append(f.files, formFile{name: name, file: *file})
}

// Value returns the first value set for name.
func (f Form) Value(name string) (string, bool) {
	for _, fl := range f.fields {
		if fl.name == name {
			return fl.value, true
		}
	}
	return "", false
}

func encodeBody(body any) ([]byte, string, error) {
	if body == nil {
		return nil, "", nil
	}
	if mb, ok := body.(MultipartBody); ok {
		return encodeMultipart(mb.MultipartFields())
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, "", err
	}
	return b, "application/json", nil
}

func encodeMultipart(f Form) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, fl := range f.fields {
		if err := w.WriteField(fl.name, fl.value); err != nil {
			return nil, "", err
		}
	}
	for _, ff := range f.files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, ff.name, ff.file.Filename))
		ct := ff.file.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := io.Copy(part, ff.file.Content); err != nil {
			return nil, "", fmt.Errorf("copy %s: %w", ff.name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}
