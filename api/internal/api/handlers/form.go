package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
)

// maxFieldBytes bounds each text field of a multipart upload.
const maxFieldBytes = 1 << 20

var (
	errNotMultipart  = errors.New("request must be multipart/form-data")
	errImageTooLarge = errors.New("image file too large")
)

// uploadForm is the in-memory view of a multipart request. Uploads are never
// staged on disk.
type uploadForm struct {
	Image     []byte
	ImageType string
	Message   *string
	Password  string
}

// readUploadForm streams the multipart body into memory, keeping at most
// maxImage bytes of the image part.
func readUploadForm(r *http.Request, maxImage int64) (*uploadForm, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, errNotMultipart
	}

	form := &uploadForm{}
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return form, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errNotMultipart, err)
		}

		if err := form.readPart(part, maxImage); err != nil {
			return nil, err
		}
	}
}

// readPart consumes one part into the form and always closes it.
func (form *uploadForm) readPart(part *multipart.Part, maxImage int64) error {
	defer part.Close()

	var err error
	switch part.FormName() {
	case "image":
		form.ImageType = strings.ToLower(strings.TrimSpace(part.Header.Get("Content-Type")))
		form.Image, err = readLimited(part, maxImage)
	case "message":
		var v string
		if v, err = readField(part); err == nil {
			form.Message = &v
		}
	case "password":
		form.Password, err = readField(part)
	}
	return err
}

func readLimited(part *multipart.Part, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(part, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errNotMultipart, err)
	}
	if int64(len(data)) > limit {
		return nil, errImageTooLarge
	}
	return data, nil
}

func readField(part *multipart.Part) (string, error) {
	data, err := io.ReadAll(io.LimitReader(part, maxFieldBytes+1))
	if err != nil {
		return "", fmt.Errorf("%w: %w", errNotMultipart, err)
	}
	if len(data) > maxFieldBytes {
		return "", fmt.Errorf("%w: field %q exceeds %d bytes", errNotMultipart, part.FormName(), maxFieldBytes)
	}
	return string(data), nil
}
