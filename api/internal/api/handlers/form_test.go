package handlers

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func firstPart(t *testing.T, name, contentType string, payload []byte) *multipart.Part {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="`+name+`"; filename="x"`)
	h.Set("Content-Type", contentType)
	w, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = w.Write(payload)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	part, err := multipart.NewReader(&body, mw.Boundary()).NextPart()
	require.NoError(t, err)
	return part
}

func TestReadPart_ClosesPartOnError(t *testing.T) {
	t.Run("image over the cap", func(t *testing.T) {
		part := firstPart(t, "image", "image/png", bytes.Repeat([]byte{1}, 100))

		form := &uploadForm{}
		err := form.readPart(part, 10)
		require.ErrorIs(t, err, errImageTooLarge)
		assert.Nil(t, form.Image)

		// The unread remainder was drained by Close.
		n, err := part.Read(make([]byte, 8))
		assert.Zero(t, n)
		assert.ErrorIs(t, err, io.EOF)
	})

	t.Run("text field over the cap", func(t *testing.T) {
		part := firstPart(t, "message", "text/plain", []byte(strings.Repeat("m", maxFieldBytes+512)))

		form := &uploadForm{}
		err := form.readPart(part, 10)
		require.ErrorIs(t, err, errNotMultipart)
		assert.Nil(t, form.Message)

		n, err := part.Read(make([]byte, 8))
		assert.Zero(t, n)
		assert.ErrorIs(t, err, io.EOF)
	})
}

func TestReadPart_Fields(t *testing.T) {
	form := &uploadForm{}

	require.NoError(t, form.readPart(firstPart(t, "image", " Image/PNG ", []byte("png bytes")), 64))
	require.NoError(t, form.readPart(firstPart(t, "message", "text/plain", []byte("hello")), 64))
	require.NoError(t, form.readPart(firstPart(t, "password", "text/plain", []byte("pw")), 64))
	require.NoError(t, form.readPart(firstPart(t, "ignored", "text/plain", []byte("zzz")), 64))

	assert.Equal(t, "image/png", form.ImageType)
	assert.Equal(t, []byte("png bytes"), form.Image)
	require.NotNil(t, form.Message)
	assert.Equal(t, "hello", *form.Message)
	assert.Equal(t, "pw", form.Password)
}
