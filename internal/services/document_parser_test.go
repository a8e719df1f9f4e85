package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentParser_PlainText(t *testing.T) {
	parser := NewDocumentParser()

	text, err := parser.ExtractText(UploadFile{
		Name: "cv.txt",
		Data: []byte("  Jane Doe  \n\n\n  Data Analyst \n"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nData Analyst", text)
}

func TestDocumentParser_ContentTypeWins(t *testing.T) {
	parser := NewDocumentParser()

	text, err := parser.ExtractText(UploadFile{
		Name:        "upload.bin",
		ContentType: "text/plain; charset=utf-8",
		Data:        []byte("Go developer"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Go developer", text)
}

func TestDocumentParser_Errors(t *testing.T) {
	parser := NewDocumentParser()

	_, err := parser.ExtractText(UploadFile{Name: "cv.doc", Data: []byte("x")})
	assert.ErrorContains(t, err, "unsupported file type")

	_, err = parser.ExtractText(UploadFile{Name: "cv.txt", Data: []byte(" \n ")})
	assert.ErrorContains(t, err, "no text content")

	_, err = parser.ExtractText(UploadFile{Name: "cv.pdf", Data: []byte("not a pdf")})
	assert.Error(t, err)
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "", Excerpt("anything", 0))
	assert.Equal(t, "short", Excerpt("short", 10))
	assert.Equal(t, "Zoë", Excerpt("Zoë Smith", 3))
}
