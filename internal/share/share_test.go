package share

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	links := Build("https://petition.example/?lang=de", "Ich habe unterschrieben & du?")

	assert.Equal(t, "https://www.facebook.com/sharer/sharer.php?u=https%3A%2F%2Fpetition.example%2F%3Flang%3Dde", links.Facebook)

	tw, err := url.Parse(links.Twitter)
	require.NoError(t, err)
	assert.Equal(t, "Ich habe unterschrieben & du?", tw.Query().Get("text"))
	assert.Equal(t, "https://petition.example/?lang=de", tw.Query().Get("url"))

	wa, err := url.Parse(links.WhatsApp)
	require.NoError(t, err)
	assert.Equal(t, "Ich habe unterschrieben & du? https://petition.example/?lang=de", wa.Query().Get("text"))
	assert.Contains(t, links.LinkedIn, "share-offsite/?url=https%3A%2F%2F")
}
