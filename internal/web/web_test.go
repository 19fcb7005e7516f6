package web

import (
	"bytes"
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mspro-labs/inspection-map/internal/models"
)

func TestTemplates_RenderHome(t *testing.T) {
	tmpl, err := Templates(template.FuncMap{}, "home.html")
	require.NoError(t, err)

	var buf bytes.Buffer
	err = tmpl.ExecuteTemplate(&buf, "base.html", []models.Restaurant{
		{BusinessName: "PHO <BAC>", AverageScore: 16.666, HighScore: 20, TotalInspections: 3, Located: true},
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "PHO &lt;BAC&gt;")
	assert.Contains(t, buf.String(), "16.7")
}

func TestTemplates_RenderEmpty(t *testing.T) {
	tmpl, err := Templates(nil, "home.html")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, tmpl.ExecuteTemplate(&buf, "base.html", []models.Restaurant(nil)))
	assert.Contains(t, buf.String(), "No restaurants stored yet")
}
