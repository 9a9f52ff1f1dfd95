package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"semant/internal/core/diag"
	"semant/internal/core/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSummary() Summary {
	return Summary{
		Files:   1,
		Classes: 11,
		Reports: []diag.Report{
			{Severity: diag.SeverityError, Category: diag.CategoryHierarchy, File: "Main.ast.json", Line: 4, Message: "Class A extends undefined class B"},
		},
	}
}

func TestRender_AllFormats(t *testing.T) {
	for _, format := range []string{FormatText, FormatJSON, FormatMarkdown, FormatSARIF} {
		t.Run(format, func(t *testing.T) {
			out, err := Render(sampleSummary(), Options{Format: format})
			require.NoError(t, err)
			assert.Contains(t, string(out), "Class A extends undefined class B")
			if format == FormatJSON || format == FormatSARIF {
				assert.True(t, json.Valid(out), "expected valid JSON")
			}
		})
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	_, err := Render(sampleSummary(), Options{Format: "html"})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.CodeNotSupported))
}

func TestWrite_StdoutAndFile(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, "", "", []byte("hello")))
	assert.Equal(t, "hello", buf.String())

	path := filepath.Join(t.TempDir(), "nested", "report.txt")
	require.NoError(t, Write(&buf, path, "", []byte("file")))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "file", string(data))
}

func TestWrite_InjectsBetweenMarkers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "README.md")
	doc := "# Project\n<!-- semant:report:start -->\nold\n<!-- semant:report:end -->\ntail\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	require.NoError(t, Write(nil, path, "report", []byte("new body\n")))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# Project\n<!-- semant:report:start -->\nnew body\n<!-- semant:report:end -->\ntail\n", string(data))
}

func TestReplaceBetweenMarkers_Errors(t *testing.T) {
	_, err := ReplaceBetweenMarkers("no markers", "report", "x")
	require.Error(t, err)

	_, err = ReplaceBetweenMarkers("", " ", "x")
	require.Error(t, err)

	twice := strings.Repeat("<!-- semant:r:start --><!-- semant:r:end -->", 2)
	_, err = ReplaceBetweenMarkers(twice, "r", "x")
	require.Error(t, err)
}
