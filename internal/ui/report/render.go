// Package report renders semantic analysis results in the configured output
// format and writes them to their destination.
package report

import (
	"io"
	"time"

	"semant/internal/core/diag"
	"semant/internal/core/errors"
	"semant/internal/shared/util"
	"semant/internal/shared/version"
	"semant/internal/ui/report/formats"
)

const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatSARIF    = "sarif"
)

// Summary is what one analysis run hands to a renderer.
type Summary struct {
	Files   int
	Classes int
	Reports []diag.Report
}

type Options struct {
	Format      string
	ProjectName string
	ProjectRoot string
	Color       bool
	GeneratedAt time.Time
}

// Render formats s. Reports are rendered in the order given.
func Render(s Summary, opts Options) ([]byte, error) {
	switch opts.Format {
	case "", FormatText:
		return []byte(formats.GenerateText(s.Reports, formats.TextOptions{
			ProjectRoot: opts.ProjectRoot,
			Color:       opts.Color,
		})), nil
	case FormatJSON:
		return formats.GenerateJSON(opts.ProjectRoot, s.Files, s.Classes, s.Reports)
	case FormatMarkdown:
		out, err := formats.NewMarkdownGenerator().Generate(
			formats.MarkdownReportData{
				TotalFiles:   s.Files,
				TotalClasses: s.Classes,
				Reports:      s.Reports,
			},
			formats.MarkdownReportOptions{
				ProjectName:         opts.ProjectName,
				ProjectRoot:         opts.ProjectRoot,
				Version:             version.Version,
				GeneratedAt:         opts.GeneratedAt,
				TableOfContents:     true,
				CollapsibleSections: true,
			},
		)
		return []byte(out), err
	case FormatSARIF:
		return formats.GenerateSARIF(opts.ProjectRoot, s.Reports)
	default:
		return nil, errors.Newf(errors.CodeNotSupported, "unsupported output format %q", opts.Format)
	}
}

// Write delivers data to path, or to stdout when path is empty. With a
// marker the marked block of an existing file is replaced instead.
func Write(stdout io.Writer, path, marker string, data []byte) error {
	switch {
	case path == "":
		_, err := stdout.Write(data)
		return err
	case marker != "":
		return errors.AddContext(InjectMarkdown(path, marker, string(data)), "path", path)
	default:
		if err := util.WriteFileWithDirs(path, data, 0o644); err != nil {
			return errors.Wrap(err, errors.CodeInternal, "write report")
		}
		return nil
	}
}
