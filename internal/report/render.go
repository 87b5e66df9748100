package report

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Format selects a renderer.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat accepts the format names and "md" as a Markdown alias.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unknown report format %q (want text, markdown or json)", s)
}

// Render writes r to w in the given format.
func Render(w io.Writer, f Format, r Report) error {
	switch f {
	case FormatText:
		return Text(w, r)
	case FormatMarkdown:
		return Markdown(w, r)
	case FormatJSON:
		return JSON(w, r)
	}
	return fmt.Errorf("unknown report format %q", f)
}

// Text renders a plain-text report.
func Text(w io.Writer, r Report) error {
	tr := r.Translator()
	var b strings.Builder

	title := tr.T("ReportTitle")
	fmt.Fprintf(&b, "%s\n%s\n", title, strings.Repeat("=", len([]rune(title))))
	fmt.Fprintf(&b, "%s\n\n", tr.Td("GeneratedOn", map[string]any{"Date": r.GeneratedAt.Format("January 2, 2006 15:04")}))

	heading(&b, tr.T("SummaryHeading"), "-")
	fmt.Fprintf(&b, "%-16s %s\n", tr.T("FinalScore")+":", scoreLine(r))
	fmt.Fprintf(&b, "%-16s %s\n", tr.T("Interpretation")+":", r.BandLabel)
	fmt.Fprintf(&b, "%-16s %s\n", tr.T("Education")+":", education(r))
	fmt.Fprintf(&b, "%-16s %s\n", tr.T("Region")+":", regionLine(r))
	if n := len(r.Unscored); n > 0 {
		fmt.Fprintf(&b, "\n%s\n", tr.Tp("UnscoredNote", n))
	}
	if r.Summary != "" {
		b.WriteString("\n")
		heading(&b, tr.T("PlainSummary"), "-")
		fmt.Fprintf(&b, "%s\n", r.Summary)
	}

	b.WriteString("\n")
	heading(&b, tr.T("DetailedResponses"), "-")
	for _, it := range r.Items {
		fmt.Fprintf(&b, "%s: %s\n", tr.Td("QuestionLabel", map[string]any{"ID": it.QuestionID}), it.Prompt)
		fmt.Fprintf(&b, "    %s\n", it.Response)
		fmt.Fprintf(&b, "    %s%s\n", pointsLine(r, it), extras(r, it))
	}

	fmt.Fprintf(&b, "\n%s\n", r.Disclaimer)
	_, err := io.WriteString(w, b.String())
	return err
}

// Markdown renders a Markdown report with a response table.
func Markdown(w io.Writer, r Report) error {
	tr := r.Translator()
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", tr.T("ReportTitle"))
	fmt.Fprintf(&b, "_%s_\n\n", tr.Td("GeneratedOn", map[string]any{"Date": r.GeneratedAt.Format("January 2, 2006 15:04")}))

	fmt.Fprintf(&b, "## %s\n\n", tr.T("SummaryHeading"))
	fmt.Fprintf(&b, "- **%s:** %s\n", tr.T("FinalScore"), scoreLine(r))
	fmt.Fprintf(&b, "- **%s:** %s\n", tr.T("Interpretation"), r.BandLabel)
	fmt.Fprintf(&b, "- **%s:** %s\n", tr.T("Education"), education(r))
	fmt.Fprintf(&b, "- **%s:** %s\n", tr.T("Region"), regionLine(r))
	if n := len(r.Unscored); n > 0 {
		fmt.Fprintf(&b, "\n> %s\n", tr.Tp("UnscoredNote", n))
	}
	if r.Summary != "" {
		fmt.Fprintf(&b, "\n## %s\n\n%s\n", tr.T("PlainSummary"), r.Summary)
	}

	fmt.Fprintf(&b, "\n## %s\n\n", tr.T("DetailedResponses"))
	b.WriteString("| # | Question | Response | Points |\n|---|---|---|---|\n")
	for _, it := range r.Items {
		fmt.Fprintf(&b, "| %d | %s | %s | %s%s |\n",
			it.QuestionID, mdCell(it.Prompt), mdCell(it.Response), pointsLine(r, it), mdCell(extras(r, it)))
	}

	fmt.Fprintf(&b, "\n---\n\n*%s*\n", r.Disclaimer)
	_, err := io.WriteString(w, b.String())
	return err
}

//go:embed report.schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("parse report schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("report.schema.json", doc); err != nil {
			schemaErr = fmt.Errorf("add report schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile("report.schema.json")
	})
	return schema, schemaErr
}

// Validate checks a JSON report document against the published schema.
func Validate(data []byte) error {
	sch, err := compiledSchema()
	if err != nil {
		return err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode report: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("report does not match schema: %w", err)
	}
	return nil
}

// JSON renders the report as indented JSON, validated against the schema
// before it is written.
func JSON(w io.Writer, r Report) error {
	if r.Unscored == nil {
		r.Unscored = []int{}
	}
	if r.Items == nil {
		r.Items = []Item{}
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := Validate(data); err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

func heading(b *strings.Builder, s, underline string) {
	fmt.Fprintf(b, "%s\n%s\n", s, strings.Repeat(underline, len([]rune(s))))
}

func scoreLine(r Report) string {
	return r.Translator().Td("ScoreOutOf", map[string]any{"Total": r.Total, "Max": r.MaxTotal})
}

func education(r Report) string {
	if r.HighSchool {
		return r.Translator().T("EducationHighSchool")
	}
	return r.Translator().T("EducationLess")
}

func regionLine(r Report) string {
	if r.Region == nil {
		return r.Translator().T("RegionUnknown")
	}
	return r.Region.String()
}

func pointsLine(r Report, it Item) string {
	if it.Unscored {
		return r.Translator().T("Unscored")
	}
	return r.Translator().Td("Points", map[string]any{"Points": it.Points, "Max": it.MaxPoints})
}

func extras(r Report, it Item) string {
	tr := r.Translator()
	var parts []string
	if it.DwellMs > 0 {
		d := (time.Duration(it.DwellMs) * time.Millisecond).Round(time.Second)
		parts = append(parts, tr.T("TimeSpent")+" "+d.String())
	}
	if it.Revisions > 1 {
		parts = append(parts, tr.Tp("AnswerChanges", it.Revisions-1))
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

func mdCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
