package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jimezsa/jobtracker/internal/models"
	"gopkg.in/yaml.v3"
)

func sampleJobs() []models.ScoredJob {
	return []models.ScoredJob{
		{
			Job: models.Job{
				ID:            "job-1",
				Title:         "Senior Developer",
				Company:       "Acme",
				Location:      "Bangalore",
				Mode:          models.ModeHybrid,
				Experience:    "3-5",
				SalaryRange:   "18-24 LPA",
				Skills:        []string{"React", "Node"},
				Source:        models.SourceLinkedIn,
				PostedDaysAgo: 1,
				ApplyURL:      "https://example.com/apply/1",
			},
			MatchScore: 65,
		},
	}
}

func sampleDigest() models.Digest {
	return models.Digest{
		Date: "2026-05-04",
		Jobs: []models.DigestJob{
			models.DigestJobFrom(sampleJobs()[0]),
			{
				ID:          "job-2",
				Title:       "Go Engineer (Platform)",
				Company:     "Beta & Co",
				Location:    "Pune",
				Mode:        models.ModeRemote,
				Experience:  "1-3",
				SalaryRange: "12-16 LPA",
				MatchScore:  40,
				ApplyURL:    "https://example.com/apply/2?ref=digest",
			},
		},
		GeneratedAt: time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC),
	}
}

func TestDigestText(t *testing.T) {
	want := strings.Join([]string{
		"Top 10 Jobs For You — 9AM Digest",
		"Date: Monday, May 4, 2026",
		"",
		"=====================================",
		"",
		"1. Senior Developer",
		"   Company: Acme",
		"   Location: Bangalore (Hybrid)",
		"   Experience: 3-5",
		"   Salary: 18-24 LPA",
		"   Match Score: 65%",
		"   Apply: https://example.com/apply/1",
		"",
		"2. Go Engineer (Platform)",
		"   Company: Beta & Co",
		"   Location: Pune (Remote)",
		"   Experience: 1-3",
		"   Salary: 12-16 LPA",
		"   Match Score: 40%",
		"   Apply: https://example.com/apply/2?ref=digest",
		"",
		"=====================================",
		"",
		"This digest was generated based on your preferences.",
	}, "\n")

	if got := DigestText(sampleDigest()); got != want {
		t.Fatalf("DigestText() =\n%s\nwant\n%s", got, want)
	}
}

func TestDigestTextEmpty(t *testing.T) {
	got := DigestText(models.Digest{Date: "2026-05-04", Jobs: []models.DigestJob{}})
	if !strings.Contains(got, "=====================================\n\n=====================================") {
		t.Fatalf("DigestText(empty) = %q", got)
	}
}

func TestEmailDraftURI(t *testing.T) {
	d := sampleDigest()
	got := EmailDraftURI(d)

	prefix := "mailto:?subject=My%209AM%20Job%20Digest&body="
	if !strings.HasPrefix(got, prefix) {
		t.Fatalf("EmailDraftURI() = %q, want prefix %q", got, prefix)
	}
	body := strings.TrimPrefix(got, prefix)
	if !strings.HasPrefix(body, "Top%2010%20Jobs%20For%20You%20%E2%80%94%209AM%20Digest%0ADate%3A%20Monday%2C%20May%204%2C%202026") {
		t.Fatalf("body = %q", body)
	}
	if strings.Contains(body, "+") {
		t.Fatalf("body contains '+': %q", body)
	}
	if !strings.Contains(body, "(Platform)") {
		t.Fatalf("body escapes parentheses: %q", body)
	}
	if !strings.Contains(body, "Beta%20%26%20Co") {
		t.Fatalf("body does not escape '&': %q", body)
	}

	decoded, err := url.PathUnescape(body)
	if err != nil {
		t.Fatalf("PathUnescape() error = %v", err)
	}
	if decoded != DigestText(d) {
		t.Fatalf("decoded body differs from DigestText()")
	}
}

func TestDisplayDate(t *testing.T) {
	if got := DisplayDate("2026-01-02"); got != "Friday, January 2, 2026" {
		t.Fatalf("DisplayDate() = %q", got)
	}
	if got := DisplayDate("someday"); got != "someday" {
		t.Fatalf("DisplayDate(bad) = %q, want input back", got)
	}
}

func TestWriteJobsCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJobs(&buf, sampleJobs(), FormatCSV, WriteOptions{}); err != nil {
		t.Fatalf("WriteJobs() error = %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	row := map[string]string{}
	for i, name := range records[0] {
		row[name] = records[1][i]
	}
	if row["match_score"] != "65" || row["skills"] != "React;Node" || row["posted_days_ago"] != "1" {
		t.Fatalf("row = %#v", row)
	}
}

func TestWriteJobsJSONAndYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJobs(&buf, sampleJobs(), FormatJSON, WriteOptions{}); err != nil {
		t.Fatalf("WriteJobs(json) error = %v", err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	if decoded[0]["matchScore"] != float64(65) || decoded[0]["applyUrl"] != "https://example.com/apply/1" {
		t.Fatalf("json = %#v", decoded[0])
	}

	buf.Reset()
	if err := WriteJobs(&buf, sampleJobs(), FormatYAML, WriteOptions{}); err != nil {
		t.Fatalf("WriteJobs(yaml) error = %v", err)
	}
	var fromYAML []map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &fromYAML); err != nil {
		t.Fatalf("yaml.Unmarshal() error = %v", err)
	}
	if fromYAML[0]["matchScore"] != 65 || fromYAML[0]["title"] != "Senior Developer" {
		t.Fatalf("yaml = %#v", fromYAML[0])
	}
}

func TestWriteJobsTableAnnotations(t *testing.T) {
	var buf bytes.Buffer
	opts := WriteOptions{
		Statuses: map[string]models.JobStatus{"job-1": models.StatusApplied},
		Saved:    map[string]bool{"job-1": true},
	}
	if err := WriteJobs(&buf, sampleJobs(), FormatTable, opts); err != nil {
		t.Fatalf("WriteJobs() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"job-1 *", "65%", "Applied", "1 day ago", "https://example.com/apply/1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
}

func TestWriteJobsMarkdownEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJobs(&buf, nil, FormatMarkdown, WriteOptions{}); err != nil {
		t.Fatalf("WriteJobs() error = %v", err)
	}
	if strings.TrimSpace(buf.String()) != "No results." {
		t.Fatalf("markdown = %q", buf.String())
	}
}

func TestWriteDigestFormats(t *testing.T) {
	d := sampleDigest()
	tests := []struct {
		format Format
		want   string
	}{
		{format: FormatText, want: "Top 10 Jobs For You"},
		{format: FormatEmail, want: "mailto:?subject="},
		{format: FormatJSON, want: `"date": "2026-05-04"`},
		{format: FormatYAML, want: "2026-05-04"},
		{format: FormatMarkdown, want: "1. **Senior Developer** at Acme"},
		{format: FormatTable, want: "Monday, May 4, 2026"},
		{format: FormatCSV, want: "2,job-2,40,Go Engineer (Platform),Beta & Co,Pune,Remote,1-3,12-16 LPA,"},
		{format: FormatTSV, want: "2\tjob-2\t40\t"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteDigest(&buf, d, tt.format); err != nil {
				t.Fatalf("WriteDigest() error = %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Fatalf("WriteDigest(%s) missing %q:\n%s", tt.format, tt.want, buf.String())
			}
		})
	}

	if err := WriteDigest(&bytes.Buffer{}, d, Format("xml")); err == nil {
		t.Fatalf("WriteDigest(xml) error = nil, want error")
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"":         FormatTable,
		"CSV":      FormatCSV,
		"markdown": FormatMarkdown,
		"yml":      FormatYAML,
		"mailto":   FormatEmail,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("ParseFormat(xml) error = nil, want error")
	}
}
