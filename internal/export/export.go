package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/jimezsa/jobtracker/internal/match"
	"github.com/jimezsa/jobtracker/internal/models"
	"github.com/jimezsa/jobtracker/internal/ui"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatTSV      Format = "tsv"
	FormatYAML     Format = "yaml"
	FormatText     Format = "text"
	FormatEmail    Format = "email"
)

// ParseFormat accepts the list formats plus "markdown" and "yml" aliases.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", string(FormatTable):
		return FormatTable, nil
	case string(FormatCSV):
		return FormatCSV, nil
	case string(FormatTSV):
		return FormatTSV, nil
	case string(FormatJSON):
		return FormatJSON, nil
	case string(FormatMarkdown), "markdown":
		return FormatMarkdown, nil
	case string(FormatYAML), "yml":
		return FormatYAML, nil
	case string(FormatText), "txt":
		return FormatText, nil
	case string(FormatEmail), "mailto":
		return FormatEmail, nil
	default:
		return "", fmt.Errorf("unknown format %q", value)
	}
}

type WriteOptions struct {
	ColorEnabled bool
	Hyperlinks   bool
	LinkStyle    LinkStyle
	// Statuses and Saved annotate table rows; both may be nil.
	Statuses map[string]models.JobStatus
	Saved    map[string]bool
}

type LinkStyle string

const (
	LinkStyleShort LinkStyle = "short"
	LinkStyleFull  LinkStyle = "full"
)

func WriteJobs(w io.Writer, jobs []models.ScoredJob, format Format, opts WriteOptions) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, jobs)
	case FormatYAML:
		return writeYAML(w, jobs)
	case FormatCSV:
		return writeCSV(w, jobs, ',')
	case FormatTSV:
		return writeCSV(w, jobs, '\t')
	case FormatMarkdown:
		return writeMarkdown(w, jobs)
	case FormatTable, "":
		return writeTable(w, jobs, opts)
	default:
		return fmt.Errorf("format %q is not supported for job lists", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func writeCSV(w io.Writer, jobs []models.ScoredJob, delim rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = delim
	if err := writer.Write(csvHeader()); err != nil {
		return err
	}
	for _, job := range jobs {
		if err := writer.Write(csvRow(job)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeTable(w io.Writer, jobs []models.ScoredJob, opts WriteOptions) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(tableHeader(), "\t"))
	output := termenv.NewOutput(w)
	for _, job := range jobs {
		fmt.Fprintln(tw, strings.Join(tableRow(job, output, opts), "\t"))
	}
	return tw.Flush()
}

func writeMarkdown(w io.Writer, jobs []models.ScoredJob) error {
	if len(jobs) == 0 {
		_, err := fmt.Fprintln(w, "No results.")
		return err
	}
	for _, job := range jobs {
		applyLine := "  Apply: -"
		if link := safe(job.ApplyURL); link != "" {
			applyLine = fmt.Sprintf("  Apply: [Open listing](<%s>)", link)
		}
		lines := []string{
			fmt.Sprintf("- **%s** (%s) %d%% %s", safe(job.Title), safe(job.Company), job.MatchScore, match.BandFor(job.MatchScore).Label),
			fmt.Sprintf("  Location: %s (%s)", safe(job.Location), safe(job.Mode)),
			fmt.Sprintf("  Experience: %s", safe(job.Experience)),
			fmt.Sprintf("  Source: %s, %s", safe(job.Source), postedLabel(job.PostedDaysAgo)),
			applyLine,
		}
		if job.SalaryRange != "" {
			lines = append(lines, fmt.Sprintf("  Salary: %s", safe(job.SalaryRange)))
		}
		if len(job.Skills) > 0 {
			lines = append(lines, fmt.Sprintf("  Skills: %s", strings.Join(job.Skills, ", ")))
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func csvHeader() []string {
	return []string{
		"id",
		"title",
		"company",
		"location",
		"mode",
		"experience",
		"salary_range",
		"skills",
		"source",
		"posted_days_ago",
		"match_score",
		"apply_url",
	}
}

func csvRow(job models.ScoredJob) []string {
	return []string{
		job.ID,
		job.Title,
		job.Company,
		job.Location,
		job.Mode,
		job.Experience,
		job.SalaryRange,
		strings.Join(job.Skills, ";"),
		job.Source,
		strconv.Itoa(job.PostedDaysAgo),
		strconv.Itoa(job.MatchScore),
		job.ApplyURL,
	}
}

func postedLabel(days int) string {
	switch days {
	case 0:
		return "today"
	case 1:
		return "1 day ago"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}

func safe(value string) string {
	return strings.TrimSpace(value)
}

func tableHeader() []string {
	return []string{
		"id",
		"score",
		"title",
		"company",
		"location",
		"mode",
		"posted",
		"status",
		"apply",
	}
}

func tableRow(job models.ScoredJob, output *termenv.Output, opts WriteOptions) []string {
	link := safe(job.ApplyURL)
	displayURL := "-"
	if link != "" {
		displayURL = link
		if opts.LinkStyle == LinkStyleShort && opts.Hyperlinks {
			displayURL = shortURLLabel(link)
		}
		displayURL = ui.ColorizeLink(output, opts.ColorEnabled, displayURL)
		if opts.Hyperlinks {
			displayURL = hyperlink(link, displayURL)
		}
	}

	id := safe(job.ID)
	if opts.Saved[job.ID] {
		id += " *"
	}

	status := models.StatusNotApplied
	if s, ok := opts.Statuses[job.ID]; ok && s != "" {
		status = s
	}

	score := fmt.Sprintf("%d%%", job.MatchScore)
	score = ui.ColorizeScore(output, opts.ColorEnabled, job.MatchScore, score)

	return []string{
		id,
		score,
		safe(job.Title),
		safe(job.Company),
		safe(job.Location),
		safe(job.Mode),
		postedLabel(job.PostedDaysAgo),
		string(status),
		displayURL,
	}
}

func hyperlink(link string, text string) string {
	const esc = "\x1b"
	return esc + "]8;;" + link + esc + "\\" + text + esc + "]8;;" + esc + "\\"
}

func shortURLLabel(raw string) string {
	const maxLen = 60
	label := strings.TrimSpace(raw)
	if parsed, err := url.Parse(raw); err == nil {
		host := strings.TrimPrefix(parsed.Host, "www.")
		if host != "" {
			label = host + parsed.Path
		}
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = raw
	}
	if len(label) > maxLen {
		label = label[:maxLen-3] + "..."
	}
	return label
}
