package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jimezsa/jobtracker/internal/models"
)

const (
	digestBanner    = "Top 10 Jobs For You — 9AM Digest"
	digestSeparator = "====================================="
	digestFooter    = "This digest was generated based on your preferences."
	emailSubject    = "My 9AM Job Digest"
)

// DisplayDate renders a YYYY-MM-DD key as "Monday, January 2, 2006". Keys
// that do not parse are returned unchanged.
func DisplayDate(date string) string {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return parsed.Format("Monday, January 2, 2006")
}

// DigestText is the plain-text rendering used for copy and email.
func DigestText(d models.Digest) string {
	lines := []string{
		digestBanner,
		"Date: " + DisplayDate(d.Date),
		"",
		digestSeparator,
		"",
	}
	for i, job := range d.Jobs {
		lines = append(lines,
			fmt.Sprintf("%d. %s", i+1, job.Title),
			"   Company: "+job.Company,
			fmt.Sprintf("   Location: %s (%s)", job.Location, job.Mode),
			"   Experience: "+job.Experience,
			"   Salary: "+job.SalaryRange,
			fmt.Sprintf("   Match Score: %d%%", job.MatchScore),
			"   Apply: "+job.ApplyURL,
			"",
		)
	}
	lines = append(lines, digestSeparator, "", digestFooter)
	return strings.Join(lines, "\n")
}

// EmailDraftURI returns a mailto: link with the digest text as the body.
func EmailDraftURI(d models.Digest) string {
	return "mailto:?subject=" + encodeComponent(emailSubject) + "&body=" + encodeComponent(DigestText(d))
}

// componentUnescape restores the characters a URI component leaves literal
// but url.QueryEscape encodes.
var componentUnescape = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

func encodeComponent(s string) string {
	return componentUnescape.Replace(url.QueryEscape(s))
}

// WriteDigest renders d in format. Table and markdown list the jobs; text
// and email use DigestText and EmailDraftURI.
func WriteDigest(w io.Writer, d models.Digest, format Format) error {
	switch format {
	case FormatText:
		_, err := fmt.Fprintln(w, DigestText(d))
		return err
	case FormatEmail:
		_, err := fmt.Fprintln(w, EmailDraftURI(d))
		return err
	case FormatJSON:
		return writeJSON(w, d)
	case FormatYAML:
		return writeYAML(w, d)
	case FormatMarkdown:
		return writeDigestMarkdown(w, d)
	case FormatCSV:
		return writeDigestCSV(w, d, ',')
	case FormatTSV:
		return writeDigestCSV(w, d, '\t')
	case FormatTable, "":
		return writeDigestTable(w, d)
	default:
		return fmt.Errorf("format %q is not supported for digests", format)
	}
}

func writeDigestMarkdown(w io.Writer, d models.Digest) error {
	if _, err := fmt.Fprintf(w, "## Top %d jobs, %s\n\n", len(d.Jobs), DisplayDate(d.Date)); err != nil {
		return err
	}
	if len(d.Jobs) == 0 {
		_, err := fmt.Fprintln(w, "No jobs in this digest.")
		return err
	}
	for i, job := range d.Jobs {
		_, err := fmt.Fprintf(w, "%d. **%s** at %s, %s (%s), %s, %d%% [Apply](<%s>)\n",
			i+1, safe(job.Title), safe(job.Company), safe(job.Location), safe(job.Mode),
			safe(job.SalaryRange), job.MatchScore, safe(job.ApplyURL))
		if err != nil {
			return err
		}
	}
	return nil
}

func writeDigestCSV(w io.Writer, d models.Digest, delim rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = delim
	if err := writer.Write([]string{"rank", "id", "score", "title", "company", "location", "mode", "experience", "salary", "apply_url"}); err != nil {
		return err
	}
	for i, job := range d.Jobs {
		if err := writer.Write([]string{
			strconv.Itoa(i + 1),
			safe(job.ID),
			strconv.Itoa(job.MatchScore),
			safe(job.Title),
			safe(job.Company),
			safe(job.Location),
			safe(job.Mode),
			safe(job.Experience),
			safe(job.SalaryRange),
			safe(job.ApplyURL),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeDigestTable(w io.Writer, d models.Digest) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "# %s\n", DisplayDate(d.Date))
	fmt.Fprintln(tw, "rank\tscore\ttitle\tcompany\tlocation\tsalary")
	for i, job := range d.Jobs {
		fmt.Fprintf(tw, "%d\t%d%%\t%s\t%s\t%s\t%s\n",
			i+1, job.MatchScore, safe(job.Title), safe(job.Company), safe(job.Location), safe(job.SalaryRange))
	}
	return tw.Flush()
}
