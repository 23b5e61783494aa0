package catalog

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/jimezsa/jobtracker/internal/models"
)

// DecodeHTML extracts schema.org JobPosting entries from the JSON-LD blocks
// of an HTML page. base resolves relative posting URLs.
func DecodeHTML(r io.Reader, base string, now time.Time) ([]models.Job, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	jobs := []models.Job{}
	doc.Find("script[type='application/ld+json']").Each(func(_ int, s *goquery.Selection) {
		data, err := decodeJSONLD(s.Text())
		if err != nil {
			return
		}
		for _, posting := range collectPostings(data) {
			jobs = append(jobs, jobFromPosting(posting, base, now))
		}
	})
	return jobs, nil
}

func decodeJSONLD(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "<!--")
	raw = strings.TrimSuffix(raw, "-->")
	raw = strings.ReplaceAll(raw, "\u2028", "")
	raw = strings.ReplaceAll(raw, "\u2029", "")

	var data any
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &data); err != nil {
		return nil, err
	}
	return data, nil
}

func collectPostings(data any) []map[string]any {
	var postings []map[string]any

	switch value := data.(type) {
	case []any:
		for _, item := range value {
			postings = append(postings, collectPostings(item)...)
		}
	case map[string]any:
		switch strings.ToLower(stringValue(value["@type"])) {
		case "jobposting":
			return append(postings, value)
		case "itemlist":
			if items, ok := value["itemListElement"]; ok {
				postings = append(postings, collectPostings(items)...)
			}
		case "listitem":
			if item, ok := value["item"]; ok {
				postings = append(postings, collectPostings(item)...)
			}
		}
		if graph, ok := value["@graph"]; ok {
			postings = append(postings, collectPostings(graph)...)
		}
		if main, ok := value["mainEntity"]; ok {
			postings = append(postings, collectPostings(main)...)
		}
	}
	return postings
}

func jobFromPosting(value map[string]any, base string, now time.Time) models.Job {
	applyURL := absoluteURL(base, stringValue(value["url"], value["@id"]))
	job := models.Job{
		Title:       stringValue(value["title"], value["name"]),
		Company:     stringValue(mapValue(value["hiringOrganization"], "name"), value["hiringOrganization"]),
		Location:    locationFromPosting(value["jobLocation"]),
		Mode:        modeFromPosting(value),
		Experience:  experienceFromPosting(value["experienceRequirements"]),
		SalaryRange: salaryFromPosting(value["baseSalary"]),
		Skills:      skillsFromPosting(value["skills"]),
		Description: plainText(stringValue(value["description"])),
		Source:      sourceFromURL(firstNonEmpty(applyURL, base)),
		ApplyURL:    applyURL,
	}
	job.PostedDaysAgo = daysSince(stringValue(value["datePosted"]), now)
	job.ID = postingID(value, job)
	return job
}

// postingID prefers the posting's identifier, then the last URL path
// segment, then a hash of title, company and location.
func postingID(value map[string]any, job models.Job) string {
	if id := stringValue(mapValue(value["identifier"], "value"), value["identifier"]); id != "" {
		return id
	}
	if job.ApplyURL != "" {
		if u, err := url.Parse(job.ApplyURL); err == nil {
			if segment := path.Base(strings.TrimRight(u.Path, "/")); segment != "" && segment != "." && segment != "/" {
				return segment
			}
		}
	}
	sum := sha1.Sum([]byte(strings.ToLower(job.Title + "|" + job.Company + "|" + job.Location)))
	return "jsonld-" + hex.EncodeToString(sum[:6])
}

// plainText strips markup from a posting description.
func plainText(value string) string {
	value = html.UnescapeString(value)
	if strings.Contains(value, "<") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(value)); err == nil {
			value = doc.Text()
		}
	}
	return strings.Join(strings.Fields(value), " ")
}

func locationFromPosting(value any) string {
	var localities []string
	switch v := value.(type) {
	case []any:
		for _, item := range v {
			if loc := locationFromPosting(item); loc != "" {
				localities = append(localities, loc)
			}
		}
	case map[string]any:
		address := v
		if nested, ok := v["address"].(map[string]any); ok {
			address = nested
		}
		localities = append(localities, stringValue(address["addressLocality"], address["addressRegion"]))
	case string:
		localities = append(localities, v)
	}

	for _, loc := range localities {
		for _, known := range models.Locations {
			if strings.Contains(strings.ToLower(loc), strings.ToLower(known)) {
				return known
			}
		}
	}
	for _, loc := range localities {
		if loc = strings.TrimSpace(loc); loc != "" {
			return loc
		}
	}
	return ""
}

func modeFromPosting(value map[string]any) string {
	if strings.EqualFold(stringValue(value["jobLocationType"]), "TELECOMMUTE") {
		return models.ModeRemote
	}
	text := strings.ToLower(stringValue(value["title"]) + " " + stringValue(value["description"]))
	switch {
	case strings.Contains(text, "hybrid"):
		return models.ModeHybrid
	case strings.Contains(text, "remote"):
		return models.ModeRemote
	default:
		return models.ModeOnsite
	}
}

// experienceFromPosting maps monthsOfExperience onto the experience bands.
func experienceFromPosting(value any) string {
	var months float64
	switch v := value.(type) {
	case map[string]any:
		m, ok := v["monthsOfExperience"].(float64)
		if !ok {
			return ""
		}
		months = m
	case string:
		if strings.Contains(strings.ToLower(v), "no requirements") {
			return "Fresher"
		}
		return ""
	default:
		return ""
	}

	switch {
	case months <= 0:
		return "Fresher"
	case months <= 12:
		return "0-1"
	case months <= 36:
		return "1-3"
	default:
		return "3-5"
	}
}

func salaryFromPosting(value any) string {
	switch v := value.(type) {
	case map[string]any:
		currency := stringValue(v["currency"])
		inner, _ := v["value"].(map[string]any)
		if inner == nil {
			return strings.TrimSpace(stringValue(v["value"]) + " " + currency)
		}
		unit := strings.ToLower(stringValue(inner["unitText"]))
		if amount := stringValue(inner["value"]); amount != "" {
			return strings.TrimSpace(amount + " " + currency + " " + unit)
		}
		minStr := stringValue(inner["minValue"])
		maxStr := stringValue(inner["maxValue"])
		if minStr != "" && maxStr != "" {
			return strings.TrimSpace(minStr + "-" + maxStr + " " + currency + " " + unit)
		}
		return strings.TrimSpace(firstNonEmpty(minStr, maxStr) + " " + currency + " " + unit)
	case string:
		return strings.TrimSpace(v)
	}
	return ""
}

func skillsFromPosting(value any) []string {
	var raw []string
	switch v := value.(type) {
	case string:
		raw = strings.Split(v, ",")
	case []any:
		for _, item := range v {
			raw = append(raw, stringValue(item))
		}
	}
	skills := []string{}
	for _, skill := range raw {
		if skill = strings.TrimSpace(skill); skill != "" {
			skills = append(skills, skill)
		}
	}
	return skills
}

func sourceFromURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	switch {
	case strings.Contains(host, "linkedin."):
		return models.SourceLinkedIn
	case strings.Contains(host, "naukri."):
		return models.SourceNaukri
	case strings.Contains(host, "indeed."):
		return models.SourceIndeed
	default:
		return strings.TrimPrefix(host, "www.")
	}
}

func daysSince(value string, now time.Time) int {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	layouts := []string{
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02",
		"2006-01-02T15:04:05-0700",
	}
	for _, layout := range layouts {
		posted, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		days := int(now.Sub(posted).Hours() / 24)
		if days < 0 {
			return 0
		}
		return days
	}
	return 0
}

func absoluteURL(base string, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	baseURL, err := url.Parse(base)
	if err != nil || base == "" {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}

func stringValue(values ...any) string {
	for _, value := range values {
		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		case float64:
			return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
		case map[string]any:
			if name := stringValue(v["name"]); name != "" {
				return name
			}
		}
	}
	return ""
}

func mapValue(value any, key string) any {
	m, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	return m[key]
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
