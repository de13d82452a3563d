package ingestion

import (
	"encoding/json"
	"strings"
)

// rawItem mirrors the scraper actor's dataset item shape. Only the fields the
// transform consumes are declared.
type rawItem struct {
	FullName           string            `json:"fullName"`
	Headline           string            `json:"headline"`
	AddressWithCountry string            `json:"addressWithCountry"`
	LinkedinURL        string            `json:"linkedinUrl"`
	About              string            `json:"about"`
	Experiences        []rawEntry        `json:"experiences"`
	Educations         []rawEntry        `json:"educations"`
	Skills             []json.RawMessage `json:"skills"`
}

// rawEntry is the actor's generic section entry: title plus a subtitle that
// holds "Company · Employment Type" for experience and the school for
// education, with the duration in the caption.
type rawEntry struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Caption  string `json:"caption"`
}

// transformItem converts one raw dataset item into a normalized Profile.
// The requested URL is the fallback when the actor omits the canonical one.
func transformItem(item rawItem, requestedURL string) Profile {
	first, last := splitName(item.FullName)

	profileURL := item.LinkedinURL
	if profileURL == "" {
		profileURL = requestedURL
	}

	return Profile{
		FirstName:  first,
		LastName:   last,
		ProfileURL: profileURL,
		Headline:   optional(item.Headline),
		Location:   optional(item.AddressWithCountry),
		Summary:    optional(item.About),
		Experience: transformExperience(item.Experiences),
		Education:  transformEducation(item.Educations),
		Skills:     transformSkills(item.Skills),
	}
}

// splitName divides a full name into first and last parts. A single-word name
// becomes the first name with an empty last name.
func splitName(fullName string) (string, string) {
	parts := strings.Fields(strings.TrimSpace(fullName))
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}

// extractCompanyName pulls the company out of a "Company · Employment Type"
// subtitle.
func extractCompanyName(subtitle string) string {
	if subtitle == "" {
		return ""
	}
	company, _, _ := strings.Cut(subtitle, "·")
	return strings.TrimSpace(company)
}

// transformExperience normalizes experience entries, dropping rows that carry
// neither a title nor a company.
func transformExperience(entries []rawEntry) []Experience {
	var out []Experience
	for _, e := range entries {
		exp := Experience{
			Title:    strings.TrimSpace(e.Title),
			Company:  extractCompanyName(e.Subtitle),
			Duration: strings.TrimSpace(e.Caption),
		}
		if exp.Title == "" && exp.Company == "" {
			continue
		}
		out = append(out, exp)
	}
	return out
}

// transformEducation normalizes education entries, dropping rows that carry
// neither a school nor a degree.
func transformEducation(entries []rawEntry) []Education {
	var out []Education
	for _, e := range entries {
		edu := Education{
			School: strings.TrimSpace(e.Subtitle),
			Degree: strings.TrimSpace(e.Title),
		}
		if edu.School == "" && edu.Degree == "" {
			continue
		}
		out = append(out, edu)
	}
	return out
}

// transformSkills coerces the actor's mixed skill encoding (plain strings or
// {"title": ...} objects) into a flat string list.
func transformSkills(raw []json.RawMessage) []string {
	var out []string
	for _, r := range raw {
		var s string
		if err := json.Unmarshal(r, &s); err == nil {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
			continue
		}
		var obj struct {
			Title string `json:"title"`
		}
		if err := json.Unmarshal(r, &obj); err == nil {
			if t := strings.TrimSpace(obj.Title); t != "" {
				out = append(out, t)
			}
		}
	}
	return out
}

// optional converts a possibly-empty string to a nil-able field.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
