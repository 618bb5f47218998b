package extract

import (
	"regexp"
	"strings"

	"dociq/internal/domain"
)

// ResumeFields are the six canonical resume fields, in output order.
var ResumeFields = []string{
	"FullName", "Email", "PhoneNumber", "Skills", "WorkExperience", "Education",
}

var (
	emailRe      = regexp.MustCompile(`[\w.-]+@[\w.-]+`)
	phoneRe      = regexp.MustCompile(`\+?\d[\d\s\-()]{7,}\d`)
	skillsRe     = regexp.MustCompile(`(?i)Skills[:\s\n]+([\w\s,\-.;]+)`)
	educationRe  = regexp.MustCompile(`(?i)Education[:\s\n]+([\w\s,\-.;()\d]+)`)
	experienceRe = regexp.MustCompile(`(?i)Experience[:\s\n]+([\w\s,\-.;()\d]+)`)
	dateRangeRe  = regexp.MustCompile(`\d+-\d+`)
	digitRe      = regexp.MustCompile(`\d`)
)

// ParseResume runs the tolerant deterministic resume pass. Unlike the
// receipt pass, individual fields may come back empty or invalid without
// aborting anything; the cascade later fills those from the model.
func ParseResume(text string) domain.FieldMap {
	result := domain.FieldMap{
		"FullName":       nil,
		"Email":          nil,
		"PhoneNumber":    nil,
		"Skills":         []interface{}{},
		"WorkExperience": []interface{}{},
		"Education":      []interface{}{},
	}

	if m := emailRe.FindString(text); m != "" {
		result["Email"] = m
	}
	if m := phoneRe.FindString(text); m != "" {
		result["PhoneNumber"] = m
	}

	// Name heuristic: first non-empty line carrying no digits or email.
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.ContainsAny(line, "@0123456789") {
			continue
		}
		result["FullName"] = line
		break
	}

	if m := skillsRe.FindStringSubmatch(text); m != nil {
		var skills []interface{}
		for _, s := range regexp.MustCompile(`[,;\n]`).Split(m[1], -1) {
			if s = strings.TrimSpace(s); s != "" {
				skills = append(skills, s)
			}
		}
		if skills != nil {
			result["Skills"] = skills
		}
	}

	if m := educationRe.FindStringSubmatch(text); m != nil {
		var entries []interface{}
		for _, e := range splitSectionEntries(m[1]) {
			entries = append(entries, map[string]interface{}{
				"Institution":    e,
				"Degree":         nil,
				"GraduationYear": nil,
			})
		}
		if entries != nil {
			result["Education"] = entries
		}
	}

	if m := experienceRe.FindStringSubmatch(text); m != nil {
		var entries []interface{}
		for _, e := range splitSectionEntries(m[1]) {
			entries = append(entries, map[string]interface{}{
				"Company": e,
				"Role":    nil,
				"Dates":   nil,
			})
		}
		if entries != nil {
			result["WorkExperience"] = entries
		}
	}

	return result
}

func splitSectionEntries(section string) []string {
	var out []string
	for _, e := range regexp.MustCompile(`[;\n]`).Split(section, -1) {
		if e = strings.TrimSpace(e); e != "" {
			out = append(out, e)
		}
	}
	return out
}

// IsPlausiblePhone rejects values the phone regex commonly mistakes for
// phone numbers. A digit-dash-digit sequence looks like a date range
// ("03-2020"), and anything with fewer than 10 digits is not a full
// phone number.
func IsPlausiblePhone(phone string) bool {
	if phone == "" {
		return false
	}
	if dateRangeRe.MatchString(phone) {
		return false
	}
	return len(digitRe.FindAllString(phone, -1)) >= 10
}

// ResumeFieldValid reports whether a deterministic resume field value is
// good enough to keep. Empty values and empty lists are invalid, and
// PhoneNumber must additionally pass the plausibility check.
func ResumeFieldValid(field string, value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		if v == "" {
			return false
		}
		if field == "PhoneNumber" {
			return IsPlausiblePhone(v)
		}
		return true
	case []interface{}:
		return len(v) > 0
	default:
		return true
	}
}
