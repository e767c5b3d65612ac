package projects

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"slices"
	"strings"
)

// PlaceholderImage marks a project that has no real image.
const PlaceholderImage = "/placeholder.svg"

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".webp"}

var (
	ErrDuplicateID = errors.New("duplicate project id")
	ErrEmptyTitle  = errors.New("project title is empty")
)

// Project is one portfolio entry. Empty optional fields mean "absent".
type Project struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	LiveLink     string   `json:"liveLink,omitempty"`
	GithubLink   string   `json:"githubLink,omitempty"`
	ImageURL     string   `json:"imageUrl,omitempty"`
}

// Presence is the result of checking an optional field.
type Presence int

const (
	Absent Presence = iota
	Invalid
	Valid
)

func (p Presence) String() string {
	switch p {
	case Absent:
		return "absent"
	case Invalid:
		return "invalid"
	case Valid:
		return "valid"
	default:
		return fmt.Sprintf("Presence(%d)", int(p))
	}
}

// CheckLink accepts absolute http(s) URLs with a host.
func CheckLink(raw string) Presence {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Absent
	}
	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return Invalid
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Invalid
	}
	return Valid
}

// CheckImage treats the placeholder as absent and only accepts
// .png, .jpg, .jpeg and .webp paths, either site-relative or http(s).
func CheckImage(raw string) Presence {
	s := strings.TrimSpace(raw)
	if s == "" || s == PlaceholderImage {
		return Absent
	}
	u, err := url.Parse(s)
	if err != nil {
		return Invalid
	}
	switch u.Scheme {
	case "":
		if u.Host != "" {
			return Invalid
		}
	case "http", "https":
		if u.Host == "" {
			return Invalid
		}
	default:
		return Invalid
	}
	if !slices.Contains(imageExtensions, strings.ToLower(path.Ext(u.Path))) {
		return Invalid
	}
	return Valid
}

// Validate checks the static list once at startup: ids unique, titles set.
func Validate(list []Project) error {
	var errs []error
	seen := make(map[int]bool, len(list))
	for i, p := range list {
		if seen[p.ID] {
			errs = append(errs, fmt.Errorf("project %d: %w", p.ID, ErrDuplicateID))
		}
		seen[p.ID] = true
		if strings.TrimSpace(p.Title) == "" {
			errs = append(errs, fmt.Errorf("project at position %d (id %d): %w", i, p.ID, ErrEmptyTitle))
		}
	}
	return errors.Join(errs...)
}
