package projects

import "strings"

type LinkKind string

const (
	LinkLive   LinkKind = "live"
	LinkSource LinkKind = "source"
)

// ParseLinkKind reports whether s names a link affordance.
func ParseLinkKind(s string) (LinkKind, bool) {
	switch k := LinkKind(s); k {
	case LinkLive, LinkSource:
		return k, true
	}
	return "", false
}

type Layout string

const (
	// LayoutFull gives the content block the whole card width.
	LayoutFull Layout = "full"
	// LayoutSplit puts the image beside the content on wide screens.
	LayoutSplit Layout = "split"
)

type Image struct {
	URL string
	Alt string
}

type Link struct {
	Kind LinkKind
	URL  string
}

// Card is what a project renders to. Nil Image and missing Links mean the
// affordance is not drawn.
type Card struct {
	ID          int
	Title       string
	Description string
	Tags        []string
	Image       *Image
	Links       []Link
	Layout      Layout
}

func (c Card) HasImage() bool { return c.Image != nil }

// Link returns the affordance of the given kind, if the card has one.
func (c Card) Link(kind LinkKind) (Link, bool) {
	for _, l := range c.Links {
		if l.Kind == kind {
			return l, true
		}
	}
	return Link{}, false
}

// Render projects p onto a card. It has no side effects and never fails;
// optional fields that are absent or invalid drop their affordance.
func Render(p Project) Card {
	card := Card{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Tags:        append([]string{}, p.Technologies...),
		Layout:      LayoutFull,
	}

	// validation trims, so the stored value must be the trimmed one too
	if img := strings.TrimSpace(p.ImageURL); CheckImage(img) == Valid {
		card.Image = &Image{URL: img, Alt: p.Title}
		card.Layout = LayoutSplit
	}
	if live := strings.TrimSpace(p.LiveLink); CheckLink(live) == Valid {
		card.Links = append(card.Links, Link{Kind: LinkLive, URL: live})
	}
	if src := strings.TrimSpace(p.GithubLink); CheckLink(src) == Valid {
		card.Links = append(card.Links, Link{Kind: LinkSource, URL: src})
	}
	return card
}
