package site

import (
	"fmt"
	"io/fs"
	"net/url"
	"path"
	"strings"

	"github.com/vempatir/portfolio/internal/projects"
	"github.com/vempatir/portfolio/internal/web"
)

// Content is the hard-coded material the page is built from.
type Content struct {
	Name         string
	Intro        string
	About        []string
	Labels       []string
	Projects     []projects.Project
	Email        string
	EmailDisplay string
}

// HeroLabel feeds the "hero-label" template.
type HeroLabel struct {
	Index     int
	Label     string
	StreamURL string
}

// CardView is a rendered card plus the hrefs its link affordances point at.
type CardView struct {
	projects.Card
	LiveHref   string
	SourceHref string
}

// Page is the immutable view model for index.html.
type Page struct {
	Theme        Theme
	ToggleHref   string
	Name         string
	Intro        string
	Hero         HeroLabel
	About        []string
	Cards        []CardView
	EmailDisplay string
	CopyURL      string
	CopyText     string
	PrivacyURL   string
	Year         int
}

// PrivacyPage feeds privacy.html.
type PrivacyPage struct {
	Theme         Theme
	Name          string
	Tracking      bool
	RetentionDays int
}

type pageMode int

const (
	// modeServed routes links through /out and copies through the server.
	modeServed pageMode = iota
	// modeStatic is a standalone file: direct links, browser-side copy, no stream.
	modeStatic
)

func (s *Server) page(theme Theme, mode pageMode) Page {
	p := Page{
		Theme:        theme,
		ToggleHref:   "/?theme=" + string(theme.Toggle()),
		Name:         s.content.Name,
		Intro:        s.content.Intro,
		Hero:         HeroLabel{Index: 0, Label: s.content.Labels[0]},
		About:        s.content.About,
		EmailDisplay: s.content.EmailDisplay,
		Year:         s.now().Year(),
	}

	if mode == modeServed {
		p.Hero.StreamURL = "/hero/label/stream"
		p.CopyURL = "/contact/copy"
		p.PrivacyURL = "/privacy"
	} else {
		p.CopyText = s.content.Email
	}

	for _, card := range s.catalog.Cards() {
		if card.HasImage() && !s.imageServed(card.Image.URL) {
			card.Image = nil
			card.Layout = projects.LayoutFull
		}
		view := CardView{Card: card}
		if link, ok := card.Link(projects.LinkLive); ok {
			view.LiveHref = linkHref(card.ID, link, mode)
		}
		if link, ok := card.Link(projects.LinkSource); ok {
			view.SourceHref = linkHref(card.ID, link, mode)
		}
		p.Cards = append(p.Cards, view)
	}
	return p
}

func linkHref(id int, link projects.Link, mode pageMode) string {
	if mode == modeStatic {
		return link.URL
	}
	return fmt.Sprintf("/out/%d/%s", id, link.Kind)
}

// imageServed reports whether src resolves to something this server can
// deliver. Remote images are trusted; site-relative ones must exist under
// /images or /static.
func (s *Server) imageServed(src string) bool {
	u, err := url.Parse(src)
	if err != nil {
		return false
	}
	if u.Scheme != "" {
		return true
	}

	name := path.Clean("/" + u.Path)
	switch {
	case strings.HasPrefix(name, "/images/") && s.images != nil:
		_, err = fs.Stat(s.images, strings.TrimPrefix(name, "/images/"))
	case strings.HasPrefix(name, "/static/"):
		_, err = fs.Stat(web.Static(), strings.TrimPrefix(name, "/static/"))
	default:
		return false
	}
	return err == nil
}
