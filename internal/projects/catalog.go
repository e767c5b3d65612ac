// Package projects holds the portfolio's project list and turns each
// project into a card description for the templates.
package projects

import "fmt"

// Catalog is a validated, read-only project list.
type Catalog struct {
	projects []Project
	byID     map[int]int
}

func NewCatalog(list []Project) (*Catalog, error) {
	if err := Validate(list); err != nil {
		return nil, fmt.Errorf("invalid project list: %w", err)
	}
	c := &Catalog{
		projects: make([]Project, len(list)),
		byID:     make(map[int]int, len(list)),
	}
	for i, p := range list {
		p.Technologies = append([]string(nil), p.Technologies...)
		c.projects[i] = p
		c.byID[p.ID] = i
	}
	return c, nil
}

func (c *Catalog) Len() int { return len(c.projects) }

func (c *Catalog) Get(id int) (Project, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Project{}, false
	}
	return c.projects[i], true
}

// Cards renders every project in list order.
func (c *Catalog) Cards() []Card {
	cards := make([]Card, 0, len(c.projects))
	for _, p := range c.projects {
		cards = append(cards, Render(p))
	}
	return cards
}

// LinkTarget returns the URL behind a project's link affordance. It is false
// when the project is unknown or the card would not draw that link.
func (c *Catalog) LinkTarget(id int, kind LinkKind) (string, bool) {
	p, ok := c.Get(id)
	if !ok {
		return "", false
	}
	link, ok := Render(p).Link(kind)
	return link.URL, ok
}
