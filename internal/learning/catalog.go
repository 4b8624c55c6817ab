// Package learning serves the static course catalog and the AI learning module,
// a stepper over fixed sign decks.
package learning

import (
	_ "embed"
	"fmt"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Level is a course tier shown on the student dashboard.
type Level struct {
	ID          string   `yaml:"id" json:"id" validate:"required,oneof=beginner intermediate advanced"`
	Title       string   `yaml:"title" json:"title" validate:"required"`
	Subtitle    string   `yaml:"subtitle" json:"subtitle"`
	Description string   `yaml:"description" json:"description"`
	Features    []string `yaml:"features" json:"features"`
	Price       string   `yaml:"price" json:"price"`
}

// Sign is one card of a lesson deck.
type Sign struct {
	Label       string `yaml:"label" json:"label" validate:"required"`
	Image       string `yaml:"image" json:"image" validate:"required,url"`
	Description string `yaml:"description" json:"description"`
}

// Lesson is an ordered deck of signs.
type Lesson struct {
	ID          string `yaml:"id" json:"id" validate:"required"`
	Title       string `yaml:"title" json:"title" validate:"required"`
	Description string `yaml:"description" json:"description"`
	Signs       []Sign `yaml:"signs" json:"signs" validate:"min=1,dive"`
}

// Catalog holds every level and AI lesson.
type Catalog struct {
	Levels  []Level  `yaml:"levels" json:"levels" validate:"dive"`
	Lessons []Lesson `yaml:"lessons" json:"lessons" validate:"min=1,unique=ID,dive"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultCatalog returns the catalog compiled into the binary.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// ParseCatalog decodes and checks a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if err := validate.Struct(c); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return &c, nil
}

// Lesson looks a lesson up by id.
func (c *Catalog) Lesson(id string) (Lesson, bool) {
	for _, l := range c.Lessons {
		if l.ID == id {
			return l, true
		}
	}
	return Lesson{}, false
}

// TotalSigns counts signs across all lessons.
func (c *Catalog) TotalSigns() int {
	var n int
	for _, l := range c.Lessons {
		n += len(l.Signs)
	}
	return n
}
