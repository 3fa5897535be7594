// Package classify labels lesson videos with a skill level and a topic using
// fuzzy keyword matching against title and description text.
package classify

import (
	"encoding/json"
	"fmt"
	"os"
)

// Sentinel labels returned when nothing clears the acceptance threshold.
const (
	UnknownLevel = "unknown"
	OtherTopics  = "Other Topics"
)

// Default acceptance thresholds on the 0-100 similarity scale.
const (
	DefaultLevelThreshold = 80.0
	DefaultTopicThreshold = 70.0
)

// Category is a label and the trigger phrases that vote for it.
type Category struct {
	// Name is the label assigned when this category wins.
	Name string `json:"name"`
	// Phrases are matched case-insensitively against the video text.
	Phrases []string `json:"phrases"`
}

// Table is an ordered list of categories. Order breaks ties: earlier
// categories win when scores (and priorities) are equal.
type Table []Category

// Names returns the category names in table order.
func (t Table) Names() []string {
	names := make([]string, len(t))
	for i, c := range t {
		names[i] = c.Name
	}
	return names
}

// clone returns a deep copy so callers cannot mutate a classifier's tables.
func (t Table) clone() Table {
	out := make(Table, len(t))
	for i, c := range t {
		out[i] = Category{Name: c.Name, Phrases: append([]string(nil), c.Phrases...)}
	}
	return out
}

// Priority ranks level names. Higher wins. Levels missing from the map rank 0.
type Priority map[string]int

// DefaultLevels returns the built-in level table.
func DefaultLevels() Table {
	return Table{
		{Name: "beginner", Phrases: []string{"beginner", "basic", "fundamental", "easy", "open chord", "sus"}},
		{Name: "intermediate", Phrases: []string{"intermediate", "bar chord", "7th", "seventh", "add9", "beautiful chord", "add6/9"}},
		{Name: "advanced", Phrases: []string{"advance", "4th chord", "fourth chord", "drop 2 voicings", "4th", "fourth"}},
	}
}

// DefaultTopics returns the built-in topic table. "Other Topics" has no
// phrases and is only ever reached through the threshold fallback.
func DefaultTopics() Table {
	return Table{
		{Name: "Chords", Phrases: []string{"chord", "bar", "7th", "seventh", "open chord"}},
		{Name: "Scales", Phrases: []string{"scale", "pentatonic"}},
		{Name: "Technique", Phrases: []string{"pick", "strumming", "alternate picking"}},
		{Name: "Arpeggios", Phrases: []string{"arp", "arpeggio"}},
		{Name: "Learning songs", Phrases: []string{"song", "play", "cover"}},
		{Name: "Improvisation", Phrases: []string{"improv", "improvisation", "solo", "phrasing"}},
		{Name: OtherTopics, Phrases: []string{}},
	}
}

// DefaultPriority returns the built-in level ranking.
func DefaultPriority() Priority {
	return Priority{
		"advanced":     3,
		"intermediate": 2,
		"beginner":     1,
	}
}

// Tables bundles the keyword configuration for a Classifier.
type Tables struct {
	Levels   Table    `json:"levels"`
	Topics   Table    `json:"topics"`
	Priority Priority `json:"priority"`
}

// DefaultTables returns the built-in keyword configuration.
func DefaultTables() Tables {
	return Tables{
		Levels:   DefaultLevels(),
		Topics:   DefaultTopics(),
		Priority: DefaultPriority(),
	}
}

// LoadTables reads a JSON keyword file. Sections missing from the file keep
// their defaults, so a file may override only the topics, for instance.
func LoadTables(path string) (Tables, error) {
	tables := DefaultTables()

	data, err := os.ReadFile(path)
	if err != nil {
		return tables, fmt.Errorf("read keyword tables: %w", err)
	}

	var override Tables
	if err := json.Unmarshal(data, &override); err != nil {
		return tables, fmt.Errorf("parse keyword tables %s: %w", path, err)
	}

	if override.Levels != nil {
		tables.Levels = override.Levels
	}
	if override.Topics != nil {
		tables.Topics = override.Topics
	}
	if override.Priority != nil {
		tables.Priority = override.Priority
	}

	if err := tables.Validate(); err != nil {
		return tables, fmt.Errorf("keyword tables %s: %w", path, err)
	}
	return tables, nil
}

// Validate rejects tables with unnamed or duplicated categories.
func (t Tables) Validate() error {
	for kind, table := range map[string]Table{"level": t.Levels, "topic": t.Topics} {
		seen := make(map[string]bool, len(table))
		for i, c := range table {
			if c.Name == "" {
				return fmt.Errorf("%s %d has no name", kind, i)
			}
			if seen[c.Name] {
				return fmt.Errorf("duplicate %s %q", kind, c.Name)
			}
			seen[c.Name] = true
		}
	}
	return nil
}
