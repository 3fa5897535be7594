package classify

import (
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Result is the pair of labels assigned to one video.
type Result struct {
	Level string `json:"level"`
	Topic string `json:"topic"`
}

// Options configures a Classifier. Zero values fall back to the defaults.
type Options struct {
	// Tables holds the keyword configuration. Nil tables use the defaults.
	Tables Tables
	// LevelThreshold is the minimum level score (0-100). Default 80.
	LevelThreshold float64
	// TopicThreshold is the minimum topic score (0-100). Default 70.
	TopicThreshold float64
	// Logger receives configuration warnings. Default: the global zerolog logger.
	Logger *zerolog.Logger
}

// Classifier assigns level and topic labels. It holds private copies of its
// tables and is safe for concurrent use.
type Classifier struct {
	levels         Table
	topics         Table
	priority       Priority
	levelThreshold float64
	topicThreshold float64
}

// New builds a Classifier from opts.
func New(opts Options) *Classifier {
	defaults := DefaultTables()
	if opts.Tables.Levels == nil {
		opts.Tables.Levels = defaults.Levels
	}
	if opts.Tables.Topics == nil {
		opts.Tables.Topics = defaults.Topics
	}
	if opts.Tables.Priority == nil {
		opts.Tables.Priority = defaults.Priority
	}
	if opts.LevelThreshold <= 0 {
		opts.LevelThreshold = DefaultLevelThreshold
	}
	if opts.TopicThreshold <= 0 {
		opts.TopicThreshold = DefaultTopicThreshold
	}
	logger := log.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	c := &Classifier{
		levels:         opts.Tables.Levels.clone(),
		topics:         opts.Tables.Topics.clone(),
		priority:       make(Priority, len(opts.Tables.Priority)),
		levelThreshold: opts.LevelThreshold,
		topicThreshold: opts.TopicThreshold,
	}
	for name, rank := range opts.Tables.Priority {
		c.priority[name] = rank
	}

	// A priority entry with no matching level silently ranks that level at 0.
	known := make(map[string]bool, len(c.levels))
	for _, lvl := range c.levels {
		known[lvl.Name] = true
	}
	for name := range c.priority {
		if known[name] {
			continue
		}
		ev := logger.Warn().
			Str("priority_level", name).
			Strs("levels", c.levels.Names())
		if guess := closestName(name, c.levels.Names()); guess != "" {
			ev = ev.Str("closest_level", guess)
		}
		ev.Msg("classify: priority entry names no level")
	}

	return c
}

// closestName returns the name in names nearest to name by edit distance, or
// "" when none is similar enough to be a likely misspelling.
func closestName(name string, names []string) string {
	guess, err := edlib.FuzzySearchThreshold(name, names, 0.7, edlib.Levenshtein)
	if err != nil {
		return ""
	}
	return guess
}

// Default returns a Classifier using the built-in tables and thresholds.
func Default() *Classifier {
	nop := zerolog.Nop()
	return New(Options{Logger: &nop})
}

// levelMatch is a level that cleared the threshold.
type levelMatch struct {
	name  string
	score float64
}

// DetectLevel returns the best level for the text, or UnknownLevel.
// Among levels clearing the threshold, higher priority wins first and the
// higher score breaks ties, so a weaker "advanced" match beats a stronger
// "beginner" one.
func (c *Classifier) DetectLevel(title, description string) string {
	text := blob(title, description)

	var matches []levelMatch
	for _, lvl := range c.levels {
		best := bestScore(lvl.Phrases, text)
		if best >= c.levelThreshold {
			matches = append(matches, levelMatch{name: lvl.Name, score: best})
		}
	}

	if len(matches) == 0 {
		return UnknownLevel
	}

	sort.SliceStable(matches, func(i, j int) bool {
		pi, pj := c.priority[matches[i].name], c.priority[matches[j].name]
		if pi != pj {
			return pi > pj
		}
		return matches[i].score > matches[j].score
	})

	return matches[0].name
}

// DetectTopic returns the single best-scoring topic, or OtherTopics when no
// phrase reaches the threshold. The first topic to reach a score keeps it.
func (c *Classifier) DetectTopic(title, description string) string {
	text := blob(title, description)

	bestTopic := ""
	best := 0.0
	for _, topic := range c.topics {
		for _, phrase := range topic.Phrases {
			if score := PartialRatio(strings.ToLower(phrase), text); score > best {
				best = score
				bestTopic = topic.Name
			}
		}
	}

	if best < c.topicThreshold {
		return OtherTopics
	}
	return bestTopic
}

// Classify returns both labels for one video.
func (c *Classifier) Classify(title, description string) Result {
	return Result{
		Level: c.DetectLevel(title, description),
		Topic: c.DetectTopic(title, description),
	}
}

// blob joins and folds the text. Trimming keeps an empty title and
// description from leaving a lone space that matches multi-word phrases.
func blob(title, description string) string {
	return strings.TrimSpace(strings.ToLower(title + " " + description))
}

func bestScore(phrases []string, text string) float64 {
	best := 0.0
	for _, phrase := range phrases {
		if score := PartialRatio(strings.ToLower(phrase), text); score > best {
			best = score
		}
	}
	return best
}
