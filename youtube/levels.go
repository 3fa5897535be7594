package youtube

import (
	"context"
)

// LevelQuery is a search query whose results are tagged with a lesson level.
type LevelQuery struct {
	Level string `json:"level"`
	Query string `json:"query"`
}

// DefaultLevelQueries returns the built-in per-level queries in fetch order.
func DefaultLevelQueries() []LevelQuery {
	return []LevelQuery{
		{Level: "beginner", Query: "beginner guitar lessons tutorial"},
		{Level: "intermediate", Query: "intermediate guitar lessons tutorial"},
		{Level: "advanced", Query: "advanced guitar lessons tutorial"},
	}
}

// FetchAllLevels runs SearchAndFetch for each query in order, stamps every
// record with the query's level and returns the concatenation. Records found
// by more than one query appear once per query. On error the records
// collected so far are returned alongside it.
func (f *Fetcher) FetchAllLevels(ctx context.Context, queries []LevelQuery, maxPerLevel int, transcripts bool) ([]VideoRecord, error) {
	all := make([]VideoRecord, 0)

	for _, q := range queries {
		f.logger.Info().Str("lesson_level", q.Level).Str("query", q.Query).Msg("youtube: fetching level")

		records, err := f.SearchAndFetch(ctx, q.Query, maxPerLevel, transcripts)
		if err != nil {
			return all, err
		}
		for i := range records {
			records[i].LessonLevel = q.Level
		}
		all = append(all, records...)

		f.logger.Info().
			Str("lesson_level", q.Level).
			Int("videos", len(records)).
			Msg("youtube: level fetched")
	}

	return all, nil
}
