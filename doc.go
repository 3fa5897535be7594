// Package ytlessons collects YouTube guitar lesson metadata and labels each
// video with a skill level and a topic.
//
// Overview
//
// Work happens in two stages:
//
//   - Search: paged search.list calls collect up to N video IDs for a query.
//   - Metadata: videos.list calls in batches of 50 return snippet, statistics
//     and content details; every video is classified once.
//
// Classification is a fuzzy keyword match over the lower-cased title and
// description. A level must score at least 80 and a topic at least 70 on a
// 0-100 partial-similarity scale. Among matching levels the highest priority
// wins (advanced > intermediate > beginner), then the highest score.
//
// Quick Start
//
// Label text without calling the API:
//
//	c := classify.Default()
//	res := c.Classify("Beginner Guitar: Open Chords for Absolute Starters", "")
//	fmt.Println(res.Level, res.Topic) // beginner Chords
//
// Fetch and save:
//
//	f, err := youtube.NewFetcher(os.Getenv("YOUTUBE_API_KEY"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	records, err := f.SearchAndFetch(ctx, "guitar lessons", 200, false)
//	if err != nil {
//		log.Fatal(err)
//	}
//	_, err = storage.Save("data/raw/guitar_raw.json", records, storage.SaveOptions{Parquet: true})
//
// Configuration
//
// The config package loads settings from, lowest priority first, defaults,
// ytlessons.json (working directory or ~/.config/ytlessons/), a .env file and
// environment variables:
//
//   - YOUTUBE_API_KEY: Data API v3 key (required for fetching)
//   - YTLESSONS_RATE_LIMIT_PAUSE: pause between pages and records (e.g. 800ms)
//   - YTLESSONS_SEARCH_PAGE_SIZE, YTLESSONS_METADATA_BATCH_SIZE: 1-50
//   - YTLESSONS_LEVEL_THRESHOLD, YTLESSONS_TOPIC_THRESHOLD: 0-100
//   - YTLESSONS_KEYWORDS_FILE: JSON keyword table override
//   - YTLESSONS_LOG_LEVEL: zerolog level name
//
// Error Handling
//
//	var fetchErr *ytlessons.FetchError
//	if errors.As(err, &fetchErr) {
//		fmt.Printf("%s failed for %q: %v\n", fetchErr.Op, fetchErr.Query, fetchErr.Err)
//	}
//
// Sub-packages:
//
//   - classify: keyword tables, fuzzy scoring and the level/topic classifier
//   - youtube: Data API fetcher, pacing and the VideoRecord type
//   - storage: JSON output with optional Parquet mirror
//   - config: configuration loading
package ytlessons
