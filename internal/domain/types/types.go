// Package types holds the serializable shapes the engine hands to callers.
package types

// RatingEntry is one row of the athlete rating board.
type RatingEntry struct {
	Rank      int    `json:"rank"`
	AthleteID string `json:"athlete_id"`
	FullName  string `json:"full_name"`
	Points    int    `json:"points"`
}

// ImportSummary reports what one upload produced. Skipped lines are counted
// so that silent data loss from an unrecognized layout is distinguishable
// from a clean import of a small roster.
type ImportSummary struct {
	Tournament     string `json:"tournament"`
	LinesRead      int    `json:"lines_read"`
	RowsExtracted  int    `json:"rows_extracted"`
	RowsPersisted  int    `json:"rows_persisted"`
	DuplicateRows  int    `json:"duplicate_rows"`
	LinesSkipped   int    `json:"lines_skipped"`
	PointsAwarded  int    `json:"points_awarded"`
	DuplicateBlob  bool   `json:"duplicate_blob"`
}
