package models

import "time"

// SavedResult is a persisted test result, addressable by an opaque ID for
// shareable URLs. AIAnalysis is filled in later by the background analysis
// job, if the user requested one.
type SavedResult struct {
	ID          string             `db:"id"           json:"id"`
	Profile     PersonalityProfile `db:"profile_json" json:"profile"`
	UserContext *string            `db:"user_context" json:"user_context,omitempty"`
	AIAnalysis  *string            `db:"ai_analysis"  json:"ai_analysis,omitempty"`
	Lang        string             `db:"lang"         json:"lang"`
	CreatedAt   time.Time          `db:"created_at"   json:"created_at"`
}
