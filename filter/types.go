package filter

import "slices"

// Genre ids excluded from discovery lists unless configured otherwise:
// News, Reality and Talk.
var DefaultExcludedGenres = []int{10763, 10764, 10767}

// Spec is the set of predicates applied to a sensor's list each cycle.
// The zero value disables every predicate.
type Spec struct {
	MinYear           int    `json:"min_year,omitempty"`
	ExcludeGenres     []int  `json:"exclude_genres,omitempty"`
	ExcludeTalkShows  bool   `json:"exclude_talk_shows,omitempty"`
	ExcludeNonEnglish bool   `json:"exclude_non_english,omitempty"`
	HideExisting      bool   `json:"hide_existing,omitempty"`
	Expression        string `json:"expression,omitempty"`
}

// DiscoverySpec returns the defaults used by discovery sensors (TMDB, Trakt, Seer)
func DiscoverySpec() Spec {
	return Spec{
		ExcludeGenres:     slices.Clone(DefaultExcludedGenres),
		ExcludeTalkShows:  true,
		ExcludeNonEnglish: true,
		HideExisting:      true,
	}
}

// IsZero reports whether no predicate is enabled
func (s Spec) IsZero() bool {
	return s.MinYear <= 0 && len(s.ExcludeGenres) == 0 && !s.ExcludeTalkShows &&
		!s.ExcludeNonEnglish && !s.HideExisting && s.Expression == ""
}

// Reason names the predicate that rejected an item
type Reason string

const (
	ReasonNone       Reason = ""
	ReasonYear       Reason = "min_year"
	ReasonGenre      Reason = "exclude_genres"
	ReasonTalkShow   Reason = "exclude_talk_shows"
	ReasonLanguage   Reason = "exclude_non_english"
	ReasonInLibrary  Reason = "hide_existing"
	ReasonExpression Reason = "expression"
)
