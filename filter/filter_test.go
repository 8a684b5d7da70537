package filter

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/mediarr/content"
)

type fakeLibrary struct {
	titles map[string]bool
	err    error
	calls  int
}

func (f *fakeLibrary) Contains(ctx context.Context, item content.Item) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return f.titles[item.Title], nil
}

func TestApplyMinYearAndGenres(t *testing.T) {
	items := []content.Item{
		{ID: "a", Title: "A", Year: 2019},
		{ID: "b", Title: "B", Year: 2021, GenreIDs: []int{10763}},
		{ID: "c", Title: "C", Year: 2022},
	}
	spec := Spec{MinYear: 2020, ExcludeGenres: []int{10763}}

	got := Apply(items, spec)

	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, 2022, got[0].Year)
}

func TestApplyUnknownYearPasses(t *testing.T) {
	items := []content.Item{{ID: "x", Title: "No Date"}}
	got := Apply(items, Spec{MinYear: 2020})
	assert.Len(t, got, 1)
}

func TestApplyTalkShows(t *testing.T) {
	items := []content.Item{
		{ID: "1", Title: "Jimmy Kimmel Live", MediaType: content.MediaTypeShow},
		{ID: "2", Title: "The Late Show with Stephen Colbert", MediaType: content.MediaTypeShow},
		{ID: "3", Title: "Severance", MediaType: content.MediaTypeShow},
		// Talk show detection only applies to shows
		{ID: "4", Title: "The News Movie", MediaType: content.MediaTypeMovie},
	}

	got := Apply(items, Spec{ExcludeTalkShows: true})
	assert.Equal(t, []string{"3", "4"}, ids(got))

	got = Apply(items, Spec{})
	assert.Len(t, got, 4)
}

func TestApplyLanguage(t *testing.T) {
	items := []content.Item{
		{ID: "1", Title: "English", Language: "en"},
		{ID: "2", Title: "French", Language: "fr"},
		{ID: "3", Title: "Unknown"},
	}
	got := Apply(items, Spec{ExcludeNonEnglish: true})
	assert.Equal(t, []string{"1"}, ids(got))
}

func TestApplyIsOrderPreservingSubsequence(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	specs := []Spec{
		{},
		{MinYear: 2015},
		{ExcludeGenres: DefaultExcludedGenres},
		DiscoverySpec(),
		{MinYear: 2000, ExcludeTalkShows: true, ExcludeNonEnglish: true},
	}
	titles := []string{"Alpha", "Late Night Beta", "Gamma News", "Delta", "Epsilon"}
	langs := []string{"en", "en", "de", ""}

	for round := 0; round < 50; round++ {
		n := r.Intn(30)
		items := make([]content.Item, n)
		for i := range items {
			items[i] = content.Item{
				ID:        string(rune('a' + i%26)),
				Title:     titles[r.Intn(len(titles))],
				Year:      1990 + r.Intn(40),
				Language:  langs[r.Intn(len(langs))],
				MediaType: content.MediaTypeShow,
			}
			if r.Intn(3) == 0 {
				items[i].GenreIDs = []int{DefaultExcludedGenres[r.Intn(3)]}
			}
		}

		for _, spec := range specs {
			got := Apply(items, spec)
			require.LessOrEqual(t, len(got), len(items))
			assert.True(t, isSubsequence(got, items), "round %d: output is not an ordered subsequence", round)
		}
	}
}

func TestEngineHideExisting(t *testing.T) {
	lib := &fakeLibrary{titles: map[string]bool{"Dune": true}}
	engine, err := NewEngine(Spec{HideExisting: true}, WithLibrary(lib))
	require.NoError(t, err)

	items := []content.Item{{ID: "1", Title: "Dune"}, {ID: "2", Title: "Arrival"}}
	got := engine.Apply(context.Background(), items)

	assert.Equal(t, []string{"2"}, ids(got))
	assert.Equal(t, 2, lib.calls)
}

func TestEngineLibraryFailureFailsOpen(t *testing.T) {
	lib := &fakeLibrary{err: errors.New("plex unreachable")}
	engine, err := NewEngine(Spec{HideExisting: true}, WithLibrary(lib))
	require.NoError(t, err)

	items := []content.Item{{ID: "1", Title: "Dune"}, {ID: "2", Title: "Arrival"}}
	got := engine.Apply(context.Background(), items)

	if diff := cmp.Diff(items, got); diff != "" {
		t.Errorf("library failure must keep every item (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, lib.calls, "a failed lookup disables the library check for the rest of the list")
}

func TestEngineWithoutLibrary(t *testing.T) {
	engine, err := NewEngine(Spec{HideExisting: true})
	require.NoError(t, err)

	items := []content.Item{{ID: "1", Title: "Dune"}}
	assert.Len(t, engine.Apply(context.Background(), items), 1)
}

func TestEngineExpression(t *testing.T) {
	engine, err := NewEngine(Spec{Expression: `Year >= 2000 and not contains(Title, "remake")`})
	require.NoError(t, err)

	items := []content.Item{
		{ID: "1", Title: "Old", Year: 1990},
		{ID: "2", Title: "New", Year: 2010},
		{ID: "3", Title: "The Remake", Year: 2012},
	}
	got := engine.Apply(context.Background(), items)
	assert.Equal(t, []string{"2"}, ids(got))
	assert.Equal(t, ReasonExpression, engine.Check(context.Background(), items[0]))
}

func TestEngineInvalidExpression(t *testing.T) {
	_, err := NewEngine(Spec{Expression: `Year >`})
	require.Error(t, err)

	var compErr *CompilationError
	assert.ErrorAs(t, err, &compErr)
}

func TestEngineCheckReasons(t *testing.T) {
	engine, err := NewEngine(DiscoverySpec())
	require.NoError(t, err)
	ctx := context.Background()

	tests := []struct {
		name string
		item content.Item
		want Reason
	}{
		{"passes", content.Item{Title: "Arrival", Language: "en", MediaType: content.MediaTypeMovie}, ReasonNone},
		{"reality genre", content.Item{Title: "Islanders", Language: "en", GenreIDs: []int{10764}}, ReasonGenre},
		{"talk show", content.Item{Title: "Late Night with Seth Meyers", Language: "en", MediaType: content.MediaTypeShow}, ReasonTalkShow},
		{"foreign", content.Item{Title: "Dark", Language: "de", MediaType: content.MediaTypeShow}, ReasonLanguage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.Check(ctx, tt.item))
		})
	}
}

func TestIsTalkShow(t *testing.T) {
	assert.True(t, IsTalkShow("Last Week Tonight with John Oliver"))
	assert.True(t, IsTalkShow("JEOPARDY!"))
	assert.True(t, IsTalkShow("Gute Zeiten, schlechte Zeiten"))
	assert.False(t, IsTalkShow("The Bear"))
	assert.False(t, IsTalkShow(""))
}

func TestSpecIsZero(t *testing.T) {
	assert.True(t, Spec{}.IsZero())
	assert.False(t, DiscoverySpec().IsZero())
	assert.False(t, Spec{Expression: "true"}.IsZero())
}

func ids(items []content.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

// isSubsequence checks sub appears in full in the same relative order
func isSubsequence(sub, full []content.Item) bool {
	j := 0
	for i := 0; i < len(full) && j < len(sub); i++ {
		if cmp.Equal(full[i], sub[j]) {
			j++
		}
	}
	return j == len(sub)
}
