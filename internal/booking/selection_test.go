package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCourtCandidatesFiltersAndOrders(t *testing.T) {
	courts := []string{
		"Badminton 2",
		"Tennis 1",
		"Badminton 10",
		"Badminton 1",
		"Squash 3",
	}
	got := CourtCandidates(courts, "badminton", "")
	assert.Equal(t, []string{"Badminton 1", "Badminton 2", "Badminton 10"}, got)
}

func TestCourtCandidatesNumericNotLexical(t *testing.T) {
	// Lexical order would put 10 before 2.
	got := CourtCandidates([]string{"Badminton 10", "Badminton 2"}, "badminton", "")
	assert.Equal(t, []string{"Badminton 2", "Badminton 10"}, got)
}

func TestCourtCandidatesPreferredFirst(t *testing.T) {
	courts := []string{"Badminton 1", "Badminton 2", "Badminton 3"}
	got := CourtCandidates(courts, "badminton", "2")
	assert.Equal(t, []string{"Badminton 2", "Badminton 1", "Badminton 3"}, got)
}

func TestCourtCandidatesPreferredAbsentFallsBack(t *testing.T) {
	courts := []string{"Badminton 1", "Badminton 2"}
	got := CourtCandidates(courts, "badminton", "7")
	assert.Equal(t, []string{"Badminton 1", "Badminton 2"}, got)
}

func TestCourtCandidatesDedupAndWhitespace(t *testing.T) {
	courts := []string{" Badminton 1 ", "Badminton 1", "", "Badminton 2"}
	got := CourtCandidates(courts, "badminton", "")
	assert.Equal(t, []string{"Badminton 1", "Badminton 2"}, got)
}

func TestCourtCandidatesCaseInsensitiveFacility(t *testing.T) {
	got := CourtCandidates([]string{"BADMINTON COURT 1"}, "Badminton", "")
	assert.Equal(t, []string{"BADMINTON COURT 1"}, got)
}

func TestCourtCandidatesStableAcrossCalls(t *testing.T) {
	courts := []string{"Badminton 3", "Badminton 1", "Badminton 2"}
	first := CourtCandidates(courts, "badminton", "")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, CourtCandidates(courts, "badminton", ""))
	}
}

func TestCourtCandidatesNoMatch(t *testing.T) {
	assert.Empty(t, CourtCandidates([]string{"Tennis 1"}, "badminton", ""))
	assert.Empty(t, CourtCandidates(nil, "badminton", ""))
}
