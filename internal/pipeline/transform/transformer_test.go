package transform

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scout-pipeline/internal/models"
)

func fixedClock() time.Time {
	return time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
}

func TestToPlayerMapsFields(t *testing.T) {
	tr := NewWithClock(fixedClock)

	org := models.Organization{
		Name:       "Green Valley Youth Soccer Association",
		City:       "Portland",
		State:      "OR",
		TotRevenue: 400000,
	}

	p, ok := tr.ToPlayer(org, 0)
	require.True(t, ok)

	assert.Equal(t, 1, p.ID)
	assert.Equal(t, "Green", p.FirstName)
	assert.Equal(t, "Valley Youth", p.LastName)
	assert.Equal(t, "Northside United", p.Team)
	assert.Equal(t, "striker", p.Position)
	assert.Equal(t, "From Portland, OR", p.Description)
	// 400000/20000 + 50 = 70
	assert.Equal(t, 70, p.Skills[models.SkillForce])
	assert.Equal(t, 50, p.Skills[models.SkillTechnique])
	assert.Equal(t, 50, p.Skills[models.SkillSpeed])
	assert.Equal(t, 50, p.Skills[models.SkillEndurance])
}

func TestToPlayerSkillClamping(t *testing.T) {
	tr := New()

	rich := models.Organization{Name: "Rich Club", City: "Austin", TotRevenue: 100_000_000}
	p, ok := tr.ToPlayer(rich, 0)
	require.True(t, ok)
	assert.Equal(t, 99, p.Skills[models.SkillForce], "force clamps at the ceiling")

	broke := models.Organization{Name: "Broke Club", City: "Austin", TotRevenue: -1_000_000}
	p, ok = tr.ToPlayer(broke, 0)
	require.True(t, ok)
	assert.Equal(t, 50, p.Skills[models.SkillForce], "force clamps at the floor")
}

func TestToPlayerIneligible(t *testing.T) {
	tr := New()

	_, ok := tr.ToPlayer(models.Organization{Name: "", City: "Boston"}, 0)
	assert.False(t, ok, "missing name is ineligible")

	_, ok = tr.ToPlayer(models.Organization{Name: "Club", City: ""}, 0)
	assert.False(t, ok, "missing city is ineligible")
}

func TestPlayersPreserveSourceIndices(t *testing.T) {
	tr := New()

	orgs := []models.Organization{
		{Name: "First Club", City: "A"},
		{Name: "", City: "B"}, // dropped
		{Name: "Third Club", City: "C"},
	}

	players := tr.Players(orgs)
	require.Len(t, players, 2)

	// The dropped item leaves a gap: ids come from the source index.
	assert.Equal(t, 1, players[0].ID)
	assert.Equal(t, 3, players[1].ID)
	assert.Equal(t, "Eastfield Rovers", players[1].Team)
	assert.Equal(t, "midfielder", players[1].Position)
}

func TestTeamAndPositionCycling(t *testing.T) {
	tr := New()

	orgs := make([]models.Organization, 7)
	for i := range orgs {
		orgs[i] = models.Organization{Name: "Club X", City: "Y"}
	}

	players := tr.Players(orgs)
	require.Len(t, players, 7)
	assert.Equal(t, players[0].Team, players[5].Team)
	assert.Equal(t, players[1].Position, players[6].Position)
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		name  string
		first string
		last  string
	}{
		{"United", "United", ""},
		{"Harbor City", "Harbor", "City"},
		{"Harbor City Football", "Harbor", "City Football"},
		{"Harbor City Football Club Inc", "Harbor", "City Football"},
		{"  Spaced   Out  Name ", "Spaced", "Out Name"},
	}
	for _, tc := range tests {
		first, last := splitName(tc.name)
		assert.Equal(t, tc.first, first, tc.name)
		assert.Equal(t, tc.last, last, tc.name)
	}
}

func TestNameTruncation(t *testing.T) {
	tr := New()

	org := models.Organization{
		Name: strings.Repeat("A", 40) + " " + strings.Repeat("B", 40),
		City: "Denver",
	}
	p, ok := tr.ToPlayer(org, 0)
	require.True(t, ok)
	assert.Len(t, p.FirstName, 20)
	assert.Len(t, p.LastName, 30)
}

func TestOverallScore(t *testing.T) {
	assert.Equal(t, 70.0, overallScore(nil), "empty skills default")
	assert.Equal(t, 70.0, overallScore(map[string]int{}))

	// (90+60+80+70)/4 = 75.0
	assert.Equal(t, 75.0, overallScore(map[string]int{
		"force": 90, "technique": 60, "speed": 80, "endurance": 70,
	}))

	// (51+52+54)/3 = 52.333... -> 52.3
	assert.Equal(t, 52.3, overallScore(map[string]int{"a": 51, "b": 52, "c": 54}))
}

func TestToEvaluationVerdictBoundaries(t *testing.T) {
	tr := NewWithClock(fixedClock)

	cases := []struct {
		skills  map[string]int
		verdict string
	}{
		{map[string]int{"a": 90, "b": 90}, models.VerdictExceptional},
		{map[string]int{"a": 89, "b": 90}, models.VerdictExcellent}, // 89.5
		{map[string]int{"a": 80, "b": 80}, models.VerdictExcellent},
		{map[string]int{"a": 79, "b": 79}, models.VerdictGood},
		{map[string]int{"a": 70, "b": 70}, models.VerdictGood},
		{map[string]int{"a": 60, "b": 60}, models.VerdictAverage},
		{map[string]int{"a": 59, "b": 59}, models.VerdictDeveloping},
	}
	for _, tc := range cases {
		eval := tr.ToEvaluation(models.Player{ID: 1, FirstName: "X", Skills: tc.skills})
		assert.Equal(t, tc.verdict, eval.Verdict, "skills %v", tc.skills)
	}
}

func TestToEvaluationStrengthsAndWeaknesses(t *testing.T) {
	tr := NewWithClock(fixedClock)

	p := models.Player{
		ID:        4,
		FirstName: "Sample",
		LastName:  "Player",
		Team:      "Summit Athletic",
		Position:  "goalkeeper",
		Skills: map[string]int{
			models.SkillForce:     90,
			models.SkillTechnique: 60,
			models.SkillSpeed:     80,
			models.SkillEndurance: 70,
		},
	}

	eval := tr.ToEvaluation(p)

	assert.Equal(t, 75.0, eval.OverallScore)
	assert.Equal(t, models.VerdictGood, eval.Verdict)
	assert.Equal(t, []string{"force", "speed"}, eval.Strengths)
	assert.Equal(t, []string{"technique"}, eval.Weaknesses)
	assert.Equal(t, "2025-03-14", eval.EvaluationDate)

	for _, s := range eval.Strengths {
		assert.NotContains(t, eval.Weaknesses, s, "strengths and weaknesses are disjoint")
	}
}

func TestToEvaluationBoundarySkillIsNeither(t *testing.T) {
	tr := New()

	eval := tr.ToEvaluation(models.Player{ID: 1, FirstName: "X", Skills: map[string]int{
		"technique": 79, "endurance": 66,
	}})
	assert.Empty(t, eval.Strengths)
	assert.Empty(t, eval.Weaknesses)
}

func TestToEvaluationIdempotent(t *testing.T) {
	tr := NewWithClock(fixedClock)

	p := models.Player{
		ID:        7,
		FirstName: "Stable",
		LastName:  "Output",
		Skills: map[string]int{
			models.SkillForce:     85,
			models.SkillTechnique: 62,
			models.SkillSpeed:     91,
			models.SkillEndurance: 55,
		},
	}

	first, err := json.Marshal(tr.ToEvaluation(p))
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := json.Marshal(tr.ToEvaluation(p))
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}

func TestToEvaluationEmptySkills(t *testing.T) {
	tr := NewWithClock(fixedClock)

	eval := tr.ToEvaluation(models.Player{ID: 2, FirstName: "No", LastName: "Skills"})
	assert.Equal(t, 70.0, eval.OverallScore)
	assert.Equal(t, models.VerdictGood, eval.Verdict)
	assert.NotNil(t, eval.Strengths)
	assert.NotNil(t, eval.Weaknesses)
}
