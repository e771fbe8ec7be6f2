// Package transform maps source organizations to player records and
// player records to scouting reports. Everything here is deterministic:
// same input, same index, same output.
package transform

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"scout-pipeline/internal/models"
)

const (
	maxFirstNameLen = 20
	maxLastNameLen  = 30

	skillFloor = 50
	skillCeil  = 99

	defaultScore = 70
)

// Placeholder rosters cycled through by source index. The cycling is
// load-bearing (record ids and attributes must reproduce exactly across
// runs); the names themselves are sample data.
var (
	teams = []string{
		"Northside United",
		"Harbor City FC",
		"Eastfield Rovers",
		"Summit Athletic",
		"Riverton SC",
	}
	positions = []string{
		"striker",
		"defender",
		"midfielder",
		"goalkeeper",
		"coach",
	}
)

// Transformer derives players and evaluations. The clock is injectable
// so evaluation dates are stable in tests.
type Transformer struct {
	now func() time.Time
}

func New() *Transformer {
	return &Transformer{now: time.Now}
}

func NewWithClock(now func() time.Time) *Transformer {
	return &Transformer{now: now}
}

// ToPlayer maps one source organization at the given batch index to a
// player record. Returns false for ineligible items; those are skipped,
// never errors.
func (t *Transformer) ToPlayer(org models.Organization, index int) (*models.Player, bool) {
	if !org.Eligible() {
		return nil, false
	}

	firstName, lastName := splitName(org.Name)

	player := &models.Player{
		ID:          index + 1,
		FirstName:   truncate(firstName, maxFirstNameLen),
		LastName:    truncate(lastName, maxLastNameLen),
		Team:        teams[index%len(teams)],
		Position:    positions[index%len(positions)],
		Description: describeOrigin(org),
		Skills: map[string]int{
			models.SkillForce:     clamp(skillFloor, skillCeil, int(org.TotRevenue/20000)+50),
			models.SkillTechnique: clamp(skillFloor, skillCeil, (index%50)+50),
			models.SkillSpeed:     clamp(skillFloor, skillCeil, ((index*7)%50)+50),
			models.SkillEndurance: clamp(skillFloor, skillCeil, ((index*13)%50)+50),
		},
	}
	return player, true
}

// Players maps a whole source batch, preserving source indices so ids
// and skills stay stable even when ineligible items are dropped.
func (t *Transformer) Players(orgs []models.Organization) []models.Player {
	players := make([]models.Player, 0, len(orgs))
	for i, org := range orgs {
		if p, ok := t.ToPlayer(org, i); ok {
			players = append(players, *p)
		}
	}
	return players
}

// ToEvaluation derives a scouting report from a player record. The
// report reflects the skills at this instant; callers re-derive instead
// of patching.
func (t *Transformer) ToEvaluation(p models.Player) models.Evaluation {
	score := overallScore(p.Skills)

	eval := models.Evaluation{
		PlayerID:       p.ID,
		FullName:       p.FullName(),
		Team:           p.Team,
		Position:       p.Position,
		OverallScore:   score,
		Verdict:        models.VerdictFor(score),
		EvaluationDate: t.now().UTC().Format("2006-01-02"),
		Strengths:      []string{},
		Weaknesses:     []string{},
	}

	for skill, value := range p.Skills {
		switch {
		case value >= 80:
			eval.Strengths = append(eval.Strengths, skill)
		case value <= 65:
			eval.Weaknesses = append(eval.Weaknesses, skill)
		}
	}
	// Sorted so re-deriving from the same record is byte-identical.
	sort.Strings(eval.Strengths)
	sort.Strings(eval.Weaknesses)

	return eval
}

// Evaluations derives one report per player, in order.
func (t *Transformer) Evaluations(players []models.Player) []models.Evaluation {
	evals := make([]models.Evaluation, 0, len(players))
	for _, p := range players {
		evals = append(evals, t.ToEvaluation(p))
	}
	return evals
}

// overallScore is the unweighted mean of the skill values rounded to one
// decimal. A missing or empty skill map scores the neutral default
// instead of failing the batch.
func overallScore(skills map[string]int) float64 {
	if len(skills) == 0 {
		return defaultScore
	}
	sum := 0
	for _, v := range skills {
		sum += v
	}
	mean := float64(sum) / float64(len(skills))
	return math.Round(mean*10) / 10
}

// splitName takes the first whitespace token as the first name and up to
// the next two tokens as the last name. Single-token names keep the last
// name empty.
func splitName(name string) (string, string) {
	parts := strings.Fields(name)
	if len(parts) >= 2 {
		end := 3
		if len(parts) < end {
			end = len(parts)
		}
		return parts[0], strings.Join(parts[1:end], " ")
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return name, ""
}

func describeOrigin(org models.Organization) string {
	if org.State != "" {
		return fmt.Sprintf("From %s, %s", org.City, org.State)
	}
	return fmt.Sprintf("From %s", org.City)
}

func clamp(min, max, v int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
