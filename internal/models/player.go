package models

// Skill names used in Player.Skills and in evaluation strengths/weaknesses.
const (
	SkillForce     = "force"
	SkillTechnique = "technique"
	SkillSpeed     = "speed"
	SkillEndurance = "endurance"
)

// Player is a scouted player record synthesized from a source
// organization. The ID is assigned during transformation from the item's
// position in the source batch and never changes afterwards.
type Player struct {
	ID          int            `json:"id"`
	FirstName   string         `json:"firstName"`
	LastName    string         `json:"lastName"`
	Team        string         `json:"team"`
	Position    string         `json:"position"`
	Description string         `json:"description"`
	Skills      map[string]int `json:"skills"`
}

// FullName joins first and last name, tolerating empty last names.
func (p Player) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
