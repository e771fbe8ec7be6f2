package server

// Request body schemas. Violations map to 422 with the first finding in
// the message.

const playerSchema = `{
	"type": "object",
	"required": ["id", "firstName", "team", "position"],
	"properties": {
		"id": {"type": "integer", "minimum": 1},
		"firstName": {"type": "string", "minLength": 1},
		"lastName": {"type": "string"},
		"team": {"type": "string", "minLength": 1},
		"position": {"type": "string", "minLength": 1},
		"description": {"type": "string"},
		"skills": {
			"type": "object",
			"additionalProperties": {"type": "integer", "minimum": 0, "maximum": 100}
		}
	}
}`

const evaluationSchema = `{
	"type": "object",
	"required": ["playerId", "fullName", "overallScore", "verdict"],
	"properties": {
		"playerId": {"type": "integer", "minimum": 1},
		"fullName": {"type": "string", "minLength": 1},
		"team": {"type": "string"},
		"position": {"type": "string"},
		"overallScore": {"type": "number", "minimum": 0, "maximum": 100},
		"verdict": {"type": "string", "enum": ["exceptional", "excellent", "good", "average", "developing"]},
		"evaluationDate": {"type": "string"},
		"strengths": {"type": "array", "items": {"type": "string"}},
		"weaknesses": {"type": "array", "items": {"type": "string"}}
	}
}`

const subscriptionSchema = `{
	"type": "object",
	"required": ["url", "eventTypes"],
	"properties": {
		"url": {"type": "string", "minLength": 1, "pattern": "^https?://"},
		"eventTypes": {
			"type": "array",
			"minItems": 1,
			"items": {"type": "string", "enum": ["player.created", "score.created", "score.updated", "test"]}
		},
		"description": {"type": "string"}
	}
}`
