package ticket

import (
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

// ticketSchemaJSON is the structural schema every submitted document must
// satisfy before model-level validation runs. State-token validity is
// checked by the workflow package, not here.
const ticketSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["ticket_id", "title", "state", "run_id"],
  "properties": {
    "ticket_id": {"type": "string", "minLength": 1},
    "title": {"type": "string", "minLength": 1},
    "description": {"type": "string"},
    "state": {"type": "string", "minLength": 1},
    "run_id": {"type": "string", "minLength": 1},
    "agent_role": {"type": "string"},
    "created_at": {"type": "string"},
    "updated_at": {"type": "string"},
    "requirements": {
      "type": "object",
      "properties": {
        "acceptance_criteria": {"type": "array", "items": {"$ref": "#/definitions/requirement"}},
        "constraints": {"type": "array", "items": {"$ref": "#/definitions/requirement"}},
        "unknowns": {"type": "array", "items": {"type": "string"}}
      }
    },
    "scope": {
      "type": "object",
      "properties": {
        "targets": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["id", "source", "query", "rationale"],
            "properties": {
              "id": {"type": "string", "minLength": 1},
              "source": {"type": "string", "minLength": 1},
              "query": {"type": "string", "minLength": 1},
              "rationale": {"type": "string", "minLength": 1},
              "related_requirement_ids": {"type": "array", "items": {"type": "string"}},
              "related_unknowns": {"type": "array", "items": {"type": "string"}}
            }
          }
        }
      }
    },
    "evidence": {
      "type": "object",
      "properties": {
        "items": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["id", "source", "source_ref", "locator", "snippet"],
            "properties": {
              "id": {"type": "string", "minLength": 1},
              "source": {"type": "string", "minLength": 1},
              "source_ref": {"type": "string", "minLength": 1},
              "locator": {"type": "string", "minLength": 1},
              "snippet": {"type": "string", "minLength": 1},
              "supports": {"type": "array", "items": {"type": "string"}}
            }
          }
        }
      }
    },
    "plan": {
      "type": "object",
      "properties": {
        "steps": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["id", "title", "description"],
            "properties": {
              "id": {"type": "string", "minLength": 1},
              "title": {"type": "string", "minLength": 1},
              "description": {"type": "string", "minLength": 1},
              "requirement_ids": {"type": "array", "items": {"type": "string"}},
              "evidence_ids": {"type": "array", "items": {"type": "string"}},
              "step_type": {"enum": ["delivery", "investigation"]}
            }
          }
        }
      }
    },
    "execution": {
      "type": "object",
      "properties": {
        "checkpoints": {"type": "array", "items": {"type": "string"}},
        "outputs": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["id", "summary"],
            "properties": {
              "id": {"type": "string", "minLength": 1},
              "summary": {"type": "string", "minLength": 1},
              "covered_requirement_ids": {"type": "array", "items": {"type": "string"}},
              "evidence_ids": {"type": "array", "items": {"type": "string"}},
              "status": {"enum": ["candidate", "validated", "blocked"]}
            }
          }
        }
      }
    },
    "finalization": {
      "type": "object",
      "required": ["outcome", "milestone_summary"],
      "properties": {
        "outcome": {"enum": ["done", "blocked", "invalidated"]},
        "milestone_summary": {"type": "string", "minLength": 1},
        "unresolved_items": {"type": "array", "items": {"type": "string"}}
      }
    }
  },
  "definitions": {
    "requirement": {
      "type": "object",
      "required": ["id", "text"],
      "properties": {
        "id": {"type": "string", "minLength": 1},
        "text": {"type": "string", "minLength": 1},
        "priority": {"enum": ["must", "should", "could"]}
      }
    }
  }
}`

var ticketSchemaLoader = gojsonschema.NewStringLoader(ticketSchemaJSON)

// SchemaJSON returns the raw ticket document schema.
func SchemaJSON() string {
	return ticketSchemaJSON
}

// ValidateDocument checks a raw JSON document against the ticket schema.
// It returns one message per violation, or an error if the document is not
// valid JSON at all.
func ValidateDocument(data []byte) ([]string, error) {
	result, err := gojsonschema.Validate(ticketSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to validate ticket document: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}
	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return violations, nil
}
