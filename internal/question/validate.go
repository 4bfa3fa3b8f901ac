package question

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

var ErrInvalidRecord = errors.New("invalid record")

const questionSchemaJSON = `{
  "type": "object",
  "required": ["question_id", "passage_id", "question_text", "choices", "correct_answer", "question_type", "explanations"],
  "properties": {
    "question_id":      {"type": "string", "minLength": 1},
    "passage_id":       {"type": "string", "minLength": 1},
    "question_text":    {"type": "string", "minLength": 1},
    "choices":          {"type": "object", "minProperties": 2, "additionalProperties": {"type": "string"}},
    "correct_answer":   {"type": "string", "minLength": 1},
    "question_type":    {"type": "string", "minLength": 1},
    "trap_types":       {"type": ["object", "null"], "additionalProperties": {"type": "string"}},
    "explanations":     {"type": "object", "additionalProperties": {"type": "string"}},
    "linked_paragraph": {"type": ["integer", "null"], "minimum": 1},
    "difficulty_rating": {"type": ["integer", "null"], "minimum": 1, "maximum": 10}
  }
}`

const passageSchemaJSON = `{
  "type": "object",
  "required": ["passage_id", "title", "paragraphs"],
  "properties": {
    "passage_id": {"type": "string", "minLength": 1},
    "title":      {"type": "string"},
    "journal":    {"type": "string"},
    "author":     {"type": "string"},
    "text":       {"type": "string"},
    "paragraphs": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["text"],
        "properties": {
          "text":               {"type": "string", "minLength": 1},
          "rhetorical_purpose": {"type": "string"},
          "tone":               {"type": "string"}
        }
      }
    },
    "estimated_difficulty": {"type": ["number", "null"], "minimum": 0}
  }
}`

var (
	questionSchema = mustCompile("question", questionSchemaJSON)
	passageSchema  = mustCompile("passage", passageSchemaJSON)
)

func mustCompile(name, def string) *jsonschema.Schema {
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(def))
	if err != nil {
		panic(fmt.Sprintf("parse %s schema: %v", name, err))
	}
	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(url, doc); err != nil {
		panic(fmt.Sprintf("add %s schema: %v", name, err))
	}
	schema, err := c.Compile(url)
	if err != nil {
		panic(fmt.Sprintf("compile %s schema: %v", name, err))
	}
	return schema
}

func validateRaw(schema *jsonschema.Schema, raw []byte) error {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: malformed json: %v", ErrInvalidRecord, err)
	}
	if err := schema.Validate(inst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return nil
}

// DecodeQuestion parses one store line, checking both the schema and the
// choice/trap invariants.
func DecodeQuestion(raw []byte) (Question, error) {
	var q Question
	if err := validateRaw(questionSchema, raw); err != nil {
		return q, err
	}
	if err := json.Unmarshal(raw, &q); err != nil {
		return q, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return q, q.checkInvariants()
}

func DecodePassage(raw []byte) (Passage, error) {
	var p Passage
	if err := validateRaw(passageSchema, raw); err != nil {
		return p, err
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return p, nil
}

func (q Question) Validate() error {
	raw, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	if err := validateRaw(questionSchema, raw); err != nil {
		return err
	}
	return q.checkInvariants()
}

func (q Question) checkInvariants() error {
	if !q.HasChoice(q.CorrectAnswer) {
		return fmt.Errorf("%w: question %s: correct_answer %q is not a choice", ErrInvalidRecord, q.QuestionID, q.CorrectAnswer)
	}
	for label := range q.TrapTypes {
		if !q.HasChoice(label) {
			return fmt.Errorf("%w: question %s: trap label %q is not a choice", ErrInvalidRecord, q.QuestionID, label)
		}
		if label == q.CorrectAnswer {
			return fmt.Errorf("%w: question %s: trap label %q is the correct answer", ErrInvalidRecord, q.QuestionID, label)
		}
	}
	for label := range q.Explanations {
		if !q.HasChoice(label) {
			return fmt.Errorf("%w: question %s: explanation label %q is not a choice", ErrInvalidRecord, q.QuestionID, label)
		}
	}
	for _, label := range q.Labels() {
		if _, ok := q.Explanations[label]; !ok {
			return fmt.Errorf("%w: question %s: choice %q has no explanation", ErrInvalidRecord, q.QuestionID, label)
		}
	}
	return nil
}

func (p Passage) Validate() error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return validateRaw(passageSchema, raw)
}
