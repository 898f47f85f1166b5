package dto

import (
	"encoding/json"
	"fmt"

	"github.com/xeipuuv/gojsonschema"

	"github.com/spec-kit/service-desk/internal/domain"
	apperrors "github.com/spec-kit/service-desk/pkg/errorutil"
)

// Schema validates a raw request body and decodes it on success.
type Schema struct {
	name   string
	schema *gojsonschema.Schema
}

var (
	// CreateTicketSchema guards POST /ticket.
	CreateTicketSchema = mustSchema("create ticket", ticketSchema(true))
	// UpdateTicketSchema guards PUT /tickets/:id.
	UpdateTicketSchema = mustSchema("update ticket", ticketSchema(false))
)

func ticketSchema(create bool) map[string]any {
	statuses := make([]string, 0, len(domain.TicketStatuses))
	for _, s := range domain.TicketStatuses {
		statuses = append(statuses, string(s))
	}
	priorities := make([]string, 0, len(domain.TicketPriorities))
	for _, p := range domain.TicketPriorities {
		priorities = append(priorities, string(p))
	}

	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":      "string",
				"minLength": 1,
				"maxLength": domain.TitleMaxLength,
			},
			"description": map[string]any{"type": "string"},
			"status":      map[string]any{"type": "string", "enum": statuses},
			"priority":    map[string]any{"type": "string", "enum": priorities},
		},
	}
	if create {
		schema["required"] = []string{"title"}
	}
	return schema
}

func mustSchema(name string, doc map[string]any) *Schema {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
	if err != nil {
		panic(fmt.Sprintf("compile %s schema: %v", name, err))
	}
	return &Schema{name: name, schema: compiled}
}

// Decode validates body and unmarshals it into dst. Malformed JSON and
// schema violations are validation errors.
func (s *Schema) Decode(body []byte, dst any) error {
	result, err := s.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return apperrors.NewValidationError("malformed JSON body", map[string]any{"body": err.Error()})
	}
	if !result.Valid() {
		details := make(map[string]any, len(result.Errors()))
		for _, e := range result.Errors() {
			details[fieldOf(e)] = e.Description()
		}
		return apperrors.NewValidationError("invalid "+s.name+" payload", details)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return apperrors.NewValidationError("malformed JSON body", map[string]any{"body": err.Error()})
	}
	return nil
}

func fieldOf(e gojsonschema.ResultError) string {
	if e.Type() == "required" {
		if property, ok := e.Details()["property"].(string); ok {
			return property
		}
	}
	return e.Field()
}
