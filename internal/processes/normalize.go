package processes

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rafaeldtavares/juristrack-backend/pkg/db/models"
	"github.com/rafaeldtavares/juristrack-backend/pkg/enums"
	pkgerrors "github.com/rafaeldtavares/juristrack-backend/pkg/errors"
)

// NormalizedProcess is the flattened view of one upstream document. Nil
// pointer fields mean the key was absent from the payload, which lets an
// update keep whatever the record already holds.
type NormalizedProcess struct {
	ExternalID       *string
	CourtCode        *string
	CourtName        *string
	CaseClass        *string
	Subject          *string
	Value            *decimal.Decimal
	DistributionDate *time.Time
	Status           *string

	Parties   []PartyInput
	Movements []MovementInput

	RawPayload json.RawMessage
}

// PartyInput is one litigant extracted from a payload.
type PartyInput struct {
	Name     string
	Role     enums.PartyRole
	Document *string
	Counsel  *string
}

// MovementInput is one timeline entry extracted from a payload.
type MovementInput struct {
	OccurredAt   *time.Time
	Description  string
	MovementType *string
}

// ParsePayload flattens an upstream DataJud document. Search responses and
// detail responses disagree on key names for several fields, so every field
// is resolved through an ordered fallback chain.
func ParsePayload(doc json.RawMessage) (*NormalizedProcess, error) {
	if len(doc) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "empty process payload")
	}

	var payload map[string]any
	if err := json.Unmarshal(doc, &payload); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode process payload")
	}

	normalized := &NormalizedProcess{
		ExternalID:       stringField(payload, "id"),
		CourtCode:        stringField(payload, "tribunal"),
		CourtName:        courtName(payload),
		CaseClass:        caseClass(payload),
		Subject:          subject(payload),
		Value:            caseValue(payload),
		DistributionDate: distributionDate(payload),
		Status:           stringField(payload, "status"),
		RawPayload:       doc,
	}

	normalized.Parties = parseParties(listField(payload, "partes"))
	normalized.Movements = parseMovements(firstList(payload, "movimentacoes", "movimentos"))

	return normalized, nil
}

// Apply copies present fields onto the record, leaving absent ones alone.
// Children are not touched here; the repository replaces them wholesale.
func (n *NormalizedProcess) Apply(record *models.ProcessRecord) {
	if n.ExternalID != nil {
		record.ExternalID = n.ExternalID
	}
	if n.CourtCode != nil {
		record.CourtCode = *n.CourtCode
	}
	if n.CourtName != nil {
		record.CourtName = n.CourtName
	}
	if n.CaseClass != nil {
		record.CaseClass = n.CaseClass
	}
	if n.Subject != nil {
		record.Subject = n.Subject
	}
	if n.Value != nil {
		record.Value = n.Value
	}
	if n.DistributionDate != nil {
		record.DistributionDate = n.DistributionDate
	}
	if n.Status != nil {
		record.Status = n.Status
	}
	record.RawPayload = n.RawPayload
}

func courtName(payload map[string]any) *string {
	if organ, ok := payload["orgaoJulgador"].(map[string]any); ok {
		if name := stringField(organ, "nome"); name != nil {
			return name
		}
	}
	return stringField(payload, "nome_tribunal")
}

func caseClass(payload map[string]any) *string {
	switch v := payload["classe"].(type) {
	case map[string]any:
		return stringField(v, "nome")
	case string:
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return &trimmed
		}
	}
	return nil
}

func subject(payload map[string]any) *string {
	if subjects, ok := payload["assuntos"].([]any); ok {
		names := make([]string, 0, len(subjects))
		for _, entry := range subjects {
			if item, ok := entry.(map[string]any); ok {
				if name := stringField(item, "nome"); name != nil {
					names = append(names, *name)
				}
			}
		}
		if len(names) > 0 {
			joined := strings.Join(names, ", ")
			return &joined
		}
	}
	return stringField(payload, "assunto")
}

func caseValue(payload map[string]any) *decimal.Decimal {
	switch v := payload["valor_causa"].(type) {
	case float64:
		value := decimal.NewFromFloat(v)
		return &value
	case string:
		value, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return nil
		}
		return &value
	}
	return nil
}

func distributionDate(payload map[string]any) *time.Time {
	if raw := stringField(payload, "dataAjuizamento"); raw != nil {
		if date := parseDate(*raw); date != nil {
			return date
		}
	}
	if raw := stringField(payload, "data_distribuicao"); raw != nil {
		return parseDate(*raw)
	}
	return nil
}

func parseParties(entries []any) []PartyInput {
	parties := make([]PartyInput, 0, len(entries))
	for _, entry := range entries {
		item, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		name := stringField(item, "nome")
		if name == nil {
			continue
		}
		role := enums.PartyRoleOther
		if rawRole := firstString(item, "tipo", "polo"); rawRole != nil {
			role = enums.NormalizePartyRole(*rawRole)
		}
		parties = append(parties, PartyInput{
			Name:     *name,
			Role:     role,
			Document: stringField(item, "documento"),
			Counsel:  stringField(item, "advogado"),
		})
	}
	return parties
}

func parseMovements(entries []any) []MovementInput {
	movements := make([]MovementInput, 0, len(entries))
	for _, entry := range entries {
		item, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		description := firstString(item, "descricao", "nome")
		if description == nil {
			continue
		}
		movement := MovementInput{
			Description:  *description,
			MovementType: stringField(item, "tipo"),
		}
		if raw := firstString(item, "data", "dataHora"); raw != nil {
			movement.OccurredAt = parseTimestamp(*raw)
		}
		movements = append(movements, movement)
	}
	return movements
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// parseTimestamp accepts the ISO-8601 variants DataJud emits, tolerating a
// trailing Z and missing offsets. Malformed input maps to nil, not an error.
func parseTimestamp(raw string) *time.Time {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, trimmed); err == nil {
			utc := ts.UTC()
			return &utc
		}
	}
	return nil
}

// parseDate is parseTimestamp truncated to midnight UTC.
func parseDate(raw string) *time.Time {
	ts := parseTimestamp(raw)
	if ts == nil {
		return nil
	}
	date := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
	return &date
}

func stringField(payload map[string]any, key string) *string {
	value, ok := payload[key].(string)
	if !ok {
		return nil
	}
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func firstString(payload map[string]any, keys ...string) *string {
	for _, key := range keys {
		if value := stringField(payload, key); value != nil {
			return value
		}
	}
	return nil
}

func listField(payload map[string]any, key string) []any {
	entries, _ := payload[key].([]any)
	return entries
}

func firstList(payload map[string]any, keys ...string) []any {
	for _, key := range keys {
		if entries, ok := payload[key].([]any); ok {
			return entries
		}
	}
	return nil
}
