package processes

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafaeldtavares/juristrack-backend/pkg/db/models"
	"github.com/rafaeldtavares/juristrack-backend/pkg/enums"
)

func TestParsePayload_SearchResponseShape(t *testing.T) {
	doc := json.RawMessage(`{
		"id": "TJSP_123",
		"tribunal": "TJSP",
		"orgaoJulgador": {"nome": "1ª Vara Cível"},
		"classe": {"nome": "Procedimento Comum Cível"},
		"assuntos": [{"nome": "Inadimplemento"}, {"nome": "Cobrança"}],
		"valor_causa": 15000.50,
		"dataAjuizamento": "2024-03-15T10:30:00Z",
		"status": "Em andamento",
		"partes": [
			{"nome": "Maria da Silva", "tipo": "autor", "documento": "123.456.789-00"},
			{"nome": "Banco XYZ", "tipo": "reu", "advogado": "Dr. Souza"}
		],
		"movimentos": [
			{"nome": "Distribuição", "dataHora": "2024-03-15T10:30:00Z"},
			{"nome": "Despacho"}
		]
	}`)

	normalized, err := ParsePayload(doc)
	require.NoError(t, err)

	require.NotNil(t, normalized.ExternalID)
	assert.Equal(t, "TJSP_123", *normalized.ExternalID)
	require.NotNil(t, normalized.CourtCode)
	assert.Equal(t, "TJSP", *normalized.CourtCode)
	require.NotNil(t, normalized.CourtName)
	assert.Equal(t, "1ª Vara Cível", *normalized.CourtName)
	require.NotNil(t, normalized.CaseClass)
	assert.Equal(t, "Procedimento Comum Cível", *normalized.CaseClass)
	require.NotNil(t, normalized.Subject)
	assert.Equal(t, "Inadimplemento, Cobrança", *normalized.Subject)
	require.NotNil(t, normalized.Value)
	assert.Equal(t, "15000.5", normalized.Value.String())
	require.NotNil(t, normalized.DistributionDate)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), *normalized.DistributionDate)

	require.Len(t, normalized.Parties, 2)
	assert.Equal(t, enums.PartyRolePlaintiff, normalized.Parties[0].Role)
	require.NotNil(t, normalized.Parties[0].Document)
	assert.Equal(t, enums.PartyRoleDefendant, normalized.Parties[1].Role)
	require.NotNil(t, normalized.Parties[1].Counsel)

	require.Len(t, normalized.Movements, 2)
	assert.Equal(t, "Distribuição", normalized.Movements[0].Description)
	require.NotNil(t, normalized.Movements[0].OccurredAt)
	assert.Nil(t, normalized.Movements[1].OccurredAt)
}

func TestParsePayload_DetailResponseShape(t *testing.T) {
	doc := json.RawMessage(`{
		"tribunal": "TJRJ",
		"nome_tribunal": "Tribunal de Justiça do Rio de Janeiro",
		"classe": "Execução Fiscal",
		"assunto": "Dívida Ativa",
		"valor_causa": "2500.00",
		"data_distribuicao": "2023-11-01",
		"movimentacoes": [
			{"descricao": "Citação expedida", "data": "2023-11-02T09:00:00", "tipo": "citacao"}
		]
	}`)

	normalized, err := ParsePayload(doc)
	require.NoError(t, err)

	require.NotNil(t, normalized.CourtName)
	assert.Equal(t, "Tribunal de Justiça do Rio de Janeiro", *normalized.CourtName)
	require.NotNil(t, normalized.CaseClass)
	assert.Equal(t, "Execução Fiscal", *normalized.CaseClass)
	require.NotNil(t, normalized.Subject)
	assert.Equal(t, "Dívida Ativa", *normalized.Subject)
	require.NotNil(t, normalized.Value)
	assert.True(t, normalized.Value.Equal(decimalFromString(t, "2500.00")))
	require.NotNil(t, normalized.DistributionDate)
	assert.Equal(t, time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC), *normalized.DistributionDate)

	require.Len(t, normalized.Movements, 1)
	assert.Equal(t, "Citação expedida", normalized.Movements[0].Description)
	require.NotNil(t, normalized.Movements[0].MovementType)
	assert.Equal(t, "citacao", *normalized.Movements[0].MovementType)
	require.NotNil(t, normalized.Movements[0].OccurredAt)
	assert.Equal(t, time.Date(2023, 11, 2, 9, 0, 0, 0, time.UTC), *normalized.Movements[0].OccurredAt)
}

func decimalFromString(t *testing.T, raw string) decimal.Decimal {
	t.Helper()
	value, err := decimal.NewFromString(raw)
	require.NoError(t, err)
	return value
}

func TestParsePayload_MalformedInput(t *testing.T) {
	_, err := ParsePayload(nil)
	assert.Error(t, err)

	_, err = ParsePayload(json.RawMessage(`not json`))
	assert.Error(t, err)
}

func TestParsePayload_MalformedDatesMapToNil(t *testing.T) {
	doc := json.RawMessage(`{
		"dataAjuizamento": "not-a-date",
		"movimentos": [{"nome": "Despacho", "dataHora": "also-not-a-date"}]
	}`)

	normalized, err := ParsePayload(doc)
	require.NoError(t, err)
	assert.Nil(t, normalized.DistributionDate)
	require.Len(t, normalized.Movements, 1)
	assert.Nil(t, normalized.Movements[0].OccurredAt)
}

func TestParsePayload_UnknownPartyRoleFallsBack(t *testing.T) {
	doc := json.RawMessage(`{
		"partes": [{"nome": "Fulano", "tipo": "assistente"}]
	}`)

	normalized, err := ParsePayload(doc)
	require.NoError(t, err)
	require.Len(t, normalized.Parties, 1)
	assert.Equal(t, enums.PartyRoleOther, normalized.Parties[0].Role)
}

func TestApply_AbsentKeysKeepStoredValues(t *testing.T) {
	courtName := "1ª Vara Cível"
	subject := "Cobrança"
	status := "Em andamento"
	record := &models.ProcessRecord{
		ProcessNumber: "0001234-56.2024.8.26.0100",
		CourtCode:     "TJSP",
		CourtName:     &courtName,
		Subject:       &subject,
		Status:        &status,
	}

	normalized, err := ParsePayload(json.RawMessage(`{"status": "Arquivado"}`))
	require.NoError(t, err)
	normalized.Apply(record)

	assert.Equal(t, "TJSP", record.CourtCode)
	require.NotNil(t, record.CourtName)
	assert.Equal(t, courtName, *record.CourtName)
	require.NotNil(t, record.Subject)
	assert.Equal(t, subject, *record.Subject)
	require.NotNil(t, record.Status)
	assert.Equal(t, "Arquivado", *record.Status)
	assert.JSONEq(t, `{"status": "Arquivado"}`, string(record.RawPayload))
}
