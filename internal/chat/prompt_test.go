package chat

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rafaeldtavares/juristrack-backend/pkg/db/models"
	"github.com/rafaeldtavares/juristrack-backend/pkg/enums"
)

func testRecord() *models.ProcessRecord {
	courtName := "1ª Vara Cível"
	caseClass := "Procedimento Comum Cível"
	subject := "Cobrança"
	occurred := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	return &models.ProcessRecord{
		ProcessNumber: "0001234-56.2024.8.26.0100",
		CourtCode:     "TJSP",
		CourtName:     &courtName,
		CaseClass:     &caseClass,
		Subject:       &subject,
		Parties: []models.ProcessParty{
			{Name: "Maria da Silva", Role: enums.PartyRolePlaintiff},
		},
		Movements: []models.ProcessMovement{
			{Description: "Distribuição", OccurredAt: &occurred},
		},
	}
}

func TestBuildPrompt_IncludesProcessContext(t *testing.T) {
	prompt := buildPrompt(testRecord(), nil, "Qual a situação do processo?")

	assert.Contains(t, prompt, "assistente jurídica")
	assert.Contains(t, prompt, "CONTEXTO DO PROCESSO:")
	assert.Contains(t, prompt, "Número do processo: 0001234-56.2024.8.26.0100")
	assert.Contains(t, prompt, "Tribunal: 1ª Vara Cível")
	assert.Contains(t, prompt, "Maria da Silva (autor)")
	assert.Contains(t, prompt, "- Distribuição (15/03/2024)")
	assert.True(t, strings.HasSuffix(prompt, "Usuário: Qual a situação do processo?\nAssistente:"))
}

func TestBuildPrompt_WithoutProcess(t *testing.T) {
	prompt := buildPrompt(nil, nil, "O que é usucapião?")

	assert.NotContains(t, prompt, "CONTEXTO DO PROCESSO")
	assert.NotContains(t, prompt, "HISTÓRICO DA CONVERSA")
	assert.Contains(t, prompt, "Usuário: O que é usucapião?")
}

func TestBuildPrompt_HistoryWindow(t *testing.T) {
	history := make([]models.ChatMessage, 0, 12)
	for i := 0; i < 12; i++ {
		role := enums.ChatRoleUser
		if i%2 == 1 {
			role = enums.ChatRoleAssistant
		}
		history = append(history, models.ChatMessage{
			Role:    role,
			Content: fmt.Sprintf("mensagem %d", i),
		})
	}

	prompt := buildPrompt(nil, history, "próxima pergunta")

	assert.Contains(t, prompt, "HISTÓRICO DA CONVERSA:")
	assert.NotContains(t, prompt, "Usuário: mensagem 0\n")
	assert.NotContains(t, prompt, "Assistente: mensagem 1\n")
	assert.Contains(t, prompt, "Usuário: mensagem 2\n")
	assert.Contains(t, prompt, "Assistente: mensagem 11\n")
}

func TestProcessContext_MovementWindow(t *testing.T) {
	record := testRecord()
	record.Movements = nil
	for i := 0; i < 8; i++ {
		record.Movements = append(record.Movements, models.ProcessMovement{
			Description: fmt.Sprintf("movimento %d", i),
		})
	}

	context := processContext(record)
	assert.Contains(t, context, "movimento 0")
	assert.Contains(t, context, "movimento 4")
	assert.NotContains(t, context, "movimento 5")
	assert.Contains(t, context, "(sem data)")
}

func TestAnalysisPrompt(t *testing.T) {
	prompt := analysisPrompt(testRecord())

	assert.Contains(t, prompt, "DADOS DO PROCESSO:")
	assert.Contains(t, prompt, "Resumo do caso")
	assert.Contains(t, prompt, "0001234-56.2024.8.26.0100")
}
