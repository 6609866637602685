package chat

import (
	"fmt"
	"strings"

	"github.com/rafaeldtavares/juristrack-backend/pkg/db/models"
	"github.com/rafaeldtavares/juristrack-backend/pkg/enums"
)

const (
	historyWindow  = 10
	movementWindow = 5
)

const systemPrompt = `Você é uma assistente jurídica especializada em direito brasileiro. Sua função é:

1. Responder perguntas sobre processos jurídicos
2. Explicar conceitos legais de forma clara e acessível
3. Fornecer orientações sobre procedimentos jurídicos
4. Analisar dados de processos e fornecer insights
5. Sugerir próximos passos em casos jurídicos

IMPORTANTE:
- Sempre esclareça que suas respostas são informativas e não substituem consulta jurídica profissional
- Use linguagem clara e acessível
- Baseie suas respostas na legislação brasileira
- Se não souber algo, admita e sugira consultar um advogado
- Mantenha um tom profissional mas amigável`

// buildPrompt assembles the flattened prompt: system instructions, optional
// process context, the trailing conversation window and the new user turn.
func buildPrompt(record *models.ProcessRecord, history []models.ChatMessage, userMessage string) string {
	var b strings.Builder
	b.WriteString(systemPrompt)

	if context := processContext(record); context != "" {
		b.WriteString("\n\nCONTEXTO DO PROCESSO:\n")
		b.WriteString(context)
	}

	if len(history) > 0 {
		b.WriteString("\n\nHISTÓRICO DA CONVERSA:\n")
		start := 0
		if len(history) > historyWindow {
			start = len(history) - historyWindow
		}
		for _, message := range history[start:] {
			b.WriteString(roleLabel(message.Role))
			b.WriteString(": ")
			b.WriteString(message.Content)
			b.WriteString("\n")
		}
	}

	b.WriteString("\nUsuário: ")
	b.WriteString(userMessage)
	b.WriteString("\nAssistente:")
	return b.String()
}

// analysisPrompt builds the one-shot structured review of a stored record.
func analysisPrompt(record *models.ProcessRecord) string {
	return fmt.Sprintf(`Analise o seguinte processo jurídico e forneça insights relevantes:

DADOS DO PROCESSO:
%s

Forneça:
1. Resumo do caso
2. Pontos jurídicos relevantes
3. Possíveis próximos passos
4. Observações importantes
5. Recomendações gerais

Mantenha a análise objetiva e baseada nos dados fornecidos.`, processContext(record))
}

func processContext(record *models.ProcessRecord) string {
	if record == nil {
		return ""
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("Número do processo: %s", record.ProcessNumber))
	if record.CourtName != nil && *record.CourtName != "" {
		parts = append(parts, fmt.Sprintf("Tribunal: %s", *record.CourtName))
	} else if record.CourtCode != "" {
		parts = append(parts, fmt.Sprintf("Tribunal: %s", record.CourtCode))
	}
	if record.CaseClass != nil && *record.CaseClass != "" {
		parts = append(parts, fmt.Sprintf("Classe processual: %s", *record.CaseClass))
	}
	if record.Subject != nil && *record.Subject != "" {
		parts = append(parts, fmt.Sprintf("Assunto: %s", *record.Subject))
	}
	if record.Status != nil && *record.Status != "" {
		parts = append(parts, fmt.Sprintf("Situação: %s", *record.Status))
	}

	if len(record.Parties) > 0 {
		entries := make([]string, 0, len(record.Parties))
		for _, party := range record.Parties {
			entries = append(entries, fmt.Sprintf("%s (%s)", party.Name, party.Role))
		}
		parts = append(parts, fmt.Sprintf("Partes envolvidas: %s", strings.Join(entries, ", ")))
	}

	if len(record.Movements) > 0 {
		recent := record.Movements
		if len(recent) > movementWindow {
			recent = recent[:movementWindow]
		}
		lines := make([]string, 0, len(recent))
		for _, movement := range recent {
			date := "sem data"
			if movement.OccurredAt != nil {
				date = movement.OccurredAt.Format("02/01/2006")
			}
			lines = append(lines, fmt.Sprintf("- %s (%s)", movement.Description, date))
		}
		parts = append(parts, fmt.Sprintf("Últimas movimentações:\n%s", strings.Join(lines, "\n")))
	}

	return strings.Join(parts, "\n")
}

func roleLabel(role enums.ChatRole) string {
	if role == enums.ChatRoleUser {
		return "Usuário"
	}
	return "Assistente"
}
