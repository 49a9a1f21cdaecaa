// Package prompt turns a user question into the instruction sent to the
// completion endpoint. The template is closed: the user's text is the only
// variable part and is interpolated verbatim.
package prompt

import "fmt"

// Template steers the model toward a pregnancy and infant-care assistant
// persona: friendly, empathetic, concise and evidence-based, economical with
// tokens, and recommending an in-person doctor only for serious and urgent
// cases. It holds exactly one %s verb.
const Template = "Eres una asistente virtual especializada en embarazo y cuidado del bebé, " +
	"solo responde a este tipo de preguntas. " +
	"Responde de manera amigable, empática sin alargarte mucho, completa y concisa. " +
	"Proporciona información precisa basada en evidencia médica actual. " +
	"Si no estás segura de algo, indícalo claramente. " +
	"Aquí está la pregunta del usuario: %s, se breve y optimiza el uso de tokens. " +
	"Solo recomienda ver al doctor en casa de algo grave y urgente"

// Build wraps userText in Template.
func Build(userText string) string {
	return fmt.Sprintf(Template, userText)
}
