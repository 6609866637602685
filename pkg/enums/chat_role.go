package enums

// ChatRole identifies the author of a chat message.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// String implements fmt.Stringer.
func (r ChatRole) String() string {
	return string(r)
}

// IsValid reports whether the value is known.
func (r ChatRole) IsValid() bool {
	return r == ChatRoleUser || r == ChatRoleAssistant
}
