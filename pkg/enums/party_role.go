package enums

// PartyRole classifies how a party participates in a judicial process.
// Values follow the DataJud wire vocabulary.
type PartyRole string

const (
	PartyRolePlaintiff  PartyRole = "autor"
	PartyRoleDefendant  PartyRole = "reu"
	PartyRoleThirdParty PartyRole = "terceiro"
	PartyRoleWitness    PartyRole = "testemunha"
	PartyRoleOther      PartyRole = "outros"
)

var validPartyRoles = []PartyRole{
	PartyRolePlaintiff,
	PartyRoleDefendant,
	PartyRoleThirdParty,
	PartyRoleWitness,
	PartyRoleOther,
}

// String implements fmt.Stringer.
func (r PartyRole) String() string {
	return string(r)
}

// IsValid reports whether the value is known.
func (r PartyRole) IsValid() bool {
	for _, candidate := range validPartyRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// NormalizePartyRole maps raw upstream input onto a known role, falling back
// to PartyRoleOther for anything unrecognized.
func NormalizePartyRole(value string) PartyRole {
	role := PartyRole(value)
	if role.IsValid() {
		return role
	}
	return PartyRoleOther
}
