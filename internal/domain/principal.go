package domain

// Principal is the identity a request acts as. It is only ever built from a
// verified token and lives for a single request.
type Principal struct {
	ID    int64
	Phone string
	Role  Role
}

func (p *Principal) IsAdmin() bool { return p != nil && p.Role == RoleAdmin }
