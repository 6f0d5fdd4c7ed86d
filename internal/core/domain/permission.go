package domain

// Operation names a gated action in the system.
type Operation string

const (
	OpViewDossiers   Operation = "dossier.view"
	OpCreateDossier  Operation = "dossier.create"
	OpEditDossier    Operation = "dossier.edit"
	OpDeleteDossier  Operation = "dossier.delete"
	OpManageUsers    Operation = "user.manage"
	OpManageServices Operation = "service.manage"
)

// Operations lists every gated operation.
var Operations = []Operation{
	OpViewDossiers,
	OpCreateDossier,
	OpEditDossier,
	OpDeleteDossier,
	OpManageUsers,
	OpManageServices,
}

// operationPolicy lists the roles allowed to perform each operation.
// It is not derived from the rank order: agents create dossiers, chefs do not.
var operationPolicy = map[Operation][]Role{
	OpViewDossiers:   {RoleAgent, RoleChef, RoleResponsable, RoleAdmin},
	OpCreateDossier:  {RoleAgent, RoleAdmin},
	OpEditDossier:    {RoleResponsable, RoleAdmin},
	OpDeleteDossier:  {RoleResponsable, RoleAdmin},
	OpManageUsers:    {RoleAdmin},
	OpManageServices: {RoleAdmin},
}

// Can reports whether role may perform op. It never fails: a denial is
// simply false and the caller decides how to route it.
func Can(role Role, op Operation) bool {
	if role == RoleAdmin {
		return true
	}
	for _, allowed := range operationPolicy[op] {
		if allowed == role {
			return true
		}
	}
	return false
}

// AllowedRoles returns a copy of the policy row for op.
func AllowedRoles(op Operation) []Role {
	row := operationPolicy[op]
	out := make([]Role, len(row))
	copy(out, row)
	return out
}

// PermittedOperations returns the operations role may perform, in
// Operations order.
func PermittedOperations(role Role) []Operation {
	out := make([]Operation, 0, len(Operations))
	for _, op := range Operations {
		if Can(role, op) {
			out = append(out, op)
		}
	}
	return out
}

// Actor is the identity performing an operation, as supplied by the session layer.
type Actor struct {
	ID   string
	Role Role
}

// Can is shorthand for Can(a.Role, op).
func (a Actor) Can(op Operation) bool {
	return Can(a.Role, op)
}
