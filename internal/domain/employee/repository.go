package employee

import (
	"context"
)

// EmployeeRepository is the directory lookup the reconciliation engine and
// the payment ledger depend on. Full personnel management lives in another
// service.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)

	ListIDs(ctx context.Context) ([]string, error)
}
