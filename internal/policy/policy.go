// Package policy is the single point of truth for role-gated authorization.
// Every function here is pure: a lookup over (actor role, transaction type,
// transaction status) with no I/O and no side effects. Call sites must never
// branch on roles directly; they consult this table instead.
package policy

import "finvue/internal/models"

// transitionRule is one row of the capability table. A zero Type matches
// transactions of any type.
type transitionRule struct {
	Role    models.UserRole
	Status  models.TransactionStatus
	Type    models.TransactionType
	Targets []models.TransactionStatus
}

// transitionTable encodes who may move a transaction where. APPROVED and
// REJECTED have no rows: they are absorbing.
var transitionTable = []transitionRule{
	{
		Role:    models.RoleManager,
		Status:  models.StatusPending,
		Targets: []models.TransactionStatus{models.StatusVerified, models.StatusRejected},
	},
	{
		Role:    models.RoleAdmin,
		Status:  models.StatusVerified,
		Targets: []models.TransactionStatus{models.StatusApproved, models.StatusRejected},
	},
	{
		Role:    models.RoleAdmin,
		Status:  models.StatusPending,
		Type:    models.TransactionTypeExpense,
		Targets: []models.TransactionStatus{models.StatusApproved, models.StatusRejected},
	},
}

// AllowedTransitions returns the statuses the actor may move a transaction
// into, given its current type and status. An empty result means no
// transition is permitted.
func AllowedTransitions(role models.UserRole, txType models.TransactionType, status models.TransactionStatus) []models.TransactionStatus {
	for _, rule := range transitionTable {
		if rule.Role != role || rule.Status != status {
			continue
		}
		if rule.Type != "" && rule.Type != txType {
			continue
		}
		return rule.Targets
	}
	return nil
}

// CanTransition reports whether the actor may move a transaction with the
// given type and current status into target.
func CanTransition(role models.UserRole, txType models.TransactionType, status models.TransactionStatus, target models.TransactionStatus) bool {
	for _, allowed := range AllowedTransitions(role, txType, status) {
		if allowed == target {
			return true
		}
	}
	return false
}

// IsGlobalViewer reports whether the role sees every transaction. All other
// roles see only their own submissions, uniformly across the ledger view,
// the dashboard aggregation, the rejected view, advisory input, and export.
func IsGlobalViewer(role models.UserRole) bool {
	return role == models.RoleAdmin || role == models.RoleManager
}

// CanDeleteTransaction reports whether the role may permanently remove a
// transaction. Deletion is distinct from a status transition: it is
// irreversible and ignores the lifecycle entirely.
func CanDeleteTransaction(role models.UserRole) bool {
	return role == models.RoleAdmin
}

// CanManageUsers reports whether the role may create, edit, or delete users.
func CanManageUsers(role models.UserRole) bool {
	return role == models.RoleAdmin
}

// CanManageSettings reports whether the role may change organization settings.
func CanManageSettings(role models.UserRole) bool {
	return role == models.RoleAdmin
}

// CanSync reports whether the role may trigger a remote ledger push.
func CanSync(role models.UserRole) bool {
	return IsGlobalViewer(role)
}

// InitialStatus computes the status assigned at creation. Income is trusted
// at submission, as are expenses submitted by an admin; every other expense
// enters the lifecycle at PENDING.
func InitialStatus(txType models.TransactionType, submitter models.UserRole) models.TransactionStatus {
	if txType == models.TransactionTypeIncome {
		return models.StatusApproved
	}
	if submitter == models.RoleAdmin {
		return models.StatusApproved
	}
	return models.StatusPending
}

// AllowedCategories filters catalog rows down to those the role may pick when
// creating a transaction of the given type. Income entries always draw from
// the income catalog regardless of role. Employees may only file Conveyance
// expenses; admins and managers additionally get the admin-only catalog.
func AllowedCategories(role models.UserRole, txType models.TransactionType, catalog []models.Category) []models.Category {
	var out []models.Category
	for _, c := range catalog {
		if CategoryAllowed(role, txType, c) {
			out = append(out, c)
		}
	}
	return out
}

// CategoryAllowed reports whether a single catalog row is selectable by the
// role for the given transaction type.
func CategoryAllowed(role models.UserRole, txType models.TransactionType, c models.Category) bool {
	if txType == models.TransactionTypeIncome {
		return c.Kind == models.CategoryKindIncome
	}
	switch c.Kind {
	case models.CategoryKindIncome:
		return false
	case models.CategoryKindAdmin:
		if !IsGlobalViewer(role) {
			return false
		}
	}
	if role == models.RoleEmployee {
		return c.Name == "Conveyance"
	}
	return true
}
