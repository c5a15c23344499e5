package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"finvue/internal/models"
)

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	EnsureBootstrapAdmin(username, password string) error
	Authenticate(username, password string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	CreateUser(actor *models.User, username, password string, role models.UserRole) (*models.User, error)
	ListUsers(actor *models.User) ([]models.User, error)
	UpdateUser(actor *models.User, userID string, fields UserUpdateFields) (*models.User, error)
	DeleteUser(actor *models.User, userID string) error
	SetAvatar(userID, dataURI string) (*models.User, error)
}

// UserUpdateFields holds the optional fields an admin may change on a user.
type UserUpdateFields struct {
	Username *string
	Password *string
	Role     *models.UserRole
}

// TransactionFilter holds the conjunctive predicates of the ledger query.
type TransactionFilter struct {
	Search   string
	UserID   *string
	Category *string
	FromDate *time.Time
	ToDate   *time.Time
}

// CreateTransactionInput carries the submitter-provided fields of a new entry.
type CreateTransactionInput struct {
	Type        models.TransactionType
	Amount      decimal.Decimal
	Category    string
	SubCategory string
	Channel     models.PaymentChannel
	Date        time.Time
	Note        string
}

// TransactionServicer defines the contract for the transaction lifecycle and
// the ledger queries. Every mutation is all-or-nothing: a failed call leaves
// the store exactly as it was.
type TransactionServicer interface {
	Create(actor *models.User, input CreateTransactionInput) (*models.Transaction, error)
	GetByID(actor *models.User, id string) (*models.Transaction, error)
	List(actor *models.User, filter TransactionFilter) ([]models.Transaction, error)
	ListRejected(actor *models.User) ([]models.Transaction, error)
	Transition(actor *models.User, id string, target models.TransactionStatus) (*models.Transaction, error)
	Delete(actor *models.User, id string, confirmed bool) error
}

// ChannelBalance is the derived per-channel net figure.
type ChannelBalance struct {
	Channel models.PaymentChannel `json:"channel"`
	Balance decimal.Decimal       `json:"balance"`
}

// Summary holds the derived financial figures for one actor's scope.
type Summary struct {
	Income          decimal.Decimal  `json:"income"`
	Expense         decimal.Decimal  `json:"expense"`
	Balance         decimal.Decimal  `json:"balance"`
	Count           int              `json:"count"`
	ChannelBalances []ChannelBalance `json:"channel_balances"`
}

// SummaryServicer computes derived aggregates. Figures are recomputed from
// current rows on every call; nothing is cached.
type SummaryServicer interface {
	Summarize(actor *models.User) (*Summary, error)
	RelevantTransactions(actor *models.User) ([]models.Transaction, error)
}

// Settings is the organization-wide configuration snapshot.
type Settings struct {
	CompanyName string `json:"company_name"`
	CompanyLogo string `json:"company_logo,omitempty"`
	SheetURL    string `json:"sheet_url,omitempty"`
	LastSynced  string `json:"last_synced,omitempty"`
}

// SettingsUpdateFields holds the optional settings an admin may change.
type SettingsUpdateFields struct {
	CompanyName *string
	CompanyLogo *string
	SheetURL    *string
}

// SettingsServicer defines the contract for organization settings.
type SettingsServicer interface {
	Get() (*Settings, error)
	Update(actor *models.User, fields SettingsUpdateFields) (*Settings, error)
	SetLastSynced(value string) error
}

// CategoryServicer exposes the role-scoped creation catalog.
type CategoryServicer interface {
	Catalog(actor *models.User, txType models.TransactionType) ([]models.Category, error)
	GetByName(name string) (*models.Category, error)
}

// SyncServicer pushes the ledger to the configured remote endpoint.
type SyncServicer interface {
	Run(ctx context.Context, actor *models.User) (*Settings, error)
}

// AuditServicer records audit events best-effort.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]any)
}
