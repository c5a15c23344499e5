package services

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "finvue/internal/errors"
	"finvue/internal/models"
)

// summaryService derives the financial aggregates. There is no cached state:
// every call folds over the rows as they are at that moment, so any mutation
// is reflected on the very next read.
type summaryService struct {
	db *gorm.DB
}

// NewSummaryService creates a new SummaryServicer.
func NewSummaryService(db *gorm.DB) SummaryServicer {
	return &summaryService{db: db}
}

// RelevantTransactions returns the aggregation input for the actor's scope:
// APPROVED entries whose category is not Requisition.
func (s *summaryService) RelevantTransactions(actor *models.User) ([]models.Transaction, error) {
	q := s.db.Model(&models.Transaction{}).
		Where("status = ?", models.StatusApproved).
		Where("category <> ?", models.CategoryRequisition)
	q = scopeToActor(q, actor)

	var transactions []models.Transaction
	if err := q.Order("date DESC, created_at DESC").Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

// Summarize computes income, expense, net balance, per-channel balances over
// the fixed four channels, and the relevant entry count. Channels with no
// activity report zero.
func (s *summaryService) Summarize(actor *models.User) (*Summary, error) {
	relevant, err := s.RelevantTransactions(actor)
	if err != nil {
		return nil, err
	}

	income := decimal.Zero
	expense := decimal.Zero
	perChannel := make(map[models.PaymentChannel]decimal.Decimal, len(models.PaymentChannels))
	for _, ch := range models.PaymentChannels {
		perChannel[ch] = decimal.Zero
	}

	for _, t := range relevant {
		switch t.Type {
		case models.TransactionTypeIncome:
			income = income.Add(t.Amount)
			perChannel[t.Channel] = perChannel[t.Channel].Add(t.Amount)
		case models.TransactionTypeExpense:
			expense = expense.Add(t.Amount)
			perChannel[t.Channel] = perChannel[t.Channel].Sub(t.Amount)
		}
	}

	channelBalances := make([]ChannelBalance, 0, len(models.PaymentChannels))
	for _, ch := range models.PaymentChannels {
		channelBalances = append(channelBalances, ChannelBalance{Channel: ch, Balance: perChannel[ch]})
	}

	return &Summary{
		Income:          income,
		Expense:         expense,
		Balance:         income.Sub(expense),
		Count:           len(relevant),
		ChannelBalances: channelBalances,
	}, nil
}
