package transaction

// Ledger entry types. The type alone decides whether an entry debits or
// credits the owning account; the amount is always stored positive.
const (
	TypeDeposit          = "deposit"
	TypeWithdrawal       = "withdrawal"
	TypeTransferSent     = "transfer_sent"
	TypeTransferReceived = "transfer_received"
	TypePayment          = "payment"
	TypeCardTopUp        = "virtual_card_topup"
	TypeTradeBuy         = "trade_buy"
	TypeTradeSell        = "trade_sell"
)

const (
	StatusCompleted = "completed"
	StatusPending   = "pending"
	StatusFailed    = "failed"
)

// IsDebit reports whether entries of this type reduce the account balance.
func IsDebit(entryType string) bool {
	switch entryType {
	case TypeWithdrawal, TypeTransferSent, TypePayment, TypeCardTopUp, TypeTradeBuy:
		return true
	}
	return false
}

// ValidType reports whether the given string is a known ledger entry type.
func ValidType(entryType string) bool {
	switch entryType {
	case TypeDeposit, TypeWithdrawal, TypeTransferSent, TypeTransferReceived,
		TypePayment, TypeCardTopUp, TypeTradeBuy, TypeTradeSell:
		return true
	}
	return false
}
