package entity

// WithdrawalRequest asks the exchange to send Amount subunits of
// Currency to Address.
type WithdrawalRequest struct {
	Amount   int64
	Currency string
	Address  string
}

// WithdrawalResult identifies a submitted withdrawal. The exchange does
// not report progress, so State is always pending.
type WithdrawalResult struct {
	ExternalID string
	State      string
}
