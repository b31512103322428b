package dto

// TransferInput carries a transfer request. Amount stays a string until the
// engine parses it; binary floating point never touches currency.
type TransferInput struct {
	FromAccountID   string `json:"from_account_id"`
	ToAccountNumber string `json:"to_account_number"`
	Amount          string `json:"amount"`
	Description     string `json:"description"`
	IPAddress       string `json:"-"`
	UserAgent       string `json:"-"`
}

type TransferResult struct {
	TransactionID string `json:"transaction_id"`
	NewBalance    string `json:"new_balance"`
}

type DepositInput struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
	IPAddress   string `json:"-"`
	UserAgent   string `json:"-"`
}

type DepositResult struct {
	TransactionID string `json:"transaction_id"`
	AccountID     string `json:"account_id"`
	NewBalance    string `json:"new_balance"`
}
