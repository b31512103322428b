package constant

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	AccountTypeChecking = "checking"
	AccountTypeSavings  = "savings"

	TransactionTypeTransfer   = "transfer"
	TransactionTypeDeposit    = "deposit"
	TransactionTypeWithdrawal = "withdrawal"

	// AccountNumberLength is the fixed width of generated account numbers.
	AccountNumberLength = 10

	MaxDescriptionLength = 255

	// AdminDepositPrefix marks ledger rows created through the admin console.
	AdminDepositPrefix = "Administrative deposit: "
)
