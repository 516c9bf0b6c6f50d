package types

// Transaction is a single payment extracted from a transcript or entered by
// hand. Transactions are immutable once recorded: the ledger only appends and
// deletes them, never edits in place.
type Transaction struct {
	// Time is the wall-clock time of recording in HH:MM, not a time parsed
	// out of the transcript.
	Time string `json:"time"`
	// Operator is the person who recorded the transaction.
	Operator string `json:"operator"`
	// Store is the counterparty the payment belongs to.
	Store string `json:"store"`
	// Content is the original line the amount was derived from, kept
	// verbatim for audit and display.
	Content string `json:"content"`
	// Amount is count*unitPrice + bonusPerUnit*count, in yen.
	Amount int `json:"amount"`
}

// BusinessDay is one accounting day's transactions in recording order.
type BusinessDay struct {
	Date         string        `json:"date"`
	Transactions []Transaction `json:"transactions"`
}
