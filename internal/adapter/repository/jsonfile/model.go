package jsonfile

// Wire models for the flat-file format. Balances and amounts are strings so
// no binary float ever appears in the file.

type fileAccount struct {
	Name    string `json:"name"`
	Balance string `json:"balance"`
}

type fileTransaction struct {
	ID        string  `json:"id,omitempty"`
	Timestamp string  `json:"timestamp"`
	Type      string  `json:"type"`
	Amount    string  `json:"amount"`
	From      string  `json:"from"`
	To        *string `json:"to"`
}

type fileSnapshot struct {
	Accounts     []fileAccount     `json:"accounts"`
	Transactions []fileTransaction `json:"transactions"`
}
