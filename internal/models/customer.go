package models

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Customer is one row of the input dataset, enriched with news during a run.
type Customer struct {
	ID      int64     `json:"id" yaml:"id"`
	Name    string    `json:"name" yaml:"name"`
	Account Account   `json:"account" yaml:"account"`
	News    []Message `json:"news" yaml:"news"`
}

// NewCustomer creates a Customer with an empty news list.
func NewCustomer(id int64, name string, balance decimal.Decimal) Customer {
	return Customer{
		ID:      id,
		Name:    name,
		Account: Account{Balance: balance},
		News:    []Message{},
	}
}

// AddNews appends a message to the customer's news list.
func (c *Customer) AddNews(m Message) {
	c.News = append(c.News, m)
}

// Account holds the customer's balance.
type Account struct {
	Balance decimal.Decimal `json:"balance" yaml:"balance"`
}

// MarshalJSON writes the balance as a JSON number instead of the quoted
// string decimal.Decimal produces by default.
func (a Account) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Balance json.Number `json:"balance"`
	}{
		Balance: json.Number(a.Balance.String()),
	})
}

// Message is a single piece of news shown to a customer.
type Message struct {
	Icon        string `json:"icon" yaml:"icon"`
	Description string `json:"description" yaml:"description"`
}
