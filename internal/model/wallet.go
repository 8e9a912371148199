package model

type EnsureWalletRequest struct{}

type EnsureWalletResponse struct {
	PublicKey string `json:"public_key"`
	Created   bool   `json:"created"`
}

type GetBalanceRequest struct{}

type GetBalanceResponse struct {
	Lamports uint64 `json:"lamports"`
}

type RequestTestFundsRequest struct{}

type RequestTestFundsResponse struct {
	Signature string `json:"signature"`
}
