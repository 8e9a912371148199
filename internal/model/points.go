package model

type PurchaseItem struct {
	ItemName string `json:"item_name"`
	Quantity int    `json:"quantity"`
}

type ConfigurePointsRequest struct {
	PointsValue uint64 `json:"points_value"`
}

type ConfigurePointsResponse struct{}

type GetPointsConfigurationRequest struct {
	IssuerID string `json:"issuer_id"`
}

type GetPointsConfigurationResponse struct {
	PointsValue uint64 `json:"points_value"`
}

type AssignPointsRequest struct {
	UserID        string         `json:"user_id"`
	Points        uint64         `json:"points"`
	PurchaseItems []PurchaseItem `json:"purchase_items"`
}

type AssignPointsResponse struct {
	Tokens            uint64 `json:"tokens"`
	MintSignature     string `json:"mint_signature"`
	TransferSignature string `json:"transfer_signature"`
}

type AirdropPointsRequest struct {
	Points uint64 `json:"points"`
}

type AirdropResult struct {
	UserID            string `json:"user_id"`
	UserEmail         string `json:"user_email"`
	Succeeded         bool   `json:"succeeded"`
	Error             string `json:"error,omitempty"`
	MintSignature     string `json:"mint_signature,omitempty"`
	TransferSignature string `json:"transfer_signature,omitempty"`
}

type AirdropPointsResponse struct {
	Results []AirdropResult `json:"results"`
}

type PointsHistoryRequest struct {
	UserID string `json:"user_id"`
}

type PointsHistoryEntry struct {
	ID                string         `json:"id"`
	UserID            string         `json:"user_id"`
	UserEmail         string         `json:"user_email"`
	Points            uint64         `json:"points"`
	Tokens            uint64         `json:"tokens"`
	PurchaseItems     []PurchaseItem `json:"purchase_items"`
	AssignedBy        string         `json:"assigned_by"`
	AssignedAt        string         `json:"assigned_at"`
	MintSignature     string         `json:"mint_signature"`
	TransferSignature string         `json:"transfer_signature"`
	Airdrop           bool           `json:"airdrop"`
}

type PointsHistoryResponse struct {
	Entries []PointsHistoryEntry `json:"entries"`
}
