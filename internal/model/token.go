package model

type CreateTokenRequest struct {
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`

	ImageName string `json:"image_name"`
	ImageMime string `json:"image_mime"`
	ImageData []byte `json:"image_data"`
}

type CreateTokenResponse struct {
	MintAccount     string `json:"mint_account"`
	TokenAta        string `json:"token_ata"`
	MetadataURI     string `json:"metadata_uri"`
	CreateSignature string `json:"create_signature"`
}

type TokenInfo struct {
	MintAccount string `json:"mint_account"`
	OwnerID     string `json:"owner_id"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Description string `json:"description"`
	Image       string `json:"image"`
	MetadataURI string `json:"metadata_uri"`
}

type ListTokensRequest struct {
	Mints []string `json:"mints"`
}

type ListTokensResponse struct {
	Tokens []TokenInfo `json:"tokens"`
}
