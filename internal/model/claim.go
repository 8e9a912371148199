package model

type ClaimRewardRequest struct {
	RewardID string `json:"reward_id"`
}

type ClaimRewardResponse struct {
	ID        string `json:"id"`
	Status    string `json:"status"`
	ExpiresAt string `json:"expires_at"`
}

type ApproveClaimRequest struct {
	ID string `json:"id"`
}

type ApproveClaimResponse struct{}

type CancelClaimRequest struct {
	ID string `json:"id"`
}

type CancelClaimResponse struct{}

type CompleteClaimRequest struct {
	ID string `json:"id"`
}

type CompleteClaimResponse struct {
	BurnSignature string `json:"burn_signature"`
	TokenAmount   uint64 `json:"token_amount"`
}

type Claim struct {
	ID              string `json:"id"`
	RewardID        string `json:"reward_id"`
	UserID          string `json:"user_id"`
	UserEmail       string `json:"user_email"`
	BusinessOwnerID string `json:"business_owner_id"`
	Status          string `json:"status"`
	CreatedAt       string `json:"created_at"`
	ExpiresAt       string `json:"expires_at"`
	ApprovedBy      string `json:"approved_by,omitempty"`
	CompletedAt     string `json:"completed_at,omitempty"`
}

type GetClaimRequest struct {
	ID string `json:"id"`
}

type GetClaimResponse struct {
	Claim
}

type GetUserClaimsRequest struct{}

type GetUserClaimsResponse struct {
	Claims []Claim `json:"claims"`
}

type GetOwnerClaimsRequest struct{}

type GetOwnerClaimsResponse struct {
	Claims []Claim `json:"claims"`
}
