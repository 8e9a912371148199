package model

// AccessToken is the object embedded in the JWT access token.
type AccessToken struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type User struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	PublicAddress string `json:"public_address,omitempty"`
}

type RegisterRequest struct {
	Email         string `json:"email"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	PublicAddress string `json:"public_address"`
}

type RegisterResponse struct {
	ID          string `json:"id"`
	AccessToken string `json:"access_token"`
}

type GetUserRequest struct{}

type GetUserResponse struct {
	User
}

type FollowRequest struct {
	IssuerID string `json:"issuer_id"`
}

type FollowResponse struct{}

type GetFollowersRequest struct{}

type GetFollowersResponse struct {
	Followers []User `json:"followers"`
}
