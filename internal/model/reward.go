package model

type CreateRewardRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	PointsCost  uint64 `json:"points_cost"`
	Quantity    int64  `json:"quantity"`

	ImageName string `json:"image_name"`
	ImageMime string `json:"image_mime"`
	ImageData []byte `json:"image_data"`
}

type CreateRewardResponse struct {
	ID    string `json:"id"`
	Image string `json:"image"`
}

type Reward struct {
	ID          string `json:"id"`
	OwnerID     string `json:"owner_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	PointsCost  uint64 `json:"points_cost"`
	Quantity    int64  `json:"quantity"`
}

type GetRewardRequest struct {
	ID string `json:"id"`
}

type GetRewardResponse struct {
	Reward
}

type GetListRewardRequest struct {
	OwnerID string `json:"owner_id"`
}

type GetListRewardResponse struct {
	Rewards []Reward `json:"rewards"`
}

type UpdateRewardRequest struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	PointsCost  uint64 `json:"points_cost"`

	ImageName string `json:"image_name"`
	ImageMime string `json:"image_mime"`
	ImageData []byte `json:"image_data"`
}

type UpdateRewardResponse struct {
	Image string `json:"image"`
}

type DeleteRewardRequest struct {
	ID string `json:"id"`
}

type DeleteRewardResponse struct{}
