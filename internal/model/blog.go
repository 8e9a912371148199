package model

type CreateBlogPostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`

	ImageName string `json:"image_name"`
	ImageMime string `json:"image_mime"`
	ImageData []byte `json:"image_data"`
}

type CreateBlogPostResponse struct {
	ID    string `json:"id"`
	Image string `json:"image"`
}

type BlogPost struct {
	ID        string `json:"id"`
	AuthorID  string `json:"author_id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Image     string `json:"image"`
	CreatedAt string `json:"created_at"`
}

type GetBlogPostRequest struct {
	ID string `json:"id"`
}

type GetBlogPostResponse struct {
	BlogPost
}

type GetListBlogPostRequest struct {
	AuthorID string `json:"author_id"`
}

type GetListBlogPostResponse struct {
	Posts []BlogPost `json:"posts"`
}

type UpdateBlogPostRequest struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`

	ImageName string `json:"image_name"`
	ImageMime string `json:"image_mime"`
	ImageData []byte `json:"image_data"`
}

type UpdateBlogPostResponse struct {
	Image string `json:"image"`
}

type DeleteBlogPostRequest struct {
	ID string `json:"id"`
}

type DeleteBlogPostResponse struct{}
