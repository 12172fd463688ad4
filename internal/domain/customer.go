package domain

type Customer struct {
	ID       int32  `json:"id"`
	UserID   int32  `json:"user_id"`
	FullName string `json:"full_name"`
}
