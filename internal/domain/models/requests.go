package models

// UserRequest identifies the owner whose records should be analysed.
type UserRequest struct {
	Email string `json:"email" binding:"required"`
}

// FilteredAnalyticsRequest is the body of a filtered analytics query.
type FilteredAnalyticsRequest struct {
	Email          string   `json:"email" binding:"required"`
	Season         string   `json:"season" binding:"required"`
	ViewType       string   `json:"viewType"`
	SelectedTasks  []string `json:"selectedTasks"`
	SelectedFields []string `json:"selectedFields"`
}

// SeasonsResponse lists the seasons a user has dated records in.
type SeasonsResponse struct {
	Email   string   `json:"email"`
	Seasons []string `json:"seasons"`
}
