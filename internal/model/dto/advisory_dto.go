package dto

// CreateSessionRequest POST /api/advisory 请求体
type CreateSessionRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Type        string `json:"type" binding:"required"`
	Date        string `json:"date" binding:"required"`
	Time        string `json:"time" binding:"required"`
	Duration    int    `json:"duration"`
	Advisor     string `json:"advisor"`
	MeetingLink string `json:"meetingLink"`
}
