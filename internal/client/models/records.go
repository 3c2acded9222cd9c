package models

// ModelRecord is an uploaded model as served by /api/models and
// /api/high-risk-models.
type ModelRecord struct {
	ID         int64   `json:"id"`
	Filename   string  `json:"filename"`
	FilePath   string  `json:"file_path,omitempty"`
	Status     string  `json:"status,omitempty"`
	ReportPath string  `json:"report_path,omitempty"`
	UploadDate string  `json:"upload_date,omitempty"`
	RiskScore  float64 `json:"risk_score,omitempty"`
	HighRisk   bool    `json:"high_risk"`

	Vulnerabilities []Vulnerability `json:"vulnerabilities,omitempty"`
}

// Vulnerability is a single finding reported against a model.
type Vulnerability struct {
	ID          int64  `json:"id"`
	ModelID     int64  `json:"model_id"`
	Type        string `json:"type,omitempty"`
	Title       string `json:"title,omitempty"`
	Severity    string `json:"severity,omitempty"`
	Description string `json:"description,omitempty"`
	Details     string `json:"details,omitempty"`
	Line        *int   `json:"line,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// UploadRecord is an entry of /api/uploads: the model fields plus the
// absolute report link.
type UploadRecord struct {
	ModelRecord
	ReportURL string `json:"report_url"`
}

// UserProfile is an entry of /api/users.
type UserProfile struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Country  string `json:"country,omitempty"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// ReportItem is a row of the scanned reports list.
type ReportItem struct {
	Name      string
	Date      string
	ReportURL string
}
