package models

// ApplicationStatus is the lifecycle stage of a job application.
type ApplicationStatus string

const (
	StatusSent      ApplicationStatus = "SENT"
	StatusInterview ApplicationStatus = "INTERVIEW"
	StatusRejected  ApplicationStatus = "REJECTED"
	StatusAccepted  ApplicationStatus = "ACCEPTED"
)

// StatusLabels maps statuses to their display names.
var StatusLabels = map[ApplicationStatus]string{
	StatusSent:      "Sent",
	StatusInterview: "Interview",
	StatusRejected:  "Rejected",
	StatusAccepted:  "Accepted",
}

// Valid reports whether s is one of the known statuses.
func (s ApplicationStatus) Valid() bool {
	_, ok := StatusLabels[s]
	return ok
}

// Application is a tracked job application as returned by the tracker API.
type Application struct {
	ID              int64             `json:"id,omitempty"`
	Company         string            `json:"company"`
	Position        string            `json:"position"`
	ApplicationDate string            `json:"applicationDate"`
	CurrentStatus   ApplicationStatus `json:"currentStatus"`
	Notes           string            `json:"notes,omitempty"`
	Documents       []Document        `json:"documents,omitempty"`
	DocumentCount   int               `json:"documentCount,omitempty"`
	StatusHistory   []StatusHistory   `json:"statusHistory,omitempty"`
	CreatedAt       string            `json:"createdAt,omitempty"`
	UpdatedAt       string            `json:"updatedAt,omitempty"`
}

// StatusHistory is a single status transition of an application.
type StatusHistory struct {
	ID        int64             `json:"id,omitempty"`
	Status    ApplicationStatus `json:"status"`
	ChangedAt string            `json:"changedAt,omitempty"`
}

// Document is a file attached to an application. The file content itself is
// never held here, only downloaded on demand.
type Document struct {
	ID       int64  `json:"id,omitempty"`
	FileName string `json:"fileName"`
	FileType string `json:"fileType,omitempty"`
	FileSize int64  `json:"fileSize,omitempty"`
}
