package dto

type DashboardStats struct {
	TotalClients          int64 `json:"totalClients"`
	AllAppointments       int64 `json:"allAppointments"`
	CompletedAppointments int64 `json:"completedAppointments"`
	PendingAppointments   int64 `json:"pendingAppointments"`
}
