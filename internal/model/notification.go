package model

// NotificationKind tells the UI how to present a toast.
type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyError   NotificationKind = "error"
)

// ViewBacklog is the navigation target offered after an admission rejection.
const ViewBacklog = "backlog"

// NotificationAction is an optional follow-up the UI can offer.
type NotificationAction struct {
	Label      string
	View       string
	FilterType TaskType
}

// Notification is a user-facing, in-session message.
type Notification struct {
	Kind    NotificationKind
	Message string
	Action  *NotificationAction
}
