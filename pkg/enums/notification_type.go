package enums

import "fmt"

// NotificationType categorizes user-facing notifications.
type NotificationType string

const (
	NotificationTypeMovement     NotificationType = "movement"
	NotificationTypeStatusChange NotificationType = "status_change"
	NotificationTypeDeadline     NotificationType = "deadline"
	NotificationTypeGeneral      NotificationType = "general"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeMovement,
	NotificationTypeStatusChange,
	NotificationTypeDeadline,
	NotificationTypeGeneral,
}

// String implements fmt.Stringer.
func (n NotificationType) String() string {
	return string(n)
}

// IsValid reports whether the value is known.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw input into a NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
