package models

// StatusDisplayInfo contains display information for a trip status or day type.
type StatusDisplayInfo struct {
	DisplayName string
	BgColor     string
	TextColor   string
	BorderColor string
}

var tripStatusDisplay = map[string]StatusDisplayInfo{
	"upcoming": {
		DisplayName: "Upcoming",
		BgColor:     "#E6F3FF",
		TextColor:   "#0066CC",
		BorderColor: "#4EC6E0",
	},
	"current": {
		DisplayName: "Sailing Now",
		BgColor:     "#E6FFE6",
		TextColor:   "#006600",
		BorderColor: "#28a745",
	},
	"past": {
		DisplayName: "Completed",
		BgColor:     "#F5F5F5",
		TextColor:   "#666",
		BorderColor: "#8C8C8C",
	},
}

var dayTypeDisplay = map[string]StatusDisplayInfo{
	"embarkation": {
		DisplayName: "Embarkation",
		BgColor:     "#E6F7FF",
		TextColor:   "#0052A3",
		BorderColor: "#4EC6E0",
	},
	"disembarkation": {
		DisplayName: "Disembarkation",
		BgColor:     "#E6F7FF",
		TextColor:   "#0052A3",
		BorderColor: "#4EC6E0",
	},
	"port": {
		DisplayName: "Port Day",
		BgColor:     "#FFF4E6",
		TextColor:   "#8B6914",
		BorderColor: "#FFA500",
	},
	"overnight": {
		DisplayName: "Overnight in Port",
		BgColor:     "#FFF9E6",
		TextColor:   "#8B6914",
		BorderColor: "#FFA500",
	},
	"sea_day": {
		DisplayName: "Day at Sea",
		BgColor:     "#E6F3FF",
		TextColor:   "#0066CC",
		BorderColor: "#4EC6E0",
	},
	"pre_trip": {
		DisplayName: "Pre-Trip",
		BgColor:     "#F5F5F5",
		TextColor:   "#666",
		BorderColor: "#8C8C8C",
	},
	"post_trip": {
		DisplayName: "Post-Trip",
		BgColor:     "#F5F5F5",
		TextColor:   "#666",
		BorderColor: "#8C8C8C",
	},
}

var defaultDisplay = StatusDisplayInfo{
	BgColor:     "#E6E6E6",
	TextColor:   "#333",
	BorderColor: "#8C8C8C",
}

// GetStatusDisplayInfo returns display information for a trip status.
func GetStatusDisplayInfo(status string) StatusDisplayInfo {
	if info, ok := tripStatusDisplay[status]; ok {
		return info
	}
	info := defaultDisplay
	info.DisplayName = status
	return info
}

// GetDayTypeDisplayInfo returns display information for an itinerary day type.
func GetDayTypeDisplayInfo(dayType string) StatusDisplayInfo {
	if info, ok := dayTypeDisplay[dayType]; ok {
		return info
	}
	info := defaultDisplay
	info.DisplayName = dayType
	return info
}
