// internal/service/engagement/quests.go

package engagement

import (
	"basedsprings/internal/domain/engagement"
)

// DefaultQuests returns the built-in quest table. Each quest counts one
// event kind toward a goal and mints its badge exactly once on completion.
func DefaultQuests() []engagement.Quest {
	return []engagement.Quest{
		{
			ID:          "first-soak",
			Title:       "First Soak",
			Description: "Check in at any hot spring",
			Event:       engagement.EventCheckIn,
			Goal:        1,
			BadgeID:     "badge-first-soak",
		},
		{
			ID:          "trail-regular",
			Title:       "Trail Regular",
			Description: "Check in five times",
			Event:       engagement.EventCheckIn,
			Goal:        5,
			BadgeID:     "badge-trail-regular",
		},
		{
			ID:            "shutterbug",
			Title:         "Shutterbug",
			Description:   "Check in three times with a photo attached",
			Event:         engagement.EventCheckIn,
			Goal:          3,
			RequiresMedia: true,
			BadgeID:       "badge-shutterbug",
		},
		{
			ID:          "desert-soaker",
			Title:       "Desert Soaker",
			Description: "Check in across the desert Southwest",
			Event:       engagement.EventCheckIn,
			Goal:        3,
			States:      []string{"Arizona", "Nevada", "New Mexico", "Utah"},
			BadgeID:     "badge-desert-soaker",
		},
		{
			ID:          "local-guide",
			Title:       "Local Guide",
			Description: "Leave three visitor tips",
			Event:       engagement.EventTip,
			Goal:        3,
			BadgeID:     "badge-local-guide",
		},
	}
}
