package model

// Badge is a catalog entry; unlocked badge IDs live on the profile.
type Badge struct {
	ID          string
	Name        string
	Icon        string
	Description string
	RewardXP    int
}

// BadgeCatalog is the static badge definitions shown in the profile screen.
// Unlock criteria are evaluated by the engine package.
var BadgeCatalog = []Badge{
	{ID: "1", Name: "Foundation", Icon: "◈", Description: "Initiated your productivity journey", RewardXP: 50},
	{ID: "2", Name: "Consistency I", Icon: "⌚", Description: "Maintained activity for 7 consecutive days", RewardXP: 200},
	{ID: "3", Name: "Consistency II", Icon: "📅", Description: "Maintained activity for 30 consecutive days", RewardXP: 500},
	{ID: "4", Name: "Focus Specialist", Icon: "🎯", Description: "Completed 10 difficult academic missions", RewardXP: 300},
	{ID: "5", Name: "Academic Scholar", Icon: "📜", Description: "Completed 25 study-related tasks", RewardXP: 150},
	{ID: "6", Name: "Early Achiever", Icon: "🌅", Description: "Completed a task before 8:00 AM", RewardXP: 50},
	{ID: "7", Name: "Late Diligence", Icon: "🌙", Description: "Completed a task after 10:00 PM", RewardXP: 50},
	{ID: "8", Name: "Diverse Intellect", Icon: "💠", Description: "Successfully finished tasks in 4 categories", RewardXP: 400},
	{ID: "9", Name: "Centurion", Icon: "🏛", Description: "Achieved 100 total task completions", RewardXP: 1000},
	{ID: "10", Name: "Elite Mastery", Icon: "⚛", Description: "Reached user level 10", RewardXP: 1000},
}

// BadgeByID returns the catalog entry for id, if it exists.
func BadgeByID(id string) (Badge, bool) {
	for _, b := range BadgeCatalog {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}
