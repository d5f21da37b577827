package domain

// UserData is the combined schedule-plus-library payload exchanged with the
// user-data endpoints and held in the on-device snapshot.
type UserData struct {
	WeekSchedule       WeekData     `json:"weekSchedule"`
	EmojiLibrary       []EmojiEntry `json:"emojiLibrary"`
	CurrentLibraryID   string       `json:"currentLibraryId"`
	CurrentLibraryName string       `json:"currentLibraryName"`
}

// IsEmpty reports whether the payload carries nothing worth persisting.
func (d UserData) IsEmpty() bool {
	return d.WeekSchedule.IsEmpty() && len(d.EmojiLibrary) == 0
}
