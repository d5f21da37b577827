package domain

// SlotsPerDay is the number of hour slots a day always carries.
const SlotsPerDay = 24

// Default content substituted for empty slot fields.
const (
	DefaultEmoji    = "😴"
	DefaultActivity = "Sleeping"
)

// DayKeys lists the canonical week day keys, Monday first.
var DayKeys = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// Slot assigns an emoji and an activity label to one hour of a day.
type Slot struct {
	Emoji    string `json:"emoji"`
	Activity string `json:"activity"`
}

// WeekData maps canonical day keys to their 24 hour slots.
type WeekData map[string][]Slot

// Normalize returns a week with exactly the seven canonical day keys, each
// holding exactly SlotsPerDay slots. Missing days and slots are filled with
// defaults, extra slots are truncated, and empty slot fields are substituted.
// The receiver is not modified.
func (w WeekData) Normalize() WeekData {
	normalized := make(WeekData, len(DayKeys))
	for _, day := range DayKeys {
		slots := make([]Slot, SlotsPerDay)
		source := w[day]
		for hour := 0; hour < SlotsPerDay; hour++ {
			slot := Slot{}
			if hour < len(source) {
				slot = source[hour]
			}
			if slot.Emoji == "" {
				slot.Emoji = DefaultEmoji
			}
			if slot.Activity == "" {
				slot.Activity = DefaultActivity
			}
			slots[hour] = slot
		}
		normalized[day] = slots
	}
	return normalized
}

// IsEmpty reports whether the week carries no slot data at all.
func (w WeekData) IsEmpty() bool {
	if len(w) == 0 {
		return true
	}
	for _, slots := range w {
		if len(slots) > 0 {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the week.
func (w WeekData) Clone() WeekData {
	if w == nil {
		return nil
	}
	clone := make(WeekData, len(w))
	for day, slots := range w {
		clone[day] = append([]Slot(nil), slots...)
	}
	return clone
}

// defaultDay is the stock hour-by-hour day shipped with a fresh schedule.
var defaultDay = []Slot{
	{Emoji: "😴", Activity: "Sleeping"},
	{Emoji: "😴", Activity: "Sleeping"},
	{Emoji: "😴", Activity: "Sleeping"},
	{Emoji: "😴", Activity: "Sleeping"},
	{Emoji: "😴", Activity: "Sleeping"},
	{Emoji: "😴", Activity: "Sleeping"},
	{Emoji: "🧘", Activity: "Meditating"},
	{Emoji: "🍵", Activity: "Having tea"},
	{Emoji: "🎨", Activity: "Creating art"},
	{Emoji: "👔", Activity: "Working"},
	{Emoji: "🎮", Activity: "Playing games"},
	{Emoji: "🎶", Activity: "Listening to music"},
	{Emoji: "🍲", Activity: "Eating lunch"},
	{Emoji: "📷", Activity: "Taking photos"},
	{Emoji: "👔", Activity: "Working"},
	{Emoji: "💻", Activity: "Coding"},
	{Emoji: "📝", Activity: "Writing"},
	{Emoji: "🥗", Activity: "Having dinner"},
	{Emoji: "🚶", Activity: "Walking"},
	{Emoji: "💪", Activity: "Exercising"},
	{Emoji: "🤗", Activity: "Socializing"},
	{Emoji: "📖", Activity: "Reading"},
	{Emoji: "😴", Activity: "Sleeping"},
	{Emoji: "😴", Activity: "Sleeping"},
}

// DefaultWeek returns the stock schedule used before the user edits anything.
func DefaultWeek() WeekData {
	week := make(WeekData, len(DayKeys))
	for _, day := range DayKeys {
		week[day] = append([]Slot(nil), defaultDay...)
	}
	return week
}
