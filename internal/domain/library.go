package domain

// EmojiEntry maps an emoji to the activity label it represents.
type EmojiEntry struct {
	Emoji    string `json:"emoji"`
	Activity string `json:"activity"`
}

// DedupeEntries enforces the library invariant that an emoji appears at most
// once: the first occurrence wins, later duplicates are dropped. Entries with
// an empty emoji are removed. Order is otherwise preserved.
func DedupeEntries(entries []EmojiEntry) []EmojiEntry {
	if len(entries) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(entries))
	result := make([]EmojiEntry, 0, len(entries))
	for _, entry := range entries {
		if entry.Emoji == "" {
			continue
		}
		if _, dup := seen[entry.Emoji]; dup {
			continue
		}
		seen[entry.Emoji] = struct{}{}
		result = append(result, entry)
	}
	return result
}

// MergeEntries returns the union of two entry sets keyed by emoji. When an
// emoji appears in both, the target's activity label wins. Target order is
// preserved and source-only entries are appended in their own order. Neither
// input is modified.
func MergeEntries(target, source []EmojiEntry) []EmojiEntry {
	merged := DedupeEntries(target)
	seen := make(map[string]struct{}, len(merged))
	for _, entry := range merged {
		seen[entry.Emoji] = struct{}{}
	}
	for _, entry := range DedupeEntries(source) {
		if _, dup := seen[entry.Emoji]; dup {
			continue
		}
		seen[entry.Emoji] = struct{}{}
		merged = append(merged, entry)
	}
	return merged
}

// DefaultLibrary returns the stock emoji library shipped with a fresh account.
func DefaultLibrary() []EmojiEntry {
	return []EmojiEntry{
		{Emoji: "😴", Activity: "Sleeping"},
		{Emoji: "🧘", Activity: "Meditating"},
		{Emoji: "🍵", Activity: "Having tea"},
		{Emoji: "🎨", Activity: "Creating art"},
		{Emoji: "👔", Activity: "Working"},
		{Emoji: "🎮", Activity: "Playing games"},
		{Emoji: "🎶", Activity: "Listening to music"},
		{Emoji: "🍲", Activity: "Eating lunch"},
		{Emoji: "📷", Activity: "Taking photos"},
		{Emoji: "💻", Activity: "Coding"},
		{Emoji: "📝", Activity: "Writing"},
		{Emoji: "🥗", Activity: "Having dinner"},
		{Emoji: "🚶", Activity: "Walking"},
		{Emoji: "💪", Activity: "Exercising"},
		{Emoji: "🤗", Activity: "Socializing"},
		{Emoji: "📖", Activity: "Reading"},
	}
}
