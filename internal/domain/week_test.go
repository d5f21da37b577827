package domain

import "testing"

func TestWeekDataNormalize(t *testing.T) {
	t.Parallel()

	t.Run("fills missing days and slots with defaults", func(t *testing.T) {
		t.Parallel()

		week := WeekData{
			"monday": []Slot{{Emoji: "💻", Activity: "Coding"}},
		}

		normalized := week.Normalize()

		if len(normalized) != len(DayKeys) {
			t.Fatalf("normalized week has %d days, want %d", len(normalized), len(DayKeys))
		}
		for _, day := range DayKeys {
			if len(normalized[day]) != SlotsPerDay {
				t.Fatalf("day %s has %d slots, want %d", day, len(normalized[day]), SlotsPerDay)
			}
		}
		if got := normalized["monday"][0]; got.Emoji != "💻" || got.Activity != "Coding" {
			t.Fatalf("existing slot was not preserved: %v", got)
		}
		if got := normalized["tuesday"][0]; got.Emoji != DefaultEmoji || got.Activity != DefaultActivity {
			t.Fatalf("missing slot was not defaulted: %v", got)
		}
	})

	t.Run("substitutes defaults for empty slot fields", func(t *testing.T) {
		t.Parallel()

		week := WeekData{
			"friday": []Slot{{Emoji: "", Activity: "Working"}, {Emoji: "🎨", Activity: ""}},
		}

		normalized := week.Normalize()

		if got := normalized["friday"][0]; got.Emoji != DefaultEmoji || got.Activity != "Working" {
			t.Fatalf("empty emoji was not defaulted: %v", got)
		}
		if got := normalized["friday"][1]; got.Emoji != "🎨" || got.Activity != DefaultActivity {
			t.Fatalf("empty activity was not defaulted: %v", got)
		}
	})

	t.Run("truncates excess slots", func(t *testing.T) {
		t.Parallel()

		slots := make([]Slot, SlotsPerDay+5)
		for i := range slots {
			slots[i] = Slot{Emoji: "📖", Activity: "Reading"}
		}
		normalized := WeekData{"sunday": slots}.Normalize()

		if len(normalized["sunday"]) != SlotsPerDay {
			t.Fatalf("excess slots survived normalization: %d", len(normalized["sunday"]))
		}
	})

	t.Run("does not modify the receiver", func(t *testing.T) {
		t.Parallel()

		week := WeekData{"monday": []Slot{{}}}
		_ = week.Normalize()

		if len(week) != 1 || len(week["monday"]) != 1 {
			t.Fatalf("receiver was modified: %v", week)
		}
	})
}

func TestWeekDataIsEmpty(t *testing.T) {
	t.Parallel()

	if !(WeekData{}).IsEmpty() {
		t.Fatal("empty week should report empty")
	}
	if !(WeekData{"monday": nil}).IsEmpty() {
		t.Fatal("week with only empty days should report empty")
	}
	if (WeekData{"monday": []Slot{{Emoji: "💻"}}}).IsEmpty() {
		t.Fatal("populated week should not report empty")
	}
}

func TestDefaultWeek(t *testing.T) {
	t.Parallel()

	week := DefaultWeek()
	for _, day := range DayKeys {
		if len(week[day]) != SlotsPerDay {
			t.Fatalf("default week day %s has %d slots", day, len(week[day]))
		}
	}
	if week["monday"][9].Activity != "Working" {
		t.Fatalf("unexpected default slot: %v", week["monday"][9])
	}
}
