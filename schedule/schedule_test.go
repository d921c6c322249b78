package schedule_test

import (
	"testing"
	"time"

	"github.com/postforge/postforge/schedule"
)

func TestDecide_PostTypeRotation(t *testing.T) {
	tests := []struct {
		name             string
		instant          time.Time
		wantPostType     schedule.PostType
		wantCategoryType schedule.CategoryType
		wantCategory     string
		wantRecap        bool
	}{
		{
			name:         "Monday early morning is the weekly recap",
			instant:      time.Date(2025, 1, 6, 3, 0, 0, 0, time.UTC),
			wantPostType: schedule.PostTypeWeeklyRecap,
			wantRecap:    true,
		},
		{
			name:         "Monday midnight still falls in the recap slot",
			instant:      time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
			wantPostType: schedule.PostTypeWeeklyRecap,
			wantRecap:    true,
		},
		{
			name:             "Monday afternoon is a regular business post",
			instant:          time.Date(2025, 1, 6, 10, 0, 0, 0, time.UTC),
			wantPostType:     schedule.PostTypeBusiness,
			wantCategoryType: schedule.CategoryBusiness,
			wantCategory:     schedule.BusinessCategories[(6*3+1)%len(schedule.BusinessCategories)],
		},
		{
			name:             "even day morning yields tech trends",
			instant:          time.Date(2025, 1, 8, 3, 0, 0, 0, time.UTC),
			wantPostType:     schedule.PostTypeTrends,
			wantCategoryType: schedule.CategoryTech,
			wantCategory:     "Data Science & Analytics",
		},
		{
			name:             "odd day morning yields business trends",
			instant:          time.Date(2025, 1, 9, 7, 59, 0, 0, time.UTC),
			wantPostType:     schedule.PostTypeTrends,
			wantCategoryType: schedule.CategoryBusiness,
			wantCategory:     "Business Model Innovation",
		},
		{
			name:             "afternoon slot yields a business post",
			instant:          time.Date(2025, 1, 9, 8, 0, 0, 0, time.UTC),
			wantPostType:     schedule.PostTypeBusiness,
			wantCategoryType: schedule.CategoryBusiness,
			wantCategory:     "Leadership & Team Building",
		},
		{
			name:             "evening slot yields a tutorial",
			instant:          time.Date(2025, 1, 9, 16, 0, 0, 0, time.UTC),
			wantPostType:     schedule.PostTypeTutorial,
			wantCategoryType: schedule.CategoryTech,
			wantCategory:     "System Design & Architecture",
		},
		{
			name:             "leap year day 366 rotates without wrapping errors",
			instant:          time.Date(2024, 12, 31, 23, 0, 0, 0, time.UTC),
			wantPostType:     schedule.PostTypeTutorial,
			wantCategoryType: schedule.CategoryTech,
			wantCategory:     schedule.TechCategories[(366*3+2)%len(schedule.TechCategories)],
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := schedule.Decide(tt.instant)

			if got.PostType != tt.wantPostType {
				t.Errorf("PostType = %q, want %q", got.PostType, tt.wantPostType)
			}
			if got.IsRecap != tt.wantRecap {
				t.Errorf("IsRecap = %v, want %v", got.IsRecap, tt.wantRecap)
			}
			if got.CategoryType != tt.wantCategoryType {
				t.Errorf("CategoryType = %q, want %q", got.CategoryType, tt.wantCategoryType)
			}
			if got.Category != tt.wantCategory {
				t.Errorf("Category = %q, want %q", got.Category, tt.wantCategory)
			}
		})
	}
}

func TestDecide_DeterministicWithinSlot(t *testing.T) {
	base := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	first := schedule.Decide(base)

	for _, offset := range []time.Duration{time.Minute, 30 * time.Minute, 6*time.Hour + 59*time.Minute} {
		got := schedule.Decide(base.Add(offset))
		if got != first {
			t.Errorf("Decide(%v) = %+v, want the slot's first decision %+v", base.Add(offset), got, first)
		}
	}
}

func TestDecide_RecapExactlyOncePerWeek(t *testing.T) {
	// Cover every slot of a full week starting Monday.
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

	recaps := 0
	for day := 0; day < 7; day++ {
		for _, hour := range []int{3, 12, 20} {
			d := schedule.Decide(start.AddDate(0, 0, day).Add(time.Duration(hour) * time.Hour))
			if d.IsRecap {
				recaps++
			}
		}
	}

	if recaps != 1 {
		t.Errorf("got %d recap slots in a week, want exactly 1", recaps)
	}
}

func TestDecide_CategoryAlwaysValid(t *testing.T) {
	members := make(map[schedule.CategoryType]map[string]bool)
	members[schedule.CategoryTech] = make(map[string]bool)
	for _, c := range schedule.TechCategories {
		members[schedule.CategoryTech][c] = true
	}
	members[schedule.CategoryBusiness] = make(map[string]bool)
	for _, c := range schedule.BusinessCategories {
		members[schedule.CategoryBusiness][c] = true
	}

	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for day := 0; day < 60; day++ {
		for _, hour := range []int{2, 11, 19} {
			d := schedule.Decide(start.AddDate(0, 0, day).Add(time.Duration(hour) * time.Hour))
			if d.IsRecap {
				continue
			}
			if d.Category == "" {
				t.Fatalf("empty category for %v", d)
			}
			if !members[d.CategoryType][d.Category] {
				t.Errorf("category %q not in the %s list", d.Category, d.CategoryType)
			}
		}
	}
}

func TestRotationIndex(t *testing.T) {
	tests := []struct {
		name      string
		dayOfYear int
		timeSlot  int
		listLen   int
		want      int
	}{
		{"midday slot on day 100 of an 18 item list", 100, 1, 18, (100*3 + 1) % 18},
		{"wraps at the list boundary", 5, 2, 17, 0},
		{"day one morning starts at the list head offset", 1, 0, 16, 3},
		{"consecutive slots land on different entries", 10, 2, 16, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := schedule.RotationIndex(tt.dayOfYear, tt.timeSlot, tt.listLen); got != tt.want {
				t.Errorf("RotationIndex(%d, %d, %d) = %d, want %d", tt.dayOfYear, tt.timeSlot, tt.listLen, got, tt.want)
			}
		})
	}
}

func TestUsesTopicHistory(t *testing.T) {
	withHistory := []schedule.PostType{schedule.PostTypeTutorial, schedule.PostTypeBusiness, schedule.PostTypeCaseStudy}
	without := []schedule.PostType{schedule.PostTypeWeeklyRecap, schedule.PostTypeTrends, schedule.PostTypeLatestNews}

	for _, p := range withHistory {
		if !p.UsesTopicHistory() {
			t.Errorf("%s should consult topic history", p)
		}
	}
	for _, p := range without {
		if p.UsesTopicHistory() {
			t.Errorf("%s should not consult topic history", p)
		}
	}
}
