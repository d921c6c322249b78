// Package schedule decides what to write about for a given instant. The
// decision is a pure function of the UTC clock, so repeated calls within the
// same hour always agree and a retried trigger cannot produce a different
// post than the first attempt.
package schedule

import "time"

type PostType string

const (
	PostTypeWeeklyRecap PostType = "weekly_recap"
	PostTypeTrends      PostType = "trends"
	PostTypeBusiness    PostType = "business"
	PostTypeTutorial    PostType = "tutorial"
	PostTypeLatestNews  PostType = "latest_news"
	PostTypeCaseStudy   PostType = "case_study"
)

type CategoryType string

const (
	CategoryTech     CategoryType = "tech"
	CategoryBusiness CategoryType = "business"
)

// TechCategories are rotated through for trends and tutorial slots.
var TechCategories = []string{
	"Agentic AI & Autonomous Agents",
	"Generative AI & Diffusion Models",
	"Large Language Models (LLMs)",
	"RAG & Vector Databases",
	"Fine-tuning & Model Optimization",
	"Prompt Engineering & AI Workflows",
	"Quantum Computing & Quantum ML",
	"Data Science & Analytics",
	"Machine Learning Engineering",
	"MLOps & Model Deployment",
	"Feature Engineering & Data Pipelines",
	"Cloud Computing & Infrastructure",
	"System Design & Architecture",
	"Web Development & Frontend",
	"Backend Development & APIs",
	"DevOps & Platform Engineering",
	"Database Systems & Data Modeling",
}

// BusinessCategories are rotated through for the afternoon business slot and
// for trends on business-parity days.
var BusinessCategories = []string{
	"Business Strategy & Competitive Analysis",
	"Startup Fundamentals & Entrepreneurship",
	"Venture Capital & Fundraising",
	"Growth Strategy & Scaling",
	"Product Management & Strategy",
	"Product-Market Fit & Validation",
	"Digital Marketing & Growth Hacking",
	"Customer Acquisition & Retention",
	"Business Operations & Efficiency",
	"Financial Modeling & Analysis",
	"Unit Economics & Metrics",
	"Business Model Innovation",
	"Leadership & Team Building",
	"Organizational Design & Culture",
	"Decision Making Frameworks",
	"Negotiation & Communication",
}

// Decision describes the post to produce for one invocation.
type Decision struct {
	PostType     PostType
	Category     string
	CategoryType CategoryType
	IsRecap      bool
	TimeSlot     int
	DayOfYear    int
}

const slotsPerDay = 3

// RotationIndex derives the position in a category list for a given day and
// slot. Weighting by slot keeps the three daily posts off the same category.
// List lengths rarely divide the rotation period evenly, so recurrence across
// categories is non-uniform; the rotation simply wraps via modulo.
func RotationIndex(dayOfYear, timeSlot, listLen int) int {
	return (dayOfYear*slotsPerDay + timeSlot) % listLen
}

// Decide maps an instant to the day's rotation. Three daily slots: morning
// trends (tech/business alternating by day parity), afternoon business,
// evening tutorial. Monday's morning slot is the one hard-coded exception
// and yields the weekly recap.
func Decide(now time.Time) Decision {
	now = now.UTC()

	hour := now.Hour()
	timeSlot := 2
	if hour < 8 {
		timeSlot = 0
	} else if hour < 16 {
		timeSlot = 1
	}

	dayOfYear := now.YearDay()

	if now.Weekday() == time.Monday && timeSlot == 0 {
		return Decision{
			PostType:  PostTypeWeeklyRecap,
			IsRecap:   true,
			TimeSlot:  timeSlot,
			DayOfYear: dayOfYear,
		}
	}

	isTechTrendsDay := dayOfYear%2 == 0

	var d Decision
	d.TimeSlot = timeSlot
	d.DayOfYear = dayOfYear

	switch timeSlot {
	case 0:
		d.PostType = PostTypeTrends
		if isTechTrendsDay {
			d.CategoryType = CategoryTech
			d.Category = TechCategories[RotationIndex(dayOfYear, timeSlot, len(TechCategories))]
		} else {
			d.CategoryType = CategoryBusiness
			d.Category = BusinessCategories[RotationIndex(dayOfYear, timeSlot, len(BusinessCategories))]
		}
	case 1:
		d.PostType = PostTypeBusiness
		d.CategoryType = CategoryBusiness
		d.Category = BusinessCategories[RotationIndex(dayOfYear, timeSlot, len(BusinessCategories))]
	default:
		d.PostType = PostTypeTutorial
		d.CategoryType = CategoryTech
		d.Category = TechCategories[RotationIndex(dayOfYear, timeSlot, len(TechCategories))]
	}

	return d
}

// UsesTopicHistory reports whether this post type consults recently published
// titles to avoid repeating a topic. Recap and trends posts are anchored to
// current events and never check history.
func (p PostType) UsesTopicHistory() bool {
	switch p {
	case PostTypeTutorial, PostTypeBusiness, PostTypeCaseStudy:
		return true
	}
	return false
}
