package domain

// RushHourWindow marks a weekly special-rate interval. From/To are "HH:MM"
// with an exclusive upper bound; Weekday follows time.Weekday (0 = Sunday).
// Windows apply to all categories.
type RushHourWindow struct {
	ID      string `json:"id"`
	Weekday int    `json:"weekday"`
	From    string `json:"from"`
	To      string `json:"to"`
}

// Vacation is an inclusive special-rate date range. From/To are ISO
// "YYYY-MM-DD" strings; the fixed-width format makes lexicographic
// comparison safe.
type Vacation struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	From string `json:"from"`
	To   string `json:"to"`
}

type CreateRushWindowDTO struct {
	Weekday *int   `json:"weekday" binding:"required,min=0,max=6"`
	From    string `json:"from" binding:"required"`
	To      string `json:"to" binding:"required"`
}

type CreateVacationDTO struct {
	Name string `json:"name,omitempty"`
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}
