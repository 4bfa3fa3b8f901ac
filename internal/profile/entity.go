package profile

import (
	"strconv"
	"time"
)

const (
	MaxRecentActivity = 100
	DifficultyBuckets = 10
)

type TypeStats struct {
	Attempts int `json:"attempts"`
	Correct  int `json:"correct"`
}

func (s TypeStats) Accuracy() float64 {
	return float64(s.Correct) / float64(max(s.Attempts, 1))
}

type DifficultyStats struct {
	Seen    int `json:"seen"`
	Correct int `json:"correct"`
}

// Event is one answered question. The same shape is kept in recent_activity
// and written to the append-only log.
type Event struct {
	QuestionID   string    `json:"question_id"`
	QuestionType string    `json:"question_type"`
	Difficulty   int       `json:"difficulty"`
	WasCorrect   bool      `json:"was_correct"`
	Timestamp    time.Time `json:"timestamp"`
}

type UserProfile struct {
	UserID          string                     `json:"-"`
	Email           string                     `json:"email"`
	Name            string                     `json:"name"`
	QuestionStats   map[string]TypeStats       `json:"question_stats"`
	DifficultyStats map[string]DifficultyStats `json:"difficulty_stats"`
	RecentActivity  []Event                    `json:"recent_activity"`
}

// New returns an empty profile with the ten difficulty buckets in place.
func New(userID, email, name string) *UserProfile {
	p := &UserProfile{
		UserID:          userID,
		Email:           email,
		Name:            name,
		QuestionStats:   map[string]TypeStats{},
		DifficultyStats: make(map[string]DifficultyStats, DifficultyBuckets),
		RecentActivity:  []Event{},
	}
	for i := 1; i <= DifficultyBuckets; i++ {
		p.DifficultyStats[strconv.Itoa(i)] = DifficultyStats{}
	}
	return p
}

// Apply folds one event into the aggregates and the activity feed.
func (p *UserProfile) Apply(e Event) {
	p.normalize()

	qs := p.QuestionStats[e.QuestionType]
	qs.Attempts++
	if e.WasCorrect {
		qs.Correct++
	}
	p.QuestionStats[e.QuestionType] = qs

	key := strconv.Itoa(e.Difficulty)
	ds := p.DifficultyStats[key]
	ds.Seen++
	if e.WasCorrect {
		ds.Correct++
	}
	p.DifficultyStats[key] = ds

	feed := make([]Event, 0, min(len(p.RecentActivity)+1, MaxRecentActivity))
	feed = append(feed, e)
	for _, prev := range p.RecentActivity {
		if len(feed) == MaxRecentActivity {
			break
		}
		feed = append(feed, prev)
	}
	p.RecentActivity = feed
}

// Clone returns a copy that shares no maps or slices with p.
func (p *UserProfile) Clone() *UserProfile {
	c := *p
	c.QuestionStats = make(map[string]TypeStats, len(p.QuestionStats))
	for k, v := range p.QuestionStats {
		c.QuestionStats[k] = v
	}
	c.DifficultyStats = make(map[string]DifficultyStats, len(p.DifficultyStats))
	for k, v := range p.DifficultyStats {
		c.DifficultyStats[k] = v
	}
	c.RecentActivity = append([]Event(nil), p.RecentActivity...)
	return &c
}

func (p *UserProfile) normalize() {
	if p.QuestionStats == nil {
		p.QuestionStats = map[string]TypeStats{}
	}
	if p.DifficultyStats == nil {
		p.DifficultyStats = map[string]DifficultyStats{}
	}
	if p.RecentActivity == nil {
		p.RecentActivity = []Event{}
	}
}
