package seed

import "time"

// Config holds configuration for a seeding run.
type Config struct {
	BaseURL      string        // Base URL of the service
	Students     int           // Number of student accounts to create
	Alumni       int           // Number of alumni accounts; each posts one referral and one session
	Applications int           // Referrals each student applies to
	TopN         int           // Leaderboard entries to fetch and verify
	Workers      int           // Number of concurrent workers
	Timeout      time.Duration // HTTP request timeout
	Seed         uint64        // Random seed; the same seed yields the same cohort
	Verbose      bool          // Log every failed request
}

// Stats holds run statistics.
type Stats struct {
	UsersCreated       int
	ProfilesScored     int
	BadgesAwarded      int
	ReferralsPosted    int
	SessionsPosted     int
	Applications       int
	Bookings           int
	Rejected           int // 4xx business rejections, e.g. below minimum score
	Failed             int // transport errors and 5xx
	LeaderboardEntries int
	StartTime          time.Time
	EndTime            time.Time
	Duration           time.Duration
}
