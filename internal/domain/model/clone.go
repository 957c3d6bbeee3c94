package model

import "slices"

// Clone returns a deep copy so stored documents never alias caller memory.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Skills = slices.Clone(u.Skills)
	c.Internships = slices.Clone(u.Internships)
	c.Certifications = slices.Clone(u.Certifications)
	c.ScoreHistory = slices.Clone(u.ScoreHistory)
	c.Badges = slices.Clone(u.Badges)
	c.Connections = slices.Clone(u.Connections)
	if u.Projects != nil {
		c.Projects = make([]Project, len(u.Projects))
		for i, p := range u.Projects {
			p.Technologies = slices.Clone(p.Technologies)
			c.Projects[i] = p
		}
	}
	return &c
}

// Clone returns a deep copy of the referral.
func (r *Referral) Clone() *Referral {
	if r == nil {
		return nil
	}
	c := *r
	c.RequiredSkills = slices.Clone(r.RequiredSkills)
	c.Applicants = slices.Clone(r.Applicants)
	return &c
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Participants = slices.Clone(s.Participants)
	c.Ratings = slices.Clone(s.Ratings)
	return &c
}
