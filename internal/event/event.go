package event

import "time"

// Event is the root of the graph. All entity slices are sorted once during
// construction; iterating them is the canonical, deterministic order for
// every document.
type Event struct {
	ID              int
	Title           string
	Shortname       string
	Timestamp       time.Time
	CourseRoomField string

	FieldDefinitions map[string]FieldDefinition

	Parts           []*EventPart
	Courses         []*Course
	LodgementGroups []*LodgementGroup
	Lodgements      []*Lodgement
	Registrations   []*Registration
}

// FieldDefinition declares name, type and home entity of a custom data field.
type FieldDefinition struct {
	Name        string
	Kind        FieldKind
	Association FieldAssociation
}

// Begin is the first day of the event, taken from the earliest part. It is
// also the reference date for all age calculations.
func (e *Event) Begin() time.Time {
	if len(e.Parts) == 0 {
		return time.Time{}
	}
	return e.Parts[0].Begin
}

// End is the last day of the event.
func (e *Event) End() time.Time {
	var end time.Time
	for _, p := range e.Parts {
		if p.End.After(end) {
			end = p.End
		}
	}
	return end
}

// Tracks returns all course tracks of the event, part by part.
func (e *Event) Tracks() []*EventTrack {
	var tracks []*EventTrack
	for _, p := range e.Parts {
		tracks = append(tracks, p.Tracks...)
	}
	return tracks
}

// Days lists every calendar day covered by at least one part, in order.
func (e *Event) Days() []time.Time {
	var days []time.Time
	seen := make(map[time.Time]bool)
	for _, p := range e.Parts {
		for _, d := range p.Days() {
			if !seen[d] {
				seen[d] = true
				days = append(days, d)
			}
		}
	}
	sortTimes(days)
	return days
}

// EventPart is one bookable time span of the event.
type EventPart struct {
	ID        int
	Title     string
	Shortname string
	Begin     time.Time
	End       time.Time
	Tracks    []*EventTrack
}

// Days lists the calendar days of the part, first to last inclusive.
func (p *EventPart) Days() []time.Time {
	var days []time.Time
	for d := p.Begin; !d.After(p.End); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// EventTrack is one course track within a part.
type EventTrack struct {
	ID         int
	Title      string
	Shortname  string
	SortKey    int
	NumChoices int
	Part       *EventPart
}

// Course is a course on offer, possibly in several tracks.
type Course struct {
	ID        int
	Nr        string
	Title     string
	Shortname string
	Fields    map[string]any

	// Tracks holds one entry per event track, keyed by track id.
	Tracks map[int]*CourseTrack
}

// IsActive reports whether the course takes place in at least one track.
func (c *Course) IsActive() bool {
	for _, ct := range c.Tracks {
		if ct.Status.IsActive() {
			return true
		}
	}
	return false
}

// CourseTrack is the standing of one course in one track, together with the
// people attending it there.
type CourseTrack struct {
	Course *Course
	Track  *EventTrack
	Status CourseTrackStatus

	// Attendees lists everyone assigned to the course in this track, in
	// registration order. Instructors are included and flagged.
	Attendees []CourseAttendee
}

// CourseAttendee is one entry of a course track's attendee list.
type CourseAttendee struct {
	Registration *Registration
	Instructor   bool
}

// LodgementGroup clusters lodgements, typically by building.
type LodgementGroup struct {
	ID         int
	Title      string
	Lodgements []*Lodgement
}

// Lodgement is a bookable room or tent.
type Lodgement struct {
	ID     int
	Title  string
	Group  *LodgementGroup
	Fields map[string]any

	// Parts holds one entry per event part, keyed by part id.
	Parts map[int]*LodgementPart
}

// LodgementPart is the occupancy of one lodgement during one part.
type LodgementPart struct {
	Lodgement *Lodgement
	Part      *EventPart

	// Inhabitants lists everyone assigned to the lodgement during this
	// part, in registration order.
	Inhabitants []Inhabitant
}

// Inhabitant is one entry of a lodgement part's inhabitant list.
type Inhabitant struct {
	Registration *Registration
	CampingMat   bool
}

// Registration is one person signed up for the event.
type Registration struct {
	ID          int
	PersonaID   int
	Name        Name
	Gender      Gender
	Birthday    time.Time
	Age         int
	Email       string
	Telephone   string
	Mobile      string
	Address     Address
	ListConsent bool
	IsOrga      bool
	Fields      map[string]any

	// Parts holds one entry per event part, keyed by part id.
	Parts map[int]*RegistrationPart
	// Tracks holds one entry per event track, keyed by track id.
	Tracks map[int]*RegistrationTrack
}

// AgeClass buckets the registration's age at event begin.
func (r *Registration) AgeClass() AgeClass {
	return AgeClassOf(r.Age)
}

// IsMinor reports whether the person is underage at event begin.
func (r *Registration) IsMinor() bool {
	return r.AgeClass().IsMinor()
}

// IsPresent reports whether the person is on site during any part.
func (r *Registration) IsPresent() bool {
	for _, rp := range r.Parts {
		if rp.Status.IsPresent() {
			return true
		}
	}
	return false
}

// IsParticipant reports whether the person participates in any part.
func (r *Registration) IsParticipant() bool {
	for _, rp := range r.Parts {
		if rp.Status == StatusParticipant {
			return true
		}
	}
	return false
}

// IsInvolved reports whether the registration is still in the running for
// any part, including open applications.
func (r *Registration) IsInvolved() bool {
	for _, rp := range r.Parts {
		if rp.Status.IsInvolved() {
			return true
		}
	}
	return false
}

// RegistrationPart is the standing of one registration in one part.
type RegistrationPart struct {
	Registration *Registration
	Part         *EventPart
	Status       RegistrationPartStatus

	// Lodgement is where the person sleeps during the part, nil when not
	// assigned.
	Lodgement  *Lodgement
	CampingMat bool
}

// RegistrationTrack is the course standing of one registration in one track.
type RegistrationTrack struct {
	Registration *Registration
	Track        *EventTrack

	// Course is the assigned course, nil when not assigned.
	Course *Course
	// OfferedCourse is the course the person offered to teach, nil when
	// none.
	OfferedCourse *Course
	// Choices are the ranked course wishes, always exactly NumChoices
	// long with nil entries for unfilled ranks.
	Choices []*Course
}

// RegistrationPart returns the part standing the track belongs to.
func (t *RegistrationTrack) RegistrationPart() *RegistrationPart {
	return t.Registration.Parts[t.Track.Part.ID]
}

// IsInstructor reports whether the person teaches their assigned course in
// this track.
func (t *RegistrationTrack) IsInstructor() bool {
	return t.OfferedCourse != nil && t.OfferedCourse == t.Course
}
