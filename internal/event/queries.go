package event

import (
	"slices"
	"strconv"
	"strings"
)

// RegistrationFilter selects registrations for a document.
type RegistrationFilter struct {
	// Parts restricts to people active in any of the given parts. Nil
	// means all parts.
	Parts []*EventPart
	// IncludeGuests counts guests as active.
	IncludeGuests bool
	// ListConsentOnly keeps only people who agreed to appear on lists.
	ListConsentOnly bool
	// MinorsOnly keeps only underage people.
	MinorsOnly bool
}

// ActiveRegistrations returns the registrations matching the filter, in
// registration order.
func ActiveRegistrations(ev *Event, filter RegistrationFilter) []*Registration {
	parts := filter.Parts
	if parts == nil {
		parts = ev.Parts
	}
	var out []*Registration
	for _, reg := range ev.Registrations {
		if filter.ListConsentOnly && !reg.ListConsent {
			continue
		}
		if filter.MinorsOnly && !reg.IsMinor() {
			continue
		}
		for _, part := range parts {
			rp := reg.Parts[part.ID]
			if rp == nil {
				continue
			}
			if rp.Status == StatusParticipant || (filter.IncludeGuests && rp.Status == StatusGuest) {
				out = append(out, reg)
				break
			}
		}
	}
	return out
}

// TracksForParts returns the tracks of the given parts in event order. Nil
// means every track.
func TracksForParts(ev *Event, parts []*EventPart) []*EventTrack {
	if parts == nil {
		return ev.Tracks()
	}
	want := make(map[int]bool, len(parts))
	for _, part := range parts {
		want[part.ID] = true
	}
	var out []*EventTrack
	for _, track := range ev.Tracks() {
		if want[track.Part.ID] {
			out = append(out, track)
		}
	}
	return out
}

// Attendance is one person attending a course, with the tracks they attend
// it in.
type Attendance struct {
	Registration *Registration
	Tracks       []*EventTrack
}

// CourseAttendees collects the distinct regular attendees of a course:
// people with participant status assigned to the course in an active track,
// without the instructors. The result is in registration order, each entry
// listing its tracks in event order.
func CourseAttendees(ev *Event, course *Course) []Attendance {
	byReg := make(map[*Registration][]*EventTrack)
	for _, track := range ev.Tracks() {
		ct := course.Tracks[track.ID]
		if ct == nil || !ct.Status.IsActive() {
			continue
		}
		for _, att := range ct.Attendees {
			if att.Instructor {
				continue
			}
			rt := att.Registration.Tracks[track.ID]
			if rt == nil {
				continue
			}
			rp := rt.RegistrationPart()
			if rp == nil || rp.Status != StatusParticipant {
				continue
			}
			byReg[att.Registration] = append(byReg[att.Registration], track)
		}
	}
	regs := make([]*Registration, 0, len(byReg))
	for reg := range byReg {
		regs = append(regs, reg)
	}
	slices.SortFunc(regs, compareRegistrations)
	out := make([]Attendance, 0, len(regs))
	for _, reg := range regs {
		out = append(out, Attendance{Registration: reg, Tracks: byReg[reg]})
	}
	return out
}

// NametagCourses picks the courses printed on a badge for the given tracks.
// Tracks whose part the person is not present in contribute no entry, or a
// nil placeholder when secondAlwaysRight keeps the slot layout stable. With
// merge, two leading identical courses collapse into one; the second result
// reports whether that happened.
func NametagCourses(reg *Registration, tracks []*EventTrack, merge, secondAlwaysRight bool) ([]*Course, bool) {
	var courses []*Course
	for _, track := range tracks {
		rt := reg.Tracks[track.ID]
		if rt != nil && rt.RegistrationPart() != nil && rt.RegistrationPart().Status.IsPresent() {
			courses = append(courses, rt.Course)
		} else if secondAlwaysRight {
			courses = append(courses, nil)
		}
	}
	if merge && len(courses) > 1 && courses[0] != nil && courses[0] == courses[1] {
		return []*Course{courses[0]}, true
	}
	return courses, false
}

// SanitizeFilename replaces characters that are unsafe in filenames with
// underscores.
func SanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '?', '%', '*', ':', '|', '"', '<', '>', ' ':
			return '_'
		}
		return r
	}, name)
}

// PartJobnames derives a filename suffix per part, keyed by part id.
// Sanitized shortnames are used as long as they are unique across parts,
// with the part id appended otherwise.
func PartJobnames(ev *Event) map[int]string {
	names := make(map[int]string, len(ev.Parts))
	counts := make(map[string]int, len(ev.Parts))
	for _, part := range ev.Parts {
		name := SanitizeFilename(part.Shortname)
		names[part.ID] = name
		counts[name]++
	}
	for _, part := range ev.Parts {
		if counts[names[part.ID]] > 1 {
			names[part.ID] += "_" + strconv.Itoa(part.ID)
		}
	}
	return names
}
