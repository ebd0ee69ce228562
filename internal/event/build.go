package event

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cde-ev/template-renderer-v3/internal/ctxlog"
	"github.com/cde-ev/template-renderer-v3/internal/export"
)

// Options adjust graph construction.
type Options struct {
	// HomeCountries are the country spellings treated as domestic in
	// postal blocks. Nil means DefaultHomeCountries.
	HomeCountries []string
	// CourseRoomField overrides the course room field name announced by
	// the export.
	CourseRoomField string
}

// FromExport builds the event graph from a decoded export document. The
// build either completes fully or fails with the first error; a graph with
// half-wired references is never returned.
func FromExport(ctx context.Context, doc *export.Document, opts Options) (*Event, error) {
	log := ctxlog.FromContext(ctx)

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	timestamp, err := ParseDateTime(doc.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("export timestamp: %w", err)
	}

	b := &builder{
		doc:           doc,
		homeCountries: opts.HomeCountries,
		partByID:      make(map[int]*EventPart),
		trackByID:     make(map[int]*EventTrack),
		courseByID:    make(map[int]*Course),
		lodgementByID: make(map[int]*Lodgement),
	}
	if b.homeCountries == nil {
		b.homeCountries = DefaultHomeCountries
	}

	if err := b.buildEvent(timestamp, opts.CourseRoomField); err != nil {
		return nil, err
	}
	if err := b.buildParts(); err != nil {
		return nil, err
	}
	if err := b.buildCourses(); err != nil {
		return nil, err
	}
	if err := b.buildLodgements(); err != nil {
		return nil, err
	}
	if err := b.buildRegistrations(); err != nil {
		return nil, err
	}
	b.fillDefaults()
	b.wireBackReferences()

	log.Debug("Built event graph.",
		"event", b.event.Shortname,
		"parts", len(b.event.Parts),
		"tracks", len(b.event.Tracks()),
		"courses", len(b.event.Courses),
		"lodgements", len(b.event.Lodgements),
		"registrations", len(b.event.Registrations))
	return b.event, nil
}

// builder carries the intermediate lookup tables of one graph construction.
type builder struct {
	doc   *export.Document
	event *Event

	kinds         map[string]FieldKind
	homeCountries []string

	partByID      map[int]*EventPart
	trackByID     map[int]*EventTrack
	courseByID    map[int]*Course
	lodgementByID map[int]*Lodgement
}

func (b *builder) buildEvent(timestamp time.Time, courseRoomField string) error {
	ev := &Event{
		ID:               b.doc.ID,
		Title:            b.doc.Event.Title,
		Shortname:        b.doc.Event.Shortname,
		Timestamp:        timestamp,
		FieldDefinitions: make(map[string]FieldDefinition, len(b.doc.Event.Fields)),
	}
	if b.doc.Event.CourseRoomField != nil {
		ev.CourseRoomField = *b.doc.Event.CourseRoomField
	}
	if courseRoomField != "" {
		ev.CourseRoomField = courseRoomField
	}

	b.kinds = make(map[string]FieldKind, len(b.doc.Event.Fields))
	for name, dto := range b.doc.Event.Fields {
		kind, err := FieldKindFromCode(dto.Kind)
		if err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		association, err := FieldAssociationFromCode(dto.Association)
		if err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		ev.FieldDefinitions[name] = FieldDefinition{Name: name, Kind: kind, Association: association}
		b.kinds[name] = kind
	}

	b.event = ev
	return nil
}

func (b *builder) buildParts() error {
	parts, err := byID(b.doc.Event.Parts)
	if err != nil {
		return fmt.Errorf("event parts: %w", err)
	}
	for _, kp := range parts {
		begin, err := ParseDate(kp.v.Begin)
		if err != nil {
			return fmt.Errorf("part %d begin: %w", kp.id, err)
		}
		end, err := ParseDate(kp.v.End)
		if err != nil {
			return fmt.Errorf("part %d end: %w", kp.id, err)
		}
		part := &EventPart{
			ID:        kp.id,
			Title:     kp.v.Title,
			Shortname: kp.v.Shortname,
			Begin:     begin,
			End:       end,
		}

		tracks, err := byID(kp.v.Tracks)
		if err != nil {
			return fmt.Errorf("part %d tracks: %w", kp.id, err)
		}
		for _, kt := range tracks {
			track := &EventTrack{
				ID:         kt.id,
				Title:      kt.v.Title,
				Shortname:  kt.v.Shortname,
				SortKey:    kt.v.SortKey,
				NumChoices: kt.v.NumChoices,
				Part:       part,
			}
			part.Tracks = append(part.Tracks, track)
			b.trackByID[track.ID] = track
		}
		slices.SortFunc(part.Tracks, compareTracks)

		b.partByID[part.ID] = part
		b.event.Parts = append(b.event.Parts, part)
	}
	slices.SortFunc(b.event.Parts, compareParts)
	return nil
}

func (b *builder) buildCourses() error {
	courses, err := byID(b.doc.Courses)
	if err != nil {
		return fmt.Errorf("courses: %w", err)
	}
	width := 0
	for _, kc := range courses {
		if n := utf8.RuneCountInString(kc.v.Nr); n > width {
			width = n
		}
	}
	for _, kc := range courses {
		fields, err := coerceFields(kc.v.Fields, b.kinds)
		if err != nil {
			return fmt.Errorf("course %d: %w", kc.id, err)
		}
		course := &Course{
			ID:        kc.id,
			Nr:        kc.v.Nr,
			Title:     kc.v.Title,
			Shortname: kc.v.Shortname,
			Fields:    fields,
			Tracks:    make(map[int]*CourseTrack),
		}
		for key, active := range kc.v.Segments {
			trackID, err := strconv.Atoi(key)
			if err != nil {
				return fmt.Errorf("course %d: malformed track id %q", kc.id, key)
			}
			track := b.trackByID[trackID]
			if track == nil {
				continue
			}
			status := CourseCancelled
			if active {
				status = CourseActive
			}
			course.Tracks[track.ID] = &CourseTrack{Course: course, Track: track, Status: status}
		}
		b.courseByID[course.ID] = course
		b.event.Courses = append(b.event.Courses, course)
	}
	slices.SortFunc(b.event.Courses, func(x, y *Course) int {
		if c := strings.Compare(paddedNr(x.Nr, width), paddedNr(y.Nr, width)); c != 0 {
			return c
		}
		return cmp.Compare(x.ID, y.ID)
	})
	return nil
}

func (b *builder) buildLodgements() error {
	groups, err := byID(b.doc.LodgementGroups)
	if err != nil {
		return fmt.Errorf("lodgement groups: %w", err)
	}
	groupByID := make(map[int]*LodgementGroup, len(groups))
	for _, kg := range groups {
		group := &LodgementGroup{ID: kg.id, Title: kg.v.Title}
		groupByID[group.ID] = group
		b.event.LodgementGroups = append(b.event.LodgementGroups, group)
	}
	slices.SortFunc(b.event.LodgementGroups, func(x, y *LodgementGroup) int {
		if c := strings.Compare(x.Title, y.Title); c != 0 {
			return c
		}
		return cmp.Compare(x.ID, y.ID)
	})

	lodgements, err := byID(b.doc.Lodgements)
	if err != nil {
		return fmt.Errorf("lodgements: %w", err)
	}
	for _, kl := range lodgements {
		fields, err := coerceFields(kl.v.Fields, b.kinds)
		if err != nil {
			return fmt.Errorf("lodgement %d: %w", kl.id, err)
		}
		lodgement := &Lodgement{
			ID:     kl.id,
			Title:  kl.v.Title,
			Fields: fields,
			Parts:  make(map[int]*LodgementPart),
		}
		if kl.v.GroupID != nil {
			lodgement.Group = groupByID[*kl.v.GroupID]
		}
		b.lodgementByID[lodgement.ID] = lodgement
		b.event.Lodgements = append(b.event.Lodgements, lodgement)
	}
	slices.SortFunc(b.event.Lodgements, func(x, y *Lodgement) int {
		if c := strings.Compare(x.Title, y.Title); c != 0 {
			return c
		}
		return cmp.Compare(x.ID, y.ID)
	})
	for _, lodgement := range b.event.Lodgements {
		if lodgement.Group != nil {
			lodgement.Group.Lodgements = append(lodgement.Group.Lodgements, lodgement)
		}
	}
	return nil
}

func (b *builder) buildRegistrations() error {
	registrations, err := byID(b.doc.Registrations)
	if err != nil {
		return fmt.Errorf("registrations: %w", err)
	}
	begin := b.event.Begin()
	for _, kr := range registrations {
		persona := kr.v.Persona
		gender, err := GenderFromCode(persona.Gender)
		if err != nil {
			return fmt.Errorf("registration %d: %w", kr.id, err)
		}
		birthday, err := ParseDate(persona.Birthday)
		if err != nil {
			return fmt.Errorf("registration %d birthday: %w", kr.id, err)
		}
		fields, err := coerceFields(kr.v.Fields, b.kinds)
		if err != nil {
			return fmt.Errorf("registration %d: %w", kr.id, err)
		}
		reg := &Registration{
			ID:        kr.id,
			PersonaID: persona.ID,
			Name: Name{
				Title:          persona.Title,
				GivenNames:     persona.GivenNames,
				FamilyName:     persona.FamilyName,
				NameSupplement: persona.NameSupplement,
				DisplayName:    persona.DisplayName,
			},
			Gender:    gender,
			Birthday:  birthday,
			Age:       AgeAt(begin, birthday),
			Email:     persona.Email,
			Telephone: persona.Telephone,
			Mobile:    persona.Mobile,
			Address: Address{
				Address:           persona.Address,
				AddressSupplement: persona.AddressSupplement,
				PostalCode:        persona.PostalCode,
				Location:          persona.Location,
				Country:           persona.Country,
				IsHomeCountry:     slices.Contains(b.homeCountries, persona.Country),
			},
			ListConsent: kr.v.ListConsent,
			IsOrga:      persona.IsOrga,
			Fields:      fields,
			Parts:       make(map[int]*RegistrationPart),
			Tracks:      make(map[int]*RegistrationTrack),
		}

		for key, dto := range kr.v.Parts {
			partID, err := strconv.Atoi(key)
			if err != nil {
				return fmt.Errorf("registration %d: malformed part id %q", kr.id, key)
			}
			part := b.partByID[partID]
			if part == nil {
				continue
			}
			status, err := RegistrationPartStatusFromCode(dto.Status)
			if err != nil {
				return fmt.Errorf("registration %d part %d: %w", kr.id, partID, err)
			}
			rp := &RegistrationPart{
				Registration: reg,
				Part:         part,
				Status:       status,
				CampingMat:   dto.IsCampingMat,
			}
			if dto.LodgementID != nil {
				rp.Lodgement = b.lodgementByID[*dto.LodgementID]
			}
			reg.Parts[part.ID] = rp
		}

		for key, dto := range kr.v.Tracks {
			trackID, err := strconv.Atoi(key)
			if err != nil {
				return fmt.Errorf("registration %d: malformed track id %q", kr.id, key)
			}
			track := b.trackByID[trackID]
			if track == nil {
				continue
			}
			rt := &RegistrationTrack{
				Registration: reg,
				Track:        track,
				Choices:      make([]*Course, track.NumChoices),
			}
			if dto.CourseID != nil {
				rt.Course = b.courseByID[*dto.CourseID]
			}
			if dto.CourseInstructor != nil {
				rt.OfferedCourse = b.courseByID[*dto.CourseInstructor]
			}
			for i, courseID := range dto.Choices {
				if i >= len(rt.Choices) {
					break
				}
				rt.Choices[i] = b.courseByID[courseID]
			}
			reg.Tracks[track.ID] = rt
		}

		b.event.Registrations = append(b.event.Registrations, reg)
	}
	slices.SortFunc(b.event.Registrations, compareRegistrations)
	return nil
}

// fillDefaults synthesizes the relations the export leaves implicit, so that
// every course knows all tracks, every lodgement all parts and every
// registration all parts and tracks.
func (b *builder) fillDefaults() {
	tracks := b.event.Tracks()

	for _, course := range b.event.Courses {
		for _, track := range tracks {
			if _, ok := course.Tracks[track.ID]; !ok {
				course.Tracks[track.ID] = &CourseTrack{Course: course, Track: track, Status: CourseNotOffered}
			}
		}
	}

	for _, lodgement := range b.event.Lodgements {
		for _, part := range b.event.Parts {
			lodgement.Parts[part.ID] = &LodgementPart{Lodgement: lodgement, Part: part}
		}
	}

	for _, reg := range b.event.Registrations {
		for _, part := range b.event.Parts {
			if _, ok := reg.Parts[part.ID]; !ok {
				reg.Parts[part.ID] = &RegistrationPart{Registration: reg, Part: part, Status: StatusNotApplied}
			}
		}
		for _, track := range tracks {
			if _, ok := reg.Tracks[track.ID]; !ok {
				reg.Tracks[track.ID] = &RegistrationTrack{
					Registration: reg,
					Track:        track,
					Choices:      make([]*Course, track.NumChoices),
				}
			}
		}
	}
}

// wireBackReferences fills the attendee and inhabitant lists. It walks the
// registrations in their final sort order, so every list comes out sorted by
// construction.
func (b *builder) wireBackReferences() {
	tracks := b.event.Tracks()
	for _, reg := range b.event.Registrations {
		for _, part := range b.event.Parts {
			rp := reg.Parts[part.ID]
			if rp.Lodgement == nil {
				continue
			}
			lp := rp.Lodgement.Parts[part.ID]
			lp.Inhabitants = append(lp.Inhabitants, Inhabitant{Registration: reg, CampingMat: rp.CampingMat})
		}
		for _, track := range tracks {
			rt := reg.Tracks[track.ID]
			if rt == nil || rt.Course == nil {
				continue
			}
			if rt.RegistrationPart() == nil {
				continue
			}
			ct := rt.Course.Tracks[track.ID]
			ct.Attendees = append(ct.Attendees, CourseAttendee{Registration: reg, Instructor: rt.IsInstructor()})
		}
	}
}

// keyed pairs a parsed integer id with its wire entity.
type keyed[T any] struct {
	id int
	v  T
}

// byID parses the string-encoded integer keys of a wire collection and
// returns the entries sorted by id.
func byID[T any](m map[string]T) ([]keyed[T], error) {
	out := make([]keyed[T], 0, len(m))
	for k, v := range m {
		id, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("malformed id key %q", k)
		}
		out = append(out, keyed[T]{id: id, v: v})
	}
	slices.SortFunc(out, func(x, y keyed[T]) int { return cmp.Compare(x.id, y.id) })
	return out, nil
}

// paddedNr left-pads a course number to width runes with NUL bytes so that
// numbers of different length compare shortest-first and unnumbered courses
// sort before all numbered ones.
func paddedNr(nr string, width int) string {
	if pad := width - utf8.RuneCountInString(nr); pad > 0 {
		return strings.Repeat("\x00", pad) + nr
	}
	return nr
}

func compareParts(x, y *EventPart) int {
	if c := x.Begin.Compare(y.Begin); c != 0 {
		return c
	}
	return cmp.Compare(x.ID, y.ID)
}

func compareTracks(x, y *EventTrack) int {
	if c := cmp.Compare(x.SortKey, y.SortKey); c != 0 {
		return c
	}
	return cmp.Compare(x.ID, y.ID)
}

func compareRegistrations(x, y *Registration) int {
	if c := strings.Compare(x.Name.GivenNames, y.Name.GivenNames); c != 0 {
		return c
	}
	if c := strings.Compare(x.Name.FamilyName, y.Name.FamilyName); c != 0 {
		return c
	}
	return cmp.Compare(x.ID, y.ID)
}

func sortTimes(ts []time.Time) {
	slices.SortFunc(ts, func(x, y time.Time) int { return x.Compare(y) })
}
