package event

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cde-ev/template-renderer-v3/internal/export"
)

func intp(v int) *int { return &v }

func strp(v string) *string { return &v }

// testDocument builds the canonical fixture: two parts with one track each,
// four courses (one without any segment), two lodgements in one group and
// five registrations covering the whole status range.
func testDocument() *export.Document {
	return &export.Document{
		Kind:          export.ExpectedKind,
		SchemaVersion: &export.SchemaVersion{Major: 15, Minor: 0},
		Timestamp:     "2023-06-01T12:00:00+00:00",
		ID:            7,
		Event: export.Event{
			Title:           "Testakademie 2023",
			Shortname:       "TA23",
			CourseRoomField: strp("course_room"),
			Fields: map[string]*export.FieldDefinition{
				"course_room": {Kind: 1, Association: 2},
				"vegan":       {Kind: 2, Association: 1},
				"arrival":     {Kind: 6, Association: 1},
			},
			Parts: map[string]*export.Part{
				"1": {
					Title:     "Erste Hälfte",
					Shortname: "1.H",
					Begin:     "2023-01-01",
					End:       "2023-01-07",
					Tracks: map[string]*export.Track{
						"10": {Title: "Kurse 1. Hälfte", Shortname: "K1", SortKey: 1, NumChoices: 3},
					},
				},
				"2": {
					Title:     "Zweite Hälfte",
					Shortname: "2.H",
					Begin:     "2023-01-08",
					End:       "2023-01-14",
					Tracks: map[string]*export.Track{
						"20": {Title: "Kurse 2. Hälfte", Shortname: "K2", SortKey: 2, NumChoices: 2},
					},
				},
			},
		},
		Courses: map[string]*export.Course{
			"301": {
				Nr:        "1",
				Title:     "Akrobatik",
				Shortname: "Akro",
				Fields:    map[string]json.RawMessage{"course_room": json.RawMessage(`"Halle"`)},
				Segments:  map[string]bool{"10": true, "20": true},
			},
			"302": {
				Nr:        "2",
				Title:     "Blockflöte",
				Shortname: "Flöte",
				Segments:  map[string]bool{"10": false, "77": true},
			},
			"303": {
				Nr:        "10",
				Title:     "Zehnkampf",
				Shortname: "Zehn",
				Segments:  map[string]bool{"20": true},
			},
			"304": {
				Title:     "Phantomkurs",
				Shortname: "Phantom",
			},
		},
		LodgementGroups: map[string]*export.LodgementGroup{
			"50": {Title: "Campus"},
		},
		Lodgements: map[string]*export.Lodgement{
			"100": {Title: "Haus 1", GroupID: intp(50)},
			"101": {Title: "Zelt", GroupID: intp(99)},
		},
		Registrations: map[string]*export.Registration{
			"501": {
				Persona: export.Persona{
					ID: 41, GivenNames: "Anton", FamilyName: "Administrator",
					Gender: 1, Birthday: "2000-03-01", Email: "anton@example.cde",
					Address: "Auf der Düne 42", PostalCode: "12345", Location: "Musterstadt",
					Country: "Deutschland", IsOrga: true,
				},
				ListConsent: true,
				Parts: map[string]*export.RegistrationPart{
					"1": {Status: 2, LodgementID: intp(100), IsCampingMat: true},
					"2": {Status: 2, LodgementID: intp(100)},
				},
				Tracks: map[string]*export.RegistrationTrack{
					"10": {CourseID: intp(301), CourseInstructor: intp(301), Choices: []int{301, 999, 302}},
					"20": {CourseID: intp(301), Choices: []int{301, 302}},
				},
			},
			"502": {
				Persona: export.Persona{
					ID: 42, GivenNames: "Berta", FamilyName: "Beispiel",
					Gender: 2, Birthday: "2005-06-15", Email: "berta@example.cde",
					Country: "Deutschland",
				},
				ListConsent: true,
				Fields:      map[string]json.RawMessage{"vegan": json.RawMessage(`true`)},
				Parts: map[string]*export.RegistrationPart{
					"1": {Status: 2, LodgementID: intp(101)},
					"2": {Status: 2},
				},
				Tracks: map[string]*export.RegistrationTrack{
					"10": {CourseID: intp(301), Choices: []int{301, 302}},
					"20": {CourseID: intp(998), Choices: []int{302, 301}},
				},
			},
			"503": {
				Persona: export.Persona{
					ID: 43, GivenNames: "Charlotte", FamilyName: "Clausen", DisplayName: "Charly",
					Gender: 2, Birthday: "1995-11-30", Country: "Deutschland",
				},
				Parts: map[string]*export.RegistrationPart{
					"1": {Status: 2, LodgementID: intp(100)},
				},
				Tracks: map[string]*export.RegistrationTrack{
					"10": {CourseID: intp(301), Choices: []int{301, 302, 303, 301}},
				},
			},
			"504": {
				Persona: export.Persona{
					ID: 44, GivenNames: "Daniel", FamilyName: "Dino",
					Gender: 3, Birthday: "2010-01-02", Country: "Deutschland",
				},
				Fields: map[string]json.RawMessage{
					"vegan":   json.RawMessage(`false`),
					"ancient": json.RawMessage(`"relic"`),
				},
				Parts: map[string]*export.RegistrationPart{
					"1": {Status: 1, LodgementID: intp(999)},
					"2": {Status: 4},
				},
			},
			"505": {
				Persona: export.Persona{
					ID: 45, GivenNames: "Emilia", FamilyName: "Eventis",
					Gender: 0, Birthday: "2001-07-07", Country: "Betelgeuse",
				},
			},
		},
	}
}

func buildTestEvent(t *testing.T) *Event {
	t.Helper()
	ev, err := FromExport(context.Background(), testDocument(), Options{})
	require.NoError(t, err)
	return ev
}

func registrationIDs(regs []*Registration) []int {
	ids := make([]int, len(regs))
	for i, r := range regs {
		ids[i] = r.ID
	}
	return ids
}

func TestFromExportGraphShape(t *testing.T) {
	ev := buildTestEvent(t)

	assert.Equal(t, 7, ev.ID)
	assert.Equal(t, "Testakademie 2023", ev.Title)
	assert.Equal(t, "TA23", ev.Shortname)
	assert.Equal(t, "course_room", ev.CourseRoomField)
	assert.True(t, ev.Timestamp.Equal(time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)))
	assert.Len(t, ev.FieldDefinitions, 3)
	assert.Equal(t, FieldBool, ev.FieldDefinitions["vegan"].Kind)
	assert.Equal(t, FieldRegistration, ev.FieldDefinitions["vegan"].Association)

	t.Run("parts sort by begin", func(t *testing.T) {
		require.Len(t, ev.Parts, 2)
		assert.Equal(t, 1, ev.Parts[0].ID)
		assert.Equal(t, 2, ev.Parts[1].ID)
		assert.True(t, ev.Begin().Equal(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)))
		assert.True(t, ev.End().Equal(time.Date(2023, 1, 14, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("tracks concatenate part by part", func(t *testing.T) {
		tracks := ev.Tracks()
		require.Len(t, tracks, 2)
		assert.Equal(t, 10, tracks[0].ID)
		assert.Equal(t, 20, tracks[1].ID)
		assert.Same(t, ev.Parts[0], tracks[0].Part)
		assert.Equal(t, 3, tracks[0].NumChoices)
	})

	t.Run("courses sort by padded number", func(t *testing.T) {
		require.Len(t, ev.Courses, 4)
		ids := make([]int, 0, 4)
		for _, c := range ev.Courses {
			ids = append(ids, c.ID)
		}
		// Unnumbered first, then 1 < 2 < 10 despite the lexicographic trap.
		assert.Equal(t, []int{304, 301, 302, 303}, ids)
	})

	t.Run("lodgements sort by title", func(t *testing.T) {
		require.Len(t, ev.Lodgements, 2)
		assert.Equal(t, "Haus 1", ev.Lodgements[0].Title)
		assert.Equal(t, "Zelt", ev.Lodgements[1].Title)
		require.Len(t, ev.LodgementGroups, 1)
		assert.Equal(t, []*Lodgement{ev.Lodgements[0]}, ev.LodgementGroups[0].Lodgements)
		assert.Nil(t, ev.Lodgements[1].Group, "dangling group reference must stay empty")
	})

	t.Run("registrations sort by name", func(t *testing.T) {
		assert.Equal(t, []int{501, 502, 503, 504, 505}, registrationIDs(ev.Registrations))
	})
}

func TestFromExportCompleteness(t *testing.T) {
	ev := buildTestEvent(t)
	tracks := ev.Tracks()

	totalParts := 0
	for _, reg := range ev.Registrations {
		assert.Len(t, reg.Parts, len(ev.Parts), "registration %d", reg.ID)
		assert.Len(t, reg.Tracks, len(tracks), "registration %d", reg.ID)
		totalParts += len(reg.Parts)
		for _, part := range ev.Parts {
			rp := reg.Parts[part.ID]
			require.NotNil(t, rp)
			assert.Same(t, reg, rp.Registration)
			assert.Same(t, part, rp.Part)
		}
		for _, track := range tracks {
			rt := reg.Tracks[track.ID]
			require.NotNil(t, rt)
			assert.Len(t, rt.Choices, track.NumChoices)
		}
	}
	assert.Equal(t, 10, totalParts)

	for _, course := range ev.Courses {
		assert.Len(t, course.Tracks, len(tracks), "course %d", course.ID)
	}
	for _, lodgement := range ev.Lodgements {
		assert.Len(t, lodgement.Parts, len(ev.Parts), "lodgement %d", lodgement.ID)
	}

	t.Run("absent registration gets not applied everywhere", func(t *testing.T) {
		emilia := ev.Registrations[4]
		require.Equal(t, 505, emilia.ID)
		for _, rp := range emilia.Parts {
			assert.Equal(t, StatusNotApplied, rp.Status)
			assert.Nil(t, rp.Lodgement)
		}
		assert.False(t, emilia.IsInvolved())
	})

	t.Run("segmentless course is inactive in every track", func(t *testing.T) {
		phantom := ev.Courses[0]
		require.Equal(t, 304, phantom.ID)
		assert.False(t, phantom.IsActive())
		for _, ct := range phantom.Tracks {
			assert.Equal(t, CourseNotOffered, ct.Status)
		}
	})

	t.Run("cancelled segment stays distinct from missing one", func(t *testing.T) {
		floete := ev.Courses[2]
		require.Equal(t, 302, floete.ID)
		assert.Equal(t, CourseCancelled, floete.Tracks[10].Status)
		assert.Equal(t, CourseNotOffered, floete.Tracks[20].Status)
		assert.False(t, floete.IsActive())
	})
}

func TestFromExportWiring(t *testing.T) {
	ev := buildTestEvent(t)
	akro := ev.Courses[1]
	require.Equal(t, 301, akro.ID)

	t.Run("attendees follow registration order", func(t *testing.T) {
		att := akro.Tracks[10].Attendees
		require.Len(t, att, 3)
		assert.Equal(t, 501, att[0].Registration.ID)
		assert.True(t, att[0].Instructor)
		assert.Equal(t, 502, att[1].Registration.ID)
		assert.False(t, att[1].Instructor)
		assert.Equal(t, 503, att[2].Registration.ID)
	})

	t.Run("instructor flag needs the matching assignment", func(t *testing.T) {
		att := akro.Tracks[20].Attendees
		require.Len(t, att, 1)
		assert.Equal(t, 501, att[0].Registration.ID)
		assert.False(t, att[0].Instructor)
	})

	t.Run("dangling course assignment stays empty", func(t *testing.T) {
		berta := ev.Registrations[1]
		require.Equal(t, 502, berta.ID)
		assert.Nil(t, berta.Tracks[20].Course)
	})

	t.Run("inhabitants follow registration order", func(t *testing.T) {
		haus := ev.Lodgements[0]
		inh := haus.Parts[1].Inhabitants
		require.Len(t, inh, 2)
		assert.Equal(t, 501, inh[0].Registration.ID)
		assert.True(t, inh[0].CampingMat)
		assert.Equal(t, 503, inh[1].Registration.ID)
		assert.False(t, inh[1].CampingMat)

		inh = haus.Parts[2].Inhabitants
		require.Len(t, inh, 1)
		assert.Equal(t, 501, inh[0].Registration.ID)

		zelt := ev.Lodgements[1]
		require.Len(t, zelt.Parts[1].Inhabitants, 1)
		assert.Equal(t, 502, zelt.Parts[1].Inhabitants[0].Registration.ID)
		assert.Empty(t, zelt.Parts[2].Inhabitants)
	})

	t.Run("dangling lodgement reference stays empty", func(t *testing.T) {
		daniel := ev.Registrations[3]
		require.Equal(t, 504, daniel.ID)
		assert.Nil(t, daniel.Parts[1].Lodgement)
	})
}

func TestFromExportChoices(t *testing.T) {
	ev := buildTestEvent(t)
	akro, floete := ev.Courses[1], ev.Courses[2]

	anton := ev.Registrations[0]
	berta := ev.Registrations[1]
	charlotte := ev.Registrations[2]
	daniel := ev.Registrations[3]

	t.Run("dangling choice keeps its rank", func(t *testing.T) {
		assert.Equal(t, []*Course{akro, nil, floete}, anton.Tracks[10].Choices)
	})

	t.Run("short lists are padded", func(t *testing.T) {
		assert.Equal(t, []*Course{akro, floete, nil}, berta.Tracks[10].Choices)
	})

	t.Run("long lists are truncated", func(t *testing.T) {
		require.Len(t, charlotte.Tracks[10].Choices, 3)
		assert.Equal(t, akro, charlotte.Tracks[10].Choices[0])
	})

	t.Run("synthesized tracks have empty choices", func(t *testing.T) {
		assert.Equal(t, []*Course{nil, nil, nil}, daniel.Tracks[10].Choices)
		assert.Equal(t, []*Course{nil, nil}, daniel.Tracks[20].Choices)
	})
}

func TestFromExportDerived(t *testing.T) {
	ev := buildTestEvent(t)
	anton := ev.Registrations[0]
	berta := ev.Registrations[1]
	daniel := ev.Registrations[3]
	emilia := ev.Registrations[4]

	t.Run("ages count from event begin", func(t *testing.T) {
		assert.Equal(t, 22, anton.Age)
		assert.Equal(t, AgeFull, anton.AgeClass())
		assert.False(t, anton.IsMinor())
		assert.Equal(t, 17, berta.Age)
		assert.Equal(t, AgeU18, berta.AgeClass())
		assert.True(t, berta.IsMinor())
		assert.Equal(t, 12, daniel.Age)
		assert.Equal(t, AgeU14, daniel.AgeClass())
	})

	t.Run("status predicates", func(t *testing.T) {
		assert.True(t, anton.IsParticipant())
		assert.True(t, anton.IsPresent())
		assert.True(t, anton.IsInvolved())

		assert.False(t, daniel.IsParticipant())
		assert.True(t, daniel.IsPresent(), "guests are on site")
		assert.True(t, daniel.IsInvolved())

		assert.False(t, emilia.IsParticipant())
		assert.False(t, emilia.IsPresent())
		assert.False(t, emilia.IsInvolved())
	})

	t.Run("custom fields are coerced and filtered", func(t *testing.T) {
		assert.Equal(t, true, berta.Fields["vegan"])
		assert.Equal(t, false, daniel.Fields["vegan"])
		_, ok := daniel.Fields["ancient"]
		assert.False(t, ok, "undeclared fields are dropped")
		assert.Equal(t, "Halle", ev.Courses[1].Fields["course_room"])
	})

	t.Run("home country suppression", func(t *testing.T) {
		assert.True(t, anton.Address.IsHomeCountry)
		assert.False(t, emilia.Address.IsHomeCountry)
		assert.Equal(t, "Auf der Düne 42\n12345 Musterstadt", anton.Address.Block())
	})

	t.Run("instructor predicate", func(t *testing.T) {
		assert.True(t, anton.Tracks[10].IsInstructor())
		assert.False(t, anton.Tracks[20].IsInstructor())
		assert.False(t, berta.Tracks[10].IsInstructor())
	})
}

func TestFromExportDeterminism(t *testing.T) {
	// Wire collections are Go maps, so two builds only agree when every
	// slice in the graph is explicitly sorted.
	first := buildTestEvent(t)
	second := buildTestEvent(t)

	assert.Equal(t, registrationIDs(first.Registrations), registrationIDs(second.Registrations))
	for i := range first.Courses {
		assert.Equal(t, first.Courses[i].ID, second.Courses[i].ID)
	}
	for i := range first.Lodgements {
		assert.Equal(t, first.Lodgements[i].ID, second.Lodgements[i].ID)
	}
	akroFirst, akroSecond := first.Courses[1], second.Courses[1]
	require.Equal(t, len(akroFirst.Tracks[10].Attendees), len(akroSecond.Tracks[10].Attendees))
	for i := range akroFirst.Tracks[10].Attendees {
		assert.Equal(t, akroFirst.Tracks[10].Attendees[i].Registration.ID, akroSecond.Tracks[10].Attendees[i].Registration.ID)
	}
}

func TestFromExportErrors(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*export.Document)
		errPart string
	}{
		{
			name:    "wrong kind",
			mutate:  func(d *export.Document) { d.Kind = "full" },
			errPart: "kind",
		},
		{
			name:    "bad timestamp",
			mutate:  func(d *export.Document) { d.Timestamp = "yesterday" },
			errPart: "timestamp",
		},
		{
			name:    "unknown gender code",
			mutate:  func(d *export.Document) { d.Registrations["501"].Persona.Gender = 9 },
			errPart: "gender",
		},
		{
			name:    "bad birthday",
			mutate:  func(d *export.Document) { d.Registrations["502"].Persona.Birthday = "never" },
			errPart: "birthday",
		},
		{
			name:    "unknown status code",
			mutate:  func(d *export.Document) { d.Registrations["503"].Parts["1"].Status = 42 },
			errPart: "status",
		},
		{
			name:    "malformed part key",
			mutate:  func(d *export.Document) { d.Event.Parts["one"] = d.Event.Parts["1"] },
			errPart: "id key",
		},
		{
			name: "field type mismatch",
			mutate: func(d *export.Document) {
				d.Courses["301"].Fields["course_room"] = json.RawMessage(`17`)
			},
			errPart: "course_room",
		},
		{
			name:    "unknown field kind",
			mutate:  func(d *export.Document) { d.Event.Fields["vegan"].Kind = 99 },
			errPart: "field kind",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc := testDocument()
			tc.mutate(doc)
			_, err := FromExport(context.Background(), doc, Options{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errPart)
		})
	}
}

func TestEventDays(t *testing.T) {
	t.Run("part days are inclusive", func(t *testing.T) {
		ev := buildTestEvent(t)
		days := ev.Parts[0].Days()
		require.Len(t, days, 7)
		assert.True(t, days[0].Equal(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)))
		assert.True(t, days[6].Equal(time.Date(2023, 1, 7, 0, 0, 0, 0, time.UTC)))
		assert.Len(t, ev.Days(), 14)
	})

	t.Run("overlapping parts deduplicate", func(t *testing.T) {
		ev := &Event{Parts: []*EventPart{
			{Begin: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC)},
			{Begin: time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC), End: time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC)},
		}}
		days := ev.Days()
		require.Len(t, days, 5)
		assert.True(t, days[2].Equal(time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC)))
	})
}

func TestCustomHomeCountries(t *testing.T) {
	ev, err := FromExport(context.Background(), testDocument(), Options{
		HomeCountries: []string{"Betelgeuse"},
	})
	require.NoError(t, err)
	emilia := ev.Registrations[4]
	assert.True(t, emilia.Address.IsHomeCountry)
	anton := ev.Registrations[0]
	assert.False(t, anton.Address.IsHomeCountry)
}

func TestCourseRoomFieldOverride(t *testing.T) {
	ev, err := FromExport(context.Background(), testDocument(), Options{CourseRoomField: "room_override"})
	require.NoError(t, err)
	assert.Equal(t, "room_override", ev.CourseRoomField)
}
