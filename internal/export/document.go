package export

import "encoding/json"

// Document is the top level of a partial export. The four entity collections
// are keyed by string-encoded integer ids, exactly as on the wire.
type Document struct {
	Kind            string                     `json:"kind"`
	SchemaVersion   *SchemaVersion             `json:"EVENT_SCHEMA_VERSION"`
	Timestamp       string                     `json:"timestamp"`
	ID              int                        `json:"id"`
	Event           Event                      `json:"event"`
	Courses         map[string]*Course         `json:"courses"`
	LodgementGroups map[string]*LodgementGroup `json:"lodgement_groups"`
	Lodgements      map[string]*Lodgement      `json:"lodgements"`
	Registrations   map[string]*Registration   `json:"registrations"`
}

// Event is the event descriptor, including the declared custom fields and the
// nested part/track descriptors.
type Event struct {
	Title           string                      `json:"title"`
	Shortname       string                      `json:"shortname"`
	CourseRoomField *string                     `json:"course_room_field"`
	Fields          map[string]*FieldDefinition `json:"fields"`
	Parts           map[string]*Part            `json:"parts"`
}

// FieldDefinition declares a custom field: its datatype code and which entity
// kind it is attached to.
type FieldDefinition struct {
	Kind        int `json:"kind"`
	Association int `json:"association"`
}

// Part is one time segment of the event.
type Part struct {
	Title     string            `json:"title"`
	Shortname string            `json:"shortname"`
	Begin     string            `json:"part_begin"`
	End       string            `json:"part_end"`
	Tracks    map[string]*Track `json:"tracks"`
}

// Track is one parallel course slot within a part.
type Track struct {
	Title      string `json:"title"`
	Shortname  string `json:"shortname"`
	SortKey    int    `json:"sortkey"`
	NumChoices int    `json:"num_choices"`
}

// Course is an offered course. Segments maps track ids to an active flag;
// tracks the course does not run in at all are simply absent.
type Course struct {
	Nr        string                     `json:"nr"`
	Title     string                     `json:"title"`
	Shortname string                     `json:"shortname"`
	Fields    map[string]json.RawMessage `json:"fields"`
	Segments  map[string]bool            `json:"segments"`
}

// LodgementGroup is a named cluster of lodgements.
type LodgementGroup struct {
	Title string `json:"title"`
}

// Lodgement is a housing unit. GroupID may reference a group that is not part
// of the export; the builder treats that as "no group".
type Lodgement struct {
	Title   string                     `json:"title"`
	GroupID *int                       `json:"group_id"`
	Fields  map[string]json.RawMessage `json:"fields"`
}

// Registration is one participant's registration with its nested persona and
// the per-part/per-track sub-objects, keyed by part/track id. Parts or tracks
// the registration never mentions are absent here; the builder synthesizes
// defaults for them.
type Registration struct {
	Persona     Persona                       `json:"persona"`
	ListConsent bool                          `json:"list_consent"`
	Fields      map[string]json.RawMessage    `json:"fields"`
	Parts       map[string]*RegistrationPart  `json:"parts"`
	Tracks      map[string]*RegistrationTrack `json:"tracks"`
}

// Persona carries the personal attributes of a registration.
type Persona struct {
	ID                int    `json:"id"`
	Title             string `json:"title"`
	GivenNames        string `json:"given_names"`
	FamilyName        string `json:"family_name"`
	DisplayName       string `json:"display_name"`
	NameSupplement    string `json:"name_supplement"`
	Gender            int    `json:"gender"`
	Birthday          string `json:"birthday"`
	Email             string `json:"email"`
	Telephone         string `json:"telephone"`
	Mobile            string `json:"mobile"`
	Address           string `json:"address"`
	AddressSupplement string `json:"address_supplement"`
	PostalCode        string `json:"postal_code"`
	Location          string `json:"location"`
	Country           string `json:"country"`
	IsOrga            bool   `json:"is_orga"`
}

// RegistrationPart is a registration's participation record for one part.
type RegistrationPart struct {
	Status       int  `json:"status"`
	LodgementID  *int `json:"lodgement_id"`
	IsCampingMat bool `json:"is_camping_mat"`
}

// RegistrationTrack is a registration's course assignment for one track.
// CourseInstructor names the course this person offers themselves, if any.
type RegistrationTrack struct {
	CourseID         *int  `json:"course_id"`
	CourseInstructor *int  `json:"course_instructor"`
	Choices          []int `json:"choices"`
}
