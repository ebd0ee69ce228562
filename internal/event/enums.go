package event

import "fmt"

// Gender is the registered gender of a persona.
type Gender int

const (
	GenderUnknown Gender = 0
	GenderMale    Gender = 1
	GenderFemale  Gender = 2
	GenderVarious Gender = 3
)

// genderByCode maps the wire codes of the export. Decoding is a strict
// lookup; codes outside this table abort the load.
var genderByCode = map[int]Gender{
	0: GenderUnknown,
	1: GenderMale,
	2: GenderFemale,
	3: GenderVarious,
}

// GenderFromCode decodes a wire gender code.
func GenderFromCode(code int) (Gender, error) {
	g, ok := genderByCode[code]
	if !ok {
		return 0, fmt.Errorf("unknown gender code %d", code)
	}
	return g, nil
}

func (g Gender) String() string {
	switch g {
	case GenderMale:
		return "male"
	case GenderFemale:
		return "female"
	case GenderVarious:
		return "various"
	default:
		return "unknown"
	}
}

// RegistrationPartStatus is the standing of a registration in one event part.
type RegistrationPartStatus int

const (
	StatusNotApplied  RegistrationPartStatus = -1
	StatusApplied     RegistrationPartStatus = 1
	StatusParticipant RegistrationPartStatus = 2
	StatusWaitlist    RegistrationPartStatus = 3
	StatusGuest       RegistrationPartStatus = 4
	StatusCancelled   RegistrationPartStatus = 5
	StatusRejected    RegistrationPartStatus = 6
)

var registrationPartStatusByCode = map[int]RegistrationPartStatus{
	-1: StatusNotApplied,
	1:  StatusApplied,
	2:  StatusParticipant,
	3:  StatusWaitlist,
	4:  StatusGuest,
	5:  StatusCancelled,
	6:  StatusRejected,
}

// RegistrationPartStatusFromCode decodes a wire status code.
func RegistrationPartStatusFromCode(code int) (RegistrationPartStatus, error) {
	s, ok := registrationPartStatusByCode[code]
	if !ok {
		return 0, fmt.Errorf("unknown registration part status code %d", code)
	}
	return s, nil
}

// IsInvolved reports whether the registration still takes part in the event
// in some form, including open applications and waitlist entries.
func (s RegistrationPartStatus) IsInvolved() bool {
	switch s {
	case StatusApplied, StatusParticipant, StatusWaitlist, StatusGuest:
		return true
	}
	return false
}

// IsPresent reports whether the person is actually on site during the part.
func (s RegistrationPartStatus) IsPresent() bool {
	return s == StatusParticipant || s == StatusGuest
}

func (s RegistrationPartStatus) String() string {
	switch s {
	case StatusNotApplied:
		return "not_applied"
	case StatusApplied:
		return "applied"
	case StatusParticipant:
		return "participant"
	case StatusWaitlist:
		return "waitlist"
	case StatusGuest:
		return "guest"
	case StatusCancelled:
		return "cancelled"
	case StatusRejected:
		return "rejected"
	default:
		return fmt.Sprintf("RegistrationPartStatus(%d)", int(s))
	}
}

// CourseTrackStatus describes whether a course runs in a given track.
type CourseTrackStatus int

const (
	// CourseNotOffered marks a track the course was never proposed for.
	CourseNotOffered CourseTrackStatus = iota
	// CourseCancelled marks a track the course was proposed for but does
	// not take place in.
	CourseCancelled
	// CourseActive marks a track the course takes place in.
	CourseActive
)

// IsActive reports whether the course actually runs in the track.
func (s CourseTrackStatus) IsActive() bool {
	return s == CourseActive
}

func (s CourseTrackStatus) String() string {
	switch s {
	case CourseCancelled:
		return "cancelled"
	case CourseActive:
		return "active"
	default:
		return "not_offered"
	}
}

// FieldKind is the declared value type of a custom data field.
type FieldKind int

const (
	FieldString   FieldKind = 1
	FieldBool     FieldKind = 2
	FieldInt      FieldKind = 3
	FieldFloat    FieldKind = 4
	FieldDate     FieldKind = 5
	FieldDatetime FieldKind = 6
)

var fieldKindByCode = map[int]FieldKind{
	1: FieldString,
	2: FieldBool,
	3: FieldInt,
	4: FieldFloat,
	5: FieldDate,
	6: FieldDatetime,
}

// FieldKindFromCode decodes a wire field kind code.
func FieldKindFromCode(code int) (FieldKind, error) {
	k, ok := fieldKindByCode[code]
	if !ok {
		return 0, fmt.Errorf("unknown field kind code %d", code)
	}
	return k, nil
}

func (k FieldKind) String() string {
	switch k {
	case FieldString:
		return "str"
	case FieldBool:
		return "bool"
	case FieldInt:
		return "int"
	case FieldFloat:
		return "float"
	case FieldDate:
		return "date"
	case FieldDatetime:
		return "datetime"
	default:
		return fmt.Sprintf("FieldKind(%d)", int(k))
	}
}

// FieldAssociation names the entity kind a custom field belongs to. It is
// carried for template use; value coercion does not depend on it.
type FieldAssociation int

const (
	FieldRegistration FieldAssociation = 1
	FieldCourse       FieldAssociation = 2
	FieldLodgement    FieldAssociation = 3
)

var fieldAssociationByCode = map[int]FieldAssociation{
	1: FieldRegistration,
	2: FieldCourse,
	3: FieldLodgement,
}

// FieldAssociationFromCode decodes a wire field association code.
func FieldAssociationFromCode(code int) (FieldAssociation, error) {
	a, ok := fieldAssociationByCode[code]
	if !ok {
		return 0, fmt.Errorf("unknown field association code %d", code)
	}
	return a, nil
}

func (a FieldAssociation) String() string {
	switch a {
	case FieldRegistration:
		return "registration"
	case FieldCourse:
		return "course"
	case FieldLodgement:
		return "lodgement"
	default:
		return fmt.Sprintf("FieldAssociation(%d)", int(a))
	}
}

// AgeClass buckets an age into the legally relevant groups.
type AgeClass int

const (
	AgeFull AgeClass = iota
	AgeU18
	AgeU16
	AgeU14
)

// AgeClassOf returns the age class for an age in whole years.
func AgeClassOf(age int) AgeClass {
	switch {
	case age >= 18:
		return AgeFull
	case age >= 16:
		return AgeU18
	case age >= 14:
		return AgeU16
	default:
		return AgeU14
	}
}

// IsMinor reports whether the person needs parental consent paperwork.
func (c AgeClass) IsMinor() bool {
	return c != AgeFull
}

func (c AgeClass) String() string {
	switch c {
	case AgeFull:
		return "full"
	case AgeU18:
		return "u18"
	case AgeU16:
		return "u16"
	default:
		return "u14"
	}
}
