package export

import (
	"encoding/json"
	"fmt"
	"math"
)

// ExpectedKind is the format marker a consumable export must carry.
const ExpectedKind = "partial"

// The inclusive range of schema versions this tool understands. The maximum
// minor is unbounded: minor bumps are additive by the exporter's contract.
var (
	MinSchemaVersion = SchemaVersion{Major: 12, Minor: 0}
	MaxSchemaVersion = SchemaVersion{Major: 15, Minor: math.MaxInt}
)

// SchemaVersion is an export's schema version. Old exporters wrote a bare
// integer instead of a [major, minor] pair; that decodes as (value, 0).
type SchemaVersion struct {
	Major int
	Minor int
}

// UnmarshalJSON accepts either a [major, minor] array or a legacy integer.
func (v *SchemaVersion) UnmarshalJSON(data []byte) error {
	var pair []int
	if err := json.Unmarshal(data, &pair); err == nil {
		if len(pair) != 2 {
			return fmt.Errorf("schema version array must have exactly 2 entries, got %d", len(pair))
		}
		v.Major, v.Minor = pair[0], pair[1]
		return nil
	}
	var legacy int
	if err := json.Unmarshal(data, &legacy); err == nil {
		v.Major, v.Minor = legacy, 0
		return nil
	}
	return fmt.Errorf("schema version must be an integer or a [major, minor] pair, got %s", data)
}

// Less orders versions lexicographically on (major, minor).
func (v SchemaVersion) Less(w SchemaVersion) bool {
	if v.Major != w.Major {
		return v.Major < w.Major
	}
	return v.Minor < w.Minor
}

func (v SchemaVersion) String() string {
	if v.Minor == math.MaxInt {
		return fmt.Sprintf("%d.*", v.Major)
	}
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// VersionError reports an export whose schema version this tool cannot
// consume. Found is nil when the export carries no version tag at all.
type VersionError struct {
	Found *SchemaVersion
}

func (e *VersionError) Error() string {
	if e.Found == nil {
		return fmt.Sprintf("export carries no schema version; supported range is %s to %s",
			MinSchemaVersion, MaxSchemaVersion)
	}
	return fmt.Sprintf("unsupported schema version %s; supported range is %s to %s",
		e.Found, MinSchemaVersion, MaxSchemaVersion)
}

// Validate runs the version gate: the format marker must match and the schema
// version must be present and inside the supported range. Failures here are
// configuration errors the operator must fix by updating the tool or
// re-exporting; the whole load aborts.
func (d *Document) Validate() error {
	if d.Kind != ExpectedKind {
		return fmt.Errorf("unexpected export kind %q, need a %q event export", d.Kind, ExpectedKind)
	}
	if d.SchemaVersion == nil {
		return &VersionError{}
	}
	if v := *d.SchemaVersion; v.Less(MinSchemaVersion) || MaxSchemaVersion.Less(v) {
		return &VersionError{Found: d.SchemaVersion}
	}
	return nil
}
