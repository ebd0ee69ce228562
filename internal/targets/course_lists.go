package targets

import (
	"context"
	"fmt"

	"github.com/cde-ev/template-renderer-v3/internal/event"
	"github.com/cde-ev/template-renderer-v3/internal/render"
)

const courseListsSubdir = "courselists"

// CourseListData is the template dot for one course attendee overview.
type CourseListData struct {
	Event  *event.Event
	Course *event.Course
	// Room is the value of the configured course room field, empty when
	// the field is unset.
	Room      string
	Attendees []event.Attendance
}

// CourseLists produces an attendee overview per active course.
func CourseLists() Target {
	return Target{
		Name:        "course_lists",
		Description: "Attendee overview per course.",
		Tasks:       courseListTasks,
	}
}

func courseListTasks(ctx context.Context, p Params) ([]render.Task, error) {
	var tasks []render.Task
	for _, course := range p.Event.Courses {
		if !course.IsActive() {
			continue
		}
		if p.Match != nil && !p.Match.MatchString(course.Nr+" "+course.Title) {
			continue
		}

		room := ""
		if p.Event.CourseRoomField != "" {
			room, _ = course.Fields[p.Event.CourseRoomField].(string)
		}

		tasks = append(tasks, render.Task{
			Template: "course_list.tex",
			Jobname: fmt.Sprintf("course_%s_%s",
				event.SanitizeFilename(course.Nr), event.SanitizeFilename(course.Shortname)),
			Data: CourseListData{
				Event:     p.Event,
				Course:    course,
				Room:      room,
				Attendees: event.CourseAttendees(p.Event, course),
			},
			Subdir: courseListsSubdir,
		})
	}
	return tasks, nil
}
