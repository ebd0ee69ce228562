package targets

import (
	"context"

	"github.com/cde-ev/template-renderer-v3/internal/event"
	"github.com/cde-ev/template-renderer-v3/internal/render"
)

// NametagData is the template dot for one badge sheet.
type NametagData struct {
	Event *event.Event
	Part  *event.EventPart
	Tags  []Nametag
}

// Nametag is one badge. Courses holds one entry per track slot, nil where
// no course is printed; Merged reports that two identical leading courses
// were collapsed into one.
type Nametag struct {
	Registration *event.Registration
	Courses      []*event.Course
	Merged       bool
}

// Nametags produces one badge sheet per event part for everyone present,
// guests included.
func Nametags() Target {
	return Target{
		Name:        "nametags",
		Description: "Badge sheets per event part.",
		Tasks:       nametagTasks,
	}
}

func nametagTasks(ctx context.Context, p Params) ([]render.Task, error) {
	merge, err := p.Options.Bool("merge_courses", true)
	if err != nil {
		return nil, err
	}
	secondRight, err := p.Options.Bool("second_always_right", false)
	if err != nil {
		return nil, err
	}

	jobnames := event.PartJobnames(p.Event)
	var tasks []render.Task
	for _, part := range p.Event.Parts {
		tracks := event.TracksForParts(p.Event, []*event.EventPart{part})
		regs := event.ActiveRegistrations(p.Event, event.RegistrationFilter{
			Parts:         []*event.EventPart{part},
			IncludeGuests: true,
		})

		tags := make([]Nametag, 0, len(regs))
		for _, reg := range regs {
			courses, merged := event.NametagCourses(reg, tracks, merge, secondRight)
			tags = append(tags, Nametag{Registration: reg, Courses: courses, Merged: merged})
		}

		jobname := "nametags_" + jobnames[part.ID]
		if len(p.Event.Parts) == 1 {
			jobname = "nametags"
		}
		tasks = append(tasks, render.Task{
			Template: "nametags.tex",
			Jobname:  jobname,
			Data:     NametagData{Event: p.Event, Part: part, Tags: tags},
		})
	}
	return tasks, nil
}
