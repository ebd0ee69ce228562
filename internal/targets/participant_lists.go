package targets

import (
	"context"

	"github.com/cde-ev/template-renderer-v3/internal/event"
	"github.com/cde-ev/template-renderer-v3/internal/render"
)

// ParticipantListData is the template dot for one participant list.
type ParticipantListData struct {
	Event         *event.Event
	Part          *event.EventPart
	Registrations []*event.Registration
	// Orga marks the unfiltered internal variant.
	Orga bool
}

// ParticipantLists produces a participant list per event part: a public
// variant restricted to people with list consent, and an unrestricted orga
// variant.
func ParticipantLists() Target {
	return Target{
		Name:        "participant_lists",
		Description: "Participant lists per event part, public and orga variants.",
		Tasks:       participantListTasks,
	}
}

func participantListTasks(ctx context.Context, p Params) ([]render.Task, error) {
	jobnames := event.PartJobnames(p.Event)
	var tasks []render.Task
	for _, part := range p.Event.Parts {
		for _, orga := range []bool{false, true} {
			regs := event.ActiveRegistrations(p.Event, event.RegistrationFilter{
				Parts:           []*event.EventPart{part},
				IncludeGuests:   true,
				ListConsentOnly: !orga,
			})

			jobname := "participant_list"
			if orga {
				jobname += "_orga"
			}
			if len(p.Event.Parts) > 1 {
				jobname += "_" + jobnames[part.ID]
			}
			tasks = append(tasks, render.Task{
				Template:  "participant_list.tex",
				Jobname:   jobname,
				Data:      ParticipantListData{Event: p.Event, Part: part, Registrations: regs, Orga: orga},
				DoubleTex: true,
			})
		}
	}
	return tasks, nil
}
