package targets

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cde-ev/template-renderer-v3/internal/ctxlog"
	"github.com/cde-ev/template-renderer-v3/internal/event"
	"github.com/cde-ev/template-renderer-v3/internal/render"
)

const tnlettersSubdir = "tnletters"

// TNLetterData is the template dot for one participant letter.
type TNLetterData struct {
	Event       *event.Event
	Participant *event.Registration
	Sender      string
}

// TNLetters produces one letter per participant, plus a mailmerge CSV next
// to the PDFs for sending them out.
func TNLetters() Target {
	return Target{
		Name:        "tnletters",
		Description: "One letter per participant, with a mailmerge CSV.",
		Tasks:       tnletterTasks,
	}
}

func tnletterTasks(ctx context.Context, p Params) ([]render.Task, error) {
	sender, err := p.Options.String("sender", "")
	if err != nil {
		return nil, err
	}

	participants := event.ActiveRegistrations(p.Event, event.RegistrationFilter{})
	if p.Match != nil {
		var kept []*event.Registration
		for _, reg := range participants {
			if p.Match.MatchString(reg.Name.Common()) {
				kept = append(kept, reg)
			}
		}
		participants = kept
	}

	dir := filepath.Join(p.OutputDir, tnlettersSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	if err := writeMailmerge(dir, participants); err != nil {
		return nil, fmt.Errorf("writing mailmerge file: %w", err)
	}
	ctxlog.FromContext(ctx).Debug("Wrote mailmerge file.", "participants", len(participants))

	tasks := make([]render.Task, 0, len(participants))
	for _, reg := range participants {
		tasks = append(tasks, render.Task{
			Template: "tnletter.tex",
			Jobname:  fmt.Sprintf("tnletter_%d", reg.ID),
			Data:     TNLetterData{Event: p.Event, Participant: reg, Sender: sender},
			Subdir:   tnlettersSubdir,
		})
	}
	return tasks, nil
}

// writeMailmerge writes the CSV used to mail out the rendered letters. The
// file path column is absolute so the CSV works from anywhere.
func writeMailmerge(dir string, participants []*event.Registration) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(dir, "tnletter_mailmerge.csv"))
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	w.Write([]string{"Vorname", "Nachname", "Email", "Datei"})
	for _, reg := range participants {
		w.Write([]string{
			reg.Name.CommonForename(),
			reg.Name.CommonSurname(),
			reg.Email,
			filepath.Join(absDir, fmt.Sprintf("tnletter_%d.pdf", reg.ID)),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
