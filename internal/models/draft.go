package models

import "time"

// DraftStep is a position in the six-step application wizard
type DraftStep int

const (
	StepPersonal DraftStep = iota + 1
	StepAcademic
	StepScholarship
	StepSocioeconomic
	StepMotivation
	StepDeclaration
)

// FirstStep and LastStep bound the wizard
const (
	FirstStep = StepPersonal
	LastStep  = StepDeclaration
)

// AllDraftSteps returns the wizard steps in order
func AllDraftSteps() []DraftStep {
	return []DraftStep{StepPersonal, StepAcademic, StepScholarship, StepSocioeconomic, StepMotivation, StepDeclaration}
}

// Valid reports whether s is one of the six steps
func (s DraftStep) Valid() bool {
	return s >= FirstStep && s <= LastStep
}

// Label returns the step title shown above the form
func (s DraftStep) Label() string {
	switch s {
	case StepPersonal:
		return "Dados Pessoais"
	case StepAcademic:
		return "Dados Académicos"
	case StepScholarship:
		return "Tipo de Bolsa"
	case StepSocioeconomic:
		return "Situação Socioeconómica"
	case StepMotivation:
		return "Motivação"
	case StepDeclaration:
		return "Declaração"
	}
	return ""
}

// ApplicationDraft is an in-progress wizard session. It holds raw form
// state only; nothing is validated until submission.
type ApplicationDraft struct {
	ID        string          `json:"id"`
	UserID    *string         `json:"user_id"`
	Step      DraftStep       `json:"step"`
	StepLabel string          `json:"step_label"`
	Form      ApplicationForm `json:"form"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewApplicationDraft starts a draft on the first step
func NewApplicationDraft(id string, userID *string, now time.Time) *ApplicationDraft {
	return &ApplicationDraft{
		ID:        id,
		UserID:    userID,
		Step:      FirstStep,
		StepLabel: FirstStep.Label(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Next advances exactly one step. Field completeness is not checked.
func (d *ApplicationDraft) Next() error {
	if d.Step >= LastStep {
		return ErrLastStep
	}
	d.setStep(d.Step + 1)
	return nil
}

// Back moves one step back
func (d *ApplicationDraft) Back() error {
	if d.Step <= FirstStep {
		return ErrFirstStep
	}
	d.setStep(d.Step - 1)
	return nil
}

// IsFinalStep reports whether the draft is on the declaration step
func (d *ApplicationDraft) IsFinalStep() bool {
	return d.Step == LastStep
}

func (d *ApplicationDraft) setStep(s DraftStep) {
	d.Step = s
	d.StepLabel = s.Label()
}
