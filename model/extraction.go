package model

import (
	"encoding/json"
	"os"

	"github.com/go-playground/validator/v10"
)

// PredictionStatus is the predicted outcome for a bill
type PredictionStatus string

const (
	PredictionApproved  PredictionStatus = "APPROVED"
	PredictionRejected  PredictionStatus = "REJECTED"
	PredictionUncertain PredictionStatus = "UNCERTAIN"
)

// Confidence grades how certain a prediction is
type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

// VoteValue is the recorded value of a council vote
type VoteValue string

const (
	VoteYes     VoteValue = "yes"
	VoteNo      VoteValue = "no"
	VoteAbstain VoteValue = "abstain"
	VoteHeld    VoteValue = "held"
)

// Bill is an ordinance, resolution or other piece of legislation
type Bill struct {
	ID         string           `json:"id" validate:"required"`
	Title      string           `json:"title" validate:"required"`
	Type       string           `json:"type,omitempty"`
	Prediction PredictionStatus `json:"prediction" validate:"required,oneof=APPROVED REJECTED UNCERTAIN"`
	Confidence Confidence       `json:"confidence" validate:"required,oneof=HIGH MEDIUM LOW"`
	Reasoning  string           `json:"reasoning"`
}

// Person is a council member, speaker or official mentioned in a transcript
type Person struct {
	Name         string `json:"name" validate:"required"`
	Role         string `json:"role,omitempty"`
	Organization string `json:"organization,omitempty"`
}

// Organization is a department, company or agency
type Organization struct {
	Name string `json:"name" validate:"required"`
	Type string `json:"type,omitempty"`
}

// Project is a real estate or infrastructure project
type Project struct {
	Name     string `json:"name" validate:"required"`
	Type     string `json:"type,omitempty"`
	Location string `json:"location,omitempty"`
	Amount   string `json:"amount,omitempty"`
}

// Vote records a single vote on a bill
type Vote struct {
	BillID string    `json:"bill_id" validate:"required"`
	Person string    `json:"person" validate:"required"`
	Value  VoteValue `json:"vote" validate:"required,oneof=yes no abstain held"`
}

// TranscriptExtraction is the complete extraction from a single transcript
type TranscriptExtraction struct {
	Bills         []Bill         `json:"bills" validate:"dive"`
	People        []Person       `json:"people" validate:"dive"`
	Organizations []Organization `json:"organizations" validate:"dive"`
	Projects      []Project      `json:"projects" validate:"dive"`
	Votes         []Vote         `json:"votes" validate:"dive"`
	// Provenance
	SourceFile string   `json:"source_file,omitempty"`
	Meeting    Metadata `json:"metadata,omitempty"`
}

var validate = validator.New()

// Validate checks the extraction against its struct tags
func (e *TranscriptExtraction) Validate() error {
	return validate.Struct(e)
}

// Mentions returns all raw entity mentions of the extraction, typed and in
// document order. People contribute their affiliated organization as an
// additional organization mention.
func (e *TranscriptExtraction) Mentions() []Mention {
	var mentions []Mention
	for _, p := range e.People {
		mentions = append(mentions, Mention{Type: EntityTypePerson, Text: p.Name})
	}
	for _, b := range e.Bills {
		mentions = append(mentions, Mention{Type: EntityTypeBill, Text: b.ID})
	}
	for _, o := range e.Organizations {
		mentions = append(mentions, Mention{Type: EntityTypeOrganization, Text: o.Name})
	}
	for _, p := range e.People {
		if p.Organization != "" {
			mentions = append(mentions, Mention{Type: EntityTypeOrganization, Text: p.Organization})
		}
	}
	for _, p := range e.Projects {
		mentions = append(mentions, Mention{Type: EntityTypeProject, Text: p.Name})
	}
	return mentions
}

// SaveExtraction writes the extraction as an indented JSON file
func (e *TranscriptExtraction) SaveExtraction(path string) error {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadExtraction reads and validates an extraction JSON file
func LoadExtraction(path string) (*TranscriptExtraction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	extraction := &TranscriptExtraction{}
	if err := json.Unmarshal(data, extraction); err != nil {
		return nil, err
	}
	if err := extraction.Validate(); err != nil {
		return nil, err
	}

	return extraction, nil
}
