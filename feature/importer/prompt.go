package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// NewSiteOption is the menu entry for creating a site.
const NewSiteOption = "NEW"

// Prompter asks the operator for the decisions an import cannot make alone.
type Prompter interface {
	// ChooseSite returns the site a new location belongs to. sites lists the
	// known site names; the answer may name a new site.
	ChooseSite(ctx context.Context, location string, sites []string) (string, error)
	// Confirm asks a yes/no question.
	Confirm(ctx context.Context, question string) (bool, error)
}

// SurveyPrompter prompts on the terminal.
type SurveyPrompter struct {
	opts []survey.AskOpt
}

// NewSurveyPrompter creates a terminal prompter. opts are passed to every
// question, for example survey.WithStdio.
func NewSurveyPrompter(opts ...survey.AskOpt) *SurveyPrompter {
	return &SurveyPrompter{opts: opts}
}

// ChooseSite implements Prompter.
func (p *SurveyPrompter) ChooseSite(ctx context.Context, location string, sites []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	options := append(append([]string{}, sites...), NewSiteOption)
	var choice string
	err := survey.AskOne(&survey.Select{
		Message: fmt.Sprintf("Site for new location %q:", location),
		Options: options,
	}, &choice, p.opts...)
	if err != nil {
		return "", interrupted(err)
	}
	if choice != NewSiteOption {
		return choice, nil
	}

	var name string
	err = survey.AskOne(&survey.Input{
		Message: "Name of the new site:",
	}, &name, append(p.opts, survey.WithValidator(survey.Required))...)
	if err != nil {
		return "", interrupted(err)
	}
	return name, nil
}

// Confirm implements Prompter.
func (p *SurveyPrompter) Confirm(ctx context.Context, question string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	var ok bool
	if err := survey.AskOne(&survey.Confirm{Message: question}, &ok, p.opts...); err != nil {
		return false, interrupted(err)
	}
	return ok, nil
}

func interrupted(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return context.Canceled
	}
	return err
}
