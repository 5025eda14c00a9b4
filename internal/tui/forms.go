// Package tui holds the interactive prompts used when a command is run
// without its flags. Every form is optional sugar: each field has a flag
// equivalent, so scripts never hit a prompt.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/civicdesk/civicdesk/internal/api"
)

// LoginForm collects the login identifier and password
func LoginForm(identifier, password *string) error {
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Email or phone").
			Value(identifier).
			Validate(required("identifier")),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(password).
			Validate(required("password")),
	))

	if err := form.Run(); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}
	return nil
}

// RegisterForm collects the citizen registration fields
func RegisterForm(req *api.RegisterRequest) error {
	var confirm string

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Full name").
			Value(&req.FullName).
			Validate(required("full name")),
		huh.NewInput().
			Title("Email").
			Value(&req.Email).
			Validate(func(s string) error {
				if !strings.Contains(s, "@") {
					return fmt.Errorf("enter a valid email address")
				}
				return nil
			}),
		huh.NewInput().
			Title("Phone number").
			Value(&req.PhoneNumber).
			Validate(required("phone number")),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&req.Password).
			Validate(func(s string) error {
				if len(s) < 6 {
					return fmt.Errorf("password must be at least 6 characters")
				}
				return nil
			}),
		huh.NewInput().
			Title("Confirm password").
			EchoMode(huh.EchoModePassword).
			Value(&confirm),
	))

	if err := form.Run(); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}

	if confirm != req.Password {
		return fmt.Errorf("passwords do not match")
	}
	return nil
}

// ComplaintForm collects the fields of a new complaint
func ComplaintForm(draft *api.ComplaintDraft) error {
	typeOptions := make([]huh.Option[string], 0, len(api.ComplaintTypes()))
	for _, t := range api.ComplaintTypes() {
		typeOptions = append(typeOptions, huh.NewOption(t.Label(), string(t)))
	}

	selected := string(draft.ComplaintType)
	if selected == "" {
		selected = string(api.TypeRoadDamage)
	}

	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Title").
			Placeholder("Brief title of the complaint").
			Value(&draft.Title).
			Validate(required("title")),
		huh.NewText().
			Title("Description").
			Placeholder("Detailed description of the issue").
			Value(&draft.Description).
			Validate(required("description")),
		huh.NewSelect[string]().
			Title("Complaint type").
			Options(typeOptions...).
			Value(&selected),
		huh.NewInput().
			Title("Location").
			Placeholder("Street, area, city").
			Value(&draft.LocationText),
	))

	if err := form.Run(); err != nil {
		return fmt.Errorf("prompt failed: %w", err)
	}

	draft.ComplaintType = api.ComplaintType(selected)
	return nil
}

// Confirm displays a yes/no confirmation prompt
func Confirm(message string, defaultValue bool) (bool, error) {
	confirmed := defaultValue

	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(message).
			Value(&confirmed),
	))

	if err := form.Run(); err != nil {
		return false, fmt.Errorf("prompt failed: %w", err)
	}
	return confirmed, nil
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}
