package profile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
)

// Selector obtains the user's profile choice. The interactive picker is
// tried first; any failure or cancellation there falls back to a numbered
// console menu reading from In.
type Selector struct {
	In          io.Reader
	Out         io.Writer
	Interactive bool
}

// Select returns the chosen profile.
//
// Validation is asymmetric on purpose, mirroring the tool this replaces: a
// picker choice without the marker directory is a hard ErrInvalidProfile,
// while the console menu reprompts until a valid choice is made or the input
// is closed.
func (s *Selector) Select(profiles []Profile, marker string) (Profile, error) {
	if s.Interactive {
		p, err := s.selectPicker(profiles)
		if err == nil {
			if verr := Validate(p, marker); verr != nil {
				return Profile{}, verr
			}
			return p, nil
		}
		fmt.Fprintln(s.Out, "Falling back to console selection.")
	}
	return s.selectConsole(profiles, marker)
}

// selectPicker shows the interactive list picker
func (s *Selector) selectPicker(profiles []Profile) (Profile, error) {
	options := make([]string, 0, len(profiles))
	for _, p := range profiles {
		options = append(options, p.Name)
	}

	chosen, err := pterm.DefaultInteractiveSelect.
		WithOptions(options).
		Show("Select the modpack profile to sync")
	if err != nil {
		return Profile{}, fmt.Errorf("interactive selection failed: %w", err)
	}

	for _, p := range profiles {
		if p.Name == chosen {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("interactive selection returned unknown profile %q", chosen)
}

// SelectUnattended picks a profile without any prompting. Exactly one valid
// candidate is required; none is an ErrInvalidProfile, more than one cannot
// be disambiguated without a prompt and is an error.
func SelectUnattended(profiles []Profile, marker string) (Profile, error) {
	var valid []Profile
	for _, p := range profiles {
		if Validate(p, marker) == nil {
			valid = append(valid, p)
		}
	}

	switch len(valid) {
	case 0:
		return Profile{}, fmt.Errorf("%w: no profile has a %q directory", ErrInvalidProfile, marker)
	case 1:
		return valid[0], nil
	default:
		return Profile{}, fmt.Errorf("%d valid profiles found, cannot choose one without prompting", len(valid))
	}
}

// selectConsole shows a numbered menu and reprompts on any invalid input
func (s *Selector) selectConsole(profiles []Profile, marker string) (Profile, error) {
	fmt.Fprintln(s.Out, "Available profiles:")
	for i, p := range profiles {
		fmt.Fprintf(s.Out, "  %d) %s\n", i+1, p.Name)
	}

	scanner := bufio.NewScanner(s.In)
	for {
		fmt.Fprintf(s.Out, "Select profile [1-%d]: ", len(profiles))
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return Profile{}, fmt.Errorf("failed to read selection: %w", err)
			}
			return Profile{}, fmt.Errorf("selection input closed")
		}

		choice, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err != nil || choice < 1 || choice > len(profiles) {
			fmt.Fprintln(s.Out, "Invalid selection.")
			continue
		}

		p := profiles[choice-1]
		if err := Validate(p, marker); err != nil {
			fmt.Fprintf(s.Out, "%s is not a valid modpack profile (missing %q directory).\n", p.Name, marker)
			continue
		}
		return p, nil
	}
}
