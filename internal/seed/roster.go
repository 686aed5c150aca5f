package seed

import (
	"bytes"
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed roster.yaml
var defaultRoster []byte

const defaultPassword = "password123"

// Roster is the scripted part of the demo dataset.
type Roster struct {
	Departments    []string       `yaml:"departments"`
	Users          []RosterUser   `yaml:"users"`
	GlynacProgress []int          `yaml:"glynacProgress"`
	Messages       []RosterMsg    `yaml:"messages"`
	Filler         FillerMessages `yaml:"filler"`
	Alerts         []RosterAlert  `yaml:"alerts"`
	Files          RosterFiles    `yaml:"files"`
}

// RosterUser describes one employee. Email defaults to first.last@company.com
// and Password to password123.
type RosterUser struct {
	Name        string           `yaml:"name"`
	Email       string           `yaml:"email"`
	Password    string           `yaml:"password"`
	Department  string           `yaml:"department"`
	Admin       bool             `yaml:"admin"`
	Meetings    int              `yaml:"meetings"`
	FocusBlocks int              `yaml:"focusBlocks"`
	Performance *RosterPerf      `yaml:"performance"`
	Retention   *RosterRetention `yaml:"retention"`
}

type RosterPerf struct {
	RespondTime         float64 `yaml:"respondTime"`
	TaskCompletionRate  float64 `yaml:"taskCompletionRate"`
	CommunicationVolume int     `yaml:"communicationVolume"`
	NegativityScore     float64 `yaml:"negativityScore"`
	MeetingAttendance   float64 `yaml:"meetingAttendance"`
	OverdueTasks        int     `yaml:"overdueTasks"`
}

type RosterRetention struct {
	RetentionRisk    int  `yaml:"retentionRisk"`
	ComplaintCount   int  `yaml:"complaintCount"`
	CalendarOverload bool `yaml:"calendarOverload"`
	PositiveLanguage int  `yaml:"positiveLanguage"`
	NegativeLanguage int  `yaml:"negativeLanguage"`
	MeetingLoad      int  `yaml:"meetingLoad"`
}

type RosterMsg struct {
	From    string  `yaml:"from"`
	To      string  `yaml:"to"`
	Score   float64 `yaml:"score"`
	Channel string  `yaml:"channel"`
	Content string  `yaml:"content"`
}

// FillerMessages configures the randomly generated background chatter.
type FillerMessages struct {
	Count    int      `yaml:"count"`
	Channels []string `yaml:"channels"`
	Phrases  []string `yaml:"phrases"`
}

type RosterAlert struct {
	Employee    string `yaml:"employee"`
	Type        string `yaml:"type"`
	Severity    string `yaml:"severity"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type RosterFiles struct {
	Confidential []string `yaml:"confidential"`
	RegularCount int      `yaml:"regularCount"`
	Types        []string `yaml:"types"`
	Creators     []string `yaml:"creators"`
	// Watched users get bursts of confidential file access in the last day.
	Watched []string `yaml:"watched"`
}

// DefaultRoster returns the embedded demo roster.
func DefaultRoster() (Roster, error) {
	return ParseRoster(defaultRoster)
}

// ParseRoster decodes a roster document. Unknown keys are rejected.
func ParseRoster(data []byte) (Roster, error) {
	var roster Roster
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&roster); err != nil {
		return Roster{}, fmt.Errorf("parse roster: %w", err)
	}

	for i := range roster.Users {
		u := &roster.Users[i]
		if u.Email == "" {
			u.Email = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(u.Name)), " ", ".") + "@company.com"
		}
		if u.Password == "" {
			u.Password = defaultPassword
		}
	}

	if err := roster.validate(); err != nil {
		return Roster{}, err
	}
	return roster, nil
}

func (r Roster) validate() error {
	departments := make(map[string]bool, len(r.Departments))
	for _, d := range r.Departments {
		departments[d] = true
	}
	users := make(map[string]bool, len(r.Users))
	for _, u := range r.Users {
		if strings.TrimSpace(u.Name) == "" {
			return fmt.Errorf("roster: user without name")
		}
		if users[u.Name] {
			return fmt.Errorf("roster: duplicate user %q", u.Name)
		}
		users[u.Name] = true
		if u.Department != "" && !departments[u.Department] {
			return fmt.Errorf("roster: user %q references unknown department %q", u.Name, u.Department)
		}
	}

	known := func(kind, name string) error {
		if !users[name] {
			return fmt.Errorf("roster: %s references unknown user %q", kind, name)
		}
		return nil
	}
	for _, m := range r.Messages {
		if err := known("message", m.From); err != nil {
			return err
		}
		if err := known("message", m.To); err != nil {
			return err
		}
		if m.Score < -1 || m.Score > 1 {
			return fmt.Errorf("roster: message score %v out of range", m.Score)
		}
	}
	for _, a := range r.Alerts {
		if err := known("alert", a.Employee); err != nil {
			return err
		}
	}
	for _, name := range append(append([]string{}, r.Files.Creators...), r.Files.Watched...) {
		if err := known("files", name); err != nil {
			return err
		}
	}
	if r.Filler.Count > 0 && (len(r.Filler.Phrases) == 0 || len(r.Filler.Channels) == 0) {
		return fmt.Errorf("roster: filler messages need phrases and channels")
	}
	if r.Files.RegularCount > 0 && len(r.Files.Types) == 0 {
		return fmt.Errorf("roster: regular files need types")
	}
	if len(r.Files.Creators) == 0 && (len(r.Files.Confidential) > 0 || r.Files.RegularCount > 0) {
		return fmt.Errorf("roster: files need creators")
	}
	return nil
}
