// Package seed populates an empty database with a deterministic demo dataset.
package seed

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/example/workplace-insights/internal/application"
	"github.com/example/workplace-insights/internal/persistence"
)

const (
	messageHistory  = 90 * 24 * time.Hour
	alertWindowDays = 30
	calendarPast    = 30
	calendarAhead   = 14
	activityDays    = 14
	fileAgeDays     = 30
	flaggedPerAlert = 3
)

var fileActions = []string{"view", "edit", "download", "share"}

// Repositories are the stores the loader writes through.
type Repositories struct {
	Departments persistence.DepartmentRepository
	Users       persistence.UserRepository
	Messages    persistence.MessageRepository
	Alerts      persistence.AlertRepository
	Calendar    persistence.CalendarRepository
	Metrics     persistence.MetricsRepository
	Files       persistence.FileRepository
}

// Options tune a Load call. Zero values select the embedded roster, the
// current time, UTC, seed 0 and argon2id password hashing.
type Options struct {
	Roster       *Roster
	Now          time.Time
	Location     *time.Location
	Seed         uint64
	HashPassword func(password string) (string, error)
	Logger       *slog.Logger
}

// Summary counts the records a Load call wrote.
type Summary struct {
	Skipped        bool
	Users          int
	Messages       int
	Alerts         int
	CalendarItems  int
	Files          int
	FileActivities int
}

// Load writes the demo dataset unless the database already holds users.
// The same seed and Now always produce the same records.
func Load(ctx context.Context, repos Repositories, opts Options) (Summary, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "seed")

	existing, err := repos.Users.CountUsers(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("count users: %w", err)
	}
	if existing > 0 {
		logger.InfoContext(ctx, "database already populated, skipping seed", "users", existing)
		return Summary{Skipped: true}, nil
	}

	roster := opts.Roster
	if roster == nil {
		parsed, err := DefaultRoster()
		if err != nil {
			return Summary{}, err
		}
		roster = &parsed
	}

	g := newGenerator(repos, opts)
	steps := []struct {
		name string
		fn   func(context.Context, *Roster) error
	}{
		{"departments", g.departments},
		{"users", g.users},
		{"glynac scores", g.scores},
		{"messages", g.messages},
		{"metrics", g.metrics},
		{"alerts", g.alerts},
		{"calendar", g.calendar},
		{"files", g.files},
	}
	for _, step := range steps {
		if err := step.fn(ctx, roster); err != nil {
			return g.summary, fmt.Errorf("seed %s: %w", step.name, err)
		}
	}

	logger.InfoContext(ctx, "demo data seeded",
		"users", g.summary.Users,
		"messages", g.summary.Messages,
		"alerts", g.summary.Alerts,
		"calendar_items", g.summary.CalendarItems,
		"files", g.summary.Files,
		"file_activities", g.summary.FileActivities,
	)
	return g.summary, nil
}

type generator struct {
	repos Repositories
	rng   *rand.Rand
	ids   io.Reader
	now   time.Time
	loc   *time.Location
	hash  func(string) (string, error)

	byName   map[string]persistence.User
	staff    []persistence.User
	everyone []persistence.User
	sent     []persistence.Message
	summary  Summary
}

func newGenerator(repos Repositories, opts Options) *generator {
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	hash := opts.HashPassword
	if hash == nil {
		hash = application.HashPassword
	}

	var key [32]byte
	binary.LittleEndian.PutUint64(key[:8], opts.Seed)
	copy(key[8:], "workplace-insights-ids")

	return &generator{
		repos:  repos,
		rng:    rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		ids:    rand.NewChaCha8(key),
		now:    now.In(loc),
		loc:    loc,
		hash:   hash,
		byName: make(map[string]persistence.User),
	}
}

// id draws a UUID from the seeded stream so identifiers are reproducible.
func (g *generator) id() string {
	id, err := uuid.NewRandomFromReader(g.ids)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (g *generator) daysAgo(days int) time.Time {
	return g.now.AddDate(0, 0, -g.rng.IntN(days))
}

func (g *generator) departments(ctx context.Context, r *Roster) error {
	for _, name := range r.Departments {
		if err := g.repos.Departments.CreateDepartment(ctx, persistence.Department{ID: g.id(), Name: name}); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

func (g *generator) users(ctx context.Context, r *Roster) error {
	hashes := make(map[string]string)
	for _, ru := range r.Users {
		hash, ok := hashes[ru.Password]
		if !ok {
			var err error
			hash, err = g.hash(ru.Password)
			if err != nil {
				return fmt.Errorf("hash password for %s: %w", ru.Name, err)
			}
			hashes[ru.Password] = hash
		}

		joined := g.now.AddDate(-1, -g.rng.IntN(36), 0)
		user := persistence.User{
			ID:           g.id(),
			Name:         ru.Name,
			Email:        ru.Email,
			PasswordHash: hash,
			Department:   ru.Department,
			IsAdmin:      ru.Admin,
			JoinDate:     joined,
			CreatedAt:    g.now,
			UpdatedAt:    g.now,
		}
		if err := g.repos.Users.CreateUser(ctx, user); err != nil {
			return fmt.Errorf("%s: %w", ru.Name, err)
		}

		g.byName[ru.Name] = user
		g.everyone = append(g.everyone, user)
		if !ru.Admin {
			g.staff = append(g.staff, user)
		}
		g.summary.Users++
	}
	return nil
}

// scores records one composite score per month, oldest first, so the last
// entry of GlynacProgress is the current month.
func (g *generator) scores(ctx context.Context, r *Roster) error {
	n := len(r.GlynacProgress)
	day := min(g.now.Day(), 28)
	for i, overall := range r.GlynacProgress {
		monthsAgo := n - 1 - i
		date := time.Date(g.now.Year(), g.now.Month()-time.Month(monthsAgo), day, 0, 0, 0, 0, g.loc)
		score := persistence.GlynacScore{
			ID:            g.id(),
			Date:          date,
			Overall:       overall,
			Communication: 65 + g.rng.IntN(15),
			Workload:      75 + g.rng.IntN(10),
			Wellbeing:     68 + g.rng.IntN(12),
		}
		if err := g.repos.Metrics.CreateGlynacScore(ctx, score); err != nil {
			return err
		}
	}
	return nil
}

// classify derives the sentiment flags from a score in [-1, 1].
func classify(score float64) (positive, negative, neutral bool) {
	switch {
	case score >= 0.3:
		return true, false, false
	case score <= -0.3:
		return false, true, false
	default:
		return false, false, true
	}
}

func (g *generator) messages(ctx context.Context, r *Roster) error {
	scripted := make([]RosterMsg, 0, len(r.Messages)+r.Filler.Count)
	scripted = append(scripted, r.Messages...)

	if len(g.everyone) > 1 {
		for range r.Filler.Count {
			from := g.rng.IntN(len(g.everyone))
			to := g.rng.IntN(len(g.everyone) - 1)
			if to >= from {
				to++
			}
			scripted = append(scripted, RosterMsg{
				From:    g.everyone[from].Name,
				To:      g.everyone[to].Name,
				Score:   float64(int(g.rng.Float64()*60)) / 100,
				Channel: r.Filler.Channels[g.rng.IntN(len(r.Filler.Channels))],
				Content: r.Filler.Phrases[g.rng.IntN(len(r.Filler.Phrases))],
			})
		}
	}

	for _, m := range scripted {
		channel := m.Channel
		if channel == "" {
			channel = "email"
		}
		positive, negative, neutral := classify(m.Score)
		msg := persistence.Message{
			ID:             g.id(),
			SenderID:       g.byName[m.From].ID,
			ReceiverID:     g.byName[m.To].ID,
			Content:        m.Content,
			SentimentScore: m.Score,
			IsPositive:     positive,
			IsNegative:     negative,
			IsNeutral:      neutral,
			Channel:        channel,
			SentAt:         g.now.Add(-time.Duration(g.rng.Int64N(int64(messageHistory)))),
		}
		if err := g.repos.Messages.CreateMessage(ctx, msg); err != nil {
			return err
		}
		g.sent = append(g.sent, msg)
		g.summary.Messages++
	}
	return nil
}

func (g *generator) metrics(ctx context.Context, r *Roster) error {
	for _, ru := range r.Users {
		userID := g.byName[ru.Name].ID
		if p := ru.Performance; p != nil {
			err := g.repos.Metrics.UpsertPerformance(ctx, persistence.PerformanceData{
				UserID:              userID,
				RespondTime:         p.RespondTime,
				TaskCompletionRate:  p.TaskCompletionRate,
				CommunicationVolume: p.CommunicationVolume,
				NegativityScore:     p.NegativityScore,
				MeetingAttendance:   p.MeetingAttendance,
				OverdueTasks:        p.OverdueTasks,
			})
			if err != nil {
				return fmt.Errorf("performance for %s: %w", ru.Name, err)
			}
		}
		if rt := ru.Retention; rt != nil {
			err := g.repos.Metrics.UpsertRetention(ctx, persistence.RetentionData{
				UserID:           userID,
				RetentionRisk:    rt.RetentionRisk,
				ComplaintCount:   rt.ComplaintCount,
				CalendarOverload: rt.CalendarOverload,
				PositiveLanguage: rt.PositiveLanguage,
				NegativeLanguage: rt.NegativeLanguage,
				MeetingLoad:      rt.MeetingLoad,
			})
			if err != nil {
				return fmt.Errorf("retention for %s: %w", ru.Name, err)
			}
		}
	}
	return nil
}

func (g *generator) alerts(ctx context.Context, r *Roster) error {
	for _, ra := range r.Alerts {
		employee := g.byName[ra.Employee]
		alert := persistence.RiskAlert{
			ID:          g.id(),
			EmployeeID:  employee.ID,
			Type:        ra.Type,
			Severity:    ra.Severity,
			Title:       ra.Title,
			Description: ra.Description,
			Timestamp:   g.daysAgo(alertWindowDays).Add(-time.Duration(g.rng.IntN(8*60)) * time.Minute),
		}

		var flagged []string
		if ra.Type == string(application.AlertTypeHarassment) {
			flagged = g.negativeMessagesFrom(employee.ID, flaggedPerAlert)
		}
		if err := g.repos.Alerts.CreateAlert(ctx, alert, flagged); err != nil {
			return fmt.Errorf("%s: %w", ra.Title, err)
		}
		g.summary.Alerts++
	}
	return nil
}

// negativeMessagesFrom returns up to limit negative messages by sender, newest first.
func (g *generator) negativeMessagesFrom(senderID string, limit int) []string {
	var matches []persistence.Message
	for _, m := range g.sent {
		if m.SenderID == senderID && m.IsNegative {
			matches = append(matches, m)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].SentAt.After(matches[j].SentAt) })

	ids := make([]string, 0, min(limit, len(matches)))
	for _, m := range matches[:min(limit, len(matches))] {
		ids = append(ids, m.ID)
	}
	return ids
}

func (g *generator) calendar(ctx context.Context, r *Roster) error {
	for _, ru := range r.Users {
		if ru.Admin {
			continue
		}
		user := g.byName[ru.Name]
		for i := range ru.Meetings {
			if err := g.book(ctx, user, fmt.Sprintf("Meeting %d", i+1), time.Hour, false); err != nil {
				return err
			}
		}
		for range ru.FocusBlocks {
			if err := g.book(ctx, user, "Focus Time", 2*time.Hour, true); err != nil {
				return err
			}
		}
	}
	return nil
}

// book places an item on a random working hour between calendarPast days ago
// and calendarAhead days ahead.
func (g *generator) book(ctx context.Context, user persistence.User, title string, length time.Duration, focus bool) error {
	day := g.now.AddDate(0, 0, g.rng.IntN(calendarPast+calendarAhead)-calendarPast)
	start := time.Date(day.Year(), day.Month(), day.Day(), 9+g.rng.IntN(8), 0, 0, 0, g.loc)
	item := persistence.CalendarItem{
		ID:          g.id(),
		UserID:      user.ID,
		Title:       title,
		Start:       start,
		End:         start.Add(length),
		IsFocusTime: focus,
	}
	if !focus {
		item.IsRecurring = g.rng.Float64() > 0.7
		item.IsOptional = g.rng.Float64() > 0.8
	}
	if err := g.repos.Calendar.CreateCalendarItem(ctx, item); err != nil {
		return fmt.Errorf("%s for %s: %w", title, user.Name, err)
	}
	g.summary.CalendarItems++
	return nil
}

func (g *generator) files(ctx context.Context, r *Roster) error {
	creator := func() persistence.User {
		return g.byName[r.Files.Creators[g.rng.IntN(len(r.Files.Creators))]]
	}

	confidential := make([]persistence.File, 0, len(r.Files.Confidential))
	for _, name := range r.Files.Confidential {
		file := persistence.File{
			ID:           g.id(),
			Name:         name,
			Path:         "/documents/confidential/" + name,
			Type:         strings.TrimPrefix(path.Ext(name), "."),
			CreatorID:    creator().ID,
			LastModified: g.daysAgo(fileAgeDays),
		}
		if err := g.createFile(ctx, file); err != nil {
			return err
		}
		confidential = append(confidential, file)
	}

	for i := 1; i <= r.Files.RegularCount; i++ {
		ext := r.Files.Types[g.rng.IntN(len(r.Files.Types))]
		file := persistence.File{
			ID:           g.id(),
			Name:         fmt.Sprintf("Document_%d.%s", i, ext),
			Path:         fmt.Sprintf("/documents/doc_%d.%s", i, ext),
			Type:         ext,
			CreatorID:    creator().ID,
			LastModified: g.daysAgo(fileAgeDays),
		}
		if err := g.createFile(ctx, file); err != nil {
			return err
		}
		if len(g.staff) == 0 {
			continue
		}
		for range 1 + g.rng.IntN(3) {
			user := g.staff[g.rng.IntN(len(g.staff))]
			action := fileActions[g.rng.IntN(len(fileActions))]
			if err := g.access(ctx, user, file, action, g.daysAgo(activityDays)); err != nil {
				return err
			}
		}
	}

	for _, name := range r.Files.Watched {
		user := g.byName[name]
		for _, file := range confidential {
			for range 3 + g.rng.IntN(5) {
				action := "download"
				if g.rng.Float64() > 0.5 {
					action = "view"
				}
				at := g.now.Add(-time.Duration(g.rng.Int64N(int64(24 * time.Hour))))
				if err := g.access(ctx, user, file, action, at); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (g *generator) createFile(ctx context.Context, file persistence.File) error {
	if err := g.repos.Files.CreateFile(ctx, file); err != nil {
		return fmt.Errorf("%s: %w", file.Name, err)
	}
	g.summary.Files++
	return nil
}

func (g *generator) access(ctx context.Context, user persistence.User, file persistence.File, action string, at time.Time) error {
	err := g.repos.Files.CreateFileActivity(ctx, persistence.FileActivity{
		ID:        g.id(),
		FileID:    file.ID,
		UserID:    user.ID,
		Action:    action,
		Timestamp: at,
	})
	if err != nil {
		return fmt.Errorf("%s %s by %s: %w", action, file.Name, user.Name, err)
	}
	g.summary.FileActivities++
	return nil
}
