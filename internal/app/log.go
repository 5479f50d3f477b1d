package app

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/doglog-app/doglog/internal/journal"
	"github.com/doglog-app/doglog/internal/output"
)

var (
	logDate       string
	logActivities []string
	logRating     string
	logNote       string
	logAppend     bool
	logShow       bool
)

var logCmd = &cobra.Command{
	Use:   "log <dog>",
	Short: "Log a day's activities and rating",
	Long: `Record what a dog did on one day and how the day went. Each --activity
is TYPE=OUTCOME with an optional :NOTE, where OUTCOME is good, okay or bad.

By default the day's log is replaced with what you pass, the same way the
app re-saves a day. Use --append to add to what is already logged.

Examples:
  doglog log Rex --activity Walk=good --activity "Vet Visit=bad:nervous in the car" --rating okay
  doglog log Rex --date 2024-03-14 --rating good --note "calm all day"
  doglog log Rex --append --activity Fetch=good
  doglog log Rex --show --date 2024-03-14`,
	Args: cobra.ExactArgs(1),
	RunE: runLog,
}

func init() {
	logCmd.Flags().StringVar(&logDate, "date", "", "Day to log (YYYY-MM-DD, default today)")
	logCmd.Flags().StringArrayVarP(&logActivities, "activity", "a", nil, "Activity as TYPE=OUTCOME[:NOTE] (repeatable)")
	logCmd.Flags().StringVarP(&logRating, "rating", "r", "", "Overall rating for the day (good, okay, bad)")
	logCmd.Flags().StringVar(&logNote, "note", "", "Note for the day's rating")
	logCmd.Flags().BoolVar(&logAppend, "append", false, "Add to the day's existing log instead of replacing it")
	logCmd.Flags().BoolVar(&logShow, "show", false, "Show the day's log without changing it")
	rootCmd.AddCommand(logCmd)
}

func runLog(cmd *cobra.Command, args []string) error {
	day, err := parseDayFlag(logDate)
	if err != nil {
		return err
	}
	acts, err := parseActivityFlags(logActivities)
	if err != nil {
		return err
	}
	var rating string
	if strings.TrimSpace(logRating) != "" {
		o, err := journal.ParseOutcome(logRating)
		if err != nil {
			return err
		}
		rating = string(o)
	}

	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	d, err := e.svc.ResolveDog(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if logShow {
		current, err := e.svc.Day(cmd.Context(), d.ID, day)
		if err != nil {
			return err
		}
		if flagJSON {
			return writeJSON(w, current)
		}
		renderDay(w, d.Name, current)
		return nil
	}

	if len(acts) == 0 && rating == "" && !logAppend {
		return fmt.Errorf("nothing to log: pass --activity and/or --rating (or --show)")
	}

	in := journal.DayInput{Activities: acts, Rating: rating, RatingNotes: logNote}
	if logAppend {
		current, err := e.svc.Day(cmd.Context(), d.ID, day)
		if err != nil {
			return err
		}
		in = mergeDay(current, in)
	}

	saved, err := e.svc.SaveDay(cmd.Context(), d.ID, day, in)
	if err != nil {
		return err
	}

	if flagJSON {
		return writeJSON(w, saved)
	}
	renderDay(w, d.Name, saved)
	return nil
}

// parseDayFlag returns the instant a day's records are stamped with: now for
// today (or ""), else noon of the given date.
func parseDayFlag(s string) (time.Time, error) {
	now := nowFunc()
	s = strings.TrimSpace(s)
	if s == "" || s == "today" {
		return now, nil
	}
	if s == "yesterday" {
		return atNoon(now.AddDate(0, 0, -1)), nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	if journal.DayKey(t) == journal.DayKey(now) {
		return now, nil
	}
	return atNoon(t), nil
}

func atNoon(t time.Time) time.Time {
	return journal.StartOfDay(t).Add(12 * time.Hour)
}

// parseActivityFlags parses TYPE=OUTCOME[:NOTE] values.
func parseActivityFlags(values []string) ([]journal.ActivityInput, error) {
	out := make([]journal.ActivityInput, 0, len(values))
	for _, v := range values {
		name, rest, ok := strings.Cut(v, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid activity %q (want TYPE=OUTCOME[:NOTE])", v)
		}
		label, note, _ := strings.Cut(rest, ":")
		outcome, err := journal.ParseOutcome(label)
		if err != nil {
			return nil, fmt.Errorf("activity %q: %w", name, err)
		}
		out = append(out, journal.ActivityInput{
			ActivityType: name,
			Outcome:      string(outcome),
			Notes:        strings.TrimSpace(note),
		})
	}
	return out, nil
}

// mergeDay keeps what is already logged on a day and adds in. A rating in
// in replaces the existing one.
func mergeDay(current journal.Day, in journal.DayInput) journal.DayInput {
	merged := journal.DayInput{
		Activities:  make([]journal.ActivityInput, 0, len(current.Activities)+len(in.Activities)),
		Rating:      in.Rating,
		RatingNotes: in.RatingNotes,
	}
	for _, a := range current.Activities {
		at := a.Date
		merged.Activities = append(merged.Activities, journal.ActivityInput{
			ActivityType: a.ActivityType,
			Outcome:      string(a.Outcome),
			Notes:        a.Notes,
			Time:         &at,
		})
	}
	merged.Activities = append(merged.Activities, in.Activities...)
	if merged.Rating == "" && current.Rating != nil && current.Rating.Rating.Valid() {
		merged.Rating = string(current.Rating.Rating)
		if merged.RatingNotes == "" {
			merged.RatingNotes = current.Rating.Notes
		}
	}
	return merged
}

func renderDay(w io.Writer, dogName string, day journal.Day) {
	fmt.Fprintln(w, output.Section(fmt.Sprintf("%s · %s", dogName, day.Date)))
	if len(day.Activities) == 0 {
		fmt.Fprintln(w, " No activities logged.")
	} else {
		tbl := output.NewTable("Time", "Activity", "Outcome", "Notes")
		for _, a := range day.Activities {
			tbl.AddRow(a.Date.Format("15:04"), a.ActivityType, output.Outcome(string(a.Outcome)), a.Notes)
		}
		tbl.Fprint(w)
	}

	fmt.Fprintln(w)
	if day.Rating == nil || !day.Rating.Rating.Valid() {
		fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Day rating"), output.StyleMuted.Render("not rated"))
		return
	}
	fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Day rating"), output.Outcome(string(day.Rating.Rating)))
	if day.Rating.Notes != "" {
		fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render("Notes"), day.Rating.Notes)
	}
}
