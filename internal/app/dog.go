package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/doglog-app/doglog/internal/journal"
	"github.com/doglog-app/doglog/internal/output"
)

var (
	dogBreed  string
	dogBirth  string
	dogGender string
	dogNotes  string
	dogName   string
	dogYes    bool
)

var dogCmd = &cobra.Command{
	Use:   "dog",
	Short: "Manage dog profiles",
	Long: `Add, list, show, edit and remove dogs. Commands that take a <dog>
argument accept either the dog's id or its name (case-insensitive).`,
}

var dogAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a dog",
	Args:  cobra.ExactArgs(1),
	RunE:  runDogAdd,
}

var dogListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List dogs",
	Args:    cobra.NoArgs,
	RunE:    runDogList,
}

var dogShowCmd = &cobra.Command{
	Use:   "show <dog>",
	Short: "Show a dog's profile and record counts",
	Args:  cobra.ExactArgs(1),
	RunE:  runDogShow,
}

var dogEditCmd = &cobra.Command{
	Use:   "edit <dog>",
	Short: "Edit a dog's profile",
	Long: `Edit a dog's profile. Only the flags given are changed; pass an empty
value (e.g. --birth-date "") to clear an optional field. Editing a profile
drops the dog's cached analyses.`,
	Args: cobra.ExactArgs(1),
	RunE: runDogEdit,
}

var dogRmCmd = &cobra.Command{
	Use:     "rm <dog>",
	Aliases: []string{"remove"},
	Short:   "Delete a dog with all of its records",
	Args:    cobra.ExactArgs(1),
	RunE:    runDogRm,
}

func init() {
	for _, c := range []*cobra.Command{dogAddCmd, dogEditCmd} {
		c.Flags().StringVar(&dogBreed, "breed", "", "Breed")
		c.Flags().StringVar(&dogBirth, "birth-date", "", "Birth date (YYYY-MM-DD)")
		c.Flags().StringVar(&dogGender, "gender", "", "Gender")
		c.Flags().StringVar(&dogNotes, "notes", "", "Free-form notes")
	}
	dogEditCmd.Flags().StringVar(&dogName, "name", "", "New name")
	dogRmCmd.Flags().BoolVarP(&dogYes, "yes", "y", false, "Confirm deletion")

	dogCmd.AddCommand(dogAddCmd, dogListCmd, dogShowCmd, dogEditCmd, dogRmCmd)
	rootCmd.AddCommand(dogCmd)
}

func runDogAdd(cmd *cobra.Command, args []string) error {
	birth, err := parseBirthFlag(dogBirth)
	if err != nil {
		return err
	}

	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	d, err := e.svc.CreateDog(cmd.Context(), journal.DogInput{
		Name:      args[0],
		Breed:     dogBreed,
		BirthDate: birth,
		Gender:    dogGender,
		Notes:     dogNotes,
	})
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(w, d)
	}
	fmt.Fprintf(w, " %s Added %s (%s)\n", output.StyleSuccess.Render("✓"), output.StyleBold.Render(d.Name), d.ID)
	return nil
}

func runDogList(cmd *cobra.Command, _ []string) error {
	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	dogs, err := e.svc.ListDogs(cmd.Context())
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(w, dogs)
	}
	if len(dogs) == 0 {
		fmt.Fprintln(w, " No dogs yet. Add one with: doglog dog add <name>")
		return nil
	}

	tbl := output.NewTable("Name", "Breed", "Gender", "Age", "ID")
	for _, d := range dogs {
		tbl.AddRow(d.Name, orDash(d.Breed), orDash(d.Gender), ageString(d.BirthDate, e.now()), d.ID)
	}
	tbl.Fprint(w)
	return nil
}

type dogDetail struct {
	journal.Dog   `yaml:",inline"`
	ActivityCount int    `json:"activity_count" yaml:"activity_count"`
	RatingCount   int    `json:"rating_count" yaml:"rating_count"`
	FirstLogged   string `json:"first_logged,omitempty" yaml:"first_logged,omitempty"`
	LastLogged    string `json:"last_logged,omitempty" yaml:"last_logged,omitempty"`
}

func runDogShow(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	d, err := e.svc.ResolveDog(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	j, err := e.svc.Journal(cmd.Context(), d.ID)
	if err != nil {
		return err
	}

	detail := dogDetail{Dog: d, ActivityCount: len(j.Activities), RatingCount: len(j.Ratings)}
	if first, last, ok := journalSpan(j); ok {
		detail.FirstLogged = journal.DayKey(first)
		detail.LastLogged = journal.DayKey(last)
	}

	w := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(w, detail)
	}

	fmt.Fprintln(w, output.Section(d.Name))
	row := func(label, value string) {
		fmt.Fprintf(w, " %s %s\n", output.StyleLabel.Render(label), value)
	}
	row("ID", d.ID)
	row("Breed", orDash(d.Breed))
	row("Gender", orDash(d.Gender))
	if d.BirthDate != nil {
		row("Birth date", fmt.Sprintf("%s (%s)", journal.DayKey(*d.BirthDate), ageString(d.BirthDate, e.now())))
	} else {
		row("Birth date", "-")
	}
	row("Activities logged", fmt.Sprintf("%d", detail.ActivityCount))
	row("Days rated", fmt.Sprintf("%d", detail.RatingCount))
	if detail.FirstLogged != "" {
		row("Logged between", detail.FirstLogged+" .. "+detail.LastLogged)
	}
	if d.Notes != "" {
		row("Notes", d.Notes)
	}
	return nil
}

func runDogEdit(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	d, err := e.svc.ResolveDog(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	in := journal.DogInput{
		Name:      d.Name,
		Breed:     d.Breed,
		BirthDate: d.BirthDate,
		Gender:    d.Gender,
		Notes:     d.Notes,
	}
	flags := cmd.Flags()
	if flags.Changed("name") {
		in.Name = dogName
	}
	if flags.Changed("breed") {
		in.Breed = dogBreed
	}
	if flags.Changed("gender") {
		in.Gender = dogGender
	}
	if flags.Changed("notes") {
		in.Notes = dogNotes
	}
	if flags.Changed("birth-date") {
		if in.BirthDate, err = parseBirthFlag(dogBirth); err != nil {
			return err
		}
	}

	updated, err := e.svc.UpdateDog(cmd.Context(), d.ID, in)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if flagJSON {
		return writeJSON(w, updated)
	}
	fmt.Fprintf(w, " %s Updated %s\n", output.StyleSuccess.Render("✓"), output.StyleBold.Render(updated.Name))
	return nil
}

func runDogRm(cmd *cobra.Command, args []string) error {
	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()

	d, err := e.svc.ResolveDog(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if !dogYes {
		return fmt.Errorf("deleting %s removes every activity and rating; re-run with --yes to confirm", d.Name)
	}
	if err := e.svc.DeleteDog(cmd.Context(), d.ID); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), " %s Deleted %s\n", output.StyleSuccess.Render("✓"), d.Name)
	return nil
}

// parseBirthFlag parses a YYYY-MM-DD date in local time; "" means unknown.
func parseBirthFlag(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, nowFunc().Location())
	if err != nil {
		return nil, fmt.Errorf("invalid birth date %q (want YYYY-MM-DD)", s)
	}
	return &t, nil
}

// journalSpan returns the earliest and latest record dates.
func journalSpan(j journal.Journal) (first, last time.Time, ok bool) {
	visit := func(t time.Time) {
		if !ok || t.Before(first) {
			first = t
		}
		if !ok || t.After(last) {
			last = t
		}
		ok = true
	}
	for _, a := range j.Activities {
		visit(a.Date)
	}
	for _, r := range j.Ratings {
		visit(r.Date)
	}
	return first, last, ok
}
