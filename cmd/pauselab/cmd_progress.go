package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dtroode/pauselab/internal/model"
	"github.com/dtroode/pauselab/internal/scoring"
)

func (c *cli) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show study progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data := c.app.progress.State().Data
			s := scoring.Summarize(data, c.now())

			c.printf("Device:           %s\n", data.DeviceID)
			if !data.OnboardingComplete {
				c.printf("Onboarding:       not complete (run 'pauselab onboard')\n")
			}
			c.printf("Study week:       %d of %d\n", s.StudyWeek, scoring.StudyWeeks)
			c.printf("Streak:           %d day(s)\n", s.Streak)
			c.printf("Pauses:           %d (felt better %d%%)\n", s.TotalPauses, s.FeltBetterPercent)
			if s.HasAssessment {
				c.printf("Latest result:    %s\n", scoring.BandLabel(s.LatestBand))
			}
			c.printf("Check-ins:        %d\n", len(data.WeeklyCheckIns))
			c.printf("Favourites:       %d\n", len(data.FavouritePauses))
			c.printf("Reminders:        %s\n", onOff(data.RemindersEnabled))
			c.printf("Research consent: %s\n", onOff(data.ResearchConsent))
			return nil
		},
	}
}

func (c *cli) onboardCmd() *cobra.Command {
	var (
		age     int
		gender  string
		scores  string
		skip    bool
		consent bool
	)

	cmd := &cobra.Command{
		Use:   "onboard",
		Short: "Complete onboarding with demographics and the baseline assessment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c.app.progress.State().Data.OnboardingComplete {
				return fmt.Errorf("%w: use assess or demographics to update your answers", model.ErrAlreadyOnboarded)
			}

			demographics, err := parseDemographics(cmd, age, gender)
			if err != nil {
				return err
			}

			answers := scoring.NeutralScores()
			if !skip {
				if answers, err = parseScores(scores); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			if cmd.Flags().Changed("consent") {
				if _, err := c.app.progress.ToggleResearchConsent(ctx, consent); err != nil {
					return err
				}
			}

			assessment := scoring.NewAssessment(answers, c.now())
			if _, err := c.app.progress.CompleteOnboarding(ctx, demographics, assessment); err != nil {
				return err
			}

			c.printf("%s\n%s\n", scoring.BandLabel(assessment.Band), scoring.BandDescription(assessment.Band))
			c.printf("Score %d of %d. Reminders are on.\n", assessment.Total, scoring.QuestionCount*scoring.MaxScore)
			return nil
		},
	}

	cmd.Flags().IntVar(&age, "age", 0, "your age (18 or older)")
	cmd.Flags().StringVar(&gender, "gender", "", "female, male, non-binary or prefer-not-to-say")
	cmd.Flags().StringVar(&scores, "scores", "", "five comma-separated answers from 1 to 5; 0 leaves an item unanswered")
	cmd.Flags().BoolVar(&skip, "skip", false, "skip the assessment and record neutral answers")
	cmd.Flags().BoolVar(&consent, "consent", true, "share anonymised data with the research team")
	cmd.MarkFlagsMutuallyExclusive("scores", "skip")

	return cmd
}

func (c *cli) assessCmd() *cobra.Command {
	var (
		scores string
		show   bool
	)

	cmd := &cobra.Command{
		Use:   "assess",
		Short: "Retake the self-report assessment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if show {
				for i, q := range c.app.catalog.AssessmentQuestions() {
					c.printf("%d. %s\n", i+1, q)
				}
				labels := make([]string, 0, scoring.MaxScore)
				for v := scoring.MinScore; v <= scoring.MaxScore; v++ {
					labels = append(labels, fmt.Sprintf("%d=%s", v, c.app.catalog.LikertLabel(v)))
				}
				c.printf("Answers: %s\n", strings.Join(labels, ", "))
				return nil
			}

			answers, err := parseScores(scores)
			if err != nil {
				return err
			}

			data, err := c.app.progress.SaveAssessment(cmd.Context(), answers)
			if err != nil {
				return err
			}

			latest, _ := data.LatestAssessment()
			c.printf("%s (score %d)\n", scoring.BandLabel(latest.Band), latest.Total)
			return nil
		},
	}

	cmd.Flags().StringVar(&scores, "scores", "", "five comma-separated answers from 1 to 5")
	cmd.Flags().BoolVar(&show, "questions", false, "print the questions and answer scale")

	return cmd
}

func (c *cli) checkinCmd() *cobra.Command {
	var week int

	cmd := &cobra.Command{
		Use:   "checkin <rating>",
		Short: "Record how in control of your tech use you felt this week (0-10)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rating, err := parseRating(args[0])
			if err != nil {
				return err
			}

			data := c.app.progress.State().Data
			if !cmd.Flags().Changed("week") {
				week = scoring.StudyWeekNumber(data.FirstOpenDate, c.now())
			}

			if _, err := c.app.progress.SaveWeeklyCheckIn(cmd.Context(), rating, week); err != nil {
				return err
			}

			c.printf("Week %d check-in saved: %d/10\n", week, rating)
			return nil
		},
	}

	cmd.Flags().IntVar(&week, "week", 0, "study week (defaults to the current one)")

	return cmd
}

func (c *cli) demographicsCmd() *cobra.Command {
	var (
		age    int
		gender string
	)

	cmd := &cobra.Command{
		Use:   "demographics",
		Short: "Replace your optional demographics; omitted flags are cleared",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			demographics, err := parseDemographics(cmd, age, gender)
			if err != nil {
				return err
			}

			data, err := c.app.progress.UpdateDemographics(cmd.Context(), demographics)
			if err != nil {
				return err
			}

			c.printf("Demographics updated: %s\n", describeDemographics(data.Demographics))
			return nil
		},
	}

	cmd.Flags().IntVar(&age, "age", 0, "your age (18 or older)")
	cmd.Flags().StringVar(&gender, "gender", "", "female, male, non-binary or prefer-not-to-say")

	return cmd
}

func describeDemographics(d model.Demographics) string {
	age, gender := "not provided", "not provided"
	if d.Age != nil {
		age = fmt.Sprint(*d.Age)
	}
	if d.Gender != nil {
		gender = string(*d.Gender)
	}
	return fmt.Sprintf("age %s, gender %s", age, gender)
}
